package handler

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/harukimori/orderdesk-api/internal/application/service"
	"github.com/harukimori/orderdesk-api/internal/presentation/http/dto/response"
)

const oauthStateCookie = "oauth_state"

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// GoogleAuth redirects the user to the Google consent screen
// @Summary Start Google sign-in
// @Tags auth
// @Router /auth/google [get]
func (h *AuthHandler) GoogleAuth(c *gin.Context) {
	state := uuid.New().String()

	authURL, err := h.authService.GoogleAuthURL(state)
	if err != nil {
		response.Error(c, err)
		return
	}

	// The state round-trips through a short-lived cookie for CSRF protection.
	c.SetCookie(oauthStateCookie, state, 600, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// GoogleCallback completes the OAuth flow and hands tokens to the frontend
// @Summary Google OAuth callback
// @Tags auth
// @Router /auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	state := c.Query("state")
	cookieState, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != cookieState {
		h.redirectError(c, "invalid_state")
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		h.redirectError(c, "missing_code")
		return
	}

	pair, userInfo, err := h.authService.GoogleCallback(c.Request.Context(), code)
	if err != nil {
		h.redirectError(c, "exchange_failed")
		return
	}

	successURL := h.authService.FrontendSuccessURL()
	if successURL == "" {
		response.OK(c, "Login successful", gin.H{
			"user": gin.H{
				"email": userInfo.Email,
				"name":  userInfo.Name,
			},
			"access_token":  pair.AccessToken,
			"refresh_token": pair.RefreshToken,
			"token_type":    pair.TokenType,
		})
		return
	}

	redirect := fmt.Sprintf("%s?access_token=%s&refresh_token=%s",
		successURL,
		url.QueryEscape(pair.AccessToken),
		url.QueryEscape(pair.RefreshToken),
	)
	c.Redirect(http.StatusTemporaryRedirect, redirect)
}

func (h *AuthHandler) redirectError(c *gin.Context, reason string) {
	errorURL := h.authService.FrontendErrorURL()
	if errorURL == "" {
		response.BadRequest(c, "Google sign-in failed: "+reason)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, fmt.Sprintf("%s?error=%s", errorURL, url.QueryEscape(reason)))
}

// RefreshToken exchanges a refresh token for a fresh pair
// @Summary Refresh tokens
// @Tags auth
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Refresh token is required")
		return
	}

	pair, err := h.authService.Refresh(req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Token refreshed", gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"token_type":    pair.TokenType,
	})
}

// GetProfile returns the identity carried by the access token
// @Summary Current user profile
// @Tags auth
// @Router /profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	response.OK(c, "Profile retrieved", gin.H{
		"id":    userID,
		"email": GetUserEmail(c),
		"name":  GetUserName(c),
	})
}
