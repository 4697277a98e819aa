package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/harukimori/orderdesk-api/pkg/apperror"
	"github.com/harukimori/orderdesk-api/pkg/oauth"
	"github.com/harukimori/orderdesk-api/pkg/utils"
)

// AuthService signs users in through Google and issues service tokens.
// There is no local user database: identity lives entirely in the token
// claims, derived from the Google profile.
type AuthService struct {
	google     *oauth.GoogleOAuthService
	jwtManager *utils.JWTManager
}

// NewAuthService creates a new auth service
func NewAuthService(google *oauth.GoogleOAuthService, jwtManager *utils.JWTManager) *AuthService {
	return &AuthService{
		google:     google,
		jwtManager: jwtManager,
	}
}

// TokenPair is the credential set returned after sign-in.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// GoogleAuthURL returns the consent URL to redirect the user to.
func (s *AuthService) GoogleAuthURL(state string) (string, error) {
	if !s.google.IsConfigured() {
		return "", apperror.NewBadRequestError("Google OAuth is not configured")
	}
	return s.google.GetAuthURL(state), nil
}

// GoogleCallback exchanges the authorization code for a Google profile and
// issues the service token pair.
func (s *AuthService) GoogleCallback(ctx context.Context, code string) (*TokenPair, *oauth.GoogleUserInfo, error) {
	token, err := s.google.ExchangeCode(ctx, code)
	if err != nil {
		return nil, nil, apperror.NewBadRequestError("Invalid authorization code")
	}

	userInfo, err := s.google.GetUserInfo(ctx, token)
	if err != nil {
		return nil, nil, apperror.NewAppError(502, "Failed to fetch Google profile")
	}

	pair, err := s.issueTokens(userInfo.Email, userInfo.Name)
	if err != nil {
		return nil, nil, err
	}
	return pair, userInfo, nil
}

// FrontendSuccessURL is where the browser lands after a successful sign-in.
func (s *AuthService) FrontendSuccessURL() string {
	return s.google.GetFrontendSuccessURL()
}

// FrontendErrorURL is where the browser lands when sign-in fails.
func (s *AuthService) FrontendErrorURL() string {
	return s.google.GetFrontendErrorURL()
}

// Refresh validates a refresh token and issues a fresh pair.
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}
	return s.issueTokens(claims.Email, claims.Name)
}

func (s *AuthService) issueTokens(email, name string) (*TokenPair, error) {
	// Derive a stable user id from the email so tokens issued across
	// sessions agree on the subject.
	userID := uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email))

	access, err := s.jwtManager.GenerateAccessToken(userID, email, name)
	if err != nil {
		return nil, apperror.ErrInternalServer
	}
	refresh, err := s.jwtManager.GenerateRefreshToken(userID, email, name)
	if err != nil {
		return nil, apperror.ErrInternalServer
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
	}, nil
}
