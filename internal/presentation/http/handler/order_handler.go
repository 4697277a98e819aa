package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harukimori/orderdesk-api/internal/application/service"
	"github.com/harukimori/orderdesk-api/internal/domain/enum"
	"github.com/harukimori/orderdesk-api/internal/domain/repository"
	"github.com/harukimori/orderdesk-api/internal/presentation/http/dto/response"
	"github.com/harukimori/orderdesk-api/pkg/pagination"
)

// OrderHandler handles purchase order HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// parseFilterParams reads the shared filter query string: search, mode,
// year and month for the selected window, plus pagination.
func parseFilterParams(c *gin.Context) *repository.OrderFilterParams {
	params := &repository.OrderFilterParams{
		Search: c.Query("search"),
		Mode:   enum.ParseFilterMode(c.Query("mode")),
	}

	year, errY := strconv.Atoi(c.Query("year"))
	month, errM := strconv.Atoi(c.Query("month"))
	if errY == nil && errM == nil && month >= 1 && month <= 12 {
		params.SelectedMonth = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	}

	var p pagination.PaginationParams
	if err := c.ShouldBindQuery(&p); err == nil {
		p.Validate()
		params.Pagination = &p
	}

	return params
}

// Create handles order creation
// @Summary Create a purchase order
// @Tags orders
// @Router /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req service.OrderFormInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Order created", order)
}

// List returns the filtered management view
// @Summary List purchase orders
// @Tags orders
// @Router /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	params := parseFilterParams(c)

	result, err := h.orderService.ListOrders(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Orders retrieved", result)
}

// Stats returns the aggregates for the filtered view
// @Summary Order statistics
// @Tags orders
// @Router /orders/stats [get]
func (h *OrderHandler) Stats(c *gin.Context) {
	params := parseFilterParams(c)

	stats, err := h.orderService.Stats(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Statistics retrieved", stats)
}

// Get returns a single order
// @Summary Get a purchase order
// @Tags orders
// @Router /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved", order)
}

// Update rebuilds an order from form input
// @Summary Update a purchase order
// @Tags orders
// @Router /orders/{id} [put]
func (h *OrderHandler) Update(c *gin.Context) {
	var req service.OrderFormInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.orderService.UpdateOrder(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order updated", order)
}

// Delete removes an order
// @Summary Delete a purchase order
// @Tags orders
// @Router /orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.orderService.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Clear deletes the whole collection
// @Summary Delete all purchase orders
// @Tags orders
// @Router /orders [delete]
func (h *OrderHandler) Clear(c *gin.Context) {
	if err := h.orderService.ClearOrders(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
