package handler

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harukimori/orderdesk-api/internal/application/service"
	"github.com/harukimori/orderdesk-api/internal/presentation/http/dto/response"
	"github.com/harukimori/orderdesk-api/internal/tasks"
)

// ExportHandler serves order document downloads and schedules the async
// export pipeline.
type ExportHandler struct {
	orderService  *service.OrderService
	exportService *service.ExportService
	enqueuer      *tasks.Enqueuer
}

// NewExportHandler creates a new export handler
func NewExportHandler(orderService *service.OrderService, exportService *service.ExportService, enqueuer *tasks.Enqueuer) *ExportHandler {
	return &ExportHandler{
		orderService:  orderService,
		exportService: exportService,
		enqueuer:      enqueuer,
	}
}

// DownloadPDF streams the rendered order PDF
// @Summary Download an order as PDF
// @Tags orders
// @Router /orders/{id}/pdf [get]
func (h *ExportHandler) DownloadPDF(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	pdf, filename, err := h.exportService.GeneratePDF(order)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(200, "application/pdf", pdf)
}

// ExportJSON streams the filtered collection as a JSON download
// @Summary Export filtered orders as JSON
// @Tags orders
// @Router /orders/export [get]
func (h *ExportHandler) ExportJSON(c *gin.Context) {
	params := parseFilterParams(c)

	orders, err := h.orderService.ListFiltered(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	data, err := h.exportService.ExportJSON(orders)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := service.JSONExportFilename(params.Mode, params.SelectedMonth, time.Now())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(200, "application/json", data)
}

// EnqueueExport schedules the render-upload-email pipeline for one order
// @Summary Export an order to the document drive and email it
// @Tags orders
// @Router /orders/{id}/export [post]
func (h *ExportHandler) EnqueueExport(c *gin.Context) {
	// The recipient is optional, so an empty body is fine.
	var req struct {
		Recipient string `json:"recipient"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "Invalid request body")
		return
	}

	id := c.Param("id")

	// Resolve the order first so a bad id fails fast instead of inside the
	// worker.
	if _, err := h.orderService.GetOrder(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.enqueuer.EnqueueOrderExport(c.Request.Context(), id, req.Recipient); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, 202, "Export scheduled", gin.H{"order_id": id})
}
