package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/bizbooks/internal/core/ports/services"
	"github.com/SscSPs/bizbooks/internal/dto"
	"github.com/SscSPs/bizbooks/internal/middleware"
)

// invoiceHandler handles HTTP requests related to tax invoices.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
}

// registerInvoiceRoutes registers routes related to invoices.
func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade) {
	h := &invoiceHandler{invoiceService: invoiceService}

	invoices := rg.Group("/invoices")
	{
		invoices.POST("/preview", h.previewInvoice)
		invoices.POST("", h.createInvoice)
		invoices.GET("", h.listInvoices)
		invoices.GET("/:id", h.getInvoice)
	}
}

// previewInvoice godoc
// @Summary Price an invoice without storing it
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   invoice body dto.CreateInvoiceRequest true "Invoice details"
// @Success 200 {object} domain.InvoiceReceipt
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /invoices/preview [post]
func (h *invoiceHandler) previewInvoice(c *gin.Context) {
	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}
	receipt, err := h.invoiceService.PreviewInvoice(c.Request.Context(), req.ToDraft())
	if err != nil {
		respondError(c, err, "price invoice")
		return
	}
	c.JSON(http.StatusOK, receipt)
}

// createInvoice godoc
// @Summary Raise an invoice
// @Description Stores the invoice, its credit sale and an optional payment in one unit of work.
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   invoice body dto.CreateInvoiceRequest true "Invoice details"
// @Success 201 {object} domain.InvoiceReceipt
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Invoice number already used"
// @Security BearerAuth
// @Router /invoices [post]
func (h *invoiceHandler) createInvoice(c *gin.Context) {
	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to create invoice", slog.String("number", req.Number), slog.Int64("customer_id", req.CustomerID))

	receipt, err := h.invoiceService.CreateInvoice(c.Request.Context(), req.ToDraft(), userID)
	if err != nil {
		respondError(c, err, "create invoice")
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

// getInvoice godoc
// @Summary Get an invoice by ID
// @Tags invoices
// @Produce  json
// @Param   id path int true "Invoice ID"
// @Success 200 {object} domain.Invoice
// @Failure 404 {object} map[string]string "Invoice not found"
// @Security BearerAuth
// @Router /invoices/{id} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	inv, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "retrieve invoice")
		return
	}
	c.JSON(http.StatusOK, inv)
}

// listInvoices godoc
// @Summary List invoices
// @Tags invoices
// @Produce  json
// @Param   customerID query int false "Only this customer's invoices"
// @Success 200 {array} domain.Invoice
// @Security BearerAuth
// @Router /invoices [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	var customerID *int64
	if raw := c.Query("customerID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			badRequest(c, "Invalid customerID", err)
			return
		}
		customerID = &id
	}
	invoices, err := h.invoiceService.ListInvoices(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, err, "list invoices")
		return
	}
	c.JSON(http.StatusOK, invoices)
}
