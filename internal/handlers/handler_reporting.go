package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/bizbooks/internal/core/ports/services"
	"github.com/SscSPs/bizbooks/internal/dto"
)

// reportingHandler serves the financial reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvc
	now              func() time.Time
}

// registerReportingRoutes registers routes related to reports.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvc) {
	h := &reportingHandler{
		reportingService: reportingService,
		now:              func() time.Time { return time.Now().UTC() },
	}

	reports := rg.Group("/reports")
	{
		reports.GET("/profit-and-loss", h.profitAndLoss)
		reports.GET("/balance-sheet", h.balanceSheet)
		reports.GET("/valuation", h.valuation)
		reports.GET("/receivables", h.receivables)
		reports.GET("/payables", h.payables)
		reports.GET("/stock-audit", h.stockAudit)
	}
}

func (h *reportingHandler) asOf(c *gin.Context) (time.Time, bool) {
	var params dto.AsOfParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return time.Time{}, false
	}
	asOf, err := dateOr(params.AsOf, h.now())
	if err != nil {
		badRequest(c, "Invalid date", err)
		return time.Time{}, false
	}
	return asOf, true
}

// profitAndLoss godoc
// @Summary Profit and loss
// @Description Income and expenses of a period grouped by category group. Defaults to the current month to date.
// @Tags reports
// @Produce  json
// @Param   from query string false "From date (YYYY-MM-DD)"
// @Param   to query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} domain.PAndLReport
// @Failure 400 {object} map[string]string "Invalid window"
// @Security BearerAuth
// @Router /reports/profit-and-loss [get]
func (h *reportingHandler) profitAndLoss(c *gin.Context) {
	w, ok := bindWindow(c)
	if !ok {
		return
	}
	today := h.now()
	if w.End.IsZero() {
		w.End = today
	}
	if w.Start.IsZero() {
		w.Start = time.Date(w.End.Year(), w.End.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	report, err := h.reportingService.ProfitAndLoss(c.Request.Context(), w.Start, w.End)
	if err != nil {
		respondError(c, err, "build profit and loss")
		return
	}
	c.JSON(http.StatusOK, report)
}

// balanceSheet godoc
// @Summary Balance sheet
// @Tags reports
// @Produce  json
// @Param   asOf query string false "As-of date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} domain.BalanceSheetReport
// @Security BearerAuth
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) balanceSheet(c *gin.Context) {
	asOf, ok := h.asOf(c)
	if !ok {
		return
	}
	report, err := h.reportingService.BalanceSheet(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, err, "build balance sheet")
		return
	}
	c.JSON(http.StatusOK, report)
}

// valuation godoc
// @Summary Business valuation
// @Tags reports
// @Produce  json
// @Param   asOf query string false "As-of date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} domain.ValuationSnapshot
// @Security BearerAuth
// @Router /reports/valuation [get]
func (h *reportingHandler) valuation(c *gin.Context) {
	asOf, ok := h.asOf(c)
	if !ok {
		return
	}
	snap, err := h.reportingService.Valuation(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, err, "build valuation")
		return
	}
	c.JSON(http.StatusOK, snap)
}

// receivables godoc
// @Summary Customer receivables
// @Tags reports
// @Produce  json
// @Param   asOf query string false "As-of date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} domain.PartySummary
// @Security BearerAuth
// @Router /reports/receivables [get]
func (h *reportingHandler) receivables(c *gin.Context) {
	asOf, ok := h.asOf(c)
	if !ok {
		return
	}
	summary, err := h.reportingService.Receivables(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, err, "build receivables")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// payables godoc
// @Summary Supplier and lender payables
// @Tags reports
// @Produce  json
// @Param   asOf query string false "As-of date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} domain.PartySummary
// @Security BearerAuth
// @Router /reports/payables [get]
func (h *reportingHandler) payables(c *gin.Context) {
	asOf, ok := h.asOf(c)
	if !ok {
		return
	}
	summary, err := h.reportingService.Payables(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, err, "build payables")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// stockAudit godoc
// @Summary Stock audit
// @Description Recomputes each product's stock from the log and lists products whose stored stock disagrees.
// @Tags reports
// @Produce  json
// @Success 200 {array} domain.StockDiscrepancy
// @Security BearerAuth
// @Router /reports/stock-audit [get]
func (h *reportingHandler) stockAudit(c *gin.Context) {
	discrepancies, err := h.reportingService.StockAudit(c.Request.Context())
	if err != nil {
		respondError(c, err, "audit stock")
		return
	}
	c.JSON(http.StatusOK, discrepancies)
}
