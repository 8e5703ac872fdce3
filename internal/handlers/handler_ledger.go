package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/bizbooks/internal/core/domain"
	portssvc "github.com/SscSPs/bizbooks/internal/core/ports/services"
	"github.com/SscSPs/bizbooks/internal/dto"
)

// ledgerHandler serves ledgers reconstructed from the transaction log, and loan accruals.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvc
	loanService   portssvc.LoanSvc
	now           func() time.Time
}

func newLedgerHandler(ls portssvc.LedgerSvc, loans portssvc.LoanSvc) *ledgerHandler {
	return &ledgerHandler{
		ledgerService: ls,
		loanService:   loans,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// registerLedgerRoutes registers routes related to ledgers and agreement accruals.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvc, loanService portssvc.LoanSvc) {
	h := newLedgerHandler(ledgerService, loanService)

	ledgers := rg.Group("/ledgers")
	{
		ledgers.GET("/customers/:id", h.customerLedger)
		ledgers.GET("/entities/:id", h.entityLedger)
		ledgers.GET("/cash", h.cashLedger)
		ledgers.GET("/bank", h.bankLedger)
		ledgers.GET("/daybook", h.dayBook)
	}
	rg.GET("/agreements/:id/ledger", h.agreementLedger)
	rg.GET("/agreements/:id/accrual", h.accrual)
}

// bindWindow reads the from/to query window, answering 400 on malformed dates.
func bindWindow(c *gin.Context) (domain.Window, bool) {
	var params dto.WindowParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return domain.Window{}, false
	}
	w, err := windowFrom(params)
	if err != nil {
		badRequest(c, "Invalid date", err)
		return domain.Window{}, false
	}
	return w, true
}

// customerLedger godoc
// @Summary Customer ledger
// @Description Receivable history of one customer. Entries before "from" roll into the opening balance.
// @Tags ledgers
// @Produce  json
// @Param   id path int true "Customer ID"
// @Param   from query string false "From date (YYYY-MM-DD)"
// @Param   to query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} domain.LedgerSnapshot
// @Failure 404 {object} map[string]string "Customer not found"
// @Security BearerAuth
// @Router /ledgers/customers/{id} [get]
func (h *ledgerHandler) customerLedger(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	w, ok := bindWindow(c)
	if !ok {
		return
	}
	snap, err := h.ledgerService.CustomerLedger(c.Request.Context(), id, w)
	if err != nil {
		respondError(c, err, "build customer ledger")
		return
	}
	c.JSON(http.StatusOK, snap)
}

// entityLedger godoc
// @Summary Supplier or lender ledger
// @Tags ledgers
// @Produce  json
// @Param   id path int true "Entity ID"
// @Param   from query string false "From date (YYYY-MM-DD)"
// @Param   to query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} domain.LedgerSnapshot
// @Security BearerAuth
// @Router /ledgers/entities/{id} [get]
func (h *ledgerHandler) entityLedger(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	w, ok := bindWindow(c)
	if !ok {
		return
	}
	snap, err := h.ledgerService.EntityLedger(c.Request.Context(), id, w)
	if err != nil {
		respondError(c, err, "build entity ledger")
		return
	}
	c.JSON(http.StatusOK, snap)
}

// cashLedger godoc
// @Summary Cash book
// @Tags ledgers
// @Produce  json
// @Param   from query string false "From date (YYYY-MM-DD)"
// @Param   to query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} domain.LedgerSnapshot
// @Security BearerAuth
// @Router /ledgers/cash [get]
func (h *ledgerHandler) cashLedger(c *gin.Context) {
	w, ok := bindWindow(c)
	if !ok {
		return
	}
	snap, err := h.ledgerService.CashLedger(c.Request.Context(), w)
	if err != nil {
		respondError(c, err, "build cash ledger")
		return
	}
	c.JSON(http.StatusOK, snap)
}

// bankLedger godoc
// @Summary Bank book
// @Tags ledgers
// @Produce  json
// @Param   from query string false "From date (YYYY-MM-DD)"
// @Param   to query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} domain.LedgerSnapshot
// @Security BearerAuth
// @Router /ledgers/bank [get]
func (h *ledgerHandler) bankLedger(c *gin.Context) {
	w, ok := bindWindow(c)
	if !ok {
		return
	}
	snap, err := h.ledgerService.BankLedger(c.Request.Context(), w)
	if err != nil {
		respondError(c, err, "build bank ledger")
		return
	}
	c.JSON(http.StatusOK, snap)
}

// dayBook godoc
// @Summary Day book
// @Description Cash and bank books of a single day, defaulting to today.
// @Tags ledgers
// @Produce  json
// @Param   date query string false "Date (YYYY-MM-DD)"
// @Success 200 {object} dto.DayBookResponse
// @Security BearerAuth
// @Router /ledgers/daybook [get]
func (h *ledgerHandler) dayBook(c *gin.Context) {
	var params dto.DayParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}
	day, err := dateOr(params.Date, h.now())
	if err != nil {
		badRequest(c, "Invalid date", err)
		return
	}
	w := domain.Window{Start: day, End: day}
	ctx := c.Request.Context()

	cash, err := h.ledgerService.CashLedger(ctx, w)
	if err != nil {
		respondError(c, err, "build day book")
		return
	}
	bank, err := h.ledgerService.BankLedger(ctx, w)
	if err != nil {
		respondError(c, err, "build day book")
		return
	}
	c.JSON(http.StatusOK, dto.DayBookResponse{Date: day.Format(domain.DateLayout), Cash: cash, Bank: bank})
}

// agreementLedger godoc
// @Summary Agreement ledger
// @Description Party-ledger history of the transactions linked to an agreement.
// @Tags agreements
// @Produce  json
// @Param   id path int true "Agreement ID"
// @Param   from query string false "From date (YYYY-MM-DD)"
// @Param   to query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} domain.LedgerSnapshot
// @Security BearerAuth
// @Router /agreements/{id}/ledger [get]
func (h *ledgerHandler) agreementLedger(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	w, ok := bindWindow(c)
	if !ok {
		return
	}
	snap, err := h.ledgerService.AgreementLedger(c.Request.Context(), id, w)
	if err != nil {
		respondError(c, err, "build agreement ledger")
		return
	}
	c.JSON(http.StatusOK, snap)
}

// accrual godoc
// @Summary Interest accrual
// @Description Derives the interest position of an agreement from the live transaction log.
// @Tags agreements
// @Produce  json
// @Param   id path int true "Agreement ID"
// @Param   asOf query string false "As-of date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} domain.AccrualResult
// @Security BearerAuth
// @Router /agreements/{id}/accrual [get]
func (h *ledgerHandler) accrual(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var params dto.AsOfParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}
	asOf, err := dateOr(params.AsOf, h.now())
	if err != nil {
		badRequest(c, "Invalid date", err)
		return
	}
	res, err := h.loanService.AccrueInterest(c.Request.Context(), id, asOf)
	if err != nil {
		respondError(c, err, "accrue interest")
		return
	}
	c.JSON(http.StatusOK, res)
}
