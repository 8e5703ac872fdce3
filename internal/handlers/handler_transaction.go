package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/bizbooks/internal/core/domain"
	portssvc "github.com/SscSPs/bizbooks/internal/core/ports/services"
	"github.com/SscSPs/bizbooks/internal/dto"
	"github.com/SscSPs/bizbooks/internal/middleware"
	"github.com/SscSPs/bizbooks/internal/utils/pagination"
)

// transactionHandler handles HTTP requests for the transaction log.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(ts portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{transactionService: ts}
}

// registerTransactionRoutes registers routes related to transactions.
func registerTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(transactionService)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.createTransaction)
		transactions.POST("/batch", h.createTransactionBatch)
		transactions.GET("", h.listTransactions)
		transactions.GET("/:id", h.getTransaction)
		transactions.PUT("/:id", h.updateTransaction)
		transactions.DELETE("/:id", h.deleteTransaction)
	}
}

// createTransaction godoc
// @Summary Record a transaction
// @Description Stores a transaction and applies its stock and invoice side effects. A stock level driven below zero is reported as a warning.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input or unknown category"
// @Failure 409 {object} map[string]string "Party ledger locked by another writer"
// @Failure 500 {object} map[string]string "Failed to create transaction"
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	res, err := h.transactionService.CreateTransaction(c.Request.Context(), req.ToDraft(), userID)
	if err != nil {
		respondError(c, err, "create transaction")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(res))
}

// createTransactionBatch godoc
// @Summary Record several transactions atomically
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   batch body dto.CreateTransactionBatchRequest true "Transactions"
// @Success 201 {array} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /transactions/batch [post]
func (h *transactionHandler) createTransactionBatch(c *gin.Context) {
	var req dto.CreateTransactionBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	drafts := make([]domain.TransactionDraft, len(req.Transactions))
	for i, t := range req.Transactions {
		drafts[i] = t.ToDraft()
	}
	results, err := h.transactionService.CreateTransactionBatch(c.Request.Context(), drafts, userID)
	if err != nil {
		respondError(c, err, "create transaction batch")
		return
	}
	out := make([]dto.TransactionResponse, len(results))
	for i := range results {
		out[i] = dto.ToTransactionResponse(&results[i])
	}
	c.JSON(http.StatusCreated, out)
}

// getTransaction godoc
// @Summary Get a transaction by ID
// @Tags transactions
// @Produce  json
// @Param   id path int true "Transaction ID"
// @Success 200 {object} domain.Transaction
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /transactions/{id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	t, err := h.transactionService.GetTransaction(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, t)
}

// listTransactions godoc
// @Summary List transactions
// @Description Lists the log in (date, id) order. Pass nextToken from the previous page to continue.
// @Tags transactions
// @Produce  json
// @Param   partyUserID query int false "Customer ID"
// @Param   partyLenderID query int false "Entity ID"
// @Param   agreementID query int false "Agreement ID"
// @Param   relatedInvoiceID query int false "Invoice ID"
// @Param   from query string false "From date (YYYY-MM-DD)"
// @Param   to query string false "To date (YYYY-MM-DD)"
// @Param   category query string false "Exact category name"
// @Param   limit query int false "Page size" default(50)
// @Param   nextToken query string false "Token for the next page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}

	filter := domain.TransactionFilter{
		PartyUserID:      params.PartyUserID,
		PartyLenderID:    params.PartyLenderID,
		AgreementID:      params.AgreementID,
		RelatedInvoiceID: params.RelatedInvoiceID,
		// one extra row tells whether another page exists
		Limit: params.Limit + 1,
	}
	window, err := windowFrom(dto.WindowParams{From: params.From, To: params.To})
	if err != nil {
		badRequest(c, "Invalid date", err)
		return
	}
	if !window.Start.IsZero() {
		filter.From = &window.Start
	}
	if !window.End.IsZero() {
		filter.To = &window.End
	}
	if params.Category != "" {
		filter.Categories = []string{params.Category}
	}
	if params.NextToken != "" {
		cursor, err := pagination.DecodeToken(params.NextToken)
		if err != nil {
			badRequest(c, "Invalid nextToken", err)
			return
		}
		filter.After = &cursor
	}

	txs, err := h.transactionService.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "list transactions")
		return
	}

	resp := dto.ListTransactionsResponse{Transactions: txs}
	if len(txs) > params.Limit {
		resp.Transactions = txs[:params.Limit]
		token := pagination.TokenAfter(resp.Transactions[params.Limit-1])
		resp.NextToken = &token
	}
	if resp.Transactions == nil {
		resp.Transactions = []domain.Transaction{}
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Debug("Transactions listed", slog.Int("count", len(resp.Transactions)))
	c.JSON(http.StatusOK, resp)
}

// updateTransaction godoc
// @Summary Update a transaction
// @Description Rewrites a transaction without line items. Product transactions must be deleted and recreated.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   id path int true "Transaction ID"
// @Param   transaction body dto.CreateTransactionRequest true "New transaction details"
// @Success 200 {object} dto.TransactionResponse
// @Failure 422 {object} map[string]string "Transaction carries line items"
// @Security BearerAuth
// @Router /transactions/{id} [put]
func (h *transactionHandler) updateTransaction(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	res, err := h.transactionService.UpdateTransaction(c.Request.Context(), id, req.ToDraft(), userID)
	if err != nil {
		respondError(c, err, "update transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(res))
}

// deleteTransaction godoc
// @Summary Delete a transaction
// @Description Reverses the stock and invoice side effects of a transaction, then removes it.
// @Tags transactions
// @Param   id path int true "Transaction ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Side effects could not be reversed"
// @Security BearerAuth
// @Router /transactions/{id} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.transactionService.DeleteTransaction(c.Request.Context(), id, userID); err != nil {
		respondError(c, err, "delete transaction")
		return
	}
	c.Status(http.StatusNoContent)
}
