package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	portssvc "github.com/minibank/minibank/internal/core/ports/services"
	"github.com/minibank/minibank/internal/dto"
)

// transactionHandler handles money movements and the history listing.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
	historyService     portssvc.HistorySvcFacade
}

func newTransactionHandler(ts portssvc.TransactionSvcFacade, hs portssvc.HistorySvcFacade) *transactionHandler {
	return &transactionHandler{
		transactionService: ts,
		historyService:     hs,
	}
}

// registerTransactionRoutes registers routes related to transactions.
func registerTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade, historyService portssvc.HistorySvcFacade) {
	h := newTransactionHandler(transactionService, historyService)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("/transfer", h.transfer)
		transactions.POST("/exchange", h.exchange)
		transactions.GET("", h.listTransactions)
		transactions.GET("/:id", h.getTransaction)
	}
}

// transfer godoc
// @Summary Transfer between same-currency accounts
// @Description Atomically moves the amount from the caller's account to the destination account.
// @Tags transactions
// @Accept json
// @Produce json
// @Param transfer body dto.TransferRequest true "Transfer details"
// @Success 201 {object} dto.TransactionResult
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Source account not owned by the caller"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Transient conflict, retry"
// @Failure 422 {object} ErrorResponse "Insufficient funds"
// @Security BearerAuth
// @Router /transactions/transfer [post]
func (h *transactionHandler) transfer(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.transactionService.Transfer(c.Request.Context(), userID, req.FromAccountID, req.ToAccountID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// exchange godoc
// @Summary Exchange between the caller's accounts
// @Description Atomically converts the amount between two of the caller's accounts at the supplied rate.
// @Tags transactions
// @Accept json
// @Produce json
// @Param exchange body dto.ExchangeRequest true "Exchange details"
// @Success 201 {object} dto.TransactionResult
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "An account not owned by the caller"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Transient conflict, retry"
// @Failure 422 {object} ErrorResponse "Insufficient funds"
// @Security BearerAuth
// @Router /transactions/exchange [post]
func (h *transactionHandler) exchange(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.ExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.transactionService.Exchange(c.Request.Context(), userID, req.FromAccountID, req.ToAccountID, req.Amount, req.Rate)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// listTransactions godoc
// @Summary List recorded transactions
// @Description Returns a page of transactions, newest first, entries attached.
// @Tags transactions
// @Produce json
// @Param type query string false "Filter by kind" Enums(transfer, exchange)
// @Param page query int false "1-based page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	page, err := h.historyService.ListTransactions(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// getTransaction godoc
// @Summary Get one transaction
// @Description Returns a single recorded transaction with its ledger entries.
// @Tags transactions
// @Produce json
// @Param id path int true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/{id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	transactionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid transaction id"})
		return
	}

	txn, err := h.historyService.GetTransaction(c.Request.Context(), transactionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, txn)
}
