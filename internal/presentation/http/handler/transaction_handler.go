package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/kiprotich/tillpoint-api/internal/application/service"
	"github.com/kiprotich/tillpoint-api/internal/presentation/http/dto/request"
	"github.com/kiprotich/tillpoint-api/internal/presentation/http/dto/response"
	"github.com/kiprotich/tillpoint-api/pkg/pagination"
)

// TransactionHandler handles checkout and transaction lookup
type TransactionHandler struct {
	saleService    *service.SaleService
	receiptService *service.ReceiptService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(saleService *service.SaleService, receiptService *service.ReceiptService) *TransactionHandler {
	return &TransactionHandler{
		saleService:    saleService,
		receiptService: receiptService,
	}
}

// Record handles POST /registers/:register_number/transactions, the checkout.
func (h *TransactionHandler) Record(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	txn, err := h.saleService.RecordSale(c.Request.Context(), c.Param("register_number"), *userID, GetAccessToken(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Sale recorded"
	if txn.Offline {
		message = "Sale recorded offline"
	}
	response.Created(c, message, txn)
}

// Get handles GET /transactions/:id
func (h *TransactionHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	txn, err := h.saleService.GetTransaction(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction", txn)
}

// ListBySession handles GET /sessions/:id/transactions
func (h *TransactionHandler) ListBySession(c *gin.Context) {
	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid session ID")
		return
	}

	params := pagination.DefaultPagination()
	if err := c.ShouldBindQuery(params); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	params.Validate()

	txns, total, err := h.saleService.ListBySession(c.Request.Context(), sessionID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(txns, pagination.NewPagination(params.Page, params.PerPage, total))
	response.SuccessWithPagination(c, 200, "Transactions", result)
}

// ListOffline handles GET /transactions/offline
func (h *TransactionHandler) ListOffline(c *gin.Context) {
	params := pagination.DefaultPagination()
	if err := c.ShouldBindQuery(params); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	params.Validate()

	txns, total, err := h.saleService.ListOffline(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(txns, pagination.NewPagination(params.Page, params.PerPage, total))
	response.SuccessWithPagination(c, 200, "Offline transactions", result)
}

// Void handles PUT /transactions/:id/void
func (h *TransactionHandler) Void(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	var req request.VoidTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "A void reason is required")
		return
	}

	txn, err := h.saleService.VoidSale(c.Request.Context(), id, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction voided", txn)
}

// Receipt handles GET /transactions/:id/receipt
func (h *TransactionHandler) Receipt(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	receipt, err := h.receiptService.BuildReceipt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt", receipt)
}

// PrintReceipt handles POST /transactions/:id/receipt/print
func (h *TransactionHandler) PrintReceipt(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	receipt, err := h.receiptService.PrintReceipt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt printed", receipt)
}
