package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/kiprotich/tillpoint-api/internal/application/service"
	"github.com/kiprotich/tillpoint-api/internal/presentation/http/dto/request"
	"github.com/kiprotich/tillpoint-api/internal/presentation/http/dto/response"
)

// PaymentHandler handles the payment collection steps before checkout
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Begin handles POST /registers/:register_number/payment
func (h *PaymentHandler) Begin(c *gin.Context) {
	var req request.BeginPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	details, err := h.paymentService.Begin(c.Param("register_number"), &service.BeginInput{
		Method:         req.PaymentMethod,
		AmountTendered: req.AmountTendered,
		PrintReceipt:   req.PrintReceipt,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment method selected", details)
}

// CardResult handles POST /registers/:register_number/payment/card-result
func (h *PaymentHandler) CardResult(c *gin.Context) {
	var req request.CardResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	details, err := h.paymentService.RecordCardResult(c.Param("register_number"), &service.CardResultInput{
		Approved:      *req.Approved,
		ProviderError: req.Error,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Card payment confirmed"
	if !details.CardConfirmed {
		message = "Card payment declined"
	}
	response.OK(c, message, details)
}

// TransferInitiated handles POST /registers/:register_number/payment/transfer-initiated
func (h *PaymentHandler) TransferInitiated(c *gin.Context) {
	var req request.TransferInitiatedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	details, err := h.paymentService.MarkTransferInitiated(c.Param("register_number"), &service.TransferInitiatedInput{
		URL:       req.URL,
		EmailSent: req.EmailSent,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transfer initiated", details)
}
