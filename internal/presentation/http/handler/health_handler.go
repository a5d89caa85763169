package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/kiprotich/tillpoint-api/internal/application/service"
	"github.com/kiprotich/tillpoint-api/internal/infrastructure/gateway"
	"github.com/kiprotich/tillpoint-api/internal/presentation/http/dto/response"
)

// HealthHandler reports service liveness plus the state of the two floor
// dependencies a cashier cares about: the upstream gateway and the printer.
type HealthHandler struct {
	gatewayClient  *gateway.Client
	receiptService *service.ReceiptService
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(gatewayClient *gateway.Client, receiptService *service.ReceiptService) *HealthHandler {
	return &HealthHandler{
		gatewayClient:  gatewayClient,
		receiptService: receiptService,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	response.OK(c, "OK", gin.H{
		"status":            "up",
		"gateway_available": h.gatewayClient.Available(),
		"gateway_breaker":   h.gatewayClient.BreakerState().String(),
		"printer_connected": h.receiptService.PrinterConnected(),
	})
}
