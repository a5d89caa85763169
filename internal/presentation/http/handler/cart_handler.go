package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kiprotich/tillpoint-api/internal/application/service"
	"github.com/kiprotich/tillpoint-api/internal/presentation/http/dto/request"
	"github.com/kiprotich/tillpoint-api/internal/presentation/http/dto/response"
	"github.com/kiprotich/tillpoint-api/pkg/money"
)

// CartHandler handles the live cart on a register
type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// View handles GET /registers/:register_number/cart
func (h *CartHandler) View(c *gin.Context) {
	view := h.cartService.View(c.Param("register_number"))
	response.OK(c, "Cart", view)
}

// AddItem handles POST /registers/:register_number/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req request.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	view, err := h.cartService.AddItem(c.Request.Context(), c.Param("register_number"), productID, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item added", view)
}

// UpdateLine handles PUT /registers/:register_number/cart/items/:index
func (h *CartHandler) UpdateLine(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.BadRequest(c, "Invalid cart line index")
		return
	}

	var req request.UpdateCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.cartService.UpdateQuantity(c.Request.Context(), c.Param("register_number"), index, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart updated", view)
}

// SetDiscount handles PUT /registers/:register_number/cart/items/:index/discount
func (h *CartHandler) SetDiscount(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.BadRequest(c, "Invalid cart line index")
		return
	}

	var req request.SetLineDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.cartService.SetLineDiscount(c.Param("register_number"), index, money.ToCents(req.Discount))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Discount applied", view)
}

// RemoveLine handles DELETE /registers/:register_number/cart/items/:index
func (h *CartHandler) RemoveLine(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.BadRequest(c, "Invalid cart line index")
		return
	}

	view, err := h.cartService.RemoveItem(c.Param("register_number"), index)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item removed", view)
}

// Clear handles DELETE /registers/:register_number/cart
func (h *CartHandler) Clear(c *gin.Context) {
	view := h.cartService.Clear(c.Param("register_number"))
	response.OK(c, "Cart cleared", view)
}
