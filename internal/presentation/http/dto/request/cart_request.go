package request

// AddCartItemRequest represents an add-to-cart request. Quantity may be
// omitted; a scan without a count adds one unit.
type AddCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"omitempty,min=1"`
}

// UpdateCartLineRequest represents a cart line quantity change. Zero removes
// the line.
type UpdateCartLineRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// SetLineDiscountRequest represents a per-line discount in currency units
type SetLineDiscountRequest struct {
	Discount float64 `json:"discount" binding:"min=0"`
}
