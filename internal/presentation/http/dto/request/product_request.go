package request

// CreateProductRequest represents a create product request
type CreateProductRequest struct {
	Name         string  `json:"name" binding:"required,min=1,max=255"`
	Code         string  `json:"code" binding:"required,min=1,max=100"`
	Stock        int     `json:"stock" binding:"min=0"`
	StockAlert   int     `json:"stock_alert" binding:"min=0"`
	SellingPrice float64 `json:"selling_price" binding:"min=0"`
	TaxRate      int     `json:"tax_rate" binding:"min=0,max=100"`
	Notes        *string `json:"notes"`
}

// UpdateProductRequest represents a partial product update
type UpdateProductRequest struct {
	Name         *string  `json:"name" binding:"omitempty,min=1,max=255"`
	Stock        *int     `json:"stock" binding:"omitempty,min=0"`
	StockAlert   *int     `json:"stock_alert" binding:"omitempty,min=0"`
	SellingPrice *float64 `json:"selling_price" binding:"omitempty,min=0"`
	TaxRate      *int     `json:"tax_rate" binding:"omitempty,min=0,max=100"`
	Notes        *string  `json:"notes"`
}
