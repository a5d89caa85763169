package request

// OpenSessionRequest represents an open register request
type OpenSessionRequest struct {
	RegisterNumber string  `json:"register_number" binding:"required,max=50"`
	StartingAmount float64 `json:"starting_amount" binding:"min=0"`
	Notes          string  `json:"notes" binding:"max=1000"`
}

// CloseSessionRequest represents a close register request
type CloseSessionRequest struct {
	CountedAmount float64 `json:"counted_amount" binding:"min=0"`
	Notes         string  `json:"notes" binding:"max=1000"`
}
