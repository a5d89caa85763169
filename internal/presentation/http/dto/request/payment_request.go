package request

// BeginPaymentRequest selects the payment method for the register's current
// cart. AmountTendered only matters for cash.
type BeginPaymentRequest struct {
	PaymentMethod  string  `json:"payment_method" binding:"required"`
	AmountTendered float64 `json:"amount_tendered" binding:"min=0"`
	PrintReceipt   bool    `json:"print_receipt"`
}

// CardResultRequest reports the terminal's charge outcome. Approved is a
// pointer so a missing flag is distinguishable from an explicit decline.
type CardResultRequest struct {
	Approved *bool  `json:"approved" binding:"required"`
	Error    string `json:"error" binding:"max=500"`
}

// TransferInitiatedRequest records the banking hop handoff for a transfer
// payment
type TransferInitiatedRequest struct {
	URL       string `json:"url" binding:"omitempty,url"`
	EmailSent bool   `json:"email_sent"`
}

// VoidTransactionRequest represents a void request; the reason is mandatory
type VoidTransactionRequest struct {
	Reason string `json:"reason" binding:"required,max=1000"`
}
