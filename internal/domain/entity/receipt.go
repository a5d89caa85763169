package entity

// ReceiptHeader holds the store header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	TaxID     string `json:"tax_id,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
}

// Receipt is a value object representing a printable receipt. It is not a
// database entity; it is composed from a recorded sale transaction at print
// time.
type Receipt struct {
	Header            ReceiptHeader `json:"header"`
	TransactionNumber string        `json:"transaction_number"`
	Date              string        `json:"date"`
	Register          string        `json:"register,omitempty"`
	Cashier           string        `json:"cashier,omitempty"`
	PaymentMethod     string        `json:"payment_method,omitempty"`
	Items             []ReceiptItem `json:"items"`
	SubTotal          float64       `json:"sub_total"`
	TaxTotal          float64       `json:"tax_total"`
	Discount          float64       `json:"discount,omitempty"`
	Total             float64       `json:"total"`
	Tendered          float64       `json:"tendered"`
	Change            float64       `json:"change"`
	Offline           bool          `json:"offline,omitempty"`
}
