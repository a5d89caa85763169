package entity

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/kiprotich/tillpoint-api/pkg/money"
)

// CartLine is one product line in the sale currently being assembled. Carts
// are in-process value objects owned by the cart engine; they never touch the
// database until frozen into a SaleTransaction.
type CartLine struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	UnitPrice   int64     `json:"-"` // cents
	Quantity    int       `json:"quantity"`
	TaxRate     int       `json:"tax_rate"`
	Discount    int64     `json:"-"` // cents
}

// TotalPrice returns unitPrice × quantity for the line.
func (l CartLine) TotalPrice() int64 {
	return money.LineTotal(l.UnitPrice, l.Quantity)
}

// TaxAmount returns the derived tax for the line.
func (l CartLine) TaxAmount() int64 {
	return money.TaxAmount(l.TotalPrice(), l.TaxRate)
}

// MarshalJSON includes the derived figures as decimals.
func (l CartLine) MarshalJSON() ([]byte, error) {
	type Alias CartLine
	return json.Marshal(&struct {
		Alias
		UnitPrice  float64 `json:"unit_price"`
		Discount   float64 `json:"discount"`
		TaxAmount  float64 `json:"tax_amount"`
		TotalPrice float64 `json:"total_price"`
	}{
		Alias:      Alias(l),
		UnitPrice:  float64(l.UnitPrice) / 100,
		Discount:   float64(l.Discount) / 100,
		TaxAmount:  float64(l.TaxAmount()) / 100,
		TotalPrice: float64(l.TotalPrice()) / 100,
	})
}

// CartSnapshot is a value copy of a cart taken at payment confirmation.
// Version identifies the cart generation it was taken from: a completion
// against a cart that has since been cleared or rebuilt is rejected.
type CartSnapshot struct {
	RegisterNumber string
	Lines          []CartLine
	Totals         money.Totals
	Version        uint64
}

// MoneyLines converts cart lines to calculator input.
func MoneyLines(lines []CartLine) []money.Line {
	out := make([]money.Line, len(lines))
	for i, l := range lines {
		out[i] = money.Line{
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			TaxRate:   l.TaxRate,
			Discount:  l.Discount,
		}
	}
	return out
}
