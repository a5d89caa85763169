package money

import "math"

// Package money centralizes all sale arithmetic. Every mutation path in the
// cart and every totals display goes through these functions so that repeated
// recalculation over the same lines always yields the same figures.
//
// All amounts are stored in cents (int64). Conversion to decimal happens only
// at the JSON boundary.

// Line is the minimal shape the calculator needs from a cart line.
type Line struct {
	UnitPrice int64 // cents
	Quantity  int
	TaxRate   int   // integer percentage, e.g. 16 for 16%
	Discount  int64 // cents, capped at the line total by the cart engine
}

// Totals is the result of totaling a list of lines.
type Totals struct {
	Subtotal int64 `json:"sub_total"`
	TaxTotal int64 `json:"tax_total"`
	Discount int64 `json:"discount"`
	Total    int64 `json:"total"`
}

// LineTotal returns unitPrice × quantity in cents.
func LineTotal(unitPrice int64, quantity int) int64 {
	return unitPrice * int64(quantity)
}

// TaxAmount returns the tax on a line total at an integer percentage rate.
func TaxAmount(lineTotal int64, taxRate int) int64 {
	if taxRate <= 0 {
		return 0
	}
	return lineTotal * int64(taxRate) / 100
}

// Calculate totals a list of lines: subtotal is the sum of line totals, tax is
// the sum of per-line tax, and total = subtotal + tax − discount. It is a pure
// function of its input, so calling it twice over the same lines cannot drift.
func Calculate(lines []Line) Totals {
	var t Totals
	for _, l := range lines {
		lineTotal := LineTotal(l.UnitPrice, l.Quantity)
		t.Subtotal += lineTotal
		t.TaxTotal += TaxAmount(lineTotal, l.TaxRate)
		t.Discount += l.Discount
	}
	t.Total = t.Subtotal + t.TaxTotal - t.Discount
	return t
}

// Change returns the change due for a tendered amount, never negative.
func Change(tendered, total int64) int64 {
	if tendered <= total {
		return 0
	}
	return tendered - total
}

// ToCents converts a decimal currency amount to cents. The product of a
// decimal like 20.15 and 100 is not exactly representable in a float64, so the
// result is rounded to the nearest cent rather than truncated.
func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// ToDecimal converts cents to a decimal currency amount for display.
func ToDecimal(cents int64) float64 {
	return float64(cents) / 100
}
