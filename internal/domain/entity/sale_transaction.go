package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/kiprotich/tillpoint-api/internal/domain/enum"
	"gorm.io/gorm"
)

// SaleTransaction is the immutable record of a completed (or voided) sale.
// Items are a value copy of the cart taken at confirmation time; later cart
// mutations never touch a recorded transaction.
type SaleTransaction struct {
	ID                uuid.UUID              `gorm:"type:uuid;primary_key" json:"id"`
	TransactionNumber string                 `gorm:"size:100;unique;not null" json:"transaction_number"`
	SessionID         uuid.UUID              `gorm:"type:uuid;not null;index" json:"session_id"`
	RegisterNumber    string                 `gorm:"size:50;not null;index" json:"register_number"`
	CashierID         uuid.UUID              `gorm:"type:uuid;not null;index" json:"cashier_id"`
	Date              time.Time              `gorm:"not null" json:"date"`
	SubTotal          int64                  `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	TaxTotal          int64                  `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	Discount          int64                  `gorm:"default:0" json:"-"`
	Total             int64                  `gorm:"not null" json:"-"`
	PaymentMethod     enum.PaymentMethod     `gorm:"default:0" json:"payment_method"`
	AmountTendered    int64                  `gorm:"not null" json:"-"`
	Change            int64                  `gorm:"default:0" json:"-"`
	Status            enum.TransactionStatus `gorm:"default:0;index" json:"status"`

	// Offline is set when the upstream gateway could not be reached on any
	// endpoint and the record was synthesized locally. First-class column so
	// reconciliation can query it instead of string-matching notes.
	Offline     bool   `gorm:"default:false;index" json:"offline"`
	OfflineNote string `gorm:"type:text" json:"offline_note,omitempty"`
	VoidReason  string `gorm:"type:text" json:"void_reason,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Session RegisterSession `gorm:"foreignKey:SessionID" json:"-"`
	Items   []SaleItem      `gorm:"foreignKey:TransactionID" json:"items,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (t SaleTransaction) MarshalJSON() ([]byte, error) {
	type Alias SaleTransaction
	return json.Marshal(&struct {
		Alias
		SubTotal       float64 `json:"sub_total"`
		TaxTotal       float64 `json:"tax_total"`
		Discount       float64 `json:"discount"`
		Total          float64 `json:"total"`
		AmountTendered float64 `json:"amount_tendered"`
		Change         float64 `json:"change"`
	}{
		Alias:          Alias(t),
		SubTotal:       float64(t.SubTotal) / 100,
		TaxTotal:       float64(t.TaxTotal) / 100,
		Discount:       float64(t.Discount) / 100,
		Total:          float64(t.Total) / 100,
		AmountTendered: float64(t.AmountTendered) / 100,
		Change:         float64(t.Change) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new transaction
func (t *SaleTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleTransaction model
func (SaleTransaction) TableName() string {
	return "sale_transactions"
}

// SaleItem is one product line frozen into a recorded sale.
type SaleItem struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TransactionID uuid.UUID      `gorm:"type:uuid;not null;index" json:"transaction_id"`
	ProductID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName   string         `gorm:"size:255;not null" json:"product_name"`
	Quantity      int            `gorm:"not null" json:"quantity"`
	UnitPrice     int64          `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	TaxRate       int            `gorm:"default:0" json:"tax_rate"`
	TaxAmount     int64          `gorm:"default:0" json:"-"`
	Discount      int64          `gorm:"default:0" json:"-"`
	TotalPrice    int64          `gorm:"not null" json:"-"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (i SaleItem) MarshalJSON() ([]byte, error) {
	type Alias SaleItem
	return json.Marshal(&struct {
		Alias
		UnitPrice  float64 `json:"unit_price"`
		TaxAmount  float64 `json:"tax_amount"`
		Discount   float64 `json:"discount"`
		TotalPrice float64 `json:"total_price"`
	}{
		Alias:      Alias(i),
		UnitPrice:  float64(i.UnitPrice) / 100,
		TaxAmount:  float64(i.TaxAmount) / 100,
		Discount:   float64(i.Discount) / 100,
		TotalPrice: float64(i.TotalPrice) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new sale item
func (i *SaleItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleItem model
func (SaleItem) TableName() string {
	return "sale_items"
}
