package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/kiprotich/tillpoint-api/internal/domain/enum"
	"gorm.io/gorm"
)

// RegisterSession represents one working period on a physical till, from open
// to close. At most one Open session may exist per register number; that
// uniqueness is enforced by the session service against the database, never by
// a client.
type RegisterSession struct {
	ID             uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	RegisterNumber string             `gorm:"size:50;not null;index" json:"register_number"`
	OpenedBy       uuid.UUID          `gorm:"type:uuid;not null" json:"opened_by"`
	ClosedBy       *uuid.UUID         `gorm:"type:uuid" json:"closed_by,omitempty"`
	OpenedAt       time.Time          `gorm:"not null" json:"opened_at"`
	ClosedAt       *time.Time         `json:"closed_at,omitempty"`
	StartingAmount int64              `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	EndingAmount   *int64             `json:"-"`                 // Stored in cents, excluded from JSON
	ExpectedAmount *int64             `json:"-"`                 // Stored in cents, excluded from JSON
	Discrepancy    *int64             `json:"-"`                 // Stored in cents, excluded from JSON
	Status         enum.SessionStatus `gorm:"default:0;index" json:"status"`
	Notes          string             `gorm:"type:text" json:"notes,omitempty"`

	// Running counters, updated as sales are recorded. Display figures only:
	// the authoritative expected amount at close is always derived from the
	// recorded transactions, not from these.
	CashSales        int64 `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	TotalSales       int64 `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	TransactionCount int   `gorm:"default:0" json:"transaction_count"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (s RegisterSession) MarshalJSON() ([]byte, error) {
	type Alias RegisterSession
	out := &struct {
		Alias
		StartingAmount float64  `json:"starting_amount"`
		EndingAmount   *float64 `json:"ending_amount,omitempty"`
		ExpectedAmount *float64 `json:"expected_amount,omitempty"`
		Discrepancy    *float64 `json:"discrepancy,omitempty"`
		CashSales      float64  `json:"cash_sales"`
		TotalSales     float64  `json:"total_sales"`
	}{
		Alias:          Alias(s),
		StartingAmount: float64(s.StartingAmount) / 100,
		CashSales:      float64(s.CashSales) / 100,
		TotalSales:     float64(s.TotalSales) / 100,
	}
	if s.EndingAmount != nil {
		v := float64(*s.EndingAmount) / 100
		out.EndingAmount = &v
	}
	if s.ExpectedAmount != nil {
		v := float64(*s.ExpectedAmount) / 100
		out.ExpectedAmount = &v
	}
	if s.Discrepancy != nil {
		v := float64(*s.Discrepancy) / 100
		out.Discrepancy = &v
	}
	return json.Marshal(out)
}

// BeforeCreate generates a UUID before creating a new session
func (s *RegisterSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the RegisterSession model
func (RegisterSession) TableName() string {
	return "register_sessions"
}

// IsOpen reports whether the session can still accept sales.
func (s *RegisterSession) IsOpen() bool {
	return s.Status == enum.SessionStatusOpen
}
