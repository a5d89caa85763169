package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/kiprotich/tillpoint-api/internal/domain/entity"
	"github.com/kiprotich/tillpoint-api/internal/domain/enum"
	"github.com/kiprotich/tillpoint-api/pkg/pagination"
)

// TransactionRepository defines the interface for sale transaction data
// operations. Recorded transactions are the ledger the session close
// computation reads from.
type TransactionRepository interface {
	Create(ctx context.Context, txn *entity.SaleTransaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.SaleTransaction, error)
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.SaleTransaction, error)
	Update(ctx context.Context, txn *entity.SaleTransaction) error
	// Delete removes a transaction and its items. Used to back out a record
	// whose cart turned out to be stale after persisting.
	Delete(ctx context.Context, id uuid.UUID) error
	ListBySession(ctx context.Context, sessionID uuid.UUID, params *pagination.PaginationParams) ([]entity.SaleTransaction, int64, error)
	// SumCashBySession returns the net cash taken for a session: completed
	// cash sale totals only, voided and refunded excluded. This, plus the
	// starting float, is the expected drawer amount at close.
	SumCashBySession(ctx context.Context, sessionID uuid.UUID) (int64, error)
	// SummarizeBySession aggregates completed transaction totals per payment
	// method for the session summary endpoint.
	SummarizeBySession(ctx context.Context, sessionID uuid.UUID) ([]MethodSummary, error)
	// ListOffline returns offline-recorded transactions awaiting upstream
	// reconciliation.
	ListOffline(ctx context.Context, params *pagination.PaginationParams) ([]entity.SaleTransaction, int64, error)
}

// MethodSummary is an aggregate of completed sales for one payment method.
type MethodSummary struct {
	PaymentMethod enum.PaymentMethod `json:"payment_method"`
	Count         int64              `json:"count"`
	Total         int64              `json:"total"` // cents
}
