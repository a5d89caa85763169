package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/kiprotich/tillpoint-api/internal/domain/entity"
	"github.com/kiprotich/tillpoint-api/pkg/pagination"
)

// SessionRepository defines the interface for register session data operations.
// It is the single source of truth for the one-open-session-per-register
// invariant; clients never get to decide whether a register is free.
type SessionRepository interface {
	Create(ctx context.Context, session *entity.RegisterSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.RegisterSession, error)
	// GetActiveByRegister returns the Open session for a register, or nil when
	// the register is closed.
	GetActiveByRegister(ctx context.Context, registerNumber string) (*entity.RegisterSession, error)
	Update(ctx context.Context, session *entity.RegisterSession) error
	List(ctx context.Context, params *SessionFilterParams) ([]entity.RegisterSession, int64, error)
}

// SessionFilterParams contains filtering parameters for session queries
type SessionFilterParams struct {
	Pagination     *pagination.PaginationParams
	RegisterNumber string
	OpenOnly       bool
}
