package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kiprotich/tillpoint-api/internal/domain/entity"
	"github.com/kiprotich/tillpoint-api/internal/domain/enum"
	"github.com/kiprotich/tillpoint-api/internal/domain/repository"
	"github.com/kiprotich/tillpoint-api/pkg/apperror"
	"github.com/kiprotich/tillpoint-api/pkg/money"
)

// SessionService manages the open/close lifecycle of register sessions. The
// service, backed by the database, is the sole authority on whether a
// register already has an open session; clients never get to assume they hold
// it.
type SessionService struct {
	sessionRepo repository.SessionRepository
	txnRepo     repository.TransactionRepository
}

// NewSessionService creates a new session service
func NewSessionService(sessionRepo repository.SessionRepository, txnRepo repository.TransactionRepository) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		txnRepo:     txnRepo,
	}
}

// OpenSessionInput represents the open register input
type OpenSessionInput struct {
	RegisterNumber string
	OpenedBy       uuid.UUID
	StartingAmount float64
	Notes          string
}

// CloseSessionInput represents the close register input
type CloseSessionInput struct {
	ClosedBy      uuid.UUID
	CountedAmount float64
	Notes         string
}

// OpenSession starts a working period on a register. Rejected with a conflict
// when the register already has an open session.
func (s *SessionService) OpenSession(ctx context.Context, input *OpenSessionInput) (*entity.RegisterSession, error) {
	registerNumber := strings.TrimSpace(input.RegisterNumber)
	if registerNumber == "" {
		return nil, apperror.NewBadRequestError("Register number is required")
	}
	if input.StartingAmount < 0 {
		return nil, apperror.NewBadRequestError("Starting amount cannot be negative")
	}

	existing, err := s.sessionRepo.GetActiveByRegister(ctx, registerNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Register " + registerNumber + " already has an open session")
	}

	session := &entity.RegisterSession{
		RegisterNumber: registerNumber,
		OpenedBy:       input.OpenedBy,
		OpenedAt:       time.Now(),
		StartingAmount: money.ToCents(input.StartingAmount),
		Status:         enum.SessionStatusOpen,
		Notes:          input.Notes,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// CloseSession ends a session. The expected drawer amount is derived from the
// recorded cash transactions for the session plus the starting float, never
// from whatever a cart on screen happens to total. Close-once fields are set
// here and never again: a closed session is terminal.
func (s *SessionService) CloseSession(ctx context.Context, sessionID uuid.UUID, input *CloseSessionInput) (*entity.RegisterSession, error) {
	if input.CountedAmount < 0 {
		return nil, apperror.NewBadRequestError("Counted amount cannot be negative")
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.Status != enum.SessionStatusOpen {
		return nil, apperror.NewNotFoundError("Open session")
	}

	cashTotal, err := s.txnRepo.SumCashBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	counted := money.ToCents(input.CountedAmount)
	expected := session.StartingAmount + cashTotal
	discrepancy := counted - expected

	now := time.Now()
	session.Status = enum.SessionStatusClosed
	session.ClosedBy = &input.ClosedBy
	session.ClosedAt = &now
	session.EndingAmount = &counted
	session.ExpectedAmount = &expected
	session.Discrepancy = &discrepancy
	if input.Notes != "" {
		session.Notes = input.Notes
	}

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetActiveSession returns the open session for a register, or nil when the
// register is closed. Side-effect free.
func (s *SessionService) GetActiveSession(ctx context.Context, registerNumber string) (*entity.RegisterSession, error) {
	return s.sessionRepo.GetActiveByRegister(ctx, registerNumber)
}

// GetSession returns a session by id.
func (s *SessionService) GetSession(ctx context.Context, sessionID uuid.UUID) (*entity.RegisterSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NewNotFoundError("Session")
	}
	return session, nil
}

// SessionSummary aggregates a session's completed sales per payment method.
type SessionSummary struct {
	Session      *entity.RegisterSession `json:"session"`
	Methods      []MethodSummaryView     `json:"methods"`
	ExpectedCash float64                 `json:"expected_cash"`
}

// MethodSummaryView is a per-method aggregate with decimal totals.
type MethodSummaryView struct {
	PaymentMethod enum.PaymentMethod `json:"payment_method"`
	Count         int64              `json:"count"`
	Total         float64            `json:"total"`
}

// Summarize reports per-method completed sales for a session together with
// the cash the drawer should hold right now.
func (s *SessionService) Summarize(ctx context.Context, sessionID uuid.UUID) (*SessionSummary, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	summaries, err := s.txnRepo.SummarizeBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	cashTotal, err := s.txnRepo.SumCashBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	methods := make([]MethodSummaryView, len(summaries))
	for i, m := range summaries {
		methods[i] = MethodSummaryView{
			PaymentMethod: m.PaymentMethod,
			Count:         m.Count,
			Total:         money.ToDecimal(m.Total),
		}
	}

	return &SessionSummary{
		Session:      session,
		Methods:      methods,
		ExpectedCash: money.ToDecimal(session.StartingAmount + cashTotal),
	}, nil
}
