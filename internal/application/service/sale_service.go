package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kiprotich/tillpoint-api/internal/domain/entity"
	"github.com/kiprotich/tillpoint-api/internal/domain/enum"
	"github.com/kiprotich/tillpoint-api/internal/domain/repository"
	"github.com/kiprotich/tillpoint-api/internal/infrastructure/gateway"
	"github.com/kiprotich/tillpoint-api/pkg/apperror"
	"github.com/kiprotich/tillpoint-api/pkg/pagination"
)

// Gateway is the upstream mirror a finalized sale is submitted to. Satisfied
// by gateway.Client.
type Gateway interface {
	SubmitTransaction(ctx context.Context, token string, txn *entity.SaleTransaction) (*gateway.SubmitResult, error)
	Available() bool
}

// SaleService finalizes sales: it freezes the cart into a transaction record,
// decrements stock, mirrors the record upstream, and updates the session's
// running counters. The local database is the ledger; the upstream submission
// is a mirror that may degrade to an offline-tagged record without blocking
// the sale.
type SaleService struct {
	txnRepo     repository.TransactionRepository
	sessionRepo repository.SessionRepository
	productRepo repository.ProductRepository
	carts       *CartService
	payments    *PaymentService
	upstream    Gateway

	seqMu sync.Mutex
	seq   int
}

// NewSaleService creates a new sale service
func NewSaleService(
	txnRepo repository.TransactionRepository,
	sessionRepo repository.SessionRepository,
	productRepo repository.ProductRepository,
	carts *CartService,
	payments *PaymentService,
	upstream Gateway,
) *SaleService {
	return &SaleService{
		txnRepo:     txnRepo,
		sessionRepo: sessionRepo,
		productRepo: productRepo,
		carts:       carts,
		payments:    payments,
		upstream:    upstream,
	}
}

// nextTransactionNumber generates a unique transaction number. The sequence
// resets on restart; uniqueness across restarts comes from the timestamp.
func (s *SaleService) nextTransactionNumber() string {
	s.seqMu.Lock()
	s.seq++
	n := s.seq
	s.seqMu.Unlock()
	return fmt.Sprintf("TX-%s-%04d", time.Now().Format("20060102150405"), n)
}

// RecordSale finalizes the current cart on a register into a persisted
// transaction. Preconditions: the register has an open session, the cart is
// non-empty, and a payment has been confirmed for the cart's exact total.
// Gateway authorization failures abort the sale and propagate unmodified;
// gateway unavailability degrades to an offline-tagged local record.
func (s *SaleService) RecordSale(ctx context.Context, registerNumber string, cashierID uuid.UUID, token string) (*entity.SaleTransaction, error) {
	registerNumber = strings.TrimSpace(registerNumber)

	session, err := s.sessionRepo.GetActiveByRegister(ctx, registerNumber)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NewInvalidStateError("No open session on register " + registerNumber)
	}

	snapshot := s.carts.Snapshot(registerNumber)
	if len(snapshot.Lines) == 0 {
		return nil, apperror.NewInvalidStateError("Cannot record a sale from an empty cart")
	}

	payment, err := s.payments.Confirm(registerNumber, snapshot.Totals.Total)
	if err != nil {
		return nil, err
	}

	txn := &entity.SaleTransaction{
		TransactionNumber: s.nextTransactionNumber(),
		SessionID:         session.ID,
		RegisterNumber:    registerNumber,
		CashierID:         cashierID,
		Date:              time.Now(),
		SubTotal:          snapshot.Totals.Subtotal,
		TaxTotal:          snapshot.Totals.TaxTotal,
		Discount:          snapshot.Totals.Discount,
		Total:             snapshot.Totals.Total,
		PaymentMethod:     payment.Method,
		AmountTendered:    payment.AmountTendered,
		Change:            payment.Change,
		Status:            enum.TransactionStatusCompleted,
		Items:             itemsFromCart(snapshot.Lines),
	}

	decrements := make(map[uuid.UUID]int, len(snapshot.Lines))
	for _, line := range snapshot.Lines {
		decrements[line.ProductID] += line.Quantity
	}
	failed, err := s.productRepo.AtomicDecrementBatch(ctx, decrements)
	if err != nil {
		return nil, err
	}
	if len(failed) > 0 {
		return nil, apperror.NewInvalidStateError("Insufficient stock for one or more cart items")
	}

	result, err := s.upstream.SubmitTransaction(ctx, token, txn)
	if err != nil {
		// Authorization rejections from the upstream. The sale is aborted
		// whole: stock goes back, the cart stays intact.
		s.restoreStock(ctx, decrements)
		return nil, err
	}
	if result.Offline {
		txn.Offline = true
		txn.OfflineNote = "Recorded offline; upstream gateway unreachable"
	}

	// Persist before touching the cart: a failed write must leave the cart
	// intact for a retry.
	if err := s.txnRepo.Create(ctx, txn); err != nil {
		s.restoreStock(ctx, decrements)
		return nil, err
	}

	// The cart may have been mutated between snapshot and now. A stale
	// snapshot must not stand as a recorded sale, so the freshly persisted
	// record is backed out along with the stock.
	if !s.carts.CompleteAndClear(registerNumber, snapshot.Version) {
		_ = s.txnRepo.Delete(ctx, txn.ID)
		s.restoreStock(ctx, decrements)
		return nil, apperror.NewConflictError("Cart changed while the sale was being recorded")
	}

	s.payments.Clear(registerNumber)

	session.TransactionCount++
	session.TotalSales += txn.Total
	if txn.PaymentMethod == enum.PaymentMethodCash {
		session.CashSales += txn.Total
	}
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		// Counters are display figures; the ledger already holds the truth.
		return txn, nil
	}

	return txn, nil
}

func (s *SaleService) restoreStock(ctx context.Context, decrements map[uuid.UUID]int) {
	_ = s.productRepo.AtomicIncrementBatch(ctx, decrements)
}

func itemsFromCart(lines []entity.CartLine) []entity.SaleItem {
	items := make([]entity.SaleItem, len(lines))
	for i, line := range lines {
		items[i] = entity.SaleItem{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			TaxRate:     line.TaxRate,
			TaxAmount:   line.TaxAmount(),
			Discount:    line.Discount,
			TotalPrice:  line.TotalPrice(),
		}
	}
	return items
}

// GetTransaction returns a transaction with its items.
func (s *SaleService) GetTransaction(ctx context.Context, id uuid.UUID) (*entity.SaleTransaction, error) {
	txn, err := s.txnRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	return txn, nil
}

// ListBySession returns the transactions recorded during a session.
func (s *SaleService) ListBySession(ctx context.Context, sessionID uuid.UUID, params *pagination.PaginationParams) ([]entity.SaleTransaction, int64, error) {
	return s.txnRepo.ListBySession(ctx, sessionID, params)
}

// ListOffline returns offline-recorded transactions awaiting reconciliation.
func (s *SaleService) ListOffline(ctx context.Context, params *pagination.PaginationParams) ([]entity.SaleTransaction, int64, error) {
	return s.txnRepo.ListOffline(ctx, params)
}

// VoidSale voids a completed transaction and restores its stock. A reason is
// mandatory; pending, voided and refunded transactions cannot be voided.
func (s *SaleService) VoidSale(ctx context.Context, id uuid.UUID, reason string) (*entity.SaleTransaction, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperror.NewBadRequestError("A void reason is required")
	}

	txn, err := s.txnRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	if txn.Status != enum.TransactionStatusCompleted {
		return nil, apperror.NewInvalidStateError("Only completed transactions can be voided")
	}

	increments := make(map[uuid.UUID]int, len(txn.Items))
	for _, item := range txn.Items {
		increments[item.ProductID] += item.Quantity
	}
	if err := s.productRepo.AtomicIncrementBatch(ctx, increments); err != nil {
		return nil, err
	}

	txn.Status = enum.TransactionStatusVoided
	txn.VoidReason = reason
	if err := s.txnRepo.Update(ctx, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// UpstreamAvailable reports whether the head-office gateway is currently
// believed reachable, for health reporting.
func (s *SaleService) UpstreamAvailable() bool {
	return s.upstream.Available()
}
