package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/kiprotich/tillpoint-api/internal/domain/entity"
	"github.com/kiprotich/tillpoint-api/internal/domain/enum"
	domainRepo "github.com/kiprotich/tillpoint-api/internal/domain/repository"
	"github.com/kiprotich/tillpoint-api/pkg/pagination"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new sale transaction repository
func NewTransactionRepository(db *gorm.DB) domainRepo.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, txn *entity.SaleTransaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *transactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.SaleTransaction, error) {
	var txn entity.SaleTransaction
	err := r.db.WithContext(ctx).First(&txn, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &txn, err
}

func (r *transactionRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.SaleTransaction, error) {
	var txn entity.SaleTransaction
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&txn, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &txn, err
}

func (r *transactionRepository) Update(ctx context.Context, txn *entity.SaleTransaction) error {
	return r.db.WithContext(ctx).Save(txn).Error
}

func (r *transactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("transaction_id = ?", id).Delete(&entity.SaleItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.SaleTransaction{}, "id = ?", id).Error
	})
}

func (r *transactionRepository) ListBySession(ctx context.Context, sessionID uuid.UUID, params *pagination.PaginationParams) ([]entity.SaleTransaction, int64, error) {
	var txns []entity.SaleTransaction
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.SaleTransaction{}).
		Where("session_id = ?", sessionID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("Items").
		Order("date DESC").
		Find(&txns).Error

	return txns, total, err
}

// SumCashBySession totals completed cash sales for a session. Voided and
// refunded transactions are excluded, so voiding a cash sale removes it from
// the expected drawer amount.
func (r *transactionRepository) SumCashBySession(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).Model(&entity.SaleTransaction{}).
		Where("session_id = ? AND payment_method = ? AND status = ?",
			sessionID, enum.PaymentMethodCash, enum.TransactionStatusCompleted).
		Select("COALESCE(SUM(total), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *transactionRepository) SummarizeBySession(ctx context.Context, sessionID uuid.UUID) ([]domainRepo.MethodSummary, error) {
	var summaries []domainRepo.MethodSummary
	err := r.db.WithContext(ctx).Model(&entity.SaleTransaction{}).
		Where("session_id = ? AND status = ?", sessionID, enum.TransactionStatusCompleted).
		Select("payment_method, COUNT(*) AS count, COALESCE(SUM(total), 0) AS total").
		Group("payment_method").
		Scan(&summaries).Error
	return summaries, err
}

func (r *transactionRepository) ListOffline(ctx context.Context, params *pagination.PaginationParams) ([]entity.SaleTransaction, int64, error) {
	var txns []entity.SaleTransaction
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.SaleTransaction{}).
		Where("offline = ?", true)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("date DESC").
		Find(&txns).Error

	return txns, total, err
}
