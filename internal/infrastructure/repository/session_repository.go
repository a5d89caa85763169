package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/kiprotich/tillpoint-api/internal/domain/entity"
	"github.com/kiprotich/tillpoint-api/internal/domain/enum"
	domainRepo "github.com/kiprotich/tillpoint-api/internal/domain/repository"
	"gorm.io/gorm"
)

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new register session repository
func NewSessionRepository(db *gorm.DB) domainRepo.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *entity.RegisterSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.RegisterSession, error) {
	var session entity.RegisterSession
	err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *sessionRepository) GetActiveByRegister(ctx context.Context, registerNumber string) (*entity.RegisterSession, error) {
	var session entity.RegisterSession
	err := r.db.WithContext(ctx).
		Where("register_number = ? AND status = ?", registerNumber, enum.SessionStatusOpen).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *sessionRepository) Update(ctx context.Context, session *entity.RegisterSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

func (r *sessionRepository) List(ctx context.Context, params *domainRepo.SessionFilterParams) ([]entity.RegisterSession, int64, error) {
	var sessions []entity.RegisterSession
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.RegisterSession{})

	if params.RegisterNumber != "" {
		query = query.Where("register_number = ?", params.RegisterNumber)
	}
	if params.OpenOnly {
		query = query.Where("status = ?", enum.SessionStatusOpen)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("opened_at DESC").
		Find(&sessions).Error

	return sessions, total, err
}
