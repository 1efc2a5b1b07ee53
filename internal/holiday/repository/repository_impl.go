package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/leavesync/leavesync/internal/holiday/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) CreateHoliday(ctx context.Context, h domain.Holiday) error {
	return r.db.WithContext(ctx).Create(&h).Error
}

func (r *repository) ListHolidaysInRange(ctx context.Context, tenantID snowflake.ID, from, to time.Time) ([]domain.Holiday, error) {
	var holidays []domain.Holiday
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND date >= ? AND date <= ?", tenantID, from, to).
		Order("date ASC").
		Find(&holidays).Error
	if err != nil {
		return nil, err
	}
	return holidays, nil
}

func (r *repository) ListRecurring(ctx context.Context, tenantID snowflake.ID) ([]domain.Holiday, error) {
	var holidays []domain.Holiday
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND recurring = ?", tenantID, true).
		Order("date ASC").
		Find(&holidays).Error
	if err != nil {
		return nil, err
	}
	return holidays, nil
}

func (r *repository) GetWorkWeek(ctx context.Context, tenantID snowflake.ID) (*domain.WorkWeek, error) {
	var w domain.WorkWeek
	err := r.db.WithContext(ctx).First(&w, "tenant_id = ?", tenantID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

func (r *repository) UpsertWorkWeek(ctx context.Context, w domain.WorkWeek) (*domain.WorkWeek, error) {
	existing, err := r.GetWorkWeek(ctx, w.TenantID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		if err := r.db.WithContext(ctx).Create(&w).Error; err != nil {
			return nil, err
		}
		return &w, nil
	}

	existing.WorkingDays = w.WorkingDays
	existing.UpdatedAt = w.UpdatedAt
	if err := r.db.WithContext(ctx).Save(existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}
