package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/leavesync/leavesync/internal/audit/domain"
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

func (r *repository) Create(ctx context.Context, entry domain.Entry) error {
	return r.db.WithContext(ctx).Create(&entry).Error
}

func (r *repository) ListByTenant(ctx context.Context, tenantID snowflake.ID, q domain.ListQuery) ([]domain.Entry, error) {
	query := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if q.Action != "" {
		query = query.Where("action = ?", q.Action)
	}
	if q.Cursor != 0 {
		// Snowflake IDs are time ordered, so the cursor pages by creation.
		query = query.Where("id < ?", q.Cursor)
	}

	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var entries []domain.Entry
	err := query.Order("id DESC").Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
