package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/leavesync/leavesync/internal/designation/domain"
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

func (r *repository) Create(ctx context.Context, d domain.RoleDesignation) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO role_designations (id, tenant_id, email, role, designated_by, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID,
		d.TenantID,
		d.Email,
		d.Role,
		d.DesignatedBy,
		d.IsActive,
		d.CreatedAt,
		d.UpdatedAt,
	).Error
}

func (r *repository) GetActive(ctx context.Context, tenantID snowflake.ID, email string) (*domain.RoleDesignation, error) {
	var d domain.RoleDesignation
	err := r.db.WithContext(ctx).
		First(&d, "tenant_id = ? AND email = ? AND is_active = ?", tenantID, email, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDesignationNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *repository) Deactivate(ctx context.Context, id snowflake.ID) (bool, error) {
	// Conditional update keeps consumption single-use under concurrency.
	result := r.db.WithContext(ctx).Exec(
		`UPDATE role_designations SET is_active = ?, updated_at = ?
		 WHERE id = ? AND is_active = ?`,
		false, time.Now().UTC(), id, true,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *repository) ListByTenant(ctx context.Context, tenantID snowflake.ID) ([]domain.RoleDesignation, error) {
	var designations []domain.RoleDesignation
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&designations).Error
	if err != nil {
		return nil, err
	}
	return designations, nil
}
