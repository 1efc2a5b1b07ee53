package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/leavesync/leavesync/internal/tenant/domain"
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

func (r *repository) Create(ctx context.Context, tenant domain.Tenant) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO tenants (id, name, domain, is_verified, first_principal_granted, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tenant.ID,
		tenant.Name,
		tenant.Domain,
		tenant.IsVerified,
		tenant.FirstPrincipalGranted,
		tenant.CreatedAt,
		tenant.UpdatedAt,
	).Error
}

func (r *repository) GetByID(ctx context.Context, id snowflake.ID) (*domain.Tenant, error) {
	var tenant domain.Tenant
	err := r.db.WithContext(ctx).First(&tenant, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTenantNotFound
		}
		return nil, err
	}
	return &tenant, nil
}

func (r *repository) GetByDomain(ctx context.Context, dom string) (*domain.Tenant, error) {
	var tenant domain.Tenant
	err := r.db.WithContext(ctx).First(&tenant, "domain = ?", dom).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTenantNotFound
		}
		return nil, err
	}
	return &tenant, nil
}

func (r *repository) SetVerified(ctx context.Context, id snowflake.ID) error {
	result := r.db.WithContext(ctx).Exec(
		`UPDATE tenants SET is_verified = ?, updated_at = ? WHERE id = ?`,
		true, time.Now().UTC(), id,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrTenantNotFound
	}
	return nil
}

func (r *repository) ClaimBootstrap(ctx context.Context, id snowflake.ID) (bool, error) {
	// Conditional update: only the first claimant flips the flag.
	result := r.db.WithContext(ctx).Exec(
		`UPDATE tenants SET first_principal_granted = ?, updated_at = ?
		 WHERE id = ? AND first_principal_granted = ?`,
		true, time.Now().UTC(), id, false,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
