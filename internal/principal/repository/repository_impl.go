package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/leavesync/leavesync/internal/principal/domain"
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

func (r *repository) Create(ctx context.Context, p domain.Principal) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO principals (id, tenant_id, email, name, role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.TenantID,
		p.Email,
		p.Name,
		p.Role,
		p.CreatedAt,
		p.UpdatedAt,
	).Error
}

func (r *repository) GetByID(ctx context.Context, id snowflake.ID) (*domain.Principal, error) {
	var p domain.Principal
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPrincipalNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*domain.Principal, error) {
	var p domain.Principal
	err := r.db.WithContext(ctx).First(&p, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPrincipalNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) ListByTenant(ctx context.Context, tenantID snowflake.ID) ([]domain.Principal, error) {
	var principals []domain.Principal
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at ASC").
		Find(&principals).Error
	if err != nil {
		return nil, err
	}
	return principals, nil
}

func (r *repository) UpdateRole(ctx context.Context, id snowflake.ID, role domain.Role) error {
	result := r.db.WithContext(ctx).Exec(
		`UPDATE principals SET role = ?, updated_at = ? WHERE id = ?`,
		role, time.Now().UTC(), id,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrPrincipalNotFound
	}
	return nil
}
