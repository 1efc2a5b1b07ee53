package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, d RoleDesignation) error
	GetActive(ctx context.Context, tenantID snowflake.ID, email string) (*RoleDesignation, error)

	// Deactivate flips is_active to false. Returns false when the row was
	// already inactive, so callers can detect a lost consumption race.
	Deactivate(ctx context.Context, id snowflake.ID) (bool, error)

	ListByTenant(ctx context.Context, tenantID snowflake.ID) ([]RoleDesignation, error)
}
