package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, p Principal) error
	GetByID(ctx context.Context, id snowflake.ID) (*Principal, error)
	GetByEmail(ctx context.Context, email string) (*Principal, error)
	ListByTenant(ctx context.Context, tenantID snowflake.ID) ([]Principal, error)
	UpdateRole(ctx context.Context, id snowflake.ID, role Role) error
}
