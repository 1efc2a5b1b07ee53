package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, tenant Tenant) error
	GetByID(ctx context.Context, id snowflake.ID) (*Tenant, error)
	GetByDomain(ctx context.Context, domain string) (*Tenant, error)
	SetVerified(ctx context.Context, id snowflake.ID) error
	ClaimBootstrap(ctx context.Context, id snowflake.ID) (bool, error)
}
