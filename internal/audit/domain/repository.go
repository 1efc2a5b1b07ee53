package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry Entry) error
	ListByTenant(ctx context.Context, tenantID snowflake.ID, q ListQuery) ([]Entry, error)
}
