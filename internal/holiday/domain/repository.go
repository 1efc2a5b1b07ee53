package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateHoliday(ctx context.Context, h Holiday) error
	ListHolidaysInRange(ctx context.Context, tenantID snowflake.ID, from, to time.Time) ([]Holiday, error)
	ListRecurring(ctx context.Context, tenantID snowflake.ID) ([]Holiday, error)

	GetWorkWeek(ctx context.Context, tenantID snowflake.ID) (*WorkWeek, error)
	UpsertWorkWeek(ctx context.Context, w WorkWeek) (*WorkWeek, error)
}
