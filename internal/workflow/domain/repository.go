package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, lr LeaveRequest) error
	GetByID(ctx context.Context, id snowflake.ID) (*LeaveRequest, error)

	// Review moves a pending request to a terminal reviewed state. Returns
	// false when the request was no longer pending.
	Review(ctx context.Context, id snowflake.ID, to Status, reviewerID snowflake.ID, reviewedAt time.Time, comment string) (bool, error)

	// CancelPending moves a pending request to cancelled. Returns false
	// when the request was no longer pending.
	CancelPending(ctx context.Context, id snowflake.ID) (bool, error)

	ListPendingByTenant(ctx context.Context, tenantID snowflake.ID) ([]LeaveRequest, error)
	ListByPrincipal(ctx context.Context, principalID snowflake.ID) ([]LeaveRequest, error)
}
