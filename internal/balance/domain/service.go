package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Initialize creates balances for a new principal from the tenant's
	// policies, or from leave type defaults when the tenant has none.
	// Idempotent: existing balances are left untouched.
	Initialize(ctx context.Context, principalID, tenantID snowflake.ID) error

	// Debit consumes days from a balance. Fails with
	// ErrInsufficientBalance when the remaining allocation is too small.
	Debit(ctx context.Context, principalID snowflake.ID, leaveType string, days int) error

	// Credit returns days to a balance, flooring usage at zero.
	Credit(ctx context.Context, principalID snowflake.ID, leaveType string, days int) error

	ListForPrincipal(ctx context.Context, principalID snowflake.ID) ([]BalanceView, error)
	ListTypes(ctx context.Context) ([]LeaveType, error)

	// SetPolicy creates or updates the actor tenant's allocation for a
	// leave type. The actor must be able to administer roles.
	SetPolicy(ctx context.Context, actorID snowflake.ID, leaveType string, days int) (*TenantLeavePolicy, error)
}

var (
	ErrInsufficientBalance = errors.New("insufficient_balance")
	ErrUnknownLeaveType    = errors.New("unknown_leave_type")
	ErrBalanceNotFound     = errors.New("balance_not_found")
)
