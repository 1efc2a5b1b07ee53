package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateType(ctx context.Context, t LeaveType) error
	GetTypeByName(ctx context.Context, name string) (*LeaveType, error)
	ListTypes(ctx context.Context) ([]LeaveType, error)

	UpsertPolicy(ctx context.Context, p TenantLeavePolicy) (*TenantLeavePolicy, error)
	ListPolicies(ctx context.Context, tenantID snowflake.ID) ([]TenantLeavePolicy, error)

	CreateBalance(ctx context.Context, b LeaveBalance) error
	GetBalance(ctx context.Context, principalID, leaveTypeID snowflake.ID) (*LeaveBalance, error)
	ListBalances(ctx context.Context, principalID snowflake.ID) ([]BalanceView, error)

	// Debit returns false when remaining allocation is insufficient.
	Debit(ctx context.Context, principalID, leaveTypeID snowflake.ID, days int) (bool, error)
	Credit(ctx context.Context, principalID, leaveTypeID snowflake.ID, days int) error
}
