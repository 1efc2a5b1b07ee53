// Package domain contains leave type, policy and balance models.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// LeaveType is a platform-wide category of leave with a default allocation
// used when a tenant has no policy of its own.
type LeaveType struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"type:text;not null;uniqueIndex:ux_leave_types_name" json:"name"`
	DefaultDays int          `gorm:"column:default_days;not null" json:"default_days"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (LeaveType) TableName() string { return "leave_types" }

// TenantLeavePolicy overrides the default allocation for one leave type
// within one tenant.
type TenantLeavePolicy struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID    snowflake.ID `gorm:"column:tenant_id;not null;uniqueIndex:ux_policies_tenant_type" json:"tenant_id"`
	LeaveTypeID snowflake.ID `gorm:"column:leave_type_id;not null;uniqueIndex:ux_policies_tenant_type" json:"leave_type_id"`
	Days        int          `gorm:"not null" json:"days"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (TenantLeavePolicy) TableName() string { return "tenant_leave_policies" }

// LeaveBalance tracks one principal's allocation and usage for one leave
// type. Used never exceeds Allocated and never goes below zero.
type LeaveBalance struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	PrincipalID snowflake.ID `gorm:"column:principal_id;not null;uniqueIndex:ux_balances_principal_type" json:"principal_id"`
	LeaveTypeID snowflake.ID `gorm:"column:leave_type_id;not null;uniqueIndex:ux_balances_principal_type" json:"leave_type_id"`
	Allocated   int          `gorm:"not null" json:"allocated"`
	Used        int          `gorm:"not null;default:0" json:"used"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (LeaveBalance) TableName() string { return "leave_balances" }

// BalanceView is a balance joined with its leave type name for listing.
type BalanceView struct {
	LeaveType string `json:"leave_type"`
	Allocated int    `json:"allocated"`
	Used      int    `json:"used"`
	Remaining int    `json:"remaining"`
}
