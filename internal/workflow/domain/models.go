// Package domain contains the leave request model and its state machine.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Status of a leave request. Pending is the only non-terminal state;
// terminal states never change again.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusCancelled
}

// LeaveRequest is a request for a span of leave days. TenantID is copied
// from the requester at submission so reviews never depend on a join.
type LeaveRequest struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	PrincipalID snowflake.ID `gorm:"column:principal_id;not null;index:idx_leave_requests_principal" json:"principal_id"`
	TenantID    snowflake.ID `gorm:"column:tenant_id;not null;index:idx_leave_requests_tenant" json:"tenant_id"`

	LeaveType string    `gorm:"column:leave_type;type:text;not null" json:"leave_type"`
	StartDate time.Time `gorm:"column:start_date;not null" json:"start_date"`
	EndDate   time.Time `gorm:"column:end_date;not null" json:"end_date"`
	Days      int       `gorm:"not null" json:"days"`
	Reason    string    `gorm:"type:text" json:"reason"`
	Draft     string    `gorm:"type:text" json:"draft"`

	Status     Status        `gorm:"type:text;not null;default:'pending';index:idx_leave_requests_status" json:"status"`
	ReviewerID *snowflake.ID `gorm:"column:reviewer_id" json:"reviewer_id,omitempty"`
	ReviewedAt *time.Time    `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	Comment    string        `gorm:"type:text" json:"comment,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (LeaveRequest) TableName() string { return "leave_requests" }
