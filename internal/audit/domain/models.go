// Package domain contains the append-only audit log model.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Actions recorded in the audit log.
const (
	ActionSignup             = "signup"
	ActionRoleChanged        = "role.changed"
	ActionDesignationAdded   = "designation.added"
	ActionDesignationRevoked = "designation.revoked"
	ActionTenantVerified     = "tenant.verified"
	ActionLeaveSubmitted     = "leave.submitted"
	ActionLeaveApproved      = "leave.approved"
	ActionLeaveRejected      = "leave.rejected"
	ActionLeaveCancelled     = "leave.cancelled"
)

// Entry is a single tenant-scoped audit record. Entries are never updated
// or deleted.
type Entry struct {
	ID         snowflake.ID      `gorm:"primaryKey" json:"id"`
	TenantID   snowflake.ID      `gorm:"column:tenant_id;not null;index:idx_audit_tenant" json:"tenant_id"`
	ActorID    snowflake.ID      `gorm:"column:actor_id" json:"actor_id"`
	Action     string            `gorm:"type:text;not null" json:"action"`
	Resource   string            `gorm:"type:text;not null" json:"resource"`
	ResourceID string            `gorm:"column:resource_id;type:text" json:"resource_id"`
	Metadata   datatypes.JSONMap `gorm:"type:json" json:"metadata,omitempty"`

	RequestID string `gorm:"column:request_id;type:text" json:"request_id,omitempty"`
	IPAddress string `gorm:"column:ip_address;type:text" json:"ip_address,omitempty"`
	UserAgent string `gorm:"column:user_agent;type:text" json:"user_agent,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Entry) TableName() string { return "audit_logs" }
