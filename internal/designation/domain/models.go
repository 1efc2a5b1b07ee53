// Package domain contains models for pre-assigned role designations.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	principaldomain "github.com/leavesync/leavesync/internal/principal/domain"
)

// RoleDesignation reserves a role for an email address that has not signed
// up yet. At most one active designation exists per (tenant, email); adding
// another supersedes the previous one. A designation is consumed exactly
// once, at signup.
type RoleDesignation struct {
	ID           snowflake.ID         `gorm:"primaryKey" json:"id"`
	TenantID     snowflake.ID         `gorm:"column:tenant_id;not null;index:idx_designations_tenant" json:"tenant_id"`
	Email        string               `gorm:"type:text;not null;index:idx_designations_email" json:"email"`
	Role         principaldomain.Role `gorm:"type:text;not null" json:"role"`
	DesignatedBy snowflake.ID         `gorm:"column:designated_by;not null" json:"designated_by"`
	IsActive     bool                 `gorm:"column:is_active;not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (RoleDesignation) TableName() string { return "role_designations" }
