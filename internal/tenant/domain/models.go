// Package domain contains persistence models for the tenant registry.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Tenant represents an organization, keyed by email domain.
type Tenant struct {
	ID     snowflake.ID `gorm:"primaryKey" json:"id"`
	Name   string       `gorm:"type:text;not null" json:"name"`
	Domain string       `gorm:"type:text;not null;uniqueIndex:ux_tenants_domain" json:"domain"`

	IsVerified bool `gorm:"column:is_verified;not null;default:false" json:"is_verified"`

	// FirstPrincipalGranted records the one-time bootstrap transition: the
	// tenant's first principal is granted HR without a designation. Kept on
	// the tenant so the grant is observable rather than an implicit side
	// effect of signup ordering.
	FirstPrincipalGranted bool `gorm:"column:first_principal_granted;not null;default:false" json:"first_principal_granted"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Tenant) TableName() string { return "tenants" }
