// Package domain contains the principal model and its role rules.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Principal is a registered member of a tenant. Email and TenantID never
// change after creation, so the tenant-domain invariant holds for the
// lifetime of the row.
type Principal struct {
	ID       snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID snowflake.ID `gorm:"column:tenant_id;not null;index:idx_principals_tenant" json:"tenant_id"`
	Email    string       `gorm:"type:text;not null;uniqueIndex:ux_principals_email" json:"email"`
	Name     string       `gorm:"type:text;not null" json:"name"`
	Role     Role         `gorm:"type:text;not null" json:"role"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Principal) TableName() string { return "principals" }
