package migration

import (
	auditdomain "github.com/leavesync/leavesync/internal/audit/domain"
	balancedomain "github.com/leavesync/leavesync/internal/balance/domain"
	designationdomain "github.com/leavesync/leavesync/internal/designation/domain"
	holidaydomain "github.com/leavesync/leavesync/internal/holiday/domain"
	principaldomain "github.com/leavesync/leavesync/internal/principal/domain"
	tenantdomain "github.com/leavesync/leavesync/internal/tenant/domain"
	workflowdomain "github.com/leavesync/leavesync/internal/workflow/domain"
	"gorm.io/gorm"
)

// AutoMigrate creates the schema from the models. Used for sqlite and in
// tests; postgres deployments use the versioned SQL migrations.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&tenantdomain.Tenant{},
		&principaldomain.Principal{},
		&designationdomain.RoleDesignation{},
		&balancedomain.LeaveType{},
		&balancedomain.TenantLeavePolicy{},
		&balancedomain.LeaveBalance{},
		&workflowdomain.LeaveRequest{},
		&holidaydomain.Holiday{},
		&holidaydomain.WorkWeek{},
		&auditdomain.Entry{},
	)
}
