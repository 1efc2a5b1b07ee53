// Package seed ensures baseline reference data exists at startup.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	balancedomain "github.com/leavesync/leavesync/internal/balance/domain"
	"gorm.io/gorm"
)

var defaultLeaveTypes = []struct {
	Name string
	Days int
}{
	{"Casual Leave", 12},
	{"Sick Leave", 10},
	{"Earned Leave", 15},
}

// EnsureDefaultLeaveTypes creates the built-in leave types when missing.
// Existing rows, including ones with adjusted allocations, are left alone.
func EnsureDefaultLeaveTypes(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, def := range defaultLeaveTypes {
			var count int64
			if err := tx.Model(&balancedomain.LeaveType{}).
				Where("name = ?", def.Name).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			lt := balancedomain.LeaveType{
				ID:          node.Generate(),
				Name:        def.Name,
				DefaultDays: def.Days,
				CreatedAt:   time.Now().UTC(),
			}
			if err := tx.Create(&lt).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
