// Package domain contains holiday and workweek models plus calendar types.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Holiday is a tenant-level non-working day. Recurring holidays repeat on
// the same month and day every year.
type Holiday struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID   snowflake.ID `gorm:"column:tenant_id;not null;index:idx_holidays_tenant" json:"tenant_id"`
	Date       time.Time    `gorm:"not null" json:"date"`
	Name       string       `gorm:"type:text;not null" json:"name"`
	IsOptional bool         `gorm:"column:is_optional;not null;default:false" json:"is_optional"`
	Recurring  bool         `gorm:"not null;default:false" json:"recurring"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Holiday) TableName() string { return "holidays" }

// OccursIn returns the holiday's date within the given year, accounting
// for recurrence.
func (h Holiday) OccursIn(year int) time.Time {
	if !h.Recurring {
		return h.Date
	}
	return time.Date(year, h.Date.Month(), h.Date.Day(), 0, 0, 0, 0, time.UTC)
}

// WorkWeek holds a tenant's working weekdays, ISO numbered: 1 is Monday,
// 7 is Sunday.
type WorkWeek struct {
	ID          snowflake.ID            `gorm:"primaryKey" json:"id"`
	TenantID    snowflake.ID            `gorm:"column:tenant_id;not null;uniqueIndex:ux_workweeks_tenant" json:"tenant_id"`
	WorkingDays datatypes.JSONSlice[int] `gorm:"column:working_days;not null" json:"working_days"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (WorkWeek) TableName() string { return "work_weeks" }

// DefaultWorkingDays is Monday through Friday.
var DefaultWorkingDays = []int{1, 2, 3, 4, 5}

// DayKind classifies a calendar day.
type DayKind string

const (
	DayWorkday DayKind = "workday"
	DayWeekend DayKind = "weekend"
	DayHoliday DayKind = "holiday"
	DayLeave   DayKind = "leave"
)

// CalendarDay is one classified day in a month view.
type CalendarDay struct {
	Date    time.Time `json:"date"`
	Kind    DayKind   `json:"kind"`
	Holiday string    `json:"holiday,omitempty"`
}

// Suggestion is a recommended leave day that bridges surrounding
// non-working days into a longer break.
type Suggestion struct {
	Date   time.Time `json:"date"`
	Reason string    `json:"reason"`
}
