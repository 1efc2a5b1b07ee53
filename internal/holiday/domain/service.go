package domain

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/bwmarrin/snowflake"
)

// HolidayInput is an admin-provided holiday definition.
type HolidayInput struct {
	Date       time.Time
	Name       string
	IsOptional bool
	Recurring  bool
}

type Service interface {
	// AddHoliday and SetWorkWeek require an actor able to administer
	// roles; everything else is readable by any member of the tenant.
	AddHoliday(ctx context.Context, actorID snowflake.ID, in HolidayInput) (*Holiday, error)

	// ImportHolidays reads CSV or TSV rows, each carrying a holiday name
	// and a date in one of the accepted formats, and creates the holidays
	// it can parse. Returns how many were imported.
	ImportHolidays(ctx context.Context, actorID snowflake.ID, r io.Reader) (int, error)

	ListHolidays(ctx context.Context, principalID snowflake.ID, year int) ([]Holiday, error)

	SetWorkWeek(ctx context.Context, actorID snowflake.ID, workingDays []int) (*WorkWeek, error)
	GetWorkWeek(ctx context.Context, tenantID snowflake.ID) (*WorkWeek, error)

	// Calendar classifies every day of the given month for the principal.
	Calendar(ctx context.Context, principalID snowflake.ID, year int, month time.Month) ([]CalendarDay, error)

	// Suggestions finds bridge days in the next 90 days: short workday
	// runs flanked by holidays or weekends on both sides.
	Suggestions(ctx context.Context, principalID snowflake.ID) ([]Suggestion, error)
}

var (
	ErrInvalidHoliday  = errors.New("invalid_holiday")
	ErrInvalidWorkWeek = errors.New("invalid_work_week")
	ErrNothingImported = errors.New("nothing_imported")
)
