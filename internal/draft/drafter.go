// Package draft produces the message text attached to a leave request.
package draft

import (
	"context"
	"time"
)

// Input is everything the drafter may use. Identical inputs produce
// identical fallback drafts.
type Input struct {
	RequesterName string
	LeaveType     string
	StartDate     time.Time
	EndDate       time.Time
	Days          int
	Reason        string
}

type Drafter interface {
	Draft(ctx context.Context, in Input) (string, error)
}
