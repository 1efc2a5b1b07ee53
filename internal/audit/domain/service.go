package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// ListQuery filters and pages an audit listing. Cursor is the ID of the
// last entry of the previous page; zero means start from the newest.
type ListQuery struct {
	Action string
	Limit  int
	Cursor snowflake.ID
}

type Service interface {
	// Record appends an entry, filling in ID, timestamp and request
	// correlation fields from the context. Failures are logged, never
	// propagated: auditing must not fail the operation it describes.
	Record(ctx context.Context, entry Entry)

	// List returns tenant-scoped entries newest first. The actor must be
	// able to administer roles.
	List(ctx context.Context, actorID snowflake.ID, q ListQuery) ([]Entry, error)
}
