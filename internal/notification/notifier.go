// Package notification delivers best-effort messages about domain events.
// Delivery never participates in the transaction that produced the event.
package notification

import (
	"context"
	"time"
)

type Event string

const (
	EventWelcome        Event = "welcome"
	EventLeaveSubmitted Event = "leave.submitted"
	EventLeaveApproved  Event = "leave.approved"
	EventLeaveRejected  Event = "leave.rejected"
	EventLeaveCancelled Event = "leave.cancelled"
	EventRoleChanged    Event = "role.changed"
)

// Message is a flattened view of the event for rendering. Only the fields
// relevant to the event kind are set.
type Message struct {
	Event         Event
	Recipient     string
	RecipientName string

	LeaveType string
	StartDate time.Time
	EndDate   time.Time
	Days      int
	Status    string
	Comment   string

	OldRole string
	NewRole string
}

// Notifier sends a message without blocking the caller. Failures are
// logged and counted, never returned.
type Notifier interface {
	Notify(ctx context.Context, msg Message)
}
