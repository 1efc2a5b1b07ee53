package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/leavesync/leavesync/internal/observability/metrics"
	"github.com/leavesync/leavesync/internal/providers/email"
	"go.uber.org/zap"
)

const sendTimeout = 10 * time.Second

type emailNotifier struct {
	log      *zap.Logger
	provider email.Provider
	metrics  *metrics.Metrics
}

func NewEmailNotifier(log *zap.Logger, provider email.Provider, m *metrics.Metrics) Notifier {
	return &emailNotifier{
		log:      log.Named("notification"),
		provider: provider,
		metrics:  m,
	}
}

func (n *emailNotifier) Notify(ctx context.Context, msg Message) {
	if msg.Recipient == "" {
		return
	}

	// Detach from the request context so delivery outlives the handler.
	ctx = context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(ctx, sendTimeout)
		defer cancel()

		subject, body := render(msg)
		err := n.provider.Send(ctx, []string{msg.Recipient}, subject, body)
		n.metrics.RecordNotification(ctx, string(msg.Event), err == nil)
		if err != nil {
			n.log.Warn("notification delivery failed",
				zap.String("event", string(msg.Event)),
				zap.String("recipient", msg.Recipient),
				zap.Error(err),
			)
			return
		}
		n.log.Debug("notification delivered",
			zap.String("event", string(msg.Event)),
			zap.String("recipient", msg.Recipient),
		)
	}()
}

func render(msg Message) (subject, body string) {
	name := msg.RecipientName
	if name == "" {
		name = msg.Recipient
	}

	switch msg.Event {
	case EventWelcome:
		subject = "Welcome to LeaveSync"
		body = fmt.Sprintf("Hi %s,\n\nYour account is ready. You can now submit and track leave requests.\n", name)
	case EventLeaveSubmitted:
		subject = fmt.Sprintf("Leave request submitted: %s", msg.LeaveType)
		body = fmt.Sprintf("Hi %s,\n\nYour %s leave request for %s to %s (%d day(s)) was submitted and is awaiting review.\n",
			name, msg.LeaveType, msg.StartDate.Format("2006-01-02"), msg.EndDate.Format("2006-01-02"), msg.Days)
	case EventLeaveApproved, EventLeaveRejected:
		subject = fmt.Sprintf("Leave request %s: %s", msg.Status, msg.LeaveType)
		body = fmt.Sprintf("Hi %s,\n\nYour %s leave request for %s to %s was %s.",
			name, msg.LeaveType, msg.StartDate.Format("2006-01-02"), msg.EndDate.Format("2006-01-02"), msg.Status)
		if msg.Comment != "" {
			body += fmt.Sprintf("\nReviewer comment: %s", msg.Comment)
		}
		body += "\n"
	case EventLeaveCancelled:
		subject = fmt.Sprintf("Leave request cancelled: %s", msg.LeaveType)
		body = fmt.Sprintf("Hi %s,\n\nYour %s leave request for %s to %s was cancelled.\n",
			name, msg.LeaveType, msg.StartDate.Format("2006-01-02"), msg.EndDate.Format("2006-01-02"))
	case EventRoleChanged:
		subject = "Your role has changed"
		body = fmt.Sprintf("Hi %s,\n\nYour role was changed from %s to %s.\n", name, msg.OldRole, msg.NewRole)
	default:
		subject = "LeaveSync notification"
		body = fmt.Sprintf("Hi %s,\n\nThere is an update on your account.\n", name)
	}
	return subject, body
}
