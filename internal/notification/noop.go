package notification

import "context"

// NoOpNotifier drops every message.
type NoOpNotifier struct{}

func (NoOpNotifier) Notify(ctx context.Context, msg Message) {}
