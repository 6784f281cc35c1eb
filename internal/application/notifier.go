package application

import "context"

// Notifier sends account emails. Implementations handle their own failures;
// nothing here waits on delivery.
type Notifier interface {
	Welcome(ctx context.Context, email, name string)
	Cancellation(ctx context.Context, email, name string)
}

// NopNotifier drops every notification.
type NopNotifier struct{}

func (NopNotifier) Welcome(context.Context, string, string)      {}
func (NopNotifier) Cancellation(context.Context, string, string) {}
