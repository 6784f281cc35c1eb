package mailer

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/pkg/mailer/templates"
)

// Publisher enqueues a job for the email worker.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueNotifier enqueues account notifications. Delivery is best effort:
// failures are logged and never returned to the caller.
type QueueNotifier struct {
	Pub     Publisher
	Logger  *logrus.Logger
	AppName string
	Enabled bool
}

func NewQueueNotifier(pub Publisher, logger *logrus.Logger, appName string, enabled bool) *QueueNotifier {
	return &QueueNotifier{Pub: pub, Logger: logger, AppName: appName, Enabled: enabled}
}

// Welcome is sent after a successful registration.
func (n *QueueNotifier) Welcome(ctx context.Context, email, name string) {
	n.enqueue(ctx, templates.Welcome, email, name)
}

// Cancellation is sent after an account has been deleted.
func (n *QueueNotifier) Cancellation(ctx context.Context, email, name string) {
	n.enqueue(ctx, templates.Cancellation, email, name)
}

func (n *QueueNotifier) enqueue(ctx context.Context, tpl, email, name string) {
	if !n.Enabled || n.Pub == nil {
		return
	}
	job := EmailJob{
		To:       email,
		Template: tpl,
		Data:     templates.ToMap(templates.EmailData{Name: name, Email: email, AppName: n.AppName}),
	}
	if err := n.Pub.PublishJSON(ctx, job); err != nil && n.Logger != nil {
		n.Logger.WithError(err).WithField("template", tpl).Warn("failed to enqueue email")
	}
}
