package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-task-manager/pkg/mailer"
	"github.com/oksasatya/go-task-manager/pkg/mailer/templates"
)

type ackRecorder struct {
	acked, nacked, requeued bool
}

func (a *ackRecorder) Ack(uint64, bool) error { a.acked = true; return nil }
func (a *ackRecorder) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked, a.requeued = true, requeue
	return nil
}
func (a *ackRecorder) Reject(uint64, bool) error { return nil }

type fakeSender struct {
	to, subject string
	err         error
}

func (f *fakeSender) Send(_ context.Context, to, subject, _, _ string) error {
	f.to, f.subject = to, subject
	return f.err
}

func delivery(t *testing.T, ack *ackRecorder, body any) amqp.Delivery {
	t.Helper()
	raw, ok := body.([]byte)
	if !ok {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}
	return amqp.Delivery{Acknowledger: ack, Body: raw}
}

func welcomeJob() mailer.EmailJob {
	return mailer.EmailJob{
		To:       "a@x.com",
		Template: templates.Welcome,
		Data:     templates.ToMap(templates.EmailData{Name: "Ann", Email: "a@x.com", AppName: "task-manager"}),
	}
}

func TestHandle_SendsAndAcks(t *testing.T) {
	logger, _ := test.NewNullLogger()
	ack := &ackRecorder{}
	sender := &fakeSender{}

	handle(context.Background(), logger, sender, delivery(t, ack, welcomeJob()))

	assert.True(t, ack.acked)
	assert.False(t, ack.nacked)
	assert.Equal(t, "a@x.com", sender.to)
	assert.NotEmpty(t, sender.subject)
}

func TestHandle_BadPayloadIsDropped(t *testing.T) {
	logger, _ := test.NewNullLogger()
	ack := &ackRecorder{}

	handle(context.Background(), logger, &fakeSender{}, delivery(t, ack, []byte("{")))

	assert.True(t, ack.nacked)
	assert.False(t, ack.requeued)
}

func TestHandle_EmptyJobIsDropped(t *testing.T) {
	logger, _ := test.NewNullLogger()
	ack := &ackRecorder{}

	handle(context.Background(), logger, &fakeSender{}, delivery(t, ack, mailer.EmailJob{To: "a@x.com"}))

	assert.True(t, ack.nacked)
	assert.False(t, ack.requeued)
}

func TestHandle_SendFailureRequeues(t *testing.T) {
	logger, hook := test.NewNullLogger()
	ack := &ackRecorder{}

	handle(context.Background(), logger, &fakeSender{err: errors.New("mailgun 503")}, delivery(t, ack, welcomeJob()))

	assert.True(t, ack.nacked)
	assert.True(t, ack.requeued)
	assert.Equal(t, "send failed", hook.LastEntry().Message)
}
