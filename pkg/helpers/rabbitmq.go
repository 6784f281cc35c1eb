package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

func dialQueue(url, queue string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("amqp channel: %w", err)
	}
	// durable, so queued emails survive a broker restart
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("declare %s: %w", queue, err)
	}
	return conn, ch, nil
}

// publishChannel is the part of *amqp.Channel the publisher uses.
type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

type dialFunc func() (io.Closer, publishChannel, error)

// RabbitPublisher puts persistent JSON messages on a queue via the default
// exchange. A channel lost to a broker restart is re-dialed on the next publish.
type RabbitPublisher struct {
	Queue string
	dial  dialFunc

	mu   sync.Mutex
	conn io.Closer
	ch   publishChannel
}

func NewRabbitPublisher(url, queue string) (*RabbitPublisher, error) {
	p := newRabbitPublisher(queue, func() (io.Closer, publishChannel, error) {
		conn, ch, err := dialQueue(url, queue)
		if err != nil {
			return nil, nil, err
		}
		return conn, ch, nil
	})
	if err := p.redial(); err != nil {
		return nil, err
	}
	return p, nil
}

func newRabbitPublisher(queue string, dial dialFunc) *RabbitPublisher {
	return &RabbitPublisher{Queue: queue, dial: dial}
}

// redial replaces the connection. Callers hold mu, except during construction.
func (p *RabbitPublisher) redial() error {
	p.closeLocked()
	conn, ch, err := p.dial()
	if err != nil {
		return err
	}
	p.conn, p.ch = conn, ch
	return nil
}

func (p *RabbitPublisher) PublishJSON(ctx context.Context, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         b,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == nil || p.ch.IsClosed() {
		if err := p.redial(); err != nil {
			return fmt.Errorf("rabbitmq reconnect: %w", err)
		}
	}
	err = p.ch.PublishWithContext(ctx, "", p.Queue, false, false, msg)
	if !errors.Is(err, amqp.ErrClosed) {
		return err
	}
	// closed between the check and the publish; retry once on a fresh channel
	if err := p.redial(); err != nil {
		return fmt.Errorf("rabbitmq reconnect: %w", err)
	}
	return p.ch.PublishWithContext(ctx, "", p.Queue, false, false, msg)
}

func (p *RabbitPublisher) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeLocked()
}

func (p *RabbitPublisher) closeLocked() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.conn, p.ch = nil, nil
}

// RabbitConsumer reads a queue with manual acks.
type RabbitConsumer struct {
	conn       *amqp.Connection
	ch         *amqp.Channel
	Queue      string
	Deliveries <-chan amqp.Delivery
}

// NewRabbitConsumer limits unacked deliveries to prefetch so work spreads across workers.
func NewRabbitConsumer(url, queue string, prefetch int) (*RabbitConsumer, error) {
	conn, ch, err := dialQueue(url, queue)
	if err != nil {
		return nil, err
	}
	c := &RabbitConsumer{conn: conn, ch: ch, Queue: queue}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		c.Close()
		return nil, fmt.Errorf("qos: %w", err)
	}
	msgs, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("consume %s: %w", queue, err)
	}
	c.Deliveries = msgs
	return c, nil
}

func (c *RabbitConsumer) Close() {
	if c == nil {
		return
	}
	_ = c.ch.Close()
	_ = c.conn.Close()
}
