package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const defaultDeliveryTimeout = 30 * time.Second

// Sink delivers a message over one channel.
type Sink interface {
	Name() string
	Send(ctx context.Context, m Message) error
}

// Dispatcher fans a message out to every sink. It runs after the triggering
// change has committed, so a failing sink is logged and never reported back.
// Delivery happens in the background and is bounded by the delivery timeout.
type Dispatcher struct {
	sinks   []Sink
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewDispatcher(sinks ...Sink) *Dispatcher {
	return &Dispatcher{sinks: sinks, timeout: defaultDeliveryTimeout}
}

func (d *Dispatcher) Add(s Sink) {
	d.sinks = append(d.sinks, s)
}

// WithTimeout sets how long one message may take across all sinks.
func (d *Dispatcher) WithTimeout(timeout time.Duration) *Dispatcher {
	if timeout > 0 {
		d.timeout = timeout
	}
	return d
}

// Dispatch queues m for delivery and returns immediately. The request
// context only contributes its values: a finished request does not cancel
// delivery.
func (d *Dispatcher) Dispatch(ctx context.Context, m Message) {
	if d == nil || len(d.sinks) == 0 {
		return
	}
	sinks := append([]Sink(nil), d.sinks...)
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer cancel()
		for _, s := range sinks {
			if err := send(ctx, s, m); err != nil {
				slog.Warn("notification: delivery failed",
					"sink", s.Name(),
					"type", m.Type,
					"user_id", m.UserID,
					"error", err,
				)
			}
		}
	}()
}

// Wait blocks until every queued message has been delivered or dropped.
func (d *Dispatcher) Wait() {
	if d == nil {
		return
	}
	d.wg.Wait()
}

func send(ctx context.Context, s Sink, m Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.Send(ctx, m)
}

// LogSink writes every message to the structured log.
type LogSink struct{}

func (LogSink) Name() string { return "log" }

func (LogSink) Send(_ context.Context, m Message) error {
	slog.Info("notification", "type", m.Type, "user_id", m.UserID, "title", m.Title)
	return nil
}
