// Package events publishes marketplace domain events.
package events

import (
	"context"
	"sync"
	"time"
)

// Actions carried by events.
const (
	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionStatus    = "status_changed"
	ActionCompleted = "completed"
)

// Entities carried by events.
const (
	EntityProperty     = "property"
	EntityBooking      = "booking"
	EntityVerification = "verification_session"
)

// Event is the message body published for each domain change.
type Event struct {
	Action     string    `json:"action"`
	Entity     string    `json:"entity"`
	ID         string    `json:"id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher delivers events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// Recorder keeps every published event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, evt Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
