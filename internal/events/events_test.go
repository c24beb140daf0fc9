package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/streadway/amqp"
)

type fakeChannel struct {
	published []amqp.Publishing
	keys      []string
	err       error
	closed    bool
}

func (f *fakeChannel) Publish(_, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestRabbitMQPublishEncodesEvent(t *testing.T) {
	ch := &fakeChannel{}
	pub := &RabbitMQ{ch: ch, queue: "marketplace_events", logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	at := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

	if err := pub.Publish(context.Background(), Event{Action: ActionCreated, Entity: EntityBooking, ID: "b-1", OccurredAt: at}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(ch.published) != 1 || ch.keys[0] != "marketplace_events" {
		t.Fatalf("expected one message on marketplace_events, got %v", ch.keys)
	}
	msg := ch.published[0]
	if msg.DeliveryMode != amqp.Persistent || msg.ContentType != "application/json" {
		t.Fatalf("expected persistent json message, got mode=%d type=%s", msg.DeliveryMode, msg.ContentType)
	}
	var got map[string]any
	if err := json.Unmarshal(msg.Body, &got); err != nil {
		t.Fatal(err)
	}
	if got["action"] != "created" || got["entity"] != "booking" || got["id"] != "b-1" || got["occurred_at"] != "2024-07-01T12:00:00Z" {
		t.Fatalf("unexpected body %s", msg.Body)
	}

	if err := pub.Close(); err != nil || !ch.closed {
		t.Fatalf("expected channel closed, err=%v", err)
	}
}

func TestRabbitMQPublishWrapsChannelError(t *testing.T) {
	boom := errors.New("channel closed")
	pub := &RabbitMQ{ch: &fakeChannel{err: boom}, queue: "q", logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	if err := pub.Publish(context.Background(), Event{Action: ActionUpdated, Entity: EntityProperty}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped channel error, got %v", err)
	}
}

func TestRecorderKeepsOrder(t *testing.T) {
	rec := &Recorder{}
	for _, id := range []string{"a", "b"} {
		_ = rec.Publish(context.Background(), Event{ID: id})
	}
	got := rec.Events()
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("unexpected events %+v", got)
	}
}
