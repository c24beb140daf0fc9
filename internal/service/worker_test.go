package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/devanshshrivastava16/TrustSpace/internal/domain"
)

type recordingProjector struct {
	mu    sync.Mutex
	seen  map[string]int
	fails map[string]error
}

func newRecordingProjector() *recordingProjector {
	return &recordingProjector{seen: map[string]int{}, fails: map[string]error{}}
}

func (p *recordingProjector) record(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seen[id]++
	return p.fails[id]
}

func (p *recordingProjector) ProjectUser(_ context.Context, u domain.User) error {
	return p.record(u.ID)
}

func (p *recordingProjector) ProjectProperty(_ context.Context, prop domain.Property) error {
	return p.record(prop.ID)
}

func (p *recordingProjector) ProjectBooking(_ context.Context, b domain.Booking) error {
	return p.record(b.ID)
}

func (p *recordingProjector) ProjectReview(_ context.Context, r domain.Review) error {
	return p.record(r.ID)
}

func TestBulkIngestorProjectsEveryRecord(t *testing.T) {
	proj := newRecordingProjector()
	bi := NewBulkIngestor(proj, 3)
	ctx := context.Background()

	users := []domain.User{{ID: "u1"}, {ID: "u2"}}
	props := []domain.Property{{ID: "p1"}, {ID: "p2"}, {ID: "p3"}, {ID: "p4"}}
	if err := bi.IngestUsers(ctx, users); err != nil {
		t.Fatal(err)
	}
	if err := bi.IngestProperties(ctx, props); err != nil {
		t.Fatal(err)
	}
	if err := bi.IngestBookings(ctx, nil); err != nil {
		t.Fatal(err)
	}
	if err := bi.IngestReviews(ctx, []domain.Review{{ID: "r1"}}); err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{"u1", "u2", "p1", "p2", "p3", "p4", "r1"} {
		if proj.seen[id] != 1 {
			t.Fatalf("expected %s projected once, got %d", id, proj.seen[id])
		}
	}
}

func TestBulkIngestorAggregatesErrors(t *testing.T) {
	proj := newRecordingProjector()
	errA, errB := errors.New("a"), errors.New("b")
	proj.fails["b1"] = errA
	proj.fails["b3"] = errB

	err := NewBulkIngestor(proj, 2).IngestBookings(context.Background(), []domain.Booking{{ID: "b1"}, {ID: "b2"}, {ID: "b3"}})
	var taskErr *TaskError
	if !errors.As(err, &taskErr) || len(taskErr.Errors) != 2 {
		t.Fatalf("expected TaskError with two errors, got %v", err)
	}
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Fatalf("expected both causes to unwrap, got %v", err)
	}
	if proj.seen["b2"] != 1 {
		t.Fatal("expected healthy records to be projected despite failures")
	}
}

func TestBulkIngestorHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewBulkIngestor(newRecordingProjector(), 1).IngestUsers(ctx, []domain.User{{ID: "u1"}, {ID: "u2"}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
