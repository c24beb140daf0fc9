package graphsync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/devanshshrivastava16/TrustSpace/internal/domain"
	"github.com/devanshshrivastava16/TrustSpace/internal/graph"
	"github.com/devanshshrivastava16/TrustSpace/internal/service"
)

var _ service.GraphProjector = (*Projector)(nil)

func TestProjectPropertyLinksOwner(t *testing.T) {
	mem := graph.NewMemoryClient()
	p := New(mem)

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	prop := domain.Property{
		ID: "prop-1", OwnerID: "owner-1", Title: "Lake House", Type: domain.PropertyVilla,
		PricePerDay: 4200, Capacity: 10, Status: domain.PropertyActive, CreatedAt: created,
	}
	if err := p.ProjectProperty(context.Background(), prop); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	calls := mem.Writes()
	if len(calls) != 1 {
		t.Fatalf("expected 1 write query, got %d", len(calls))
	}
	call := calls[0]
	if call.Query != upsertPropertyCypher {
		t.Fatalf("unexpected query\nexpected:\n%s\ngot:\n%s", upsertPropertyCypher, call.Query)
	}
	if call.Params["ownerId"] != "owner-1" || call.Params["propertyId"] != "prop-1" {
		t.Errorf("unexpected ids %v", call.Params)
	}
	props, ok := call.Params["props"].(map[string]any)
	if !ok {
		t.Fatalf("expected props map, got %T", call.Params["props"])
	}
	if props["propertyType"] != "Villa" || props["createdAt"] != "2024-01-02T03:04:05Z" {
		t.Errorf("unexpected props %v", props)
	}
}

func TestProjectBookingAndReviewEdges(t *testing.T) {
	mem := graph.NewMemoryClient()
	p := New(mem)
	ctx := context.Background()

	b := domain.Booking{ID: "b-1", GuestID: "g-1", PropertyID: "prop-1", Status: domain.BookingConfirmed, CheckIn: "2024-01-01", CheckOut: "2024-01-03"}
	if err := p.ProjectBooking(ctx, b); err != nil {
		t.Fatal(err)
	}
	if err := p.ProjectReview(ctx, domain.Review{ID: "r-1", ReviewerID: "g-1", PropertyID: "prop-1", Rating: 4}); err != nil {
		t.Fatal(err)
	}

	calls := mem.Writes()
	if len(calls) != 2 || calls[0].Query != upsertBookingCypher || calls[1].Query != upsertReviewCypher {
		t.Fatalf("unexpected writes %+v", calls)
	}
	if calls[0].Params["status"] != "confirmed" || calls[0].Params["checkOut"] != "2024-01-03" {
		t.Errorf("unexpected booking params %v", calls[0].Params)
	}
	if calls[1].Params["rating"] != 4 {
		t.Errorf("unexpected review params %v", calls[1].Params)
	}
}

func TestProjectorRejectsMissingIDs(t *testing.T) {
	p := New(graph.NewMemoryClient())
	ctx := context.Background()
	if err := p.ProjectUser(ctx, domain.User{}); err == nil {
		t.Error("expected error for user without id")
	}
	if err := p.ProjectProperty(ctx, domain.Property{}); err == nil {
		t.Error("expected error for property without id")
	}
	if err := p.ProjectBooking(ctx, domain.Booking{}); err == nil {
		t.Error("expected error for booking without id")
	}
	if err := p.ProjectReview(ctx, domain.Review{}); err == nil {
		t.Error("expected error for review without id")
	}
}

func TestProjectorWrapsClientErrors(t *testing.T) {
	boom := errors.New("bolt down")
	p := New(graph.NewMemoryClient().Fail(boom))
	if err := p.ProjectUser(context.Background(), domain.User{ID: "u-1"}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped client error, got %v", err)
	}
	if err := p.EnsureSchema(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected schema error, got %v", err)
	}
}

func TestCount(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.QueueRead(graph.Record{"users": int64(3), "properties": int64(2), "bookings": int64(1), "reviews": int64(0)})
	got, err := New(mem).Count(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got != (Counts{Users: 3, Properties: 2, Bookings: 1}) {
		t.Fatalf("unexpected counts %+v", got)
	}
	if len(mem.Reads()) != 1 || mem.Reads()[0].Query != countCypher {
		t.Fatal("expected one count query")
	}
}
