package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/devanshshrivastava16/TrustSpace/internal/auth"
	"github.com/devanshshrivastava16/TrustSpace/internal/domain"
	"github.com/devanshshrivastava16/TrustSpace/internal/events"
	"github.com/devanshshrivastava16/TrustSpace/internal/ledger"
	"github.com/devanshshrivastava16/TrustSpace/internal/repository"
	"github.com/devanshshrivastava16/TrustSpace/internal/store"
)

type fixture struct {
	repos        *repository.Repositories
	ledger       *ledger.Memory
	events       *events.Recorder
	tokens       *auth.Tokens
	auth         *AuthService
	properties   *PropertyService
	bookings     *BookingService
	reviews      *ReviewService
	payments     *PaymentService
	verification *VerificationTracker
	now          time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{now: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)}
	clock := func() time.Time { return f.now }
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	f.repos = repository.Open(repository.Options{
		DataDir: t.TempDir(),
		Retry:   store.RetryPolicy{Attempts: 1},
		Logger:  logger,
		Now:     clock,
	})
	f.ledger = ledger.NewMemory(1000)
	f.events = &events.Recorder{}
	f.tokens = auth.NewTokens("test-secret", 24*time.Hour).WithClock(clock)

	f.auth = NewAuthService(f.repos.Users, auth.SHA256Hasher{}, f.tokens, f.ledger, f.repos.DocumentsDir(), logger)
	f.auth.WithClock(clock)
	cache := NewListingCache(100, time.Minute)
	t.Cleanup(cache.Stop)
	f.properties = NewPropertyService(f.repos.Properties, f.repos.Users, cache, f.events, logger)
	f.properties.WithClock(clock)
	f.bookings = NewBookingService(f.repos.Bookings, f.repos.Properties, f.repos.Users, f.events, logger)
	f.bookings.WithClock(clock)
	f.reviews = NewReviewService(f.repos.Reviews, f.repos.Properties, f.repos.Bookings, logger)
	f.payments = NewPaymentService(f.ledger, f.repos.Users, f.properties, f.repos.Bookings, f.repos.Reviews, f.events, logger)
	f.verification = NewVerificationTracker(f.repos.Sessions, f.properties, nil, filepath.Join(f.repos.DataDir, repository.ImagesDir), f.events, logger)
	f.verification.WithClock(clock)
	return f
}

func (f *fixture) register(t *testing.T, email string, role domain.Role) domain.User {
	t.Helper()
	u, err := f.auth.Register(context.Background(), email, "pw123", "User "+email, role)
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return u
}

func (f *fixture) listing(t *testing.T, ownerID string, price float64) domain.Property {
	t.Helper()
	p, err := f.properties.Create(context.Background(), ownerID, PropertyInput{
		Title:       "Lake House",
		Location:    "Udaipur",
		Type:        domain.PropertyHouse,
		PricePerDay: price,
		Capacity:    6,
		Amenities:   []string{"wifi", " wifi ", "parking"},
	})
	if err != nil {
		t.Fatalf("create property: %v", err)
	}
	return p
}

func (f *fixture) confirmedBooking(t *testing.T, guest, owner domain.User, prop domain.Property) domain.Booking {
	t.Helper()
	ctx := context.Background()
	b, err := f.bookings.Create(ctx, guest.ID, BookingInput{PropertyID: prop.ID, CheckIn: "2024-01-01", CheckOut: "2024-01-03"})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	b, err = f.bookings.UpdateStatus(ctx, owner.ID, b.ID, domain.BookingConfirmed)
	if err != nil {
		t.Fatalf("confirm booking: %v", err)
	}
	return b
}
