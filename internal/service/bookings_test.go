package service

import (
	"context"
	"errors"
	"testing"

	"github.com/devanshshrivastava16/TrustSpace/internal/domain"
	"github.com/devanshshrivastava16/TrustSpace/internal/store"
)

func TestBookingPriceAndLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice@x.io", domain.RoleOwner)
	bob := f.register(t, "bob@x.io", domain.RoleRenter)
	prop := f.listing(t, alice.ID, 120)

	b, err := f.bookings.Create(ctx, bob.ID, BookingInput{PropertyID: prop.ID, CheckIn: "2024-03-01", CheckOut: "2024-03-04"})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if b.TotalPrice != 360 || b.OwnerID != alice.ID || b.Status != domain.BookingPending || b.PaymentStatus != domain.PaymentPending {
		t.Fatalf("unexpected booking %+v", b)
	}

	if _, err := f.bookings.UpdateStatus(ctx, bob.ID, b.ID, domain.BookingConfirmed); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected guest confirmation to be forbidden, got %v", err)
	}
	b, err = f.bookings.UpdateStatus(ctx, alice.ID, b.ID, domain.BookingConfirmed)
	if err != nil || b.Status != domain.BookingConfirmed {
		t.Fatalf("expected confirmation, got %+v (err=%v)", b.Status, err)
	}
	if _, err := f.bookings.UpdateStatus(ctx, alice.ID, b.ID, domain.BookingRejected); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected confirmed -> rejected to fail, got %v", err)
	}
	b, err = f.bookings.UpdateStatus(ctx, bob.ID, b.ID, domain.BookingCancelled)
	if err != nil || b.Status != domain.BookingCancelled {
		t.Fatalf("expected guest cancellation, got %+v (err=%v)", b.Status, err)
	}
	if _, err := f.bookings.UpdateStatus(ctx, alice.ID, b.ID, domain.BookingPending); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected cancelled to be terminal, got %v", err)
	}
	if _, err := f.bookings.UpdateStatus(ctx, alice.ID, b.ID, "teleported"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected unknown status to fail validation, got %v", err)
	}
}

func TestCreateBookingRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice@x.io", domain.RoleOwner)
	bob := f.register(t, "bob@x.io", domain.RoleRenter)
	prop := f.listing(t, alice.ID, 100)

	cases := []struct {
		name  string
		guest string
		input BookingInput
		want  error
	}{
		{"same-day stay", bob.ID, BookingInput{PropertyID: prop.ID, CheckIn: "2024-01-05", CheckOut: "2024-01-05"}, domain.ErrValidation},
		{"bad date", bob.ID, BookingInput{PropertyID: prop.ID, CheckIn: "05/01/2024", CheckOut: "2024-01-06"}, domain.ErrValidation},
		{"own property", alice.ID, BookingInput{PropertyID: prop.ID, CheckIn: "2024-01-01", CheckOut: "2024-01-02"}, domain.ErrValidation},
		{"unknown property", bob.ID, BookingInput{PropertyID: "nope", CheckIn: "2024-01-01", CheckOut: "2024-01-02"}, store.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.bookings.Create(ctx, tc.guest, tc.input); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if _, err := f.properties.Update(ctx, alice.ID, prop.ID, store.Patch{"status": "inactive"}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.bookings.Create(ctx, bob.ID, BookingInput{PropertyID: prop.ID, CheckIn: "2024-01-01", CheckOut: "2024-01-02"}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestListBookingsByRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice@x.io", domain.RoleOwner)
	bob := f.register(t, "bob@x.io", domain.RoleRenter)
	carol := f.register(t, "carol@x.io", domain.RoleRenter)
	prop := f.listing(t, alice.ID, 100)

	f.confirmedBooking(t, bob, alice, prop)
	if _, err := f.bookings.Create(ctx, carol.ID, BookingInput{PropertyID: prop.ID, CheckIn: "2024-02-01", CheckOut: "2024-02-02"}); err != nil {
		t.Fatal(err)
	}

	owned, err := f.bookings.List(ctx, alice.ID, ListBookingsParams{Role: AsOwner})
	if err != nil {
		t.Fatal(err)
	}
	if len(owned.Items) != 2 || owned.Items[0].PropertyTitle != "Lake House" || owned.Items[0].GuestName != bob.FullName {
		t.Fatalf("unexpected owner dashboard %+v", owned.Items)
	}

	confirmed, _ := f.bookings.List(ctx, alice.ID, ListBookingsParams{Role: AsOwner, Status: domain.BookingConfirmed})
	if len(confirmed.Items) != 1 {
		t.Fatalf("expected one confirmed booking, got %d", len(confirmed.Items))
	}

	mine, _ := f.bookings.List(ctx, carol.ID, ListBookingsParams{})
	if len(mine.Items) != 1 || mine.Items[0].GuestID != carol.ID {
		t.Fatalf("expected carol's booking only, got %+v", mine.Items)
	}

	if _, err := f.bookings.List(ctx, alice.ID, ListBookingsParams{Role: "admin"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected unknown role to fail, got %v", err)
	}

	bobs, _ := f.bookings.List(ctx, bob.ID, ListBookingsParams{Role: AsGuest})
	if len(bobs.Items) != 1 {
		t.Fatalf("expected one booking for bob, got %d", len(bobs.Items))
	}
	if _, err := f.bookings.Get(ctx, carol.ID, bobs.Items[0].ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected stranger to be forbidden, got %v", err)
	}
	if _, err := f.bookings.Get(ctx, alice.ID, bobs.Items[0].ID); err != nil {
		t.Fatalf("expected owner to see booking, got %v", err)
	}
}
