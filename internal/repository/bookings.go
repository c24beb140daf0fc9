package repository

import (
	"context"

	"github.com/devanshshrivastava16/TrustSpace/internal/domain"
	"github.com/devanshshrivastava16/TrustSpace/internal/store"
)

// BookingFilter narrows a booking listing. Zero values are ignored.
type BookingFilter struct {
	GuestID       string
	OwnerID       string
	PropertyID    string
	Status        domain.BookingStatus
	PaymentStatus domain.PaymentStatus
}

func (f BookingFilter) storeFilter() store.Filter {
	equals := map[string]any{}
	for key, val := range map[string]string{
		"guest_id":       f.GuestID,
		"owner_id":       f.OwnerID,
		"property_id":    f.PropertyID,
		"status":         string(f.Status),
		"payment_status": string(f.PaymentStatus),
	} {
		if val != "" {
			equals[key] = val
		}
	}
	return store.Filter{Equals: equals}
}

// BookingRepository persists reservations.
type BookingRepository struct {
	records
	c *store.Collection[domain.Booking]
}

// Create assigns an id and timestamps to b and stores it.
func (r *BookingRepository) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	id, now := r.stamp()
	if b.ID == "" {
		b.ID = id
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	return r.c.Insert(ctx, b)
}

// Get returns the booking with id.
func (r *BookingRepository) Get(ctx context.Context, id string) (domain.Booking, error) {
	return r.c.Get(ctx, id)
}

// List returns the bookings matching filter.
func (r *BookingRepository) List(ctx context.Context, filter BookingFilter) ([]domain.Booking, error) {
	return r.c.List(ctx, filter.storeFilter())
}

// Update merges patch into the stored booking.
func (r *BookingRepository) Update(ctx context.Context, id string, patch store.Patch) (domain.Booking, error) {
	return r.c.Update(ctx, id, patch)
}

// Mutate applies fn to the stored booking and persists the result.
func (r *BookingRepository) Mutate(ctx context.Context, id string, fn func(*domain.Booking) error) (domain.Booking, error) {
	return r.c.Mutate(ctx, id, fn)
}
