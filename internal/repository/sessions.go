package repository

import (
	"context"

	"github.com/devanshshrivastava16/TrustSpace/internal/domain"
	"github.com/devanshshrivastava16/TrustSpace/internal/store"
)

// SessionFilter narrows a verification session listing.
type SessionFilter struct {
	PropertyID string
	OwnerID    string
	RenterID   string
	Status     domain.SessionStatus
}

func (f SessionFilter) storeFilter() store.Filter {
	equals := map[string]any{}
	if f.PropertyID != "" {
		equals["property_id"] = f.PropertyID
	}
	if f.OwnerID != "" {
		equals["owner_id"] = f.OwnerID
	}
	if f.RenterID != "" {
		equals["renter_id"] = f.RenterID
	}
	if f.Status != "" {
		equals["status"] = f.Status
	}
	return store.Filter{Equals: equals}
}

// SessionRepository persists verification sessions.
type SessionRepository struct {
	records
	c *store.Collection[domain.VerificationSession]
}

// Create assigns an id and creation time to s and stores it.
func (r *SessionRepository) Create(ctx context.Context, s domain.VerificationSession) (domain.VerificationSession, error) {
	id, now := r.stamp()
	if s.ID == "" {
		s.ID = id
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	if s.Images == nil {
		s.Images = []domain.CapturedImage{}
	}
	return r.c.Insert(ctx, s)
}

func (r *SessionRepository) Get(ctx context.Context, id string) (domain.VerificationSession, error) {
	return r.c.Get(ctx, id)
}

func (r *SessionRepository) List(ctx context.Context, filter SessionFilter) ([]domain.VerificationSession, error) {
	return r.c.List(ctx, filter.storeFilter())
}

// Mutate applies fn to the stored session and persists the result.
func (r *SessionRepository) Mutate(ctx context.Context, id string, fn func(*domain.VerificationSession) error) (domain.VerificationSession, error) {
	return r.c.Mutate(ctx, id, fn)
}
