package repository

import (
	"context"

	"github.com/devanshshrivastava16/TrustSpace/internal/domain"
	"github.com/devanshshrivastava16/TrustSpace/internal/store"
)

// ReviewFilter narrows a review listing. Zero values are ignored.
type ReviewFilter struct {
	PropertyID string
	ReviewerID string
	Verified   *bool
}

func (f ReviewFilter) storeFilter() store.Filter {
	equals := map[string]any{}
	if f.PropertyID != "" {
		equals["property_id"] = f.PropertyID
	}
	if f.ReviewerID != "" {
		equals["reviewer_id"] = f.ReviewerID
	}
	if f.Verified != nil {
		equals["verified"] = *f.Verified
	}
	return store.Filter{Equals: equals}
}

// ReviewRepository persists ratings.
type ReviewRepository struct {
	records
	c *store.Collection[domain.Review]
}

// Create assigns an id and creation time to rv and stores it.
func (r *ReviewRepository) Create(ctx context.Context, rv domain.Review) (domain.Review, error) {
	id, now := r.stamp()
	if rv.ID == "" {
		rv.ID = id
	}
	if rv.CreatedAt.IsZero() {
		rv.CreatedAt = now
	}
	return r.c.Insert(ctx, rv)
}

func (r *ReviewRepository) Get(ctx context.Context, id string) (domain.Review, error) {
	return r.c.Get(ctx, id)
}

func (r *ReviewRepository) List(ctx context.Context, filter ReviewFilter) ([]domain.Review, error) {
	return r.c.List(ctx, filter.storeFilter())
}

func (r *ReviewRepository) Update(ctx context.Context, id string, patch store.Patch) (domain.Review, error) {
	return r.c.Update(ctx, id, patch)
}
