package repository

import (
	"context"

	"github.com/devanshshrivastava16/TrustSpace/internal/domain"
	"github.com/devanshshrivastava16/TrustSpace/internal/store"
)

// PropertyFilter narrows a listing search. Zero values are ignored.
type PropertyFilter struct {
	OwnerID     string
	Status      domain.PropertyStatus
	Verified    *bool
	Type        domain.PropertyType
	Location    string
	PriceMin    *float64
	PriceMax    *float64
	MinCapacity *int
}

func (f PropertyFilter) storeFilter() store.Filter {
	equals := map[string]any{}
	if f.OwnerID != "" {
		equals["owner_id"] = f.OwnerID
	}
	if f.Status != "" {
		equals["status"] = f.Status
	}
	if f.Verified != nil {
		equals["verified"] = *f.Verified
	}
	if f.Type != "" {
		equals["property_type"] = f.Type
	}
	if f.Location != "" {
		equals["location"] = f.Location
	}

	ranges := map[string]store.Range{}
	if f.PriceMin != nil || f.PriceMax != nil {
		ranges["price_per_day"] = store.Range{Min: f.PriceMin, Max: f.PriceMax}
	}
	if f.MinCapacity != nil {
		floor := float64(*f.MinCapacity)
		ranges["capacity"] = store.Range{Min: &floor}
	}
	return store.Filter{Equals: equals, Ranges: ranges}
}

// PropertyRepository persists listings. owner_id is fixed at creation.
type PropertyRepository struct {
	records
	c *store.Collection[domain.Property]
}

// Create assigns an id and timestamps to p and stores it.
func (r *PropertyRepository) Create(ctx context.Context, p domain.Property) (domain.Property, error) {
	id, now := r.stamp()
	if p.ID == "" {
		p.ID = id
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if p.Amenities == nil {
		p.Amenities = []string{}
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return r.c.Insert(ctx, p)
}

// Get returns the property with id.
func (r *PropertyRepository) Get(ctx context.Context, id string) (domain.Property, error) {
	return r.c.Get(ctx, id)
}

// List returns the properties matching filter in insertion order.
func (r *PropertyRepository) List(ctx context.Context, filter PropertyFilter) ([]domain.Property, error) {
	return r.c.List(ctx, filter.storeFilter())
}

// Update merges patch into the stored property.
func (r *PropertyRepository) Update(ctx context.Context, id string, patch store.Patch) (domain.Property, error) {
	return r.c.Update(ctx, id, patch)
}

// Mutate applies fn to the stored property and persists the result.
func (r *PropertyRepository) Mutate(ctx context.Context, id string, fn func(*domain.Property) error) (domain.Property, error) {
	return r.c.Mutate(ctx, id, fn)
}

// ReplaceAll overwrites the whole collection.
func (r *PropertyRepository) ReplaceAll(ctx context.Context, props []domain.Property) error {
	return r.c.ReplaceAll(ctx, props)
}
