package repository

import (
	"context"
	"fmt"

	"github.com/devanshshrivastava16/TrustSpace/internal/domain"
	"github.com/devanshshrivastava16/TrustSpace/internal/store"
)

// UserRepository persists marketplace accounts.
type UserRepository struct {
	records
	c *store.Collection[domain.User]
}

// Create assigns an id and timestamps to u and stores it.
func (r *UserRepository) Create(ctx context.Context, u domain.User) (domain.User, error) {
	id, now := r.stamp()
	if u.ID == "" {
		u.ID = id
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	if u.KYCDocuments == nil {
		u.KYCDocuments = []domain.KYCDocument{}
	}
	return r.c.Insert(ctx, u)
}

// Get returns the user with id.
func (r *UserRepository) Get(ctx context.Context, id string) (domain.User, error) {
	return r.c.Get(ctx, id)
}

// FindByEmail returns the first user registered under email. The match is exact.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	users, err := r.c.List(ctx, store.Filter{Equals: map[string]any{"email": email}})
	if err != nil {
		return domain.User{}, err
	}
	if len(users) == 0 {
		return domain.User{}, fmt.Errorf("user with email %q: %w", email, store.ErrNotFound)
	}
	return users[0], nil
}

// List returns every user.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	return r.c.All(ctx)
}

// Update merges patch into the stored user.
func (r *UserRepository) Update(ctx context.Context, id string, patch store.Patch) (domain.User, error) {
	return r.c.Update(ctx, id, patch)
}

// Mutate applies fn to the stored user and persists the result.
func (r *UserRepository) Mutate(ctx context.Context, id string, fn func(*domain.User) error) (domain.User, error) {
	return r.c.Mutate(ctx, id, fn)
}
