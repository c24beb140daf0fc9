package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/devanshshrivastava16/TrustSpace/internal/domain"
	"github.com/devanshshrivastava16/TrustSpace/internal/repository"
	"github.com/devanshshrivastava16/TrustSpace/internal/store"
)

var (
	// ErrEmailRegistered is returned when registering an email twice.
	ErrEmailRegistered = errors.New("email already registered")
	// ErrForbidden is returned when the actor may not touch the record.
	ErrForbidden = errors.New("forbidden")
	// ErrUnavailable is returned when a property cannot take bookings.
	ErrUnavailable = errors.New("property is not available")
	// ErrWalletMissing is returned when a flow needs a wallet the user lacks.
	ErrWalletMissing = errors.New("wallet not configured")
	// ErrWalletExists is returned when creating a second wallet.
	ErrWalletExists = errors.New("wallet already exists")
	// ErrAlreadyRegistered is returned when a record is already on the ledger.
	ErrAlreadyRegistered = errors.New("already registered on ledger")
	// ErrNoFrame is returned when the frame source has nothing to capture.
	ErrNoFrame = errors.New("no frame available")
)

// UserStore is the persistence contract for accounts.
type UserStore interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
	Get(ctx context.Context, id string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	Update(ctx context.Context, id string, patch store.Patch) (domain.User, error)
	Mutate(ctx context.Context, id string, fn func(*domain.User) error) (domain.User, error)
}

// PropertyStore is the persistence contract for listings.
type PropertyStore interface {
	Create(ctx context.Context, p domain.Property) (domain.Property, error)
	Get(ctx context.Context, id string) (domain.Property, error)
	List(ctx context.Context, filter repository.PropertyFilter) ([]domain.Property, error)
	Update(ctx context.Context, id string, patch store.Patch) (domain.Property, error)
	Mutate(ctx context.Context, id string, fn func(*domain.Property) error) (domain.Property, error)
}

// BookingStore is the persistence contract for reservations.
type BookingStore interface {
	Create(ctx context.Context, b domain.Booking) (domain.Booking, error)
	Get(ctx context.Context, id string) (domain.Booking, error)
	List(ctx context.Context, filter repository.BookingFilter) ([]domain.Booking, error)
	Mutate(ctx context.Context, id string, fn func(*domain.Booking) error) (domain.Booking, error)
}

// ReviewStore is the persistence contract for ratings.
type ReviewStore interface {
	Create(ctx context.Context, rv domain.Review) (domain.Review, error)
	Get(ctx context.Context, id string) (domain.Review, error)
	List(ctx context.Context, filter repository.ReviewFilter) ([]domain.Review, error)
	Update(ctx context.Context, id string, patch store.Patch) (domain.Review, error)
}

// SessionStore is the persistence contract for verification sessions.
type SessionStore interface {
	Create(ctx context.Context, s domain.VerificationSession) (domain.VerificationSession, error)
	Get(ctx context.Context, id string) (domain.VerificationSession, error)
	Mutate(ctx context.Context, id string, fn func(*domain.VerificationSession) error) (domain.VerificationSession, error)
}

// ProfileUpdate carries the editable profile fields. Nil fields are left alone.
type ProfileUpdate struct {
	FullName     *string
	Phone        *string
	Bio          *string
	ProfileImage *string
}

// PropertyInput is the payload accepted when listing a property.
type PropertyInput struct {
	Title       string
	Location    string
	Type        domain.PropertyType
	PricePerDay float64
	Capacity    int
	Description string
	Amenities   []string
	Rules       []string
	Images      []string
}

// PropertySearch defines filters and pagination for browsing listings.
type PropertySearch struct {
	OwnerID     string
	Status      domain.PropertyStatus
	Verified    *bool
	Type        domain.PropertyType
	Location    string
	PriceMin    *float64
	PriceMax    *float64
	MinCapacity *int
	Page        int
	PageSize    int
}

func (s PropertySearch) filter() repository.PropertyFilter {
	return repository.PropertyFilter{
		OwnerID:     s.OwnerID,
		Status:      s.Status,
		Verified:    s.Verified,
		Type:        s.Type,
		Location:    s.Location,
		PriceMin:    s.PriceMin,
		PriceMax:    s.PriceMax,
		MinCapacity: s.MinCapacity,
	}
}

// BookingInput is the payload accepted when requesting a stay.
type BookingInput struct {
	PropertyID string
	CheckIn    string
	CheckOut   string
}

// BookingRole selects which side of a booking the actor is on.
type BookingRole string

const (
	AsGuest BookingRole = "guest"
	AsOwner BookingRole = "owner"
)

// ListBookingsParams defines filters for an actor's bookings.
type ListBookingsParams struct {
	Role       BookingRole
	Status     domain.BookingStatus
	PropertyID string
	Page       int
	PageSize   int
}

// ReviewInput is the payload accepted when rating a property.
type ReviewInput struct {
	PropertyID string
	Rating     int
	Comment    string
}

// PaginationMeta captures pagination metadata returned to API clients.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// PropertiesPage represents paginated listings with metadata.
type PropertiesPage struct {
	Items      []domain.Property
	Pagination PaginationMeta
}

// BookingsPage represents paginated bookings with metadata.
type BookingsPage struct {
	Items      []domain.BookingDetails
	Pagination PaginationMeta
}

// AuthResult is returned by a successful login.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      domain.User
}

func normalizePagination(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 50
	}
	if pageSize > 200 {
		pageSize = 200
	}
	return page, pageSize
}

func buildPaginationMeta(page, pageSize int, total int64) PaginationMeta {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(pageSize)))
		if total > 0 && totalPages == 0 {
			totalPages = 1
		}
	}
	return PaginationMeta{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}
}

// paginate returns the page-th slice of items, pageSize at a time.
func paginate[T any](items []T, page, pageSize int) []T {
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
