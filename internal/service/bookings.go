package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/devanshshrivastava16/TrustSpace/internal/domain"
	"github.com/devanshshrivastava16/TrustSpace/internal/events"
	"github.com/devanshshrivastava16/TrustSpace/internal/repository"
	"github.com/devanshshrivastava16/TrustSpace/internal/store"
)

// BookingService manages reservation requests and their lifecycle.
type BookingService struct {
	bookings   BookingStore
	properties PropertyStore
	users      UserStore
	notify     notifier
	logger     *slog.Logger
	nowFn      func() time.Time
}

// NewBookingService wires the reservation flows.
func NewBookingService(bookings BookingStore, properties PropertyStore, users UserStore, pub events.Publisher, logger *slog.Logger) *BookingService {
	logger = orDiscard(logger).With("component", "bookings")
	return &BookingService{
		bookings:   bookings,
		properties: properties,
		users:      users,
		notify:     newNotifier(pub, logger),
		logger:     logger,
		nowFn:      time.Now,
	}
}

// WithClock overrides the time provider (used primarily in tests).
func (s *BookingService) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		s.nowFn = nowFn
	}
}

// Create requests a stay at a property on behalf of guestID. The price is
// the number of nights times the nightly rate.
func (s *BookingService) Create(ctx context.Context, guestID string, in BookingInput) (domain.Booking, error) {
	if in.PropertyID == "" {
		return domain.Booking{}, domain.NewValidationError("property_id", "is required")
	}
	checkIn, checkOut, err := domain.ParseStay(in.CheckIn, in.CheckOut)
	if err != nil {
		return domain.Booking{}, err
	}

	prop, err := s.properties.Get(ctx, in.PropertyID)
	if err != nil {
		return domain.Booking{}, err
	}
	if prop.Status != domain.PropertyActive {
		return domain.Booking{}, fmt.Errorf("%w: %s is %s", ErrUnavailable, prop.ID, prop.Status)
	}
	if prop.OwnerID == guestID {
		return domain.Booking{}, domain.NewValidationError("guest_id", "cannot book own property")
	}

	nights := int(checkOut.Sub(checkIn).Hours() / 24)
	booking, err := s.bookings.Create(ctx, domain.Booking{
		PropertyID:    prop.ID,
		GuestID:       guestID,
		OwnerID:       prop.OwnerID,
		CheckIn:       checkIn.Format(domain.DateLayout),
		CheckOut:      checkOut.Format(domain.DateLayout),
		TotalPrice:    float64(nights) * prop.PricePerDay,
		Status:        domain.BookingPending,
		PaymentStatus: domain.PaymentPending,
	})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("create booking: %w", err)
	}
	s.notify.emit(ctx, events.ActionCreated, events.EntityBooking, booking.ID, s.nowFn())
	s.logger.Info("booking requested", "booking_id", booking.ID, "property_id", prop.ID, "nights", nights)
	return booking, nil
}

// Get returns a booking visible to actorID, who must be its guest or owner.
func (s *BookingService) Get(ctx context.Context, actorID, id string) (domain.Booking, error) {
	b, err := s.bookings.Get(ctx, id)
	if err != nil {
		return domain.Booking{}, err
	}
	if b.GuestID != actorID && b.OwnerID != actorID {
		return domain.Booking{}, ErrForbidden
	}
	return b, nil
}

// UpdateStatus moves a booking along its lifecycle. Owners confirm, reject
// and complete; either party may cancel.
func (s *BookingService) UpdateStatus(ctx context.Context, actorID, id string, next domain.BookingStatus) (domain.Booking, error) {
	if !next.Valid() {
		return domain.Booking{}, domain.NewValidationError("status", "is not a known booking status")
	}
	updated, err := s.bookings.Mutate(ctx, id, func(b *domain.Booking) error {
		if !mayTransition(actorID, *b, next) {
			return ErrForbidden
		}
		if !b.Status.CanTransition(next) {
			return domain.TransitionError("booking", b.Status, next)
		}
		b.Status = next
		return nil
	})
	if err != nil {
		return domain.Booking{}, err
	}
	s.notify.emit(ctx, events.ActionStatus, events.EntityBooking, id, s.nowFn())
	s.logger.Info("booking status changed", "booking_id", id, "status", next)
	return updated, nil
}

func mayTransition(actorID string, b domain.Booking, next domain.BookingStatus) bool {
	if next == domain.BookingCancelled {
		return actorID == b.GuestID || actorID == b.OwnerID
	}
	return actorID == b.OwnerID
}

// List returns a page of the actor's bookings, decorated with the property
// title and guest name.
func (s *BookingService) List(ctx context.Context, actorID string, params ListBookingsParams) (BookingsPage, error) {
	page, pageSize := normalizePagination(params.Page, params.PageSize)
	filter := repository.BookingFilter{
		PropertyID: params.PropertyID,
		Status:     params.Status,
	}
	switch params.Role {
	case AsOwner:
		filter.OwnerID = actorID
	case AsGuest, "":
		filter.GuestID = actorID
	default:
		return BookingsPage{}, domain.NewValidationError("role", "must be guest or owner")
	}

	matches, err := s.bookings.List(ctx, filter)
	if err != nil {
		return BookingsPage{}, fmt.Errorf("list bookings: %w", err)
	}
	items := paginate(matches, page, pageSize)
	details := make([]domain.BookingDetails, 0, len(items))
	titles := map[string]string{}
	names := map[string]string{}
	for _, b := range items {
		d := domain.BookingDetails{Booking: b}
		d.PropertyTitle, err = lookupName(titles, b.PropertyID, func() (string, error) {
			p, err := s.properties.Get(ctx, b.PropertyID)
			return p.Title, err
		})
		if err != nil {
			return BookingsPage{}, err
		}
		d.GuestName, err = lookupName(names, b.GuestID, func() (string, error) {
			u, err := s.users.Get(ctx, b.GuestID)
			return u.FullName, err
		})
		if err != nil {
			return BookingsPage{}, err
		}
		details = append(details, d)
	}
	return BookingsPage{
		Items:      details,
		Pagination: buildPaginationMeta(page, pageSize, int64(len(matches))),
	}, nil
}

// lookupName memoises fetch per id. Records that no longer resolve render
// as an empty name.
func lookupName(memo map[string]string, id string, fetch func() (string, error)) (string, error) {
	if name, ok := memo[id]; ok {
		return name, nil
	}
	name, err := fetch()
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return "", err
	}
	memo[id] = name
	return name, nil
}
