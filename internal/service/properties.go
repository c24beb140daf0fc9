package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/devanshshrivastava16/TrustSpace/internal/domain"
	"github.com/devanshshrivastava16/TrustSpace/internal/events"
	"github.com/devanshshrivastava16/TrustSpace/internal/store"
)

// propertyImmutable are the keys an owner may not set through Update.
var propertyImmutable = map[string]struct{}{
	"verified":              {},
	"blockchain_registered": {},
	"contract_address":      {},
	"updated_at":            {},
}

// PropertyService manages listings.
type PropertyService struct {
	properties PropertyStore
	users      UserStore
	cache      *ListingCache
	notify     notifier
	logger     *slog.Logger
	nowFn      func() time.Time
}

// NewPropertyService wires listing management. cache may be nil.
func NewPropertyService(properties PropertyStore, users UserStore, cache *ListingCache, pub events.Publisher, logger *slog.Logger) *PropertyService {
	logger = orDiscard(logger).With("component", "properties")
	return &PropertyService{
		properties: properties,
		users:      users,
		cache:      cache,
		notify:     newNotifier(pub, logger),
		logger:     logger,
		nowFn:      time.Now,
	}
}

// WithClock overrides the time provider (used primarily in tests).
func (s *PropertyService) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		s.nowFn = nowFn
	}
}

// Create lists a new property for ownerID. The listing is live immediately.
func (s *PropertyService) Create(ctx context.Context, ownerID string, in PropertyInput) (domain.Property, error) {
	if err := validatePropertyInput(in); err != nil {
		return domain.Property{}, err
	}
	if _, err := s.users.Get(ctx, ownerID); err != nil {
		return domain.Property{}, fmt.Errorf("property owner %s: %w", ownerID, err)
	}

	prop, err := s.properties.Create(ctx, domain.Property{
		OwnerID:     ownerID,
		Title:       sanitizeString(in.Title),
		Location:    sanitizeString(in.Location),
		Type:        in.Type,
		PricePerDay: in.PricePerDay,
		Capacity:    in.Capacity,
		Description: sanitizeString(in.Description),
		Amenities:   cleanList(in.Amenities),
		Rules:       cleanList(in.Rules),
		Images:      cleanList(in.Images),
		Status:      domain.PropertyActive,
	})
	if err != nil {
		return domain.Property{}, fmt.Errorf("create property: %w", err)
	}
	s.cache.Invalidate()
	s.notify.emit(ctx, events.ActionCreated, events.EntityProperty, prop.ID, s.nowFn())
	s.logger.Info("property listed", "property_id", prop.ID, "owner_id", ownerID)
	return prop, nil
}

// Update merges patch into a property owned by actorID.
func (s *PropertyService) Update(ctx context.Context, actorID, id string, patch store.Patch) (domain.Property, error) {
	current, err := s.properties.Get(ctx, id)
	if err != nil {
		return domain.Property{}, err
	}
	if current.OwnerID != actorID {
		return domain.Property{}, ErrForbidden
	}

	clean := store.Patch{}
	for key, val := range patch {
		if _, blocked := propertyImmutable[key]; blocked {
			continue
		}
		clean[key] = val
	}

	updated, err := s.properties.Update(ctx, id, clean)
	if err != nil {
		return domain.Property{}, fmt.Errorf("update property %s: %w", id, err)
	}
	if err := validateProperty(updated); err != nil {
		// Roll the record back so an invalid patch never sticks.
		if _, rbErr := s.properties.Mutate(ctx, id, func(p *domain.Property) error {
			*p = current
			return nil
		}); rbErr != nil {
			s.logger.Error("rollback of invalid property update failed", "property_id", id, "error", rbErr)
		}
		return domain.Property{}, err
	}
	s.cache.Invalidate()
	s.notify.emit(ctx, events.ActionUpdated, events.EntityProperty, id, s.nowFn())
	return updated, nil
}

// Get returns the property with id.
func (s *PropertyService) Get(ctx context.Context, id string) (domain.Property, error) {
	return s.properties.Get(ctx, id)
}

// Search returns a page of listings matching the filters.
func (s *PropertyService) Search(ctx context.Context, params PropertySearch) (PropertiesPage, error) {
	page, pageSize := normalizePagination(params.Page, params.PageSize)
	filter := params.filter()

	matches, err := s.cache.Fetch(filter, func() ([]domain.Property, error) {
		return s.properties.List(ctx, filter)
	})
	if err != nil {
		return PropertiesPage{}, fmt.Errorf("search properties: %w", err)
	}
	return PropertiesPage{
		Items:      paginate(matches, page, pageSize),
		Pagination: buildPaginationMeta(page, pageSize, int64(len(matches))),
	}, nil
}

// MarkVerified sets the verified flag of a property.
func (s *PropertyService) MarkVerified(ctx context.Context, id string, verified bool) (domain.Property, error) {
	prop, err := s.properties.Mutate(ctx, id, func(p *domain.Property) error {
		p.Verified = verified
		return nil
	})
	if err != nil {
		return domain.Property{}, err
	}
	s.cache.Invalidate()
	s.notify.emit(ctx, events.ActionUpdated, events.EntityProperty, id, s.nowFn())
	return prop, nil
}

// MarkRegistered flags a property as recorded on the ledger under
// contractAddress.
func (s *PropertyService) MarkRegistered(ctx context.Context, id, contractAddress string) (domain.Property, error) {
	prop, err := s.properties.Mutate(ctx, id, func(p *domain.Property) error {
		p.BlockchainRegistered = true
		p.ContractAddress = &contractAddress
		return nil
	})
	if err != nil {
		return domain.Property{}, err
	}
	s.cache.Invalidate()
	s.notify.emit(ctx, events.ActionUpdated, events.EntityProperty, id, s.nowFn())
	return prop, nil
}

func validatePropertyInput(in PropertyInput) error {
	return validateProperty(domain.Property{
		Title:       sanitizeString(in.Title),
		Location:    sanitizeString(in.Location),
		Type:        in.Type,
		PricePerDay: in.PricePerDay,
		Capacity:    in.Capacity,
		Status:      domain.PropertyActive,
	})
}

func validateProperty(p domain.Property) error {
	switch {
	case p.Title == "":
		return domain.NewValidationError("title", "is required")
	case p.Location == "":
		return domain.NewValidationError("location", "is required")
	case !p.Type.Valid():
		return domain.NewValidationError("property_type", "is not a known type")
	case p.PricePerDay <= 0:
		return domain.NewValidationError("price_per_day", "must be positive")
	case p.Capacity <= 0:
		return domain.NewValidationError("capacity", "must be positive")
	case !p.Status.Valid():
		return domain.NewValidationError("status", "must be pending, active or inactive")
	}
	return nil
}
