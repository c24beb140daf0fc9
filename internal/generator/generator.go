package generator

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/devanshshrivastava16/TrustSpace/internal/domain"
	"github.com/devanshshrivastava16/TrustSpace/internal/repository"
)

// ErrAlreadySeeded is returned by Seed when listings exist and Force is off.
var ErrAlreadySeeded = errors.New("properties already present")

var typeBlurbs = map[domain.PropertyType]string{
	domain.PropertyHouse:      "Beautiful traditional Rajasthani house with modern amenities",
	domain.PropertyApartment:  "Modern apartment with city views",
	domain.PropertyVilla:      "Luxury villa with private garden",
	domain.PropertyGarden:     "Spacious garden venue perfect for events",
	domain.PropertyHall:       "Elegant banquet hall with traditional decor",
	domain.PropertyEventSpace: "Versatile event space with modern facilities",
}

var locations = []string{
	"Malviya Nagar", "C-Scheme", "Bani Park", "Vaishali Nagar", "Raja Park",
	"Sitapura", "Jawahar Circle", "Civil Lines", "Mansarovar", "Pratap Nagar",
	"Vidyadhar Nagar", "Sector 3", "Sector 4", "Sector 5", "Sector 6",
	"Sector 7", "Sector 8", "Sector 9", "Sector 10", "Sector 11",
}

var prefixes = []string{"Royal", "Pink City", "Heritage", "Rajasthani", "Pink Pearl"}
var suffixes = []string{"Villa", "Palace", "Estate", "Garden", "Mansion", "Apartment"}

// Generator produces sample listings from fixed name and location lists.
type Generator struct {
	cfg  Config
	rand *rand.Rand
}

// New returns a Generator. Zero fields of cfg take their defaults; a zero
// seed draws one from the clock.
func New(cfg Config) *Generator {
	def := DefaultConfig()
	if cfg.Count <= 0 {
		cfg.Count = def.Count
	}
	if cfg.OwnerID == "" {
		cfg.OwnerID = def.OwnerID
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return &Generator{cfg: cfg, rand: rand.New(rand.NewSource(cfg.Seed))}
}

// Generate builds cfg.Count active listings. The same seed yields the same
// listings, ids included.
func (g *Generator) Generate(ctx context.Context) ([]domain.Property, error) {
	now := g.cfg.Now().UTC()
	props := make([]domain.Property, 0, g.cfg.Count)
	for i := 0; i < g.cfg.Count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		id, err := uuid.NewRandomFromReader(g.rand)
		if err != nil {
			return nil, fmt.Errorf("generate id: %w", err)
		}

		kind := domain.PropertyTypes[g.rand.Intn(len(domain.PropertyTypes))]
		location := locations[g.rand.Intn(len(locations))]
		name := prefixes[g.rand.Intn(len(prefixes))] + " " + suffixes[g.rand.Intn(len(suffixes))]

		props = append(props, domain.Property{
			ID:          id.String(),
			OwnerID:     g.cfg.OwnerID,
			Title:       fmt.Sprintf("%s in %s", name, location),
			Location:    location,
			Type:        kind,
			PricePerDay: float64(1000 + g.rand.Intn(9001)),
			Capacity:    g.capacity(kind),
			Description: fmt.Sprintf("%s located in the heart of %s. Perfect for your stay in the Pink City.",
				typeBlurbs[kind], location),
			Amenities:            []string{},
			Rules:                []string{},
			Images:               []string{},
			Status:               domain.PropertyActive,
			Verified:             g.rand.Intn(2) == 1,
			BlockchainRegistered: g.rand.Intn(2) == 1,
			CreatedAt:            now,
			UpdatedAt:            now,
		})
	}
	return props, nil
}

func (g *Generator) capacity(kind domain.PropertyType) int {
	switch kind {
	case domain.PropertyHouse, domain.PropertyApartment:
		return 4 + g.rand.Intn(5)
	case domain.PropertyVilla:
		return 8 + g.rand.Intn(8)
	default:
		return 20 + g.rand.Intn(81)
	}
}

// Seed generates listings, writes them as the properties collection and
// makes sure every other collection file exists.
func (g *Generator) Seed(ctx context.Context, repos *repository.Repositories) ([]domain.Property, error) {
	if err := repos.EnsureAll(ctx); err != nil {
		return nil, err
	}
	if !g.cfg.Force {
		existing, err := repos.Properties.List(ctx, repository.PropertyFilter{})
		if err != nil {
			return nil, fmt.Errorf("read properties: %w", err)
		}
		if len(existing) > 0 {
			return nil, fmt.Errorf("%w: %d listings", ErrAlreadySeeded, len(existing))
		}
	}

	props, err := g.Generate(ctx)
	if err != nil {
		return nil, err
	}
	if err := repos.Properties.ReplaceAll(ctx, props); err != nil {
		return nil, fmt.Errorf("write properties: %w", err)
	}
	return props, nil
}
