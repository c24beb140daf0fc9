// Package graphsync mirrors store records into the graph as nodes and edges.
package graphsync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/devanshshrivastava16/TrustSpace/internal/domain"
	"github.com/devanshshrivastava16/TrustSpace/internal/graph"
)

// Projector upserts users, properties, bookings and reviews. Every
// statement MERGEs on the record id so a repeated ingest converges.
type Projector struct {
	client graph.Client
}

// New returns a Projector writing through client.
func New(client graph.Client) *Projector {
	return &Projector{client: client}
}

// EnsureSchema creates the uniqueness constraints the MERGEs rely on.
func (p *Projector) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaCypher {
		if err := p.client.Write(ctx, stmt, nil); err != nil {
			return fmt.Errorf("ensure graph schema: %w", err)
		}
	}
	return nil
}

func (p *Projector) ProjectUser(ctx context.Context, u domain.User) error {
	if u.ID == "" {
		return errors.New("user id is required")
	}
	params := map[string]any{
		"userId": u.ID,
		"props": map[string]any{
			"email":       u.Email,
			"fullName":    u.FullName,
			"userType":    string(u.Role),
			"kycVerified": u.KYCVerified,
			"createdAt":   formatTime(u.CreatedAt),
		},
	}
	if err := p.client.Write(ctx, upsertUserCypher, params); err != nil {
		return fmt.Errorf("project user %s: %w", u.ID, err)
	}
	return nil
}

// ProjectProperty upserts the property and the OWNS edge from its owner.
// Owners missing from the users collection get a bare User node.
func (p *Projector) ProjectProperty(ctx context.Context, prop domain.Property) error {
	if prop.ID == "" {
		return errors.New("property id is required")
	}
	params := map[string]any{
		"propertyId": prop.ID,
		"ownerId":    prop.OwnerID,
		"props": map[string]any{
			"title":                prop.Title,
			"location":             prop.Location,
			"propertyType":         string(prop.Type),
			"pricePerDay":          prop.PricePerDay,
			"capacity":             prop.Capacity,
			"status":               string(prop.Status),
			"verified":             prop.Verified,
			"blockchainRegistered": prop.BlockchainRegistered,
			"createdAt":            formatTime(prop.CreatedAt),
		},
	}
	if err := p.client.Write(ctx, upsertPropertyCypher, params); err != nil {
		return fmt.Errorf("project property %s: %w", prop.ID, err)
	}
	return nil
}

// ProjectBooking upserts a BOOKED edge from guest to property keyed by the
// booking id.
func (p *Projector) ProjectBooking(ctx context.Context, b domain.Booking) error {
	if b.ID == "" {
		return errors.New("booking id is required")
	}
	params := map[string]any{
		"bookingId":  b.ID,
		"guestId":    b.GuestID,
		"propertyId": b.PropertyID,
		"status":     string(b.Status),
		"checkIn":    b.CheckIn,
		"checkOut":   b.CheckOut,
		"totalPrice": b.TotalPrice,
	}
	if err := p.client.Write(ctx, upsertBookingCypher, params); err != nil {
		return fmt.Errorf("project booking %s: %w", b.ID, err)
	}
	return nil
}

func (p *Projector) ProjectReview(ctx context.Context, r domain.Review) error {
	if r.ID == "" {
		return errors.New("review id is required")
	}
	params := map[string]any{
		"reviewId":   r.ID,
		"reviewerId": r.ReviewerID,
		"propertyId": r.PropertyID,
		"rating":     r.Rating,
		"verified":   r.Verified,
	}
	if err := p.client.Write(ctx, upsertReviewCypher, params); err != nil {
		return fmt.Errorf("project review %s: %w", r.ID, err)
	}
	return nil
}

// Counts reports how many nodes and edges of each kind the graph holds.
type Counts struct {
	Users      int64
	Properties int64
	Bookings   int64
	Reviews    int64
}

// Count reads back the size of the mirror.
func (p *Projector) Count(ctx context.Context) (Counts, error) {
	rows, err := p.client.Read(ctx, countCypher, nil)
	if err != nil {
		return Counts{}, fmt.Errorf("count graph: %w", err)
	}
	if len(rows) == 0 {
		return Counts{}, nil
	}
	row := rows[0]
	return Counts{
		Users:      toInt64(row["users"]),
		Properties: toInt64(row["properties"]),
		Bookings:   toInt64(row["bookings"]),
		Reviews:    toInt64(row["reviews"]),
	}, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}
