package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/devanshshrivastava16/TrustSpace/internal/domain"
	"github.com/devanshshrivastava16/TrustSpace/internal/repository"
)

// ReviewService manages property ratings.
type ReviewService struct {
	reviews    ReviewStore
	properties PropertyStore
	bookings   BookingStore
	logger     *slog.Logger
}

// NewReviewService wires the rating flows.
func NewReviewService(reviews ReviewStore, properties PropertyStore, bookings BookingStore, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		reviews:    reviews,
		properties: properties,
		bookings:   bookings,
		logger:     orDiscard(logger).With("component", "reviews"),
	}
}

// Create stores a rating. It is marked verified when the reviewer holds a
// confirmed or completed booking on the property.
func (s *ReviewService) Create(ctx context.Context, reviewerID string, in ReviewInput) (domain.Review, error) {
	if in.Rating < domain.MinRating || in.Rating > domain.MaxRating {
		return domain.Review{}, domain.NewValidationError("rating", fmt.Sprintf("must be between %d and %d", domain.MinRating, domain.MaxRating))
	}
	comment := sanitizeString(in.Comment)
	if comment == "" {
		return domain.Review{}, domain.NewValidationError("comment", "is required")
	}
	prop, err := s.properties.Get(ctx, in.PropertyID)
	if err != nil {
		return domain.Review{}, err
	}
	if prop.OwnerID == reviewerID {
		return domain.Review{}, domain.NewValidationError("reviewer_id", "cannot review own property")
	}

	stays, err := s.bookings.List(ctx, repository.BookingFilter{GuestID: reviewerID, PropertyID: prop.ID})
	if err != nil {
		return domain.Review{}, fmt.Errorf("lookup stays: %w", err)
	}
	verified := false
	for _, b := range stays {
		if b.Status == domain.BookingConfirmed || b.Status == domain.BookingCompleted {
			verified = true
			break
		}
	}

	review, err := s.reviews.Create(ctx, domain.Review{
		PropertyID: prop.ID,
		ReviewerID: reviewerID,
		Rating:     in.Rating,
		Comment:    comment,
		Verified:   verified,
	})
	if err != nil {
		return domain.Review{}, fmt.Errorf("create review: %w", err)
	}
	s.logger.Info("review submitted", "review_id", review.ID, "property_id", prop.ID, "verified", verified)
	return review, nil
}

// List returns the reviews of a property in submission order.
func (s *ReviewService) List(ctx context.Context, propertyID string) ([]domain.Review, error) {
	return s.reviews.List(ctx, repository.ReviewFilter{PropertyID: propertyID})
}

// AverageRating summarises the reviews of a property, rounded to two decimals.
func (s *ReviewService) AverageRating(ctx context.Context, propertyID string) (domain.RatingSummary, error) {
	reviews, err := s.List(ctx, propertyID)
	if err != nil {
		return domain.RatingSummary{}, err
	}
	summary := domain.RatingSummary{PropertyID: propertyID, Count: len(reviews)}
	if len(reviews) == 0 {
		return summary, nil
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	summary.Average = math.Round(float64(total)/float64(len(reviews))*100) / 100
	return summary, nil
}
