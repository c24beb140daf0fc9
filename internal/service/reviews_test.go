package service

import (
	"context"
	"errors"
	"testing"

	"github.com/devanshshrivastava16/TrustSpace/internal/domain"
)

func TestReviewVerificationAndAverage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice@x.io", domain.RoleOwner)
	bob := f.register(t, "bob@x.io", domain.RoleRenter)
	carol := f.register(t, "carol@x.io", domain.RoleRenter)
	prop := f.listing(t, alice.ID, 100)
	f.confirmedBooking(t, bob, alice, prop)

	stayed, err := f.reviews.Create(ctx, bob.ID, ReviewInput{PropertyID: prop.ID, Rating: 5, Comment: "Lovely  view"})
	if err != nil {
		t.Fatalf("create review: %v", err)
	}
	if !stayed.Verified || stayed.Comment != "Lovely view" || stayed.BlockchainRegistered {
		t.Fatalf("expected verified review from a guest, got %+v", stayed)
	}

	drive, err := f.reviews.Create(ctx, carol.ID, ReviewInput{PropertyID: prop.ID, Rating: 2, Comment: "Looked small"})
	if err != nil {
		t.Fatal(err)
	}
	if drive.Verified {
		t.Fatal("expected review without a stay to be unverified")
	}

	summary, err := f.reviews.AverageRating(ctx, prop.ID)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Count != 2 || summary.Average != 3.5 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	empty, err := f.reviews.AverageRating(ctx, "unrated")
	if err != nil || empty.Count != 0 || empty.Average != 0 {
		t.Fatalf("expected empty summary, got %+v (err=%v)", empty, err)
	}

	list, _ := f.reviews.List(ctx, prop.ID)
	if len(list) != 2 || list[0].ID != stayed.ID {
		t.Fatalf("expected reviews in submission order, got %+v", list)
	}
}

func TestReviewRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice@x.io", domain.RoleOwner)
	bob := f.register(t, "bob@x.io", domain.RoleRenter)
	prop := f.listing(t, alice.ID, 100)

	cases := []struct {
		name     string
		reviewer string
		input    ReviewInput
		field    string
	}{
		{"rating too low", bob.ID, ReviewInput{PropertyID: prop.ID, Rating: 0, Comment: "x"}, "rating"},
		{"rating too high", bob.ID, ReviewInput{PropertyID: prop.ID, Rating: 6, Comment: "x"}, "rating"},
		{"blank comment", bob.ID, ReviewInput{PropertyID: prop.ID, Rating: 4, Comment: "   "}, "comment"},
		{"own property", alice.ID, ReviewInput{PropertyID: prop.ID, Rating: 5, Comment: "Best"}, "reviewer_id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.reviews.Create(ctx, tc.reviewer, tc.input)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) || verr.Field != tc.field {
				t.Fatalf("expected validation error on %s, got %v", tc.field, err)
			}
		})
	}
}
