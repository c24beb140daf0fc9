package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/devanshshrivastava16/TrustSpace/internal/domain"
	"github.com/devanshshrivastava16/TrustSpace/internal/events"
	"github.com/devanshshrivastava16/TrustSpace/internal/store"
)

type staticFrames struct {
	frame []byte
	err   error
}

func (s staticFrames) CaptureFrame(context.Context) ([]byte, error) { return s.frame, s.err }

func solidPNG(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 12, 12))
	for y := 0; y < 12; y++ {
		for x := 0; x < 12; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

var (
	red  = color.RGBA{R: 200, G: 20, B: 20, A: 255}
	blue = color.RGBA{R: 20, G: 20, B: 200, A: 255}
)

// photographedListing creates a property whose single listing photo is a
// solid red image.
func photographedListing(t *testing.T, f *fixture, ownerID string) domain.Property {
	t.Helper()
	photo := filepath.Join(t.TempDir(), "front.png")
	if err := os.WriteFile(photo, solidPNG(t, red), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := f.properties.Create(context.Background(), ownerID, PropertyInput{
		Title: "Red Barn", Location: "Shimla", Type: domain.PropertyHouse,
		PricePerDay: 80, Capacity: 4, Images: []string{photo},
	})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestVerificationLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice@x.io", domain.RoleOwner)
	bob := f.register(t, "bob@x.io", domain.RoleRenter)
	prop := f.listing(t, alice.ID, 100)

	if _, err := f.verification.Start(ctx, prop.ID, bob.ID, bob.ID); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected mismatched owner to fail, got %v", err)
	}
	if _, err := f.verification.Start(ctx, "missing", "", bob.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	s, err := f.verification.Start(ctx, prop.ID, "", bob.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if s.Status != domain.SessionPending || s.OwnerID != alice.ID || s.Verified != nil {
		t.Fatalf("unexpected session %+v", s)
	}

	s, err = f.verification.Activate(ctx, s.ID)
	if err != nil || s.Status != domain.SessionActive {
		t.Fatalf("expected active session, got %+v (err=%v)", s.Status, err)
	}
	if _, err := f.verification.Activate(ctx, s.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected second activation to fail, got %v", err)
	}

	s, err = f.verification.AddImage(ctx, s.ID, domain.CapturedImage{ID: "img-1", ImagePath: "/tmp/a.jpg", Timestamp: f.now})
	if err != nil || len(s.Images) != 1 {
		t.Fatalf("expected one image, got %+v (err=%v)", s.Images, err)
	}

	s, err = f.verification.Complete(ctx, s.ID, false)
	if err != nil || s.Status != domain.SessionCompleted || s.Verified == nil || *s.Verified || s.CompletedAt == nil {
		t.Fatalf("expected completed unverified session, got %+v (err=%v)", s, err)
	}
	s, err = f.verification.Complete(ctx, s.ID, true)
	if err != nil || !*s.Verified {
		t.Fatalf("expected outcome to be overwritten, got %+v (err=%v)", s, err)
	}
	if _, err := f.verification.AddImage(ctx, s.ID, domain.CapturedImage{ID: "late"}); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected capture after completion to fail, got %v", err)
	}
	if _, err := f.verification.Cancel(ctx, s.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected completed session to resist cancel, got %v", err)
	}

	completed := 0
	for _, evt := range f.events.Events() {
		if evt.Entity == events.EntityVerification && evt.Action == events.ActionCompleted {
			completed++
		}
	}
	if completed != 2 {
		t.Fatalf("expected two completion events, got %d", completed)
	}
}

func TestCompleteTwiceIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice@x.io", domain.RoleOwner)
	bob := f.register(t, "bob@x.io", domain.RoleRenter)
	prop := f.listing(t, alice.ID, 100)

	s, err := f.verification.Start(ctx, prop.ID, "", bob.ID)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if _, err := f.verification.Complete(ctx, s.ID, true); err != nil {
			t.Fatalf("complete #%d: %v", i+1, err)
		}
	}
	got, err := f.verification.Get(ctx, s.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != domain.SessionCompleted || got.Verified == nil || !*got.Verified {
		t.Fatalf("expected completed verified session, got status=%s verified=%v", got.Status, got.Verified)
	}
}

func TestCancelledSessionStaysCancelled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice@x.io", domain.RoleOwner)
	bob := f.register(t, "bob@x.io", domain.RoleRenter)
	prop := f.listing(t, alice.ID, 100)

	s, err := f.verification.Start(ctx, prop.ID, alice.ID, bob.ID)
	if err != nil {
		t.Fatal(err)
	}
	if s, err = f.verification.Cancel(ctx, s.ID); err != nil || s.Status != domain.SessionCancelled {
		t.Fatalf("expected cancelled session, got %+v (err=%v)", s.Status, err)
	}
	if _, err := f.verification.Complete(ctx, s.ID, true); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected complete after cancel to fail, got %v", err)
	}
	if _, err := f.verification.Evaluate(ctx, s.ID, 0); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected evaluate after cancel to fail, got %v", err)
	}
}

func TestCaptureStoresFrame(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice@x.io", domain.RoleOwner)
	bob := f.register(t, "bob@x.io", domain.RoleRenter)
	prop := f.listing(t, alice.ID, 100)
	s, err := f.verification.Start(ctx, prop.ID, "", bob.ID)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.verification.Capture(ctx, s.ID, staticFrames{}); !errors.Is(err, ErrNoFrame) {
		t.Fatalf("expected ErrNoFrame, got %v", err)
	}
	camErr := errors.New("camera unplugged")
	if _, err := f.verification.Capture(ctx, s.ID, staticFrames{err: camErr}); !errors.Is(err, camErr) {
		t.Fatalf("expected camera error, got %v", err)
	}

	frame := solidPNG(t, blue)
	s, err = f.verification.Capture(ctx, s.ID, staticFrames{frame: frame})
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if len(s.Images) != 1 {
		t.Fatalf("expected one captured image, got %d", len(s.Images))
	}
	img := s.Images[0]
	if img.ImageHash != hashBytes(frame) || filepath.Base(img.ImagePath) != img.ID+".jpg" {
		t.Fatalf("unexpected captured image %+v", img)
	}
	if data, err := os.ReadFile(img.ImagePath); err != nil || !bytes.Equal(data, frame) {
		t.Fatalf("expected frame on disk, err=%v", err)
	}
}

func TestEvaluateFlagsMatchingListing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice@x.io", domain.RoleOwner)
	bob := f.register(t, "bob@x.io", domain.RoleRenter)
	prop := photographedListing(t, f, alice.ID)

	s, err := f.verification.Start(ctx, prop.ID, "", bob.ID)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range []color.Color{blue, red} {
		if _, err := f.verification.Capture(ctx, s.ID, staticFrames{frame: solidPNG(t, c)}); err != nil {
			t.Fatal(err)
		}
	}

	s, err = f.verification.Evaluate(ctx, s.ID, 0)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if s.Status != domain.SessionCompleted || s.Verified == nil || !*s.Verified || s.Similarity == nil || *s.Similarity < 0.99 {
		t.Fatalf("expected verified session with high similarity, got %+v", s)
	}
	got, err := f.properties.Get(ctx, prop.ID)
	if err != nil || !got.Verified {
		t.Fatalf("expected property to be flagged verified, got %v (err=%v)", got.Verified, err)
	}
}

func TestEvaluateRejectsMismatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice@x.io", domain.RoleOwner)
	bob := f.register(t, "bob@x.io", domain.RoleRenter)
	prop := photographedListing(t, f, alice.ID)

	s, err := f.verification.Start(ctx, prop.ID, "", bob.ID)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.verification.Capture(ctx, s.ID, staticFrames{frame: solidPNG(t, blue)}); err != nil {
		t.Fatal(err)
	}
	s, err = f.verification.Evaluate(ctx, s.ID, 0)
	if err != nil {
		t.Fatal(err)
	}
	if *s.Verified || *s.Similarity != 0 {
		t.Fatalf("expected failed verification, got verified=%v similarity=%v", *s.Verified, *s.Similarity)
	}
	if got, _ := f.properties.Get(ctx, prop.ID); got.Verified {
		t.Fatal("expected property to stay unverified")
	}
}
