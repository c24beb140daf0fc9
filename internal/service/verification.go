package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/devanshshrivastava16/TrustSpace/internal/domain"
	"github.com/devanshshrivastava16/TrustSpace/internal/events"
	"github.com/devanshshrivastava16/TrustSpace/internal/imaging"
)

// DefaultVerificationThreshold is the similarity at or above which a
// walkthrough confirms the listing photos.
const DefaultVerificationThreshold = 0.7

// FrameSource yields one encoded frame per call. Returning no bytes is
// treated as ErrNoFrame.
type FrameSource interface {
	CaptureFrame(ctx context.Context) ([]byte, error)
}

// PropertyVerifier is the listing contract needed to evaluate a session.
type PropertyVerifier interface {
	Get(ctx context.Context, id string) (domain.Property, error)
	MarkVerified(ctx context.Context, id string, verified bool) (domain.Property, error)
}

// VerificationTracker runs live verification sessions between an owner and
// a renter: pending, then active, then completed, or cancelled before that.
type VerificationTracker struct {
	sessions   SessionStore
	properties PropertyVerifier
	scorer     imaging.Scorer
	imagesDir  string
	notify     notifier
	logger     *slog.Logger
	nowFn      func() time.Time
}

// NewVerificationTracker stores captured frames under imagesDir. A nil
// scorer falls back to the histogram scorer.
func NewVerificationTracker(sessions SessionStore, properties PropertyVerifier, scorer imaging.Scorer, imagesDir string, pub events.Publisher, logger *slog.Logger) *VerificationTracker {
	if scorer == nil {
		scorer = imaging.HistogramScorer{}
	}
	logger = orDiscard(logger).With("component", "verification")
	return &VerificationTracker{
		sessions:   sessions,
		properties: properties,
		scorer:     scorer,
		imagesDir:  imagesDir,
		notify:     newNotifier(pub, logger),
		logger:     logger,
		nowFn:      time.Now,
	}
}

// WithClock overrides the time provider (used primarily in tests).
func (t *VerificationTracker) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		t.nowFn = nowFn
	}
}

// Start opens a pending session for a property. ownerID may be empty, in
// which case the property's owner is used; otherwise it must match.
func (t *VerificationTracker) Start(ctx context.Context, propertyID, ownerID, renterID string) (domain.VerificationSession, error) {
	if renterID == "" {
		return domain.VerificationSession{}, domain.NewValidationError("renter_id", "is required")
	}
	prop, err := t.properties.Get(ctx, propertyID)
	if err != nil {
		return domain.VerificationSession{}, err
	}
	if ownerID == "" {
		ownerID = prop.OwnerID
	}
	if ownerID != prop.OwnerID {
		return domain.VerificationSession{}, domain.NewValidationError("owner_id", "does not own the property")
	}

	session, err := t.sessions.Create(ctx, domain.VerificationSession{
		PropertyID: prop.ID,
		OwnerID:    ownerID,
		RenterID:   renterID,
		Status:     domain.SessionPending,
		Images:     []domain.CapturedImage{},
	})
	if err != nil {
		return domain.VerificationSession{}, fmt.Errorf("start verification: %w", err)
	}
	t.logger.Info("verification session started", "session_id", session.ID, "property_id", prop.ID)
	return session, nil
}

// Get returns the session with id.
func (t *VerificationTracker) Get(ctx context.Context, id string) (domain.VerificationSession, error) {
	return t.sessions.Get(ctx, id)
}

// Activate marks a pending session as live.
func (t *VerificationTracker) Activate(ctx context.Context, id string) (domain.VerificationSession, error) {
	return t.sessions.Mutate(ctx, id, func(s *domain.VerificationSession) error {
		if s.Status != domain.SessionPending {
			return domain.TransitionError("verification session", s.Status, domain.SessionActive)
		}
		s.Status = domain.SessionActive
		return nil
	})
}

// AddImage attaches a captured frame to a pending or active session.
func (t *VerificationTracker) AddImage(ctx context.Context, id string, img domain.CapturedImage) (domain.VerificationSession, error) {
	return t.sessions.Mutate(ctx, id, func(s *domain.VerificationSession) error {
		if !s.Status.AcceptsImages() {
			return domain.TransitionError("verification session", s.Status, "image capture")
		}
		s.Images = append(s.Images, img)
		return nil
	})
}

// Capture pulls one frame from src, stores it as <images dir>/<image id>.jpg
// and attaches it to the session.
func (t *VerificationTracker) Capture(ctx context.Context, id string, src FrameSource) (domain.VerificationSession, error) {
	session, err := t.sessions.Get(ctx, id)
	if err != nil {
		return domain.VerificationSession{}, err
	}
	if !session.Status.AcceptsImages() {
		return domain.VerificationSession{}, domain.TransitionError("verification session", session.Status, "image capture")
	}

	frame, err := src.CaptureFrame(ctx)
	if err != nil && !errors.Is(err, ErrNoFrame) {
		return domain.VerificationSession{}, fmt.Errorf("capture frame: %w", err)
	}
	if len(frame) == 0 {
		return domain.VerificationSession{}, ErrNoFrame
	}

	if err := os.MkdirAll(t.imagesDir, 0o755); err != nil {
		return domain.VerificationSession{}, fmt.Errorf("create images dir: %w", err)
	}
	img := domain.CapturedImage{
		ID:        uuid.NewString(),
		Timestamp: t.nowFn().UTC(),
		ImageHash: hashBytes(frame),
	}
	img.ImagePath = filepath.Join(t.imagesDir, img.ID+".jpg")
	if err := os.WriteFile(img.ImagePath, frame, 0o644); err != nil {
		return domain.VerificationSession{}, fmt.Errorf("store frame: %w", err)
	}

	updated, err := t.AddImage(ctx, id, img)
	if err != nil {
		os.Remove(img.ImagePath)
		return domain.VerificationSession{}, err
	}
	return updated, nil
}

// Complete closes a session with the given outcome. Completing an already
// completed session overwrites the outcome; cancelled sessions stay cancelled.
func (t *VerificationTracker) Complete(ctx context.Context, id string, verified bool) (domain.VerificationSession, error) {
	return t.complete(ctx, id, verified, nil)
}

func (t *VerificationTracker) complete(ctx context.Context, id string, verified bool, similarity *float64) (domain.VerificationSession, error) {
	now := t.nowFn().UTC()
	updated, err := t.sessions.Mutate(ctx, id, func(s *domain.VerificationSession) error {
		if s.Status == domain.SessionCancelled {
			return domain.TransitionError("verification session", s.Status, domain.SessionCompleted)
		}
		s.Status = domain.SessionCompleted
		s.Verified = &verified
		s.CompletedAt = &now
		if similarity != nil {
			s.Similarity = similarity
		}
		return nil
	})
	if err != nil {
		return domain.VerificationSession{}, err
	}
	t.notify.emit(ctx, events.ActionCompleted, events.EntityVerification, id, now)
	t.logger.Info("verification session completed", "session_id", id, "verified", verified)
	return updated, nil
}

// Cancel abandons a pending or active session.
func (t *VerificationTracker) Cancel(ctx context.Context, id string) (domain.VerificationSession, error) {
	return t.sessions.Mutate(ctx, id, func(s *domain.VerificationSession) error {
		if !s.Status.AcceptsImages() {
			return domain.TransitionError("verification session", s.Status, domain.SessionCancelled)
		}
		s.Status = domain.SessionCancelled
		return nil
	})
}

// Evaluate scores the captured frames against the listing photos, completes
// the session with the outcome and flags the property when it passes. The
// score is the best match over every frame and photo pair.
func (t *VerificationTracker) Evaluate(ctx context.Context, id string, threshold float64) (domain.VerificationSession, error) {
	if threshold <= 0 {
		threshold = DefaultVerificationThreshold
	}
	session, err := t.sessions.Get(ctx, id)
	if err != nil {
		return domain.VerificationSession{}, err
	}
	if session.Status == domain.SessionCancelled {
		return domain.VerificationSession{}, domain.TransitionError("verification session", session.Status, domain.SessionCompleted)
	}
	prop, err := t.properties.Get(ctx, session.PropertyID)
	if err != nil {
		return domain.VerificationSession{}, err
	}

	captured := make([]string, 0, len(session.Images))
	for _, img := range session.Images {
		captured = append(captured, img.ImagePath)
	}
	score := t.bestScore(prop.Images, captured)
	verified := score >= threshold

	updated, err := t.complete(ctx, id, verified, &score)
	if err != nil {
		return domain.VerificationSession{}, err
	}
	if verified {
		if _, err := t.properties.MarkVerified(ctx, prop.ID, true); err != nil {
			return domain.VerificationSession{}, fmt.Errorf("flag property %s verified: %w", prop.ID, err)
		}
	}
	return updated, nil
}

func (t *VerificationTracker) bestScore(listing, captured []string) float64 {
	refs := t.readAll(listing)
	cands := t.readAll(captured)
	best := 0.0
	for _, ref := range refs {
		for _, cand := range cands {
			score, err := t.scorer.Compare(ref, cand)
			if err != nil {
				t.logger.Warn("image comparison failed", "error", err)
				continue
			}
			if score > best {
				best = score
			}
		}
	}
	return best
}

func (t *VerificationTracker) readAll(paths []string) [][]byte {
	out := make([][]byte, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			t.logger.Warn("skipping unreadable image", "path", p, "error", err)
			continue
		}
		out = append(out, data)
	}
	return out
}
