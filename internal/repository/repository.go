// Package repository exposes typed record collections for the marketplace.
package repository

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/devanshshrivastava16/TrustSpace/internal/domain"
	"github.com/devanshshrivastava16/TrustSpace/internal/store"
)

// Collection file names under the data directory.
const (
	UsersFile      = "users.json"
	PropertiesFile = "properties.json"
	BookingsFile   = "bookings.json"
	ReviewsFile    = "reviews.json"
	SessionsFile   = "verification_sessions.json"
	ImagesDir      = "verification_images"
	DocumentsDir   = "kyc_documents"
)

// Options configures Open.
type Options struct {
	DataDir string
	Retry   store.RetryPolicy
	Logger  *slog.Logger
	Now     func() time.Time
	NewID   func() string
}

// Repositories bundles every collection of one data directory.
type Repositories struct {
	DataDir    string
	Users      *UserRepository
	Properties *PropertyRepository
	Bookings   *BookingRepository
	Reviews    *ReviewRepository
	Sessions   *SessionRepository
}

// Open binds a repository to each collection file under opts.DataDir. Files
// are created lazily on first access.
func Open(opts Options) *Repositories {
	if opts.DataDir == "" {
		opts.DataDir = "data"
	}
	if opts.Retry.Attempts == 0 {
		opts.Retry = store.DefaultRetryPolicy()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger = logger.With("component", "store")

	file := func(name string) *store.File {
		return store.NewFile(filepath.Join(opts.DataDir, name), opts.Retry, logger)
	}
	base := records{now: opts.Now, newID: opts.NewID}

	return &Repositories{
		DataDir: opts.DataDir,
		Users: &UserRepository{
			records: base,
			c:       store.NewCollection[domain.User]("users", file(UsersFile)).WithClock(opts.Now),
		},
		Properties: &PropertyRepository{
			records: base,
			c:       store.NewCollection[domain.Property]("properties", file(PropertiesFile), "owner_id").WithClock(opts.Now),
		},
		Bookings: &BookingRepository{
			records: base,
			c:       store.NewCollection[domain.Booking]("bookings", file(BookingsFile)).WithClock(opts.Now),
		},
		Reviews: &ReviewRepository{
			records: base,
			c:       store.NewCollection[domain.Review]("reviews", file(ReviewsFile)).WithClock(opts.Now),
		},
		Sessions: &SessionRepository{
			records: base,
			c:       store.NewCollection[domain.VerificationSession]("verification_sessions", file(SessionsFile)).WithClock(opts.Now),
		},
	}
}

// ImagesDir returns the directory where captured verification frames live.
func (r *Repositories) ImagesDir() string {
	return filepath.Join(r.DataDir, ImagesDir)
}

// DocumentsDir returns the directory where uploaded KYC documents live.
func (r *Repositories) DocumentsDir() string {
	return filepath.Join(r.DataDir, DocumentsDir)
}

// EnsureAll creates every collection file that does not exist yet.
func (r *Repositories) EnsureAll(ctx context.Context) error {
	steps := []struct {
		name   string
		ensure func() error
	}{
		{UsersFile, r.Users.c.Ensure},
		{PropertiesFile, r.Properties.c.Ensure},
		{BookingsFile, r.Bookings.c.Ensure},
		{ReviewsFile, r.Reviews.c.Ensure},
		{SessionsFile, r.Sessions.c.Ensure},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := step.ensure(); err != nil {
			return fmt.Errorf("ensure %s: %w", step.name, err)
		}
	}
	return nil
}

type records struct {
	now   func() time.Time
	newID func() string
}

func (r records) stamp() (string, time.Time) {
	return r.newID(), r.now().UTC()
}
