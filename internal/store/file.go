// Package store persists record collections as JSON array files.
//
// A collection is always written whole: it is encoded to a sibling temp file
// which is then renamed over the destination, so readers observe either the
// previous or the next version of the file and never a partial write.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"time"
)

var (
	// ErrNotFound is returned when no record carries the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateID is returned when inserting a record whose id already exists.
	ErrDuplicateID = errors.New("duplicate record id")
	// ErrWriteFailed is returned once every write attempt has failed.
	ErrWriteFailed = errors.New("write failed after retries")
)

// RetryPolicy bounds how often a failed save is retried.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// DefaultRetryPolicy is five attempts half a second apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 5, Delay: 500 * time.Millisecond}
}

// File is one collection file on disk.
type File struct {
	path   string
	policy RetryPolicy
	logger *slog.Logger

	rename func(oldpath, newpath string) error
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewFile binds path to a retry policy. A nil logger discards output.
func NewFile(path string, policy RetryPolicy, logger *slog.Logger) *File {
	if policy.Attempts <= 0 {
		policy.Attempts = DefaultRetryPolicy().Attempts
	}
	if policy.Delay < 0 {
		policy.Delay = 0
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &File{
		path:   path,
		policy: policy,
		logger: logger.With("file", path),
		rename: os.Rename,
		sleep:  sleepContext,
	}
}

// Path returns the destination path of the collection.
func (f *File) Path() string {
	return f.path
}

// Load decodes the collection into dst, which must point to a slice.
//
// A missing file is created holding an empty collection. A file that cannot
// be parsed is reported as empty and left untouched on disk.
func (f *File) Load(dst any) error {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := f.writeAtomic([]byte("[]")); err != nil {
			return fmt.Errorf("create %s: %w", f.path, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", f.path, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		f.logger.Warn("collection file is empty, treating as no records")
		return nil
	}
	// Decode into a scratch value: json.Unmarshal keeps going after a type
	// mismatch and would leave dst half filled.
	target := reflect.ValueOf(dst)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return fmt.Errorf("load %s: destination must be a non-nil pointer", f.path)
	}
	scratch := reflect.New(target.Elem().Type())
	if err := json.Unmarshal(data, scratch.Interface()); err != nil {
		f.logger.Warn("collection file is unparsable, treating as no records", "error", err)
		target.Elem().Set(reflect.Zero(target.Elem().Type()))
		return nil
	}
	target.Elem().Set(scratch.Elem())
	return nil
}

// Save writes records as the new content of the collection, retrying
// transient failures according to the retry policy.
func (f *File) Save(ctx context.Context, records any) error {
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", f.path, err)
	}

	var lastErr error
	for attempt := 1; attempt <= f.policy.Attempts; attempt++ {
		if lastErr = f.writeAtomic(data); lastErr == nil {
			return nil
		}
		f.logger.Warn("collection write failed", "attempt", attempt, "max_attempts", f.policy.Attempts, "error", lastErr)
		if attempt == f.policy.Attempts {
			break
		}
		if err := f.sleep(ctx, f.policy.Delay); err != nil {
			return fmt.Errorf("save %s: %w", f.path, err)
		}
	}

	f.logger.Error("giving up on collection write", "attempts", f.policy.Attempts, "error", lastErr)
	return fmt.Errorf("%w: %s: %w", ErrWriteFailed, f.path, lastErr)
}

func (f *File) writeAtomic(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	file, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return err
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	return f.rename(tmp, f.path)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
