package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/devanshshrivastava16/TrustSpace/internal/domain"
)

// TaskError accumulates multiple errors produced during bulk ingestion.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no errors"
	case 1:
		return e.Errors[0].Error()
	}
	parts := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		parts = append(parts, err.Error())
	}
	return "multiple errors: " + strings.Join(parts, "; ")
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e *TaskError) Unwrap() []error { return e.Errors }

func (e *TaskError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// GraphProjector writes store records into the graph mirror.
type GraphProjector interface {
	ProjectUser(ctx context.Context, u domain.User) error
	ProjectProperty(ctx context.Context, p domain.Property) error
	ProjectBooking(ctx context.Context, b domain.Booking) error
	ProjectReview(ctx context.Context, r domain.Review) error
}

// BulkIngestor mirrors whole collections into the graph using a worker pool.
type BulkIngestor struct {
	projector GraphProjector
	workers   int
}

// NewBulkIngestor creates a new BulkIngestor instance with the provided concurrency.
func NewBulkIngestor(projector GraphProjector, workers int) *BulkIngestor {
	if workers <= 0 {
		workers = 4
	}
	return &BulkIngestor{projector: projector, workers: workers}
}

// IngestUsers projects every user concurrently.
func (bi *BulkIngestor) IngestUsers(ctx context.Context, users []domain.User) error {
	return runPool(ctx, bi.workers, users, bi.projector.ProjectUser)
}

// IngestProperties projects every property and its OWNS edge concurrently.
func (bi *BulkIngestor) IngestProperties(ctx context.Context, props []domain.Property) error {
	return runPool(ctx, bi.workers, props, bi.projector.ProjectProperty)
}

// IngestBookings projects every booking edge concurrently.
func (bi *BulkIngestor) IngestBookings(ctx context.Context, bookings []domain.Booking) error {
	return runPool(ctx, bi.workers, bookings, bi.projector.ProjectBooking)
}

// IngestReviews projects every review edge concurrently.
func (bi *BulkIngestor) IngestReviews(ctx context.Context, reviews []domain.Review) error {
	return runPool(ctx, bi.workers, reviews, bi.projector.ProjectReview)
}

func runPool[T any](ctx context.Context, workers int, items []T, fn func(context.Context, T) error) error {
	if len(items) == 0 {
		return nil
	}
	indexCh := make(chan int)
	errCh := make(chan error, len(items))
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range indexCh {
			if err := fn(ctx, items[idx]); err != nil {
				errCh <- err
			}
		}
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go worker()
	}

Loop:
	for i := range items {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	if err := ctx.Err(); err != nil {
		return err
	}
	var taskErr TaskError
	for err := range errCh {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		taskErr.append(err)
	}
	return taskErr.asError()
}
