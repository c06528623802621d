// Package store persists bookings and testimonials. One implementation per
// backend; Open picks it from the DATABASE_URL scheme.
package store

import (
	"context"
	"fmt"
	"time"

	"palaksingh/internal/config"
	"palaksingh/internal/database"
	"palaksingh/internal/domain"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// Bookings stores booking enquiries.
type Bookings interface {
	CreateBooking(ctx context.Context, b *domain.Booking) error
	// ListBookings returns bookings newest first.
	ListBookings(ctx context.Context, skip, limit int) ([]domain.Booking, error)
}

// TestimonialFilter narrows ListTestimonials. ApprovedOnly results are
// ordered by approval time, oldest first; everything else newest first.
type TestimonialFilter struct {
	ApprovedOnly bool
	PendingOnly  bool
	Skip         int
	Limit        int
}

// Testimonials stores testimonials and their moderation state.
type Testimonials interface {
	CreateTestimonial(ctx context.Context, t *domain.Testimonial) error
	ListTestimonials(ctx context.Context, f TestimonialFilter) ([]domain.Testimonial, error)
	GetTestimonial(ctx context.Context, id string) (*domain.Testimonial, error)
	// SetTestimonialApproval sets the approval flag; approved_at is set to at
	// when approving and cleared otherwise.
	SetTestimonialApproval(ctx context.Context, id string, approved bool, at time.Time) (*domain.Testimonial, error)
	DeleteTestimonial(ctx context.Context, id string) error
}

// Store is the full persistence surface.
type Store interface {
	Bookings
	Testimonials
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Open connects to the backend selected by cfg.
func Open(ctx context.Context, cfg *config.DatabaseConfig) (Store, error) {
	switch cfg.Driver() {
	case config.DriverMongo:
		db, err := database.OpenMongo(ctx, cfg)
		if err != nil {
			return nil, err
		}
		s := NewMongo(db)
		if err := s.EnsureIndexes(ctx); err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		return s, nil
	case config.DriverDynamo:
		client, err := database.OpenDynamo(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewDynamo(client, cfg.DynamoTablePrefix()), nil
	case config.DriverPostgres, config.DriverSQLite:
		db, err := database.Open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewGorm(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver())
	}
}

// ClampLimit applies the default and maximum page size.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

func clampSkip(skip int) int {
	if skip < 0 {
		return 0
	}
	return skip
}

// page slices items for skip/limit after clamping both.
func page[T any](items []T, skip, limit int) []T {
	skip, limit = clampSkip(skip), ClampLimit(limit)
	if skip >= len(items) {
		return []T{}
	}
	end := skip + limit
	if end > len(items) {
		end = len(items)
	}
	return items[skip:end]
}

var (
	_ Store = (*Gorm)(nil)
	_ Store = (*Mongo)(nil)
	_ Store = (*Dynamo)(nil)
)
