package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"palaksingh/internal/database"
	"palaksingh/internal/domain"
	"palaksingh/internal/metrics"
	apperrors "palaksingh/pkg/errors"
)

// Gorm is the relational store (PostgreSQL or SQLite).
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

// DB exposes the underlying handle for pool statistics.
func (s *Gorm) DB() *gorm.DB {
	return s.db
}

func (s *Gorm) CreateBooking(ctx context.Context, b *domain.Booking) error {
	start := time.Now()
	err := s.db.WithContext(ctx).Create(b).Error
	metrics.RecordDBQuery("create_booking", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

func (s *Gorm) ListBookings(ctx context.Context, skip, limit int) ([]domain.Booking, error) {
	start := time.Now()
	var bookings []domain.Booking
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(clampSkip(skip)).
		Limit(ClampLimit(limit)).
		Find(&bookings).Error
	metrics.RecordDBQuery("list_bookings", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

func (s *Gorm) CreateTestimonial(ctx context.Context, t *domain.Testimonial) error {
	start := time.Now()
	err := s.db.WithContext(ctx).Create(t).Error
	metrics.RecordDBQuery("create_testimonial", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("create testimonial: %w", err)
	}
	return nil
}

func (s *Gorm) ListTestimonials(ctx context.Context, f TestimonialFilter) ([]domain.Testimonial, error) {
	start := time.Now()
	query := s.db.WithContext(ctx).Model(&domain.Testimonial{})
	switch {
	case f.ApprovedOnly:
		query = query.Where("approved = ?", true).Order("approved_at ASC").Order("created_at ASC")
	case f.PendingOnly:
		query = query.Where("approved = ?", false).Order("created_at DESC")
	default:
		query = query.Order("created_at DESC")
	}

	var testimonials []domain.Testimonial
	err := query.Offset(clampSkip(f.Skip)).Limit(ClampLimit(f.Limit)).Find(&testimonials).Error
	metrics.RecordDBQuery("list_testimonials", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("list testimonials: %w", err)
	}
	return testimonials, nil
}

func (s *Gorm) GetTestimonial(ctx context.Context, id string) (*domain.Testimonial, error) {
	start := time.Now()
	var t domain.Testimonial
	err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error
	metrics.RecordDBQuery("get_testimonial", time.Since(start), err)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, testimonialNotFound(id)
		}
		return nil, fmt.Errorf("get testimonial: %w", err)
	}
	return &t, nil
}

func (s *Gorm) SetTestimonialApproval(ctx context.Context, id string, approved bool, at time.Time) (*domain.Testimonial, error) {
	var t domain.Testimonial
	start := time.Now()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&t, "id = ?", id).Error; err != nil {
			return err
		}
		if approved {
			t.Approve(at)
		} else {
			t.Unapprove()
		}
		return tx.Model(&t).Select("approved", "approved_at").Updates(&t).Error
	})
	metrics.RecordDBQuery("set_testimonial_approval", time.Since(start), err)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, testimonialNotFound(id)
		}
		return nil, fmt.Errorf("set testimonial approval: %w", err)
	}
	return &t, nil
}

func (s *Gorm) DeleteTestimonial(ctx context.Context, id string) error {
	start := time.Now()
	result := s.db.WithContext(ctx).Delete(&domain.Testimonial{}, "id = ?", id)
	metrics.RecordDBQuery("delete_testimonial", time.Since(start), result.Error)
	if result.Error != nil {
		return fmt.Errorf("delete testimonial: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return testimonialNotFound(id)
	}
	return nil
}

func (s *Gorm) Ping(ctx context.Context) error {
	if err := database.HealthCheck(ctx, s.db); err != nil {
		return err
	}
	return database.RecordStats(s.db)
}

func (s *Gorm) Close(context.Context) error {
	return database.Close(s.db)
}

func testimonialNotFound(id string) error {
	return apperrors.New(apperrors.ErrCodeNotFound, fmt.Sprintf("testimonial %s not found", id))
}
