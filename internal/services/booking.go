package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"goa.design/clue/log"

	"palaksingh/internal/domain"
	"palaksingh/internal/metrics"
	"palaksingh/internal/store"
)

// unlistedEventType labels bookings whose event type is not one of the
// website's options.
const unlistedEventType = "unlisted"

// BookingService accepts booking enquiries
type BookingService struct {
	store    store.Bookings
	notifier Notifier
	now      func() time.Time
}

// NewBookingService creates a new booking service. notifier may be nil.
func NewBookingService(s store.Bookings, notifier Notifier) *BookingService {
	return &BookingService{
		store:    s,
		notifier: notifier,
		now:      time.Now,
	}
}

// Create validates and stores an enquiry, then notifies the artist in the
// background.
func (s *BookingService) Create(ctx context.Context, in domain.BookingEnquiry) (*domain.Booking, error) {
	in = normalizeEnquiry(in)
	log.Info(ctx, log.KV{K: "svc", V: "booking"}, log.KV{K: "msg", V: "create request"}, log.KV{K: "event_type", V: in.EventType})

	if err := validateStruct(in); err != nil {
		log.Info(ctx, log.KV{K: "svc", V: "booking"}, log.KV{K: "msg", V: "rejected"}, log.KV{K: "err", V: err.Error()})
		return nil, err
	}

	b := domain.NewBooking(in, s.now())
	if err := s.store.CreateBooking(ctx, b); err != nil {
		log.Error(ctx, err, log.KV{K: "svc", V: "booking"}, log.KV{K: "msg", V: "store failed"})
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	label := unlistedEventType
	if b.EventType.Valid() {
		label = b.EventType.String()
	}
	metrics.RecordBooking(label)
	log.Info(ctx, log.KV{K: "svc", V: "booking"}, log.KV{K: "msg", V: "created"}, log.KV{K: "id", V: b.ID})

	if s.notifier != nil {
		go s.notifier.NotifyBooking(context.WithoutCancel(ctx), *b)
	}
	return b, nil
}

// List returns bookings newest first
func (s *BookingService) List(ctx context.Context, skip, limit int) ([]domain.Booking, error) {
	bookings, err := s.store.ListBookings(ctx, skip, store.ClampLimit(limit))
	if err != nil {
		log.Error(ctx, err, log.KV{K: "svc", V: "booking"}, log.KV{K: "msg", V: "list failed"})
		return nil, fmt.Errorf("failed to fetch bookings: %w", err)
	}
	return bookings, nil
}

// normalizeEnquiry trims every field so whitespace-only values fail the
// required checks, and canonicalises recognised event types.
func normalizeEnquiry(in domain.BookingEnquiry) domain.BookingEnquiry {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.EventType = domain.EventType(strings.TrimSpace(string(in.EventType)))
	in.EventDate = strings.TrimSpace(in.EventDate)
	in.City = strings.TrimSpace(in.City)
	in.Message = strings.TrimSpace(in.Message)
	if et, err := domain.ParseEventType(string(in.EventType)); err == nil {
		in.EventType = et
	}
	return in
}
