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

// Moderation actions, as recorded in metrics.
const (
	ActionApprove   = "approve"
	ActionUnapprove = "unapprove"
	ActionReject    = "reject"
)

// TestimonialService accepts and moderates testimonials
type TestimonialService struct {
	store       store.Testimonials
	autoApprove bool
	now         func() time.Time
}

// NewTestimonialService creates a new testimonial service. With
// autoApprove every submission is published immediately.
func NewTestimonialService(s store.Testimonials, autoApprove bool) *TestimonialService {
	return &TestimonialService{
		store:       s,
		autoApprove: autoApprove,
		now:         time.Now,
	}
}

// Create validates and stores a submission, pending unless auto-approved.
func (s *TestimonialService) Create(ctx context.Context, in domain.TestimonialSubmission) (*domain.Testimonial, error) {
	in.ClientName = strings.TrimSpace(in.ClientName)
	in.Review = strings.TrimSpace(in.Review)
	in.EventType = strings.TrimSpace(in.EventType)

	if err := validateStruct(in); err != nil {
		log.Info(ctx, log.KV{K: "svc", V: "testimonial"}, log.KV{K: "msg", V: "rejected"}, log.KV{K: "err", V: err.Error()})
		return nil, err
	}

	t := domain.NewTestimonial(in, s.autoApprove, s.now())
	if err := s.store.CreateTestimonial(ctx, t); err != nil {
		log.Error(ctx, err, log.KV{K: "svc", V: "testimonial"}, log.KV{K: "msg", V: "store failed"})
		return nil, fmt.Errorf("failed to save testimonial: %w", err)
	}

	metrics.RecordTestimonialSubmitted(t.Rating)
	log.Info(ctx, log.KV{K: "svc", V: "testimonial"}, log.KV{K: "msg", V: "created"},
		log.KV{K: "id", V: t.ID}, log.KV{K: "approved", V: t.Approved})
	return t, nil
}

// List returns every testimonial, newest first
func (s *TestimonialService) List(ctx context.Context, skip, limit int) ([]domain.Testimonial, error) {
	return s.list(ctx, store.TestimonialFilter{Skip: skip, Limit: limit})
}

// Approved returns the public testimonials in approval order
func (s *TestimonialService) Approved(ctx context.Context) ([]domain.Testimonial, error) {
	return s.list(ctx, store.TestimonialFilter{ApprovedOnly: true, Limit: store.MaxLimit})
}

// Pending returns testimonials awaiting moderation, newest first
func (s *TestimonialService) Pending(ctx context.Context, skip, limit int) ([]domain.Testimonial, error) {
	return s.list(ctx, store.TestimonialFilter{PendingOnly: true, Skip: skip, Limit: limit})
}

func (s *TestimonialService) list(ctx context.Context, f store.TestimonialFilter) ([]domain.Testimonial, error) {
	f.Limit = store.ClampLimit(f.Limit)
	testimonials, err := s.store.ListTestimonials(ctx, f)
	if err != nil {
		log.Error(ctx, err, log.KV{K: "svc", V: "testimonial"}, log.KV{K: "msg", V: "list failed"})
		return nil, fmt.Errorf("failed to fetch testimonials: %w", err)
	}
	return testimonials, nil
}

// Approve publishes a testimonial
func (s *TestimonialService) Approve(ctx context.Context, id string) (*domain.Testimonial, error) {
	return s.setApproval(ctx, id, true, ActionApprove)
}

// Unapprove hides a published testimonial again
func (s *TestimonialService) Unapprove(ctx context.Context, id string) (*domain.Testimonial, error) {
	return s.setApproval(ctx, id, false, ActionUnapprove)
}

func (s *TestimonialService) setApproval(ctx context.Context, id string, approved bool, action string) (*domain.Testimonial, error) {
	t, err := s.store.SetTestimonialApproval(ctx, id, approved, s.now())
	if err != nil {
		return nil, fmt.Errorf("%s testimonial %s: %w", action, id, err)
	}
	metrics.RecordTestimonialModerated(action)
	log.Info(ctx, log.KV{K: "svc", V: "testimonial"}, log.KV{K: "msg", V: action}, log.KV{K: "id", V: id})
	return t, nil
}

// Reject deletes a testimonial
func (s *TestimonialService) Reject(ctx context.Context, id string) error {
	if err := s.store.DeleteTestimonial(ctx, id); err != nil {
		return fmt.Errorf("reject testimonial %s: %w", id, err)
	}
	metrics.RecordTestimonialModerated(ActionReject)
	log.Info(ctx, log.KV{K: "svc", V: "testimonial"}, log.KV{K: "msg", V: ActionReject}, log.KV{K: "id", V: id})
	return nil
}
