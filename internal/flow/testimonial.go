package flow

import (
	"context"
	"fmt"
	"strings"

	"goa.design/clue/log"

	"palaksingh/internal/client"
	"palaksingh/internal/domain"
	"palaksingh/internal/validation"
	apperrors "palaksingh/pkg/errors"
)

// TestimonialClient is what the testimonial flow needs from the backend.
type TestimonialClient interface {
	Submitter
	ApprovedFetcher
}

// TestimonialFlow owns the review form and the testimonial carousel.
type TestimonialFlow struct {
	machine
	client   TestimonialClient
	seeds    []domain.Testimonial
	merged   []domain.Testimonial
	index    int
	form     domain.TestimonialSubmission
	formOpen bool
}

// NewTestimonialFlow returns a flow showing the seeded testimonials followed
// by whatever the backend has approved.
func NewTestimonialFlow(ctx context.Context, c TestimonialClient, opts ...Option) *TestimonialFlow {
	o := newOptions(opts)
	f := &TestimonialFlow{
		client: c,
		seeds:  o.seeds,
		merged: append([]domain.Testimonial(nil), o.seeds...),
		form:   domain.NewTestimonialSubmission(),
	}
	f.LoadApproved(ctx)
	return f
}

// LoadApproved rebuilds the carousel as seeds followed by the approved
// testimonials, in the order received. Records rated outside 1..5 are
// skipped. A failed or empty fetch leaves only the seeds and is not
// reported: the carousel never shows an error.
func (f *TestimonialFlow) LoadApproved(ctx context.Context) {
	fetched, err := f.client.FetchApproved(ctx, client.ResourceApprovedTestimonials)
	if err != nil {
		log.Debug(ctx, log.KV{K: "svc", V: "testimonial"}, log.KV{K: "msg", V: "approved testimonials unavailable"}, log.KV{K: "err", V: err.Error()})
		fetched = nil
	}
	fetched = rated(ctx, fetched)

	f.mu.Lock()
	merged := make([]domain.Testimonial, 0, len(f.seeds)+len(fetched))
	merged = append(merged, f.seeds...)
	merged = append(merged, fetched...)
	f.merged = merged
	if f.index >= len(merged) {
		f.index = 0
	}
	f.mu.Unlock()
	f.changed()
}

// rated drops records whose rating is outside 1..5.
func rated(ctx context.Context, ts []domain.Testimonial) []domain.Testimonial {
	out := ts[:0:0]
	for _, t := range ts {
		if !validation.ValidRating(t.Rating) {
			log.Debug(ctx, log.KV{K: "svc", V: "testimonial"}, log.KV{K: "msg", V: "dropped testimonial with invalid rating"},
				log.KV{K: "id", V: t.ID}, log.KV{K: "rating", V: t.Rating})
			continue
		}
		out = append(out, t)
	}
	return out
}

// Testimonials returns a copy of the merged sequence.
func (f *TestimonialFlow) Testimonials() []domain.Testimonial {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Testimonial(nil), f.merged...)
}

// Len returns the length of the merged sequence; it is never zero.
func (f *TestimonialFlow) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.merged)
}

// Index returns the carousel position.
func (f *TestimonialFlow) Index() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.index
}

// Current returns the testimonial at the carousel position.
func (f *TestimonialFlow) Current() domain.Testimonial {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.merged[f.index]
}

// Next advances the carousel, wrapping to the start.
func (f *TestimonialFlow) Next() int {
	return f.move(func(i, n int) int { return (i + 1) % n })
}

// Previous moves the carousel back, wrapping to the end.
func (f *TestimonialFlow) Previous() int {
	return f.move(func(i, n int) int { return (i - 1 + n) % n })
}

// JumpTo sets the carousel position. i must index the merged sequence.
func (f *TestimonialFlow) JumpTo(i int) {
	f.mu.Lock()
	if i < 0 || i >= len(f.merged) {
		n := len(f.merged)
		f.mu.Unlock()
		panic(fmt.Sprintf("flow: testimonial index %d out of range [0,%d)", i, n))
	}
	f.index = i
	f.mu.Unlock()
	f.changed()
}

func (f *TestimonialFlow) move(step func(i, n int) int) int {
	f.mu.Lock()
	f.index = step(f.index, len(f.merged))
	i := f.index
	f.mu.Unlock()
	f.changed()
	return i
}

// OpenForm shows the review form.
func (f *TestimonialFlow) OpenForm() {
	f.setOpen(true)
}

// CloseForm hides the review form without clearing it.
func (f *TestimonialFlow) CloseForm() {
	f.setOpen(false)
}

// FormOpen reports whether the review form is shown.
func (f *TestimonialFlow) FormOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.formOpen
}

func (f *TestimonialFlow) setOpen(open bool) {
	f.mu.Lock()
	f.formOpen = open
	f.mu.Unlock()
	f.changed()
}

// Form returns a copy of the review form.
func (f *TestimonialFlow) Form() domain.TestimonialSubmission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.form
}

// UpdateField sets a text field of the review form by its wire name.
func (f *TestimonialFlow) UpdateField(name, value string) error {
	var setter func(*domain.TestimonialSubmission)
	switch name {
	case "client_name":
		setter = func(t *domain.TestimonialSubmission) { t.ClientName = value }
	case "review":
		setter = func(t *domain.TestimonialSubmission) { t.Review = value }
	case "event_type":
		setter = func(t *domain.TestimonialSubmission) { t.EventType = strings.TrimSpace(value) }
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	f.mu.Lock()
	setter(&f.form)
	f.mu.Unlock()
	f.changed()
	return nil
}

// SetRating sets the star rating; values outside 1..5 are rejected.
func (f *TestimonialFlow) SetRating(r int) error {
	if !validation.ValidRating(r) {
		return apperrors.InvalidField("rating", "must be between 1 and 5")
	}
	f.mu.Lock()
	f.form.Rating = r
	f.mu.Unlock()
	f.changed()
	return nil
}

// Submit validates the review and posts it to the testimonials resource.
// On success the form is reset and closed; the review is not added to the
// carousel because it awaits approval.
func (f *TestimonialFlow) Submit(ctx context.Context) (Notification, error) {
	var snapshot domain.TestimonialSubmission
	if err := f.begin(func() { snapshot = f.form }); err != nil {
		return Notification{}, err
	}

	if err := validation.Testimonial(snapshot); err != nil {
		return f.finish(invalid(err), nil), nil
	}

	if _, err := f.client.Submit(ctx, client.ResourceTestimonials, snapshot); err != nil {
		log.Error(ctx, err, log.KV{K: "svc", V: "testimonial"}, log.KV{K: "code", V: string(apperrors.CodeOf(err))})
		return f.finish(Notification{Outcome: Failed, Message: MsgTestimonialFailed, Err: err}, nil), nil
	}

	log.Info(ctx, log.KV{K: "svc", V: "testimonial"}, log.KV{K: "msg", V: "review submitted"})
	return f.finish(Notification{Outcome: Succeeded, Message: MsgTestimonialReceived}, func() {
		f.form = domain.NewTestimonialSubmission()
		f.formOpen = false
	}), nil
}
