// Package flow drives the booking and testimonial forms: it owns their
// field state, validates and submits them, and reports the outcome to a
// display surface that subscribes to changes.
package flow

import (
	"context"
	"errors"
	"sync"
	"time"

	"palaksingh/internal/client"
	"palaksingh/internal/domain"
	apperrors "palaksingh/pkg/errors"
)

// State is the submission state of a flow.
type State int

const (
	Idle State = iota
	Submitting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// Outcome classifies a finished submission.
type Outcome int

const (
	// Succeeded means the backend accepted the record.
	Succeeded Outcome = iota + 1
	// Failed means the request got no response or was rejected.
	Failed
	// Invalid means validation stopped the record before any request.
	Invalid
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "success"
	case Failed:
		return "failure"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// User-facing notification messages.
const (
	MsgMissingFields       = "Please fill in all required fields"
	MsgBookingReceived     = "Thank you for your enquiry! We'll get back to you within 24 hours."
	MsgBookingFailed       = "Failed to submit enquiry. Please try again or contact us directly."
	MsgTestimonialReceived = "Thank you for your review! It will be displayed after approval."
	MsgTestimonialFailed   = "Failed to submit review. Please try again."
)

// ErrSubmitInFlight is returned by Submit when a submission is already
// running on the same flow. No request is made.
var ErrSubmitInFlight = errors.New("submission already in flight")

// ErrUnknownField is returned by UpdateField for names the form lacks.
var ErrUnknownField = errors.New("unknown form field")

// Notification is the one-shot result of a submission.
type Notification struct {
	Outcome Outcome
	Message string
	// Err is the underlying validation, network or server error.
	Err error
}

// Event is delivered to subscribers on every state change.
type Event struct {
	State State
	// Notification is set when a submission finished.
	Notification *Notification
}

// Submitter posts a record to a backend resource.
type Submitter interface {
	Submit(ctx context.Context, resource string, record any) (*client.Ack, error)
}

// ApprovedFetcher lists published testimonials.
type ApprovedFetcher interface {
	FetchApproved(ctx context.Context, resource string) ([]domain.Testimonial, error)
}

// Option configures a flow.
type Option func(*options)

type options struct {
	now   func() time.Time
	seeds []domain.Testimonial
}

// WithClock sets the clock used for "today" in date checks.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithSeeds replaces the seeded testimonials. An empty list keeps the
// defaults so the carousel is never empty.
func WithSeeds(seeds []domain.Testimonial) Option {
	return func(o *options) {
		if len(seeds) > 0 {
			o.seeds = append([]domain.Testimonial(nil), seeds...)
		}
	}
}

func newOptions(opts []Option) options {
	o := options{now: time.Now, seeds: DefaultTestimonials()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// machine holds the state shared by both flows.
type machine struct {
	mu        sync.Mutex
	state     State
	last      *Notification
	listeners []func(Event)
}

// State returns the current submission state.
func (m *machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Notification returns the latest submission result once; later calls
// report false until another submission finishes.
func (m *machine) Notification() (Notification, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.last == nil {
		return Notification{}, false
	}
	n := *m.last
	m.last = nil
	return n, true
}

// Subscribe registers fn for state changes. fn runs on the goroutine that
// caused the change, outside the flow's lock.
func (m *machine) Subscribe(fn func(Event)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// begin moves Idle to Submitting and runs snapshot under the lock.
func (m *machine) begin(snapshot func()) error {
	m.mu.Lock()
	if m.state == Submitting {
		m.mu.Unlock()
		return ErrSubmitInFlight
	}
	m.state = Submitting
	snapshot()
	ls := m.listenersLocked()
	m.mu.Unlock()

	emit(ls, Event{State: Submitting})
	return nil
}

// finish returns to Idle with n recorded, running apply under the lock.
func (m *machine) finish(n Notification, apply func()) Notification {
	m.mu.Lock()
	if apply != nil {
		apply()
	}
	m.state = Idle
	m.last = &n
	ls := m.listenersLocked()
	m.mu.Unlock()

	emit(ls, Event{State: Idle, Notification: &n})
	return n
}

// changed notifies subscribers of a change that did not alter State.
func (m *machine) changed() {
	m.mu.Lock()
	e := Event{State: m.state}
	ls := m.listenersLocked()
	m.mu.Unlock()
	emit(ls, e)
}

func (m *machine) listenersLocked() []func(Event) {
	return append(([]func(Event))(nil), m.listeners...)
}

func emit(ls []func(Event), e Event) {
	for _, fn := range ls {
		fn(e)
	}
}

// invalid builds the notification for a record rejected by validation.
func invalid(err error) Notification {
	msg := MsgMissingFields
	if !apperrors.IsMissingFields(err) {
		if appErr, ok := apperrors.As(err); ok {
			msg = "Please check your entries: " + appErr.Message
		}
	}
	return Notification{Outcome: Invalid, Message: msg, Err: err}
}
