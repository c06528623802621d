package flow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"goa.design/clue/log"

	"palaksingh/internal/client"
	"palaksingh/internal/domain"
	"palaksingh/internal/validation"
	apperrors "palaksingh/pkg/errors"
)

// BookingFlow owns one booking enquiry form.
type BookingFlow struct {
	machine
	client Submitter
	now    func() time.Time
	form   domain.BookingEnquiry
	date   time.Time
}

// NewBookingFlow returns an idle flow with an empty form.
func NewBookingFlow(c Submitter, opts ...Option) *BookingFlow {
	o := newOptions(opts)
	return &BookingFlow{client: c, now: o.now}
}

// UpdateField sets one form field by its wire name. Event types are
// normalised to their labels; event dates go through SelectDate.
func (f *BookingFlow) UpdateField(name, value string) error {
	switch name {
	case "event_date":
		if strings.TrimSpace(value) == "" {
			f.ClearDate()
			return nil
		}
		d, err := validation.ParseDate(value)
		if err != nil {
			return apperrors.InvalidField("event_date", "must be a date in YYYY-MM-DD form")
		}
		return f.SelectDate(d)
	case "event_type":
		var et domain.EventType
		if strings.TrimSpace(value) != "" {
			parsed, err := domain.ParseEventType(value)
			if err != nil {
				return apperrors.Wrap(apperrors.ErrCodeInvalidField, "event_type is not offered", err)
			}
			et = parsed
		}
		f.set(func(b *domain.BookingEnquiry) { b.EventType = et })
		return nil
	}

	var setter func(*domain.BookingEnquiry)
	switch name {
	case "name":
		setter = func(b *domain.BookingEnquiry) { b.Name = value }
	case "phone":
		setter = func(b *domain.BookingEnquiry) { b.Phone = value }
	case "email":
		setter = func(b *domain.BookingEnquiry) { b.Email = value }
	case "city":
		setter = func(b *domain.BookingEnquiry) { b.City = value }
	case "message":
		setter = func(b *domain.BookingEnquiry) { b.Message = value }
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	f.set(setter)
	return nil
}

// SelectDate sets the event date. Dates before today are rejected.
func (f *BookingFlow) SelectDate(d time.Time) error {
	day := validation.Day(d)
	if day.Before(validation.Day(f.now())) {
		return apperrors.InvalidField("event_date", "must not be in the past")
	}
	f.mu.Lock()
	f.date = day
	f.form.EventDate = day.Format(domain.DateLayout)
	f.mu.Unlock()
	f.changed()
	return nil
}

// ClearDate removes the selected event date.
func (f *BookingFlow) ClearDate() {
	f.mu.Lock()
	f.date = time.Time{}
	f.form.EventDate = ""
	f.mu.Unlock()
	f.changed()
}

// Form returns a copy of the current form.
func (f *BookingFlow) Form() domain.BookingEnquiry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.form
}

// SelectedDate returns the selected event date, if any.
func (f *BookingFlow) SelectedDate() (time.Time, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.date, !f.date.IsZero()
}

// Submit validates the form and posts it to the bookings resource. The
// form is cleared on success and kept on failure. A call made while
// another is in flight returns ErrSubmitInFlight without a request.
func (f *BookingFlow) Submit(ctx context.Context) (Notification, error) {
	var snapshot domain.BookingEnquiry
	if err := f.begin(func() { snapshot = f.form }); err != nil {
		return Notification{}, err
	}

	if err := validation.Booking(snapshot, f.now()); err != nil {
		return f.finish(invalid(err), nil), nil
	}

	if _, err := f.client.Submit(ctx, client.ResourceBookings, snapshot); err != nil {
		log.Error(ctx, err, log.KV{K: "svc", V: "booking"}, log.KV{K: "code", V: string(apperrors.CodeOf(err))})
		return f.finish(Notification{Outcome: Failed, Message: MsgBookingFailed, Err: err}, nil), nil
	}

	log.Info(ctx, log.KV{K: "svc", V: "booking"}, log.KV{K: "msg", V: "enquiry submitted"})
	return f.finish(Notification{Outcome: Succeeded, Message: MsgBookingReceived}, func() {
		f.form = domain.BookingEnquiry{}
		f.date = time.Time{}
	}), nil
}

func (f *BookingFlow) set(fn func(*domain.BookingEnquiry)) {
	f.mu.Lock()
	fn(&f.form)
	f.mu.Unlock()
	f.changed()
}
