// Package validation checks booking and testimonial forms before they are
// sent anywhere. Every function is pure.
package validation

import (
	"strings"
	"time"

	"palaksingh/internal/domain"
	apperrors "palaksingh/pkg/errors"
)

// Booking reports the required fields of b that are empty. When all are
// present, the event date must be a calendar date no earlier than today.
// The message is never checked.
func Booking(b domain.BookingEnquiry, today time.Time) error {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"name", b.Name},
		{"phone", b.Phone},
		{"email", b.Email},
		{"event_type", string(b.EventType)},
		{"event_date", b.EventDate},
		{"city", b.City},
	} {
		if blank(f.value) {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return apperrors.MissingFields(missing...)
	}

	date, err := ParseDate(b.EventDate)
	if err != nil {
		return apperrors.InvalidField("event_date", "must be a date in YYYY-MM-DD form")
	}
	if date.Before(Day(today)) {
		return apperrors.InvalidField("event_date", "must not be in the past")
	}
	return nil
}

// Testimonial reports a missing name or review, or a rating outside 1..5.
func Testimonial(t domain.TestimonialSubmission) error {
	var missing []string
	if blank(t.ClientName) {
		missing = append(missing, "client_name")
	}
	if blank(t.Review) {
		missing = append(missing, "review")
	}
	if len(missing) > 0 {
		return apperrors.MissingFields(missing...)
	}
	if !ValidRating(t.Rating) {
		return apperrors.InvalidField("rating", "must be between 1 and 5")
	}
	return nil
}

// ValidRating reports whether r is an acceptable star rating.
func ValidRating(r int) bool {
	return r >= domain.MinRating && r <= domain.MaxRating
}

// ParseDate parses a YYYY-MM-DD event date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(domain.DateLayout, strings.TrimSpace(s))
}

// Day truncates t to its calendar date in t's location, expressed as
// midnight UTC so it compares with ParseDate results.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
