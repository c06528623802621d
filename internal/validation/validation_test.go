package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"palaksingh/internal/domain"
	apperrors "palaksingh/pkg/errors"
)

var today = time.Date(2025, 11, 20, 18, 30, 0, 0, time.UTC)

func validBooking() domain.BookingEnquiry {
	return domain.BookingEnquiry{
		Name:      "Priya",
		Phone:     "9999999999",
		Email:     "p@x.com",
		EventType: domain.EventBridal,
		EventDate: "2025-12-01",
		City:      "Mumbai",
	}
}

func TestBookingAccepted(t *testing.T) {
	assert.NoError(t, Booking(validBooking(), today))
}

func TestBookingAcceptsToday(t *testing.T) {
	b := validBooking()
	b.EventDate = "2025-11-20"
	assert.NoError(t, Booking(b, today))
}

func TestBookingMissingEachRequiredField(t *testing.T) {
	clear := map[string]func(*domain.BookingEnquiry){
		"name":       func(b *domain.BookingEnquiry) { b.Name = "" },
		"phone":      func(b *domain.BookingEnquiry) { b.Phone = "" },
		"email":      func(b *domain.BookingEnquiry) { b.Email = "   " },
		"event_type": func(b *domain.BookingEnquiry) { b.EventType = "" },
		"event_date": func(b *domain.BookingEnquiry) { b.EventDate = "" },
		"city":       func(b *domain.BookingEnquiry) { b.City = "\t" },
	}
	for field, fn := range clear {
		t.Run(field, func(t *testing.T) {
			b := validBooking()
			fn(&b)

			err := Booking(b, today)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))

			appErr, _ := apperrors.As(err)
			assert.Equal(t, []string{field}, appErr.Fields)
		})
	}
}

func TestBookingListsAllMissingFields(t *testing.T) {
	err := Booking(domain.BookingEnquiry{Message: "hello"}, today)

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, []string{"name", "phone", "email", "event_type", "event_date", "city"}, appErr.Fields)
}

func TestBookingIgnoresMessageAndFormat(t *testing.T) {
	b := validBooking()
	b.Email = "not-an-email"
	b.Phone = "call me"
	b.Message = ""
	assert.NoError(t, Booking(b, today))
}

func TestBookingRejectsPastOrMalformedDate(t *testing.T) {
	for _, date := range []string{"2025-11-19", "01/12/2025", "2025-13-01"} {
		t.Run(date, func(t *testing.T) {
			b := validBooking()
			b.EventDate = date

			err := Booking(b, today)
			require.Error(t, err)
			appErr, _ := apperrors.As(err)
			assert.Equal(t, apperrors.ErrCodeInvalidField, appErr.Code)
			assert.Equal(t, []string{"event_date"}, appErr.Fields)
		})
	}
}

func TestTestimonial(t *testing.T) {
	ok := domain.TestimonialSubmission{ClientName: "Meera", Rating: 5, Review: "Flawless"}
	assert.NoError(t, Testimonial(ok))

	noName := ok
	noName.ClientName = " "
	appErr, _ := apperrors.As(Testimonial(noName))
	require.NotNil(t, appErr)
	assert.Equal(t, []string{"client_name"}, appErr.Fields)

	appErr, _ = apperrors.As(Testimonial(domain.TestimonialSubmission{Rating: 5}))
	require.NotNil(t, appErr)
	assert.Equal(t, []string{"client_name", "review"}, appErr.Fields)
}

func TestTestimonialRatingRange(t *testing.T) {
	for _, r := range []int{0, 6, -1} {
		err := Testimonial(domain.TestimonialSubmission{ClientName: "A", Review: "B", Rating: r})
		appErr, ok := apperrors.As(err)
		require.True(t, ok, "rating %d", r)
		assert.Equal(t, apperrors.ErrCodeInvalidField, appErr.Code)
		assert.Equal(t, []string{"rating"}, appErr.Fields)
	}
	for r := 1; r <= 5; r++ {
		assert.NoError(t, Testimonial(domain.TestimonialSubmission{ClientName: "A", Review: "B", Rating: r}))
	}
}

func TestDayUsesLocalCalendarDate(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	late := time.Date(2025, 11, 20, 23, 45, 0, 0, ist)
	assert.Equal(t, time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC), Day(late))
}
