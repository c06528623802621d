package flow

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"palaksingh/internal/client"
	"palaksingh/internal/domain"
	apperrors "palaksingh/pkg/errors"
)

var fixedNow = time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func fillBooking(t *testing.T, f *BookingFlow) {
	t.Helper()
	for name, value := range map[string]string{
		"name":       "Priya",
		"phone":      "9999999999",
		"email":      "p@x.com",
		"event_type": "Bridal Makeup",
		"event_date": "2025-12-01",
		"city":       "Mumbai",
		"message":    "",
	} {
		require.NoError(t, f.UpdateField(name, value))
	}
}

func TestBookingSubmitSuccessClearsForm(t *testing.T) {
	c := new(mockClient)
	f := NewBookingFlow(c, WithClock(clock))
	fillBooking(t, f)
	sent := f.Form()

	c.On("Submit", mock.Anything, client.ResourceBookings, sent).Return(&client.Ack{StatusCode: 200}, nil).Once()

	n, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Succeeded, n.Outcome)
	assert.Equal(t, MsgBookingReceived, n.Message)

	assert.Equal(t, Idle, f.State())
	assert.Equal(t, domain.BookingEnquiry{}, f.Form())
	_, selected := f.SelectedDate()
	assert.False(t, selected)
	c.AssertExpectations(t)
}

func TestBookingSubmitFailureKeepsForm(t *testing.T) {
	for name, failure := range map[string]error{
		"network": apperrors.Network("no response", errors.New("dial tcp: refused")),
		"server":  apperrors.Server(500, "boom"),
	} {
		t.Run(name, func(t *testing.T) {
			c := new(mockClient)
			f := NewBookingFlow(c, WithClock(clock))
			fillBooking(t, f)
			before := f.Form()

			c.On("Submit", mock.Anything, client.ResourceBookings, before).Return(nil, failure).Once()

			n, err := f.Submit(context.Background())
			require.NoError(t, err)
			assert.Equal(t, Failed, n.Outcome)
			assert.Equal(t, MsgBookingFailed, n.Message)
			assert.ErrorIs(t, n.Err, failure)

			assert.Equal(t, Idle, f.State())
			assert.Equal(t, before, f.Form())
			date, selected := f.SelectedDate()
			assert.True(t, selected)
			assert.Equal(t, "2025-12-01", date.Format(domain.DateLayout))
			c.AssertExpectations(t)
		})
	}
}

func TestBookingSubmitMissingFieldsMakesNoCall(t *testing.T) {
	required := []string{"name", "phone", "email", "event_type", "event_date", "city"}
	for _, field := range required {
		t.Run(field, func(t *testing.T) {
			c := new(mockClient)
			f := NewBookingFlow(c, WithClock(clock))
			fillBooking(t, f)
			require.NoError(t, f.UpdateField(field, ""))

			n, err := f.Submit(context.Background())
			require.NoError(t, err)
			assert.Equal(t, Invalid, n.Outcome)
			assert.Equal(t, MsgMissingFields, n.Message)
			assert.True(t, apperrors.IsMissingFields(n.Err))
			assert.Equal(t, Idle, f.State())
			c.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestBookingDoubleSubmitIssuesOneRequest(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	c := new(mockClient)
	c.On("Submit", mock.Anything, client.ResourceBookings, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(&client.Ack{StatusCode: 201}, nil).Once()

	f := NewBookingFlow(c, WithClock(clock))
	fillBooking(t, f)

	done := make(chan Notification)
	go func() {
		n, err := f.Submit(context.Background())
		assert.NoError(t, err)
		done <- n
	}()

	<-started
	assert.Equal(t, Submitting, f.State())
	_, err := f.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	close(release)
	n := <-done
	assert.Equal(t, Succeeded, n.Outcome)
	c.AssertNumberOfCalls(t, "Submit", 1)
}

func TestBookingEditsDuringSubmitDoNotChangeSnapshot(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	c := new(mockClient)
	f := NewBookingFlow(c, WithClock(clock))
	fillBooking(t, f)
	sent := f.Form()

	c.On("Submit", mock.Anything, client.ResourceBookings, sent).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(nil, apperrors.Server(502, "bad gateway")).Once()

	done := make(chan struct{})
	go func() {
		_, _ = f.Submit(context.Background())
		close(done)
	}()

	<-started
	require.NoError(t, f.UpdateField("city", "Pune"))
	close(release)
	<-done

	assert.Equal(t, "Pune", f.Form().City)
	c.AssertExpectations(t)
}

func TestBookingSelectDateRejectsPast(t *testing.T) {
	f := NewBookingFlow(new(mockClient), WithClock(clock))

	err := f.SelectDate(fixedNow.AddDate(0, 0, -1))
	assert.True(t, apperrors.IsValidation(err))
	_, selected := f.SelectedDate()
	assert.False(t, selected)

	require.NoError(t, f.SelectDate(fixedNow))
	assert.Equal(t, "2025-11-20", f.Form().EventDate)

	assert.Error(t, f.UpdateField("event_date", "2025-11-19"))
	assert.Error(t, f.UpdateField("event_date", "next friday"))
	assert.Equal(t, "2025-11-20", f.Form().EventDate)
}

func TestBookingUpdateField(t *testing.T) {
	f := NewBookingFlow(new(mockClient), WithClock(clock))

	require.NoError(t, f.UpdateField("event_type", "reception"))
	assert.Equal(t, domain.EventReception, f.Form().EventType)

	assert.Error(t, f.UpdateField("event_type", "funeral"))
	assert.ErrorIs(t, f.UpdateField("budget", "lots"), ErrUnknownField)
}

func TestBookingNotificationIsOneShot(t *testing.T) {
	f := NewBookingFlow(new(mockClient), WithClock(clock))

	_, err := f.Submit(context.Background())
	require.NoError(t, err)

	n, ok := f.Notification()
	require.True(t, ok)
	assert.Equal(t, Invalid, n.Outcome)

	_, ok = f.Notification()
	assert.False(t, ok)
}

func TestBookingSubscribersSeeTransitions(t *testing.T) {
	c := new(mockClient)
	c.On("Submit", mock.Anything, mock.Anything, mock.Anything).Return(&client.Ack{StatusCode: 200}, nil)

	f := NewBookingFlow(c, WithClock(clock))
	fillBooking(t, f)

	var events []Event
	f.Subscribe(func(e Event) { events = append(events, e) })

	_, err := f.Submit(context.Background())
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, Submitting, events[0].State)
	assert.Nil(t, events[0].Notification)
	assert.Equal(t, Idle, events[1].State)
	require.NotNil(t, events[1].Notification)
	assert.Equal(t, Succeeded, events[1].Notification.Outcome)
}

func TestBookingAgainstHTTPBackend(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/api/bookings", r.URL.Path)
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := client.New(srv.URL)
	require.NoError(t, err)

	f := NewBookingFlow(c, WithClock(clock))
	fillBooking(t, f)

	n, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Succeeded, n.Outcome)
	assert.Equal(t, Idle, f.State())
	assert.Equal(t, domain.BookingEnquiry{}, f.Form())
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}
