package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"palaksingh/internal/config"
	"palaksingh/internal/domain"
	"palaksingh/internal/store"
)

var now = time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)

func newStore(t *testing.T) store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), &config.DatabaseConfig{URL: "sqlite:///:memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

// chanNotifier forwards notified bookings to a channel.
type chanNotifier chan domain.Booking

func (c chanNotifier) NotifyBooking(_ context.Context, b domain.Booking) {
	c <- b
}

func validEnquiry() domain.BookingEnquiry {
	return domain.BookingEnquiry{
		Name:      "Asha Verma",
		Phone:     "+91 98765 43210",
		Email:     "asha@example.com",
		EventType: "bridal",
		EventDate: "2026-02-14",
		City:      "Patna",
		Message:   "Morning ceremony",
	}
}
