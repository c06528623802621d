package services

import (
	"context"

	"goa.design/clue/log"

	"palaksingh/internal/config"
	"palaksingh/internal/domain"
	"palaksingh/internal/metrics"
)

// Notifier tells the artist about a new booking. Implementations handle
// their own failures.
type Notifier interface {
	NotifyBooking(ctx context.Context, b domain.Booking)
}

// BookingNotifier sends booking notifications by email and SMS.
type BookingNotifier struct {
	cfg   *config.NotifyConfig
	email *EmailService
	sms   *SMSService
}

// NewBookingNotifier creates a notifier; either channel may be nil.
func NewBookingNotifier(cfg *config.NotifyConfig, email *EmailService, sms *SMSService) *BookingNotifier {
	return &BookingNotifier{cfg: cfg, email: email, sms: sms}
}

// NotifyBooking sends on every configured channel. Failures are logged
// and counted.
func (n *BookingNotifier) NotifyBooking(ctx context.Context, b domain.Booking) {
	if n.email != nil && n.cfg.Email != "" {
		err := n.email.SendBookingNotification(ctx, n.cfg.Email, b)
		n.record(ctx, "email", b.ID, err)
	}
	if n.sms != nil && n.cfg.Phone != "" {
		err := n.sms.SendBookingNotification(ctx, n.cfg.Phone, b)
		n.record(ctx, "sms", b.ID, err)
	}
}

func (n *BookingNotifier) record(ctx context.Context, channel, id string, err error) {
	metrics.RecordNotification(channel, err)
	if err != nil {
		log.Error(ctx, err, log.KV{K: "svc", V: "notify"}, log.KV{K: "channel", V: channel}, log.KV{K: "booking", V: id})
		return
	}
	log.Debug(ctx, log.KV{K: "svc", V: "notify"}, log.KV{K: "channel", V: channel}, log.KV{K: "booking", V: id}, log.KV{K: "msg", V: "sent"})
}
