package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"goa.design/clue/log"

	"palaksingh/internal/config"
	"palaksingh/internal/domain"
)

// SMSService handles sending SMS messages
type SMSService struct {
	cfg  *config.SMSConfig
	http *http.Client
}

// NewSMSService creates a new SMS service
func NewSMSService(cfg *config.SMSConfig) *SMSService {
	return &SMSService{
		cfg:  cfg,
		http: &http.Client{Timeout: 10 * time.Second, Transport: log.Client(http.DefaultTransport)},
	}
}

// SendBookingNotification texts a one-line summary of a new booking.
func (s *SMSService) SendBookingNotification(ctx context.Context, to string, b domain.Booking) error {
	msg := fmt.Sprintf("New enquiry: %s, %s on %s in %s. Call %s",
		b.Name, b.EventType, b.EventDate, b.City, b.Phone)
	return s.Send(ctx, to, msg)
}

// Send delivers message through the configured provider
func (s *SMSService) Send(ctx context.Context, phoneNumber, message string) error {
	if !s.cfg.Enabled {
		log.Info(ctx, log.KV{K: "svc", V: "notify"}, log.KV{K: "msg", V: "sms disabled, not sent"}, log.KV{K: "to", V: phoneNumber})
		return nil
	}

	switch strings.ToLower(s.cfg.Provider) {
	case "twilio":
		return s.sendViaTwilio(ctx, phoneNumber, message)
	case "console", "dev", "development":
		log.Print(ctx, log.KV{K: "svc", V: "notify"}, log.KV{K: "sms_to", V: phoneNumber}, log.KV{K: "sms_body", V: message})
		return nil
	default:
		return fmt.Errorf("unsupported SMS provider: %s", s.cfg.Provider)
	}
}

// sendViaTwilio sends SMS via Twilio API
func (s *SMSService) sendViaTwilio(ctx context.Context, phoneNumber, message string) error {
	if s.cfg.TwilioSID == "" || s.cfg.TwilioAuth == "" || s.cfg.TwilioFrom == "" {
		return fmt.Errorf("Twilio not properly configured")
	}

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json",
		strings.TrimRight(s.cfg.TwilioBaseURL, "/"), url.PathEscape(s.cfg.TwilioSID))

	form := url.Values{}
	form.Set("From", s.cfg.TwilioFrom)
	form.Set("To", normalizePhone(phoneNumber))
	form.Set("Body", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(s.cfg.TwilioSID, s.cfg.TwilioAuth)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send SMS request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		var errorResp map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&errorResp)
		return fmt.Errorf("Twilio API error (status %d): %v", resp.StatusCode, errorResp)
	}
	return nil
}

// normalizePhone returns an E.164 number. Ten-digit numbers are taken to
// be Indian mobiles.
func normalizePhone(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	switch {
	case strings.HasPrefix(strings.TrimSpace(phone), "+"):
		return "+" + d
	case len(d) == 10:
		return "+91" + d
	case len(d) == 11 && strings.HasPrefix(d, "0"):
		return "+91" + d[1:]
	default:
		return "+" + d
	}
}

// IsEnabled returns whether SMS service is enabled
func (s *SMSService) IsEnabled() bool {
	return s.cfg.Enabled
}
