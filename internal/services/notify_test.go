package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"palaksingh/internal/config"
	"palaksingh/internal/domain"
)

func testBooking() domain.Booking {
	e := validEnquiry()
	e.EventType = domain.EventBridal
	e.Message = "<b>two looks</b>"
	return *domain.NewBooking(e, now)
}

func TestEmailBookingNotification(t *testing.T) {
	var gotAddr string
	var gotTo []string
	var gotMsg string
	svc := NewEmailService(&config.EmailConfig{
		Enabled:   true,
		SMTPHost:  "smtp.example.com",
		SMTPPort:  587,
		Username:  "user",
		Password:  "pass",
		FromEmail: "noreply@palaksingh.com",
		FromName:  "Palak Singh Makeup",
	})
	svc.sendMail = func(addr string, _ smtp.Auth, _ string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		return nil
	}

	require.NoError(t, svc.SendBookingNotification(context.Background(), "hello@palaksingh.com", testBooking()))

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"hello@palaksingh.com"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: New Bridal Makeup enquiry from Asha Verma")
	assert.Contains(t, gotMsg, "From: Palak Singh Makeup <noreply@palaksingh.com>")
	assert.Contains(t, gotMsg, "&lt;b&gt;two looks&lt;/b&gt;")
	assert.Contains(t, gotMsg, "Event date: 2026-02-14")
}

func TestEmailDisabledSendsNothing(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{Enabled: false})
	svc.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("disabled email must not send")
		return nil
	}
	assert.NoError(t, svc.SendBookingNotification(context.Background(), "a@b.c", testBooking()))
}

func TestSMSViaTwilio(t *testing.T) {
	var form map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "AC123", user)
		assert.Equal(t, "secret", pass)
		assert.NoError(t, r.ParseForm())
		form = map[string]string{"From": r.PostForm.Get("From"), "To": r.PostForm.Get("To"), "Body": r.PostForm.Get("Body")}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	svc := NewSMSService(&config.SMSConfig{
		Enabled:       true,
		Provider:      "twilio",
		TwilioSID:     "AC123",
		TwilioAuth:    "secret",
		TwilioFrom:    "+15005550006",
		TwilioBaseURL: srv.URL,
	})

	require.NoError(t, svc.SendBookingNotification(context.Background(), "91428 71157", testBooking()))
	assert.Equal(t, "+15005550006", form["From"])
	assert.Equal(t, "+919142871157", form["To"])
	assert.True(t, strings.HasPrefix(form["Body"], "New enquiry: Asha Verma"))
}

func TestSMSTwilioError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":21211,"message":"invalid To"}`))
	}))
	defer srv.Close()

	svc := NewSMSService(&config.SMSConfig{
		Enabled: true, Provider: "twilio",
		TwilioSID: "AC123", TwilioAuth: "secret", TwilioFrom: "+1", TwilioBaseURL: srv.URL,
	})
	err := svc.Send(context.Background(), "+15005550001", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "+919142871157", normalizePhone("91428 71157"))
	assert.Equal(t, "+919142871157", normalizePhone("09142871157"))
	assert.Equal(t, "+919142871157", normalizePhone("+91 91428 71157"))
	assert.Equal(t, "+15005550006", normalizePhone("+1 (500) 555-0006"))
}

func TestBookingNotifierUsesBothChannels(t *testing.T) {
	var emailed, texted bool
	email := NewEmailService(&config.EmailConfig{Enabled: true, SMTPHost: "h", SMTPPort: 25, Username: "u", Password: "p"})
	email.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		emailed = true
		return nil
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		texted = true
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()
	sms := NewSMSService(&config.SMSConfig{
		Enabled: true, Provider: "twilio",
		TwilioSID: "AC1", TwilioAuth: "x", TwilioFrom: "+1", TwilioBaseURL: srv.URL,
	})

	n := NewBookingNotifier(&config.NotifyConfig{Email: "hello@palaksingh.com", Phone: "+919142871157"}, email, sms)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	n.NotifyBooking(ctx, testBooking())

	assert.True(t, emailed)
	assert.True(t, texted)
}
