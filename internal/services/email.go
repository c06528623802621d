package services

import (
	"context"
	"fmt"
	"html"
	"net/smtp"
	"strings"
	"time"

	"goa.design/clue/log"

	"palaksingh/internal/config"
	"palaksingh/internal/domain"
)

// sendMailFunc matches smtp.SendMail
type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailService handles sending emails
type EmailService struct {
	cfg      *config.EmailConfig
	sendMail sendMailFunc
}

// NewEmailService creates a new email service
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg, sendMail: smtp.SendMail}
}

// SendBookingNotification emails the details of a new booking to the artist.
func (s *EmailService) SendBookingNotification(ctx context.Context, to string, b domain.Booking) error {
	subject := fmt.Sprintf("New %s enquiry from %s", b.EventType, b.Name)
	return s.SendHTMLEmail(ctx, to, subject, bookingEmailHTML(b), bookingEmailText(b))
}

func bookingEmailText(b domain.Booking) string {
	msg := b.Message
	if msg == "" {
		msg = "-"
	}
	return fmt.Sprintf(`New booking enquiry

Name:       %s
Phone:      %s
Email:      %s
Event:      %s
Event date: %s
City:       %s

Message:
%s

Received %s
`, b.Name, b.Phone, b.Email, b.EventType, b.EventDate, b.City, msg, b.CreatedAt.Format(time.RFC1123))
}

func bookingEmailHTML(b domain.Booking) string {
	rows := [][2]string{
		{"Name", b.Name},
		{"Phone", b.Phone},
		{"Email", b.Email},
		{"Event", b.EventType.String()},
		{"Event date", b.EventDate},
		{"City", b.City},
		{"Message", b.Message},
	}
	var table strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&table,
			`<tr><td style="padding: 8px 16px 8px 0; color: #8A6F5C; font-weight: 600; vertical-align: top;">%s</td><td style="padding: 8px 0; color: #2B2118;">%s</td></tr>`,
			r[0], strings.ReplaceAll(html.EscapeString(r[1]), "\n", "<br>"))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>New booking enquiry</title>
</head>
<body style="margin: 0; padding: 0; background-color: #FAF6F2; font-family: Georgia, 'Times New Roman', serif;">
    <table role="presentation" cellspacing="0" cellpadding="0" border="0" width="100%%">
        <tr>
            <td style="padding: 40px 20px;">
                <table role="presentation" cellspacing="0" cellpadding="0" border="0" width="600" style="margin: 0 auto; background-color: #FFFFFF; border-radius: 12px;">
                    <tr>
                        <td style="padding: 32px 40px; background-color: #2B2118; color: #D4AF37; font-size: 22px; letter-spacing: 4px; text-align: center;">PALAK SINGH</td>
                    </tr>
                    <tr>
                        <td style="padding: 32px 40px;">
                            <h2 style="margin: 0 0 24px; font-size: 22px; color: #2B2118;">New booking enquiry</h2>
                            <table role="presentation" cellspacing="0" cellpadding="0" border="0">%s</table>
                            <p style="margin: 24px 0 0; font-size: 12px; color: #A0938A;">Received %s</p>
                        </td>
                    </tr>
                </table>
            </td>
        </tr>
    </table>
</body>
</html>`, table.String(), b.CreatedAt.Format(time.RFC1123))
}

// SendHTMLEmail sends an HTML email with plain text fallback
func (s *EmailService) SendHTMLEmail(ctx context.Context, to, subject, htmlBody, textBody string) error {
	if !s.cfg.Enabled {
		log.Info(ctx, log.KV{K: "svc", V: "notify"}, log.KV{K: "msg", V: "email disabled, not sent"},
			log.KV{K: "to", V: to}, log.KV{K: "subject", V: subject})
		return nil
	}

	// Validate configuration
	if s.cfg.SMTPHost == "" || s.cfg.Username == "" || s.cfg.Password == "" {
		return fmt.Errorf("email service not properly configured")
	}

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)

	from := s.cfg.FromEmail
	if s.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.FromEmail)
	}

	message := buildMessage(from, to, subject, htmlBody, textBody)

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	if err := s.sendMail(addr, auth, s.cfg.FromEmail, []string{to}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// buildMessage assembles a multipart/alternative message
func buildMessage(from, to, subject, htmlBody, textBody string) string {
	boundary := "----=_PalakSinghPart_0001"

	headers := fmt.Sprintf("From: %s\r\n", from) +
		fmt.Sprintf("To: %s\r\n", to) +
		fmt.Sprintf("Subject: %s\r\n", subject) +
		"MIME-Version: 1.0\r\n" +
		fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n", boundary) +
		"\r\n"

	message := headers +
		fmt.Sprintf("--%s\r\n", boundary) +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		textBody + "\r\n"

	if htmlBody != "" {
		message += fmt.Sprintf("--%s\r\n", boundary) +
			"Content-Type: text/html; charset=UTF-8\r\n" +
			"\r\n" +
			htmlBody + "\r\n"
	}

	return message + fmt.Sprintf("--%s--\r\n", boundary)
}

// IsEnabled returns whether email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.cfg.Enabled
}
