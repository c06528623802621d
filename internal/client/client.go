// Package client submits booking enquiries and testimonials to the backend
// API and fetches approved testimonials from it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"goa.design/clue/log"

	"palaksingh/internal/domain"
	"palaksingh/internal/validation"
	apperrors "palaksingh/pkg/errors"
)

const (
	// DefaultTimeout bounds every request made by the client.
	DefaultTimeout = 10 * time.Second

	ResourceBookings             = "bookings"
	ResourceTestimonials         = "testimonials"
	ResourceApprovedTestimonials = "testimonials/approved"

	maxErrorBody = 512
)

// Ack is the acknowledgement of an accepted submission.
type Ack struct {
	StatusCode int
}

// Client talks to the backend rooted at a fixed base URL.
type Client struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
	now     func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sends requests through a copy of hc. The copy's timeout is
// the client's timeout, so hc itself is never modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		cp := *hc
		c.http = &cp
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithClock sets the clock used for pre-flight date checks.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New returns a client for the backend at baseURL, which must be an absolute
// http or https URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := ParseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		base:    base,
		timeout: DefaultTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Transport: log.Client(http.DefaultTransport)}
	}
	c.http.Timeout = c.timeout
	return c, nil
}

// ParseBaseURL validates a backend base URL.
func ParseBaseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("backend base URL is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse backend base URL: %w", err)
	}
	if !u.IsAbs() || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("backend base URL %q must be an absolute http(s) URL", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Endpoint returns the URL of an API resource.
func (c *Client) Endpoint(resource string) string {
	u := *c.base
	u.Path = c.base.Path + "/api/" + strings.TrimLeft(resource, "/")
	return u.String()
}

// Submit posts record as JSON to the resource. Any 2xx status is success.
// A request that gets no response fails with a network error; a non-2xx
// response fails with a server error.
func (c *Client) Submit(ctx context.Context, resource string, record any) (*Ack, error) {
	body, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode %s record: %w", resource, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(resource), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", resource, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return &Ack{StatusCode: resp.StatusCode}, nil
}

// FetchApproved gets the list of testimonials published at resource.
func (c *Client) FetchApproved(ctx context.Context, resource string) ([]domain.Testimonial, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint(resource), nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", resource, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var records []domain.Testimonial
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		e := apperrors.Server(resp.StatusCode, "undecodable testimonial list")
		e.Err = err
		return nil, e
	}
	return records, nil
}

// SubmitBooking validates an enquiry and posts it to the bookings resource.
func (c *Client) SubmitBooking(ctx context.Context, b domain.BookingEnquiry) (*Ack, error) {
	if err := validation.Booking(b, c.now()); err != nil {
		return nil, err
	}
	return c.Submit(ctx, ResourceBookings, b)
}

// SubmitTestimonial validates a review and posts it to the testimonials
// resource.
func (c *Client) SubmitTestimonial(ctx context.Context, t domain.TestimonialSubmission) (*Ack, error) {
	if err := validation.Testimonial(t); err != nil {
		return nil, err
	}
	return c.Submit(ctx, ResourceTestimonials, t)
}

// do sends req once. The response body is left open only on 2xx.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.Network(fmt.Sprintf("%s %s: no response", req.Method, req.URL.Path), err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := strings.TrimSpace(string(snippet))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, apperrors.Server(resp.StatusCode, fmt.Sprintf("%s %s: %s", req.Method, req.URL.Path, msg))
	}
	return resp, nil
}
