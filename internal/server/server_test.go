package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"goa.design/clue/log"

	"palaksingh/internal/client"
	"palaksingh/internal/config"
	"palaksingh/internal/domain"
	"palaksingh/internal/services"
	"palaksingh/internal/store"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "Palak Singh Makeup API", Port: "8000"},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"https://palaksingh.com"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS", "HEAD"},
			AllowedHeaders: []string{"Content-Type", "Accept", "X-Request-ID"},
			MaxAge:         86400,
		},
	}
}

type testServer struct {
	*httptest.Server
	testimonials *services.TestimonialService
}

func newTestServer(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()
	ctx := context.Background()
	st, err := store.Open(ctx, &config.DatabaseConfig{URL: "sqlite:///:memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close(ctx) })

	testimonials := services.NewTestimonialService(st, cfg.Testimonials.AutoApprove)
	srv := New(cfg,
		services.NewBookingService(st, nil),
		testimonials,
		services.NewHealthService(cfg.App.Name, st),
	)
	logCtx := log.Context(ctx, log.WithOutput(io.Discard))
	ts := httptest.NewServer(srv.Handler(logCtx))
	t.Cleanup(ts.Close)
	return &testServer{Server: ts, testimonials: testimonials}
}

func (ts *testServer) do(t *testing.T, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, ts.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf strings.Builder
	_, err = io.Copy(&buf, resp.Body)
	require.NoError(t, err)
	return resp, []byte(buf.String())
}

const bookingJSON = `{"name":"Asha","phone":"+91 98765 43210","email":"asha@example.com",
"event_type":"Bridal Makeup","event_date":"2099-02-14","city":"Patna","message":""}`

func TestRoot(t *testing.T) {
	ts := newTestServer(t, testConfig())
	resp, body := ts.do(t, http.MethodGet, "/api/", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"PALAK SINGH - Luxury Makeup Artist API"}`, string(body))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}

func TestCreateAndListBookings(t *testing.T) {
	ts := newTestServer(t, testConfig())

	resp, body := ts.do(t, http.MethodPost, "/api/bookings", bookingJSON)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var created domain.Booking
	require.NoError(t, json.Unmarshal(body, &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, domain.EventBridal, created.EventType)
	assert.False(t, created.CreatedAt.IsZero())

	resp, body = ts.do(t, http.MethodGet, "/api/bookings?limit=10", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []domain.Booking
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
}

func TestCreateBookingValidation(t *testing.T) {
	ts := newTestServer(t, testConfig())

	resp, body := ts.do(t, http.MethodPost, "/api/bookings", `{"name":"Asha","email":"asha@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var e errorBody
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Equal(t, "VALIDATION_ERROR", string(e.Code))
	assert.Equal(t, []string{"phone", "event_type", "event_date", "city"}, e.Fields)

	resp, _ = ts.do(t, http.MethodPost, "/api/bookings", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodGet, "/api/bookings?limit=ten", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTestimonialsNeedApproval(t *testing.T) {
	ts := newTestServer(t, testConfig())

	resp, body := ts.do(t, http.MethodPost, "/api/testimonials",
		`{"client_name":"Meera","review":"Stunning","event_type":"Engagement"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var created domain.Testimonial
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, domain.DefaultRating, created.Rating)
	assert.False(t, created.Approved)

	resp, body = ts.do(t, http.MethodGet, "/api/testimonials/approved", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))

	_, err := ts.testimonials.Approve(context.Background(), created.ID)
	require.NoError(t, err)

	_, body = ts.do(t, http.MethodGet, "/api/testimonials/approved", "")
	var approved []domain.Testimonial
	require.NoError(t, json.Unmarshal(body, &approved))
	require.Len(t, approved, 1)
	assert.Equal(t, "Meera", approved[0].ClientName)

	_, body = ts.do(t, http.MethodGet, "/api/testimonials", "")
	var all []domain.Testimonial
	require.NoError(t, json.Unmarshal(body, &all))
	assert.Len(t, all, 1)
}

func TestTestimonialRatingOutOfRange(t *testing.T) {
	ts := newTestServer(t, testConfig())

	resp, body := ts.do(t, http.MethodPost, "/api/testimonials", `{"client_name":"A","review":"B","rating":9}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), `"rating"`)
}

func TestAutoApprove(t *testing.T) {
	cfg := testConfig()
	cfg.Testimonials.AutoApprove = true
	ts := newTestServer(t, cfg)

	ts.do(t, http.MethodPost, "/api/testimonials", `{"client_name":"Riya","review":"Loved it","rating":4}`)
	_, body := ts.do(t, http.MethodGet, "/api/testimonials/approved", "")

	var approved []domain.Testimonial
	require.NoError(t, json.Unmarshal(body, &approved))
	require.Len(t, approved, 1)
	assert.Equal(t, 4, approved[0].Rating)
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t, testConfig())

	resp, body := ts.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"healthy","service":"Palak Singh Makeup API","database":"connected"}`, string(body))

	ts.do(t, http.MethodGet, "/api/", "")
	resp, body = ts.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "http_requests_total")
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t, testConfig())

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/bookings", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://palaksingh.com")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "https://palaksingh.com", resp.Header.Get("Access-Control-Allow-Origin"))

	req, err = http.NewRequest(http.MethodGet, ts.URL+"/api/", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://elsewhere.example")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// The submission client and the server agree on the contract.
func TestClientAgainstServer(t *testing.T) {
	cfg := testConfig()
	cfg.Testimonials.AutoApprove = true
	ts := newTestServer(t, cfg)
	ctx := context.Background()

	c, err := client.New(ts.URL)
	require.NoError(t, err)

	_, err = c.SubmitBooking(ctx, domain.BookingEnquiry{
		Name: "Asha", Phone: "98765 43210", Email: "asha@example.com",
		EventType: domain.EventReception, EventDate: "2099-03-01", City: "Delhi",
	})
	require.NoError(t, err)

	_, err = c.SubmitTestimonial(ctx, domain.TestimonialSubmission{ClientName: "Ananya", Rating: 5, Review: "Perfect"})
	require.NoError(t, err)

	approved, err := c.FetchApproved(ctx, client.ResourceApprovedTestimonials)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, "Ananya", approved[0].ClientName)
}
