package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestBusinessCounters(t *testing.T) {
	before := testutil.ToFloat64(bookingsTotal.WithLabelValues("Bridal Makeup"))
	RecordBooking("Bridal Makeup")
	assert.Equal(t, before+1, testutil.ToFloat64(bookingsTotal.WithLabelValues("Bridal Makeup")))

	before = testutil.ToFloat64(testimonialsSubmittedTotal.WithLabelValues("4"))
	RecordTestimonialSubmitted(4)
	assert.Equal(t, before+1, testutil.ToFloat64(testimonialsSubmittedTotal.WithLabelValues("4")))

	before = testutil.ToFloat64(notificationsSentTotal.WithLabelValues("sms", "failure"))
	RecordNotification("sms", errors.New("twilio down"))
	assert.Equal(t, before+1, testutil.ToFloat64(notificationsSentTotal.WithLabelValues("sms", "failure")))
}

func TestDBMetrics(t *testing.T) {
	before := testutil.ToFloat64(dbQueriesTotal.WithLabelValues("list_bookings", "error"))
	RecordDBQuery("list_bookings", time.Millisecond, errors.New("boom"))
	assert.Equal(t, before+1, testutil.ToFloat64(dbQueriesTotal.WithLabelValues("list_bookings", "error")))

	UpdateDBConnections(3, 2)
	assert.Equal(t, 3.0, testutil.ToFloat64(dbConnectionsActive))
	assert.Equal(t, 2.0, testutil.ToFloat64(dbConnectionsIdle))
}

func TestPrometheusMiddlewareRecordsStatus(t *testing.T) {
	h := PrometheusMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	counter := httpRequestsTotal.WithLabelValues(http.MethodGet, "/teapot", "418")
	before := testutil.ToFloat64(counter)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/teapot", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
