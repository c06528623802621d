// Package server exposes the booking and testimonial services over HTTP.
package server

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"goa.design/clue/log"
	goahttp "goa.design/goa/v3/http"
	"goa.design/goa/v3/http/middleware"

	"palaksingh/internal/config"
	"palaksingh/internal/metrics"
	"palaksingh/internal/services"
)

// RootMessage is returned by GET /api/.
const RootMessage = "PALAK SINGH - Luxury Makeup Artist API"

// Server routes HTTP requests to the services
type Server struct {
	cfg          *config.Config
	bookings     *services.BookingService
	testimonials *services.TestimonialService
	health       *services.HealthService
}

// New creates a server over the given services
func New(cfg *config.Config, bookings *services.BookingService, testimonials *services.TestimonialService, health *services.HealthService) *Server {
	return &Server{
		cfg:          cfg,
		bookings:     bookings,
		testimonials: testimonials,
		health:       health,
	}
}

// Mount registers the API routes on mux.
func (s *Server) Mount(mux goahttp.Muxer) {
	mux.Handle(http.MethodGet, "/api/", s.root)
	mux.Handle(http.MethodPost, "/api/bookings", s.createBooking)
	mux.Handle(http.MethodGet, "/api/bookings", s.listBookings)
	mux.Handle(http.MethodPost, "/api/testimonials", s.createTestimonial)
	mux.Handle(http.MethodGet, "/api/testimonials", s.listTestimonials)
	mux.Handle(http.MethodGet, "/api/testimonials/approved", s.approvedTestimonials)
	mux.Handle(http.MethodGet, "/health", s.healthCheck)
}

// Handler returns the full middleware chain around the API and /metrics.
// logCtx carries the logger that request contexts inherit.
func (s *Server) Handler(logCtx context.Context) http.Handler {
	mux := goahttp.NewMuxer()
	s.Mount(mux)

	var api http.Handler = mux
	api = middleware.PopulateRequestContext()(api)
	api = middleware.RequestID()(api)

	metricsHandler := promhttp.Handler()
	rootHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			metricsHandler.ServeHTTP(w, r)
			return
		}
		api.ServeHTTP(w, r)
	})

	// Security -> CORS -> Logging -> Prometheus -> Handler
	return securityHeaders(cors(log.HTTP(logCtx)(metrics.PrometheusMiddleware(rootHandler)), &s.cfg.CORS, s.cfg.App.Debug), s.cfg.App.Debug)
}
