package server

import (
	"context"
	"net/http"
	"strconv"

	"goa.design/clue/log"
	goahttp "goa.design/goa/v3/http"

	"palaksingh/internal/domain"
	apperrors "palaksingh/pkg/errors"
)

// errorBody is the JSON body of every error response
type errorBody struct {
	Code    apperrors.ErrorCode `json:"code"`
	Message string              `json:"message"`
	Fields  []string            `json:"fields,omitempty"`
}

func (s *Server) root(w http.ResponseWriter, r *http.Request) {
	encode(r.Context(), w, http.StatusOK, map[string]string{"message": RootMessage})
}

func (s *Server) createBooking(w http.ResponseWriter, r *http.Request) {
	var in domain.BookingEnquiry
	if !decode(w, r, &in) {
		return
	}
	b, err := s.bookings.Create(r.Context(), in)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	encode(r.Context(), w, http.StatusOK, b)
}

func (s *Server) listBookings(w http.ResponseWriter, r *http.Request) {
	skip, limit, ok := pagination(w, r)
	if !ok {
		return
	}
	bookings, err := s.bookings.List(r.Context(), skip, limit)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	encode(r.Context(), w, http.StatusOK, bookings)
}

func (s *Server) createTestimonial(w http.ResponseWriter, r *http.Request) {
	in := domain.NewTestimonialSubmission()
	if !decode(w, r, &in) {
		return
	}
	t, err := s.testimonials.Create(r.Context(), in)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	encode(r.Context(), w, http.StatusOK, t)
}

func (s *Server) listTestimonials(w http.ResponseWriter, r *http.Request) {
	skip, limit, ok := pagination(w, r)
	if !ok {
		return
	}
	list, err := s.testimonials.List(r.Context(), skip, limit)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeTestimonials(r.Context(), w, list)
}

func (s *Server) approvedTestimonials(w http.ResponseWriter, r *http.Request) {
	list, err := s.testimonials.Approved(r.Context())
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeTestimonials(r.Context(), w, list)
}

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	res := s.health.Check(r.Context())
	status := http.StatusOK
	if res.Database != "connected" {
		status = http.StatusServiceUnavailable
	}
	encode(r.Context(), w, status, res)
}

func writeTestimonials(ctx context.Context, w http.ResponseWriter, list []domain.Testimonial) {
	if list == nil {
		list = []domain.Testimonial{}
	}
	encode(ctx, w, http.StatusOK, list)
}

// decode reads the JSON body into v, writing a 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := goahttp.RequestDecoder(r).Decode(v); err != nil {
		writeError(r.Context(), w, apperrors.Wrap(apperrors.ErrCodeBadRequest, "request body must be a JSON object", err))
		return false
	}
	return true
}

// pagination parses the optional skip and limit query parameters.
func pagination(w http.ResponseWriter, r *http.Request) (skip, limit int, ok bool) {
	q := r.URL.Query()
	for name, dst := range map[string]*int{"skip": &skip, "limit": &limit} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(r.Context(), w, apperrors.InvalidField(name, "must be a non-negative integer"))
			return 0, 0, false
		}
		*dst = n
	}
	return skip, limit, true
}

func encode(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := goahttp.ResponseEncoder(ctx, w).Encode(v); err != nil {
		log.Error(ctx, err, log.KV{K: "msg", V: "encode response"})
	}
}

// writeError maps the error code to an HTTP status. Internal errors are
// logged and their detail withheld from the client.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	body := errorBody{Code: apperrors.ErrCodeInternalError, Message: "internal server error"}
	status := http.StatusInternalServerError

	if appErr, ok := apperrors.As(err); ok {
		switch appErr.Code {
		case apperrors.ErrCodeValidation, apperrors.ErrCodeInvalidField, apperrors.ErrCodeBadRequest:
			status = http.StatusBadRequest
		case apperrors.ErrCodeNotFound:
			status = http.StatusNotFound
		case apperrors.ErrCodeConflict:
			status = http.StatusConflict
		}
		if status != http.StatusInternalServerError {
			body = errorBody{Code: appErr.Code, Message: appErr.Message, Fields: appErr.Fields}
		}
	}
	if status == http.StatusInternalServerError {
		log.Error(ctx, err, log.KV{K: "msg", V: "request failed"})
	}
	encode(ctx, w, status, body)
}
