// Package design describes the HTTP contract served by internal/server in
// goa's DSL. It is the source for generated OpenAPI documents.
package design

import (
	. "goa.design/goa/v3/dsl"
)

var _ = API("palaksingh", func() {
	Title("PALAK SINGH - Luxury Makeup Artist API")
	Description("Booking enquiries and client testimonials for the makeup artist's website")
	Version("1.0.0")
	Server("api", func() {
		Host("localhost", func() {
			URI("http://localhost:8000")
		})
	})
})

var ErrorBody = Type("ErrorBody", func() {
	Description("Error response")
	Attribute("code", String, "Error code", func() {
		Enum("VALIDATION_ERROR", "INVALID_FIELD", "BAD_REQUEST", "NOT_FOUND", "CONFLICT", "INTERNAL_ERROR")
		Example("VALIDATION_ERROR")
	})
	Attribute("message", String, "Error message", func() {
		Example("missing required fields: name, city")
	})
	Attribute("fields", ArrayOf(String), "Offending fields", func() {
		Example([]string{"name", "city"})
	})
	Required("code", "message")
})

var BookingEnquiry = Type("BookingEnquiry", func() {
	Attribute("name", String, func() { Example("Priya Sharma") })
	Attribute("phone", String, func() { Example("+91 91428 71157") })
	Attribute("email", String, func() {
		Format(FormatEmail)
		Example("priya@example.com")
	})
	Attribute("event_type", String, "One of the website's occasions", func() {
		Example("Bridal Makeup")
	})
	Attribute("event_date", String, func() {
		Format(FormatDate)
		Example("2026-02-14")
	})
	Attribute("city", String, func() { Example("Patna") })
	Attribute("message", String, func() { Default("") })
	Required("name", "phone", "email", "event_type", "event_date", "city")
})

var Booking = ResultType("Booking", func() {
	Attribute("id", String, func() { Format(FormatUUID) })
	Extend(BookingEnquiry)
	Attribute("created_at", String, func() { Format(FormatDateTime) })
	Required("id", "created_at")
})

var TestimonialSubmission = Type("TestimonialSubmission", func() {
	Attribute("client_name", String, func() { Example("Meera Kapoor") })
	Attribute("rating", Int, func() {
		Minimum(1)
		Maximum(5)
		Default(5)
	})
	Attribute("review", String, func() { Example("Absolutely stunning work!") })
	Attribute("event_type", String, func() { Default("") })
	Required("client_name", "review")
})

var Testimonial = ResultType("Testimonial", func() {
	Attribute("id", String)
	Extend(TestimonialSubmission)
	Attribute("approved", Boolean, "Only approved testimonials are public")
	Attribute("approved_at", String, func() { Format(FormatDateTime) })
	Attribute("created_at", String, func() { Format(FormatDateTime) })
	Required("id", "approved", "created_at")
})

var Page = Type("Page", func() {
	Attribute("skip", Int, func() {
		Minimum(0)
		Default(0)
	})
	Attribute("limit", Int, func() {
		Minimum(0)
		Maximum(1000)
		Default(100)
	})
})

var _ = Service("api", func() {
	Description("API root")
	Method("root", func() {
		Result(MapOf(String, String))
		HTTP(func() {
			GET("/api/")
			Response(StatusOK)
		})
	})
})

var _ = Service("bookings", func() {
	Description("Booking enquiries")
	Error("bad_request", ErrorBody)

	Method("create", func() {
		Payload(BookingEnquiry)
		Result(Booking)
		HTTP(func() {
			POST("/api/bookings")
			Response(StatusOK)
			Response("bad_request", StatusBadRequest)
		})
	})

	Method("list", func() {
		Description("Bookings, newest first")
		Payload(Page)
		Result(CollectionOf(Booking))
		HTTP(func() {
			GET("/api/bookings")
			Param("skip")
			Param("limit")
			Response(StatusOK)
			Response("bad_request", StatusBadRequest)
		})
	})
})

var _ = Service("testimonials", func() {
	Description("Client testimonials")
	Error("bad_request", ErrorBody)

	Method("create", func() {
		Description("Submit a testimonial; it is public once approved")
		Payload(TestimonialSubmission)
		Result(Testimonial)
		HTTP(func() {
			POST("/api/testimonials")
			Response(StatusOK)
			Response("bad_request", StatusBadRequest)
		})
	})

	Method("list", func() {
		Description("All testimonials, newest first")
		Payload(Page)
		Result(CollectionOf(Testimonial))
		HTTP(func() {
			GET("/api/testimonials")
			Param("skip")
			Param("limit")
			Response(StatusOK)
			Response("bad_request", StatusBadRequest)
		})
	})

	Method("approved", func() {
		Description("Approved testimonials in approval order")
		Result(CollectionOf(Testimonial))
		HTTP(func() {
			GET("/api/testimonials/approved")
			Response(StatusOK)
		})
	})
})

var _ = Service("health", func() {
	Description("Health check service")
	Method("check", func() {
		Result(HealthResult)
		HTTP(func() {
			GET("/health")
			Response(StatusOK)
		})
	})
})

var HealthResult = ResultType("HealthResult", func() {
	Attribute("status", String, "Service status", func() {
		Enum("healthy", "degraded")
		Example("healthy")
	})
	Attribute("service", String, "Service name", func() {
		Example("Palak Singh Makeup API")
	})
	Attribute("database", String, "Store reachability", func() {
		Enum("connected", "unavailable")
	})
})
