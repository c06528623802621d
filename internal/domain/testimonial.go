package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultRating is the rating a new testimonial form starts with.
const DefaultRating = 5

const (
	MinRating = 1
	MaxRating = 5
)

// TestimonialSubmission is the review form as submitted by a client.
type TestimonialSubmission struct {
	ClientName string `gorm:"not null" json:"client_name" bson:"client_name" validate:"required"`
	Rating     int    `gorm:"not null" json:"rating" bson:"rating" validate:"min=1,max=5"`
	Review     string `gorm:"type:text;not null" json:"review" bson:"review" validate:"required"`
	EventType  string `json:"event_type" bson:"event_type"`
}

// NewTestimonialSubmission returns an empty form with the default rating.
func NewTestimonialSubmission() TestimonialSubmission {
	return TestimonialSubmission{Rating: DefaultRating}
}

// Testimonial is a stored review. Only approved testimonials are public.
type Testimonial struct {
	ID                    string `gorm:"primaryKey;size:36" json:"id" bson:"id"`
	TestimonialSubmission `gorm:"embedded" bson:",inline"`
	Approved              bool       `gorm:"not null;default:false;index" json:"approved" bson:"approved"`
	ApprovedAt            *time.Time `json:"approved_at,omitempty" bson:"approved_at,omitempty"`
	CreatedAt             time.Time  `gorm:"index" json:"created_at" bson:"created_at"`
}

// NewTestimonial assigns identity and creation time to a submission.
// Auto-approved testimonials are stamped as approved at creation.
func NewTestimonial(s TestimonialSubmission, approved bool, now time.Time) *Testimonial {
	t := &Testimonial{
		ID:                    uuid.NewString(),
		TestimonialSubmission: s,
		CreatedAt:             now.UTC(),
	}
	if approved {
		t.Approve(now)
	}
	return t
}

// Approve marks the testimonial public.
func (t *Testimonial) Approve(at time.Time) {
	at = at.UTC()
	t.Approved = true
	t.ApprovedAt = &at
}

// Unapprove hides the testimonial again.
func (t *Testimonial) Unapprove() {
	t.Approved = false
	t.ApprovedAt = nil
}

// TableName specifies the table name for Testimonial
func (Testimonial) TableName() string {
	return "testimonials"
}

// BeforeCreate hook
func (t *Testimonial) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	return nil
}
