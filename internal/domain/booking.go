package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DateLayout is the wire format of event dates.
const DateLayout = "2006-01-02"

// BookingEnquiry is the booking form as submitted by a client.
type BookingEnquiry struct {
	Name      string    `gorm:"not null" json:"name" bson:"name" validate:"required"`
	Phone     string    `gorm:"not null" json:"phone" bson:"phone" validate:"required"`
	Email     string    `gorm:"not null;index" json:"email" bson:"email" validate:"required,email"`
	EventType EventType `gorm:"not null" json:"event_type" bson:"event_type" validate:"required"`
	EventDate string    `gorm:"not null" json:"event_date" bson:"event_date" validate:"required,datetime=2006-01-02"`
	City      string    `gorm:"not null" json:"city" bson:"city" validate:"required"`
	Message   string    `gorm:"type:text" json:"message" bson:"message"`
}

// Booking is an accepted booking enquiry.
type Booking struct {
	ID             string `gorm:"primaryKey;size:36" json:"id" bson:"id"`
	BookingEnquiry `gorm:"embedded" bson:",inline"`
	CreatedAt      time.Time `gorm:"index" json:"created_at" bson:"created_at"`
}

// NewBooking assigns identity and creation time to an enquiry.
func NewBooking(e BookingEnquiry, now time.Time) *Booking {
	return &Booking{
		ID:             uuid.NewString(),
		BookingEnquiry: e,
		CreatedAt:      now.UTC(),
	}
}

// TableName specifies the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// BeforeCreate hook
func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	return nil
}
