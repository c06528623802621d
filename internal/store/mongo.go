package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"palaksingh/internal/domain"
	"palaksingh/internal/metrics"
)

// Mongo stores records in the bookings and testimonials collections,
// keyed by the string id rather than _id.
type Mongo struct {
	db           *mongo.Database
	bookings     *mongo.Collection
	testimonials *mongo.Collection
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{
		db:           db,
		bookings:     db.Collection(bookingsTable),
		testimonials: db.Collection(testimonialsTable),
	}
}

// EnsureIndexes creates the unique id indexes and the ordering indexes.
func (s *Mongo) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	if _, err := s.bookings.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}); err != nil {
		return fmt.Errorf("create booking indexes: %w", err)
	}
	if _, err := s.testimonials.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "approved", Value: 1}, {Key: "approved_at", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("create testimonial indexes: %w", err)
	}
	return nil
}

func (s *Mongo) CreateBooking(ctx context.Context, b *domain.Booking) error {
	start := time.Now()
	_, err := s.bookings.InsertOne(ctx, b)
	metrics.RecordDBQuery("create_booking", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

func (s *Mongo) ListBookings(ctx context.Context, skip, limit int) ([]domain.Booking, error) {
	start := time.Now()
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(clampSkip(skip))).
		SetLimit(int64(ClampLimit(limit)))

	bookings := []domain.Booking{}
	cursor, err := s.bookings.Find(ctx, bson.M{}, opts)
	if err == nil {
		err = cursor.All(ctx, &bookings)
	}
	metrics.RecordDBQuery("list_bookings", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

func (s *Mongo) CreateTestimonial(ctx context.Context, t *domain.Testimonial) error {
	start := time.Now()
	_, err := s.testimonials.InsertOne(ctx, t)
	metrics.RecordDBQuery("create_testimonial", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("create testimonial: %w", err)
	}
	return nil
}

func (s *Mongo) ListTestimonials(ctx context.Context, f TestimonialFilter) ([]domain.Testimonial, error) {
	start := time.Now()
	filter := bson.M{}
	sortBy := bson.D{{Key: "created_at", Value: -1}}
	switch {
	case f.ApprovedOnly:
		filter["approved"] = true
		sortBy = bson.D{{Key: "approved_at", Value: 1}, {Key: "created_at", Value: 1}}
	case f.PendingOnly:
		filter["approved"] = false
	}
	opts := options.Find().
		SetSort(sortBy).
		SetSkip(int64(clampSkip(f.Skip))).
		SetLimit(int64(ClampLimit(f.Limit)))

	testimonials := []domain.Testimonial{}
	cursor, err := s.testimonials.Find(ctx, filter, opts)
	if err == nil {
		err = cursor.All(ctx, &testimonials)
	}
	metrics.RecordDBQuery("list_testimonials", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("list testimonials: %w", err)
	}
	return testimonials, nil
}

func (s *Mongo) GetTestimonial(ctx context.Context, id string) (*domain.Testimonial, error) {
	start := time.Now()
	var t domain.Testimonial
	err := s.testimonials.FindOne(ctx, bson.M{"id": id}).Decode(&t)
	metrics.RecordDBQuery("get_testimonial", time.Since(start), err)
	if err != nil {
		if stderrors.Is(err, mongo.ErrNoDocuments) {
			return nil, testimonialNotFound(id)
		}
		return nil, fmt.Errorf("get testimonial: %w", err)
	}
	return &t, nil
}

func (s *Mongo) SetTestimonialApproval(ctx context.Context, id string, approved bool, at time.Time) (*domain.Testimonial, error) {
	update := bson.M{
		"$set":   bson.M{"approved": false},
		"$unset": bson.M{"approved_at": ""},
	}
	if approved {
		update = bson.M{"$set": bson.M{"approved": true, "approved_at": at.UTC()}}
	}

	start := time.Now()
	var t domain.Testimonial
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.testimonials.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&t)
	metrics.RecordDBQuery("set_testimonial_approval", time.Since(start), err)
	if err != nil {
		if stderrors.Is(err, mongo.ErrNoDocuments) {
			return nil, testimonialNotFound(id)
		}
		return nil, fmt.Errorf("set testimonial approval: %w", err)
	}
	return &t, nil
}

func (s *Mongo) DeleteTestimonial(ctx context.Context, id string) error {
	start := time.Now()
	res, err := s.testimonials.DeleteOne(ctx, bson.M{"id": id})
	metrics.RecordDBQuery("delete_testimonial", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("delete testimonial: %w", err)
	}
	if res.DeletedCount == 0 {
		return testimonialNotFound(id)
	}
	return nil
}

func (s *Mongo) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}

func (s *Mongo) Close(ctx context.Context) error {
	return s.db.Client().Disconnect(ctx)
}
