package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"palaksingh/internal/domain"
	"palaksingh/internal/metrics"
)

// Table names, prefixed with the dynamodb:// URL host.
//
// Table requirements:
//   - PK: id (string)
const (
	bookingsTable     = "bookings"
	testimonialsTable = "testimonials"
)

// DynamoAPI is the subset of the DynamoDB client the store uses.
type DynamoAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, opts ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	DescribeTable(ctx context.Context, in *dynamodb.DescribeTableInput, opts ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

type bookingItem struct {
	ID        string `dynamodbav:"id"`
	Name      string `dynamodbav:"name"`
	Phone     string `dynamodbav:"phone"`
	Email     string `dynamodbav:"email"`
	EventType string `dynamodbav:"event_type"`
	EventDate string `dynamodbav:"event_date"`
	City      string `dynamodbav:"city"`
	Message   string `dynamodbav:"message"`
	CreatedAt string `dynamodbav:"created_at"`
}

type testimonialItem struct {
	ID         string `dynamodbav:"id"`
	ClientName string `dynamodbav:"client_name"`
	Rating     int    `dynamodbav:"rating"`
	Review     string `dynamodbav:"review"`
	EventType  string `dynamodbav:"event_type"`
	Approved   bool   `dynamodbav:"approved"`
	ApprovedAt string `dynamodbav:"approved_at,omitempty"`
	CreatedAt  string `dynamodbav:"created_at"`
}

// Dynamo stores records in two DynamoDB tables. Lists are full scans
// ordered in memory; the data set is a small business's enquiries.
type Dynamo struct {
	ddb    DynamoAPI
	prefix string
}

func NewDynamo(ddb DynamoAPI, tablePrefix string) *Dynamo {
	return &Dynamo{ddb: ddb, prefix: tablePrefix}
}

func (s *Dynamo) table(name string) *string {
	return aws.String(s.prefix + name)
}

func (s *Dynamo) CreateBooking(ctx context.Context, b *domain.Booking) error {
	start := time.Now()
	err := s.put(ctx, bookingsTable, toBookingItem(b))
	metrics.RecordDBQuery("create_booking", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

func (s *Dynamo) ListBookings(ctx context.Context, skip, limit int) ([]domain.Booking, error) {
	start := time.Now()
	var items []bookingItem
	err := s.scan(ctx, bookingsTable, &items)
	metrics.RecordDBQuery("list_bookings", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	bookings := make([]domain.Booking, 0, len(items))
	for _, it := range items {
		bookings = append(bookings, fromBookingItem(it))
	}
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
	return page(bookings, skip, limit), nil
}

func (s *Dynamo) CreateTestimonial(ctx context.Context, t *domain.Testimonial) error {
	start := time.Now()
	err := s.put(ctx, testimonialsTable, toTestimonialItem(t))
	metrics.RecordDBQuery("create_testimonial", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("create testimonial: %w", err)
	}
	return nil
}

func (s *Dynamo) ListTestimonials(ctx context.Context, f TestimonialFilter) ([]domain.Testimonial, error) {
	start := time.Now()
	var items []testimonialItem
	err := s.scan(ctx, testimonialsTable, &items)
	metrics.RecordDBQuery("list_testimonials", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("list testimonials: %w", err)
	}

	all := make([]domain.Testimonial, 0, len(items))
	for _, it := range items {
		all = append(all, fromTestimonialItem(it))
	}
	return filterTestimonials(all, f), nil
}

func (s *Dynamo) GetTestimonial(ctx context.Context, id string) (*domain.Testimonial, error) {
	start := time.Now()
	out, err := s.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      s.table(testimonialsTable),
		Key:            idKey(id),
		ConsistentRead: aws.Bool(true),
	})
	metrics.RecordDBQuery("get_testimonial", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("get testimonial: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, testimonialNotFound(id)
	}

	var it testimonialItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, fmt.Errorf("get testimonial: %w", err)
	}
	t := fromTestimonialItem(it)
	return &t, nil
}

func (s *Dynamo) SetTestimonialApproval(ctx context.Context, id string, approved bool, at time.Time) (*domain.Testimonial, error) {
	in := &dynamodb.UpdateItemInput{
		TableName:           s.table(testimonialsTable),
		Key:                 idKey(id),
		ConditionExpression: aws.String("attribute_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id":       "id",
			"#approved": "approved",
			"#at":       "approved_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":approved": &types.AttributeValueMemberBOOL{Value: approved},
		},
		ReturnValues: types.ReturnValueAllNew,
	}
	if approved {
		in.UpdateExpression = aws.String("SET #approved = :approved, #at = :at")
		in.ExpressionAttributeValues[":at"] = &types.AttributeValueMemberS{Value: formatTime(at)}
	} else {
		in.UpdateExpression = aws.String("SET #approved = :approved REMOVE #at")
	}

	start := time.Now()
	out, err := s.ddb.UpdateItem(ctx, in)
	metrics.RecordDBQuery("set_testimonial_approval", time.Since(start), err)
	if err != nil {
		if isConditionFailed(err) {
			return nil, testimonialNotFound(id)
		}
		return nil, fmt.Errorf("set testimonial approval: %w", err)
	}

	var it testimonialItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return nil, fmt.Errorf("set testimonial approval: %w", err)
	}
	t := fromTestimonialItem(it)
	return &t, nil
}

func (s *Dynamo) DeleteTestimonial(ctx context.Context, id string) error {
	start := time.Now()
	_, err := s.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                s.table(testimonialsTable),
		Key:                      idKey(id),
		ConditionExpression:      aws.String("attribute_exists(#id)"),
		ExpressionAttributeNames: map[string]string{"#id": "id"},
	})
	metrics.RecordDBQuery("delete_testimonial", time.Since(start), err)
	if err != nil {
		if isConditionFailed(err) {
			return testimonialNotFound(id)
		}
		return fmt.Errorf("delete testimonial: %w", err)
	}
	return nil
}

func (s *Dynamo) Ping(ctx context.Context) error {
	for _, name := range []string{bookingsTable, testimonialsTable} {
		if _, err := s.ddb.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: s.table(name)}); err != nil {
			return fmt.Errorf("describe table %s: %w", s.prefix+name, err)
		}
	}
	return nil
}

func (s *Dynamo) Close(context.Context) error {
	return nil
}

func (s *Dynamo) put(ctx context.Context, table string, item any) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}
	_, err = s.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                s.table(table),
		Item:                     av,
		ConditionExpression:      aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{"#id": "id"},
	})
	return err
}

// scan reads every page of table into out, a pointer to a slice of items.
func (s *Dynamo) scan(ctx context.Context, table string, out any) error {
	var all []map[string]types.AttributeValue
	var startKey map[string]types.AttributeValue
	for {
		res, err := s.ddb.Scan(ctx, &dynamodb.ScanInput{
			TableName:         s.table(table),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return err
		}
		all = append(all, res.Items...)
		if len(res.LastEvaluatedKey) == 0 {
			break
		}
		startKey = res.LastEvaluatedKey
	}
	return attributevalue.UnmarshalListOfMaps(all, out)
}

// filterTestimonials applies f's approval filter, ordering and paging to
// an unordered set.
func filterTestimonials(all []domain.Testimonial, f TestimonialFilter) []domain.Testimonial {
	out := make([]domain.Testimonial, 0, len(all))
	for _, t := range all {
		if (f.ApprovedOnly && !t.Approved) || (f.PendingOnly && t.Approved) {
			continue
		}
		out = append(out, t)
	}

	if f.ApprovedOnly {
		sort.SliceStable(out, func(i, j int) bool {
			ai, aj := approvedTime(out[i]), approvedTime(out[j])
			if !ai.Equal(aj) {
				return ai.Before(aj)
			}
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
	} else {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}
	return page(out, f.Skip, f.Limit)
}

func approvedTime(t domain.Testimonial) time.Time {
	if t.ApprovedAt == nil {
		return time.Time{}
	}
	return *t.ApprovedAt
}

func idKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return stderrors.As(err, &ccf)
}

func toBookingItem(b *domain.Booking) bookingItem {
	return bookingItem{
		ID:        b.ID,
		Name:      b.Name,
		Phone:     b.Phone,
		Email:     b.Email,
		EventType: string(b.EventType),
		EventDate: b.EventDate,
		City:      b.City,
		Message:   b.Message,
		CreatedAt: formatTime(b.CreatedAt),
	}
}

func fromBookingItem(it bookingItem) domain.Booking {
	return domain.Booking{
		ID: it.ID,
		BookingEnquiry: domain.BookingEnquiry{
			Name:      it.Name,
			Phone:     it.Phone,
			Email:     it.Email,
			EventType: domain.EventType(it.EventType),
			EventDate: it.EventDate,
			City:      it.City,
			Message:   it.Message,
		},
		CreatedAt: parseTime(it.CreatedAt),
	}
}

func toTestimonialItem(t *domain.Testimonial) testimonialItem {
	it := testimonialItem{
		ID:         t.ID,
		ClientName: t.ClientName,
		Rating:     t.Rating,
		Review:     t.Review,
		EventType:  t.EventType,
		Approved:   t.Approved,
		CreatedAt:  formatTime(t.CreatedAt),
	}
	if t.ApprovedAt != nil {
		it.ApprovedAt = formatTime(*t.ApprovedAt)
	}
	return it
}

func fromTestimonialItem(it testimonialItem) domain.Testimonial {
	t := domain.Testimonial{
		ID: it.ID,
		TestimonialSubmission: domain.TestimonialSubmission{
			ClientName: it.ClientName,
			Rating:     it.Rating,
			Review:     it.Review,
			EventType:  it.EventType,
		},
		Approved:  it.Approved,
		CreatedAt: parseTime(it.CreatedAt),
	}
	if it.ApprovedAt != "" {
		at := parseTime(it.ApprovedAt)
		t.ApprovedAt = &at
	}
	return t
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
