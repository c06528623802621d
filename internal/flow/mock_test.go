package flow

import (
	"context"

	"github.com/stretchr/testify/mock"

	"palaksingh/internal/client"
	"palaksingh/internal/domain"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) Submit(ctx context.Context, resource string, record any) (*client.Ack, error) {
	args := m.Called(ctx, resource, record)
	ack, _ := args.Get(0).(*client.Ack)
	return ack, args.Error(1)
}

func (m *mockClient) FetchApproved(ctx context.Context, resource string) ([]domain.Testimonial, error) {
	args := m.Called(ctx, resource)
	records, _ := args.Get(0).([]domain.Testimonial)
	return records, args.Error(1)
}
