package services

import (
	"context"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResult is the body of the health endpoint
type HealthResult struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Database string `json:"database"`
}

// HealthService implements the health service
type HealthService struct {
	name string
	db   Pinger
}

// NewHealthService creates a new health service
func NewHealthService(name string, db Pinger) *HealthService {
	return &HealthService{name: name, db: db}
}

// Check pings the store. An unreachable store reports "degraded" with the
// database marked "unavailable".
func (s *HealthService) Check(ctx context.Context) *HealthResult {
	res := &HealthResult{Status: "healthy", Service: s.name, Database: "connected"}
	if err := s.db.Ping(ctx); err != nil {
		res.Status = "degraded"
		res.Database = "unavailable"
	}
	return res
}
