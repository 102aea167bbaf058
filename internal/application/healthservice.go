package application

import (
	"context"
	"time"

	"github.com/ericfisherdev/credvault/internal/domain/port/driven"
)

// HealthStatus is the result of a readiness probe.
type HealthStatus struct {
	OK      bool
	Codec   string
	Checked time.Time
	Err     error
}

// HealthService reports whether the service can reach its storage.
type HealthService struct {
	store driven.CredentialStore
	codec driven.SecretCodec
	now   func() time.Time
}

// NewHealthService creates a new HealthService with the required dependencies.
func NewHealthService(store driven.CredentialStore, codec driven.SecretCodec) *HealthService {
	return &HealthService{
		store: store,
		codec: codec,
		now:   time.Now,
	}
}

// Check pings the store.
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	err := s.store.Ping(ctx)
	return HealthStatus{
		OK:      err == nil,
		Codec:   s.codec.Name(),
		Checked: s.now().UTC(),
		Err:     err,
	}
}
