package health

import (
	"context"
	"time"
)

const pingTimeout = 2 * time.Second

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Service checks process and store health.
type Service struct {
	Store  Pinger
	Driver string
}

// NewService constructs a health service. A nil store means the in-memory
// driver, which has nothing to ping.
func NewService(store Pinger, driver string) *Service {
	return &Service{Store: store, Driver: driver}
}

// Status pings the store under a short deadline and returns the health
// payload plus whether the process is serving normally.
func (s *Service) Status(ctx context.Context) (map[string]any, bool) {
	payload := map[string]any{"ok": true, "store": s.Driver}
	if s.Store == nil {
		return payload, true
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.Store.PingContext(ctx); err != nil {
		payload["ok"] = false
		payload["error"] = err.Error()
		return payload, false
	}
	return payload, true
}
