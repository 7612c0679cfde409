package health

import (
	"context"
	"errors"
	"testing"
)

type fakePinger struct {
	err error
}

func (f fakePinger) PingContext(ctx context.Context) error { return f.err }

func TestStatusNilStoreIsHealthy(t *testing.T) {
	svc := NewService(nil, "memory")
	payload, ok := svc.Status(context.Background())
	if !ok || payload["ok"] != true || payload["store"] != "memory" {
		t.Fatalf("unexpected status: %v ok=%v", payload, ok)
	}
}

func TestStatusReachableStore(t *testing.T) {
	svc := NewService(fakePinger{}, "sqlite")
	if _, ok := svc.Status(context.Background()); !ok {
		t.Fatal("expected healthy status")
	}
}

func TestStatusUnreachableStore(t *testing.T) {
	svc := NewService(fakePinger{err: errors.New("connection refused")}, "postgres")
	payload, ok := svc.Status(context.Background())
	if ok {
		t.Fatal("expected unhealthy status")
	}
	if payload["ok"] != false || payload["error"] == "" {
		t.Fatalf("unexpected payload: %v", payload)
	}
}
