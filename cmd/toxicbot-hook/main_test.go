package main

import (
	"context"
	"testing"
	"time"

	"toxicbot/internal/modkit/module"
	"toxicbot/internal/platform/logger"
	"toxicbot/internal/platform/store"
)

func TestGuard_ReturnsWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- guard(ctx, &store.Store{}, time.Millisecond, logger.Get()) }()

	time.Sleep(5 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("guard returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("guard did not stop")
	}
}

func TestGuard_DisabledInterval(t *testing.T) {
	if err := guard(context.Background(), &store.Store{}, 0, logger.Get()); err != nil {
		t.Fatalf("guard returned %v", err)
	}
}

func TestWarmup_NoPortsIsHarmless(t *testing.T) {
	module.Reset()
	warmup(context.Background(), logger.Get())
}
