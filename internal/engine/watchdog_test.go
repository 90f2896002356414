package engine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
	"trailbot/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeartbeatAdvances(t *testing.T) {
	hb := NewHeartbeat()
	first := hb.Last()

	time.Sleep(5 * time.Millisecond)
	hb.Beat()

	assert.True(t, hb.Last().After(first))
}

func TestWatchdogTerminatesOnStall(t *testing.T) {
	hb := NewHeartbeat()
	w := NewWatchdog(hb, 10*time.Millisecond, 50*time.Millisecond, logger.NewNop())

	var terminated atomic.Bool
	w.terminate = func() { terminated.Store(true) }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	// No beats arrive, so staleness passes the timeout within a few ticks.
	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("watchdog did not terminate a stalled loop")
	}
	require.True(t, terminated.Load())
}

func TestWatchdogToleratesHealthyLoop(t *testing.T) {
	hb := NewHeartbeat()
	w := NewWatchdog(hb, 10*time.Millisecond, 80*time.Millisecond, logger.NewNop())

	var terminated atomic.Bool
	w.terminate = func() { terminated.Store(true) }

	ctx, cancel := context.WithCancel(context.Background())
	go w.Run(ctx)

	// Simulate a live monitor loop beating well inside the timeout.
	for i := 0; i < 10; i++ {
		time.Sleep(20 * time.Millisecond)
		hb.Beat()
	}
	cancel()

	assert.False(t, terminated.Load())
}
