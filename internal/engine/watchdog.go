package engine

import (
	"context"
	"os"
	"sync/atomic"
	"time"
	"trailbot/internal/logger"
)

// Heartbeat is the single piece of state shared between the monitor loop and
// the watchdog: a unix-nano timestamp written by the loop, read by the
// watchdog. Atomic so the cross-goroutine read is well-defined.
type Heartbeat struct {
	last atomic.Int64
}

func NewHeartbeat() *Heartbeat {
	hb := &Heartbeat{}
	hb.Beat()
	return hb
}

func (h *Heartbeat) Beat() {
	h.last.Store(time.Now().UnixNano())
}

func (h *Heartbeat) Last() time.Time {
	return time.Unix(0, h.last.Load())
}

// Watchdog force-terminates the process when the monitor loop stops
// heartbeating. No graceful shutdown, no retry: the surviving strategy is an
// external supervisor restarting a fresh process.
type Watchdog struct {
	hb       *Heartbeat
	interval time.Duration
	timeout  time.Duration
	log      *logger.Logger

	// terminate is swappable in tests; the default exits the process.
	terminate func()
}

func NewWatchdog(hb *Heartbeat, interval, timeout time.Duration, log *logger.Logger) *Watchdog {
	return &Watchdog{
		hb:       hb,
		interval: interval,
		timeout:  timeout,
		log:      log,
		terminate: func() {
			os.Exit(2)
		},
	}
}

// Run polls the heartbeat until ctx is cancelled or staleness exceeds the
// timeout, in which case the process is terminated on the spot.
func (w *Watchdog) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stale := time.Since(w.hb.Last())
			if stale < w.timeout {
				continue
			}
			w.log.WithFields(map[string]interface{}{
				"component": "watchdog",
				"stale_for": stale.String(),
				"timeout":   w.timeout.String(),
				"last_beat": w.hb.Last().Format(time.RFC3339),
			}).Error("Monitor loop stopped heartbeating, terminating process.")
			w.terminate()
			return
		}
	}
}
