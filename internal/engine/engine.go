package engine

import (
	"context"
	"fmt"
	"strings"
	"time"
	"trailbot/internal/config"
	"trailbot/internal/exchange"
	"trailbot/internal/logger"
	"trailbot/internal/models"
	"trailbot/internal/notify"

	"github.com/sirupsen/logrus"
)

// Engine drives the decision pipeline at a fixed cadence: fetch a position
// snapshot, roll the trailing store forward, classify, decide, and close
// what has to be closed. It never exits on its own except through ctx
// cancellation; every failure inside a cycle is absorbed and retried on the
// next one.
type Engine struct {
	cfg      *config.Config
	client   exchange.Client
	notifier notify.Notifier
	store    *TrailingStore
	hb       *Heartbeat
	log      *logger.Logger

	blacklist map[string]struct{}
}

func New(cfg *config.Config, client exchange.Client, notifier notify.Notifier, store *TrailingStore, hb *Heartbeat, log *logger.Logger) *Engine {
	blacklist := make(map[string]struct{}, len(cfg.Bot.Blacklist))
	for _, symbol := range cfg.Bot.Blacklist {
		blacklist[strings.ToUpper(symbol)] = struct{}{}
	}
	return &Engine{
		cfg:       cfg,
		client:    client,
		notifier:  notifier,
		store:     store,
		hb:        hb,
		log:       log,
		blacklist: blacklist,
	}
}

// Start runs the monitor loop until ctx is cancelled. Pacing is
// drift-compensated: the sleep is the monitor interval minus the time the
// cycle itself took, and an overrunning cycle skips the sleep entirely.
func (e *Engine) Start(ctx context.Context) error {
	e.log.WithFields(map[string]interface{}{
		"component": "engine",
		"interval":  e.cfg.Bot.MonitorInterval.String(),
		"dry_run":   e.cfg.Runtime.DryRun,
	}).Info("Monitoring started.")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		start := time.Now()
		e.hb.Beat()
		e.runCycle(ctx)
		e.hb.Beat()
		mtxCycles.Inc()

		elapsed := time.Since(start)
		if elapsed >= e.cfg.Bot.MonitorInterval {
			mtxDrift.Inc()
			e.log.WithFields(map[string]interface{}{
				"component": "engine",
				"elapsed":   elapsed.String(),
				"interval":  e.cfg.Bot.MonitorInterval.String(),
			}).Warn("Cycle overran the monitor interval, skipping sleep.")
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(e.cfg.Bot.MonitorInterval - elapsed):
		}
	}
}

// runCycle processes one snapshot. A failed fetch skips decisioning but
// keeps every trailing mark; only a confirmed empty snapshot clears them.
func (e *Engine) runCycle(ctx context.Context) {
	positions, err := e.client.FetchPositions(ctx)
	if err != nil {
		mtxFetchErrors.Inc()
		e.logEntry("").WithError(err).Error("Snapshot fetch failed, keeping trailing state for next cycle.")
		return
	}

	mtxOpenPositions.Set(float64(len(positions)))

	if len(positions) == 0 {
		if e.store.Len() > 0 {
			e.logEntry("").Info("No open positions, clearing trailing state.")
			e.store.ResetAll()
		}
		return
	}

	seen := make(map[string]struct{}, len(positions))
	for _, pos := range positions {
		seen[pos.Symbol] = struct{}{}
		if _, skip := e.blacklist[strings.ToUpper(pos.Symbol)]; skip {
			continue
		}
		e.evaluate(ctx, pos)
	}

	// A mark whose symbol left the snapshot belongs to a position closed
	// outside this process (manual close, liquidation, exchange-side TP).
	// It has to go now: if the symbol re-opens later, the stale peak would
	// classify a fresh position into a tier and fire a spurious close.
	for _, symbol := range e.store.Symbols() {
		if _, ok := seen[symbol]; !ok {
			e.logEntry(symbol).Info("Position no longer open, dropping trailing state.")
			e.store.Evict(symbol)
		}
	}
}

// evaluate runs the store/classify/decide pipeline for one position. A
// panic here is contained so the remaining symbols of the cycle still get
// processed.
func (e *Engine) evaluate(ctx context.Context, pos models.Position) {
	defer func() {
		if r := recover(); r != nil {
			mtxDecisionErrors.Inc()
			e.logEntry(pos.Symbol).WithField("panic", r).Error("Evaluation failed, symbol skipped for this cycle.")
		}
	}()

	pos.ProfitPct = ProfitPct(pos, e.cfg.Bot.Leverage)
	peak := e.store.Observe(pos.Symbol, pos.ProfitPct)
	tier := Classify(peak, e.cfg.Bot)
	dec := Decide(pos, peak, tier, e.cfg.Bot)

	if dec.Action == ActionClose {
		e.closePosition(ctx, pos, dec)
		return
	}

	// Keep the log quiet while a position idles near break-even.
	if pos.ProfitPct > 5 || pos.ProfitPct < -5 {
		e.logEntry(pos.Symbol).WithFields(map[string]interface{}{
			"side":   pos.Side,
			"profit": fmt.Sprintf("%.2f", pos.ProfitPct),
			"peak":   fmt.Sprintf("%.2f", peak),
			"tier":   tier.String(),
		}).Info("Monitoring.")
	}
}

func (e *Engine) closePosition(ctx context.Context, pos models.Position, dec Decision) {
	entry := e.logEntry(pos.Symbol).WithFields(map[string]interface{}{
		"side":   pos.Side,
		"size":   pos.Size,
		"reason": dec.Reason,
	})

	if e.cfg.Runtime.DryRun {
		entry.Info("Dry run, close order suppressed.")
		return
	}

	entry.Info("Closing position.")
	err := e.client.ClosePosition(ctx, exchange.CloseRequest{
		Symbol:      pos.Symbol,
		Side:        pos.Side,
		Size:        pos.Size,
		SlippagePct: e.cfg.Bot.SlippagePct,
		Reason:      dec.Reason,
	})
	if err != nil {
		mtxCloseErrors.Inc()
		entry.WithError(err).Error("Close order failed, trailing state kept so the next cycle retries.")
		e.alert(ctx, fmt.Sprintf("close failed for %s: %v (%s)", pos.Symbol, err, dec.Reason))
		return
	}

	mtxCloses.WithLabelValues(dec.Cause).Inc()
	entry.Info("Position closed.")
	e.store.Evict(pos.Symbol)
	e.alert(ctx, fmt.Sprintf("closed %s %s: %s", pos.Symbol, pos.Side, dec.Reason))
}

// alert is fire-and-forget: a failed delivery is logged and never feeds back
// into the decision pipeline.
func (e *Engine) alert(ctx context.Context, message string) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.Notify(ctx, message); err != nil {
		e.logEntry("").WithError(err).Warn("Alert delivery failed.")
	}
}

func (e *Engine) logEntry(symbol string) *logrus.Entry {
	entry := e.log.WithComponent("engine")
	if symbol != "" {
		entry = entry.WithField("symbol", symbol)
	}
	return entry
}
