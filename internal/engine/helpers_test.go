package engine

import (
	"context"
	"time"
	"trailbot/internal/config"
	"trailbot/internal/exchange"
	"trailbot/internal/models"
)

func testBotConfig() config.BotConfig {
	return config.BotConfig{
		Leverage:         10,
		HardStopLossPct:  10,
		LowThreshold:     5,
		Tier1Threshold:   15,
		Tier2Threshold:   30,
		LowRetracement:   0.5,
		Tier1Retracement: 0.3,
		Tier2Retracement: 0.15,
		MonitorInterval:  4 * time.Second,
		SlippagePct:      2,
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Bot: testBotConfig(),
		Exchange: config.ExchangeConfig{
			HTTPTimeout: 15 * time.Second,
		},
		Runtime: config.RuntimeConfig{
			Watchdog: config.WatchdogConfig{
				CheckInterval: 5 * time.Second,
				Timeout:       60 * time.Second,
			},
		},
	}
}

// position returns a test position whose margin is exactly 100 USDT
// (size 100 * entry 10 / leverage 10), so profitPct equals the pnl value.
func position(symbol string, pnl float64) models.Position {
	return models.Position{
		Symbol:        symbol,
		Side:          models.SideLong,
		Size:          100,
		EntryPrice:    10,
		MarkPrice:     10,
		UnrealizedPnl: pnl,
		Leverage:      10,
	}
}

type fetchResult struct {
	positions []models.Position
	err       error
}

type fakeClient struct {
	results []fetchResult
	cursor  int

	closes   []exchange.CloseRequest
	closeErr error
}

func (f *fakeClient) FetchPositions(ctx context.Context) ([]models.Position, error) {
	if f.cursor >= len(f.results) {
		return nil, nil
	}
	res := f.results[f.cursor]
	f.cursor++
	return res.positions, res.err
}

func (f *fakeClient) ClosePosition(ctx context.Context, req exchange.CloseRequest) error {
	f.closes = append(f.closes, req)
	return f.closeErr
}

type fakeNotifier struct {
	messages []string
	err      error
}

func (f *fakeNotifier) Notify(ctx context.Context, message string) error {
	f.messages = append(f.messages, message)
	return f.err
}
