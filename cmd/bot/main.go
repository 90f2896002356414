package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"trailbot/internal/config"
	"trailbot/internal/engine"
	"trailbot/internal/exchange/bybit"
	"trailbot/internal/logger"
	"trailbot/internal/notify"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(logger.Config{
		Level:      cfg.Runtime.Log.Level,
		Format:     cfg.Runtime.Log.Format,
		Output:     cfg.Runtime.Log.File,
		MaxSize:    cfg.Runtime.Log.MaxSize,
		MaxBackups: cfg.Runtime.Log.MaxBackups,
		MaxAge:     cfg.Runtime.Log.MaxAge,
		Compress:   cfg.Runtime.Log.Compress,
	})

	log.Info("Trailbot started.")

	client := bybit.New(cfg.Exchange.BaseUrl, cfg.Exchange.ApiKey, cfg.Exchange.Secret, cfg.Exchange.HTTPTimeout, log)
	notifier := notify.NewFeishu(cfg.Runtime.FeishuWebhook, cfg.Exchange.HTTPTimeout)
	store := engine.NewTrailingStore()
	hb := engine.NewHeartbeat()
	eng := engine.New(cfg, client, notifier, store, hb, log)
	dog := engine.NewWatchdog(hb, cfg.Runtime.Watchdog.CheckInterval, cfg.Runtime.Watchdog.Timeout, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Runtime.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.Runtime.MetricsAddr, mux); err != nil {
				log.WithError(err).Error("Metrics server stopped.")
			}
		}()
	}

	go dog.Run(ctx)

	go func() {
		if err := eng.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Fatal("Monitoring stopped unexpectedly.")
		}
	}()

	<-sigCh
	cancel()
	log.Info("Trailbot stopped.")
}
