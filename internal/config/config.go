package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Exchange ExchangeConfig
	Bot      BotConfig
	Runtime  RuntimeConfig
}

type ExchangeConfig struct {
	BaseUrl     string
	ApiKey      string
	Secret      string
	HTTPTimeout time.Duration
}

// BotConfig holds the protection thresholds. Tier thresholds are inclusive
// lower bounds on the high-water-mark profit ratio and must be strictly
// increasing; each tier carries its own retracement fraction.
type BotConfig struct {
	Leverage        float64
	HardStopLossPct float64

	LowThreshold   float64
	Tier1Threshold float64
	Tier2Threshold float64

	LowRetracement   float64
	Tier1Retracement float64
	Tier2Retracement float64

	Blacklist       []string
	MonitorInterval time.Duration
	SlippagePct     float64
}

type RuntimeConfig struct {
	DryRun        bool
	MetricsAddr   string
	FeishuWebhook string
	Watchdog      WatchdogConfig
	Log           LogConfig
}

type WatchdogConfig struct {
	CheckInterval time.Duration
	Timeout       time.Duration
}

type LogConfig struct {
	Level      string
	Format     string
	File       string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

func Load() (*Config, error) {
	viper.AddConfigPath("configs")
	viper.SetConfigName("config")
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}

	cfg.Exchange = ExchangeConfig{
		BaseUrl:     viper.GetString("exchange.base_url"),
		ApiKey:      envSub("exchange.api_key"),
		Secret:      envSub("exchange.secret"),
		HTTPTimeout: time.Duration(viper.GetInt("exchange.http_timeout_sec")) * time.Second,
	}

	cfg.Bot = BotConfig{
		Leverage:         viper.GetFloat64("bot.leverage"),
		HardStopLossPct:  viper.GetFloat64("bot.hard_stop_loss_pct"),
		LowThreshold:     viper.GetFloat64("bot.low_threshold"),
		Tier1Threshold:   viper.GetFloat64("bot.tier1_threshold"),
		Tier2Threshold:   viper.GetFloat64("bot.tier2_threshold"),
		LowRetracement:   viper.GetFloat64("bot.low_retracement"),
		Tier1Retracement: viper.GetFloat64("bot.tier1_retracement"),
		Tier2Retracement: viper.GetFloat64("bot.tier2_retracement"),
		Blacklist:        viper.GetStringSlice("bot.blacklist"),
		MonitorInterval:  time.Duration(viper.GetInt("bot.monitor_interval_sec")) * time.Second,
		SlippagePct:      viper.GetFloat64("bot.slippage_pct"),
	}

	cfg.Runtime = RuntimeConfig{
		DryRun:        viper.GetBool("runtime.dry_run"),
		MetricsAddr:   viper.GetString("runtime.metrics_addr"),
		FeishuWebhook: envSub("runtime.feishu_webhook"),
		Watchdog: WatchdogConfig{
			CheckInterval: time.Duration(viper.GetInt("runtime.watchdog.check_interval_sec")) * time.Second,
			Timeout:       time.Duration(viper.GetInt("runtime.watchdog.timeout_sec")) * time.Second,
		},
		Log: LogConfig{
			Level:      viper.GetString("runtime.log.level"),
			Format:     viper.GetString("runtime.log.format"),
			File:       viper.GetString("runtime.log.file"),
			MaxSize:    viper.GetInt("runtime.log.max_size"),
			MaxBackups: viper.GetInt("runtime.log.max_backups"),
			MaxAge:     viper.GetInt("runtime.log.max_age"),
			Compress:   viper.GetBool("runtime.log.compress"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("exchange.base_url", "https://api.bybit.com")
	viper.SetDefault("exchange.http_timeout_sec", 15)
	viper.SetDefault("bot.leverage", 10)
	viper.SetDefault("bot.monitor_interval_sec", 4)
	viper.SetDefault("bot.slippage_pct", 2)
	viper.SetDefault("runtime.watchdog.check_interval_sec", 5)
	viper.SetDefault("runtime.watchdog.timeout_sec", 60)
	viper.SetDefault("runtime.log.level", "info")
	viper.SetDefault("runtime.log.max_size", 50)
	viper.SetDefault("runtime.log.max_backups", 7)
	viper.SetDefault("runtime.log.max_age", 7)
}

// Validate rejects configurations the decision engine cannot run safely on.
func (c *Config) Validate() error {
	b := c.Bot

	if b.Leverage <= 0 {
		return fmt.Errorf("bot.leverage must be positive, got %v", b.Leverage)
	}
	if b.HardStopLossPct <= 0 {
		return fmt.Errorf("bot.hard_stop_loss_pct must be positive, got %v", b.HardStopLossPct)
	}
	if !(b.LowThreshold < b.Tier1Threshold && b.Tier1Threshold < b.Tier2Threshold) {
		return fmt.Errorf("tier thresholds must be strictly increasing: low=%v tier1=%v tier2=%v",
			b.LowThreshold, b.Tier1Threshold, b.Tier2Threshold)
	}
	for name, r := range map[string]float64{
		"bot.low_retracement":   b.LowRetracement,
		"bot.tier1_retracement": b.Tier1Retracement,
		"bot.tier2_retracement": b.Tier2Retracement,
	} {
		if r <= 0 || r >= 1 {
			return fmt.Errorf("%s must be in (0,1), got %v", name, r)
		}
	}
	if b.MonitorInterval <= 0 {
		return fmt.Errorf("bot.monitor_interval_sec must be positive")
	}
	if b.SlippagePct <= 0 {
		return fmt.Errorf("bot.slippage_pct must be positive, got %v", b.SlippagePct)
	}

	if c.Exchange.HTTPTimeout <= 0 {
		return fmt.Errorf("exchange.http_timeout_sec must be positive")
	}
	if c.Runtime.Watchdog.CheckInterval <= 0 {
		return fmt.Errorf("runtime.watchdog.check_interval_sec must be positive")
	}
	// A hung network call has to hit the HTTP deadline before the watchdog
	// declares the process dead.
	if c.Runtime.Watchdog.Timeout <= c.Exchange.HTTPTimeout {
		return fmt.Errorf("runtime.watchdog.timeout_sec (%s) must exceed exchange.http_timeout_sec (%s)",
			c.Runtime.Watchdog.Timeout, c.Exchange.HTTPTimeout)
	}

	if !c.Runtime.DryRun {
		if c.Exchange.ApiKey == "" || c.Exchange.Secret == "" {
			return fmt.Errorf("exchange.api_key and exchange.secret are required unless runtime.dry_run is set")
		}
	}

	return nil
}

func envSub(key string) string {
	val := viper.GetString(key)
	if val == "" {
		return ""
	}

	re := regexp.MustCompile(`\$\{(\w+)\}`)
	return re.ReplaceAllStringFunc(val, func(match string) string {
		envKey := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		return os.Getenv(envKey)
	})
}
