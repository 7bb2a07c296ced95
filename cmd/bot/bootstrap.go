package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/priyankkodesianetspi/algo-bot/internal/broker/brokerobs"
	"github.com/priyankkodesianetspi/algo-bot/internal/broker/kite"
	"github.com/priyankkodesianetspi/algo-bot/internal/engine"
	"github.com/priyankkodesianetspi/algo-bot/internal/engine/engineobs"
	"github.com/priyankkodesianetspi/algo-bot/internal/interfaces"
	"github.com/priyankkodesianetspi/algo-bot/internal/ledger"
	"github.com/priyankkodesianetspi/algo-bot/internal/logger"
	"github.com/priyankkodesianetspi/algo-bot/internal/news"
	"github.com/priyankkodesianetspi/algo-bot/internal/oracle/consensus"
	"github.com/priyankkodesianetspi/algo-bot/internal/oracle/noop"
	"github.com/priyankkodesianetspi/algo-bot/internal/oracle/openai"
	"github.com/priyankkodesianetspi/algo-bot/internal/oracle/oracleobs"
	"github.com/priyankkodesianetspi/algo-bot/internal/store"
	"github.com/priyankkodesianetspi/algo-bot/internal/trace"
)

// initializeSystem loads .env and brings up logging and tracing
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads and returns the configuration
func loadConfig(ctx context.Context) (*store.Config, error) {
	cfg, err := store.LoadConfig("config.yaml")
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// initializeBroker builds the Kite gateway with observability middleware
func initializeBroker(ctx context.Context, cfg *store.Config) interfaces.Broker {
	brk := kite.New(kite.Params{
		Mode:      cfg.Mode,
		APIKey:    os.Getenv("KITE_API_KEY"),
		APISecret: os.Getenv("KITE_API_SECRET"),
		Exchange:  cfg.Exchange,
		Product:   cfg.Order.Product,
		Interval:  cfg.Candles.Interval,
		Lookback:  cfg.Candles.Days,
		Timeout:   time.Duration(cfg.Order.Timeout) * time.Second,
	})

	if cfg.Mode == "DRY_RUN" {
		logger.Warn(ctx, "Running in DRY_RUN mode - orders will be simulated")
	}

	return brokerobs.Wrap(brk)
}

// initializeOracle selects the recommendation provider. With consensus
// enabled, two models must agree before a signal is actionable.
func initializeOracle(ctx context.Context, cfg *store.Config) interfaces.Oracle {
	var orc interfaces.Oracle

	switch cfg.Oracle.Provider {
	case "OPENAI":
		primary := openai.New(openai.Params{
			BaseURL:     cfg.Oracle.BaseURL,
			APIKey:      os.Getenv("OPENAI_API_KEY"),
			Model:       cfg.Oracle.Model,
			Temperature: cfg.Oracle.Temperature,
			MaxTokens:   cfg.Oracle.MaxTokens,
		})
		orc = primary

		if cfg.Oracle.Consensus {
			online := openai.New(openai.Params{
				BaseURL:     cfg.Oracle.OnlineBaseURL,
				APIKey:      onlineAPIKey(),
				Model:       cfg.Oracle.OnlineModel,
				Temperature: cfg.Oracle.Temperature,
				MaxTokens:   cfg.Oracle.MaxTokens,
			})
			orc = consensus.New(primary, online, cfg.Oracle.MinConfidence)
			logger.Info(ctx, "Consensus oracle enabled",
				"primary", cfg.Oracle.Model, "online", cfg.Oracle.OnlineModel)
		}
	default:
		orc = noop.New()
		logger.Warn(ctx, "No oracle provider configured - using noop oracle (never trades)")
	}

	return oracleobs.Wrap(orc)
}

// initializeNews builds the news rating service, or nil when disabled
func initializeNews(ctx context.Context, cfg *store.Config) interfaces.NewsRater {
	if !cfg.News.Enabled {
		logger.Info(ctx, "News rating disabled")
		return nil
	}

	rater := news.NewRater(news.RaterParams{
		BaseURL:     cfg.Oracle.OnlineBaseURL,
		APIKey:      onlineAPIKey(),
		Model:       cfg.Oracle.OnlineModel,
		Temperature: cfg.Oracle.Temperature,
	})

	svcCfg := news.DefaultServiceConfig()
	svcCfg.MaxArticles = cfg.News.MaxArticles
	return news.NewService(rater, svcCfg)
}

// initializeEngine builds the trading engine with observability middleware
func initializeEngine(cfg *store.Config, brk interfaces.Broker, led *ledger.Ledger, orc interfaces.Oracle, rater interfaces.NewsRater) (interfaces.Engine, error) {
	eng, err := engine.New(cfg, brk, led, orc, rater, os.Getenv("PASSPHRASE"))
	if err != nil {
		return nil, err
	}
	return engineobs.Wrap(eng), nil
}

// onlineAPIKey prefers the dedicated key for the online model and falls
// back to the OpenAI key when both run on one account.
func onlineAPIKey() string {
	if key := os.Getenv("ONLINE_API_KEY"); key != "" {
		return key
	}
	return os.Getenv("OPENAI_API_KEY")
}
