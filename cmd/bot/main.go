package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/priyankkodesianetspi/algo-bot/internal/interfaces"
	"github.com/priyankkodesianetspi/algo-bot/internal/ledger"
	"github.com/priyankkodesianetspi/algo-bot/internal/logger"
	"github.com/priyankkodesianetspi/algo-bot/internal/store"
	"github.com/priyankkodesianetspi/algo-bot/internal/trace"
	"github.com/priyankkodesianetspi/algo-bot/internal/webhook"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	must(initializeSystem())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := loadConfig(ctx)
	must(err)

	brk := initializeBroker(ctx, cfg)
	led := ledger.New(os.Getenv("BOT_DATA_DIR"))
	orc := initializeOracle(ctx, cfg)
	rater := initializeNews(ctx, cfg)

	eng, err := initializeEngine(cfg, brk, led, orc, rater)
	must(err)

	ws := webhook.NewServer(cfg.Webhook.Addr, eng, brk, led)
	go func() {
		if err := ws.Start(); err != nil {
			logger.ErrorWithErr(ctx, "Webhook server failed", err)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	tick := time.NewTicker(time.Duration(cfg.PollSeconds) * time.Second)
	defer tick.Stop()
	eodTick := time.NewTicker(60 * time.Second)
	defer eodTick.Stop()

	logger.Info(ctx, "Bot started",
		"mode", cfg.Mode,
		"symbols", len(cfg.Universe),
		"poll_seconds", cfg.PollSeconds,
		"webhook", cfg.Webhook.Addr,
	)

	for {
		select {
		case <-tick.C:
			runCycle(ctx, cfg, eng)
		case <-eodTick.C:
			if ok, _ := led.ShouldRunNow(); ok {
				if p, err := led.SummarizeToday(); err == nil && p != "" {
					logger.Info(ctx, "EOD report written", "path", p)
				}
			}
		case <-sigc:
			logger.Info(ctx, "Shutting down...")
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			if err := ws.Shutdown(shutdownCtx); err != nil {
				logger.ErrorWithErr(ctx, "Webhook shutdown failed", err)
			}
			done()
			if p, err := led.SummarizeToday(); err == nil && p != "" {
				logger.Info(ctx, "EOD report written", "path", p)
			}
			_ = trace.Shutdown(context.Background())
			return
		case <-ctx.Done():
			return
		}
	}
}

// runCycle evaluates the whole universe concurrently and waits for every
// symbol to finish before the next tick can start a new cycle.
func runCycle(ctx context.Context, cfg *store.Config, eng interfaces.Engine) {
	var wg sync.WaitGroup
	for _, sym := range cfg.Universe {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			st, err := eng.Step(ctx, symbol)
			if err != nil {
				logger.ErrorWithErr(ctx, "Step failed", err, "symbol", symbol)
				return
			}
			if st != nil {
				b, _ := json.Marshal(st)
				fmt.Println(string(b))
			}
		}(sym)
	}
	wg.Wait()
}
