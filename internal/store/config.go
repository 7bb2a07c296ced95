package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Mode        string   `yaml:"mode"`        // DRY_RUN or LIVE
	Exchange    string   `yaml:"exchange"`    // e.g. NSE
	PollSeconds int      `yaml:"poll_seconds"`
	Universe    []string `yaml:"universe"`

	Window struct {
		Start string `yaml:"start"` // "09:20", exchange local time (IST)
		End   string `yaml:"end"`   // "15:00"
	} `yaml:"window"`

	Risk struct {
		MaxLoss     float64 `yaml:"max_loss"`      // positive currency amount
		MaxQuantity int     `yaml:"max_quantity"`  // per-order quantity cap
	} `yaml:"risk"`

	Levels struct {
		TargetPct   float64 `yaml:"target_pct"`   // e.g. 0.2
		StopLossPct float64 `yaml:"stoploss_pct"` // e.g. 1.0
		Tick        float64 `yaml:"tick"`         // instrument tick size
	} `yaml:"levels"`

	Order struct {
		Kind    string `yaml:"kind"`    // MARKET or LIMIT entry legs
		Product string `yaml:"product"` // e.g. MIS
		Timeout int    `yaml:"timeout_seconds"`
	} `yaml:"order"`

	Oracle struct {
		Provider      string  `yaml:"provider"` // OPENAI or NOOP
		Model         string  `yaml:"model"`
		OnlineModel   string  `yaml:"online_model"` // second model for consensus
		BaseURL       string  `yaml:"base_url"`
		OnlineBaseURL string  `yaml:"online_base_url"`
		MaxTokens     int     `yaml:"max_tokens"`
		Temperature   float32 `yaml:"temperature"`
		MinConfidence float64 `yaml:"min_confidence"`
		Consensus     bool    `yaml:"consensus"`
	} `yaml:"oracle"`

	News struct {
		Enabled     bool `yaml:"enabled"`
		MaxArticles int  `yaml:"max_articles"`
	} `yaml:"news"`

	Webhook struct {
		Addr string `yaml:"addr"`
	} `yaml:"webhook"`

	Candles struct {
		Interval string `yaml:"interval"` // e.g. 15minute
		Days     int    `yaml:"days"`     // lookback window
		Series   int    `yaml:"series"`   // candles handed to the oracle
	} `yaml:"candles"`
}

func (c *Config) Validate() error {
	if c.Mode != "DRY_RUN" && c.Mode != "LIVE" {
		return fmt.Errorf("invalid mode '%s': must be 'DRY_RUN' or 'LIVE'", c.Mode)
	}
	if len(c.Universe) == 0 {
		return fmt.Errorf("universe cannot be empty")
	}
	if c.Order.Kind != "MARKET" && c.Order.Kind != "LIMIT" {
		return fmt.Errorf("order.kind must be 'MARKET' or 'LIMIT', got '%s'", c.Order.Kind)
	}
	if c.Levels.TargetPct <= 0 || c.Levels.StopLossPct <= 0 {
		return fmt.Errorf("levels.target_pct and levels.stoploss_pct must be positive")
	}
	if c.Levels.Tick <= 0 {
		return fmt.Errorf("levels.tick must be positive, got %v", c.Levels.Tick)
	}
	if c.Risk.MaxLoss < 0 {
		return fmt.Errorf("risk.max_loss must be a positive amount, got %v", c.Risk.MaxLoss)
	}
	if c.Candles.Series < 1 {
		return fmt.Errorf("candles.series must be at least 1, got %d", c.Candles.Series)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.PollSeconds == 0 {
		c.PollSeconds = 900 // one 15-minute candle
	}
	if c.Exchange == "" {
		c.Exchange = "NSE"
	}
	if c.Window.Start == "" {
		c.Window.Start = "09:20"
	}
	if c.Window.End == "" {
		c.Window.End = "15:00"
	}
	if c.Risk.MaxQuantity == 0 {
		c.Risk.MaxQuantity = 1000
	}
	if c.Levels.Tick == 0 {
		c.Levels.Tick = 0.05
	}
	if c.Order.Kind == "" {
		c.Order.Kind = "LIMIT"
	}
	if c.Order.Product == "" {
		c.Order.Product = "MIS"
	}
	if c.Order.Timeout == 0 {
		c.Order.Timeout = 10
	}
	if c.Oracle.MinConfidence == 0 {
		c.Oracle.MinConfidence = 0.75
	}
	if c.Oracle.MaxTokens == 0 {
		c.Oracle.MaxTokens = 4096
	}
	if c.News.MaxArticles == 0 {
		c.News.MaxArticles = 10
	}
	if c.Webhook.Addr == "" {
		c.Webhook.Addr = ":8080"
	}
	if c.Candles.Interval == "" {
		c.Candles.Interval = "15minute"
	}
	if c.Candles.Days == 0 {
		c.Candles.Days = 7
	}
	if c.Candles.Series == 0 {
		c.Candles.Series = 50
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
