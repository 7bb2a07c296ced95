package news

import (
	"context"
	"sync"
	"time"

	"github.com/priyankkodesianetspi/algo-bot/internal/interfaces"
	"github.com/priyankkodesianetspi/algo-bot/internal/logger"
)

// Service scrapes and rates news for a symbol, with caching so one poll
// cycle does not hammer the sources for every symbol every tick.
type Service struct {
	scraper *Scraper
	rater   *Rater
	cache   *ratingCache
	cfg     *ServiceConfig
}

var _ interfaces.NewsRater = (*Service)(nil)

// ServiceConfig configures the news rating service
type ServiceConfig struct {
	MaxArticles    int           // Maximum articles to scrape per symbol
	CacheDuration  time.Duration // How long to cache ratings
	ScraperTimeout time.Duration // Timeout for scraping operations
	Enabled        bool          // Whether news rating is enabled
}

// DefaultServiceConfig returns default configuration
func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		MaxArticles:    10,
		CacheDuration:  1 * time.Hour,
		ScraperTimeout: 30 * time.Second,
		Enabled:        true,
	}
}

// ratingCache stores ratings temporarily
type ratingCache struct {
	mu   sync.RWMutex
	data map[string]*cacheEntry
	ttl  time.Duration
}

type cacheEntry struct {
	rating    int
	timestamp time.Time
}

func newRatingCache(ttl time.Duration) *ratingCache {
	cache := &ratingCache{
		data: make(map[string]*cacheEntry),
		ttl:  ttl,
	}

	go cache.cleanupLoop()

	return cache
}

func (c *ratingCache) get(symbol string) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.data[symbol]
	if !exists {
		return 0, false
	}
	if time.Since(entry.timestamp) > c.ttl {
		return 0, false
	}
	return entry.rating, true
}

func (c *ratingCache) set(symbol string, rating int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[symbol] = &cacheEntry{
		rating:    rating,
		timestamp: time.Now(),
	}
}

func (c *ratingCache) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanup()
	}
}

func (c *ratingCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for symbol, entry := range c.data {
		if now.Sub(entry.timestamp) > c.ttl {
			delete(c.data, symbol)
		}
	}
}

// NewService creates a news rating service
func NewService(rater *Rater, cfg *ServiceConfig) *Service {
	if cfg == nil {
		cfg = DefaultServiceConfig()
	}

	return &Service{
		scraper: NewScraper(cfg.ScraperTimeout),
		rater:   rater,
		cache:   newRatingCache(cfg.CacheDuration),
		cfg:     cfg,
	}
}

// Rating returns the 0-5 news rating for a symbol, 0 meaning "nothing
// known". Errors degrade to 0 so a broken news source never blocks trading.
func (s *Service) Rating(ctx context.Context, symbol string) (int, error) {
	if !s.cfg.Enabled {
		return 0, nil
	}

	if cached, ok := s.cache.get(symbol); ok {
		logger.Debug(ctx, "Using cached news rating", "symbol", symbol, "rating", cached)
		return cached, nil
	}

	rating, err := s.fetchFreshRating(ctx, symbol)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to rate news", err, "symbol", symbol)
		return 0, nil
	}

	s.cache.set(symbol, rating)
	return rating, nil
}

func (s *Service) fetchFreshRating(ctx context.Context, symbol string) (int, error) {
	articles, err := s.scraper.Scrape(ctx, symbol, s.cfg.MaxArticles)
	if err != nil {
		return 0, err
	}
	if len(articles) == 0 {
		return 0, nil
	}

	// Thin listing summaries get backfilled from the article page
	for i := range articles {
		if len(articles[i].Summary) < 100 {
			if body := s.scraper.FetchArticleBody(ctx, articles[i].URL); body != "" {
				articles[i].Summary = truncate(body, 600)
			}
		}
	}

	return s.rater.Rate(ctx, symbol, articles)
}

// ClearCache removes all cached ratings
func (s *Service) ClearCache() {
	s.cache.mu.Lock()
	defer s.cache.mu.Unlock()
	s.cache.data = make(map[string]*cacheEntry)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
