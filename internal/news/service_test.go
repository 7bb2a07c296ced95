package news

import (
	"context"
	"testing"
	"time"
)

func TestRatingCache(t *testing.T) {
	cache := newRatingCache(1 * time.Second)

	cache.set("RELIANCE", 4)

	rating, found := cache.get("RELIANCE")
	if !found {
		t.Fatal("Expected to find cached rating")
	}
	if rating != 4 {
		t.Errorf("Expected rating 4, got %d", rating)
	}

	// Test expiration
	time.Sleep(1100 * time.Millisecond)
	if _, found = cache.get("RELIANCE"); found {
		t.Error("Expected cache entry to be expired")
	}
}

func TestCacheCleanup(t *testing.T) {
	cache := newRatingCache(50 * time.Millisecond)

	for _, sym := range []string{"SBIN", "TCS", "INFY"} {
		cache.set(sym, 3)
	}

	time.Sleep(100 * time.Millisecond)
	cache.cleanup()

	cache.mu.RLock()
	count := len(cache.data)
	cache.mu.RUnlock()

	if count != 0 {
		t.Errorf("Expected 0 cache entries after cleanup, got %d", count)
	}
}

func TestServiceDisabled(t *testing.T) {
	svc := NewService(nil, &ServiceConfig{Enabled: false})

	rating, err := svc.Rating(context.Background(), "RELIANCE")
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if rating != 0 {
		t.Errorf("Expected rating 0 when disabled, got %d", rating)
	}
}

func TestDefaultServiceConfig(t *testing.T) {
	cfg := DefaultServiceConfig()

	if cfg.MaxArticles != 10 {
		t.Errorf("Expected MaxArticles to be 10, got %d", cfg.MaxArticles)
	}
	if cfg.CacheDuration != 1*time.Hour {
		t.Errorf("Expected CacheDuration to be 1 hour, got %v", cfg.CacheDuration)
	}
	if !cfg.Enabled {
		t.Error("Expected Enabled to be true")
	}
}

func TestParseRating(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{`{"rating": 4}`, 4, true},
		{"```json\n{\"rating\": 2}\n```", 2, true},
		{`The news looks mixed. {"rating":3}`, 3, true},
		{`{"rating": 9}`, 0, false},
		{`no json here`, 0, false},
	}
	for _, tc := range cases {
		got, err := parseRating(tc.in)
		if tc.ok && err != nil {
			t.Errorf("parseRating(%q): unexpected error %v", tc.in, err)
			continue
		}
		if !tc.ok && err == nil {
			t.Errorf("parseRating(%q): expected error", tc.in)
			continue
		}
		if got != tc.want {
			t.Errorf("parseRating(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
