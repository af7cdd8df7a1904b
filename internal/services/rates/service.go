// Package rates resolves exchange rates between currency pairs from an
// external provider. Resolution failure is explicit: the engine never
// defaults to 1 for differing currencies, callers must supply a manual rate
// when the provider cannot serve the pair.
package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrRateUnavailable signals that the provider could not serve the pair.
	// Callers must prompt for a manual rate rather than assume any default.
	ErrRateUnavailable = errors.New("exchange rate unavailable")
)

// RatePrecision is the number of decimal places a resolved rate is stored at.
const RatePrecision = 6

// DefaultTimeout bounds a single provider lookup so a slow provider can never
// hang a ledger operation.
const DefaultTimeout = 5 * time.Second

// DefaultCacheTTL is how long a resolved pair stays cached.
const DefaultCacheTTL = time.Hour

// Resolver resolves a multiplicative rate for a currency pair.
type Resolver interface {
	// Resolve returns the positive rate converting one unit of from into to.
	// Returns 1 immediately when from == to.
	Resolve(ctx context.Context, from, to string) (decimal.Decimal, error)
}

// RateCache is the subset of the cache service the resolver uses.
type RateCache interface {
	GetRate(ctx context.Context, from, to string) (decimal.Decimal, bool)
	CacheRate(ctx context.Context, from, to string, rate decimal.Decimal, ttl time.Duration) error
}

// Config holds resolver settings.
type Config struct {
	// BaseURL of the rate provider, e.g. https://api.frankfurter.dev/v1.
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

type service struct {
	client   *http.Client
	baseURL  string
	cache    RateCache
	cacheTTL time.Duration
}

// NewService creates a resolver backed by an HTTP provider. Cache may be nil,
// in which case every lookup hits the provider.
func NewService(cfg Config, cache RateCache) Resolver {
	if cfg.BaseURL == "" {
		panic("rate provider base URL is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}

	return &service{
		client:   &http.Client{Timeout: cfg.Timeout},
		baseURL:  cfg.BaseURL,
		cache:    cache,
		cacheTTL: cfg.CacheTTL,
	}
}

func (s *service) Resolve(ctx context.Context, from, to string) (decimal.Decimal, error) {
	if from == to {
		return decimal.New(1, 0), nil
	}

	if s.cache != nil {
		if rate, ok := s.cache.GetRate(ctx, from, to); ok {
			return rate, nil
		}
	}

	rate, err := s.fetch(ctx, from, to)
	if err != nil {
		return decimal.Zero, err
	}

	rate = rate.Round(RatePrecision)
	if s.cache != nil {
		if err := s.cache.CacheRate(ctx, from, to, rate, s.cacheTTL); err != nil {
			// Cache failures degrade to provider lookups, never to errors.
			fmt.Printf("Failed to cache rate %s/%s: %v\n", from, to, err)
		}
	}
	return rate, nil
}

func (s *service) fetch(ctx context.Context, from, to string) (decimal.Decimal, error) {
	addr := fmt.Sprintf("%s/latest?from=%s&to=%s", s.baseURL, url.QueryEscape(from), url.QueryEscape(to))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrRateUnavailable, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrRateUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("%w: provider returned %s", ErrRateUnavailable, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrRateUnavailable, err)
	}

	var payload struct {
		Rates map[string]json.Number `json:"rates"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrRateUnavailable, err)
	}

	raw, ok := payload.Rates[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: no rate for %s/%s", ErrRateUnavailable, from, to)
	}

	rate, err := decimal.NewFromString(raw.String())
	if err != nil || !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: bad rate %q for %s/%s", ErrRateUnavailable, raw.String(), from, to)
	}
	return rate, nil
}
