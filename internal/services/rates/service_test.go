package rates

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	rates map[string]decimal.Decimal
}

func newMemoryCache() *memoryCache {
	return &memoryCache{rates: make(map[string]decimal.Decimal)}
}

func (c *memoryCache) GetRate(_ context.Context, from, to string) (decimal.Decimal, bool) {
	rate, ok := c.rates[from+"/"+to]
	return rate, ok
}

func (c *memoryCache) CacheRate(_ context.Context, from, to string, rate decimal.Decimal, _ time.Duration) error {
	c.rates[from+"/"+to] = rate
	return nil
}

func TestResolve_SameCurrency(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	svc := NewService(Config{BaseURL: server.URL}, nil)

	rate, err := svc.Resolve(context.Background(), "MYR", "MYR")
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.New(1, 0)))
	assert.Zero(t, calls, "same-currency resolution never hits the provider")
}

func TestResolve_ProviderRate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "MYR", r.URL.Query().Get("from"))
		assert.Equal(t, "SGD", r.URL.Query().Get("to"))
		fmt.Fprint(w, `{"base":"MYR","rates":{"SGD":0.3012345678}}`)
	}))
	defer server.Close()

	svc := NewService(Config{BaseURL: server.URL}, nil)

	rate, err := svc.Resolve(context.Background(), "MYR", "SGD")
	require.NoError(t, err)
	assert.Equal(t, "0.301235", rate.StringFixed(6), "rates round to six decimals")
}

func TestResolve_CacheHitSkipsProvider(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"rates":{"SGD":0.30}}`)
	}))
	defer server.Close()

	cache := newMemoryCache()
	svc := NewService(Config{BaseURL: server.URL}, cache)

	first, err := svc.Resolve(context.Background(), "MYR", "SGD")
	require.NoError(t, err)
	second, err := svc.Resolve(context.Background(), "MYR", "SGD")
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
	assert.Equal(t, 1, calls)
}

func TestResolve_Unavailable(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "provider error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
		},
		{
			name: "pair missing from payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"rates":{"EUR":0.21}}`)
			},
		},
		{
			name: "malformed payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `not json`)
			},
		},
		{
			name: "non-positive rate",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"rates":{"SGD":0}}`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			svc := NewService(Config{BaseURL: server.URL}, nil)
			_, err := svc.Resolve(context.Background(), "MYR", "SGD")
			require.ErrorIs(t, err, ErrRateUnavailable)
		})
	}
}

func TestResolve_ProviderDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	svc := NewService(Config{BaseURL: server.URL}, nil)
	_, err := svc.Resolve(context.Background(), "MYR", "SGD")
	require.ErrorIs(t, err, ErrRateUnavailable)
}

func TestResolve_BoundedTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer func() {
		close(release)
		server.Close()
	}()

	svc := NewService(Config{BaseURL: server.URL, Timeout: 50 * time.Millisecond}, nil)

	start := time.Now()
	_, err := svc.Resolve(context.Background(), "MYR", "SGD")
	require.ErrorIs(t, err, ErrRateUnavailable)
	assert.Less(t, time.Since(start), 5*time.Second, "lookup must not hang")
}
