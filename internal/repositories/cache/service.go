package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fintrack/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// CacheService wraps a Redis client with JSON serialization and the
// application-specific key schema.
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations

func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

// Get fills dest and reports whether the key was present.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// Wallet caching

func walletKey(ownerID, walletID uint) string {
	return fmt.Sprintf("wallet:%d:%d", ownerID, walletID)
}

func (s *CacheService) CacheWallet(ctx context.Context, wallet *models.Wallet) error {
	if wallet == nil {
		return nil
	}
	return s.Set(ctx, walletKey(wallet.OwnerID, wallet.ID), wallet)
}

func (s *CacheService) GetWallet(ctx context.Context, ownerID, walletID uint) (*models.Wallet, bool) {
	var wallet models.Wallet
	found, err := s.Get(ctx, walletKey(ownerID, walletID), &wallet)
	if err != nil || !found {
		return nil, false
	}
	return &wallet, true
}

func (s *CacheService) InvalidateWallet(ctx context.Context, ownerID, walletID uint) error {
	return s.Delete(ctx, walletKey(ownerID, walletID))
}

// Exchange rate caching

func rateKey(from, to string) string {
	return fmt.Sprintf("rate:%s:%s", from, to)
}

func (s *CacheService) CacheRate(ctx context.Context, from, to string, rate decimal.Decimal, ttl time.Duration) error {
	return s.SetWithTTL(ctx, rateKey(from, to), rate, ttl)
}

func (s *CacheService) GetRate(ctx context.Context, from, to string) (decimal.Decimal, bool) {
	var rate decimal.Decimal
	found, err := s.Get(ctx, rateKey(from, to), &rate)
	if err != nil || !found {
		return decimal.Zero, false
	}
	return rate, true
}

// Lifecycle

func (s *CacheService) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

func (s *CacheService) Close() error {
	return s.client.Close()
}
