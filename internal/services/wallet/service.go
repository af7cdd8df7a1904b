// Package wallet provides wallet management: creation, reads with caching,
// listing, and deletion with cascade to the wallet's transactions. Balance
// mutations belong to the ledger engine, not this package.
package wallet

import (
	"context"
	"errors"
	"fmt"

	"fintrack/internal/models"
	"fintrack/internal/repositories"
	"fintrack/internal/repositories/cache"

	"github.com/shopspring/decimal"
)

var (
	ErrWalletNotFound  = errors.New("wallet not found")
	ErrInvalidName     = errors.New("wallet name is required")
	ErrInvalidType     = errors.New("invalid wallet type")
	ErrInvalidCurrency = errors.New("currency must be a 3-letter code")
)

// CreateInput holds the user-entered fields for a new wallet.
type CreateInput struct {
	Name                  string
	Type                  string
	Currency              string
	Balance               decimal.Decimal
	ExchangeRateToDefault decimal.Decimal
	IsDefault             bool
	IsFlexible            bool
}

// Service is the wallet management interface exposed to the API layer.
type Service interface {
	Create(ctx context.Context, ownerID uint, input CreateInput) (*models.Wallet, error)
	Get(ctx context.Context, ownerID, id uint) (*models.Wallet, error)
	List(ctx context.Context, ownerID uint) ([]models.Wallet, error)
	Delete(ctx context.Context, ownerID, id uint) error
}

type service struct {
	store repositories.Atomic
	repo  repositories.WalletRepository
	cache *cache.CacheService
}

// NewService creates a new wallet service. Cache may be nil.
func NewService(store repositories.Atomic, repo repositories.WalletRepository, cacheService *cache.CacheService) Service {
	if store == nil {
		panic("store is required")
	}
	if repo == nil {
		panic("repo is required")
	}
	return &service{store: store, repo: repo, cache: cacheService}
}

func (s *service) Create(ctx context.Context, ownerID uint, input CreateInput) (*models.Wallet, error) {
	if input.Name == "" {
		return nil, ErrInvalidName
	}
	if input.Type == "" {
		input.Type = models.WalletTypeCash
	}
	if !models.ValidWalletType(input.Type) {
		return nil, ErrInvalidType
	}
	if len(input.Currency) != 3 {
		return nil, ErrInvalidCurrency
	}

	rate := input.ExchangeRateToDefault
	if rate.IsZero() {
		rate = decimal.New(1, 0)
	}

	// The first wallet an owner creates becomes the default; a later wallet
	// created with IsDefault takes the flag over. The handover and the create
	// run in one transaction so the owner always has exactly one default.
	var created *models.Wallet
	var demoted []uint
	err := s.store.Transact(ctx, func(st repositories.Store) error {
		existing, err := st.Wallets.ListByOwner(ctx, ownerID)
		if err != nil {
			return err
		}
		isDefault := input.IsDefault || len(existing) == 0

		if isDefault {
			for i := range existing {
				if !existing[i].IsDefault {
					continue
				}
				existing[i].IsDefault = false
				if err := st.Wallets.Update(ctx, &existing[i]); err != nil {
					return err
				}
				demoted = append(demoted, existing[i].ID)
			}
		}

		wallet := &models.Wallet{
			OwnerID:               ownerID,
			Name:                  input.Name,
			Type:                  input.Type,
			Currency:              input.Currency,
			Balance:               input.Balance.Round(2),
			ExchangeRateToDefault: rate.Round(6),
			IsDefault:             isDefault,
			IsFlexible:            input.IsFlexible,
		}
		if err := st.Wallets.Create(ctx, wallet); err != nil {
			return err
		}
		created = wallet
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, id := range demoted {
		s.invalidate(ctx, ownerID, id)
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, ownerID, id uint) (*models.Wallet, error) {
	if s.cache != nil {
		if wallet, ok := s.cache.GetWallet(ctx, ownerID, id); ok {
			return wallet, nil
		}
	}

	wallet, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.CacheWallet(ctx, wallet); err != nil {
			fmt.Printf("Failed to cache wallet %d: %v\n", wallet.ID, err)
		}
	}
	return wallet, nil
}

func (s *service) List(ctx context.Context, ownerID uint) ([]models.Wallet, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// Delete removes the wallet and its transactions. Deleting the default wallet
// promotes the oldest surviving wallet, keeping exactly one default per owner
// for as long as the owner has wallets at all.
func (s *service) Delete(ctx context.Context, ownerID, id uint) error {
	var promoted *uint
	err := s.store.Transact(ctx, func(st repositories.Store) error {
		wallet, err := st.Wallets.GetByIDForUpdate(ctx, ownerID, id)
		if err != nil {
			return err
		}

		if err := st.Wallets.Delete(ctx, ownerID, id); err != nil {
			return err
		}
		if !wallet.IsDefault {
			return nil
		}

		remaining, err := st.Wallets.ListByOwner(ctx, ownerID)
		if err != nil {
			return err
		}
		var successor *models.Wallet
		for i := range remaining {
			if successor == nil || remaining[i].ID < successor.ID {
				successor = &remaining[i]
			}
		}
		if successor == nil {
			return nil
		}

		successor.IsDefault = true
		if err := st.Wallets.Update(ctx, successor); err != nil {
			return err
		}
		promoted = &successor.ID
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return ErrWalletNotFound
		}
		return err
	}

	s.invalidate(ctx, ownerID, id)
	if promoted != nil {
		s.invalidate(ctx, ownerID, *promoted)
	}
	return nil
}

func (s *service) invalidate(ctx context.Context, ownerID, id uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateWallet(ctx, ownerID, id); err != nil {
		fmt.Printf("Failed to invalidate wallet cache %d: %v\n", id, err)
	}
}
