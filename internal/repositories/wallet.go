package repositories

import (
	"context"
	"errors"

	"fintrack/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrCategoryNotFound    = errors.New("category not found")
)

// WalletRepository defines the interface for wallet-related database
// operations. All reads are scoped to an owner; a wallet belonging to a
// different owner behaves as if it did not exist.
type WalletRepository interface {
	Create(ctx context.Context, wallet *models.Wallet) error
	GetByID(ctx context.Context, ownerID, id uint) (*models.Wallet, error)
	// GetByIDForUpdate fetches the wallet with a row-level lock. Only
	// meaningful inside a Transact boundary.
	GetByIDForUpdate(ctx context.Context, ownerID, id uint) (*models.Wallet, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]models.Wallet, error)
	Update(ctx context.Context, wallet *models.Wallet) error
	UpdateBalance(ctx context.Context, id uint, balance decimal.Decimal) error
	// Delete removes the wallet and cascades to its transactions.
	Delete(ctx context.Context, ownerID, id uint) error
}
