package repositories

import (
	"context"

	"fintrack/internal/models"

	"github.com/shopspring/decimal"
)

// TransactionRepository defines the interface for transaction-related
// database operations, scoped to an owner.
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, ownerID, id uint) (*models.Transaction, error)
	ListByOwner(ctx context.Context, ownerID uint, limit, offset int) ([]models.Transaction, error)
	ListByWallet(ctx context.Context, ownerID, walletID uint, limit, offset int) ([]models.Transaction, error)
	Update(ctx context.Context, tx *models.Transaction) error
	// Delete removes the record permanently. There is no soft-delete: the
	// only transaction states are "exists" and "gone".
	Delete(ctx context.Context, ownerID, id uint) error
	// SumEffectsByWallet returns the summed signed effect of every stored
	// transaction on the given wallet: income adds, expense subtracts,
	// transfers subtract from the source and add to the destination.
	SumEffectsByWallet(ctx context.Context, ownerID, walletID uint) (decimal.Decimal, error)
}
