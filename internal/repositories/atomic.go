package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store bundles the repositories visible inside one transactional boundary.
type Store struct {
	Wallets      WalletRepository
	Transactions TransactionRepository
	Categories   CategoryRepository
}

// Atomic runs a function against a set of repositories as a single unit.
// Either every write inside fn commits, or none do. The ledger engine wraps
// each logical operation (create, reverse-then-reapply update, delete,
// balance correction) in one Transact call so a transfer's two wallet writes
// are never observed half-applied.
type Atomic interface {
	Transact(ctx context.Context, fn func(s Store) error) error
}

type gormAtomic struct {
	db *gorm.DB
}

func NewAtomic(db *gorm.DB) Atomic {
	return &gormAtomic{db: db}
}

func (a *gormAtomic) Transact(ctx context.Context, fn func(s Store) error) error {
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(Store{
			Wallets:      NewWalletRepository(tx),
			Transactions: NewTransactionRepository(tx),
			Categories:   NewCategoryRepository(tx),
		})
	})
}
