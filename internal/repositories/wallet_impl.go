package repositories

import (
	"context"
	"errors"
	"fmt"

	"fintrack/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) Create(ctx context.Context, wallet *models.Wallet) error {
	if err := r.db.WithContext(ctx).Create(wallet).Error; err != nil {
		return fmt.Errorf("failed to create wallet: %w", err)
	}
	return nil
}

func (r *walletRepository) GetByID(ctx context.Context, ownerID, id uint) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		First(&wallet, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) GetByIDForUpdate(ctx context.Context, ownerID, id uint) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("owner_id = ?", ownerID).
		First(&wallet, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to lock wallet: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.Wallet, error) {
	var wallets []models.Wallet
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id").
		Find(&wallets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	return wallets, nil
}

func (r *walletRepository) Update(ctx context.Context, wallet *models.Wallet) error {
	if err := r.db.WithContext(ctx).Save(wallet).Error; err != nil {
		return fmt.Errorf("failed to update wallet: %w", err)
	}
	return nil
}

func (r *walletRepository) UpdateBalance(ctx context.Context, id uint, balance decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&models.Wallet{}).
		Where("id = ?", id).
		Update("balance", balance)
	if result.Error != nil {
		return fmt.Errorf("failed to update wallet balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrWalletNotFound
	}
	return nil
}

func (r *walletRepository) Delete(ctx context.Context, ownerID, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Transactions referencing the wallet go first so no orphaned records
		// keep pointing at a wallet that is gone.
		err := tx.Where("owner_id = ? AND (wallet_id = ? OR to_wallet_id = ?)", ownerID, id, id).
			Delete(&models.Transaction{}).Error
		if err != nil {
			return fmt.Errorf("failed to delete wallet transactions: %w", err)
		}

		result := tx.Where("owner_id = ?", ownerID).Delete(&models.Wallet{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete wallet: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrWalletNotFound
		}
		return nil
	})
}
