package repositories

import (
	"context"
	"errors"
	"fmt"

	"fintrack/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) GetByID(ctx context.Context, ownerID, id uint) (*models.Transaction, error) {
	var tx models.Transaction
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		First(&tx, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &tx, nil
}

func (r *transactionRepository) ListByOwner(ctx context.Context, ownerID uint, limit, offset int) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("date DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

func (r *transactionRepository) ListByWallet(ctx context.Context, ownerID, walletID uint, limit, offset int) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND (wallet_id = ? OR to_wallet_id = ?)", ownerID, walletID, walletID).
		Order("date DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list wallet transactions: %w", err)
	}
	return txs, nil
}

func (r *transactionRepository) Update(ctx context.Context, tx *models.Transaction) error {
	// Save writes every column, including conversion fields cleared to nil.
	if err := r.db.WithContext(ctx).Save(tx).Error; err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) Delete(ctx context.Context, ownerID, id uint) error {
	result := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Delete(&models.Transaction{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

func (r *transactionRepository) SumEffectsByWallet(ctx context.Context, ownerID, walletID uint) (decimal.Decimal, error) {
	var out string
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("owner_id = ? AND (wallet_id = ? OR to_wallet_id = ?)", ownerID, walletID, walletID).
		Select(`COALESCE(SUM(
			CASE
				WHEN wallet_id = ? AND type = 'income' THEN amount
				WHEN wallet_id = ? THEN -amount
				ELSE COALESCE(to_wallet_amount, amount)
			END), 0)`, walletID, walletID).
		Scan(&out).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum wallet effects: %w", err)
	}
	sum, err := decimal.NewFromString(out)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse wallet effect sum: %w", err)
	}
	return sum, nil
}
