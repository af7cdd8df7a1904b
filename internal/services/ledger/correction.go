package ledger

import (
	"context"
	"errors"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CorrectBalance forces a wallet's balance to target using one of the four
// correction methods. adjust_income_expense keeps the sum-of-effects
// invariant intact by recording a compensating income or expense; the three
// direct-set methods deliberately break it and rebase the wallet from that
// point forward.
func (s *service) CorrectBalance(ctx context.Context, ownerID, walletID uint, method string, target decimal.Decimal) (*models.Wallet, error) {
	if !ValidCorrectionMethod(method) {
		return nil, ErrInvalidCorrectionMethod
	}
	target = target.Round(AmountPrecision)

	var corrected *models.Wallet
	err := s.store.Transact(ctx, func(st repositories.Store) error {
		wallet, err := st.Wallets.GetByIDForUpdate(ctx, ownerID, walletID)
		if err != nil {
			return translateNotFound(err)
		}

		difference := target.Sub(wallet.Balance)
		if difference.IsZero() {
			corrected = wallet
			return nil
		}

		if method == CorrectionAdjustIncomeExpense {
			if err := s.recordAdjustment(ctx, st, wallet, difference); err != nil {
				return err
			}
		}

		if err := st.Wallets.UpdateBalance(ctx, wallet.ID, target); err != nil {
			return err
		}
		wallet.Balance = target
		corrected = wallet
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, ownerID, walletID, nil)
	return corrected, nil
}

// recordAdjustment creates the compensating transaction for
// adjust_income_expense under the owner's "other" category of matching kind.
// A missing category proceeds with no category rather than failing the
// correction.
func (s *service) recordAdjustment(ctx context.Context, st repositories.Store, wallet *models.Wallet, difference decimal.Decimal) error {
	txType := models.TransactionTypeIncome
	kind := models.CategoryKindIncome
	if difference.IsNegative() {
		txType = models.TransactionTypeExpense
		kind = models.CategoryKindExpense
	}

	var categoryID *uint
	category, err := st.Categories.GetByName(ctx, wallet.OwnerID, models.CategoryNameOther, kind)
	switch {
	case err == nil:
		categoryID = &category.ID
	case errors.Is(err, repositories.ErrCategoryNotFound):
		// keep nil
	default:
		return err
	}

	return st.Transactions.Create(ctx, &models.Transaction{
		OwnerID:     wallet.OwnerID,
		ReferenceID: uuid.NewString(),
		Type:        txType,
		Amount:      difference.Abs().Round(AmountPrecision),
		Currency:    wallet.Currency,
		WalletID:    wallet.ID,
		CategoryID:  categoryID,
		Date:        time.Now().UTC(),
	})
}
