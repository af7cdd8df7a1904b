package ledger

import (
	"context"
	"testing"

	"fintrack/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrectBalance_InvalidMethod(t *testing.T) {
	d := newFakeData()
	w := d.addWallet(owner, "MYR", "100.00")
	svc := newTestService(d, nil)

	_, err := svc.CorrectBalance(context.Background(), owner, w.ID, "overwrite", dec("50.00"))
	require.ErrorIs(t, err, ErrInvalidCorrectionMethod)
	assert.Equal(t, "100.00", d.balance(w.ID))
}

func TestCorrectBalance_WalletNotFound(t *testing.T) {
	d := newFakeData()
	svc := newTestService(d, nil)

	_, err := svc.CorrectBalance(context.Background(), owner, 99, CorrectionChangeBalance, dec("50.00"))
	require.ErrorIs(t, err, ErrWalletNotFound)
}

func TestCorrectBalance_NoOpOnZeroDifference(t *testing.T) {
	d := newFakeData()
	w := d.addWallet(owner, "MYR", "100.00")
	svc := newTestService(d, nil)

	corrected, err := svc.CorrectBalance(context.Background(), owner, w.ID, CorrectionAdjustIncomeExpense, dec("100.00"))
	require.NoError(t, err)
	assert.Equal(t, "100.00", corrected.Balance.StringFixed(2))
	assert.Empty(t, d.txs)
}

func TestCorrectBalance_AdjustIncomeExpense(t *testing.T) {
	t.Run("target above current records an income", func(t *testing.T) {
		d := newFakeData()
		w := d.addWallet(owner, "MYR", "100.00")
		cat := d.addCategory(owner, models.CategoryNameOther, models.CategoryKindIncome)
		svc := newTestService(d, nil)

		corrected, err := svc.CorrectBalance(context.Background(), owner, w.ID, CorrectionAdjustIncomeExpense, dec("250.00"))
		require.NoError(t, err)
		assert.Equal(t, "250.00", corrected.Balance.StringFixed(2))

		require.Len(t, d.txs, 1)
		for _, tx := range d.txs {
			assert.Equal(t, models.TransactionTypeIncome, tx.Type)
			assert.Equal(t, "150.00", tx.Amount.StringFixed(2))
			assert.Equal(t, "MYR", tx.Currency)
			assert.Equal(t, w.ID, tx.WalletID)
			require.NotNil(t, tx.CategoryID)
			assert.Equal(t, cat.ID, *tx.CategoryID)
		}

		// The compensating transaction keeps the invariant intact.
		report, err := svc.Audit(context.Background(), owner, w.ID, dec("100.00"))
		require.NoError(t, err)
		assert.True(t, report.Consistent)
	})

	t.Run("target below current records an expense", func(t *testing.T) {
		d := newFakeData()
		w := d.addWallet(owner, "MYR", "100.00")
		d.addCategory(owner, models.CategoryNameOther, models.CategoryKindExpense)
		svc := newTestService(d, nil)

		corrected, err := svc.CorrectBalance(context.Background(), owner, w.ID, CorrectionAdjustIncomeExpense, dec("40.00"))
		require.NoError(t, err)
		assert.Equal(t, "40.00", corrected.Balance.StringFixed(2))

		require.Len(t, d.txs, 1)
		for _, tx := range d.txs {
			assert.Equal(t, models.TransactionTypeExpense, tx.Type)
			assert.Equal(t, "60.00", tx.Amount.StringFixed(2))
		}
	})

	t.Run("missing other category proceeds without one", func(t *testing.T) {
		d := newFakeData()
		w := d.addWallet(owner, "MYR", "100.00")
		svc := newTestService(d, nil)

		_, err := svc.CorrectBalance(context.Background(), owner, w.ID, CorrectionAdjustIncomeExpense, dec("130.00"))
		require.NoError(t, err)

		require.Len(t, d.txs, 1)
		for _, tx := range d.txs {
			assert.Nil(t, tx.CategoryID)
		}
	})
}

func TestCorrectBalance_DirectSetMethods(t *testing.T) {
	methods := []string{
		CorrectionAdjustTransfer,
		CorrectionChangeBalance,
		CorrectionSetInitialBalance,
	}

	for _, method := range methods {
		t.Run(method, func(t *testing.T) {
			d := newFakeData()
			w := d.addWallet(owner, "MYR", "100.00")
			svc := newTestService(d, nil)

			corrected, err := svc.CorrectBalance(context.Background(), owner, w.ID, method, dec("42.00"))
			require.NoError(t, err)
			assert.Equal(t, "42.00", corrected.Balance.StringFixed(2))
			assert.Empty(t, d.txs, "direct-set corrections record no transaction")

			// Direct sets rebase the wallet: the stored balance now diverges
			// from the transaction history on purpose.
			report, err := svc.Audit(context.Background(), owner, w.ID, dec("100.00"))
			require.NoError(t, err)
			assert.False(t, report.Consistent)
		})
	}
}
