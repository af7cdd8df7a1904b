package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/repositories"
	"fintrack/internal/services/rates"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type service struct {
	store        repositories.Atomic
	wallets      repositories.WalletRepository
	transactions repositories.TransactionRepository
	rates        rates.Resolver
	cache        CacheOperator
}

// NewService creates a new ledger engine.
func NewService(
	store repositories.Atomic,
	wallets repositories.WalletRepository,
	transactions repositories.TransactionRepository,
	resolver rates.Resolver,
	cache CacheOperator,
) Service {
	if store == nil {
		panic("store is required")
	}
	if wallets == nil {
		panic("wallet repository is required")
	}
	if transactions == nil {
		panic("transaction repository is required")
	}
	if resolver == nil {
		panic("rate resolver is required")
	}

	return &service{
		store:        store,
		wallets:      wallets,
		transactions: transactions,
		rates:        resolver,
		cache:        cache,
	}
}

func (s *service) CreateTransaction(ctx context.Context, ownerID uint, p Payload) (*models.Transaction, error) {
	if err := validatePayload(p); err != nil {
		return nil, err
	}

	var created *models.Transaction
	err := s.store.Transact(ctx, func(st repositories.Store) error {
		record, err := s.applyEffect(ctx, st, ownerID, p)
		if err != nil {
			return err
		}
		record.ReferenceID = uuid.NewString()
		if err := st.Transactions.Create(ctx, record); err != nil {
			return err
		}
		created = record
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, ownerID, created.WalletID, created.ToWalletID)
	return created, nil
}

func (s *service) UpdateTransaction(ctx context.Context, ownerID, id uint, p Payload) (*models.Transaction, error) {
	var updated *models.Transaction
	var oldWalletID uint
	var oldToWalletID *uint
	err := s.store.Transact(ctx, func(st repositories.Store) error {
		existing, err := st.Transactions.GetByID(ctx, ownerID, id)
		if err != nil {
			return translateNotFound(err)
		}
		oldWalletID, oldToWalletID = existing.WalletID, existing.ToWalletID

		// Reversal always runs against freshly locked wallet rows and must
		// fully precede revalidation and reapplication, so an edit that keeps
		// the same wallet nets out through two separate read-modify-write
		// cycles inside this one transaction.
		if err := s.reverseEffect(ctx, st, ownerID, existing); err != nil {
			return err
		}

		if err := validatePayload(p); err != nil {
			return err
		}

		record, err := s.applyEffect(ctx, st, ownerID, p)
		if err != nil {
			return err
		}

		record.ID = existing.ID
		record.ReferenceID = existing.ReferenceID
		record.CreatedAt = existing.CreatedAt
		if err := st.Transactions.Update(ctx, record); err != nil {
			return err
		}
		updated = record
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, ownerID, oldWalletID, oldToWalletID)
	s.invalidate(ctx, ownerID, updated.WalletID, updated.ToWalletID)
	return updated, nil
}

func (s *service) DeleteTransaction(ctx context.Context, ownerID, id uint) error {
	var walletID uint
	var toWalletID *uint
	err := s.store.Transact(ctx, func(st repositories.Store) error {
		existing, err := st.Transactions.GetByID(ctx, ownerID, id)
		if err != nil {
			return translateNotFound(err)
		}

		if err := s.reverseEffect(ctx, st, ownerID, existing); err != nil {
			return err
		}

		walletID, toWalletID = existing.WalletID, existing.ToWalletID
		return st.Transactions.Delete(ctx, ownerID, id)
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, ownerID, walletID, toWalletID)
	return nil
}

func (s *service) GetTransaction(ctx context.Context, ownerID, id uint) (*models.Transaction, error) {
	tx, err := s.transactions.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return tx, nil
}

func (s *service) ListTransactions(ctx context.Context, ownerID uint, walletID *uint, limit, offset int) ([]models.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	if walletID != nil {
		return s.transactions.ListByWallet(ctx, ownerID, *walletID, limit, offset)
	}
	return s.transactions.ListByOwner(ctx, ownerID, limit, offset)
}

func (s *service) Audit(ctx context.Context, ownerID, walletID uint, openingBalance decimal.Decimal) (*AuditReport, error) {
	wallet, err := s.wallets.GetByID(ctx, ownerID, walletID)
	if err != nil {
		return nil, translateNotFound(err)
	}

	effects, err := s.transactions.SumEffectsByWallet(ctx, ownerID, walletID)
	if err != nil {
		return nil, err
	}

	implied := openingBalance.Add(effects)
	return &AuditReport{
		WalletID:       walletID,
		StoredBalance:  wallet.Balance,
		ImpliedBalance: implied,
		Consistent:     wallet.Balance.Equal(implied),
		OpeningBalance: openingBalance,
		SummedEffects:  effects,
	}, nil
}

// applyEffect computes the wallet amount for the payload, mutates the
// involved wallet balances under row locks, and returns the record to
// persist. Used by create and by the reapply half of update.
func (s *service) applyEffect(ctx context.Context, st repositories.Store, ownerID uint, p Payload) (*models.Transaction, error) {
	wallet, err := st.Wallets.GetByIDForUpdate(ctx, ownerID, p.WalletID)
	if err != nil {
		return nil, translateNotFound(err)
	}

	walletAmount, originalAmount, exchangeRate, err := s.convert(ctx, p, wallet.Currency)
	if err != nil {
		return nil, err
	}

	record := &models.Transaction{
		OwnerID:        ownerID,
		Type:           p.Type,
		Amount:         walletAmount,
		Currency:       enteredCurrency(p, wallet.Currency),
		OriginalAmount: originalAmount,
		ExchangeRate:   exchangeRate,
		WalletID:       wallet.ID,
		Date:           p.Date,
	}
	if record.Date.IsZero() {
		record.Date = time.Now().UTC()
	}

	switch p.Type {
	case models.TransactionTypeExpense:
		record.CategoryID = p.CategoryID
		wallet.Balance = wallet.Balance.Sub(walletAmount)
		if err := st.Wallets.UpdateBalance(ctx, wallet.ID, wallet.Balance); err != nil {
			return nil, err
		}

	case models.TransactionTypeIncome:
		record.CategoryID = p.CategoryID
		wallet.Balance = wallet.Balance.Add(walletAmount)
		if err := st.Wallets.UpdateBalance(ctx, wallet.ID, wallet.Balance); err != nil {
			return nil, err
		}

	case models.TransactionTypeTransfer:
		dest, err := st.Wallets.GetByIDForUpdate(ctx, ownerID, *p.ToWalletID)
		if err != nil {
			return nil, translateNotFound(err)
		}

		destAmount := walletAmount
		if dest.Currency != wallet.Currency {
			if p.ToWalletAmount == nil || !p.ToWalletAmount.IsPositive() {
				return nil, ErrMissingDestinationAmount
			}
			destAmount = p.ToWalletAmount.Round(AmountPrecision)
		}

		wallet.Balance = wallet.Balance.Sub(walletAmount)
		if err := st.Wallets.UpdateBalance(ctx, wallet.ID, wallet.Balance); err != nil {
			return nil, err
		}
		dest.Balance = dest.Balance.Add(destAmount)
		if err := st.Wallets.UpdateBalance(ctx, dest.ID, dest.Balance); err != nil {
			return nil, err
		}

		// ToWalletAmount is stored on every transfer, same-currency included.
		record.ToWalletID = p.ToWalletID
		record.ToWalletAmount = &destAmount
	}

	return record, nil
}

// reverseEffect applies the inverse of tx's balance effect. A wallet that no
// longer exists is skipped: wallet deletion cascades to its transactions in
// the normal flow, so a dangling reference only occurs on records that are
// themselves being removed.
func (s *service) reverseEffect(ctx context.Context, st repositories.Store, ownerID uint, tx *models.Transaction) error {
	source, err := st.Wallets.GetByIDForUpdate(ctx, ownerID, tx.WalletID)
	switch {
	case errors.Is(err, repositories.ErrWalletNotFound):
		source = nil
	case err != nil:
		return err
	}

	switch tx.Type {
	case models.TransactionTypeExpense:
		if source != nil {
			source.Balance = source.Balance.Add(tx.Amount)
			return st.Wallets.UpdateBalance(ctx, source.ID, source.Balance)
		}

	case models.TransactionTypeIncome:
		if source != nil {
			source.Balance = source.Balance.Sub(tx.Amount)
			return st.Wallets.UpdateBalance(ctx, source.ID, source.Balance)
		}

	case models.TransactionTypeTransfer:
		if source != nil {
			source.Balance = source.Balance.Add(tx.Amount)
			if err := st.Wallets.UpdateBalance(ctx, source.ID, source.Balance); err != nil {
				return err
			}
		}
		if tx.ToWalletID == nil {
			return nil
		}
		dest, err := st.Wallets.GetByIDForUpdate(ctx, ownerID, *tx.ToWalletID)
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		destAmount := tx.Amount
		if tx.ToWalletAmount != nil {
			destAmount = *tx.ToWalletAmount
		}
		dest.Balance = dest.Balance.Sub(destAmount)
		return st.Wallets.UpdateBalance(ctx, dest.ID, dest.Balance)
	}

	return nil
}

// convert computes the wallet amount for the payload. For same-currency
// entries it is the input amount; for cross-currency entries it is the input
// multiplied by the manual or resolved rate.
func (s *service) convert(ctx context.Context, p Payload, walletCurrency string) (walletAmount decimal.Decimal, originalAmount, exchangeRate *decimal.Decimal, err error) {
	entered := enteredCurrency(p, walletCurrency)
	if entered == walletCurrency {
		return p.Amount.Round(AmountPrecision), nil, nil, nil
	}

	rate := decimal.Zero
	if p.ExchangeRate != nil {
		rate = *p.ExchangeRate
		if !rate.IsPositive() {
			return decimal.Zero, nil, nil, ErrInvalidExchangeRate
		}
	} else {
		rate, err = s.rates.Resolve(ctx, entered, walletCurrency)
		if err != nil {
			return decimal.Zero, nil, nil, err
		}
	}

	rate = rate.Round(rates.RatePrecision)
	original := p.Amount.Round(AmountPrecision)
	walletAmount = p.Amount.Mul(rate).Round(AmountPrecision)
	return walletAmount, &original, &rate, nil
}

func enteredCurrency(p Payload, walletCurrency string) string {
	if p.Currency == "" {
		return walletCurrency
	}
	return p.Currency
}

// validatePayload rejects a malformed payload before any mutation.
func validatePayload(p Payload) error {
	if !p.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !models.ValidTransactionType(p.Type) {
		return ErrInvalidType
	}
	if p.Type == models.TransactionTypeTransfer {
		if p.ToWalletID == nil {
			return ErrMissingDestination
		}
		if *p.ToWalletID == p.WalletID {
			return ErrSameWalletTransfer
		}
	}
	return nil
}

func (s *service) invalidate(ctx context.Context, ownerID, walletID uint, toWalletID *uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateWallet(ctx, ownerID, walletID); err != nil {
		fmt.Printf("Failed to invalidate wallet cache %d: %v\n", walletID, err)
	}
	if toWalletID != nil {
		if err := s.cache.InvalidateWallet(ctx, ownerID, *toWalletID); err != nil {
			fmt.Printf("Failed to invalidate wallet cache %d: %v\n", *toWalletID, err)
		}
	}
}

func translateNotFound(err error) error {
	switch {
	case errors.Is(err, repositories.ErrWalletNotFound):
		return ErrWalletNotFound
	case errors.Is(err, repositories.ErrTransactionNotFound):
		return ErrTransactionNotFound
	}
	return err
}
