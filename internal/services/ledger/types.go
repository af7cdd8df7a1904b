package ledger

import (
	"context"
	"time"

	"fintrack/internal/models"

	"github.com/shopspring/decimal"
)

// Payload is the full set of user-entered fields for a transaction. Updates
// take a complete replacement payload, not a partial patch.
type Payload struct {
	Type   string
	Amount decimal.Decimal
	// Currency the amount was entered in. Empty means the wallet currency.
	Currency string
	// ExchangeRate is the manual rate for cross-currency entries. When nil
	// the engine asks the resolver; resolver failure then surfaces as
	// rates.ErrRateUnavailable so the caller can prompt for a manual rate.
	ExchangeRate   *decimal.Decimal
	WalletID       uint
	ToWalletID     *uint
	ToWalletAmount *decimal.Decimal
	CategoryID     *uint
	Date           time.Time
}

// Service is the ledger engine interface exposed to the API layer.
type Service interface {
	CreateTransaction(ctx context.Context, ownerID uint, p Payload) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, ownerID, id uint, p Payload) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, ownerID, id uint) error
	GetTransaction(ctx context.Context, ownerID, id uint) (*models.Transaction, error)
	ListTransactions(ctx context.Context, ownerID uint, walletID *uint, limit, offset int) ([]models.Transaction, error)
	CorrectBalance(ctx context.Context, ownerID, walletID uint, method string, target decimal.Decimal) (*models.Wallet, error)
	Audit(ctx context.Context, ownerID, walletID uint, openingBalance decimal.Decimal) (*AuditReport, error)
}

// AuditReport compares a wallet's stored balance with the balance implied by
// its transaction history. The two diverge only after a direct-set balance
// correction, which rebases the wallet.
type AuditReport struct {
	WalletID       uint            `json:"wallet_id"`
	StoredBalance  decimal.Decimal `json:"stored_balance"`
	ImpliedBalance decimal.Decimal `json:"implied_balance"`
	Consistent     bool            `json:"consistent"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	SummedEffects  decimal.Decimal `json:"summed_effects"`
}

// CacheOperator is the subset of the cache service the engine needs to keep
// cached wallet reads from going stale after a balance mutation.
type CacheOperator interface {
	InvalidateWallet(ctx context.Context, ownerID, walletID uint) error
}
