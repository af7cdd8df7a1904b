package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types
const (
	TransactionTypeExpense  = "expense"
	TransactionTypeIncome   = "income"
	TransactionTypeTransfer = "transfer"
)

// Transaction is a single recorded event with a signed effect on one or two
// wallet balances. Amount is always the "wallet amount": the value expressed
// in the source wallet's currency after conversion, so downstream consumers
// can sum it directly without re-resolving historical rates.
type Transaction struct {
	ID      uint `gorm:"primarykey" json:"id"`
	OwnerID uint `gorm:"index;not null" json:"owner_id"`
	// ReferenceID is an external reference for clients and exports.
	ReferenceID string `gorm:"uniqueIndex;not null" json:"reference_id"`
	Type        string `gorm:"not null" json:"type"`
	// Amount in the source wallet's currency, two decimal places.
	Amount decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	// Currency the user actually entered; defaults to the wallet currency.
	Currency string `gorm:"not null" json:"currency"`
	// OriginalAmount and ExchangeRate are set only when the entered currency
	// differed from the wallet currency.
	OriginalAmount *decimal.Decimal `gorm:"type:numeric(20,2)" json:"original_amount,omitempty"`
	ExchangeRate   *decimal.Decimal `gorm:"type:numeric(20,6)" json:"exchange_rate,omitempty"`
	WalletID       uint             `gorm:"index;not null" json:"wallet_id"`
	// ToWalletID and ToWalletAmount are set for transfers only. ToWalletAmount
	// is in the destination wallet's currency and is always present on a
	// transfer, equal to Amount when both wallets share a currency.
	ToWalletID     *uint            `gorm:"index" json:"to_wallet_id,omitempty"`
	ToWalletAmount *decimal.Decimal `gorm:"type:numeric(20,2)" json:"to_wallet_amount,omitempty"`
	CategoryID     *uint            `gorm:"index" json:"category_id,omitempty"`
	Date           time.Time        `gorm:"index;not null" json:"date"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// ValidTransactionType reports whether t is one of the known transaction types.
func ValidTransactionType(t string) bool {
	switch t {
	case TransactionTypeExpense, TransactionTypeIncome, TransactionTypeTransfer:
		return true
	}
	return false
}
