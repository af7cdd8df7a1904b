package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet types
const (
	WalletTypeCash          = "cash"
	WalletTypeBankCard      = "bank_card"
	WalletTypeDigitalWallet = "digital_wallet"
	WalletTypeCreditCard    = "credit_card"
	WalletTypeInvestment    = "investment"
	WalletTypeSavings       = "savings"
	WalletTypeOther         = "other"
)

// Wallet is a named money container with its own currency and a stored
// balance. The balance is a mutable field maintained by the ledger engine,
// not recomputed on read.
type Wallet struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	OwnerID  uint   `gorm:"index;not null" json:"owner_id"`
	Name     string `gorm:"not null" json:"name"`
	Type     string `gorm:"not null;default:'cash'" json:"type"`
	Currency string `gorm:"not null" json:"currency"`
	// Balance is kept in the wallet's own currency, two decimal places.
	Balance decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"balance"`
	// ExchangeRateToDefault is for display aggregation only, never ledger math.
	ExchangeRateToDefault decimal.Decimal `gorm:"type:numeric(20,6);not null;default:1" json:"exchange_rate_to_default"`
	IsDefault             bool            `gorm:"not null;default:false" json:"is_default"`
	IsFlexible            bool            `gorm:"not null;default:true" json:"is_flexible"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// ValidWalletType reports whether t is one of the known wallet types.
func ValidWalletType(t string) bool {
	switch t {
	case WalletTypeCash, WalletTypeBankCard, WalletTypeDigitalWallet,
		WalletTypeCreditCard, WalletTypeInvestment, WalletTypeSavings,
		WalletTypeOther:
		return true
	}
	return false
}
