package models

import "time"

// Category kinds
const (
	CategoryKindIncome  = "income"
	CategoryKindExpense = "expense"
)

// CategoryNameOther is the fallback category used by balance corrections that
// synthesize an income or expense transaction.
const CategoryNameOther = "other"

// Category labels income and expense transactions. Transfers carry no
// category.
type Category struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	OwnerID   uint      `gorm:"index;not null" json:"owner_id"`
	Name      string    `gorm:"not null" json:"name"`
	Kind      string    `gorm:"not null" json:"kind"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
