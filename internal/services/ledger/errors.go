package ledger

import "errors"

// Validation errors, rejected before any mutation.
var (
	ErrInvalidAmount            = errors.New("amount must be positive")
	ErrInvalidType              = errors.New("invalid transaction type")
	ErrMissingDestination       = errors.New("transfer requires a destination wallet")
	ErrSameWalletTransfer       = errors.New("cannot transfer to the same wallet")
	ErrMissingDestinationAmount = errors.New("cross-currency transfer requires a destination amount")
	ErrInvalidExchangeRate      = errors.New("exchange rate must be positive")
	ErrInvalidCorrectionMethod  = errors.New("invalid balance correction method")
)

// Not-found errors. An id owned by someone else is indistinguishable from an
// unknown id.
var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrTransactionNotFound = errors.New("transaction not found")
)
