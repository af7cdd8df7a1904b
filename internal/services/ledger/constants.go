package ledger

// Balance correction methods. adjust_income_expense compensates the change
// with a synthetic transaction; the other three set the balance directly and
// rebase the wallet.
const (
	CorrectionAdjustIncomeExpense = "adjust_income_expense"
	CorrectionAdjustTransfer      = "adjust_transfer"
	CorrectionChangeBalance       = "change_current_balance"
	CorrectionSetInitialBalance   = "set_initial_balance"
)

// AmountPrecision is the number of decimal places amounts and balances are
// stored at.
const AmountPrecision = 2

// ValidCorrectionMethod reports whether m is one of the four correction
// methods.
func ValidCorrectionMethod(m string) bool {
	switch m {
	case CorrectionAdjustIncomeExpense, CorrectionAdjustTransfer,
		CorrectionChangeBalance, CorrectionSetInitialBalance:
		return true
	}
	return false
}
