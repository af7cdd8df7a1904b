/*
Package ledger implements the transaction ledger and wallet-balance
reconciliation engine.

Every create, edit, delete and balance correction of a financial record keeps
each wallet's stored balance consistent with the signed history of the
transactions that reference it. An edit is modeled as reverse-the-old-effect
then apply-the-new-effect, never as a differential patch. Each logical
operation runs inside one database transaction with row-level locks on every
involved wallet, so a transfer's two balance writes commit or roll back as a
unit.

Amounts are stored in the source wallet's currency (the "wallet amount"),
rounded to two decimal places; exchange rates are rounded to six. When the
entered currency differs from the wallet currency the engine resolves a rate
through the rates package, or uses a caller-supplied manual rate; it never
silently assumes a rate of 1 for differing currencies.

Balance corrections are the one deliberate escape hatch from the
balance-equals-sum-of-effects invariant: three of the four methods set the
balance directly without a compensating transaction, which rebases the wallet
from that point forward.

Usage:

	svc := ledger.NewService(atomic, walletRepo, txRepo, resolver, cache)

	tx, err := svc.CreateTransaction(ctx, ownerID, ledger.Payload{
	    Type:     models.TransactionTypeExpense,
	    Amount:   decimal.RequireFromString("30.00"),
	    WalletID: walletID,
	})

	tx, err = svc.UpdateTransaction(ctx, ownerID, tx.ID, newPayload)
	err = svc.DeleteTransaction(ctx, ownerID, tx.ID)

	w, err := svc.CorrectBalance(ctx, ownerID, walletID,
	    ledger.CorrectionAdjustIncomeExpense, decimal.RequireFromString("250.00"))
*/
package ledger
