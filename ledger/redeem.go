package ledger

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/HelixTeam/helieco/note"
	"github.com/HelixTeam/helieco/types"
)

type RedeemResult struct {
	AccountID string
	Value     decimal.Decimal
}

// Redeem pays the requester the current per-note share for one unit of the
// presented stack and takes that unit out of circulation. The redeemer is
// paid the fresh share, never the note's stale embedded value. On a payment
// failure the tentative balance and count changes are compensated exactly
// and the note is left untouched.
func (registry *Registry) Redeem(stack *types.Stack, requesterID string, force bool) (*RedeemResult, error) {
	decoded := note.Decode(stack)
	if decoded == nil {
		return nil, ErrNotANote
	}

	// Notes only become redeemable once expired; force skips the check.
	if !force && !decoded.Expired(time.Now()) {
		return nil, ErrNotRedeemable
	}

	accountID := decoded.AccountID

	var result *RedeemResult
	var redeemErr error
	var balanceAfter decimal.Decimal

	registry.RunLocked(accountID, func() {
		// Revalidate under the lock: a concurrent redemption of the same
		// physical stack may have consumed it while we waited.
		decoded = note.Decode(stack)
		if decoded == nil || decoded.AccountID != accountID || stack.Empty() {
			redeemErr = ErrNotANote
			return
		}

		account := registry.GetOrCreate(accountID)

		if account.IssuedCount <= 0 {
			redeemErr = ErrNothingToRedeem
			return
		}

		valueOwed := perNoteValue(account.BankBalance, account.IssuedCount)
		if valueOwed.IsNegative() {
			// A drained or externally overwritten bank can floor below zero;
			// never turn that into a payout.
			valueOwed = decimal.Zero
		}

		// Tentative reservation, persisted before the external call.
		account.BankBalance = account.BankBalance.Sub(valueOwed)
		account.RemoveOneIssued()
		registry.Save(account)

		err := registry.credit(requesterID, valueOwed)
		if err != nil {
			account.BankBalance = account.BankBalance.Add(valueOwed)
			account.AddIssued(1)
			registry.Save(account)

			registry.Logger.Errorln("Payment for note redemption failed, reverted:", err)
			redeemErr = errors.Wrap(ErrPaymentFailed, err.Error())
			return
		}

		stack.Consume()
		balanceAfter = account.BankBalance

		result = &RedeemResult{
			AccountID: accountID,
			Value:     valueOwed,
		}
	})

	if redeemErr != nil {
		return nil, redeemErr
	}

	registry.RequestRefresh(accountID)

	// Best effort: mirror the new balance outward, from the snapshot taken
	// under the lock. Failure is logged, not retried inline.
	if !registry.SyncTo(accountID, balanceAfter) {
		registry.Logger.Debugln("Could not push balance to Lands for", accountID)
	}

	return result, nil
}

func (registry *Registry) credit(requesterID string, amount decimal.Decimal) (err error) {
	if registry.Sink == nil {
		return errors.New("no payment provider configured")
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			err = errors.Errorf("payment provider panicked: %v", recovered)
		}
	}()

	return registry.Sink.Credit(requesterID, amount)
}
