package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/HelixTeam/helieco/note"
	"github.com/HelixTeam/helieco/types"
)

type IssueResult struct {
	AccountID    string
	Count        int
	PerNoteValue decimal.Decimal
	// Units that did not fit the holder's area and went to the ground.
	Dropped int
}

// Issue mints count notes against the account's bank and places them in the
// holder's area, routing overflow to the shared ground. The whole
// read-and-mutate sequence runs under the account lock; freshness against
// the external bank is the caller's concern (sync first if it matters).
func (registry *Registry) Issue(accountID string, holderID string, count int) (*IssueResult, error) {
	if count <= 0 {
		return nil, ErrInvalidCount
	}

	var result *IssueResult
	var issueErr error

	registry.RunLocked(accountID, func() {
		account := registry.GetOrCreate(accountID)

		if account.BankBalance.Cmp(decimal.Zero) <= 0 {
			issueErr = ErrInsufficientFunds
			return
		}

		if count > registry.Config.MaxIssue() {
			issueErr = ErrLimitExceeded
			return
		}

		totalCirculatingAfter := account.IssuedCount + count
		value := perNoteValue(account.BankBalance, totalCirculatingAfter)

		expire := time.Now().AddDate(0, 0, registry.Config.Expiration()).Format(types.DateLayout)
		stacks := note.Mint(account, value, count, registry.Config.StackSize(), registry.Config.Denomination(), expire)

		holding := registry.World.Holding(holderID)
		dropped := 0
		for _, stack := range stacks {
			leftover := holding.Add(stack)
			if leftover != nil {
				dropped += leftover.Size
				registry.World.Drop(leftover)
			}
		}

		account.AddIssued(count)
		registry.Save(account)

		result = &IssueResult{
			AccountID:    accountID,
			Count:        count,
			PerNoteValue: value,
			Dropped:      dropped,
		}
	})

	if issueErr != nil {
		return nil, issueErr
	}

	// Notes already in circulation keep their stale embedded value until the
	// debounced refresh rewrites them.
	registry.RequestRefresh(accountID)

	registry.Logger.Debugln("Issued", count, "notes for land", accountID, "at", result.PerNoteValue.String(), "per note")

	return result, nil
}
