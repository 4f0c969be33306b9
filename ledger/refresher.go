package ledger

import (
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/HelixTeam/helieco/note"
	"github.com/HelixTeam/helieco/types"
)

// Refresher rewrites the embedded value and label of every live note
// instance of an account after the per-note value changes. The scan is
// O(total live instances) and runs outside the account lock; callers go
// through Registry.RequestRefresh so bursts collapse into a single pass.
type Refresher struct {
	Logger   *log.Entry
	Registry *Registry
}

func NewRefresher(registry *Registry) *Refresher {
	return &Refresher{
		Logger:   log.WithField("module", "refresher"),
		Registry: registry,
	}
}

func (refresher *Refresher) Refresh(accountID string) {
	var value decimal.Decimal
	var issuerName string

	// Snapshot and persist under the account lock; only the scan itself
	// runs outside it.
	refresher.Registry.RunLocked(accountID, func() {
		account := refresher.Registry.GetOrCreate(accountID)
		value = perNoteValue(account.BankBalance, account.IssuedCount)
		issuerName = account.Name

		refresher.Registry.Save(account)
	})

	updated := 0
	refresher.Registry.World.EachStack(func(stack *types.Stack) {
		decoded := note.Decode(stack)
		if decoded == nil || decoded.AccountID != accountID {
			return
		}

		// New value, original issue date, expiry and denomination.
		decoded.Value = value
		note.Encode(decoded, stack)
		note.Label(stack, issuerName, decoded)

		updated++
	})

	refresher.Logger.Debugln("Refreshed", updated, "note stacks for land", accountID, "to value", value.String())
}
