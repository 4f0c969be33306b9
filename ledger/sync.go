package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// SyncFrom pulls the external bank balance into the local ledger. Returns
// false without raising when the land object or a readable balance cannot
// be found. The overwrite goes through the account lock like every other
// mutation.
func (registry *Registry) SyncFrom(accountID string) bool {
	if !registry.Lands.Available() {
		return false
	}

	land := registry.Lands.FindLand(accountID)
	if land == nil {
		registry.Logger.Debugln("syncFrom: no land found for id", accountID)
		return false
	}

	bank, ok := registry.Lands.ReadBank(land)
	if !ok {
		registry.Logger.Debugln("syncFrom: could not read bank from land", accountID)
		return false
	}

	registry.RunLocked(accountID, func() {
		account := registry.GetOrCreate(accountID)
		account.BankBalance = bank
		registry.Save(account)
	})

	registry.RequestRefresh(accountID)

	if registry.Config.Sync.LogSuccess {
		registry.Logger.Infoln("Synced bank from Lands for", accountID, ":", bank.String())
	}

	return true
}

// SyncTo pushes a balance out to the external bank, best effort.
func (registry *Registry) SyncTo(accountID string, amount decimal.Decimal) bool {
	if !registry.Lands.Available() {
		return false
	}

	land := registry.Lands.FindLand(accountID)
	if land == nil {
		registry.Logger.Debugln("syncTo: no land found for id", accountID)
		return false
	}

	ok := registry.Lands.WriteBank(land, amount)
	if !ok {
		registry.Logger.Warnln("No writable bank capability on land", accountID)
	}

	return ok
}

// StartPeriodicSync (re)starts the recurring pull of external balances for
// every cached account. Per-account noise is collapsed into one aggregate
// summary per run.
func (registry *Registry) StartPeriodicSync() {
	registry.StopPeriodicSync()

	if !registry.Config.Sync.Enabled || !registry.Lands.Available() {
		return
	}

	registry.syncStopMutex.Lock()
	stop := make(chan struct{})
	registry.syncStop = stop
	registry.syncStopMutex.Unlock()

	interval := registry.Config.SyncInterval()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				registry.runSyncPass()
			}
		}
	}()

	registry.Logger.Debugln("Periodic sync scheduled every", interval)
}

func (registry *Registry) StopPeriodicSync() {
	registry.syncStopMutex.Lock()
	defer registry.syncStopMutex.Unlock()

	if registry.syncStop != nil {
		close(registry.syncStop)
		registry.syncStop = nil
	}
}

func (registry *Registry) runSyncPass() {
	registry.AccountsMutex.RLock()
	ids := make([]string, 0, len(registry.Accounts))
	for id := range registry.Accounts {
		ids = append(ids, id)
	}
	registry.AccountsMutex.RUnlock()

	succeeded, failed := 0, 0
	for _, id := range ids {
		if registry.SyncFrom(id) {
			succeeded++
		} else {
			failed++
		}
	}

	if failed > 0 || registry.Config.Sync.LogSuccess {
		registry.Logger.Infoln("Periodic sync summary: total =", len(ids), "succeeded =", succeeded, "failed =", failed)
	} else {
		registry.Logger.Debugln("Periodic sync completed: total =", len(ids), "succeeded =", succeeded)
	}
}
