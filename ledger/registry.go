// Package ledger orchestrates land currency accounts: issuance and
// redemption transactions under per-account locks, debounced metadata
// refreshes, and best-effort synchronization with the external Lands bank.
package ledger

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/HelixTeam/helieco/database"
	"github.com/HelixTeam/helieco/lands"
	"github.com/HelixTeam/helieco/types"
	"github.com/HelixTeam/helieco/world"
)

// PaymentSink credits a user's spendable balance when a note is redeemed.
// The host supplies the implementation.
type PaymentSink interface {
	Credit(requesterID string, amount decimal.Decimal) error
}

type Registry struct {
	Logger *log.Entry
	Config *Config

	DB    *database.Database
	World *world.World
	Lands *lands.Adapter
	Sink  PaymentSink

	AccountsMutex sync.RWMutex
	Accounts      map[string]*types.Account

	// One mutex per account id, created on first use and never removed.
	AccountLocks sync.Map

	PendingRefreshMutex sync.Mutex
	PendingRefresh      map[string]*time.Timer

	Refresher *Refresher

	syncStopMutex sync.Mutex
	syncStop      chan struct{}
}

func NewRegistry(cfg *Config, db *database.Database, w *world.World, adapter *lands.Adapter, sink PaymentSink) *Registry {
	registry := &Registry{
		Logger:         log.WithField("module", "currency"),
		Config:         cfg,
		DB:             db,
		World:          w,
		Lands:          adapter,
		Sink:           sink,
		Accounts:       make(map[string]*types.Account),
		PendingRefresh: make(map[string]*time.Timer),
	}

	registry.Refresher = NewRefresher(registry)

	return registry
}

// LoadAll warms the in-memory cache from the durable store.
func (registry *Registry) LoadAll() error {
	accounts, err := registry.DB.Backend.LoadAllAccounts()
	if err != nil {
		return err
	}

	registry.AccountsMutex.Lock()
	registry.Accounts = make(map[string]*types.Account, len(accounts))
	for _, account := range accounts {
		registry.Accounts[account.ID] = account
	}
	registry.AccountsMutex.Unlock()

	registry.Logger.Infoln("Loaded", len(accounts), "land currencies from disk")

	return nil
}

// GetOrCreate returns the cached account, creating and persisting a zero
// account on first reference. Creation races are harmless: the store is an
// upsert keyed by id.
func (registry *Registry) GetOrCreate(id string) *types.Account {
	registry.AccountsMutex.RLock()
	account, found := registry.Accounts[id]
	registry.AccountsMutex.RUnlock()

	if found {
		return account
	}

	registry.AccountsMutex.Lock()
	account, found = registry.Accounts[id]
	if !found {
		account = types.NewAccount(id, "")
		registry.Accounts[id] = account
	}
	registry.AccountsMutex.Unlock()

	if !found {
		registry.persist(account)
	}

	return account
}

// Save caches and persists the account. A persistence failure is logged and
// surfaced but never rolls back in-memory state that callers already applied.
func (registry *Registry) Save(account *types.Account) {
	registry.AccountsMutex.Lock()
	registry.Accounts[account.ID] = account
	registry.AccountsMutex.Unlock()

	registry.persist(account)
}

func (registry *Registry) persist(account *types.Account) {
	err := registry.DB.Backend.SaveAccount(account)
	if err != nil {
		registry.Logger.Errorln("Could not save currency for land", account.ID, "-", err)
	}
}

func (registry *Registry) Has(id string) bool {
	registry.AccountsMutex.RLock()
	defer registry.AccountsMutex.RUnlock()

	_, found := registry.Accounts[id]

	return found
}

// Rename sets the display name and propagates it to live note labels.
func (registry *Registry) Rename(id string, name string) {
	registry.RunLocked(id, func() {
		account := registry.GetOrCreate(id)
		account.Name = name
		registry.Save(account)
	})

	registry.RequestRefresh(id)
}

// RunLocked serializes the operation against every other operation on the
// same account id. Operations on different accounts proceed in parallel.
func (registry *Registry) RunLocked(id string, op func()) {
	handle, _ := registry.AccountLocks.LoadOrStore(id, &sync.Mutex{})
	lock := handle.(*sync.Mutex)

	lock.Lock()
	defer lock.Unlock()

	op()
}

// RequestRefresh schedules a debounced metadata refresh. While one is
// pending for the account the new request is dropped; the pending run reads
// the latest state when it finally fires.
func (registry *Registry) RequestRefresh(id string) {
	registry.PendingRefreshMutex.Lock()
	defer registry.PendingRefreshMutex.Unlock()

	if _, pending := registry.PendingRefresh[id]; pending {
		return
	}

	registry.PendingRefresh[id] = time.AfterFunc(registry.Config.RefreshDelay(), func() {
		defer func() {
			registry.PendingRefreshMutex.Lock()
			delete(registry.PendingRefresh, id)
			registry.PendingRefreshMutex.Unlock()
		}()

		registry.Refresher.Refresh(id)
	})
}

// perNoteValue is the current share one note redeems for: the bank balance
// divided by the circulating count, floored to 2 decimal places.
func perNoteValue(bank decimal.Decimal, circulating int) decimal.Decimal {
	if circulating <= 0 {
		return decimal.Zero
	}

	return bank.Div(decimal.NewFromInt(int64(circulating))).RoundDown(2)
}
