package ledger_test

import (
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HelixTeam/helieco/database"
	"github.com/HelixTeam/helieco/note"
	"github.com/HelixTeam/helieco/types"
)

// countingBackend wraps the real store to observe how many refresher runs
// actually happened (each run persists the account exactly once).
type countingBackend struct {
	database.AccountBackend

	Mutex sync.Mutex
	Saves int
}

func (backend *countingBackend) SaveAccount(account *types.Account) error {
	backend.Mutex.Lock()
	backend.Saves++
	backend.Mutex.Unlock()

	return backend.AccountBackend.SaveAccount(account)
}

func (backend *countingBackend) SaveCount() int {
	backend.Mutex.Lock()
	defer backend.Mutex.Unlock()

	return backend.Saves
}

func TestRequestRefreshDebounces(t *testing.T) {
	registry := newTestRegistry(t, nil)
	registry.Config.RefreshDelayMs = 20

	counting := &countingBackend{AccountBackend: registry.DB.Backend}
	registry.DB.Backend = counting

	registry.GetOrCreate("land-1")
	base := counting.SaveCount()

	registry.RequestRefresh("land-1")
	registry.RequestRefresh("land-1")
	registry.RequestRefresh("land-1")

	time.Sleep(300 * time.Millisecond)

	assert.Equal(t, base+1, counting.SaveCount(), "burst of requests must collapse into one refresh")

	// The pending slot clears after the run, so a later request fires again.
	registry.RequestRefresh("land-1")
	time.Sleep(300 * time.Millisecond)

	assert.Equal(t, base+2, counting.SaveCount())
}

func TestRefreshRewritesEveryLiveInstance(t *testing.T) {
	registry := newTestRegistry(t, nil)
	setBank(registry, "land-1", "100.00")
	setBank(registry, "land-2", "400.00")

	_, err := registry.Issue("land-1", "steve", 3)
	require.NoError(t, err)
	_, err = registry.Issue("land-2", "alex", 4)
	require.NoError(t, err)

	// A free-standing stack on the ground is part of the scan too.
	ground := mintOne(registry.GetOrCreate("land-1"), "33.33", "2026-12-01")
	registry.World.Drop(ground)

	account := setBank(registry, "land-1", "50.00")
	account.AddIssued(1) // the dropped note circulates as well
	registry.Save(account)

	registry.Refresher.Refresh("land-1")

	expected := decimal.RequireFromString("12.5") // floor2(50 / 4)

	held := note.Decode(registry.World.Holding("steve").Stack(0))
	require.NotNil(t, held)
	assert.True(t, held.Value.Equal(expected), "got %s", held.Value)

	dropped := note.Decode(ground)
	require.NotNil(t, dropped)
	assert.True(t, dropped.Value.Equal(expected))
	assert.Equal(t, "2026-12-01", dropped.ExpireDate, "refresh preserves the original expiry")

	// Other accounts' notes are untouched.
	other := note.Decode(registry.World.Holding("alex").Stack(0))
	require.NotNil(t, other)
	assert.True(t, other.Value.Equal(decimal.RequireFromString("100")))
}

func TestRefreshConcurrentWithIssues(t *testing.T) {
	registry := newTestRegistry(t, nil)
	setBank(registry, "land-1", "100000.00")

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()

		for i := 0; i < 20; i++ {
			_, err := registry.Issue("land-1", "steve", 5)
			assert.NoError(t, err)
		}
	}()

	// The scan deliberately runs outside the account lock; it must still be
	// safe against issues mutating the account and the holder's slots.
	go func() {
		defer wg.Done()

		for i := 0; i < 20; i++ {
			registry.Refresher.Refresh("land-1")
		}
	}()

	wg.Wait()

	registry.Refresher.Refresh("land-1")

	assert.Equal(t, 100, registry.GetOrCreate("land-1").IssuedCount)
	assert.Equal(t, 100, registry.World.CountUnits(nil))

	expected := decimal.RequireFromString("1000") // floor2(100000 / 100)
	registry.World.EachStack(func(stack *types.Stack) {
		decoded := note.Decode(stack)
		require.NotNil(t, decoded)
		assert.True(t, decoded.Value.Equal(expected), "got %s", decoded.Value)
	})
}

func TestRefreshWithNothingCirculating(t *testing.T) {
	registry := newTestRegistry(t, nil)
	account := setBank(registry, "land-1", "100.00")

	// Nothing circulating: the per-note value is zero and nothing explodes.
	registry.Refresher.Refresh("land-1")
	assert.Equal(t, 0, account.IssuedCount)
}
