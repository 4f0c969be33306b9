package database

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HelixTeam/helieco/types"
)

func newTestBackend(t *testing.T) *BadgerBackend {
	backend, err := Initialize(t.TempDir())
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, backend.Cleanup())
	})

	return backend
}

func TestBadgerSaveLoadRoundTrip(t *testing.T) {
	backend := newTestBackend(t)

	account := types.NewAccount("land-1", "Avalon")
	account.BankBalance = decimal.RequireFromString("0.01")
	account.SetIssuedCount(3)

	require.NoError(t, backend.SaveAccount(account))

	loaded, err := backend.LoadAccount("land-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, "Avalon", loaded.Name)
	assert.Equal(t, "0.01", loaded.BankBalance.String())
	assert.Equal(t, 3, loaded.IssuedCount)
}

func TestBadgerLoadAbsent(t *testing.T) {
	backend := newTestBackend(t)

	loaded, err := backend.LoadAccount("missing")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestBadgerLoadAllAccounts(t *testing.T) {
	backend := newTestBackend(t)

	for _, id := range []string{"a", "b"} {
		require.NoError(t, backend.SaveAccount(types.NewAccount(id, "")))
	}

	accounts, err := backend.LoadAllAccounts()
	require.NoError(t, err)
	assert.Len(t, accounts, 2)
}
