package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HelixTeam/helieco/types"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	backend, err := Initialize(t.TempDir())
	require.NoError(t, err)

	account := types.NewAccount("land-1", "Avalon")
	account.BankBalance = decimal.RequireFromString("123.45")
	account.SetIssuedCount(7)

	require.NoError(t, backend.SaveAccount(account))

	loaded, err := backend.LoadAccount("land-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, "land-1", loaded.ID)
	assert.Equal(t, "Avalon", loaded.Name)
	assert.Equal(t, "123.45", loaded.BankBalance.String())
	assert.Equal(t, 7, loaded.IssuedCount)
}

func TestLoadAbsentAccount(t *testing.T) {
	backend, err := Initialize(t.TempDir())
	require.NoError(t, err)

	loaded, err := backend.LoadAccount("never-saved")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSaveIsAnUpsert(t *testing.T) {
	dir := t.TempDir()
	backend, err := Initialize(dir)
	require.NoError(t, err)

	account := types.NewAccount("land-1", "")
	require.NoError(t, backend.SaveAccount(account))

	account.Name = "Avalon"
	require.NoError(t, backend.SaveAccount(account))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	loaded, err := backend.LoadAccount("land-1")
	require.NoError(t, err)
	assert.Equal(t, "Avalon", loaded.Name)
}

func TestLoadAllAccounts(t *testing.T) {
	backend, err := Initialize(t.TempDir())
	require.NoError(t, err)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, backend.SaveAccount(types.NewAccount(id, "")))
	}

	accounts, err := backend.LoadAllAccounts()
	require.NoError(t, err)
	assert.Len(t, accounts, 3)
}

func TestUnparsableBalanceClampsToZero(t *testing.T) {
	dir := t.TempDir()
	backend, err := Initialize(dir)
	require.NoError(t, err)

	record := []byte(`{"id":"land-1","name":"","bankBalance":"garbage","issuedCount":-4}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "land-1.json"), record, 0600))

	loaded, err := backend.LoadAccount("land-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.True(t, loaded.BankBalance.IsZero())
	assert.Equal(t, 0, loaded.IssuedCount)
}

func TestLoadAllSkipsCorruptRecords(t *testing.T) {
	dir := t.TempDir()
	backend, err := Initialize(dir)
	require.NoError(t, err)

	require.NoError(t, backend.SaveAccount(types.NewAccount("good", "")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0600))

	accounts, err := backend.LoadAllAccounts()
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "good", accounts[0].ID)
}
