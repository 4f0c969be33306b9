package note

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HelixTeam/helieco/types"
)

func TestMintChunksToStacks(t *testing.T) {
	account := types.NewAccount("land-1", "Avalon")
	value := decimal.RequireFromString("0.40")

	stacks := Mint(account, value, 250, 64, "PAPER", "2026-09-29")
	require.Len(t, stacks, 4)

	assert.Equal(t, 64, stacks[0].Size)
	assert.Equal(t, 64, stacks[1].Size)
	assert.Equal(t, 64, stacks[2].Size)
	assert.Equal(t, 58, stacks[3].Size)

	// Same metadata on every stack, nothing unique anywhere.
	for _, stack := range stacks[1:] {
		assert.True(t, stacks[0].Fungible(stack))
	}

	decoded := Decode(stacks[0])
	require.NotNil(t, decoded)
	assert.Equal(t, "land-1", decoded.AccountID)
	assert.True(t, value.Equal(decoded.Value))
	assert.Equal(t, "2026-09-29", decoded.ExpireDate)
	assert.Equal(t, "PAPER", decoded.Denomination)
}

func TestMintExactMultiple(t *testing.T) {
	account := types.NewAccount("land-1", "")

	stacks := Mint(account, decimal.New(1, 0), 128, 64, "PAPER", "")
	require.Len(t, stacks, 2)
	assert.Equal(t, 64, stacks[0].Size)
	assert.Equal(t, 64, stacks[1].Size)
}

func TestMintNothing(t *testing.T) {
	account := types.NewAccount("land-1", "")

	assert.Nil(t, Mint(account, decimal.Zero, 0, 64, "PAPER", ""))
	assert.Nil(t, Mint(account, decimal.Zero, -3, 64, "PAPER", ""))
}
