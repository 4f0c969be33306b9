package world

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HelixTeam/helieco/types"
)

func noteStack(size int, meta map[string]string) *types.Stack {
	stack := types.NewStack(size, 64)
	for k, v := range meta {
		stack.Meta[k] = v
	}

	return stack
}

func TestHoldingAddMergesFungibleStacks(t *testing.T) {
	w := New(4)
	holding := w.Holding("player-1")

	meta := map[string]string{"k": "v"}
	require.Nil(t, holding.Add(noteStack(60, meta)))

	// The next 10 units top up the partial stack before opening a new one.
	require.Nil(t, holding.Add(noteStack(10, meta)))
	assert.Equal(t, 64, holding.Slots[0].Size)
	assert.Equal(t, 6, holding.Slots[1].Size)
}

func TestHoldingAddReturnsOverflow(t *testing.T) {
	w := New(2)
	holding := w.Holding("player-1")

	meta := map[string]string{"k": "v"}
	require.Nil(t, holding.Add(noteStack(64, meta)))
	require.Nil(t, holding.Add(noteStack(64, meta)))

	leftover := holding.Add(noteStack(30, meta))
	require.NotNil(t, leftover)
	assert.Equal(t, 30, leftover.Size)
}

func TestHoldingSlotLookup(t *testing.T) {
	w := New(2)
	holding := w.Holding("player-1")
	require.Nil(t, holding.Add(noteStack(5, map[string]string{"k": "v"})))

	assert.NotNil(t, holding.Stack(0))
	assert.Nil(t, holding.Stack(1))
	assert.Nil(t, holding.Stack(-1))
	assert.Nil(t, holding.Stack(99))
}

func TestEachStackVisitsHoldingsAndGround(t *testing.T) {
	w := New(4)

	require.Nil(t, w.Holding("a").Add(noteStack(3, map[string]string{"k": "a"})))
	require.Nil(t, w.Holding("b").Add(noteStack(4, map[string]string{"k": "b"})))
	w.Drop(noteStack(5, map[string]string{"k": "c"}))

	assert.Equal(t, 12, w.CountUnits(nil))
	assert.Equal(t, 5, w.CountUnits(func(stack *types.Stack) bool {
		return stack.Meta["k"] == "c"
	}))
}

func TestConcurrentAddsLoseNothing(t *testing.T) {
	w := New(64)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for j := 0; j < 10; j++ {
				leftover := w.Holding("player-1").Add(noteStack(3, map[string]string{"k": "v"}))
				assert.Nil(t, leftover)
			}
		}()
	}
	wg.Wait()

	// Every minted unit landed somewhere, none were overwritten away.
	assert.Equal(t, 240, w.CountUnits(nil))
}

func TestConsumedStackLeavesEmptySlot(t *testing.T) {
	w := New(2)
	holding := w.Holding("player-1")
	require.Nil(t, holding.Add(noteStack(1, map[string]string{"k": "v"})))

	holding.Stack(0).Consume()

	assert.Nil(t, holding.Stack(0))
	assert.Equal(t, 0, w.CountUnits(nil))

	// The cleared slot is reusable.
	require.Nil(t, holding.Add(noteStack(2, map[string]string{"k": "w"})))
	assert.Equal(t, 2, w.CountUnits(nil))
}
