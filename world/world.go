// Package world tracks every live token container: bounded per-holder
// holding areas and the shared unbounded ground where overflow lands.
// The metadata refresher walks these containers to rewrite stale notes.
package world

import (
	"sync"

	"github.com/HelixTeam/helieco/types"
)

// Holding is one holder's bounded area of token slots. A nil or empty stack
// is a free slot. SlotsMutex serializes placement; issues to the same holder
// may run in parallel for different accounts.
type Holding struct {
	Owner string

	SlotsMutex sync.RWMutex
	Slots      []*types.Stack
}

// Add merges the stack into fungible stacks with room, then into free
// slots. The returned stack holds whatever did not fit, nil when everything
// was placed.
func (holding *Holding) Add(stack *types.Stack) *types.Stack {
	if stack.Empty() {
		return nil
	}

	holding.SlotsMutex.Lock()
	defer holding.SlotsMutex.Unlock()

	for _, slot := range holding.Slots {
		if slot.Empty() || !slot.Fungible(stack) {
			continue
		}

		slot.Absorb(stack)

		if stack.Empty() {
			return nil
		}
	}

	for i, slot := range holding.Slots {
		if !slot.Empty() {
			continue
		}

		holding.Slots[i] = stack

		return nil
	}

	return stack
}

// Stack returns the stack in the given slot, nil when the slot is out of
// range or empty.
func (holding *Holding) Stack(slot int) *types.Stack {
	holding.SlotsMutex.RLock()
	defer holding.SlotsMutex.RUnlock()

	if slot < 0 || slot >= len(holding.Slots) {
		return nil
	}

	if holding.Slots[slot].Empty() {
		return nil
	}

	return holding.Slots[slot]
}

type World struct {
	HoldingSlots int

	HoldingsMutex sync.RWMutex
	Holdings      map[string]*Holding

	GroundMutex sync.RWMutex
	Ground      []*types.Stack
}

func New(holdingSlots int) *World {
	if holdingSlots <= 0 {
		holdingSlots = 36
	}

	return &World{
		HoldingSlots: holdingSlots,
		Holdings:     make(map[string]*Holding),
	}
}

// Holding returns the holder's area, materializing it on first use.
func (world *World) Holding(owner string) *Holding {
	world.HoldingsMutex.Lock()
	defer world.HoldingsMutex.Unlock()

	holding, found := world.Holdings[owner]
	if !found {
		holding = &Holding{
			Owner: owner,
			Slots: make([]*types.Stack, world.HoldingSlots),
		}
		world.Holdings[owner] = holding
	}

	return holding
}

// Drop places a stack on the shared ground. The ground has no capacity so
// no value is ever silently lost.
func (world *World) Drop(stack *types.Stack) {
	if stack.Empty() {
		return
	}

	world.GroundMutex.Lock()
	world.Ground = append(world.Ground, stack)
	world.GroundMutex.Unlock()
}

// EachStack visits every live stack in every holding and on the ground.
// This is the O(total live instances) scan the refresher is debounced for.
func (world *World) EachStack(visit func(stack *types.Stack)) {
	world.HoldingsMutex.RLock()
	holdings := make([]*Holding, 0, len(world.Holdings))
	for _, holding := range world.Holdings {
		holdings = append(holdings, holding)
	}
	world.HoldingsMutex.RUnlock()

	for _, holding := range holdings {
		holding.SlotsMutex.RLock()
		slots := append([]*types.Stack(nil), holding.Slots...)
		holding.SlotsMutex.RUnlock()

		for _, slot := range slots {
			if !slot.Empty() {
				visit(slot)
			}
		}
	}

	world.GroundMutex.RLock()
	ground := append([]*types.Stack(nil), world.Ground...)
	world.GroundMutex.RUnlock()

	for _, stack := range ground {
		if !stack.Empty() {
			visit(stack)
		}
	}
}

// CountUnits tallies live units accepted by the filter, mostly for tests
// and the RPC info surface.
func (world *World) CountUnits(filter func(stack *types.Stack) bool) int {
	total := 0
	world.EachStack(func(stack *types.Stack) {
		if filter == nil || filter(stack) {
			total += stack.Units()
		}
	})

	return total
}
