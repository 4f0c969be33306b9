package types

import (
	"maps"
	"sync"
)

// Stack is one physical token instance: up to MaxSize fungible units sharing
// a single set of metadata. Size == 0 marks an empty (cleared) slot.
// DataMutex guards the content fields; the containers in package world only
// guard placement.
type Stack struct {
	DataMutex sync.RWMutex

	Size    int
	MaxSize int

	Name string
	Lore []string

	Meta map[string]string
}

func NewStack(size int, maxSize int) *Stack {
	return &Stack{
		Size:    size,
		MaxSize: maxSize,
		Meta:    make(map[string]string),
	}
}

func (stack *Stack) Empty() bool {
	if stack == nil {
		return true
	}

	stack.DataMutex.RLock()
	defer stack.DataMutex.RUnlock()

	return stack.Size <= 0
}

func (stack *Stack) Units() int {
	stack.DataMutex.RLock()
	defer stack.DataMutex.RUnlock()

	return stack.Size
}

func (stack *Stack) Room() int {
	stack.DataMutex.RLock()
	defer stack.DataMutex.RUnlock()

	return stack.MaxSize - stack.Size
}

// MetaSnapshot copies the metadata out from under the lock.
func (stack *Stack) MetaSnapshot() map[string]string {
	stack.DataMutex.RLock()
	defer stack.DataMutex.RUnlock()

	out := make(map[string]string, len(stack.Meta))
	maps.Copy(out, stack.Meta)

	return out
}

// Fungible reports whether two stacks carry identical metadata and may be
// merged into one another. The two locks are taken in turn, never nested.
func (stack *Stack) Fungible(other *Stack) bool {
	if stack == nil || other == nil {
		return false
	}

	otherMeta := other.MetaSnapshot()

	stack.DataMutex.RLock()
	defer stack.DataMutex.RUnlock()

	return maps.Equal(stack.Meta, otherMeta)
}

// Clone copies the stack with its own metadata map.
func (stack *Stack) Clone() *Stack {
	stack.DataMutex.RLock()
	defer stack.DataMutex.RUnlock()

	out := &Stack{
		Size:    stack.Size,
		MaxSize: stack.MaxSize,
		Name:    stack.Name,
		Lore:    append([]string(nil), stack.Lore...),
		Meta:    make(map[string]string, len(stack.Meta)),
	}

	maps.Copy(out.Meta, stack.Meta)

	return out
}

// Absorb moves units out of from until this stack is full, returning the
// number moved. Concurrent consumption can only shrink this stack between
// the room read and the add, so the move never overflows MaxSize.
func (stack *Stack) Absorb(from *Stack) int {
	room := stack.Room()
	if room <= 0 {
		return 0
	}

	moved := from.take(room)
	if moved == 0 {
		return 0
	}

	stack.DataMutex.Lock()
	stack.Size += moved
	stack.DataMutex.Unlock()

	return moved
}

func (stack *Stack) take(max int) int {
	stack.DataMutex.Lock()
	defer stack.DataMutex.Unlock()

	take := stack.Size
	if take > max {
		take = max
	}

	stack.Size -= take

	return take
}

// Consume removes one unit; the last unit clears the slot entirely.
func (stack *Stack) Consume() {
	stack.DataMutex.Lock()
	defer stack.DataMutex.Unlock()

	stack.Size -= 1
	if stack.Size > 0 {
		return
	}

	stack.Size = 0
	stack.Name = ""
	stack.Lore = nil
	stack.Meta = make(map[string]string)
}
