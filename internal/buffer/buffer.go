// Package buffer provides the growable contiguous container every other
// front-end component stores its data in: token lists, literal tables,
// intern bytes, node lists and parser state stacks.
//
// Capacity is always a power of two that is at least the logical length.
// When a write needs more room the storage is reallocated to the next power
// of two strictly greater than the requested length, and existing elements
// keep their indices.
package buffer

import (
	"errors"
	"fmt"
	"math/bits"

	"fortio.org/safecast"
)

var (
	// ErrEmpty is the panic value of Pop on an empty buffer.
	ErrEmpty = errors.New("buffer: pop from empty buffer")
	// ErrIndex is the panic value of an out-of-range Insert or Truncate.
	ErrIndex = errors.New("buffer: index out of range")
)

// Buffer is a capacity-doubling vector of T.
// The zero value is an empty buffer ready to use.
type Buffer[T any] struct {
	data []T // len(data) is the capacity; elements past n are garbage
	n    uint32
}

// New returns a buffer with room for at least capHint elements.
func New[T any](capHint uint32) *Buffer[T] {
	b := &Buffer[T]{}
	if capHint > 0 {
		b.grow(capHint - 1)
	}
	return b
}

// Len returns the logical number of elements.
func (b *Buffer[T]) Len() uint32 { return b.n }

// Cap returns the allocated capacity (0 or a power of two).
func (b *Buffer[T]) Cap() uint32 {
	c, err := safecast.Conv[uint32](len(b.data))
	if err != nil {
		panic(fmt.Errorf("buffer capacity overflow: %w", err))
	}
	return c
}

// Push appends elem and returns its index.
func (b *Buffer[T]) Push(elem T) uint32 {
	b.reserve(b.n + 1)
	b.data[b.n] = elem
	b.n++
	return b.n - 1
}

// Pop removes and returns the last element. Panics with ErrEmpty when empty.
func (b *Buffer[T]) Pop() T {
	if b.n == 0 {
		panic(ErrEmpty)
	}
	b.n--
	elem := b.data[b.n]
	var zero T
	b.data[b.n] = zero
	return elem
}

// Insert places elem at idx, shifting the tail one slot to the right.
func (b *Buffer[T]) Insert(elem T, idx uint32) {
	if idx > b.n {
		panic(fmt.Errorf("%w: insert at %d, len %d", ErrIndex, idx, b.n))
	}
	b.reserve(b.n + 1)
	copy(b.data[idx+1:b.n+1], b.data[idx:b.n])
	b.data[idx] = elem
	b.n++
}

// Append copies elems to the end and returns the index of the first one.
func (b *Buffer[T]) Append(elems []T) uint32 {
	add, err := safecast.Conv[uint32](len(elems))
	if err != nil {
		panic(fmt.Errorf("buffer append overflow: %w", err))
	}
	start := b.n
	b.reserve(b.n + add)
	copy(b.data[start:], elems)
	b.n += add
	return start
}

// At returns a pointer to the element at idx. The pointer is invalidated by
// the next growth.
func (b *Buffer[T]) At(idx uint32) *T {
	if idx >= b.n {
		panic(fmt.Errorf("%w: at %d, len %d", ErrIndex, idx, b.n))
	}
	return &b.data[idx]
}

// Last returns a pointer to the last element, or nil when empty.
func (b *Buffer[T]) Last() *T {
	if b.n == 0 {
		return nil
	}
	return &b.data[b.n-1]
}

// Truncate drops every element at index n and above.
func (b *Buffer[T]) Truncate(n uint32) {
	if n > b.n {
		panic(fmt.Errorf("%w: truncate to %d, len %d", ErrIndex, n, b.n))
	}
	var zero T
	for i := n; i < b.n; i++ {
		b.data[i] = zero
	}
	b.n = n
}

// Reset empties the buffer but keeps its storage.
func (b *Buffer[T]) Reset() { b.Truncate(0) }

// Slice returns the live elements. The slice aliases the buffer storage until
// the next growth; callers that keep it past further writes must copy it.
func (b *Buffer[T]) Slice() []T { return b.data[:b.n:b.n] }

func (b *Buffer[T]) reserve(want uint32) {
	if want > b.Cap() {
		b.grow(want)
	}
}

func (b *Buffer[T]) grow(want uint32) {
	newCap := NextPow2(want)
	data := make([]T, newCap)
	copy(data, b.data[:b.n])
	b.data = data
}

// NextPow2 returns the smallest power of two strictly greater than n.
func NextPow2(n uint32) uint32 {
	shift := bits.Len32(n)
	if shift >= 32 {
		panic(fmt.Errorf("buffer: capacity for %d elements exceeds uint32", n))
	}
	return 1 << shift
}
