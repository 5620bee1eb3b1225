package source

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"fortio.org/safecast"

	"funlang/internal/buffer"
)

// Phi is the growth trigger of StringSet: the table is rebuilt once
// inUse*Phi reaches the bucket count, and doubles only when live keys
// alone would trip the trigger.
const Phi = 1.618033988749895

// DefaultSetCap is the bucket count a StringSet starts with.
const DefaultSetCap = 0x1000

// StringView is a non-owning (offset, length) reference into the backing
// bytes of the StringSet that produced it. The zero view is the empty string.
type StringView struct {
	Off uint32
	Len uint32
}

// Empty reports whether the view covers no bytes.
func (v StringView) Empty() bool { return v.Len == 0 }

type slotState uint8

const (
	slotEmpty slotState = iota
	slotFull
	slotTomb // удалённая запись, цепочка проб не рвётся
)

type setSlot struct {
	view  StringView
	state slotState
}

// StringSet is an open-addressed set of byte strings. Equal inputs are stored
// once; every Insert of the same bytes returns the same view.
// The zero value is not usable, call NewStringSet.
type StringSet struct {
	bytes   buffer.Buffer[byte]
	slots   []setSlot
	inUse   uint32 // занятые слоты, включая надгробия
	live    uint32
	initCap uint32
}

// NewStringSet creates a set whose first bucket array has capHint slots,
// rounded up to a power of two. Zero selects DefaultSetCap.
func NewStringSet(capHint uint32) *StringSet {
	if capHint == 0 {
		capHint = DefaultSetCap
	}
	s := &StringSet{initCap: buffer.NextPow2(capHint - 1)}
	// offset 0 is reserved so that no stored string shares it with the empty view
	s.bytes.Push(0)
	return s
}

// Insert returns the canonical view of b, copying b into the set on first sight.
func (s *StringSet) Insert(b []byte) StringView {
	if len(b) == 0 {
		return StringView{}
	}
	if float64(s.inUse)*Phi >= float64(len(s.slots)) {
		s.grow()
	}

	mask := s.mask()
	idx := hashBytes(b) & mask
	tomb, haveTomb := uint32(0), false
	for {
		slot := &s.slots[idx]
		switch slot.state {
		case slotEmpty:
			view := s.store(b)
			if haveTomb {
				// надгробие уже учтено в inUse
				s.slots[tomb] = setSlot{view: view, state: slotFull}
			} else {
				*slot = setSlot{view: view, state: slotFull}
				s.inUse++
			}
			s.live++
			return view
		case slotFull:
			if s.equal(slot.view, b) {
				return slot.view
			}
		case slotTomb:
			if !haveTomb {
				tomb, haveTomb = idx, true
			}
		}
		idx = (idx + 1) & mask
	}
}

// InsertString is Insert for string input.
func (s *StringSet) InsertString(str string) StringView {
	return s.Insert([]byte(str))
}

// Lookup returns the stored view of b without inserting it.
func (s *StringSet) Lookup(b []byte) (StringView, bool) {
	if len(b) == 0 {
		return StringView{}, true
	}
	idx, ok := s.find(b)
	if !ok {
		return StringView{}, false
	}
	return s.slots[idx].view, true
}

// Remove deletes b from the set and reports whether it was present.
// The slot becomes a tombstone so colliding keys stay reachable; the bytes
// remain in the backing buffer and views handed out earlier stay readable.
func (s *StringSet) Remove(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	idx, ok := s.find(b)
	if !ok {
		return false
	}
	s.slots[idx] = setSlot{state: slotTomb}
	s.live--
	return true
}

// Bytes returns the bytes referenced by v. The slice aliases the set storage.
func (s *StringSet) Bytes(v StringView) []byte {
	if v.Len == 0 {
		return nil
	}
	return s.bytes.Slice()[v.Off : v.Off+v.Len]
}

// String returns a copy of the text referenced by v.
func (s *StringSet) String(v StringView) string {
	return string(s.Bytes(v))
}

// Len returns the number of distinct live strings.
func (s *StringSet) Len() uint32 { return s.live }

// Cap returns the current bucket count (0 before the first insert).
func (s *StringSet) Cap() uint32 {
	c, err := safecast.Conv[uint32](len(s.slots))
	if err != nil {
		panic(fmt.Errorf("string set capacity overflow: %w", err))
	}
	return c
}

// Backing returns the append-only byte storage all views point into.
func (s *StringSet) Backing() []byte { return s.bytes.Slice() }

// Views returns the live views in bucket order.
func (s *StringSet) Views() []StringView {
	out := make([]StringView, 0, s.live)
	for _, slot := range s.slots {
		if slot.state == slotFull {
			out = append(out, slot.view)
		}
	}
	return out
}

// ErrViewMismatch is returned by RestoreStringSet when the saved views do not
// describe a set that insertion in offset order can reproduce.
var ErrViewMismatch = errors.New("string set: saved views do not match backing bytes")

// RestoreStringSet rebuilds a set from Backing and Views of an earlier set
// that never had strings removed. Views of the old set stay valid in the new one.
func RestoreStringSet(backing []byte, views []StringView) (*StringSet, error) {
	n, err := safecast.Conv[uint32](len(views))
	if err != nil {
		return nil, fmt.Errorf("string set restore: %w", err)
	}
	s := NewStringSet(max(buffer.NextPow2(n)<<1, DefaultSetCap))
	ordered := slices.SortedFunc(slices.Values(views), func(a, b StringView) int {
		return cmp.Compare(a.Off, b.Off)
	})
	for _, v := range ordered {
		if uint64(v.Off)+uint64(v.Len) > uint64(len(backing)) {
			return nil, fmt.Errorf("%w: view %d:%d past %d bytes", ErrViewMismatch, v.Off, v.Len, len(backing))
		}
		if got := s.Insert(backing[v.Off : v.Off+v.Len]); got != v {
			return nil, fmt.Errorf("%w: view %d:%d restored as %d:%d", ErrViewMismatch, v.Off, v.Len, got.Off, got.Len)
		}
	}
	return s, nil
}

func (s *StringSet) find(b []byte) (uint32, bool) {
	if len(s.slots) == 0 {
		return 0, false
	}
	mask := s.mask()
	idx := hashBytes(b) & mask
	for {
		slot := s.slots[idx]
		switch slot.state {
		case slotEmpty:
			return 0, false
		case slotFull:
			if s.equal(slot.view, b) {
				return idx, true
			}
		}
		idx = (idx + 1) & mask
	}
}

func (s *StringSet) grow() {
	newCap := s.initCap
	if newCap == 0 {
		newCap = DefaultSetCap
	}
	if len(s.slots) != 0 {
		newCap = s.Cap()
		// удвоение только если живых ключей много; иначе чистим надгробия на месте
		if float64(s.live+1)*Phi >= float64(newCap) {
			newCap <<= 1
		}
	}
	slots := make([]setSlot, newCap)
	mask := newCap - 1
	for _, slot := range s.slots {
		if slot.state != slotFull {
			continue
		}
		idx := hashBytes(s.Bytes(slot.view)) & mask
		for slots[idx].state != slotEmpty {
			idx = (idx + 1) & mask
		}
		slots[idx] = slot
	}
	s.slots = slots
	s.inUse = s.live
}

func (s *StringSet) store(b []byte) StringView {
	n, err := safecast.Conv[uint32](len(b))
	if err != nil {
		panic(fmt.Errorf("string length overflow: %w", err))
	}
	return StringView{Off: s.bytes.Append(b), Len: n}
}

func (s *StringSet) equal(v StringView, b []byte) bool {
	return int(v.Len) == len(b) && string(s.Bytes(v)) == string(b)
}

func (s *StringSet) mask() uint32 { return s.Cap() - 1 }

// hashBytes is 32-bit FNV-1a.
func hashBytes(b []byte) uint32 {
	h := uint32(2166136261)
	for _, c := range b {
		h ^= uint32(c)
		h *= 16777619
	}
	return h
}
