// Package traceindex builds and stores the position table that gives random
// access to the traces of a SEG-Y file.
//
// SEG-Y has no table of contents: the length of each trace is only known from
// its own header. An Indexer walks the file once, recording one Item per
// trace into a Store, and afterwards answers lookups by ordinal in O(1).
package traceindex

import (
	"encoding/binary"

	"github.com/eunmann/segyio/pkg/segyerr"
)

// ItemSize is the encoded size of one Item in a sidecar file.
const ItemSize = 16

// Item locates one trace.
type Item struct {
	// Position is the file offset of the trace header.
	Position int64
	// NumSamples is the sample count read from the trace header.
	NumSamples int64
}

// End returns the offset just past the trace's payload.
func (it Item) End(sampleWidth int) int64 {
	return it.Position + traceHeaderSize + it.NumSamples*int64(sampleWidth)
}

// Encode writes the item into dst, which must hold ItemSize bytes.
func (it Item) Encode(dst []byte) {
	binary.LittleEndian.PutUint64(dst[0:8], uint64(it.Position))
	binary.LittleEndian.PutUint64(dst[8:16], uint64(it.NumSamples))
}

// DecodeItem reads an item encoded by Encode.
func DecodeItem(src []byte) Item {
	return Item{
		Position:   int64(binary.LittleEndian.Uint64(src[0:8])),
		NumSamples: int64(binary.LittleEndian.Uint64(src[8:16])),
	}
}

// Store holds the items of one file in trace order.
type Store interface {
	// PushBack appends the item for the next trace.
	PushBack(it Item) error
	// Size returns the number of items.
	Size() int
	// Load returns item n.
	Load(n int) (Item, error)
	// Reset discards items n and above, keeping the first n.
	Reset(n int) error
	// Clear discards all items.
	Clear() error
	// Sync makes pushed items durable. It is a no-op for memory stores.
	Sync() error
	Close() error
}

// MemoryStore keeps items in a slice. It is lost on Close.
type MemoryStore struct {
	items []Item
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) PushBack(it Item) error {
	s.items = append(s.items, it)
	return nil
}

func (s *MemoryStore) Size() int { return len(s.items) }

func (s *MemoryStore) Load(n int) (Item, error) {
	if err := segyerr.CheckIndex("index item", n, len(s.items)); err != nil {
		return Item{}, err
	}
	return s.items[n], nil
}

func (s *MemoryStore) Reset(n int) error {
	if n < 0 || n > len(s.items) {
		return segyerr.CheckIndex("index reset point", n, len(s.items)+1)
	}
	s.items = s.items[:n]
	return nil
}

func (s *MemoryStore) Clear() error {
	s.items = s.items[:0]
	return nil
}

func (s *MemoryStore) Sync() error { return nil }

func (s *MemoryStore) Close() error {
	s.items = nil
	return nil
}
