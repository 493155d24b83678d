// Package tilestore keeps per-tile mutable state partitioned into chunks, each guarded by its own
// read-write lock. Chunk ownership is a pure function of the tile ID.
package tilestore

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrTileOutOfRange  = errors.New("tilestore: tile out of range")
	ErrChunkOutOfRange = errors.New("tilestore: chunk out of range")
)

// Layout maps contiguous tile ID ranges to chunks. It is immutable and needs no locking.
type Layout struct {
	starts []uint32 // first ID of each chunk, plus the total count
}

// NewLayout builds a layout from chunk start thresholds; starts[c] is the first ID of chunk c
// and the final entry is the total tile count.
func NewLayout(starts []uint32) (*Layout, error) {
	if len(starts) < 2 {
		return nil, fmt.Errorf("tilestore: need at least one chunk, got %d thresholds", len(starts))
	}
	if starts[0] != 0 {
		return nil, fmt.Errorf("tilestore: first chunk must start at 0, got %d", starts[0])
	}
	for i := 1; i < len(starts); i++ {
		if starts[i] < starts[i-1] {
			return nil, fmt.Errorf("tilestore: chunk thresholds decrease at %d", i)
		}
	}
	return &Layout{starts: append([]uint32(nil), starts...)}, nil
}

// Len returns the total tile count.
func (l *Layout) Len() int {
	return int(l.starts[len(l.starts)-1])
}

// Chunks returns the chunk count.
func (l *Layout) Chunks() int {
	return len(l.starts) - 1
}

// Start returns the first tile ID of chunk c.
func (l *Layout) Start(c int) uint32 {
	return l.starts[c]
}

// ChunkLen returns the number of tiles in chunk c.
func (l *Layout) ChunkLen(c int) int {
	return int(l.starts[c+1] - l.starts[c])
}

// Resolve returns the chunk owning id and the tile's offset inside it.
func (l *Layout) Resolve(id uint32) (chunk int, local uint32, ok bool) {
	if int(id) >= l.Len() {
		return 0, 0, false
	}
	// last chunk whose start is <= id; empty chunks share their start with the next one
	chunk = sort.Search(len(l.starts), func(i int) bool { return l.starts[i] > id }) - 1
	return chunk, id - l.starts[chunk], true
}

// ChunkOf returns the chunk owning id.
func (l *Layout) ChunkOf(id uint32) (int, bool) {
	c, _, ok := l.Resolve(id)
	return c, ok
}
