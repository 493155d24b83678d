package tilestore

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"Hexaplanet/internal/biome"
	"Hexaplanet/internal/graph"
	"Hexaplanet/internal/logger"
)

// Tile is the mutable state of one tile.
type Tile struct {
	ID       uint32
	Biome    biome.Biome
	Material int32
}

type chunk struct {
	mu    sync.RWMutex
	tiles []Tile
}

// Store holds every tile, one lock per chunk. No method holds more than one chunk lock at a time.
type Store struct {
	layout *Layout
	chunks []chunk
}

// New allocates a store for layout, filling each tile with init(id).
func New(layout *Layout, init func(id uint32) Tile) *Store {
	s := &Store{
		layout: layout,
		chunks: make([]chunk, layout.Chunks()),
	}
	for c := range s.chunks {
		start := layout.Start(c)
		tiles := make([]Tile, layout.ChunkLen(c))
		for i := range tiles {
			id := start + uint32(i)
			if init != nil {
				tiles[i] = init(id)
			}
			tiles[i].ID = id
		}
		s.chunks[c].tiles = tiles
	}

	logger.Log.Debug("Tile store created",
		zap.Int("tiles", layout.Len()),
		zap.Int("chunks", layout.Chunks()))
	return s
}

// Layout returns the chunk layout.
func (s *Store) Layout() *Layout {
	return s.layout
}

func (s *Store) locate(id uint32) (*chunk, uint32, error) {
	c, local, ok := s.layout.Resolve(id)
	if !ok {
		return nil, 0, fmt.Errorf("%w: %d", ErrTileOutOfRange, id)
	}
	return &s.chunks[c], local, nil
}

// Get returns a copy of tile id.
func (s *Store) Get(id uint32) (Tile, error) {
	ch, local, err := s.locate(id)
	if err != nil {
		return Tile{}, err
	}
	ch.mu.RLock()
	defer ch.mu.RUnlock()
	return ch.tiles[local], nil
}

// Update runs fn on tile id under its chunk's write lock. fn must not call back into the store.
// The tile ID cannot be changed.
func (s *Store) Update(id uint32, fn func(t *Tile)) error {
	ch, local, err := s.locate(id)
	if err != nil {
		return err
	}
	ch.mu.Lock()
	defer ch.mu.Unlock()
	fn(&ch.tiles[local])
	ch.tiles[local].ID = id
	return nil
}

// SetMaterial replaces the material of tile id and returns the previous one.
func (s *Store) SetMaterial(id uint32, material int32) (old int32, err error) {
	err = s.Update(id, func(t *Tile) {
		old = t.Material
		t.Material = material
	})
	return old, err
}

// SetBiome replaces the biome of tile id and returns the previous one.
func (s *Store) SetBiome(id uint32, b biome.Biome) (old biome.Biome, err error) {
	err = s.Update(id, func(t *Tile) {
		old = t.Biome
		t.Biome = b
	})
	return old, err
}

// Neighbors appends copies of the graph neighbors of id to dst. Each neighbor's chunk is read
// locked on its own and released before the next.
func (s *Store) Neighbors(dst []Tile, id uint32, g *graph.Graph) ([]Tile, error) {
	if int(id) >= s.layout.Len() || int(id) >= g.Len() {
		return dst, fmt.Errorf("%w: %d", ErrTileOutOfRange, id)
	}
	for _, n := range g.Neighbors(id) {
		t, err := s.Get(n)
		if err != nil {
			return dst, err
		}
		dst = append(dst, t)
	}
	return dst, nil
}

// ViewChunk calls fn with the tiles of chunk c under its read lock. fn must not retain tiles or
// call back into the store.
func (s *Store) ViewChunk(c int, fn func(tiles []Tile)) error {
	if c < 0 || c >= len(s.chunks) {
		return fmt.Errorf("%w: %d", ErrChunkOutOfRange, c)
	}
	ch := &s.chunks[c]
	ch.mu.RLock()
	defer ch.mu.RUnlock()
	fn(ch.tiles)
	return nil
}

// Snapshot copies every tile in ID order, one chunk at a time.
func (s *Store) Snapshot() []Tile {
	out := make([]Tile, 0, s.layout.Len())
	for c := range s.chunks {
		_ = s.ViewChunk(c, func(tiles []Tile) {
			out = append(out, tiles...)
		})
	}
	return out
}
