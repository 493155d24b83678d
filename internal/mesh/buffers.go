package mesh

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Buffers is the renderable output of a planet build.
// PerFaceMaterial has one entry per position; the renderer reads it from the provoking vertex
// of each fan triangle, which is always the tile center.
type Buffers struct {
	Positions       [][3]float32
	UVs             [][2]float32
	Indices         []uint32
	PerFaceMaterial []int32
	Scale           float32 // uniform scale keeping tile size constant across subdivision levels
}

// VertexCount returns len(Positions).
func (b *Buffers) VertexCount() int {
	return len(b.Positions)
}

// TriangleCount returns len(Indices)/3.
func (b *Buffers) TriangleCount() int {
	return len(b.Indices) / 3
}

// Validate checks the structural invariants of the buffers.
func (b *Buffers) Validate() error {
	if len(b.Indices)%3 != 0 {
		return fmt.Errorf("mesh: index count %d is not a multiple of 3", len(b.Indices))
	}
	if len(b.UVs) != len(b.Positions) {
		return fmt.Errorf("mesh: %d uvs for %d positions", len(b.UVs), len(b.Positions))
	}
	if len(b.PerFaceMaterial) != len(b.Positions) {
		return fmt.Errorf("mesh: %d per-face indices for %d positions", len(b.PerFaceMaterial), len(b.Positions))
	}
	for i, idx := range b.Indices {
		if int(idx) >= len(b.Positions) {
			return fmt.Errorf("mesh: index %d at %d out of range (%d positions)", idx, i, len(b.Positions))
		}
	}
	return nil
}

// Fingerprint hashes every buffer. Equal fingerprints mean bit-identical meshes with
// overwhelming probability.
func (b *Buffers) Fingerprint() uint64 {
	h := xxhash.New()
	var word [4]byte
	put := func(v uint32) {
		binary.LittleEndian.PutUint32(word[:], v)
		_, _ = h.Write(word[:])
	}
	put(uint32(len(b.Positions)))
	for _, p := range b.Positions {
		put(math.Float32bits(p[0]))
		put(math.Float32bits(p[1]))
		put(math.Float32bits(p[2]))
	}
	put(uint32(len(b.UVs)))
	for _, uv := range b.UVs {
		put(math.Float32bits(uv[0]))
		put(math.Float32bits(uv[1]))
	}
	put(uint32(len(b.Indices)))
	for _, idx := range b.Indices {
		put(idx)
	}
	put(uint32(len(b.PerFaceMaterial)))
	for _, m := range b.PerFaceMaterial {
		put(uint32(m))
	}
	put(math.Float32bits(b.Scale))
	return h.Sum64()
}
