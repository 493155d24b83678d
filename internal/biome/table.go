package biome

import (
	"encoding/binary"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl32"
)

// Material is one renderable sub-variant of a biome.
type Material struct {
	Biome       Biome
	Colour      mgl32.Vec4 // linear RGBA
	Roughness   float32
	Metallic    float32
	Reflectance float32
}

// Range is a half-open interval [Start, End) of material indices.
type Range struct {
	Start, End int32
}

func (r Range) Len() int32 { return r.End - r.Start }

// Table maps biomes to contiguous, disjoint material ranges. It is built once and never mutated.
type Table struct {
	world     World
	materials []Material
	ranges    [biomeCount]Range
	present   [biomeCount]bool
	order     []Biome
}

type tableEntry struct {
	biome     Biome
	materials []Material
}

func newTable(w World, entries []tableEntry) *Table {
	t := &Table{world: w}
	for _, e := range entries {
		start := int32(len(t.materials))
		for _, m := range e.materials {
			m.Biome = e.biome
			t.materials = append(t.materials, m)
		}
		t.ranges[e.biome] = Range{Start: start, End: int32(len(t.materials))}
		t.present[e.biome] = true
		t.order = append(t.order, e.biome)
	}
	return t
}

// World returns the world type the table serves.
func (t *Table) World() World { return t.world }

// Len returns the number of materials.
func (t *Table) Len() int { return len(t.materials) }

// Contains reports whether i is a valid material index.
func (t *Table) Contains(i int32) bool {
	return i >= 0 && int(i) < len(t.materials)
}

// Material returns material i. It panics if i is out of range.
func (t *Table) Material(i int32) Material {
	return t.materials[i]
}

// Biomes lists the biomes with reserved ranges, in index order.
func (t *Table) Biomes() []Biome {
	return append([]Biome(nil), t.order...)
}

// Range returns the material range reserved for b.
func (t *Table) Range(b Biome) (Range, bool) {
	if b >= biomeCount || !t.present[b] {
		return Range{}, false
	}
	return t.ranges[b], true
}

// Pick selects a material of biome b uniformly by key. Equal keys give equal picks.
func (t *Table) Pick(b Biome, key uint64) (int32, bool) {
	r, ok := t.Range(b)
	if !ok || r.Len() <= 0 {
		return 0, false
	}
	return r.Start + int32(key%uint64(r.Len())), true
}

// TileKey derives the deterministic pick key of a tile.
func TileKey(seed uint64, tile uint32) uint64 {
	var buf [12]byte
	binary.LittleEndian.PutUint64(buf[:8], seed)
	binary.LittleEndian.PutUint32(buf[8:], tile)
	return xxhash.Sum64(buf[:])
}

var (
	groundTable = sync.OnceValue(func() *Table { return newTable(WorldGround, groundEntries()) })
	baseTable   = sync.OnceValue(func() *Table { return newTable(WorldBase, baseEntries()) })
	skyTable    = sync.OnceValue(func() *Table { return newTable(WorldSky, skyEntries()) })
	spaceTable  = sync.OnceValue(func() *Table { return newTable(WorldSpace, spaceEntries()) })
)

// TableFor returns the shared material table of world w. Empty worlds share the space table.
func TableFor(w World) *Table {
	switch w {
	case WorldGround:
		return groundTable()
	case WorldBase:
		return baseTable()
	case WorldSky:
		return skyTable()
	}
	return spaceTable()
}

func rgb(r, g, b float32) mgl32.Vec4 {
	return mgl32.Vec4{r, g, b, 1}
}

func shade(c mgl32.Vec4, f float32) mgl32.Vec4 {
	return mgl32.Vec4{c[0] * f, c[1] * f, c[2] * f, c[3]}
}

func mat(colour mgl32.Vec4, roughness, metallic, reflectance float32) Material {
	return Material{Colour: colour, Roughness: roughness, Metallic: metallic, Reflectance: reflectance}
}

var (
	orange      = rgb(1, 0.647, 0)
	darkGreen   = rgb(0, 0.392, 0)
	limeGreen   = rgb(0.196, 0.804, 0.196)
	green       = rgb(0, 1, 0)
	yellowGreen = rgb(0.604, 0.804, 0.196)
	aliceBlue   = rgb(0.941, 0.973, 1)
	white       = rgb(1, 1, 1)
	gray        = rgb(0.5, 0.5, 0.5)
	blue        = rgb(0, 0, 1)
	plainsGreen = rgb(159.0/255, 247.0/255, 141.0/255)
	steppeSand  = rgb(240.0/255, 230.0/255, 127.0/255)
	magenta     = rgb(1, 0, 1)
)

func groundEntries() []tableEntry {
	return []tableEntry{
		{Red, []Material{mat(magenta, 0.5, 0, 0.5)}},
		{Savannah, []Material{
			mat(orange, 0.9, 0.7, 0.1),
			mat(orange, 0.6, 0.2, 0.0),
			mat(orange, 0.7, 0.7, 0.2),
		}},
		{Forest, []Material{
			mat(darkGreen, 0.9, 0.0, 0.1),
			mat(darkGreen, 0.8, 0.05, 0.4),
			mat(darkGreen, 0.7, 0.5, 0.2),
		}},
		{Jungle, []Material{
			mat(limeGreen, 0.9, 0.0, 0.1),
			mat(green, 0.8, 0.05, 0.4),
			mat(yellowGreen, 0.7, 0.5, 0.2),
		}},
		{Ice, []Material{
			mat(aliceBlue, 0.3, 0.1, 0.6),
			mat(aliceBlue, 0.2, 0.4, 0.8),
			mat(white, 0.95, 0.2, 0.9),
		}},
		{Desert, []Material{
			mat(rgb(0.9, 0.9, 0), 1.0, 0.1, 0.9),
			mat(rgb(0.8, 0.8, 0), 0.8, 0.3, 0.8),
		}},
		{MountainSide, []Material{
			mat(gray, 0.8, 0.2, 0.1),
			mat(gray, 1.0, 0.1, 0.0),
		}},
		{Water, []Material{
			mat(blue, 0.0, 0.1, 1.0),
			mat(rgb(0, 0, 0.9), 0.05, 0.2, 0.9),
		}},
		{Plains, []Material{
			mat(plainsGreen, 0.9, 0.7, 0.1),
			mat(plainsGreen, 0.6, 0.2, 0.0),
			mat(plainsGreen, 0.7, 0.7, 0.2),
		}},
		{Steppes, []Material{
			mat(steppeSand, 0.9, 0.7, 0.1),
			mat(steppeSand, 0.6, 0.2, 0.0),
			mat(steppeSand, 0.7, 0.7, 0.2),
		}},
	}
}

// Index 0 of the other tables is an Empty placeholder so a zeroed per-face buffer stays valid.

func baseEntries() []tableEntry {
	brown := rgb(0.45, 0.3, 0.15)
	return []tableEntry{
		{Empty, []Material{mat(magenta, 0.5, 0, 0.5)}},
		{Dirt, []Material{
			mat(brown, 0.95, 0.0, 0.1),
			mat(shade(brown, 0.85), 0.9, 0.05, 0.1),
			mat(shade(brown, 0.7), 0.85, 0.1, 0.2),
		}},
		{Rock, []Material{
			mat(gray, 0.8, 0.2, 0.1),
			mat(shade(gray, 0.8), 1.0, 0.1, 0.0),
		}},
		{Ore, []Material{
			mat(rgb(0.72, 0.45, 0.2), 0.4, 0.9, 0.6),
			mat(rgb(0.75, 0.75, 0.8), 0.3, 1.0, 0.8),
			mat(rgb(1, 0.84, 0), 0.25, 1.0, 0.9),
		}},
		{Lava, []Material{
			mat(rgb(1, 0.27, 0), 0.6, 0.0, 0.3),
			mat(rgb(0.8, 0.1, 0), 0.7, 0.1, 0.2),
		}},
		{Frost, []Material{
			mat(aliceBlue, 0.3, 0.1, 0.6),
			mat(white, 0.95, 0.2, 0.9),
		}},
	}
}

func skyEntries() []tableEntry {
	return []tableEntry{
		{Empty, []Material{mat(magenta, 0.5, 0, 0.5)}},
		{OpenSky, []Material{mat(rgb(0.53, 0.81, 0.92), 0.0, 0.0, 0.5)}},
		{Cloud, []Material{
			mat(white, 1.0, 0.0, 0.7),
			mat(aliceBlue, 0.9, 0.0, 0.6),
		}},
		{Island, []Material{
			mat(plainsGreen, 0.9, 0.1, 0.1),
			mat(darkGreen, 0.8, 0.05, 0.4),
			mat(gray, 0.8, 0.2, 0.1),
		}},
	}
}

func spaceEntries() []tableEntry {
	return []tableEntry{
		{Empty, []Material{mat(rgb(0, 0, 0), 1.0, 0, 0)}},
		{Void, []Material{mat(rgb(0.02, 0.02, 0.05), 1.0, 0.0, 0.0)}},
		{Dust, []Material{
			mat(rgb(0.4, 0.35, 0.3), 1.0, 0.1, 0.1),
			mat(rgb(0.5, 0.4, 0.35), 0.95, 0.1, 0.1),
		}},
		{Asteroid, []Material{
			mat(shade(gray, 0.6), 0.9, 0.3, 0.1),
			mat(shade(gray, 0.5), 0.85, 0.5, 0.2),
			mat(rgb(0.72, 0.45, 0.2), 0.5, 0.9, 0.5),
		}},
	}
}
