// Package planet runs the full generation pipeline: base triangulation, tile tessellation, noise
// sampling, classification and material assignment. A build either returns a complete Planet or
// an error; nothing partial escapes.
package planet

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"Hexaplanet/internal/biome"
	"Hexaplanet/internal/config"
	"Hexaplanet/internal/graph"
	"Hexaplanet/internal/icosphere"
	"Hexaplanet/internal/logger"
	"Hexaplanet/internal/mesh"
	"Hexaplanet/internal/noise"
	"Hexaplanet/internal/tessellate"
	"Hexaplanet/internal/tilestore"
)

// planetNamespace scopes planet IDs derived from mesh fingerprints.
var planetNamespace = uuid.MustParse("6f1c2a0e-4b7d-5e39-9a52-3c8d7e0f1b64")

// TileRecord is the build-time description of one tile.
type TileRecord struct {
	Corners   []uint32 // corner position indices, ordered around the tile
	Center    mgl32.Vec3
	Transform mgl32.Mat4
	Biome     biome.Biome
	Material  int32
	Node      uint32 // graph node, equal to the tile ID
	Chunk     int
}

// Report summarises a build.
type Report struct {
	World     biome.World
	Level     int
	Tiles     int
	Pentagons int
	Fallbacks int64
	Biomes    map[biome.Biome]int
	Elapsed   time.Duration
}

// Planet is a generated planet. Tiles hold the state at build time; Store and Mesh hold the
// live material state and change through SetTileMaterial.
type Planet struct {
	ID     uuid.UUID
	World  biome.World
	Mesh   *mesh.Buffers
	Graph  *graph.Graph
	Tiles  []TileRecord
	Store  *tilestore.Store
	Table  *biome.Table
	Report Report

	centerBase uint32 // position index of tile 0's center
}

// Build generates a planet from a validated configuration.
func Build(cfg *config.Config) (*Planet, error) {
	world, err := biome.ParseWorld(cfg.Planet.World)
	if err != nil {
		return nil, err
	}
	return BuildTiles(cfg.Planet.Subdivisions, world, ParamsFromConfig(cfg))
}

// BuildTiles generates a planet at the given subdivision level.
func BuildTiles(level int, world biome.World, params Params) (*Planet, error) {
	if level < 0 || level > config.MaxSubdivisions {
		return nil, fmt.Errorf("planet: subdivision level %d outside [0, %d]", level, config.MaxSubdivisions)
	}
	start := time.Now()

	tri, err := icosphere.Generate(level)
	if err != nil {
		return nil, fmt.Errorf("planet: %w", err)
	}
	res, err := tessellate.Tessellate(tri)
	if err != nil {
		return nil, fmt.Errorf("planet: %w", err)
	}
	logger.Log.Info("Tessellated planet",
		zap.Int("level", level),
		zap.Int("tiles", len(res.Tiles)),
		zap.Int("corners", len(res.Corners)))

	centers := make([]mgl32.Vec3, len(res.Tiles))
	for i := range res.Tiles {
		centers[i] = res.Tiles[i].Center
	}

	field, err := sample(world, params, centers)
	if err != nil {
		return nil, err
	}

	var slopes []float32
	if world == biome.WorldGround {
		slopes = biome.SlopeRanks(biome.Slopes(res.Graph, field.Column(groundHeight), params.SlopeRadius))
	}

	classifier := biome.NewClassifier(world)
	table := biome.TableFor(world)
	m := res.Mesh()
	records := make([]TileRecord, len(res.Tiles))
	report := Report{
		World:  world,
		Level:  level,
		Tiles:  len(res.Tiles),
		Biomes: make(map[biome.Biome]int),
	}

	for id := range res.Tiles {
		tile := &res.Tiles[id]
		var row []float32
		if field != nil {
			row = field.Row(id)
		}
		var slope float32
		if slopes != nil {
			slope = slopes[id]
		}

		b := classifier.Classify(uint32(id), inputs(world, row, slope))
		material, ok := table.Pick(b, biome.TileKey(params.MaterialSeed, uint32(id)))
		if !ok {
			return nil, fmt.Errorf("planet: biome %s has no materials in the %s table", b, world)
		}
		m.PerFaceMaterial[res.CenterIndex(uint32(id))] = material

		records[id] = TileRecord{
			Corners:   append([]uint32(nil), tile.Corners()...),
			Center:    tile.Center,
			Transform: tileTransform(tile.Center),
			Biome:     b,
			Material:  material,
			Node:      uint32(id),
			Chunk:     tile.Chunk,
		}
		report.Biomes[b]++
		if tile.IsPentagon() {
			report.Pentagons++
		}
	}
	report.Fallbacks = classifier.Fallbacks()

	layout, err := tilestore.NewLayout(res.ChunkStarts)
	if err != nil {
		return nil, fmt.Errorf("planet: %w", err)
	}
	store := tilestore.New(layout, func(id uint32) tilestore.Tile {
		return tilestore.Tile{Biome: records[id].Biome, Material: records[id].Material}
	})

	p := &Planet{
		World:      world,
		Mesh:       m,
		Graph:      res.Graph,
		Tiles:      records,
		Store:      store,
		Table:      table,
		centerBase: uint32(len(res.Corners)),
	}
	p.ID = idFor(p.Mesh.Fingerprint())
	report.Elapsed = time.Since(start)
	p.Report = report

	logger.Log.Info("Planet built",
		zap.String("id", p.ID.String()),
		zap.Stringer("world", world),
		zap.Int("tiles", report.Tiles),
		zap.Int64("fallbacks", report.Fallbacks),
		zap.Duration("elapsed", report.Elapsed))
	return p, nil
}

func sample(world biome.World, params Params, centers []mgl32.Vec3) (*noise.Field, error) {
	channels := Channels(world, params.Seeds)
	if len(channels) == 0 {
		return nil, nil
	}
	sampler, err := noise.NewSampler(params.Noise)
	if err != nil {
		return nil, fmt.Errorf("planet: %w", err)
	}
	defer sampler.Close()

	field, err := sampler.SampleN(centers, len(channels), channels)
	if err != nil {
		return nil, fmt.Errorf("planet: sample %s channels: %w", world, err)
	}
	return field, nil
}

func idFor(fingerprint uint64) uuid.UUID {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], fingerprint)
	return uuid.NewSHA1(planetNamespace, buf[:])
}

// SetTileMaterial changes the live material of a tile in the store and the mesh and returns the
// previous material.
func (p *Planet) SetTileMaterial(id uint32, material int32) (int32, error) {
	if !p.Table.Contains(material) {
		return 0, fmt.Errorf("planet: material %d outside table of %d", material, p.Table.Len())
	}
	var old int32
	err := p.Store.Update(id, func(t *tilestore.Tile) {
		old = t.Material
		t.Material = material
		t.Biome = p.Table.Material(material).Biome
		// the chunk lock also serialises writers of this tile's mesh entry
		p.Mesh.PerFaceMaterial[p.centerBase+id] = material
	})
	if err != nil {
		return 0, err
	}
	logger.Log.Debug("Tile material changed",
		zap.Uint32("tile", id),
		zap.Int32("old", old),
		zap.Int32("new", material))
	return old, nil
}

// Fingerprint hashes the current mesh state. It must not run concurrently with SetTileMaterial.
func (p *Planet) Fingerprint() uint64 {
	return p.Mesh.Fingerprint()
}
