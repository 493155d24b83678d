package tessellate

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"Hexaplanet/internal/icosphere"
)

func tessellateLevel(t *testing.T, level int) (*icosphere.Triangulation, *Result) {
	t.Helper()
	tri, err := icosphere.Generate(level)
	if err != nil {
		t.Fatalf("Generate(%d) failed: %v", level, err)
	}
	res, err := Tessellate(tri)
	if err != nil {
		t.Fatalf("Tessellate(%d) failed: %v", level, err)
	}
	return tri, res
}

func TestTwelvePentagons(t *testing.T) {
	for level := 0; level <= 5; level++ {
		tri, res := tessellateLevel(t, level)
		if len(res.Tiles) != len(tri.Points) {
			t.Errorf("level %d: expected %d tiles, got %d", level, len(tri.Points), len(res.Tiles))
		}
		pentagons := 0
		for i := range res.Tiles {
			switch n := len(res.Tiles[i].Corners()); n {
			case 5:
				pentagons++
			case 6:
			default:
				t.Fatalf("level %d: tile %d has %d corners", level, i, n)
			}
		}
		if pentagons != 12 {
			t.Errorf("level %d: expected 12 pentagons, got %d", level, pentagons)
		}
	}
}

func TestGraphMatchesTileCorners(t *testing.T) {
	_, res := tessellateLevel(t, 3)
	g := res.Graph
	if g.Len() != len(res.Tiles) {
		t.Fatalf("Expected %d graph nodes, got %d", len(res.Tiles), g.Len())
	}
	for id := range res.Tiles {
		node := uint32(id)
		if g.Degree(node) != len(res.Tiles[id].Corners()) {
			t.Errorf("tile %d: degree %d, corners %d", id, g.Degree(node), len(res.Tiles[id].Corners()))
		}
		for _, n := range g.Neighbors(node) {
			if n == node {
				t.Errorf("tile %d is its own neighbor", id)
			}
			if !g.HasEdge(n, node) {
				t.Errorf("edge %d-%d not symmetric", id, n)
			}
		}
	}
}

func TestChunkPartition(t *testing.T) {
	level := 3
	_, res := tessellateLevel(t, level)

	if len(res.ChunkStarts) != ChunkCount+1 {
		t.Fatalf("Expected %d chunk starts, got %d", ChunkCount+1, len(res.ChunkStarts))
	}
	if int(res.ChunkStarts[ChunkCount]) != len(res.Tiles) {
		t.Errorf("chunk sizes sum to %d, expected %d", res.ChunkStarts[ChunkCount], len(res.Tiles))
	}

	n := level + 1
	interior := uint32((n - 1) * (n - 2) / 2)
	for c := 0; c < BoundaryChunk; c++ {
		if size := res.ChunkStarts[c+1] - res.ChunkStarts[c]; size != interior {
			t.Errorf("face chunk %d: expected %d tiles, got %d", c, interior, size)
		}
	}

	for id := range res.Tiles {
		chunk := res.Tiles[id].Chunk
		if uint32(id) < res.ChunkStarts[chunk] || uint32(id) >= res.ChunkStarts[chunk+1] {
			t.Errorf("tile %d in chunk %d lies outside its range", id, chunk)
		}
		if res.Tiles[id].Vertex < icosphere.PoleCount && chunk != BoundaryChunk {
			t.Errorf("pole tile %d should be in the boundary chunk, got %d", id, chunk)
		}
		if res.VertexTile[res.Tiles[id].Vertex] != uint32(id) {
			t.Errorf("vertex lookup for tile %d is inconsistent", id)
		}
	}
}

func TestFanIndices(t *testing.T) {
	_, res := tessellateLevel(t, 2)
	corners := 0
	for i := range res.Tiles {
		corners += len(res.Tiles[i].Corners())
	}
	if len(res.Indices) != corners*3 {
		t.Errorf("Expected %d indices, got %d", corners*3, len(res.Indices))
	}
	if res.PositionCount() != 180+92 {
		t.Errorf("Expected 272 positions, got %d", res.PositionCount())
	}

	m := res.Mesh()
	if err := m.Validate(); err != nil {
		t.Fatalf("mesh invalid: %v", err)
	}
	for i := 0; i < len(m.Indices); i += 3 {
		a := mgl32.Vec3(m.Positions[m.Indices[i]])
		b := mgl32.Vec3(m.Positions[m.Indices[i+1]])
		c := mgl32.Vec3(m.Positions[m.Indices[i+2]])
		if b.Sub(a).Cross(c.Sub(a)).Dot(a) <= 0 {
			t.Fatalf("fan triangle %d is wound inward", i/3)
		}
		if int(m.Indices[i]) < len(res.Corners) {
			t.Fatalf("fan triangle %d does not start at a tile center", i/3)
		}
	}
}

func TestScaleGrowsWithLevel(t *testing.T) {
	_, coarse := tessellateLevel(t, 1)
	_, fine := tessellateLevel(t, 4)
	if coarse.Scale <= 0 || fine.Scale <= coarse.Scale {
		t.Errorf("Expected scale to grow with level, got %f then %f", coarse.Scale, fine.Scale)
	}
}

func TestCorruptTriangulation(t *testing.T) {
	tri, err := icosphere.Generate(1)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	broken := &icosphere.Triangulation{
		Level:   tri.Level,
		Points:  tri.Points,
		Indices: tri.Indices[3:],
		Faces:   tri.Faces[1:],
	}

	_, err = Tessellate(broken)
	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("Expected CycleError, got %v", err)
	}
}

func TestUV(t *testing.T) {
	uv := UV(mgl32.Vec3{1, 0, 0})
	if math.Abs(float64(uv[0])-10) > 1e-4 || math.Abs(float64(uv[1])-5) > 1e-4 {
		t.Errorf("Expected (10, 5), got %v", uv)
	}
	pole := UV(mgl32.Vec3{0, 1, 0})
	if pole[1] != 0 {
		t.Errorf("Expected v=0 at the north pole, got %f", pole[1])
	}
}
