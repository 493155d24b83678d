// Package tessellate turns a base triangulation into its dual: one tile per base vertex, whose
// corners are the centroids of the triangles around it. It also derives the tile adjacency graph,
// the chunk partition and the renderable mesh.
package tessellate

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"Hexaplanet/internal/graph"
	"Hexaplanet/internal/icosphere"
	"Hexaplanet/internal/mesh"
)

const (
	// ChunkCount is the number of tile chunks: one per icosahedron face plus the boundary chunk.
	ChunkCount = icosphere.FaceCount + 1
	// BoundaryChunk holds tiles whose surrounding triangles span more than one base face.
	BoundaryChunk = icosphere.FaceCount

	maxCorners = 6
	noFace     = uint8(0xff)
	mixedFace  = uint8(0xfe)
)

// CycleError reports a base vertex whose surrounding triangles do not form a closed fan.
// It means the input triangulation is corrupt.
type CycleError struct {
	Vertex  uint32
	Entries int
	Reason  string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("tessellate: vertex %d with %d surrounding triangles: %s", e.Vertex, e.Entries, e.Reason)
}

// Tile is one hexagon or pentagon of the dual mesh.
type Tile struct {
	Vertex  uint32 // base vertex the tile was built around
	Center  mgl32.Vec3
	Chunk   int
	corners [maxCorners]uint32
	n       uint8
}

// Corners returns the ordered corner indices (triangle indices, which double as corner position indices).
func (t *Tile) Corners() []uint32 {
	return t.corners[:t.n]
}

// IsPentagon reports whether the tile has five corners.
func (t *Tile) IsPentagon() bool {
	return t.n == 5
}

// Result is the complete tessellation.
type Result struct {
	Corners     []mgl32.Vec3 // one per base triangle
	Tiles       []Tile       // indexed by tile ID, chunk-major
	Indices     []uint32     // fan triangles over Positions()
	Graph       *graph.Graph
	ChunkStarts []uint32 // first tile ID of each chunk, len ChunkCount+1
	VertexTile  []uint32 // base vertex -> tile ID
	Scale       float32
}

// CenterIndex returns the position index of a tile's center vertex.
func (r *Result) CenterIndex(tile uint32) uint32 {
	return uint32(len(r.Corners)) + tile
}

// PositionCount is the number of mesh vertices: corners followed by centers.
func (r *Result) PositionCount() int {
	return len(r.Corners) + len(r.Tiles)
}

type entry struct {
	edge   [2]uint32
	corner uint32
}

// surrounding collects the triangles around one base vertex.
type surrounding struct {
	entries  [maxCorners]entry
	n        uint8
	overflow int
}

func (s *surrounding) push(e entry) {
	if int(s.n) == maxCorners {
		s.overflow++
		return
	}
	s.entries[s.n] = e
	s.n++
}

func (s *surrounding) count() int {
	return int(s.n) + s.overflow
}

// order walks the entries into a cycle: each next entry starts where the previous one ended.
func (s *surrounding) order(vertex uint32, dst *Tile) error {
	if s.overflow > 0 {
		return &CycleError{Vertex: vertex, Entries: s.count(), Reason: "more than 6 surrounding triangles"}
	}
	n := int(s.n)
	if n < 3 {
		return &CycleError{Vertex: vertex, Entries: n, Reason: "too few surrounding triangles"}
	}

	pending := s.entries
	first := pending[0].edge[0]
	next := pending[0].edge[1]
	dst.corners[0] = pending[0].corner
	dst.n = 1
	pending[0] = pending[n-1]
	n--

	for n > 0 {
		found := -1
		for i := 0; i < n; i++ {
			if pending[i].edge[0] == next {
				found = i
				break
			}
		}
		if found < 0 {
			return &CycleError{Vertex: vertex, Entries: int(s.n), Reason: fmt.Sprintf("no successor for edge ending at %d", next)}
		}
		next = pending[found].edge[1]
		dst.corners[dst.n] = pending[found].corner
		dst.n++
		pending[found] = pending[n-1]
		n--
	}
	if next != first {
		return &CycleError{Vertex: vertex, Entries: int(s.n), Reason: "fan does not close"}
	}
	return nil
}

// Tessellate builds the dual tile mesh of tri.
func Tessellate(tri *icosphere.Triangulation) (*Result, error) {
	if len(tri.Indices)%3 != 0 {
		return nil, fmt.Errorf("tessellate: index count %d is not a multiple of 3", len(tri.Indices))
	}
	vertexCount := len(tri.Points)
	triCount := tri.TriangleCount()

	res := &Result{
		Corners: make([]mgl32.Vec3, triCount),
	}
	around := make([]surrounding, vertexCount)
	vertexFace := make([]uint8, vertexCount)
	for i := range vertexFace {
		vertexFace[i] = noFace
	}
	baseEdges := make(map[[2]uint32]struct{}, triCount*3/2)

	for t := 0; t < triCount; t++ {
		a, b, c := tri.Triangle(t)
		if int(a) >= vertexCount || int(b) >= vertexCount || int(c) >= vertexCount {
			return nil, fmt.Errorf("tessellate: triangle %d references a vertex outside %d points", t, vertexCount)
		}
		pa, pb, pc := tri.Points[a], tri.Points[b], tri.Points[c]
		res.Corners[t] = pa.Add(pb).Add(pc).Mul(1.0 / 3).Normalize()

		corner := uint32(t)
		around[a].push(entry{edge: [2]uint32{b, c}, corner: corner})
		around[b].push(entry{edge: [2]uint32{c, a}, corner: corner})
		around[c].push(entry{edge: [2]uint32{a, b}, corner: corner})

		face := mixedFace
		if len(tri.Faces) == triCount {
			face = tri.Faces[t]
		}
		for _, v := range [3]uint32{a, b, c} {
			switch vertexFace[v] {
			case noFace:
				vertexFace[v] = face
			case face:
			default:
				vertexFace[v] = mixedFace
			}
		}

		baseEdges[undirected(a, b)] = struct{}{}
		baseEdges[undirected(b, c)] = struct{}{}
		baseEdges[undirected(c, a)] = struct{}{}
	}

	// chunk-major tile IDs
	chunkOf := make([]int, vertexCount)
	sizes := make([]uint32, ChunkCount)
	for v := range chunkOf {
		chunk := BoundaryChunk
		if f := vertexFace[v]; f < icosphere.FaceCount {
			chunk = int(f)
		}
		chunkOf[v] = chunk
		sizes[chunk]++
	}
	res.ChunkStarts = make([]uint32, ChunkCount+1)
	for c := 0; c < ChunkCount; c++ {
		res.ChunkStarts[c+1] = res.ChunkStarts[c] + sizes[c]
	}
	fill := make([]uint32, ChunkCount)
	res.VertexTile = make([]uint32, vertexCount)
	res.Tiles = make([]Tile, vertexCount)

	for v := 0; v < vertexCount; v++ {
		chunk := chunkOf[v]
		id := res.ChunkStarts[chunk] + fill[chunk]
		fill[chunk]++
		res.VertexTile[v] = id

		tile := &res.Tiles[id]
		tile.Vertex = uint32(v)
		tile.Chunk = chunk
		if err := around[v].order(uint32(v), tile); err != nil {
			return nil, err
		}
		var sum mgl32.Vec3
		for _, c := range tile.Corners() {
			sum = sum.Add(res.Corners[c])
		}
		tile.Center = sum.Normalize()
	}

	// fan triangulation in tile order
	res.Indices = make([]uint32, 0, triCount*3*2)
	for id := range res.Tiles {
		corners := res.Tiles[id].Corners()
		center := res.CenterIndex(uint32(id))
		for i := range corners {
			res.Indices = append(res.Indices, center, corners[i], corners[(i+1)%len(corners)])
		}
	}

	builder := graph.NewBuilder(len(res.Tiles))
	for e := range baseEdges {
		if err := builder.AddEdge(res.VertexTile[e[0]], res.VertexTile[e[1]]); err != nil {
			return nil, fmt.Errorf("tessellate: %w", err)
		}
	}
	res.Graph = builder.Build()

	res.Scale = calibrate(tri)
	return res, nil
}

func undirected(a, b uint32) [2]uint32 {
	if a > b {
		return [2]uint32{b, a}
	}
	return [2]uint32{a, b}
}

// calibrate returns the inverse length of a representative base edge, so that tiles keep the
// same on-screen size whatever the subdivision level.
func calibrate(tri *icosphere.Triangulation) float32 {
	if tri.TriangleCount() == 0 {
		return 1
	}
	for t := 0; t < tri.TriangleCount(); t++ {
		a, b, c := tri.Triangle(t)
		for _, e := range [3][2]uint32{{a, b}, {b, c}, {c, a}} {
			if e[0] >= icosphere.PoleCount && e[1] >= icosphere.PoleCount {
				return 1 / tri.Points[e[0]].Sub(tri.Points[e[1]]).Len()
			}
		}
	}
	a, b, _ := tri.Triangle(0)
	return 1 / tri.Points[a].Sub(tri.Points[b]).Len()
}

// Mesh assembles the renderable buffers: corner positions, then tile centers, with a per-face
// material buffer initialised to zero.
func (r *Result) Mesh() *mesh.Buffers {
	count := r.PositionCount()
	b := &mesh.Buffers{
		Positions:       make([][3]float32, 0, count),
		UVs:             make([][2]float32, 0, count),
		Indices:         append([]uint32(nil), r.Indices...),
		PerFaceMaterial: make([]int32, count),
		Scale:           r.Scale,
	}
	for _, p := range r.Corners {
		b.Positions = append(b.Positions, [3]float32(p))
		b.UVs = append(b.UVs, UV(p))
	}
	for i := range r.Tiles {
		p := r.Tiles[i].Center
		b.Positions = append(b.Positions, [3]float32(p))
		b.UVs = append(b.UVs, UV(p))
	}
	return b
}
