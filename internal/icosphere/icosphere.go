// Package icosphere builds the base triangulation that the tile tessellator consumes:
// an icosahedron whose edges are split into level+1 segments, projected onto the unit sphere.
package icosphere

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// FaceCount is the number of icosahedron faces. Every generated triangle belongs to one of them.
const FaceCount = 20

// PoleCount is the number of original icosahedron vertices; they always come first in Points.
const PoleCount = 12

// Triangulation is a unit sphere triangle mesh with consistent counter-clockwise winding
// when seen from outside.
type Triangulation struct {
	Level   int
	Points  []mgl32.Vec3
	Indices []uint32 // three per triangle
	Faces   []uint8  // source icosahedron face per triangle
}

// TriangleCount returns len(Indices)/3.
func (t *Triangulation) TriangleCount() int {
	return len(t.Indices) / 3
}

// Triangle returns the vertex indices of triangle i.
func (t *Triangulation) Triangle(i int) (a, b, c uint32) {
	return t.Indices[i*3], t.Indices[i*3+1], t.Indices[i*3+2]
}

// PointCount returns the number of points produced at the given level.
func PointCount(level int) int {
	n := level + 1
	return 10*n*n + 2
}

// TriangleCountAt returns the number of triangles produced at the given level.
func TriangleCountAt(level int) int {
	n := level + 1
	return FaceCount * n * n
}

var (
	golden = float32((1 + math.Sqrt(5)) / 2)

	baseVertices = [PoleCount]mgl32.Vec3{
		{-1, golden, 0}, {1, golden, 0}, {-1, -golden, 0}, {1, -golden, 0},
		{0, -1, golden}, {0, 1, golden}, {0, -1, -golden}, {0, 1, -golden},
		{golden, 0, -1}, {golden, 0, 1}, {-golden, 0, -1}, {-golden, 0, 1},
	}

	baseFaces = [FaceCount][3]uint32{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
)

type edgeKey struct{ lo, hi uint32 }

// Generate builds the triangulation for the given subdivision level.
// Level 0 is the bare icosahedron.
func Generate(level int) (*Triangulation, error) {
	if level < 0 {
		return nil, fmt.Errorf("icosphere: negative subdivision level %d", level)
	}
	n := level + 1

	t := &Triangulation{
		Level:   level,
		Points:  make([]mgl32.Vec3, 0, PointCount(level)),
		Indices: make([]uint32, 0, TriangleCountAt(level)*3),
		Faces:   make([]uint8, 0, TriangleCountAt(level)),
	}
	for _, v := range baseVertices {
		t.Points = append(t.Points, v.Normalize())
	}

	// Interior points of every base edge, ordered from lo to hi.
	edges := make(map[edgeKey]uint32, 30)
	for _, f := range baseFaces {
		for k := 0; k < 3; k++ {
			a, b := f[k], f[(k+1)%3]
			key := edgeKey{a, b}
			if a > b {
				key = edgeKey{b, a}
			}
			if _, ok := edges[key]; ok {
				continue
			}
			edges[key] = uint32(len(t.Points))
			lo, hi := baseVertices[key.lo], baseVertices[key.hi]
			for s := 1; s < n; s++ {
				frac := float32(s) / float32(n)
				t.Points = append(t.Points, lerp(lo, hi, frac).Normalize())
			}
		}
	}

	// edgePoint returns the point s/n of the way from a to b.
	edgePoint := func(a, b uint32, s int) uint32 {
		if a < b {
			return edges[edgeKey{a, b}] + uint32(s-1)
		}
		return edges[edgeKey{b, a}] + uint32(n-s-1)
	}

	for fi, f := range baseFaces {
		a, b, c := f[0], f[1], f[2]
		pa, pb, pc := baseVertices[a], baseVertices[b], baseVertices[c]

		// Lattice row i has i+1 points; P(i,j) = a(1-i/n) + b(i-j)/n + c j/n.
		interior := make(map[[2]int]uint32)
		at := func(i, j int) uint32 {
			switch {
			case i == 0:
				return a
			case i == n && j == 0:
				return b
			case i == n && j == n:
				return c
			case i == n:
				return edgePoint(b, c, j)
			case j == 0:
				return edgePoint(a, b, i)
			case j == i:
				return edgePoint(a, c, i)
			}
			key := [2]int{i, j}
			if idx, ok := interior[key]; ok {
				return idx
			}
			wa := 1 - float32(i)/float32(n)
			wb := float32(i-j) / float32(n)
			wc := float32(j) / float32(n)
			p := pa.Mul(wa).Add(pb.Mul(wb)).Add(pc.Mul(wc))
			idx := uint32(len(t.Points))
			t.Points = append(t.Points, p.Normalize())
			interior[key] = idx
			return idx
		}

		for i := 0; i < n; i++ {
			for j := 0; j <= i; j++ {
				t.Indices = append(t.Indices, at(i, j), at(i+1, j), at(i+1, j+1))
				t.Faces = append(t.Faces, uint8(fi))
				if j < i {
					t.Indices = append(t.Indices, at(i, j), at(i+1, j+1), at(i, j+1))
					t.Faces = append(t.Faces, uint8(fi))
				}
			}
		}
	}

	return t, nil
}

func lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
