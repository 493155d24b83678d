package icosphere

import (
	"math"
	"testing"
)

func TestGenerateCounts(t *testing.T) {
	for level := 0; level <= 6; level++ {
		tri, err := Generate(level)
		if err != nil {
			t.Fatalf("Generate(%d) failed: %v", level, err)
		}
		if len(tri.Points) != PointCount(level) {
			t.Errorf("level %d: expected %d points, got %d", level, PointCount(level), len(tri.Points))
		}
		if tri.TriangleCount() != TriangleCountAt(level) {
			t.Errorf("level %d: expected %d triangles, got %d", level, TriangleCountAt(level), tri.TriangleCount())
		}
		if len(tri.Faces) != tri.TriangleCount() {
			t.Errorf("level %d: faces length %d does not match triangles %d", level, len(tri.Faces), tri.TriangleCount())
		}
	}
}

func TestGenerateRejectsNegativeLevel(t *testing.T) {
	if _, err := Generate(-1); err == nil {
		t.Error("Expected error for negative level")
	}
}

func TestPointsOnUnitSphere(t *testing.T) {
	tri, _ := Generate(4)
	for i, p := range tri.Points {
		if l := p.Len(); math.Abs(float64(l)-1) > 1e-5 {
			t.Fatalf("point %d has length %f", i, l)
		}
	}
}

func TestOutwardWinding(t *testing.T) {
	tri, _ := Generate(3)
	for i := 0; i < tri.TriangleCount(); i++ {
		a, b, c := tri.Triangle(i)
		pa, pb, pc := tri.Points[a], tri.Points[b], tri.Points[c]
		normal := pb.Sub(pa).Cross(pc.Sub(pa))
		centroid := pa.Add(pb).Add(pc)
		if normal.Dot(centroid) <= 0 {
			t.Fatalf("triangle %d (%d,%d,%d) is wound inward", i, a, b, c)
		}
	}
}

func TestEveryEdgeSharedByTwoTriangles(t *testing.T) {
	tri, _ := Generate(2)
	directed := make(map[[2]uint32]int)
	for i := 0; i < tri.TriangleCount(); i++ {
		a, b, c := tri.Triangle(i)
		directed[[2]uint32{a, b}]++
		directed[[2]uint32{b, c}]++
		directed[[2]uint32{c, a}]++
	}
	for e, count := range directed {
		if count != 1 {
			t.Fatalf("directed edge %v used %d times", e, count)
		}
		if directed[[2]uint32{e[1], e[0]}] != 1 {
			t.Fatalf("directed edge %v has no twin", e)
		}
	}
}

func TestDeterministic(t *testing.T) {
	first, _ := Generate(3)
	second, _ := Generate(3)
	for i := range first.Points {
		if first.Points[i] != second.Points[i] {
			t.Fatalf("point %d differs between runs", i)
		}
	}
	for i := range first.Indices {
		if first.Indices[i] != second.Indices[i] {
			t.Fatalf("index %d differs between runs", i)
		}
	}
}
