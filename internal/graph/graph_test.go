package graph

import (
	"sort"
	"testing"
)

// ring of 6 nodes: 0-1-2-3-4-5-0
func hexRing(t *testing.T) *Graph {
	t.Helper()
	b := NewBuilder(6)
	for i := uint32(0); i < 6; i++ {
		if err := b.AddEdge(i, (i+1)%6); err != nil {
			t.Fatalf("AddEdge failed: %v", err)
		}
	}
	return b.Build()
}

func TestBuildSymmetric(t *testing.T) {
	g := hexRing(t)
	if g.Len() != 6 {
		t.Errorf("Expected 6 nodes, got %d", g.Len())
	}
	if g.EdgeCount() != 6 {
		t.Errorf("Expected 6 edges, got %d", g.EdgeCount())
	}
	for a := uint32(0); a < 6; a++ {
		for _, c := range g.Neighbors(a) {
			if !g.HasEdge(c, a) {
				t.Errorf("edge %d-%d is not symmetric", a, c)
			}
			if c == a {
				t.Errorf("self loop on %d", a)
			}
		}
	}
}

func TestDuplicateEdgesCollapse(t *testing.T) {
	b := NewBuilder(3)
	_ = b.AddEdge(0, 1)
	_ = b.AddEdge(1, 0)
	_ = b.AddEdge(0, 1)
	g := b.Build()
	if g.EdgeCount() != 1 {
		t.Errorf("Expected 1 edge, got %d", g.EdgeCount())
	}
	if g.Degree(2) != 0 {
		t.Errorf("Expected isolated node 2, got degree %d", g.Degree(2))
	}
}

func TestAddEdgeRejectsInvalid(t *testing.T) {
	b := NewBuilder(2)
	if err := b.AddEdge(1, 1); err == nil {
		t.Error("Expected self loop to be rejected")
	}
	if err := b.AddEdge(0, 5); err == nil {
		t.Error("Expected out of range edge to be rejected")
	}
}

func TestNeighborsSorted(t *testing.T) {
	b := NewBuilder(5)
	_ = b.AddEdge(0, 4)
	_ = b.AddEdge(0, 2)
	_ = b.AddEdge(0, 3)
	_ = b.AddEdge(0, 1)
	g := b.Build()
	row := g.Neighbors(0)
	if !sort.SliceIsSorted(row, func(i, j int) bool { return row[i] < row[j] }) {
		t.Errorf("neighbors not sorted: %v", row)
	}
}

func TestEdgesVisitsEachOnce(t *testing.T) {
	g := hexRing(t)
	count := 0
	g.Edges(func(a, c uint32) {
		if a >= c {
			t.Errorf("edge reported out of order: %d-%d", a, c)
		}
		count++
	})
	if count != g.EdgeCount() {
		t.Errorf("Expected %d edges, visited %d", g.EdgeCount(), count)
	}
}

func TestRing(t *testing.T) {
	g := hexRing(t)
	seen := make([]bool, g.Len())

	if got := g.Ring(nil, 0, 0, seen); len(got) != 1 || got[0] != 0 {
		t.Errorf("radius 0 should contain only the node, got %v", got)
	}
	if got := g.Ring(nil, 0, 1, seen); len(got) != 3 {
		t.Errorf("radius 1 should contain 3 nodes, got %v", got)
	}
	got := g.Ring(nil, 0, 2, seen)
	if len(got) != 5 {
		t.Errorf("radius 2 should contain 5 nodes, got %v", got)
	}
	for i, s := range seen {
		if s {
			t.Errorf("scratch entry %d left set", i)
		}
	}
	if got := g.Ring(nil, 0, 10, seen); len(got) != 6 {
		t.Errorf("large radius should cover the ring, got %v", got)
	}
}
