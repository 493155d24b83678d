// Package graph holds the tile adjacency graph: an undirected simple graph over dense
// integer node IDs, stored in compressed sparse rows.
package graph

import (
	"fmt"
	"sort"
)

// Graph is immutable once built. Neighbor lists are sorted ascending.
type Graph struct {
	offsets   []uint32 // len = nodes+1
	neighbors []uint32
}

// Builder accumulates undirected edges. Duplicate edges collapse; self loops are rejected.
type Builder struct {
	nodes int
	edges map[[2]uint32]struct{}
}

func NewBuilder(nodes int) *Builder {
	return &Builder{
		nodes: nodes,
		edges: make(map[[2]uint32]struct{}, nodes*3),
	}
}

// AddEdge records the undirected edge a-b.
func (b *Builder) AddEdge(a, c uint32) error {
	if a == c {
		return fmt.Errorf("graph: self loop on node %d", a)
	}
	if int(a) >= b.nodes || int(c) >= b.nodes {
		return fmt.Errorf("graph: edge %d-%d outside %d nodes", a, c, b.nodes)
	}
	if a > c {
		a, c = c, a
	}
	b.edges[[2]uint32{a, c}] = struct{}{}
	return nil
}

// Build freezes the accumulated edges.
func (b *Builder) Build() *Graph {
	degree := make([]uint32, b.nodes+1)
	for e := range b.edges {
		degree[e[0]+1]++
		degree[e[1]+1]++
	}
	for i := 1; i < len(degree); i++ {
		degree[i] += degree[i-1]
	}

	g := &Graph{
		offsets:   degree,
		neighbors: make([]uint32, degree[b.nodes]),
	}
	fill := make([]uint32, b.nodes)
	for e := range b.edges {
		a, c := e[0], e[1]
		g.neighbors[g.offsets[a]+fill[a]] = c
		fill[a]++
		g.neighbors[g.offsets[c]+fill[c]] = a
		fill[c]++
	}
	for n := 0; n < b.nodes; n++ {
		row := g.neighbors[g.offsets[n]:g.offsets[n+1]]
		sort.Slice(row, func(i, j int) bool { return row[i] < row[j] })
	}
	return g
}

// Len returns the node count.
func (g *Graph) Len() int {
	return len(g.offsets) - 1
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	return len(g.neighbors) / 2
}

// Neighbors returns the sorted neighbor list of node n. The slice must not be modified.
func (g *Graph) Neighbors(n uint32) []uint32 {
	return g.neighbors[g.offsets[n]:g.offsets[n+1]]
}

// Degree returns the neighbor count of node n.
func (g *Graph) Degree(n uint32) int {
	return int(g.offsets[n+1] - g.offsets[n])
}

// HasEdge reports whether a and c are adjacent.
func (g *Graph) HasEdge(a, c uint32) bool {
	row := g.Neighbors(a)
	i := sort.Search(len(row), func(i int) bool { return row[i] >= c })
	return i < len(row) && row[i] == c
}

// Edges calls fn once per undirected edge with a < c, in ascending order.
func (g *Graph) Edges(fn func(a, c uint32)) {
	for a := 0; a < g.Len(); a++ {
		for _, c := range g.Neighbors(uint32(a)) {
			if uint32(a) < c {
				fn(uint32(a), c)
			}
		}
	}
}

// Ring appends to dst every node within radius hops of n, n itself included, and returns it.
// seen is scratch space of length Len() that must be all false on entry; it is cleared before return.
func (g *Graph) Ring(dst []uint32, n uint32, radius int, seen []bool) []uint32 {
	start := len(dst)
	dst = append(dst, n)
	seen[n] = true
	frontier := start
	for hop := 0; hop < radius; hop++ {
		end := len(dst)
		for _, node := range dst[frontier:end] {
			for _, next := range g.Neighbors(node) {
				if !seen[next] {
					seen[next] = true
					dst = append(dst, next)
				}
			}
		}
		frontier = end
	}
	for _, node := range dst[start:] {
		seen[node] = false
	}
	return dst
}
