package biome

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"Hexaplanet/internal/graph"
)

// Smoothstep is the cubic Hermite step from edge0 to edge1. Reversed edges give a falling step.
func Smoothstep(x, edge0, edge1 float32) float32 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := mgl32.Clamp((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}

// AdjustGround applies the climate rules of ground worlds to one tile, before classification.
// Wetness comes in normalized to [-1,1] and leaves scaled into [0,1] terms. Slope is expected as a
// rank from SlopeRanks.
func AdjustGround(in Inputs) Inputs {
	h := in.Height

	// altitude cools
	in.Temperature *= 0.7*Smoothstep(h, 0.6, 0.1) + 0.3

	wet := (in.Wetness + 1) / 2
	// near sea level is wetter
	wet *= 1 + 0.2*Smoothstep(h*h, 0.085, 0.001)
	// temperature extremes dry out
	wet *= 0.75 + 0.5*Smoothstep(in.Temperature*in.Temperature, 0.2, 0)
	// steep ground drains
	wet *= 0.1 + 0.9*Smoothstep(in.Slope, 0.9, 0.6)
	in.Wetness = wet

	return in
}

// Slopes returns, per graph node, max(height) - min(height) over the nodes within radius hops,
// the node itself included.
func Slopes(g *graph.Graph, heights []float32, radius int) []float32 {
	out := make([]float32, g.Len())
	seen := make([]bool, g.Len())
	var ring []uint32
	for n := range out {
		ring = g.Ring(ring[:0], uint32(n), radius, seen)
		lo, hi := heights[ring[0]], heights[ring[0]]
		for _, m := range ring[1:] {
			lo = min(lo, heights[m])
			hi = max(hi, heights[m])
		}
		out[n] = hi - lo
	}
	return out
}

// SlopeRanks replaces each slope by its rank among all slopes, scaled to [0,1]. Equal slopes share
// the lower rank. Raw slopes shrink as the subdivision level grows and widen with the ring radius;
// ranks keep the classifier thresholds meaningful at every level.
func SlopeRanks(slopes []float32) []float32 {
	out := make([]float32, len(slopes))
	if len(slopes) < 2 {
		return out
	}
	order := make([]int, len(slopes))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return slopes[order[a]] < slopes[order[b]] })

	last := float32(len(slopes) - 1)
	rank := 0
	for i, idx := range order {
		if i > 0 && slopes[idx] != slopes[order[i-1]] {
			rank = i
		}
		out[idx] = float32(rank) / last
	}
	return out
}
