// Package noise samples multi-channel fractal noise over point sets. Points are evaluated in
// lane-width batches laid out as structure-of-arrays, spread over a fixed number of shards on a
// worker pool, and every channel is normalized by its observed minimum and maximum.
package noise

import (
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"Hexaplanet/internal/logger"
)

const (
	DefaultOctaves = 10
	DefaultShards  = 6
)

// Options configures a Sampler. Zero values pick defaults; Lanes 0 means DetectLanes.
type Options struct {
	Workers int
	Shards  int
	Lanes   int
	Octaves int
}

// Sampler owns the worker pool used for sampling. It is safe for concurrent use.
type Sampler struct {
	pool    pond.Pool
	shards  int
	lanes   int
	octaves int
}

// NewSampler creates a sampler and its worker pool. Call Close when done.
func NewSampler(opts Options) (*Sampler, error) {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.Shards <= 0 {
		opts.Shards = DefaultShards
	}
	if opts.Octaves <= 0 {
		opts.Octaves = DefaultOctaves
	}
	if opts.Lanes == 0 {
		opts.Lanes = DetectLanes()
	}
	if err := checkLanes(opts.Lanes); err != nil {
		return nil, err
	}

	logger.Log.Debug("Noise sampler created",
		zap.Int("workers", opts.Workers),
		zap.Int("shards", opts.Shards),
		zap.Int("lanes", opts.Lanes))

	return &Sampler{
		pool:    pond.NewPool(opts.Workers),
		shards:  opts.Shards,
		lanes:   opts.Lanes,
		octaves: opts.Octaves,
	}, nil
}

// Lanes returns the batch width in use.
func (s *Sampler) Lanes() int {
	return s.lanes
}

// Close stops the worker pool after in-flight work completes.
func (s *Sampler) Close() {
	s.pool.StopAndWait()
}

// Field holds sampled values row-major: one row per point, one column per channel.
type Field struct {
	Channels int
	Values   []float32
}

// Len returns the number of points.
func (f *Field) Len() int {
	if f.Channels == 0 {
		return 0
	}
	return len(f.Values) / f.Channels
}

// Row returns the channel values of point i.
func (f *Field) Row(i int) []float32 {
	return f.Values[i*f.Channels : (i+1)*f.Channels]
}

// At returns channel c of point i.
func (f *Field) At(i, c int) float32 {
	return f.Values[i*f.Channels+c]
}

// Column copies channel c into a new slice.
func (f *Field) Column(c int) []float32 {
	out := make([]float32, f.Len())
	for i := range out {
		out[i] = f.Values[i*f.Channels+c]
	}
	return out
}

// extent tracks per-lane minimum and maximum of one channel within one shard.
type extent struct {
	min, max [MaxLanes]float32
}

func newExtents(n int) []extent {
	out := make([]extent, n)
	inf := float32(math.Inf(1))
	for i := range out {
		for l := 0; l < MaxLanes; l++ {
			out[i].min[l] = inf
			out[i].max[l] = -inf
		}
	}
	return out
}

// SampleN is Sample with an explicit channel count that must match len(channels).
func (s *Sampler) SampleN(points []mgl32.Vec3, declared int, channels []Channel) (*Field, error) {
	if declared != len(channels) {
		return nil, &ChannelCountError{Declared: declared, Supplied: len(channels)}
	}
	return s.Sample(points, channels)
}

// Sample evaluates every channel at every point and normalizes each channel to [-1,1] (or its
// Range) times its bias. Output depends only on the points and the channel parameters.
func (s *Sampler) Sample(points []mgl32.Vec3, channels []Channel) (*Field, error) {
	if len(channels) == 0 {
		return nil, ErrNoChannels
	}
	gens := make([]generator, len(channels))
	for i := range channels {
		if err := channels[i].validate(); err != nil {
			return nil, err
		}
		gens[i] = newGenerator(channels[i], s.octaves)
	}

	numChannels := len(channels)
	field := &Field{Channels: numChannels, Values: make([]float32, len(points)*numChannels)}
	if len(points) == 0 {
		return field, nil
	}

	start := time.Now()
	lanes := s.lanes
	batches := (len(points) + lanes - 1) / lanes
	shards := min(s.shards, batches)
	extents := make([][]extent, shards)

	group := s.pool.NewGroup()
	for sh := 0; sh < shards; sh++ {
		extents[sh] = newExtents(numChannels)
		lo, hi := shardRange(batches, shards, sh)
		acc := extents[sh]
		group.Submit(func() {
			fillBatches(points, gens, field, acc, lo, hi, lanes)
		})
	}
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("noise: sampling failed: %w", err)
	}

	norms := make([]normalizer, numChannels)
	for c := range channels {
		lo, hi := reduce(extents, c)
		norms[c] = newNormalizer(lo, hi, &channels[c])
		if norms[c].degenerate {
			logger.Log.Warn("Noise channel is constant, normalizing to zero",
				zap.String("channel", channels[c].Name),
				zap.Float32("value", lo))
		}
	}

	group = s.pool.NewGroup()
	for sh := 0; sh < shards; sh++ {
		lo, hi := shardRange(batches, shards, sh)
		first := lo * lanes
		last := min(hi*lanes, len(points))
		group.Submit(func() {
			for i := first; i < last; i++ {
				row := field.Values[i*numChannels : (i+1)*numChannels]
				for c := range row {
					row[c] = norms[c].apply(row[c])
				}
			}
		})
	}
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("noise: normalization failed: %w", err)
	}

	logger.Log.Debug("Noise sampled",
		zap.Int("points", len(points)),
		zap.Int("channels", numChannels),
		zap.Int("lanes", lanes),
		zap.Int("shards", shards),
		zap.Duration("elapsed", time.Since(start)))
	return field, nil
}

// shardRange splits batches into near-equal contiguous ranges.
func shardRange(batches, shards, sh int) (lo, hi int) {
	return batches * sh / shards, batches * (sh + 1) / shards
}

// fillBatches evaluates batches [lo,hi). The tail batch is padded with the last point; padded
// lanes are neither stored nor counted toward the extents.
func fillBatches(points []mgl32.Vec3, gens []generator, field *Field, acc []extent, lo, hi, lanes int) {
	var xs, ys, zs, out [MaxLanes]float32
	numChannels := field.Channels

	for b := lo; b < hi; b++ {
		base := b * lanes
		valid := min(lanes, len(points)-base)
		for l := 0; l < lanes; l++ {
			p := points[base+min(l, valid-1)]
			xs[l], ys[l], zs[l] = p.X(), p.Y(), p.Z()
		}
		for c := range gens {
			gens[c].fbm(xs[:lanes], ys[:lanes], zs[:lanes], out[:lanes])
			e := &acc[c]
			for l := 0; l < valid; l++ {
				v := out[l]
				field.Values[(base+l)*numChannels+c] = v
				if v < e.min[l] {
					e.min[l] = v
				}
				if v > e.max[l] {
					e.max[l] = v
				}
			}
		}
	}
}

func reduce(extents [][]extent, c int) (lo, hi float32) {
	lo = float32(math.Inf(1))
	hi = float32(math.Inf(-1))
	for _, shard := range extents {
		e := &shard[c]
		for l := 0; l < MaxLanes; l++ {
			lo = min(lo, e.min[l])
			hi = max(hi, e.max[l])
		}
	}
	return lo, hi
}

type normalizer struct {
	lo, span   float32
	degenerate bool
	ranged     bool
	rmin, rlen float32
	bias       float32
}

func newNormalizer(lo, hi float32, c *Channel) normalizer {
	n := normalizer{
		lo:         lo,
		span:       hi - lo,
		degenerate: !(hi > lo),
		bias:       c.bias(),
	}
	if c.Range != nil {
		n.ranged = true
		n.rmin = c.Range.Min
		n.rlen = c.Range.Max - c.Range.Min
	}
	return n
}

func (n *normalizer) apply(v float32) float32 {
	var u float32
	if !n.degenerate {
		u = (v-n.lo)*2/n.span - 1
	}
	if n.ranged {
		u = n.rmin + (u+1)*0.5*n.rlen
	}
	return u * n.bias
}
