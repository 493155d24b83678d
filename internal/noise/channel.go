package noise

import (
	"errors"
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Basis selects the gradient noise function a channel sums over octaves.
type Basis string

const (
	BasisSimplex Basis = "simplex"
	BasisPerlin  Basis = "perlin"
)

// TargetRange remaps a normalized channel from [-1,1] to [Min,Max].
type TargetRange struct {
	Min float32 `json:"min" yaml:"min"`
	Max float32 `json:"max" yaml:"max"`
}

// Channel describes one fractal noise field. A zero Bias is treated as 1 and zero Octaves
// falls back to the sampler default.
type Channel struct {
	Name       string       `json:"name" yaml:"name"`
	Scale      float32      `json:"scale" yaml:"scale"`
	Lacunarity float32      `json:"lacunarity" yaml:"lacunarity"`
	Gain       float32      `json:"gain" yaml:"gain"`
	Octaves    int          `json:"octaves,omitempty" yaml:"octaves,omitempty"`
	Seed       int64        `json:"seed" yaml:"seed"`
	Range      *TargetRange `json:"range,omitempty" yaml:"range,omitempty"`
	Bias       float32      `json:"bias,omitempty" yaml:"bias,omitempty"`
	Basis      Basis        `json:"basis,omitempty" yaml:"basis,omitempty"`
}

var (
	// ErrNoChannels is returned when a sample request names no channels.
	ErrNoChannels = errors.New("noise: no channels requested")
	// ErrInvalidChannel wraps every channel parameter error.
	ErrInvalidChannel = errors.New("noise: invalid channel")
)

// ChannelCountError reports a mismatch between the declared and supplied channel counts.
type ChannelCountError struct {
	Declared int
	Supplied int
}

func (e *ChannelCountError) Error() string {
	return fmt.Sprintf("noise: %d channels declared, %d supplied", e.Declared, e.Supplied)
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (c *Channel) validate() error {
	if !finite(c.Scale) || !finite(c.Lacunarity) || !finite(c.Gain) || !finite(c.Bias) {
		return fmt.Errorf("%w %q: non-finite parameter", ErrInvalidChannel, c.Name)
	}
	if c.Octaves < 0 {
		return fmt.Errorf("%w %q: negative octave count %d", ErrInvalidChannel, c.Name, c.Octaves)
	}
	if c.Range != nil && (!finite(c.Range.Min) || !finite(c.Range.Max)) {
		return fmt.Errorf("%w %q: non-finite range", ErrInvalidChannel, c.Name)
	}
	switch c.Basis {
	case "", BasisSimplex, BasisPerlin:
	default:
		return fmt.Errorf("%w %q: unknown basis %q", ErrInvalidChannel, c.Name, c.Basis)
	}
	return nil
}

func (c *Channel) bias() float32 {
	if c.Bias == 0 {
		return 1
	}
	return c.Bias
}

// generator evaluates fbm for one channel over a lane batch.
type generator struct {
	eval       func(x, y, z float32) float32
	scale      float32
	lacunarity float32
	gain       float32
	octaves    int
}

func newGenerator(c Channel, defaultOctaves int) generator {
	g := generator{
		scale:      c.Scale,
		lacunarity: c.Lacunarity,
		gain:       c.Gain,
		octaves:    c.Octaves,
	}
	if g.octaves == 0 {
		g.octaves = defaultOctaves
	}
	switch c.Basis {
	case BasisPerlin:
		p := perlin.NewPerlin(2, 2, 3, c.Seed)
		g.eval = func(x, y, z float32) float32 {
			return float32(p.Noise3D(float64(x), float64(y), float64(z)))
		}
	default:
		s := opensimplex.New32(c.Seed)
		g.eval = s.Eval3
	}
	return g
}

// fbm writes sum_o basis(p*scale*lacunarity^o)*gain^o for every lane.
func (g *generator) fbm(xs, ys, zs, out []float32) {
	for l := range out {
		out[l] = 0
	}
	freq := g.scale
	amp := float32(1)
	for o := 0; o < g.octaves; o++ {
		for l := range out {
			out[l] += g.eval(xs[l]*freq, ys[l]*freq, zs[l]*freq) * amp
		}
		freq *= g.lacunarity
		amp *= g.gain
	}
}
