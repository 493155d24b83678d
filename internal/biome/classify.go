package biome

import (
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"Hexaplanet/internal/logger"
)

// Inputs are the per-tile channel values a classifier reads. Unused fields are ignored.
type Inputs struct {
	Height      float32
	Slope       float32
	Temperature float32
	Wetness     float32
	Metal       float32
	Land        float32
}

// Buckets are Inputs after thresholding.
type Buckets struct {
	Height      Measure
	Slope       Measure
	Temperature Measure
	Wetness     Measure
	Metal       Measure
	Land        Measure
}

// ThresholdSet holds the bucketing thresholds of one world type.
type ThresholdSet struct {
	Height      Thresholds
	Slope       Thresholds
	Temperature Thresholds
	Wetness     Thresholds
	Metal       Thresholds
	Land        Thresholds
}

func (t *ThresholdSet) bucket(in Inputs) Buckets {
	return Buckets{
		Height:      t.Height.Bucket(in.Height),
		Slope:       t.Slope.Bucket(in.Slope),
		Temperature: t.Temperature.Bucket(in.Temperature),
		Wetness:     t.Wetness.Bucket(in.Wetness),
		Metal:       t.Metal.Bucket(in.Metal),
		Land:        t.Land.Bucket(in.Land),
	}
}

var (
	// height and temperature are normalized to [-1,1], wetness to [0,1] by AdjustGround, and
	// slope is a planet-wide rank in [0,1] (see SlopeRanks)
	groundThresholds = ThresholdSet{
		Height:      Thresholds{-0.15, 0.35},
		Slope:       Thresholds{0.35, 0.85},
		Temperature: Thresholds{-0.35, 0.35},
		Wetness:     Thresholds{0.25, 0.75},
	}
	baseThresholds = ThresholdSet{
		Metal:       Thresholds{0.35, 0.65},
		Temperature: Thresholds{-0.5, 0.6},
	}
	skyThresholds = ThresholdSet{
		Land: Thresholds{-0.3, 0.4},
	}
	spaceThresholds = ThresholdSet{
		Land: Thresholds{0.2, 0.6},
	}
)

// decision trees; false means no branch matched

func decideGround(b Buckets) (Biome, bool) {
	land := b.Height != Low
	switch {
	case b.Height == Low:
		return Water, true
	case b.Height == Mid && b.Temperature == High && b.Wetness == High:
		return Jungle, true
	case b.Height == Mid && b.Temperature == Mid && b.Wetness == High:
		return Forest, true
	case land && b.Slope != Low && b.Temperature == High && b.Wetness == Low:
		return Desert, true
	case land && b.Slope == Low && b.Temperature == High && b.Wetness == Low:
		return Savannah, true
	case land && b.Temperature == Low && b.Wetness == Low:
		return Ice, true
	case land && b.Slope == Low && b.Temperature == Mid && b.Wetness != High:
		return Plains, true
	case land && b.Slope == Mid && b.Temperature == Mid && b.Wetness == Mid:
		return Steppes, true
	case land && b.Slope == High:
		return MountainSide, true
	case b.Height == High:
		return Ice, true
	}
	return 0, false
}

func decideBase(b Buckets) (Biome, bool) {
	switch {
	case b.Temperature == High:
		return Lava, true
	case b.Metal == High:
		return Ore, true
	case b.Metal == Mid:
		return Rock, true
	case b.Temperature == Low:
		return Frost, true
	case b.Temperature == Mid:
		return Dirt, true
	}
	return 0, false
}

func decideSky(b Buckets) (Biome, bool) {
	switch b.Land {
	case Low:
		return OpenSky, true
	case Mid:
		return Cloud, true
	case High:
		return Island, true
	}
	return 0, false
}

func decideSpace(b Buckets) (Biome, bool) {
	switch b.Land {
	case Low:
		return Void, true
	case Mid:
		return Dust, true
	case High:
		return Asteroid, true
	}
	return 0, false
}

func decideEmpty(Buckets) (Biome, bool) {
	return Empty, true
}

// Classifier buckets inputs and walks one world's decision tree. Combinations the tree does not
// cover resolve to the world's fallback biome; each occurrence is logged at debug level and
// counted. Safe for concurrent use.
type Classifier struct {
	world      World
	thresholds ThresholdSet
	decide     func(Buckets) (Biome, bool)
	fallback   Biome
	fallbacks  *atomic.Int64
}

// NewClassifier returns the classifier for world w.
func NewClassifier(w World) *Classifier {
	c := &Classifier{world: w, fallbacks: atomic.NewInt64(0)}
	switch w {
	case WorldGround:
		c.thresholds, c.decide, c.fallback = groundThresholds, decideGround, Plains
	case WorldBase:
		c.thresholds, c.decide, c.fallback = baseThresholds, decideBase, Dirt
	case WorldSky:
		c.thresholds, c.decide, c.fallback = skyThresholds, decideSky, OpenSky
	case WorldSpace:
		c.thresholds, c.decide, c.fallback = spaceThresholds, decideSpace, Void
	default:
		c.decide, c.fallback = decideEmpty, Empty
	}
	return c
}

func (c *Classifier) World() World     { return c.world }
func (c *Classifier) Fallback() Biome  { return c.fallback }
func (c *Classifier) Fallbacks() int64 { return c.fallbacks.Load() }

// Bucket thresholds every input channel.
func (c *Classifier) Bucket(in Inputs) Buckets {
	return c.thresholds.bucket(in)
}

// Decide walks the decision tree. The result depends only on b.
func (c *Classifier) Decide(b Buckets) (Biome, bool) {
	return c.decide(b)
}

// Classify buckets in and returns its biome, falling back when no branch matches.
func (c *Classifier) Classify(tile uint32, in Inputs) Biome {
	b := c.Bucket(in)
	if biome, ok := c.decide(b); ok {
		return biome
	}
	c.fallbacks.Inc()
	fields := append([]zap.Field{
		zap.Uint32("tile", tile),
		zap.String("world", c.world.String()),
	}, c.bucketFields(b)...)
	logger.Log.Debug("Unmatched biome buckets, using fallback",
		append(fields, zap.Stringer("fallback", c.fallback))...)
	return c.fallback
}

// bucketFields returns the buckets this classifier's world reads.
func (c *Classifier) bucketFields(b Buckets) []zap.Field {
	switch c.world {
	case WorldGround:
		return []zap.Field{
			zap.Stringer("height", b.Height),
			zap.Stringer("slope", b.Slope),
			zap.Stringer("temperature", b.Temperature),
			zap.Stringer("wetness", b.Wetness),
		}
	case WorldBase:
		return []zap.Field{
			zap.Stringer("metal", b.Metal),
			zap.Stringer("temperature", b.Temperature),
		}
	case WorldSky, WorldSpace:
		return []zap.Field{zap.Stringer("land", b.Land)}
	}
	return nil
}
