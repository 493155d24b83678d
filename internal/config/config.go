package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// MaxSubdivisions bounds generation cost; triangle count grows with (N+1)².
const MaxSubdivisions = 512

// World type names accepted in planet.world.
const (
	WorldEmpty  = "empty"
	WorldGround = "ground"
	WorldBase   = "base"
	WorldSky    = "sky"
	WorldSpace  = "space"
)

var worldNames = []string{WorldEmpty, WorldGround, WorldBase, WorldSky, WorldSpace}

// Config is the full set of tunables for building a planet.
type Config struct {
	Planet     PlanetConfig     `json:"planet" yaml:"planet"`
	Noise      NoiseConfig      `json:"noise" yaml:"noise"`
	Classifier ClassifierConfig `json:"classifier" yaml:"classifier"`
	Logging    LoggingConfig    `json:"logging" yaml:"logging"`
}

type PlanetConfig struct {
	Subdivisions int        `json:"subdivisions" yaml:"subdivisions"`
	World        string     `json:"world" yaml:"world"`
	Seeds        SeedConfig `json:"seeds" yaml:"seeds"`
	MaterialSeed uint64     `json:"materialSeed" yaml:"materialSeed"` // sub-variant picks
}

// SeedConfig holds one seed per noise channel. Each world type reads the subset it needs.
type SeedConfig struct {
	Height      int64 `json:"height" yaml:"height"`
	Wetness     int64 `json:"wetness" yaml:"wetness"`
	Temperature int64 `json:"temperature" yaml:"temperature"`
	Metal       int64 `json:"metal" yaml:"metal"`
	Land        int64 `json:"land" yaml:"land"`
}

type NoiseConfig struct {
	Octaves int `json:"octaves" yaml:"octaves"` // fbm octaves per channel
	Shards  int `json:"shards" yaml:"shards"`   // fixed partition count for sampling
	Workers int `json:"workers" yaml:"workers"` // 0 = GOMAXPROCS
	Lanes   int `json:"lanes" yaml:"lanes"`     // 0 = detect from CPU features
}

type ClassifierConfig struct {
	SlopeRadius int `json:"slopeRadius" yaml:"slopeRadius"` // graph hops used for local slope
}

type LoggingConfig struct {
	Level       string `json:"level" yaml:"level"`
	Development bool   `json:"development" yaml:"development"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Planet: PlanetConfig{
			Subdivisions: 8,
			World:        WorldBase,
			Seeds: SeedConfig{
				Height:      4,
				Wetness:     5,
				Temperature: 1,
				Metal:       2,
				Land:        3,
			},
			MaterialSeed: 0x5eed,
		},
		Noise: NoiseConfig{
			Octaves: 10,
			Shards:  6,
		},
		Classifier: ClassifierConfig{
			SlopeRadius: 2,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from a YAML or JSON file layered over Default.
// An empty path returns defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var err error
	if c.Planet.Subdivisions < 0 {
		err = multierr.Append(err, errors.New("planet.subdivisions cannot be negative"))
	}
	if c.Planet.Subdivisions > MaxSubdivisions {
		err = multierr.Append(err, fmt.Errorf("planet.subdivisions must be <= %d", MaxSubdivisions))
	}
	if !knownWorld(c.Planet.World) {
		err = multierr.Append(err, fmt.Errorf("planet.world %q must be one of %s", c.Planet.World, strings.Join(worldNames, ", ")))
	}
	if c.Noise.Octaves < 0 {
		err = multierr.Append(err, errors.New("noise.octaves cannot be negative"))
	}
	if c.Noise.Shards < 0 {
		err = multierr.Append(err, errors.New("noise.shards cannot be negative"))
	}
	if c.Noise.Workers < 0 {
		err = multierr.Append(err, errors.New("noise.workers cannot be negative"))
	}
	switch c.Noise.Lanes {
	case 0, 1, 4, 8, 16:
	default:
		err = multierr.Append(err, fmt.Errorf("noise.lanes %d must be 0, 1, 4, 8 or 16", c.Noise.Lanes))
	}
	if c.Classifier.SlopeRadius < 0 {
		err = multierr.Append(err, errors.New("classifier.slopeRadius cannot be negative"))
	}
	return err
}

func knownWorld(name string) bool {
	for _, w := range worldNames {
		if w == name {
			return true
		}
	}
	return false
}
