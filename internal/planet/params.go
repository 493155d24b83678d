package planet

import (
	"Hexaplanet/internal/biome"
	"Hexaplanet/internal/config"
	"Hexaplanet/internal/noise"
)

// Params carries everything besides the subdivision level and world type that shapes a planet.
type Params struct {
	Seeds        config.SeedConfig
	MaterialSeed uint64
	SlopeRadius  int
	Noise        noise.Options
}

// DefaultParams mirrors config.Default.
func DefaultParams() Params {
	return ParamsFromConfig(config.Default())
}

// ParamsFromConfig extracts build parameters from a loaded configuration.
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		Seeds:        cfg.Planet.Seeds,
		MaterialSeed: cfg.Planet.MaterialSeed,
		SlopeRadius:  cfg.Classifier.SlopeRadius,
		Noise: noise.Options{
			Workers: cfg.Noise.Workers,
			Shards:  cfg.Noise.Shards,
			Lanes:   cfg.Noise.Lanes,
			Octaves: cfg.Noise.Octaves,
		},
	}
}

// channel column indices per world
const (
	groundHeight = iota
	groundWetness
	groundTemperature
)

const (
	baseMetal = iota
	baseTemperature
)

// Channels returns the noise channels sampled for world w, in column order.
func Channels(w biome.World, seeds config.SeedConfig) []noise.Channel {
	switch w {
	case biome.WorldGround:
		return []noise.Channel{
			groundHeight:      {Name: "height", Scale: 1.5, Lacunarity: 2, Gain: 0.5, Seed: seeds.Height},
			groundWetness:     {Name: "wetness", Scale: 1, Lacunarity: 2, Gain: 0.5, Seed: seeds.Wetness},
			groundTemperature: {Name: "temperature", Scale: 0.8, Lacunarity: 2, Gain: 0.5, Seed: seeds.Temperature},
		}
	case biome.WorldBase:
		return []noise.Channel{
			// dirt or metal
			baseMetal: {Name: "metal", Scale: 0.5, Lacunarity: 0.1, Gain: 0.9, Octaves: 4,
				Range: &noise.TargetRange{Min: 0, Max: 1}, Seed: seeds.Metal},
			// terrain or lava
			baseTemperature: {Name: "temperature", Scale: 1, Lacunarity: 1, Gain: 1, Octaves: 4,
				Range: &noise.TargetRange{Min: -1, Max: 1}, Seed: seeds.Temperature},
		}
	case biome.WorldSky:
		return []noise.Channel{
			{Name: "land", Scale: 2, Lacunarity: 0.21, Gain: 0, Octaves: 2,
				Range: &noise.TargetRange{Min: -2, Max: 1}, Seed: seeds.Land},
		}
	case biome.WorldSpace:
		return []noise.Channel{
			{Name: "land", Scale: 8, Lacunarity: 0.2, Gain: 0.9, Octaves: 4,
				Range: &noise.TargetRange{Min: -1, Max: 1}, Seed: seeds.Land},
		}
	}
	return nil
}

// inputs maps one sampled row to classifier inputs.
func inputs(w biome.World, row []float32, slope float32) biome.Inputs {
	switch w {
	case biome.WorldGround:
		return biome.AdjustGround(biome.Inputs{
			Height:      row[groundHeight],
			Wetness:     row[groundWetness],
			Temperature: row[groundTemperature],
			Slope:       slope,
		})
	case biome.WorldBase:
		return biome.Inputs{Metal: row[baseMetal], Temperature: row[baseTemperature]}
	case biome.WorldSky, biome.WorldSpace:
		return biome.Inputs{Land: row[0]}
	}
	return biome.Inputs{}
}
