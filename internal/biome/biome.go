// Package biome classifies tiles into biomes from bucketed noise channels and maps every biome to
// a contiguous range of materials.
package biome

import "fmt"

// Biome is a discrete terrain class. Each world type uses its own subset.
type Biome uint8

const (
	Empty Biome = iota

	// ground
	Water
	Jungle
	Forest
	Plains
	Savannah
	Steppes
	MountainSide
	Ice
	Desert
	Red

	// base (underground)
	Dirt
	Rock
	Ore
	Lava
	Frost

	// sky
	OpenSky
	Cloud
	Island

	// space
	Void
	Dust
	Asteroid

	biomeCount
)

var biomeNames = [biomeCount]string{
	Empty:        "Empty",
	Water:        "Water",
	Jungle:       "Jungle",
	Forest:       "Forest",
	Plains:       "Plains",
	Savannah:     "Savannah",
	Steppes:      "Steppes",
	MountainSide: "MountainSide",
	Ice:          "Ice",
	Desert:       "Desert",
	Red:          "Red",
	Dirt:         "Dirt",
	Rock:         "Rock",
	Ore:          "Ore",
	Lava:         "Lava",
	Frost:        "Frost",
	OpenSky:      "OpenSky",
	Cloud:        "Cloud",
	Island:       "Island",
	Void:         "Void",
	Dust:         "Dust",
	Asteroid:     "Asteroid",
}

func (b Biome) String() string {
	if b < biomeCount {
		return biomeNames[b]
	}
	return fmt.Sprintf("Biome(%d)", uint8(b))
}

// World selects the channel set, thresholds, decision tree and material table.
type World uint8

const (
	WorldEmpty World = iota
	WorldGround
	WorldBase
	WorldSky
	WorldSpace
)

var worldNames = map[World]string{
	WorldEmpty:  "empty",
	WorldGround: "ground",
	WorldBase:   "base",
	WorldSky:    "sky",
	WorldSpace:  "space",
}

func (w World) String() string {
	if name, ok := worldNames[w]; ok {
		return name
	}
	return fmt.Sprintf("World(%d)", uint8(w))
}

// ParseWorld maps a configuration name to a World.
func ParseWorld(name string) (World, error) {
	for w, n := range worldNames {
		if n == name {
			return w, nil
		}
	}
	return 0, fmt.Errorf("biome: unknown world type %q", name)
}

// Measure is a bucketed channel value.
type Measure uint8

const (
	Low Measure = iota
	Mid
	High
)

func (m Measure) String() string {
	switch m {
	case Low:
		return "Low"
	case Mid:
		return "Mid"
	case High:
		return "High"
	}
	return fmt.Sprintf("Measure(%d)", uint8(m))
}

// Thresholds buckets a value: below Low is Low, below High is Mid, anything else High.
type Thresholds struct {
	Low, High float32
}

func (t Thresholds) Bucket(x float32) Measure {
	switch {
	case x < t.Low:
		return Low
	case x < t.High:
		return Mid
	}
	return High
}
