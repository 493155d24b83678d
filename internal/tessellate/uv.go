package tessellate

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	uvTiling = 10
	// exponent of the horizontal pinch toward the poles
	uvPoleFalloff = 1 / 2.40942
)

// UV maps a unit point to texture coordinates. u is pinched toward the poles so texels keep a
// roughly constant footprint on the sphere; both axes repeat uvTiling times.
func UV(p mgl32.Vec3) [2]float32 {
	y := math.Max(-1, math.Min(1, float64(p.Y())))
	inclination := math.Acos(y)
	azimuth := math.Atan2(float64(p.Z()), float64(p.X()))

	lat := inclination/math.Pi - 0.5
	pinch := math.Pow(math.Max(0, 1-lat*lat), uvPoleFalloff)

	u := (0.5 - azimuth/(2*math.Pi)) * uvTiling * 2 * pinch
	v := inclination / math.Pi * uvTiling
	return [2]float32{float32(u), float32(v)}
}
