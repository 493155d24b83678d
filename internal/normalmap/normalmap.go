// Package normalmap renders a tangent-space normal map over the six faces of a cube map from two
// noise channels, stacked vertically into one image.
package normalmap

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"Hexaplanet/internal/logger"
	"Hexaplanet/internal/noise"
)

// DefaultSize is the edge length of one cube face in pixels.
const DefaultSize = 1000

// DefaultChannels returns the tilt channels used for the planet surface normal map. The bias is
// the largest tilt in radians.
func DefaultChannels(seed int64) [2]noise.Channel {
	ch := noise.Channel{Scale: 20, Lacunarity: 0.5, Gain: 0.5, Bias: 0.5}
	x, y := ch, ch
	x.Name, x.Seed = "tilt-x", seed
	y.Name, y.Seed = "tilt-y", ^seed
	return [2]noise.Channel{x, y}
}

// Generate samples both channels over a size x size cube map and returns an image of
// size x 6*size pixels, face f occupying rows [f*size, (f+1)*size).
func Generate(s *noise.Sampler, size int, channels [2]noise.Channel) (*image.RGBA, error) {
	field, err := s.SampleCube(size, channels[:])
	if err != nil {
		return nil, fmt.Errorf("normalmap: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, size, noise.CubeFaces*size))
	up := mgl32.Vec3{0, 0, 1}
	for i := 0; i < field.Len(); i++ {
		row := field.Row(i)
		q := mgl32.QuatRotate(row[0], mgl32.Vec3{1, 0, 0}).Mul(mgl32.QuatRotate(row[1], mgl32.Vec3{0, 1, 0}))
		img.SetRGBA(i%size, i/size, encode(q.Rotate(up)))
	}

	logger.Log.Info("Normal map generated",
		zap.Int("size", size),
		zap.Int("pixels", field.Len()))
	return img, nil
}

// encode maps a unit normal from [-1,1] to 8-bit RGB.
func encode(n mgl32.Vec3) color.RGBA {
	c := func(v float32) uint8 {
		return uint8(mgl32.Clamp((v*0.5+0.5)*255, 0, 255))
	}
	return color.RGBA{R: c(n.X()), G: c(n.Y()), B: c(n.Z()), A: 255}
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}
