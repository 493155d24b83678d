package noise

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/sync/errgroup"
)

// CubeFaces is the number of faces in a cube map.
const CubeFaces = 6

// CubeDirections returns the unit directions through the texel centers of a size x size cube map.
// Face f occupies indices [f*size*size, (f+1)*size*size), row-major, in the order
// +X, -X, +Y, -Y, +Z, -Z.
func CubeDirections(size int) ([]mgl32.Vec3, error) {
	if size <= 0 {
		return nil, fmt.Errorf("noise: cube map size must be positive, got %d", size)
	}
	perFace := size * size
	out := make([]mgl32.Vec3, CubeFaces*perFace)

	var g errgroup.Group
	for face := 0; face < CubeFaces; face++ {
		face := face
		dst := out[face*perFace : (face+1)*perFace]
		g.Go(func() error {
			inv := 2 / float32(size)
			for y := 0; y < size; y++ {
				v := (float32(y)+0.5)*inv - 1
				for x := 0; x < size; x++ {
					u := (float32(x)+0.5)*inv - 1
					dst[y*size+x] = cubeDirection(face, u, v).Normalize()
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func cubeDirection(face int, u, v float32) mgl32.Vec3 {
	switch face {
	case 0:
		return mgl32.Vec3{1, -v, -u}
	case 1:
		return mgl32.Vec3{-1, -v, u}
	case 2:
		return mgl32.Vec3{u, 1, v}
	case 3:
		return mgl32.Vec3{u, -1, -v}
	case 4:
		return mgl32.Vec3{u, -v, 1}
	default:
		return mgl32.Vec3{-u, -v, -1}
	}
}

// SampleCube samples channels over the directions of a size x size cube map.
func (s *Sampler) SampleCube(size int, channels []Channel) (*Field, error) {
	dirs, err := CubeDirections(size)
	if err != nil {
		return nil, err
	}
	return s.Sample(dirs, channels)
}
