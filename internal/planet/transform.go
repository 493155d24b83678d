package planet

import "github.com/go-gl/mathgl/mgl32"

// tileTransform places an object on the sphere at n: Y along the surface normal, X and Z
// tangent. The tangent frame is seeded by a small rotation of n about Y; on the Y axis itself
// that rotation is a no-op, so +X seeds the frame instead.
func tileTransform(n mgl32.Vec3) mgl32.Mat4 {
	x := mgl32.Rotate3DY(0.1).Mul3x1(n).Normalize()
	z := n.Cross(x)
	if z.Len() < 1e-4 {
		z = n.Cross(mgl32.Vec3{1, 0, 0})
	}
	z = z.Normalize()
	x = n.Cross(z).Normalize()
	return mgl32.Mat4FromCols(x.Vec4(0), n.Vec4(0), z.Vec4(0), n.Vec4(1))
}
