package bsdf

import "github.com/arclight-render/arclight/pkg/core"

// Frame is an orthonormal shading basis used to transform directions
// between world space and the local space every BxDF lobe operates in,
// where the shading normal is the z axis.
type Frame struct {
	X, Y, Z core.Vec3
}

// FrameFromZ builds a frame from a normal alone, picking an arbitrary
// tangent via SampleCoordinateSystem.
func FrameFromZ(z core.Vec3) Frame {
	t, bt := core.SampleCoordinateSystem(z)
	return Frame{X: t, Y: bt, Z: z}
}

// FrameFromXZ builds a frame from an explicit tangent and normal,
// re-orthogonalizing the tangent against the normal (Gram-Schmidt) and
// deriving the bitangent by cross product.
func FrameFromXZ(x, z core.Vec3) Frame {
	x = x.Subtract(z.Multiply(z.Dot(x))).Normalize()
	y := z.Cross(x)
	return Frame{X: x, Y: y, Z: z}
}

// ToLocal expresses a world-space direction in this frame.
func (f Frame) ToLocal(v core.Vec3) core.Vec3 {
	return core.NewVec3(v.Dot(f.X), v.Dot(f.Y), v.Dot(f.Z))
}

// FromLocal expresses a local-frame direction in world space.
func (f Frame) FromLocal(v core.Vec3) core.Vec3 {
	return f.X.Multiply(v.X).Add(f.Y.Multiply(v.Y)).Add(f.Z.Multiply(v.Z))
}

// CosTheta returns the cosine of the angle between a local-frame direction
// and the frame's z axis, i.e. simply its z component.
func CosTheta(w core.Vec3) float64 { return w.Z }

// AbsCosTheta returns |CosTheta|.
func AbsCosTheta(w core.Vec3) float64 {
	if w.Z < 0 {
		return -w.Z
	}
	return w.Z
}

// SameHemisphere reports whether two local-frame directions lie on the same
// side of the z=0 plane.
func SameHemisphere(a, b core.Vec3) bool {
	return a.Z*b.Z > 0
}

// reflectLocal reflects a local-frame direction about the z axis, the
// perfect-mirror direction when the surface normal is (0,0,1).
func reflectLocal(w core.Vec3) core.Vec3 {
	return core.NewVec3(-w.X, -w.Y, w.Z)
}
