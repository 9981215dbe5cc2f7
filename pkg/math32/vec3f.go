// Package math32 holds the compact single-precision vector types used for
// mesh-binary storage, where f64 precision would double the on-disk and
// in-memory footprint for no benefit. BVH bounds do not use these types;
// they stay float64.
package math32

import (
	"github.com/chewxy/math32"

	"github.com/arclight-render/arclight/pkg/core"
)

// Vec3f is a 3-component single-precision vector.
type Vec3f struct {
	X, Y, Z float32
}

// Vec2f is a 2-component single-precision vector, used for UVs.
type Vec2f struct {
	X, Y float32
}

// FromVec3 narrows a core.Vec3 to single precision.
func FromVec3(v core.Vec3) Vec3f {
	return Vec3f{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

// ToVec3 widens back to double precision for use in the rest of the engine.
func (v Vec3f) ToVec3() core.Vec3 {
	return core.NewVec3(float64(v.X), float64(v.Y), float64(v.Z))
}

// FromVec2 narrows a core.Vec2 to single precision.
func FromVec2(v core.Vec2) Vec2f {
	return Vec2f{X: float32(v.X), Y: float32(v.Y)}
}

// ToVec2 widens back to double precision.
func (v Vec2f) ToVec2() core.Vec2 {
	return core.NewVec2(float64(v.X), float64(v.Y))
}

// Length returns the vector's magnitude using math32's f32 sqrt, avoiding a
// round trip through f64.
func (v Vec3f) Length() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Add returns the component-wise sum.
func (v Vec3f) Add(o Vec3f) Vec3f {
	return Vec3f{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns the component-wise difference.
func (v Vec3f) Sub(o Vec3f) Vec3f {
	return Vec3f{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Min returns the component-wise minimum.
func Min(a, b Vec3f) Vec3f {
	return Vec3f{math32.Min(a.X, b.X), math32.Min(a.Y, b.Y), math32.Min(a.Z, b.Z)}
}

// Max returns the component-wise maximum.
func Max(a, b Vec3f) Vec3f {
	return Vec3f{math32.Max(a.X, b.X), math32.Max(a.Y, b.Y), math32.Max(a.Z, b.Z)}
}
