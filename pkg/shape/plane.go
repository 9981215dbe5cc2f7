package shape

import "github.com/arclight-render/arclight/pkg/core"

// Plane is a finite, axis-aligned-in-its-own-frame rectangle centered at
// Center, spanning 2*Size.X by 2*Size.Y along Tangent and Bitangent, with the
// given Normal. Grounded on original_source/Surfaces/Plane.hpp's
// finite-quad semantics.
type Plane struct {
	Center    core.Vec3
	Normal    core.Vec3
	Tangent   core.Vec3
	Bitangent core.Vec3
	Size      core.Vec2 // half-extents along Tangent, Bitangent
}

// NewPlane builds a plane from a center, normal, and size (full width x
// height along an arbitrary tangent derived from the normal).
func NewPlane(center, normal core.Vec3, size core.Vec2) *Plane {
	normal = normal.Normalize()
	tangent, bitangent := core.SampleCoordinateSystem(normal)
	return &Plane{
		Center:    center,
		Normal:    normal,
		Tangent:   tangent,
		Bitangent: bitangent,
		Size:      core.NewVec2(size.X/2, size.Y/2),
	}
}

func (p *Plane) Bounds() core.AABB {
	corners := p.corners()
	b := core.NewAABBFromPoints(corners[0], corners[1], corners[2], corners[3])
	return b.Expand(1e-4)
}

func (p *Plane) corners() [4]core.Vec3 {
	t := p.Tangent.Multiply(p.Size.X)
	b := p.Bitangent.Multiply(p.Size.Y)
	return [4]core.Vec3{
		p.Center.Add(t).Add(b),
		p.Center.Subtract(t).Add(b),
		p.Center.Subtract(t).Subtract(b),
		p.Center.Add(t).Subtract(b),
	}
}

func (p *Plane) Area() float64 {
	return 4 * p.Size.X * p.Size.Y
}

func (p *Plane) intersectT(ray core.Ray) (float64, core.Vec2, bool) {
	denom := p.Normal.Dot(ray.Direction)
	if denom == 0 {
		return 0, core.Vec2{}, false
	}
	t := p.Center.Subtract(ray.Origin).Dot(p.Normal) / denom
	if t < 1e-9 {
		return 0, core.Vec2{}, false
	}

	hitPoint := ray.At(t)
	local := hitPoint.Subtract(p.Center)
	u := local.Dot(p.Tangent)
	v := local.Dot(p.Bitangent)
	if u < -p.Size.X || u > p.Size.X || v < -p.Size.Y || v > p.Size.Y {
		return 0, core.Vec2{}, false
	}

	return t, core.NewVec2(u/(2*p.Size.X)+0.5, v/(2*p.Size.Y)+0.5), true
}

func (p *Plane) Intersect(ray core.Ray, tMax float64) (Hit, bool) {
	t, uv, ok := p.intersectT(ray)
	if !ok || t > tMax {
		return Hit{}, false
	}
	return Hit{
		Point:           ray.At(t),
		GeometricNormal: p.Normal,
		ShadingNormal:   p.Normal,
		ShadingTangent:  p.Tangent,
		UV:              uv,
		T:               t,
	}, true
}

func (p *Plane) IntersectAny(ray core.Ray, tMax float64) bool {
	t, _, ok := p.intersectT(ray)
	return ok && t <= tMax
}

func (p *Plane) SampleArea(u core.Vec2) (Hit, float64) {
	du := (u.X*2 - 1) * p.Size.X
	dv := (u.Y*2 - 1) * p.Size.Y
	point := p.Center.Add(p.Tangent.Multiply(du)).Add(p.Bitangent.Multiply(dv))
	return Hit{
		Point:           point,
		GeometricNormal: p.Normal,
		ShadingNormal:   p.Normal,
		ShadingTangent:  p.Tangent,
		UV:              core.NewVec2(u.X, u.Y),
	}, 1.0 / p.Area()
}
