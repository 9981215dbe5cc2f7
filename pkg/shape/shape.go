// Package shape implements the surface primitives of spec 4.D's Scene:
// sphere, plane, and triangle mesh. Each exposes bounds, area, ray
// intersection with point attributes, and area-uniform point sampling.
package shape

import "github.com/arclight-render/arclight/pkg/core"

// Hit is the geometric attribute bundle a Shape fills on intersection or
// area sampling: the part of spec 3's SurfacePoint that a surface
// primitive alone can determine, before the scene annotates it with
// material/medium/light/priority/ior.
type Hit struct {
	Point           core.Vec3
	GeometricNormal core.Vec3
	ShadingNormal   core.Vec3
	ShadingTangent  core.Vec3
	UV              core.Vec2
	T               float64
}

// Shape is a surface primitive.
type Shape interface {
	Bounds() core.AABB
	Area() float64
	// Intersect returns the closest hit along the ray within (0, tMax],
	// or ok=false if none.
	Intersect(ray core.Ray, tMax float64) (Hit, bool)
	// IntersectAny is a cheaper any-hit test, used by shadow/visibility
	// queries that only need a boolean.
	IntersectAny(ray core.Ray, tMax float64) bool
	// SampleArea draws an area-uniform point on the surface and its area
	// pdf (1/Area for shapes with constant local curvature).
	SampleArea(u core.Vec2) (Hit, float64)
}
