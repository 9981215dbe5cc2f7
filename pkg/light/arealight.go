// Package light implements the diffuse area light of spec 4.F, grounded on
// original_source/Lights/DiffuseAreaLight.hpp. The source's ILight checks
// "p.Light() != this" at the top of every method to guard against a
// SurfacePoint that was raycast onto a different light's surface; that
// self-identity check is a Scene-level concern here instead (the scene only
// ever calls an AreaLight's methods with a point it already knows belongs
// to that light's surface), so it is not reproduced inside AreaLight.
package light

import (
	"github.com/arclight-render/arclight/pkg/core"
	"github.com/arclight-render/arclight/pkg/shape"
)

// AreaLight is a diffuse emitter bound to one shape, holding a non-owning
// reference to it per the source's ISurface const* surface_ field.
type AreaLight struct {
	Shape    shape.Shape
	Color    core.Vec3
	Strength float64
}

func NewAreaLight(s shape.Shape, color core.Vec3, strength float64) *AreaLight {
	return &AreaLight{Shape: s, Color: color, Strength: strength}
}

// SamplePoint draws an area-uniform point on the light's surface.
func (l *AreaLight) SamplePoint(u core.Vec2) (shape.Hit, float64) {
	return l.Shape.SampleArea(u)
}

// SamplePointFrom specializes sampling for a given viewer position (e.g.
// solid-angle sampling of a sphere light); the fallback, used here since no
// shape in pkg/shape currently implements a view-dependent sampler, is
// plain area sampling.
func (l *AreaLight) SamplePointFrom(viewPosition core.Vec3, u core.Vec2) (shape.Hit, float64) {
	return l.SamplePoint(u)
}

// SampleDirection draws a cosine-weighted direction in the hemisphere about
// p's normal.
func (l *AreaLight) SampleDirection(p shape.Hit, u core.Vec2) (core.Vec3, float64) {
	tangent, bitangent := core.SampleCoordinateSystem(p.GeometricNormal)
	local, pdf := core.SampleHemisphereCosine(u)
	w := tangent.Multiply(local.X).
		Add(p.GeometricNormal.Multiply(local.Z)).
		Add(bitangent.Multiply(local.Y))
	return w, pdf
}

// ProbabilityPoint is the inverse of SamplePoint: the area pdf of the
// light's surface at p.
func (l *AreaLight) ProbabilityPoint(p shape.Hit) float64 {
	return 1.0 / l.Shape.Area()
}

// ProbabilityDirection is the inverse of SampleDirection.
func (l *AreaLight) ProbabilityDirection(p shape.Hit, w core.Vec3) float64 {
	cosTheta := p.GeometricNormal.Dot(w)
	if cosTheta <= 0 {
		return 0
	}
	return core.HemisphereCosinePDF(cosTheta)
}

// EmittedRadiance is color*strength on the front side of the surface, zero
// otherwise.
func (l *AreaLight) EmittedRadiance(p shape.Hit, w core.Vec3) core.Vec3 {
	if p.GeometricNormal.Dot(w) <= 0 {
		return core.Vec3{}
	}
	return l.Color.Multiply(l.Strength)
}
