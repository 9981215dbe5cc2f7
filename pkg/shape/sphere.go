package shape

import (
	"math"

	"github.com/arclight-render/arclight/pkg/core"
)

// Sphere is centered at Center with the given Radius. Unlike the source's
// SphereShape (which carries a full affine Transform so a sphere can be
// non-uniformly scaled into an ellipsoid), this keeps the teacher's
// simpler world-space {center, radius} representation; non-uniform scale
// is not part of SPEC_FULL's JSON schema for the sphere shape kind.
type Sphere struct {
	Center core.Vec3
	Radius float64
}

func NewSphere(center core.Vec3, radius float64) *Sphere {
	return &Sphere{Center: center, Radius: radius}
}

func (s *Sphere) Bounds() core.AABB {
	r := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.NewAABBFromPoints(s.Center.Subtract(r), s.Center.Add(r))
}

func (s *Sphere) Area() float64 {
	return 4.0 * math.Pi * s.Radius * s.Radius
}

func (s *Sphere) quadratic(ray core.Ray) (t0, t1 float64, ok bool) {
	oc := ray.Origin.Subtract(s.Center)
	a := ray.Direction.Dot(ray.Direction)
	b := 2.0 * oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius
	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return 0, 0, false
	}

	sqrtD := math.Sqrt(discriminant)
	var q float64
	if b < 0 {
		q = -0.5 * (b - sqrtD)
	} else {
		q = -0.5 * (b + sqrtD)
	}
	t0, t1 = q/a, c/q
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	return t0, t1, true
}

func (s *Sphere) hitAt(ray core.Ray, t float64) Hit {
	p := ray.At(t)
	n := p.Subtract(s.Center).Multiply(1.0 / s.Radius)

	v := core.NewVec2(p.X-s.Center.X, p.Z-s.Center.Z)
	if v.X == 0 && v.Y == 0 {
		v.X = 1
	}
	vl := math.Sqrt(v.X*v.X + v.Y*v.Y)
	tangent := core.NewVec3(-v.Y/vl, 0, v.X/vl)

	phi := math.Atan2(n.Z, n.X) + math.Pi
	theta := math.Acos(math.Max(-1, math.Min(1, n.Y)))
	uv := core.NewVec2(phi/(2*math.Pi), theta/math.Pi)

	return Hit{
		Point:           p,
		GeometricNormal: n,
		ShadingNormal:   n,
		ShadingTangent:  tangent,
		UV:              uv,
		T:               t,
	}
}

func (s *Sphere) Intersect(ray core.Ray, tMax float64) (Hit, bool) {
	t0, t1, ok := s.quadratic(ray)
	if !ok {
		return Hit{}, false
	}

	t := t0
	if t < 1e-9 {
		t = t1
	}
	if t < 1e-9 || t > tMax {
		return Hit{}, false
	}

	return s.hitAt(ray, t), true
}

func (s *Sphere) IntersectAny(ray core.Ray, tMax float64) bool {
	t0, t1, ok := s.quadratic(ray)
	if !ok {
		return false
	}
	t := t0
	if t < 1e-9 {
		t = t1
	}
	return t >= 1e-9 && t <= tMax
}

func (s *Sphere) SampleArea(u core.Vec2) (Hit, float64) {
	n, _ := core.SampleSphereUniform(u)
	p := s.Center.Add(n.Multiply(s.Radius))
	return Hit{
		Point:           p,
		GeometricNormal: n,
		ShadingNormal:   n,
		ShadingTangent:  core.NewVec3(-n.Z, 0, n.X).Normalize(),
	}, 1.0 / s.Area()
}
