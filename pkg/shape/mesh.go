package shape

import (
	"math"

	"github.com/arclight-render/arclight/pkg/core"
	"github.com/arclight-render/arclight/pkg/meshio"
)

// TriangleMesh is a shape backed by a meshio.Mesh, transformed once into
// world space at load time. Per-triangle intersection uses the
// Moeller-Trumbore test (the teacher's geometry.Triangle.Hit algorithm)
// rather than original_source/Surfaces/Mesh.hpp's permute-and-shear
// watertight test; both are numerically equivalent for the closed,
// manifold meshes the shape loader produces.
//
// Acceleration: a TriangleMesh is intersected by linear scan over its
// triangles. The top-level BVH treats the whole mesh as a single
// primitive rather than exposing per-triangle bounds (see the pkg/scene
// package doc); meshes are expected to be modest triangle counts for this
// renderer's target scenes.
type TriangleMesh struct {
	mesh           *meshio.Mesh
	worldPositions []core.Vec3
	worldNormals   []core.Vec3
	bounds         core.AABB
}

// NewTriangleMesh transforms every mesh vertex into world space once so
// per-ray intersection never re-applies the transform.
func NewTriangleMesh(m *meshio.Mesh, transform core.Transform) *TriangleMesh {
	positions := make([]core.Vec3, len(m.Positions))
	for i, p := range m.Positions {
		positions[i] = transform.Point(core.NewVec3(float64(p.X), float64(p.Y), float64(p.Z)))
	}

	var normals []core.Vec3
	if len(m.Normals) > 0 {
		normals = make([]core.Vec3, len(m.Normals))
		for i, n := range m.Normals {
			normals[i] = transform.Normal(core.NewVec3(float64(n.X), float64(n.Y), float64(n.Z))).Normalize()
		}
	}

	bounds := core.NewAABB(positions[0], positions[0])
	for _, p := range positions[1:] {
		bounds = bounds.Union(core.NewAABB(p, p))
	}

	return &TriangleMesh{
		mesh:           m,
		worldPositions: positions,
		worldNormals:   normals,
		bounds:         bounds,
	}
}

func (tm *TriangleMesh) Bounds() core.AABB { return tm.bounds }

func (tm *TriangleMesh) Area() float64 {
	total := 0.0
	for tri := 0; tri < tm.mesh.TriangleCount(); tri++ {
		p0, p1, p2 := tm.triangleVerts(tri)
		total += p1.Subtract(p0).Cross(p2.Subtract(p0)).Length() * 0.5
	}
	return total
}

func (tm *TriangleMesh) triangleVerts(tri int) (core.Vec3, core.Vec3, core.Vec3) {
	i0 := tm.mesh.Indices[tri*3]
	i1 := tm.mesh.Indices[tri*3+1]
	i2 := tm.mesh.Indices[tri*3+2]
	return tm.worldPositions[i0], tm.worldPositions[i1], tm.worldPositions[i2]
}

func (tm *TriangleMesh) triangleNormals(tri int) (core.Vec3, core.Vec3, core.Vec3, bool) {
	if tm.worldNormals == nil {
		return core.Vec3{}, core.Vec3{}, core.Vec3{}, false
	}
	i0 := tm.mesh.Indices[tri*3]
	i1 := tm.mesh.Indices[tri*3+1]
	i2 := tm.mesh.Indices[tri*3+2]
	return tm.worldNormals[i0], tm.worldNormals[i1], tm.worldNormals[i2], true
}

func (tm *TriangleMesh) triangleUVs(tri int) (core.Vec2, core.Vec2, core.Vec2, bool) {
	if len(tm.mesh.UVs) == 0 {
		return core.Vec2{}, core.Vec2{}, core.Vec2{}, false
	}
	i0 := tm.mesh.Indices[tri*3]
	i1 := tm.mesh.Indices[tri*3+1]
	i2 := tm.mesh.Indices[tri*3+2]
	uv0 := tm.mesh.UVs[i0]
	uv1 := tm.mesh.UVs[i1]
	uv2 := tm.mesh.UVs[i2]
	return core.NewVec2(float64(uv0.X), float64(uv0.Y)),
		core.NewVec2(float64(uv1.X), float64(uv1.Y)),
		core.NewVec2(float64(uv2.X), float64(uv2.Y)), true
}

const moellerTrumboreEpsilon = 1e-8

// hitTriangle runs Moeller-Trumbore for one triangle, returning the
// barycentric (u, v) and t on success.
func hitTriangle(ray core.Ray, p0, p1, p2 core.Vec3, tMax float64) (u, v, t float64, ok bool) {
	edge1 := p1.Subtract(p0)
	edge2 := p2.Subtract(p0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if a > -moellerTrumboreEpsilon && a < moellerTrumboreEpsilon {
		return 0, 0, 0, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(p0)
	u = f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return 0, 0, 0, false
	}

	q := s.Cross(edge1)
	v = f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return 0, 0, 0, false
	}

	t = f * edge2.Dot(q)
	if t < 1e-9 || t > tMax {
		return 0, 0, 0, false
	}

	return u, v, t, true
}

func (tm *TriangleMesh) hitAt(ray core.Ray, tri int, u, v, t float64) Hit {
	p0, p1, p2 := tm.triangleVerts(tri)
	w := 1.0 - u - v

	geomNormal := p1.Subtract(p0).Cross(p2.Subtract(p0)).Normalize()
	tangent := p0.Subtract(p2).Normalize()

	shadingNormal := geomNormal
	if n0, n1, n2, ok := tm.triangleNormals(tri); ok {
		shadingNormal = n0.Multiply(w).Add(n1.Multiply(u)).Add(n2.Multiply(v)).Normalize()
		if shadingNormal.Dot(geomNormal) < 0 {
			geomNormal = geomNormal.Negate()
		}
	}

	// Re-orthogonalize the geometric tangent against the shading normal
	// (Gram-Schmidt) so the shading frame stays orthonormal even when
	// vertex normals diverge from the face normal.
	shadingTangent := tangent.Subtract(shadingNormal.Multiply(shadingNormal.Dot(tangent)))
	if shadingTangent.Length() < 1e-12 {
		shadingTangent = tangent
	} else {
		shadingTangent = shadingTangent.Normalize()
	}

	uv := core.NewVec2(u, v)
	if uv0, uv1, uv2, ok := tm.triangleUVs(tri); ok {
		uv = uv0.Multiply(w).Add(uv1.Multiply(u)).Add(uv2.Multiply(v))
	}

	return Hit{
		Point:           ray.At(t),
		GeometricNormal: geomNormal,
		ShadingNormal:   shadingNormal,
		ShadingTangent:  shadingTangent,
		UV:              uv,
		T:               t,
	}
}

func (tm *TriangleMesh) Intersect(ray core.Ray, tMax float64) (Hit, bool) {
	best := tMax
	bestTri := -1
	var bestU, bestV float64

	for tri := 0; tri < tm.mesh.TriangleCount(); tri++ {
		p0, p1, p2 := tm.triangleVerts(tri)
		u, v, t, ok := hitTriangle(ray, p0, p1, p2, best)
		if !ok {
			continue
		}
		best = t
		bestTri = tri
		bestU, bestV = u, v
	}

	if bestTri < 0 {
		return Hit{}, false
	}
	return tm.hitAt(ray, bestTri, bestU, bestV, best), true
}

func (tm *TriangleMesh) IntersectAny(ray core.Ray, tMax float64) bool {
	for tri := 0; tri < tm.mesh.TriangleCount(); tri++ {
		p0, p1, p2 := tm.triangleVerts(tri)
		if _, _, _, ok := hitTriangle(ray, p0, p1, p2, tMax); ok {
			return true
		}
	}
	return false
}

// SampleArea picks a triangle proportional to its area, then a
// barycentric point within it uniformly.
func (tm *TriangleMesh) SampleArea(u core.Vec2) (Hit, float64) {
	count := tm.mesh.TriangleCount()
	areas := make([]float64, count)
	total := 0.0
	for tri := 0; tri < count; tri++ {
		p0, p1, p2 := tm.triangleVerts(tri)
		areas[tri] = p1.Subtract(p0).Cross(p2.Subtract(p0)).Length() * 0.5
		total += areas[tri]
	}

	target := u.X * total
	tri := 0
	for ; tri < count-1; tri++ {
		if target < areas[tri] {
			break
		}
		target -= areas[tri]
	}

	su0 := math.Sqrt(u.Y)
	b0 := 1 - su0
	// Rescale what is left of u.X after the triangle pick back to [0,1] and
	// use it as the second barycentric random number.
	u1 := 0.0
	if areas[tri] > 0 {
		u1 = math.Min(target/areas[tri], 1)
	}
	b1 := u1 * su0

	p0, p1, p2 := tm.triangleVerts(tri)
	w := 1 - b0 - b1
	point := p0.Multiply(b0).Add(p1.Multiply(b1)).Add(p2.Multiply(w))

	geomNormal := p1.Subtract(p0).Cross(p2.Subtract(p0)).Normalize()
	shadingNormal := geomNormal
	if n0, n1, n2, ok := tm.triangleNormals(tri); ok {
		shadingNormal = n0.Multiply(b0).Add(n1.Multiply(b1)).Add(n2.Multiply(w)).Normalize()
	}

	pdf := 0.0
	if total > 0 {
		pdf = 1.0 / total
	}

	return Hit{
		Point:           point,
		GeometricNormal: geomNormal,
		ShadingNormal:   shadingNormal,
		ShadingTangent:  p0.Subtract(p2).Normalize(),
	}, pdf
}
