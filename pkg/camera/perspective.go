// Package camera implements the perspective thin-lens camera of spec 4.E,
// grounded on original_source/Cameras/PerspectiveCamera.hpp (read in full).
// No teacher file survived retrieval for this concern (renderer.CameraConfig
// referenced by the teacher's own camera_test.go was never present in the
// retrieved pack), so the public shape below is a plain constructor taking
// the transform, field of view, lens radius and focus distance directly.
package camera

import (
	"math"

	"github.com/arclight-render/arclight/pkg/core"
)

// Camera is a perspective camera with an optional thin lens for depth of
// field; LensRadius == 0 degenerates to a pinhole.
type Camera struct {
	Transform     core.Transform
	Fov           float64 // vertical field of view, radians
	LensRadius    float64
	FocusDistance float64
}

func NewCamera(transform core.Transform, fovRadians, lensRadius, focusDistance float64) *Camera {
	return &Camera{Transform: transform, Fov: fovRadians, LensRadius: lensRadius, FocusDistance: focusDistance}
}

type filmPlane struct {
	distance, height, width, pixelSize, top, left float64
}

func (c *Camera) plane(width, height int) filmPlane {
	distance := 1.0
	if c.LensRadius != 0 {
		distance = c.FocusDistance
	}
	h := 2.0 * distance * math.Tan(c.Fov/2.0)
	w := h * float64(width) / float64(height)
	pixelSize := h / float64(height)
	return filmPlane{distance: distance, height: h, width: w, pixelSize: pixelSize, top: h / 2.0, left: -w / 2.0}
}

// GenerateRay builds a primary camera ray: sample the lens, sample the
// sub-pixel offset, and point through the focus plane.
func (c *Camera) GenerateRay(width, height, pixelX, pixelY int, uLens, uPixel core.Vec2) core.Ray {
	fp := c.plane(width, height)

	origin := core.Vec3{}
	if c.LensRadius != 0 {
		d := core.SampleDiskConcentric(uLens)
		origin = core.NewVec3(d.X*c.LensRadius, d.Y*c.LensRadius, 0)
	}

	filmPosition := core.NewVec3(
		fp.left+(float64(pixelX)+uPixel.X)*fp.pixelSize,
		fp.top-(float64(pixelY)+uPixel.Y)*fp.pixelSize,
		fp.distance,
	)
	direction := filmPosition.Subtract(origin).Normalize()

	return core.Ray{Origin: c.Transform.Point(origin), Direction: c.Transform.Direction(direction)}
}

// SamplePointAndDirection samples a lens point and a primary-ray direction
// for bidirectional light transport, returning the camera importance W,
// the lens point's world position and normal, the area pdf of the lens
// point, the world-space direction, and its solid-angle pdf. For a pinhole
// camera pdfP is 1 (lensArea treated as 1) per spec 4.E.
func (c *Camera) SamplePointAndDirection(width, height, pixelX, pixelY int, uLens, uPixel core.Vec2) (
	importance core.Vec3, lensPos core.Vec3, lensNormal core.Vec3, pdfP float64, w core.Vec3, pdfW float64,
) {
	lensArea := 1.0
	local := core.Vec3{}
	if c.LensRadius != 0 {
		lensArea = math.Pi * c.LensRadius * c.LensRadius
		d := core.SampleDiskConcentric(uLens)
		local = core.NewVec3(d.X*c.LensRadius, d.Y*c.LensRadius, 0)
	}
	lensPos = c.Transform.Point(local)
	lensNormal = c.Transform.Normal(core.NewVec3(0, 0, 1))
	pdfP = 1.0 / lensArea

	fp := c.plane(width, height)
	filmPosition := core.NewVec3(
		fp.left+(float64(pixelX)+uPixel.X)*fp.pixelSize,
		fp.top-(float64(pixelY)+uPixel.Y)*fp.pixelSize,
		fp.distance,
	)
	direction := filmPosition.Subtract(local).Normalize()
	cosWN := direction.Z
	pixelArea := fp.pixelSize * fp.pixelSize
	pdfW = 1.0 / (pixelArea * cosWN * cosWN * cosWN)
	w = c.Transform.Direction(direction)

	imp := pdfW * pdfP / cosWN
	return core.NewVec3(imp, imp, imp), lensPos, lensNormal, pdfP, w, pdfW
}

// SamplePoint picks a lens point that sees viewPosition, used by
// light-tracing and bidirectional connections to splat a light subpath
// vertex onto the film. ok is false if the projection falls outside the
// film rectangle or behind the lens.
func (c *Camera) SamplePoint(width, height int, viewPosition core.Vec3, uLens core.Vec2) (
	importance core.Vec3, pixelX, pixelY int, lensPos core.Vec3, lensNormal core.Vec3, pdfP float64, ok bool,
) {
	lensArea := 1.0
	p0 := core.Vec3{}
	if c.LensRadius != 0 {
		lensArea = math.Pi * c.LensRadius * c.LensRadius
		d := core.SampleDiskConcentric(uLens)
		p0 = core.NewVec3(d.X*c.LensRadius, d.Y*c.LensRadius, 0)
	}
	lensPos = c.Transform.Point(p0)
	lensNormal = c.Transform.Normal(core.NewVec3(0, 0, 1))
	pdfP = 1.0 / lensArea

	inv := c.Transform.Inverse()
	p1 := inv.Point(viewPosition)
	d01 := p1.Subtract(p0)
	if d01.Z <= 0 {
		return core.Vec3{}, 0, 0, lensPos, lensNormal, pdfP, false
	}

	fp := c.plane(width, height)
	t := fp.distance / d01.Z
	filmPosition := p0.Add(d01.Multiply(t))

	if filmPosition.X < fp.left || filmPosition.X > -fp.left || filmPosition.Y > fp.top || filmPosition.Y < -fp.top {
		return core.Vec3{}, 0, 0, lensPos, lensNormal, pdfP, false
	}

	pixelSize := fp.pixelSize
	pixelArea := pixelSize * pixelSize

	pixelX = clampInt(int((filmPosition.X-fp.left)/fp.width*float64(width)), 0, width-1)
	pixelY = clampInt(int((1.0-(filmPosition.Y+fp.top)/fp.height)*float64(height)), 0, height-1)

	w01 := d01.Normalize()
	cosWN := w01.Z
	pdfW := 1.0 / (pixelArea * cosWN * cosWN * cosWN)

	imp := pdfP * pdfW / cosWN
	return core.NewVec3(imp, imp, imp), pixelX, pixelY, lensPos, lensNormal, pdfP, true
}

// ProbabilityDirection is the solid-angle pdf for a direction sampled from
// a lens point p by GenerateRay/SamplePointAndDirection, the mirror of
// SamplePointAndDirection's pdfW used by bidirectional MIS for the 0th
// (camera) vertex.
func (c *Camera) ProbabilityDirection(width, height int, lensPos core.Vec3, w core.Vec3) float64 {
	inv := c.Transform.Inverse()
	p0 := inv.Point(lensPos)
	w01 := inv.Direction(w)
	if w01.Z <= 0 {
		return 0
	}

	fp := c.plane(width, height)
	t := fp.distance / w01.Z
	filmPosition := p0.Add(w01.Multiply(t))

	if filmPosition.X < fp.left || filmPosition.X > -fp.left || filmPosition.Y > fp.top || filmPosition.Y < -fp.top {
		return 0
	}

	pixelArea := fp.pixelSize * fp.pixelSize
	cosWN := w01.Z
	return 1.0 / (pixelArea * cosWN * cosWN * cosWN)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
