package integrator

import (
	"context"

	"github.com/arclight-render/arclight/pkg/bsdf"
	"github.com/arclight-render/arclight/pkg/camera"
	"github.com/arclight-render/arclight/pkg/core"
	"github.com/arclight-render/arclight/pkg/film"
	"github.com/arclight-render/arclight/pkg/material"
	"github.com/arclight-render/arclight/pkg/sampler"
	"github.com/arclight-render/arclight/pkg/scene"
)

// vertex is one node of a camera or light subpath, grounded on
// BidirectionalPathIntegrator.hpp's Vertex struct: the surface point, both
// area-measure pdfs (forward = pdf of having sampled this vertex walking
// from the camera toward the light, backward = pdf of having sampled it
// walking from the light toward the camera, on both subpaths), the
// outgoing direction/pdf used to continue the walk,
// accumulated throughput, and the BSDF evaluated at the point (nil for the
// 0th camera/light vertex, which has no surface material).
type vertex struct {
	p scene.SurfacePoint

	pdfPForward  float64
	pdfPBackward float64

	w    core.Vec3
	pdfW float64

	beta core.Vec3
	bsdf *bsdf.BSDF
}

// BidirectionalPathIntegrator connects every valid (t,s) pair of camera-
// and light-subpath prefixes and combines them with multi-sample MIS,
// grounded on original_source/Integrators/BidirectionalPathIntegrator.hpp
// (read in full) and root BDPT.hpp.
type BidirectionalPathIntegrator struct {
	Camera      *camera.Camera
	TileSize    [2]int
	WorkerCount int
	XSamples    int
	YSamples    int
	MaxVertices int
}

// Render implements Integrator.
func (bd *BidirectionalPathIntegrator) Render(ctx context.Context, f *film.Film, sc *scene.Scene, seedSampler sampler.Sampler, scissorMin, scissorMax [2]int) {
	imageSize := [2]int{f.Width(), f.Height()}
	runTiles(ctx, bd.TileSize, imageSize, scissorMin, scissorMax, bd.WorkerCount, seedSampler,
		func(x, y int, samp sampler.Sampler, a *material.Arena) {
			samp.BeginPixel(bd.XSamples, bd.YSamples, bd.MaxVertices*2, bd.MaxVertices*3)
			for k := 0; k < bd.XSamples*bd.YSamples; k++ {
				samp.BeginSample()
				bd.sample(f, x, y, sc, samp, a)
				samp.EndSample()
				a.Reset()
			}
			samp.EndPixel()
		})
}

func (bd *BidirectionalPathIntegrator) sample(f *film.Film, x, y int, sc *scene.Scene, samp sampler.Sampler, a *material.Arena) {
	tVertices := make([]vertex, bd.MaxVertices)
	sVertices := make([]vertex, bd.MaxVertices)

	t := bd.generateCameraSubpath(tVertices, f.Width(), f.Height(), x, y, sc, samp, a)
	s := bd.generateLightSubpath(sVertices, sc, samp, a)

	value := core.Vec3{}
	if t > 1 {
		if v, ok := bd.connect(tVertices, 2, sVertices, 0, sc); ok {
			value = value.Add(v)
		}
	}

	for i := 3; i <= bd.MaxVertices; i++ {
		for j := i; j > 1; j-- {
			if t >= j && s >= i-j {
				if v, ok := bd.connect(tVertices, j, sVertices, i-j, sc); ok {
					value = value.Add(v)
				}
			}
		}

		if t >= 1 && s >= i-1 {
			if v, px, py, ok := bd.connectSplat(tVertices, sVertices, i-1, f.Width(), f.Height(), sc, samp); ok {
				f.AddLightSample(px, py, v)
			}
		}
	}

	f.AddSample(x, y, value)
	f.AddLightSampleCount(1)
}

func (bd *BidirectionalPathIntegrator) generateCameraSubpath(vertices []vertex, width, height, x, y int, sc *scene.Scene, samp sampler.Sampler, a *material.Arena) int {
	importance, p0Pos, p0Normal, pdfP0, w0, pdfW0 := bd.Camera.SamplePointAndDirection(width, height, x, y, samp.Get2D(), samp.Get2D())
	vertices[0] = vertex{
		p:           lensSurfacePoint(p0Pos, p0Normal),
		pdfPForward: pdfP0,
		w:           w0,
		pdfW:        pdfW0,
		beta:        core.NewVec3(1.0/pdfP0, 1.0/pdfP0, 1.0/pdfP0),
	}
	count := 1
	if bd.MaxVertices < 2 {
		return count
	}

	p1, ok := sc.RaycastFrom(vertices[0].p, w0)
	if !ok {
		return count
	}
	vertices[1] = vertex{
		p:    p1,
		beta: vertices[0].beta.MultiplyVec(importance).Multiply(p0Normal.AbsDot(w0) / pdfW0),
		bsdf: p1.Entity.Material.ComputeBSDF(p1.Hit, incidentIOR, a),
	}
	vertices[1].pdfPForward = pdfW0 * p1.GeometricNormal.AbsDot(w0) / p1.Point.Subtract(p0Pos).LengthSquared()
	count = 2

	for i := 2; i < bd.MaxVertices; i++ {
		v0, v1 := &vertices[i-2], &vertices[i-1]

		w12, f210, pdfW12, _, sampled := v1.bsdf.Sample(v0.w.Negate(), samp.Get1D(), samp.Get2D())
		if !sampled || pdfW12 == 0 || f210.IsZero() {
			return count
		}

		v2p, ok := sc.RaycastFrom(v1.p, w12)
		if !ok {
			return count
		}

		v1.w, v1.pdfW = w12, pdfW12
		vertices[i] = vertex{
			p:    v2p,
			beta: v1.beta.MultiplyVec(f210).Multiply(v1.p.GeometricNormal.AbsDot(w12) / pdfW12),
			bsdf: v2p.Entity.Material.ComputeBSDF(v2p.Hit, incidentIOR, a),
		}
		vertices[i].pdfPForward = pdfW12 * v2p.GeometricNormal.AbsDot(w12) / v2p.Point.Subtract(v1.p.Point).LengthSquared()

		pdfW10 := v1.bsdf.PDF(w12, v0.w.Negate())
		v0.pdfPBackward = pdfW10 * v0.p.GeometricNormal.AbsDot(v0.w) / v0.p.Point.Subtract(v1.p.Point).LengthSquared()

		count++
	}

	return count
}

func (bd *BidirectionalPathIntegrator) generateLightSubpath(vertices []vertex, sc *scene.Scene, samp sampler.Sampler, a *material.Arena) int {
	lights := sc.Lights()
	if len(lights) == 0 {
		return 0
	}
	lightIdx := pickUniform(samp.Get1D(), len(lights))
	lightEntity := lights[lightIdx]

	p0Hit, pdfP0 := lightEntity.Light.SamplePoint(samp.Get2D())
	pdfP0 /= float64(len(lights))
	w0, pdfW0 := lightEntity.Light.SampleDirection(p0Hit, samp.Get2D())

	vertices[0] = vertex{
		p:            scene.SurfacePoint{Hit: p0Hit, Entity: lightEntity},
		pdfPBackward: pdfP0,
		w:            w0,
		pdfW:         pdfW0,
		beta:         core.NewVec3(1.0/pdfP0, 1.0/pdfP0, 1.0/pdfP0),
	}
	count := 1
	if bd.MaxVertices < 2 {
		return count
	}

	p1, ok := sc.RaycastFrom(vertices[0].p, w0)
	if !ok {
		return count
	}
	radiance := lightEntity.Light.EmittedRadiance(p0Hit, w0)
	vertices[1] = vertex{
		p:    p1,
		beta: vertices[0].beta.MultiplyVec(radiance).Multiply(p0Hit.GeometricNormal.AbsDot(w0) / pdfW0),
		bsdf: p1.Entity.Material.ComputeBSDF(p1.Hit, incidentIOR, a),
	}
	vertices[1].pdfPBackward = pdfW0 * p1.GeometricNormal.AbsDot(w0) / p1.Point.Subtract(p0Hit.Point).LengthSquared()
	count = 2

	for i := 2; i < bd.MaxVertices; i++ {
		v0, v1 := &vertices[i-2], &vertices[i-1]

		w12, f210, pdfW12, _, sampled := v1.bsdf.Sample(v0.w.Negate(), samp.Get1D(), samp.Get2D())
		if !sampled || pdfW12 == 0 || f210.IsZero() {
			return count
		}

		v2p, ok := sc.RaycastFrom(v1.p, w12)
		if !ok {
			return count
		}

		v1.w, v1.pdfW = w12, pdfW12
		vertices[i] = vertex{
			p:    v2p,
			beta: v1.beta.MultiplyVec(f210.Multiply(adjointFactor(v1.p, v0.w.Negate()))).Multiply(v1.p.GeometricNormal.AbsDot(w12) / pdfW12),
			bsdf: v2p.Entity.Material.ComputeBSDF(v2p.Hit, incidentIOR, a),
		}
		vertices[i].pdfPBackward = pdfW12 * v2p.GeometricNormal.AbsDot(w12) / v2p.Point.Subtract(v1.p.Point).LengthSquared()

		pdfW10 := v1.bsdf.PDF(w12, v0.w.Negate())
		v0.pdfPForward = pdfW10 * v0.p.GeometricNormal.AbsDot(v0.w) / v0.p.Point.Subtract(v1.p.Point).LengthSquared()

		count++
	}

	return count
}

// connect computes the (t,s) camera/light subpath-prefix connection value
// and its MIS weight, for the non-splat cases (t>=2). ok is false when the
// configuration contributes nothing (occluded, zero f, or off-surface).
func (bd *BidirectionalPathIntegrator) connect(tVertices []vertex, t int, sVertices []vertex, s int, sc *scene.Scene) (core.Vec3, bool) {
	if t > 1 && s == 0 {
		last := tVertices[t-1]
		if last.p.Entity == nil || last.p.Entity.Light == nil {
			return core.Vec3{}, false
		}
		value := last.beta.MultiplyVec(last.p.Entity.Light.EmittedRadiance(last.p.Hit, tVertices[t-2].w.Negate()))
		if value.IsZero() {
			return core.Vec3{}, false
		}
		if t == 2 {
			return value, true
		}

		v1, v2 := &tVertices[t-2], &tVertices[t-1]
		restoreV2 := v2.pdfPBackward
		restoreV1 := v1.pdfPBackward
		v2.pdfPBackward = last.p.Entity.Light.ProbabilityPoint(v2.p.Hit) / float64(len(sc.Lights()))
		v1.pdfPBackward = last.p.Entity.Light.ProbabilityDirection(v2.p.Hit, v1.w.Negate()) * v1.p.GeometricNormal.AbsDot(v1.w) / v1.p.Point.Subtract(v2.p.Point).LengthSquared()
		weight := bd.weight(tVertices, t, sVertices, s)
		v2.pdfPBackward, v1.pdfPBackward = restoreV2, restoreV1

		return value.Multiply(weight), true
	}

	if t > 1 && s == 1 {
		v1 := tVertices[t-1]
		v2 := sVertices[0]
		if v2.p.Entity == nil || v2.p.Entity.Light == nil {
			return core.Vec3{}, false
		}

		wo := tVertices[t-2].w.Negate()
		wi := v2.p.Point.Subtract(v1.p.Point).Normalize()
		if !sc.Visibility(v1.p, v2.p) {
			return core.Vec3{}, false
		}
		radiance := v2.p.Entity.Light.EmittedRadiance(v2.p.Hit, wi.Negate())
		if radiance.IsZero() {
			return core.Vec3{}, false
		}

		value := v1.beta.MultiplyVec(v1.bsdf.Evaluate(wo, wi)).Multiply(gTerm(v1.p, v2.p, wi)).MultiplyVec(radiance).MultiplyVec(v2.beta)
		if value.IsZero() {
			return core.Vec3{}, false
		}
		return value.Multiply(bd.weight(tVertices, t, sVertices, s)), true
	}

	if t > 1 && s > 1 {
		v1 := tVertices[t-1]
		v2 := sVertices[s-1]
		if !sc.Visibility(v1.p, v2.p) {
			return core.Vec3{}, false
		}

		w12 := v2.p.Point.Subtract(v1.p.Point).Normalize()
		w21 := w12.Negate()
		w10 := tVertices[t-2].w.Negate()
		w23 := sVertices[s-2].w.Negate()

		value := v1.beta.MultiplyVec(v1.bsdf.Evaluate(w10, w12)).Multiply(gTerm(v1.p, v2.p, w12)).MultiplyVec(v2.bsdf.EvaluateAdjoint(w21, w23)).MultiplyVec(v2.beta)
		if value.IsZero() {
			return core.Vec3{}, false
		}
		return value.Multiply(bd.weight(tVertices, t, sVertices, s)), true
	}

	return core.Vec3{}, false
}

// connectSplat handles the t=1 family: the light subpath's last vertex
// connects to a resampled camera point and the result is splatted rather
// than added to the owning pixel.
func (bd *BidirectionalPathIntegrator) connectSplat(tVertices []vertex, sVertices []vertex, s int, width, height int, sc *scene.Scene, samp sampler.Sampler) (core.Vec3, int, int, bool) {
	if s < 2 {
		return core.Vec3{}, 0, 0, false
	}

	v1 := sVertices[s-1]
	v2 := sVertices[s-2]

	importance, px, py, lensPos, lensNormal, pdfP0, ok := bd.Camera.SamplePoint(width, height, v1.p.Point, samp.Get2D())
	if !ok || importance.IsZero() {
		return core.Vec3{}, 0, 0, false
	}
	v0 := vertex{p: lensSurfacePoint(lensPos, lensNormal), pdfPForward: pdfP0, beta: core.NewVec3(1.0/pdfP0, 1.0/pdfP0, 1.0/pdfP0)}

	if !sc.Visibility(v0.p, v1.p) {
		return core.Vec3{}, 0, 0, false
	}

	w10 := v0.p.Point.Subtract(v1.p.Point).Normalize()
	w12 := v1.w
	value := v0.beta.MultiplyVec(importance).Multiply(gTerm(v0.p, v1.p, w10)).MultiplyVec(v1.bsdf.EvaluateAdjoint(w10, w12)).MultiplyVec(v1.beta)
	if value.IsZero() {
		return core.Vec3{}, 0, 0, false
	}

	tv := make([]vertex, 1)
	tv[0] = v0
	weight := bd.weight(tv, 1, sVertices, s)

	return value.Multiply(weight), px, py, true
}

// weight computes the balance-heuristic MIS weight for the (t,s) strategy
// by summing the pdf-backward/pdf-forward ratio products chained from the
// connection point in both directions, grounded on
// BidirectionalPathIntegrator.hpp's Weight.
func (bd *BidirectionalPathIntegrator) weight(tVertices []vertex, t int, sVertices []vertex, s int) float64 {
	sum := 1.0

	r := 1.0
	for i := t - 1; i > 0; i-- {
		if tVertices[i].pdfPForward == 0 {
			break
		}
		r *= tVertices[i].pdfPBackward / tVertices[i].pdfPForward
		sum += r
	}

	r = 1.0
	for i := s - 1; i >= 0; i-- {
		if sVertices[i].pdfPBackward == 0 {
			break
		}
		r *= sVertices[i].pdfPForward / sVertices[i].pdfPBackward
		sum += r
	}

	return 1.0 / sum
}
