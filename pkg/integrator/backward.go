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
	"github.com/arclight-render/arclight/pkg/shape"
)

// lightBatchSize is the fixed sample-batch size each worker fetch-adds,
// grounded on BackwardPathIntegrator.hpp's SAMPLES_PER_WORKER (64x64).
const lightBatchSize = 64 * 64

// BackwardPathIntegrator traces light-started paths and splats their
// contribution onto the film at every vertex by connecting to a sampled
// camera lens point, grounded on
// original_source/Integrators/BackwardPathIntegrator.hpp (read in full).
type BackwardPathIntegrator struct {
	Camera      *camera.Camera
	SampleCount uint64
	WorkerCount int
	MaxVertices int
}

// Render implements Integrator. Scissor bounds are unused: light-tracing
// samples have no pixel ownership and may splat anywhere in the frame.
func (bp *BackwardPathIntegrator) Render(ctx context.Context, f *film.Film, sc *scene.Scene, seedSampler sampler.Sampler, _, _ [2]int) {
	runSamples(ctx, bp.SampleCount, lightBatchSize, bp.WorkerCount, seedSampler,
		func(samp sampler.Sampler, a *material.Arena) {
			samp.BeginPixel(1, 1, 0, 0)
			samp.BeginSample()
			bp.sample(f, sc, samp, a)
			f.AddLightSampleCount(1)
			samp.EndSample()
			a.Reset()
			samp.EndPixel()
		})
}

func (bp *BackwardPathIntegrator) sample(f *film.Film, sc *scene.Scene, samp sampler.Sampler, a *material.Arena) {
	lights := sc.Lights()
	if len(lights) == 0 {
		return
	}
	lightIdx := pickUniform(samp.Get1D(), len(lights))
	lightEntity := lights[lightIdx]

	p0Hit, pdfP0 := lightEntity.Light.SamplePoint(samp.Get2D())
	w01, pdfW01 := lightEntity.Light.SampleDirection(p0Hit, samp.Get2D())
	pdfP0 /= float64(len(lights))

	p0 := scene.SurfacePoint{Hit: p0Hit, Entity: lightEntity}
	beta := core.NewVec3(1, 1, 1)

	// 2-vertex connection: splat the light point directly onto the camera.
	bp.connectLightVertex(f, sc, samp, p0, beta, lightEntity, pdfP0)

	p1, ok := sc.RaycastFrom(p0, w01)
	if !ok {
		return
	}
	radiance := lightEntity.Light.EmittedRadiance(p0Hit, w01)
	beta = beta.Multiply(p0.GeometricNormal.AbsDot(w01) / (pdfW01 * pdfP0)).MultiplyVec(radiance)
	b := p1.Entity.Material.ComputeBSDF(p1.Hit, incidentIOR, a)

	// 3-vertex connection.
	bp.connectSurfaceVertex(f, sc, samp, p1, beta, b, w01.Negate())

	for i := 3; i < bp.MaxVertices; i++ {
		w12, f012, pdfW12, _, sampled := b.Sample(w01.Negate(), samp.Get1D(), samp.Get2D())
		if !sampled || pdfW12 == 0 || f012.IsZero() {
			return
		}

		p2, ok := sc.RaycastFrom(p1, w12)
		if !ok {
			return
		}

		beta = beta.MultiplyVec(f012.Multiply(adjointFactor(p1, w01.Negate()))).Multiply(p1.ShadingNormal.AbsDot(w12) / pdfW12)
		b = p2.Entity.Material.ComputeBSDF(p2.Hit, incidentIOR, a)

		bp.connectSurfaceVertex(f, sc, samp, p2, beta, b, w12.Negate())

		w01, p1 = w12, p2
	}
}

// adjointFactor is the Veach shading-normal correction applied to a
// direct Sample() result (whose f can't be recomputed via Evaluate when
// the chosen lobe is delta), matching DESIGN.md's "apply it" decision for
// light-to-eye subpaths.
func adjointFactor(p scene.SurfacePoint, wo core.Vec3) float64 {
	cosNgWo := p.GeometricNormal.AbsDot(wo)
	if cosNgWo == 0 {
		return 0
	}
	return p.ShadingNormal.AbsDot(wo) / cosNgWo
}

func lensSurfacePoint(pos, normal core.Vec3) scene.SurfacePoint {
	return scene.SurfacePoint{Hit: shape.Hit{Point: pos, GeometricNormal: normal, ShadingNormal: normal}}
}

// connectLightVertex handles the 2-vertex case: the light's emitted point
// connects directly to the camera, radiance evaluated toward the sampled
// camera direction rather than the subpath's continuation direction.
func (bp *BackwardPathIntegrator) connectLightVertex(f *film.Film, sc *scene.Scene, samp sampler.Sampler,
	p0 scene.SurfacePoint, beta core.Vec3, lightEntity *scene.Entity, pdfP0 float64) {

	importance, pixelX, pixelY, lensPos, lensNormal, pdfPC, ok := bp.Camera.SamplePoint(f.Width(), f.Height(), p0.Point, samp.Get2D())
	if !ok || importance.IsZero() {
		return
	}

	pC := lensSurfacePoint(lensPos, lensNormal)
	if !sc.Visibility(p0, pC) {
		return
	}

	w0C := pC.Point.Subtract(p0.Point).Normalize()
	radiance := lightEntity.Light.EmittedRadiance(p0.Hit, w0C)
	if radiance.IsZero() {
		return
	}

	value := beta.MultiplyVec(radiance).Multiply(gTerm(p0, pC, w0C)).MultiplyVec(importance).Multiply(1.0 / (pdfP0 * pdfPC))
	f.AddLightSample(pixelX, pixelY, value)
}

// connectSurfaceVertex handles every 3+-vertex case: evaluate the local
// BSDF (adjoint-corrected) toward a sampled camera point and splat.
func (bp *BackwardPathIntegrator) connectSurfaceVertex(f *film.Film, sc *scene.Scene, samp sampler.Sampler,
	p scene.SurfacePoint, beta core.Vec3, b *bsdf.BSDF, wOut core.Vec3) {

	importance, pixelX, pixelY, lensPos, lensNormal, pdfPC, ok := bp.Camera.SamplePoint(f.Width(), f.Height(), p.Point, samp.Get2D())
	if !ok || importance.IsZero() {
		return
	}

	pC := lensSurfacePoint(lensPos, lensNormal)
	if !sc.Visibility(p, pC) {
		return
	}

	wC := pC.Point.Subtract(p.Point).Normalize()
	fC := b.EvaluateAdjoint(wC, wOut)
	if fC.IsZero() {
		return
	}

	value := beta.MultiplyVec(fC).Multiply(gTerm(p, pC, wC)).MultiplyVec(importance).Multiply(1.0 / pdfPC)
	f.AddLightSample(pixelX, pixelY, value)
}
