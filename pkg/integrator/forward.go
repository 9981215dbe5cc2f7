package integrator

import (
	"context"
	"math"

	"github.com/arclight-render/arclight/pkg/bsdf"
	"github.com/arclight-render/arclight/pkg/camera"
	"github.com/arclight-render/arclight/pkg/core"
	"github.com/arclight-render/arclight/pkg/film"
	"github.com/arclight-render/arclight/pkg/material"
	"github.com/arclight-render/arclight/pkg/sampler"
	"github.com/arclight-render/arclight/pkg/scene"
)

// Strategy selects which estimator ForwardPathIntegrator uses per vertex,
// grounded on ForwardPathIntegrator.hpp's Strategy enum. Both is unused by
// the source itself (no case in RenderPixel's switch) and is kept out here
// since nothing would exercise it.
type Strategy int

const (
	StrategyBSDF Strategy = iota
	StrategyLight
	StrategyMIS
	StrategyMeasure
)

// ForwardPathIntegrator traces camera-started paths, shading each vertex by
// BSDF sampling, direct light sampling, or both combined via MIS.
type ForwardPathIntegrator struct {
	Camera      *camera.Camera
	TileSize    [2]int
	WorkerCount int
	XSamples    int
	YSamples    int
	MaxVertices int
	Strategy    Strategy
}

// Render implements Integrator.
func (fp *ForwardPathIntegrator) Render(ctx context.Context, f *film.Film, sc *scene.Scene, seedSampler sampler.Sampler, scissorMin, scissorMax [2]int) {
	imageSize := [2]int{f.Width(), f.Height()}
	runTiles(ctx, fp.TileSize, imageSize, scissorMin, scissorMax, fp.WorkerCount, seedSampler,
		func(x, y int, samp sampler.Sampler, a *material.Arena) {
			samp.BeginPixel(fp.XSamples, fp.YSamples, fp.MaxVertices-1, 2+(fp.MaxVertices-1))
			for k := 0; k < fp.XSamples*fp.YSamples; k++ {
				samp.BeginSample()

				var value core.Vec3
				if fp.Strategy != StrategyMeasure {
					ray := fp.Camera.GenerateRay(f.Width(), f.Height(), x, y, samp.Get2D(), samp.Get2D())
					switch fp.Strategy {
					case StrategyBSDF:
						value = fp.bsdfStrategy(ray, sc, samp, a)
					case StrategyLight:
						value = fp.lightStrategy(ray, sc, samp, a)
					case StrategyMIS:
						value = fp.misStrategy(ray, sc, samp, a)
					}
				} else {
					value = fp.measure(x, y, f.Width(), f.Height(), sc, samp, a)
				}
				f.AddSample(x, y, value)
				f.AddLightSampleCount(1)

				samp.EndSample()
				a.Reset()
			}
			samp.EndPixel()
		})
}

func (fp *ForwardPathIntegrator) bsdfStrategy(ray core.Ray, sc *scene.Scene, samp sampler.Sampler, a *material.Arena) core.Vec3 {
	L := core.Vec3{}
	if fp.MaxVertices == 1 {
		return L
	}

	p1, ok := sc.Raycast(ray, math.Inf(1))
	w01 := ray.Direction
	if !ok {
		return L
	}
	if p1.Entity.Light != nil {
		L = L.Add(p1.Entity.Light.EmittedRadiance(p1.Hit, w01.Negate()))
	}

	beta := core.NewVec3(1, 1, 1)
	for i := 3; i <= fp.MaxVertices; i++ {
		bsdf := p1.Entity.Material.ComputeBSDF(p1.Hit, incidentIOR, a)

		w12, f012, pdfW12, _, sampled := bsdf.Sample(w01.Negate(), samp.Get1D(), samp.Get2D())
		if !sampled || pdfW12 == 0 || f012.IsZero() {
			break
		}

		beta = beta.MultiplyVec(f012).Multiply(p1.ShadingNormal.AbsDot(w12) / pdfW12)

		p2, ok := sc.RaycastFrom(p1, w12)
		if !ok {
			break
		}

		if p2.Entity.Light != nil {
			L = L.Add(beta.MultiplyVec(p2.Entity.Light.EmittedRadiance(p2.Hit, w12.Negate())))
		}

		p1, w01 = p2, w12
	}

	return L
}

func (fp *ForwardPathIntegrator) lightStrategy(ray core.Ray, sc *scene.Scene, samp sampler.Sampler, a *material.Arena) core.Vec3 {
	L := core.Vec3{}
	if fp.MaxVertices == 1 {
		return L
	}

	p1, ok := sc.Raycast(ray, math.Inf(1))
	w01 := ray.Direction
	if !ok {
		return L
	}
	if p1.Entity.Light != nil {
		L = L.Add(p1.Entity.Light.EmittedRadiance(p1.Hit, w01.Negate()))
	}
	if fp.MaxVertices == 2 {
		return L
	}

	beta := core.NewVec3(1, 1, 1)
	bsdf := p1.Entity.Material.ComputeBSDF(p1.Hit, incidentIOR, a)
	L = L.Add(fp.directLighting(p1, bsdf, w01.Negate(), beta, sc, samp))

	for i := 3; i < fp.MaxVertices; i++ {
		w12, f012, pdfW12, _, sampled := bsdf.Sample(w01.Negate(), samp.Get1D(), samp.Get2D())
		if !sampled || pdfW12 == 0 || f012.IsZero() {
			break
		}

		beta = beta.MultiplyVec(f012).Multiply(p1.ShadingNormal.AbsDot(w12) / pdfW12)

		p2, ok := sc.RaycastFrom(p1, w12)
		if !ok {
			break
		}

		bsdf = p2.Entity.Material.ComputeBSDF(p2.Hit, incidentIOR, a)
		L = L.Add(fp.directLighting(p2, bsdf, w12.Negate(), beta, sc, samp))

		p1, w01 = p2, w12
	}

	return L
}

func (fp *ForwardPathIntegrator) directLighting(p1 scene.SurfacePoint, b *bsdf.BSDF, w10 core.Vec3, beta core.Vec3, sc *scene.Scene, samp sampler.Sampler) core.Vec3 {
	lights := sc.Lights()
	if len(lights) == 0 {
		return core.Vec3{}
	}
	lightIdx := pickUniform(samp.Get1D(), len(lights))
	lightEntity := lights[lightIdx]

	hit, pdfP2 := lightEntity.Light.SamplePoint(samp.Get2D())
	p2 := scene.SurfacePoint{Hit: hit, Entity: lightEntity}
	w12 := p2.Point.Subtract(p1.Point).Normalize()
	radiance := lightEntity.Light.EmittedRadiance(hit, w12.Negate())
	pdfP2 /= float64(len(lights))
	if radiance.IsZero() {
		return core.Vec3{}
	}
	if !sc.Visibility(p1, p2) {
		return core.Vec3{}
	}

	f012 := b.Evaluate(w10, w12)
	if f012.IsZero() {
		return core.Vec3{}
	}

	return beta.MultiplyVec(f012).Multiply(gsTerm(p1, p2, w12) / pdfP2).MultiplyVec(radiance)
}

func (fp *ForwardPathIntegrator) misStrategy(ray core.Ray, sc *scene.Scene, samp sampler.Sampler, a *material.Arena) core.Vec3 {
	L := core.Vec3{}
	if fp.MaxVertices == 1 {
		return L
	}

	p1, ok := sc.Raycast(ray, math.Inf(1))
	w01 := ray.Direction
	if !ok {
		return L
	}
	if p1.Entity.Light != nil {
		L = L.Add(p1.Entity.Light.EmittedRadiance(p1.Hit, w01.Negate()))
	}
	if fp.MaxVertices == 2 {
		return L
	}

	beta := core.NewVec3(1, 1, 1)
	lights := sc.Lights()

	for i := 2; i < fp.MaxVertices; i++ {
		bsdf := p1.Entity.Material.ComputeBSDF(p1.Hit, incidentIOR, a)

		w12, f012, pdfW12, delta, sampled := bsdf.Sample(w01.Negate(), samp.Get1D(), samp.Get2D())
		if !sampled || pdfW12 == 0 || f012.IsZero() {
			break
		}
		cos12 := p1.ShadingNormal.AbsDot(w12)

		p2, hitNext := sc.RaycastFrom(p1, w12)

		if delta {
			if hitNext && p2.Entity.Light != nil {
				Le := p2.Entity.Light.EmittedRadiance(p2.Hit, w12.Negate())
				L = L.Add(beta.MultiplyVec(f012).MultiplyVec(Le).Multiply(cos12 / pdfW12))
			}
		} else {
			if hitNext && p2.Entity.Light != nil && len(lights) > 0 {
				v2 := beta.MultiplyVec(f012).MultiplyVec(p2.Entity.Light.EmittedRadiance(p2.Hit, w12.Negate())).Multiply(cos12 / pdfW12)
				pdfP2L := p2.Entity.Light.ProbabilityPoint(p2.Hit) / float64(len(lights))
				x := pdfP2L * p2.Point.Subtract(p1.Point).LengthSquared() / (pdfW12 * p2.GeometricNormal.AbsDot(w12))
				weight := 1.0 / (1.0 + x)
				L = L.Add(v2.Multiply(weight))
			}

			if len(lights) > 0 {
				lightIdx := pickUniform(samp.Get1D(), len(lights))
				lightEntity := lights[lightIdx]
				hit, pdfPL := lightEntity.Light.SamplePoint(samp.Get2D())
				pL := scene.SurfacePoint{Hit: hit, Entity: lightEntity}
				w1L := pL.Point.Subtract(p1.Point).Normalize()
				rL := lightEntity.Light.EmittedRadiance(hit, w1L.Negate())
				pdfPL /= float64(len(lights))

				if !rL.IsZero() && sc.Visibility(p1, pL) {
					f01L := bsdf.Evaluate(w01.Negate(), w1L)
					if !f01L.IsZero() {
						vL := beta.MultiplyVec(f01L).Multiply(gsTerm(p1, pL, w1L) / pdfPL).MultiplyVec(rL)
						pdfW1L := bsdf.PDF(w01.Negate(), w1L)
						x := pdfW1L * pL.GeometricNormal.AbsDot(w1L) / (pdfPL * pL.Point.Subtract(p1.Point).LengthSquared())
						weight := 1.0 / (1.0 + x)
						L = L.Add(vL.Multiply(weight))
					}
				}
			}
		}

		if !hitNext {
			break
		}

		beta = beta.MultiplyVec(f012).Multiply(cos12 / pdfW12)
		p1, w01 = p2, w12
	}

	return L
}

func (fp *ForwardPathIntegrator) measure(x, y, width, height int, sc *scene.Scene, samp sampler.Sampler, a *material.Arena) core.Vec3 {
	if fp.MaxVertices == 1 {
		return core.Vec3{}
	}

	importance, p0Pos, p0Normal, pdfP0, w01, pdfW01 := fp.Camera.SamplePointAndDirection(width, height, x, y, samp.Get2D(), samp.Get2D())
	beta := core.NewVec3(1.0/pdfP0, 1.0/pdfP0, 1.0/pdfP0)

	ray := core.Ray{Origin: p0Pos, Direction: w01}
	p1, ok := sc.Raycast(ray, math.Inf(1))
	if !ok {
		return core.Vec3{}
	}

	beta = beta.MultiplyVec(importance).Multiply(p0Normal.AbsDot(w01) / pdfW01)

	I := core.Vec3{}
	if p1.Entity.Light != nil {
		I = I.Add(beta.MultiplyVec(p1.Entity.Light.EmittedRadiance(p1.Hit, w01.Negate())))
	}

	for i := 2; i < fp.MaxVertices; i++ {
		bsdf := p1.Entity.Material.ComputeBSDF(p1.Hit, incidentIOR, a)

		w12, f012, pdfW12, _, sampled := bsdf.Sample(w01.Negate(), samp.Get1D(), samp.Get2D())
		if !sampled || pdfW12 == 0 || f012.IsZero() {
			break
		}

		beta = beta.MultiplyVec(f012).Multiply(p1.GeometricNormal.AbsDot(w12) / pdfW12)

		p2, ok := sc.RaycastFrom(p1, w12)
		if !ok {
			break
		}
		if p2.Entity.Light != nil {
			I = I.Add(beta.MultiplyVec(p2.Entity.Light.EmittedRadiance(p2.Hit, w12.Negate())))
		}

		p1, w01 = p2, w12
	}

	return I
}
