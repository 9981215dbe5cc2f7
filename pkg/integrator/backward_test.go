package integrator

import (
	"context"
	"testing"

	"github.com/arclight-render/arclight/pkg/film"
	"github.com/arclight-render/arclight/pkg/sampler"
	"github.com/arclight-render/arclight/pkg/scene"
)

func TestBackwardPathIntegratorProducesFiniteImage(t *testing.T) {
	sc := testScene()
	f := film.New(8, 8)
	bp := &BackwardPathIntegrator{
		Camera:      testCamera(),
		SampleCount: 256,
		WorkerCount: 2,
		MaxVertices: 4,
	}
	bp.Render(context.Background(), f, sc, sampler.NewRandomSampler(1), [2]int{0, 0}, [2]int{f.Width(), f.Height()})
	assertFiniteFilm(t, f, "backward path")
}

func TestBackwardPathIntegratorNoLightsIsNoOp(t *testing.T) {
	floor := testScene().Entities()[0]
	sc := scene.New([]*scene.Entity{floor})
	f := film.New(4, 4)
	bp := &BackwardPathIntegrator{
		Camera:      testCamera(),
		SampleCount: 64,
		WorkerCount: 1,
		MaxVertices: 4,
	}
	bp.Render(context.Background(), f, sc, sampler.NewRandomSampler(1), [2]int{0, 0}, [2]int{4, 4})
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if c := f.Pixel(x, y); !c.IsZero() {
				t.Fatalf("expected no splats with zero lights, got %v at (%d,%d)", c, x, y)
			}
		}
	}
}

func TestBackwardPathIntegratorZeroSamplesIsNoOp(t *testing.T) {
	sc := testScene()
	f := film.New(4, 4)
	bp := &BackwardPathIntegrator{
		Camera:      testCamera(),
		SampleCount: 0,
		WorkerCount: 1,
		MaxVertices: 4,
	}
	bp.Render(context.Background(), f, sc, sampler.NewRandomSampler(1), [2]int{0, 0}, [2]int{4, 4})
	assertFiniteFilm(t, f, "zero samples")
}
