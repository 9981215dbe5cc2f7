package integrator

import (
	"context"
	"testing"

	"github.com/arclight-render/arclight/pkg/film"
	"github.com/arclight-render/arclight/pkg/sampler"
)

func renderForward(t *testing.T, strategy Strategy) *film.Film {
	t.Helper()
	sc := testScene()
	f := film.New(8, 8)
	fp := &ForwardPathIntegrator{
		Camera:      testCamera(),
		TileSize:    [2]int{4, 4},
		WorkerCount: 2,
		XSamples:    2,
		YSamples:    2,
		MaxVertices: 4,
		Strategy:    strategy,
	}
	fp.Render(context.Background(), f, sc, sampler.NewRandomSampler(1), [2]int{0, 0}, [2]int{f.Width(), f.Height()})
	return f
}

func TestForwardBSDFStrategyProducesFiniteImage(t *testing.T) {
	f := renderForward(t, StrategyBSDF)
	assertFiniteFilm(t, f, "bsdf strategy")
}

func TestForwardLightStrategyProducesFiniteImage(t *testing.T) {
	f := renderForward(t, StrategyLight)
	assertFiniteFilm(t, f, "light strategy")
}

func TestForwardMISStrategyProducesFiniteImage(t *testing.T) {
	f := renderForward(t, StrategyMIS)
	assertFiniteFilm(t, f, "mis strategy")
}

func TestForwardMeasureStrategyProducesFiniteImage(t *testing.T) {
	f := renderForward(t, StrategyMeasure)
	assertFiniteFilm(t, f, "measure strategy")
}

func TestForwardMaxVerticesOneIsBlack(t *testing.T) {
	sc := testScene()
	f := film.New(2, 2)
	fp := &ForwardPathIntegrator{
		Camera:      testCamera(),
		TileSize:    [2]int{2, 2},
		WorkerCount: 1,
		XSamples:    1,
		YSamples:    1,
		MaxVertices: 1,
		Strategy:    StrategyMIS,
	}
	fp.Render(context.Background(), f, sc, sampler.NewRandomSampler(1), [2]int{0, 0}, [2]int{2, 2})
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			c := f.Pixel(x, y)
			if !c.IsZero() {
				t.Fatalf("expected zero radiance at MaxVertices=1, got %v", c)
			}
		}
	}
}

func TestForwardRenderRespectsScissor(t *testing.T) {
	sc := testScene()
	f := film.New(8, 8)
	fp := &ForwardPathIntegrator{
		Camera:      testCamera(),
		TileSize:    [2]int{4, 4},
		WorkerCount: 2,
		XSamples:    1,
		YSamples:    1,
		MaxVertices: 3,
		Strategy:    StrategyBSDF,
	}
	fp.Render(context.Background(), f, sc, sampler.NewRandomSampler(1), [2]int{4, 4}, [2]int{8, 8})
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if f.Pixel(x, y).X != 0 || f.Pixel(x, y).Y != 0 || f.Pixel(x, y).Z != 0 {
				t.Fatalf("pixel (%d,%d) outside scissor rect was written", x, y)
			}
		}
	}
}
