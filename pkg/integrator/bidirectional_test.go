package integrator

import (
	"context"
	"math"
	"testing"

	"github.com/arclight-render/arclight/pkg/film"
	"github.com/arclight-render/arclight/pkg/sampler"
)

func TestBidirectionalPathIntegratorProducesFiniteImage(t *testing.T) {
	sc := testScene()
	f := film.New(8, 8)
	bd := &BidirectionalPathIntegrator{
		Camera:      testCamera(),
		TileSize:    [2]int{4, 4},
		WorkerCount: 2,
		XSamples:    2,
		YSamples:    2,
		MaxVertices: 4,
	}
	bd.Render(context.Background(), f, sc, sampler.NewRandomSampler(1), [2]int{0, 0}, [2]int{f.Width(), f.Height()})
	assertFiniteFilm(t, f, "bidirectional")
}

func TestBidirectionalPathIntegratorMaxVerticesTwo(t *testing.T) {
	sc := testScene()
	f := film.New(4, 4)
	bd := &BidirectionalPathIntegrator{
		Camera:      testCamera(),
		TileSize:    [2]int{4, 4},
		WorkerCount: 1,
		XSamples:    1,
		YSamples:    1,
		MaxVertices: 2,
	}
	bd.Render(context.Background(), f, sc, sampler.NewRandomSampler(1), [2]int{0, 0}, [2]int{4, 4})
	assertFiniteFilm(t, f, "bidirectional maxVertices=2")
}

func TestWeightSumsToOneAcrossBalancedStrategies(t *testing.T) {
	bd := &BidirectionalPathIntegrator{MaxVertices: 4}

	tVertices := make([]vertex, 3)
	sVertices := make([]vertex, 3)
	for i := range tVertices {
		tVertices[i] = vertex{pdfPForward: 1, pdfPBackward: 1}
		sVertices[i] = vertex{pdfPForward: 1, pdfPBackward: 1}
	}

	w := bd.weight(tVertices, 2, sVertices, 0)
	if w <= 0 || w > 1 {
		t.Fatalf("expected weight in (0,1], got %v", w)
	}

	// (2,0) and (1,1) are the two strategies for a two-vertex path; with
	// every pdf equal their weights sum to one.
	if sum := w + bd.weight(tVertices, 1, sVertices, 1); math.Abs(sum-1) > 1e-9 {
		t.Fatalf("expected (2,0) and (1,1) weights to sum to 1, got %v", sum)
	}
}
