// Package film implements the pixel accumulator of spec 4.G, grounded on
// original_source/Image.hpp: two parallel per-pixel buffers, one owned
// exclusively by the tile that renders it (camera-subpath samples, no
// synchronization needed), one written by any worker at any time
// (light-subpath splats from light-tracing and bidirectional connections,
// needing atomic accumulation).
package film

import (
	"math"
	"sync/atomic"

	"github.com/arclight-render/arclight/pkg/core"
)

type cameraPixel struct {
	sum   core.Vec3
	count int
}

// splatPixel accumulates light-subpath contributions with an atomic
// fetch-add-compare-exchange loop per channel, grounded on Image.hpp's
// std::atomic<double> compare_exchange_weak loop; Go has no atomic float64,
// so each channel is a bit-cast atomic.Uint64 CAS loop instead.
type splatPixel struct {
	sumR, sumG, sumB atomic.Uint64
}

func (p *splatPixel) add(v core.Vec3) {
	addFloat(&p.sumR, v.X)
	addFloat(&p.sumG, v.Y)
	addFloat(&p.sumB, v.Z)
}

func addFloat(a *atomic.Uint64, delta float64) {
	for {
		old := a.Load()
		next := math.Float64bits(math.Float64frombits(old) + delta)
		if a.CompareAndSwap(old, next) {
			return
		}
	}
}

func (p *splatPixel) load() core.Vec3 {
	return core.NewVec3(
		math.Float64frombits(p.sumR.Load()),
		math.Float64frombits(p.sumG.Load()),
		math.Float64frombits(p.sumB.Load()),
	)
}

// Film accumulates camera-subpath and light-subpath samples for an image
// of the given resolution and exports to PPM (sRGB-encoded, 8-bit) or
// Raw32 (linear, f32 per channel).
type Film struct {
	width, height int
	camera        []cameraPixel
	splat         []splatPixel
	lightSamples  atomic.Uint64
}

func New(width, height int) *Film {
	return &Film{
		width:  width,
		height: height,
		camera: make([]cameraPixel, width*height),
		splat:  make([]splatPixel, width*height),
	}
}

func (f *Film) Width() int  { return f.width }
func (f *Film) Height() int { return f.height }

func (f *Film) index(x, y int) int { return y*f.width + x }

// AddSample accumulates a camera-subpath sample into pixel (x,y). Callers
// must guarantee single-writer-per-pixel (tile ownership), matching
// Image.hpp's unsynchronized AddSample.
func (f *Film) AddSample(x, y int, value core.Vec3) {
	p := &f.camera[f.index(x, y)]
	p.sum = p.sum.Add(value)
	p.count++
}

// AddLightSample atomically accumulates a light-subpath splat into pixel
// (x,y); any worker may target any pixel.
func (f *Film) AddLightSample(x, y int, value core.Vec3) {
	f.splat[f.index(x, y)].add(value)
}

// AddLightSampleCount atomically increments the global count of attempted
// light samples, the denominator used to normalize the light image.
func (f *Film) AddLightSampleCount(n uint64) {
	f.lightSamples.Add(n)
}

// Pixel returns the combined (camera + normalized light splat) linear
// color at (x,y).
func (f *Film) Pixel(x, y int) core.Vec3 {
	idx := f.index(x, y)
	c := core.Vec3{}

	p := f.camera[idx]
	if p.count > 0 {
		c = c.Add(p.sum.Multiply(1.0 / float64(p.count)))
	}

	if n := f.lightSamples.Load(); n > 0 {
		splat := f.splat[idx].load()
		c = c.Add(splat.Multiply(1.0 / float64(n)))
	}

	return c
}
