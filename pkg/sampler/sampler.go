// Package sampler implements the per-pixel stratified sampling discipline
// described in spec 4.B, grounded on original_source/Sampler.hpp.
package sampler

import "github.com/arclight-render/arclight/pkg/core"

// oneMinusEpsilon is the clamp applied to every returned sample so values
// never reach 1.0 exactly.
const oneMinusEpsilon = 1.0 - 1.0/16777216.0 // 1 - 2^-24

// Sampler supplies per-pixel stratified (or plain random) 1-D and 2-D
// dimensions across a sample grid.
type Sampler interface {
	// Clone returns an independent sampler seeded for a different stream,
	// used to give each render worker its own reproducible sequence.
	Clone(seed uint64) Sampler

	// BeginPixel allocates stratified tables for nx*ny samples across the
	// given number of 1-D and 2-D dimensions.
	BeginPixel(nx, ny, dims1D, dims2D int)
	// BeginSample marks the start of a sample. The stratified sampler's
	// row index (0-based within the pixel's nx*ny grid) starts at 0 in
	// BeginPixel and advances in EndSample.
	BeginSample()

	Get1D() float64
	Get2D() core.Vec2

	EndSample()
	EndPixel()
}
