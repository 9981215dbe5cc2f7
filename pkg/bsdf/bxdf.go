// Package bsdf implements the local-shading-frame BxDF lobe catalog and the
// BSDF composite that combines up to four of them, grounded on
// original_source/BxDF.hpp. Every lobe operates in a frame where the
// shading normal is +Z; wo and wi both point away from the surface.
package bsdf

import "github.com/arclight-render/arclight/pkg/core"

// Flags tags a lobe's scattering capability, mirroring the closed
// BxDFFlags bitmask from the source.
type Flags uint8

const (
	Reflection Flags = 1 << iota
	Transmission
	Diffuse
	Specular
)

// BxDF is one term of a BSDF, evaluated and sampled entirely in local
// shading space.
type BxDF interface {
	Flags() Flags
	// Evaluate returns f(wo, wi) in local frame; zero for specular lobes.
	Evaluate(wo, wi core.Vec3) core.Vec3
	// Sample importance-samples wi given wo and a 2D random sample,
	// returning f, pdf, and whether the lobe is a delta distribution.
	Sample(wo core.Vec3, u core.Vec2) (wi core.Vec3, f core.Vec3, pdf float64, delta bool)
	// PDF returns the pdf of sampling wi given wo; zero for specular lobes.
	PDF(wo, wi core.Vec3) float64
}

func isReflect(flags Flags) bool    { return flags&Reflection != 0 }
func isTransmit(flags Flags) bool   { return flags&Transmission != 0 }
func isSpecular(flags Flags) bool   { return flags&Specular != 0 }
func matchesConfig(flags Flags, reflect bool) bool {
	if reflect {
		return isReflect(flags)
	}
	return isTransmit(flags)
}
