package bsdf

import (
	"math"

	"github.com/arclight-render/arclight/pkg/core"
)

// LambertianReflection is a perfectly diffuse reflection lobe, f = R/pi.
type LambertianReflection struct {
	R core.Vec3
}

func (l LambertianReflection) Flags() Flags { return Reflection | Diffuse }

func (l LambertianReflection) Evaluate(wo, wi core.Vec3) core.Vec3 {
	if !SameHemisphere(wo, wi) {
		return core.Vec3{}
	}
	return l.R.Multiply(1.0 / math.Pi)
}

func (l LambertianReflection) Sample(wo core.Vec3, u core.Vec2) (core.Vec3, core.Vec3, float64, bool) {
	wi, pdf := core.SampleHemisphereCosine(u)
	if wo.Z < 0 {
		wi.Z = -wi.Z
	}
	return wi, l.Evaluate(wo, wi), pdf, false
}

func (l LambertianReflection) PDF(wo, wi core.Vec3) float64 {
	if !SameHemisphere(wo, wi) {
		return 0
	}
	return core.HemisphereCosinePDF(wi.Z)
}
