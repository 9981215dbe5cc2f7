package bsdf

import (
	"math"

	"github.com/arclight-render/arclight/pkg/core"
)

// Fresnel computes the fraction of light reflected at an interface for a
// given cosine of the incident angle.
type Fresnel interface {
	Evaluate(cosThetaI float64) core.Vec3
}

// FrDielectric evaluates the Fresnel reflectance for an unpolarized wave at
// a dielectric interface, handling the incident side by sign of cosThetaI.
// Property P6 (Fresnel bounds): the return value is always in [0,1].
func FrDielectric(cosThetaI, etaI, etaT float64) float64 {
	cosThetaI = clamp(cosThetaI, -1, 1)

	if cosThetaI < 0 {
		etaI, etaT = etaT, etaI
		cosThetaI = -cosThetaI
	}

	sinThetaI := math.Sqrt(math.Max(0, 1-cosThetaI*cosThetaI))
	sinThetaT := etaI / etaT * sinThetaI
	if sinThetaT >= 1 {
		return 1 // total internal reflection
	}

	cosThetaT := math.Sqrt(math.Max(0, 1-sinThetaT*sinThetaT))

	rParl := ((etaT * cosThetaI) - (etaI * cosThetaT)) / ((etaT * cosThetaI) + (etaI * cosThetaT))
	rPerp := ((etaI * cosThetaI) - (etaT * cosThetaT)) / ((etaI * cosThetaI) + (etaT * cosThetaT))
	return (rParl*rParl + rPerp*rPerp) / 2
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// FresnelDielectric wraps FrDielectric as a Fresnel implementation used by
// specular-reflection lobes of non-conductor materials.
type FresnelDielectric struct {
	EtaI, EtaT float64
}

func (f FresnelDielectric) Evaluate(cosThetaI float64) core.Vec3 {
	r := FrDielectric(cosThetaI, f.EtaI, f.EtaT)
	return core.NewVec3(r, r, r)
}

// FresnelSchlick is Schlick's approximation for conductor (metal) tinting,
// used by the metal material kind instead of full complex-IOR Fresnel
// (SPEC_FULL 2.3): R0 is the tinted normal-incidence reflectance.
type FresnelSchlick struct {
	R0 core.Vec3
}

func (f FresnelSchlick) Evaluate(cosThetaI float64) core.Vec3 {
	c := clamp(math.Abs(cosThetaI), 0, 1)
	m := math.Pow(1-c, 5)
	return core.NewVec3(
		f.R0.X+(1-f.R0.X)*m,
		f.R0.Y+(1-f.R0.Y)*m,
		f.R0.Z+(1-f.R0.Z)*m,
	)
}

// refract computes the refracted direction of wi about a local normal n
// (oriented so dot(n,wi) > 0) given the relative index of refraction eta =
// etaIncident/etaTransmitted. Returns ok=false on total internal reflection.
func refract(wi, n core.Vec3, eta float64) (core.Vec3, bool) {
	cosThetaI := n.Dot(wi)
	sin2ThetaI := math.Max(0, 1-cosThetaI*cosThetaI)
	sin2ThetaT := eta * eta * sin2ThetaI
	if sin2ThetaT >= 1 {
		return core.Vec3{}, false
	}
	cosThetaT := math.Sqrt(1 - sin2ThetaT)
	wt := wi.Multiply(-eta).Add(n.Multiply(eta*cosThetaI - cosThetaT))
	return wt, true
}
