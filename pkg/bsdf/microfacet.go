package bsdf

import (
	"math"

	"github.com/arclight-render/arclight/pkg/core"
)

// TrowbridgeReitzDistribution is the GGX microfacet normal distribution
// with independent alphaX/alphaY roughness for anisotropy.
type TrowbridgeReitzDistribution struct {
	AlphaX, AlphaY float64
}

func RoughnessToAlpha(roughness float64) float64 {
	roughness = math.Max(roughness, 1e-3)
	x := math.Log(roughness)
	return 1.62142 + 0.819955*x + 0.1734*x*x + 0.0171201*x*x*x + 0.000640711*x*x*x*x
}

// D evaluates the microfacet normal distribution at the local-frame half
// vector wh.
func (d TrowbridgeReitzDistribution) D(wh core.Vec3) float64 {
	tan2Theta := tan2Theta(wh)
	if math.IsInf(tan2Theta, 1) {
		return 0
	}
	cos4Theta := cos2Theta(wh) * cos2Theta(wh)
	if cos4Theta < 1e-16 {
		return 0
	}

	phi := math.Atan2(wh.Y, wh.X)
	cosPhi, sinPhi := math.Cos(phi), math.Sin(phi)

	e := tan2Theta * ((cosPhi*cosPhi)/(d.AlphaX*d.AlphaX) + (sinPhi*sinPhi)/(d.AlphaY*d.AlphaY))
	denom := math.Pi * d.AlphaX * d.AlphaY * cos4Theta * (1 + e) * (1 + e)
	if denom <= 0 {
		return 0
	}
	return 1.0 / denom
}

// Lambda is the smith masking-shadowing auxiliary function.
func (d TrowbridgeReitzDistribution) Lambda(w core.Vec3) float64 {
	absTanTheta := math.Abs(tanTheta(w))
	if math.IsInf(absTanTheta, 1) {
		return 0
	}
	phi := math.Atan2(w.Y, w.X)
	cosPhi, sinPhi := math.Cos(phi), math.Sin(phi)
	alpha := math.Sqrt(cosPhi*cosPhi*d.AlphaX*d.AlphaX + sinPhi*sinPhi*d.AlphaY*d.AlphaY)
	a2Tan2Theta := (alpha * absTanTheta) * (alpha * absTanTheta)
	return (-1 + math.Sqrt(1+a2Tan2Theta)) / 2
}

// G is the Smith-joint masking-shadowing term, G = 1/(1+Lambda(wi)+Lambda(wo)).
func (d TrowbridgeReitzDistribution) G(wo, wi core.Vec3) float64 {
	return 1.0 / (1 + d.Lambda(wo) + d.Lambda(wi))
}

// SampleWh draws a half vector from the distribution (classic, non-visible
// normal sampling, matching the catalog note that sampling draws a half
// vector rather than importance-sampling the visible normal distribution).
func (d TrowbridgeReitzDistribution) SampleWh(u core.Vec2) core.Vec3 {
	var cosTheta, phi float64
	if d.AlphaX == d.AlphaY {
		tanTheta2 := d.AlphaX * d.AlphaX * u.X / (1 - u.X)
		cosTheta = 1.0 / math.Sqrt(1+tanTheta2)
		phi = 2 * math.Pi * u.Y
	} else {
		phi = math.Atan(d.AlphaY/d.AlphaX*math.Tan(2*math.Pi*u.Y+0.5*math.Pi))
		if u.Y > 0.5 {
			phi += math.Pi
		}
		sinPhi, cosPhi := math.Sin(phi), math.Cos(phi)
		alpha2 := 1.0 / (cosPhi*cosPhi/(d.AlphaX*d.AlphaX) + sinPhi*sinPhi/(d.AlphaY*d.AlphaY))
		tanTheta2 := alpha2 * u.X / (1 - u.X)
		cosTheta = 1.0 / math.Sqrt(1+tanTheta2)
	}
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	return core.NewVec3(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), cosTheta)
}

// PDF returns the pdf of a half vector under SampleWh.
func (d TrowbridgeReitzDistribution) PDF(wh core.Vec3) float64 {
	return d.D(wh) * AbsCosTheta(wh)
}

func cos2Theta(w core.Vec3) float64 { return w.Z * w.Z }
func sin2Theta(w core.Vec3) float64 { return math.Max(0, 1-cos2Theta(w)) }
func tan2Theta(w core.Vec3) float64 { return sin2Theta(w) / cos2Theta(w) }
func tanTheta(w core.Vec3) float64  { return math.Sqrt(sin2Theta(w)) / w.Z }

// MicrofacetReflection is the GGX/Trowbridge-Reitz microfacet reflection
// lobe: f = D*G*F / (4*cosI*cosO).
type MicrofacetReflection struct {
	R       core.Vec3
	Dist    TrowbridgeReitzDistribution
	Fresnel Fresnel
}

func (m MicrofacetReflection) Flags() Flags { return Reflection | Diffuse }

func (m MicrofacetReflection) Evaluate(wo, wi core.Vec3) core.Vec3 {
	cosThetaO, cosThetaI := AbsCosTheta(wo), AbsCosTheta(wi)
	wh := wi.Add(wo)
	if cosThetaI == 0 || cosThetaO == 0 || wh.IsZero() {
		return core.Vec3{}
	}
	wh = wh.Normalize()
	if wh.Z < 0 {
		wh = wh.Negate()
	}

	f := m.Fresnel.Evaluate(wi.Dot(wh))
	d := m.Dist.D(wh)
	g := m.Dist.G(wo, wi)

	return m.R.MultiplyVec(f).Multiply(d * g / (4 * cosThetaI * cosThetaO))
}

func (m MicrofacetReflection) Sample(wo core.Vec3, u core.Vec2) (core.Vec3, core.Vec3, float64, bool) {
	if wo.Z == 0 {
		return core.Vec3{}, core.Vec3{}, 0, false
	}

	wh := m.Dist.SampleWh(u)
	if wo.Dot(wh) < 0 {
		wh = wh.Negate()
	}

	wi := wh.Multiply(2 * wo.Dot(wh)).Subtract(wo)
	if !SameHemisphere(wo, wi) {
		return wi, core.Vec3{}, 0, false
	}

	pdf := m.Dist.PDF(wh) / (4 * wo.Dot(wh))
	return wi, m.Evaluate(wo, wi), pdf, false
}

func (m MicrofacetReflection) PDF(wo, wi core.Vec3) float64 {
	if !SameHemisphere(wo, wi) {
		return 0
	}
	wh := wi.Add(wo)
	if wh.IsZero() {
		return 0
	}
	wh = wh.Normalize()
	if wh.Z < 0 {
		wh = wh.Negate()
	}
	return m.Dist.PDF(wh) / (4 * wo.Dot(wh))
}
