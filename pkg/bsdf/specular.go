package bsdf

import "github.com/arclight-render/arclight/pkg/core"

// SpecularReflection is a delta reflection lobe, f = F(cos_i)*R/|cos_i|.
type SpecularReflection struct {
	R       core.Vec3
	Fresnel Fresnel
}

func (s SpecularReflection) Flags() Flags { return Reflection | Specular }

func (s SpecularReflection) Evaluate(wo, wi core.Vec3) core.Vec3 { return core.Vec3{} }
func (s SpecularReflection) PDF(wo, wi core.Vec3) float64        { return 0 }

func (s SpecularReflection) Sample(wo core.Vec3, u core.Vec2) (core.Vec3, core.Vec3, float64, bool) {
	wi := reflectLocal(wo)
	fr := s.Fresnel.Evaluate(CosTheta(wi))
	f := s.R.MultiplyVec(fr).Multiply(1.0 / AbsCosTheta(wi))
	return wi, f, 1.0, true
}

// SpecularTransmission is a delta transmission lobe handling enter/exit via
// the ior ratio and Snell's law; failed refraction (total internal
// reflection) returns zero contribution so the path terminates at this
// vertex rather than falling back to reflection.
type SpecularTransmission struct {
	T          core.Vec3
	EtaA, EtaB float64 // EtaA = outside (incident) medium, EtaB = inside
}

func (s SpecularTransmission) Flags() Flags { return Transmission | Specular }

func (s SpecularTransmission) Evaluate(wo, wi core.Vec3) core.Vec3 { return core.Vec3{} }
func (s SpecularTransmission) PDF(wo, wi core.Vec3) float64        { return 0 }

func (s SpecularTransmission) Sample(wo core.Vec3, u core.Vec2) (core.Vec3, core.Vec3, float64, bool) {
	entering := CosTheta(wo) > 0
	etaI, etaT := s.EtaA, s.EtaB
	if !entering {
		etaI, etaT = etaT, etaI
	}

	n := core.NewVec3(0, 0, 1)
	if CosTheta(wo) < 0 {
		n = n.Negate()
	}

	wt, ok := refract(wo, n, etaI/etaT)
	if !ok {
		return core.Vec3{}, core.Vec3{}, 0, true
	}

	// Radiance (not importance) compresses by (etaI/etaT)^2 crossing the
	// interface. This scaling is applied on every path, light-traced ones
	// included: there is no transport-mode switch here, and the
	// shading-normal adjoint factor the light-tracing integrators apply does
	// not undo it.
	eta := etaI / etaT
	f := s.T.Multiply(eta * eta / AbsCosTheta(wt))
	return wt, f, 1.0, true
}

// FresnelSpecular (glass) internally picks reflection vs transmission by
// Fresnel probability, giving a single delta lobe that covers both.
type FresnelSpecular struct {
	R, T       core.Vec3
	EtaA, EtaB float64
}

func (s FresnelSpecular) Flags() Flags { return Reflection | Transmission | Specular }

func (s FresnelSpecular) Evaluate(wo, wi core.Vec3) core.Vec3 { return core.Vec3{} }
func (s FresnelSpecular) PDF(wo, wi core.Vec3) float64        { return 0 }

func (s FresnelSpecular) Sample(wo core.Vec3, u core.Vec2) (core.Vec3, core.Vec3, float64, bool) {
	fr := FrDielectric(CosTheta(wo), s.EtaA, s.EtaB)

	if u.X < fr {
		wi := reflectLocal(wo)
		f := s.R.Multiply(fr / AbsCosTheta(wi))
		return wi, f, fr, true
	}

	entering := CosTheta(wo) > 0
	etaI, etaT := s.EtaA, s.EtaB
	if !entering {
		etaI, etaT = etaT, etaI
	}

	n := core.NewVec3(0, 0, 1)
	if CosTheta(wo) < 0 {
		n = n.Negate()
	}

	wt, ok := refract(wo, n, etaI/etaT)
	if !ok {
		// Shouldn't happen since FrDielectric already returned 1 (full
		// internal reflection) in that case, but guard anyway.
		return core.Vec3{}, core.Vec3{}, 0, true
	}

	eta := etaI / etaT
	pdf := 1 - fr
	f := s.T.Multiply(eta * eta * pdf / AbsCosTheta(wt))
	return wt, f, pdf, true
}
