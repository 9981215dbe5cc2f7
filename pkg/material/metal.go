package material

import (
	"github.com/arclight-render/arclight/pkg/bsdf"
	"github.com/arclight-render/arclight/pkg/core"
	"github.com/arclight-render/arclight/pkg/shape"
)

// smoothThreshold is the roughness below which Metal uses a delta
// SpecularReflection lobe instead of the microfacet distribution, since
// TrowbridgeReitzDistribution.D degenerates as alpha approaches zero.
const smoothThreshold = 1e-3

// Metal is a conductor material tinted by Schlick's approximation rather
// than full complex-IOR Fresnel, per SPEC_FULL 2.3's supplemented material
// kinds (no conductor Fresnel table existed in original_source, which only
// modeled dielectrics). Roughness drives a GGX microfacet lobe; a
// near-zero roughness falls back to a perfect mirror lobe.
type Metal struct {
	Tint      core.Vec3
	Roughness float64
}

func NewMetal(tint core.Vec3, roughness float64) *Metal {
	if roughness < 0 {
		roughness = 0
	}
	if roughness > 1 {
		roughness = 1
	}
	return &Metal{Tint: tint, Roughness: roughness}
}

func (m *Metal) ComputeBSDF(hit shape.Hit, incidentIOR float64, a *Arena) *bsdf.BSDF {
	b := newBSDF(a, hit)
	fr := a.schlick.New()
	*fr = bsdf.FresnelSchlick{R0: m.Tint}

	if m.Roughness < smoothThreshold {
		lobe := a.specReflect.New()
		*lobe = bsdf.SpecularReflection{R: core.NewVec3(1, 1, 1), Fresnel: fr}
		b.Add(lobe)
		return b
	}

	alpha := bsdf.RoughnessToAlpha(m.Roughness)
	lobe := a.microfacet.New()
	*lobe = bsdf.MicrofacetReflection{
		R:       core.NewVec3(1, 1, 1),
		Dist:    bsdf.TrowbridgeReitzDistribution{AlphaX: alpha, AlphaY: alpha},
		Fresnel: fr,
	}
	b.Add(lobe)
	return b
}
