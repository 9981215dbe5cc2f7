package material

import (
	"github.com/arclight-render/arclight/pkg/bsdf"
	"github.com/arclight-render/arclight/pkg/core"
	"github.com/arclight-render/arclight/pkg/shape"
)

// Glass is a smooth dielectric that both reflects and refracts, grounded on
// original_source/Materials/GlassMaterial.hpp. A single FresnelSpecular lobe
// picks reflection vs. transmission per-sample by Fresnel probability
// rather than splitting into two lobes, matching the source's one-sample
// glass BSDF.
type Glass struct {
	IOR          float64
	Reflectance  core.Vec3
	Transmission core.Vec3
}

func NewGlass(ior float64) *Glass {
	return &Glass{IOR: ior, Reflectance: core.NewVec3(1, 1, 1), Transmission: core.NewVec3(1, 1, 1)}
}

func (g *Glass) ComputeBSDF(hit shape.Hit, incidentIOR float64, a *Arena) *bsdf.BSDF {
	b := newBSDF(a, hit)
	lobe := a.fresnelSpec.New()
	*lobe = bsdf.FresnelSpecular{
		R:    g.Reflectance,
		T:    g.Transmission,
		EtaA: incidentIOR,
		EtaB: g.IOR,
	}
	b.Add(lobe)
	return b
}

// Transparent passes rays straight through with no Fresnel reflection and
// no bending, grounded on original_source/Materials/TransparentMaterial.hpp
// (a FresnelZero-gated transmission lobe). Used for cutout geometry and
// colored glass-like filters that shouldn't bend the view.
type Transparent struct {
	Transmission core.Vec3
}

func NewTransparent(transmission core.Vec3) *Transparent {
	return &Transparent{Transmission: transmission}
}

func (t *Transparent) ComputeBSDF(hit shape.Hit, incidentIOR float64, a *Arena) *bsdf.BSDF {
	b := newBSDF(a, hit)
	lobe := a.specTransmit.New()
	*lobe = bsdf.SpecularTransmission{
		T:    t.Transmission,
		EtaA: incidentIOR,
		EtaB: incidentIOR,
	}
	b.Add(lobe)
	return b
}
