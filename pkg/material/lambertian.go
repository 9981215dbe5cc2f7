package material

import (
	"github.com/arclight-render/arclight/pkg/bsdf"
	"github.com/arclight-render/arclight/pkg/shape"
	"github.com/arclight-render/arclight/pkg/texture"
)

// Diffuse is a pure Lambertian material, grounded on
// original_source/Materials/DiffuseMaterial.hpp (the commented-out normal
// map branch there is not implemented here; the textured normal slot was
// never exercised in the source's own scenes).
type Diffuse struct {
	Reflectance texture.Texture
}

func NewDiffuse(reflectance texture.Texture) *Diffuse {
	return &Diffuse{Reflectance: reflectance}
}

func (d *Diffuse) ComputeBSDF(hit shape.Hit, incidentIOR float64, a *Arena) *bsdf.BSDF {
	b := newBSDF(a, hit)
	lobe := a.lambertian.New()
	*lobe = bsdf.LambertianReflection{R: d.Reflectance.Evaluate(hit)}
	b.Add(lobe)
	return b
}
