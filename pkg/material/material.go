// Package material implements the BSDF-producing material kinds of spec
// 4.C, grounded on original_source/Materials/{IMaterial,DiffuseMaterial,
// GlassMaterial,TransparentMaterial}.hpp, generalized with metal and
// plastic kinds per SPEC_FULL 2.3's supplemented-feature list, following
// the teacher's pkg/material package naming (lambertian.go, dielectric.go,
// metal.go) even though the BSDF machinery itself is new.
package material

import (
	"github.com/arclight-render/arclight/pkg/bsdf"
	"github.com/arclight-render/arclight/pkg/shape"
)

// Material produces a shading-point BSDF from a geometric hit. incidentIOR
// is the ior of the medium the ray arrives from (1.0 for vacuum/air,
// matching original_source/SurfacePoint.hpp's default), used by dielectric
// lobes to pick the correct eta ratio on entry vs. exit.
type Material interface {
	ComputeBSDF(hit shape.Hit, incidentIOR float64, a *Arena) *bsdf.BSDF
}

func newBSDF(a *Arena, hit shape.Hit) *bsdf.BSDF {
	b := a.bsdfs.New()
	b.Init(hit.GeometricNormal, hit.ShadingNormal, hit.ShadingTangent)
	return b
}
