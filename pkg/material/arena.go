package material

import (
	"github.com/arclight-render/arclight/pkg/arena"
	"github.com/arclight-render/arclight/pkg/bsdf"
)

// Arena bundles one arena.Pool per concrete lobe/BSDF type a Material can
// construct, so a render worker allocates one Arena and calls Reset()
// between samples instead of letting each shaded point's BSDF and lobes
// escape to the heap individually. Grounded on
// original_source/MemoryAllocator.hpp's per-sample allocator role; see
// pkg/arena's doc comment for why this is a typed bundle rather than a
// single untyped byte arena.
type Arena struct {
	bsdfs        arena.Pool[bsdf.BSDF]
	lambertian   arena.Pool[bsdf.LambertianReflection]
	specReflect  arena.Pool[bsdf.SpecularReflection]
	specTransmit arena.Pool[bsdf.SpecularTransmission]
	fresnelSpec  arena.Pool[bsdf.FresnelSpecular]
	microfacet   arena.Pool[bsdf.MicrofacetReflection]
	dielectric   arena.Pool[bsdf.FresnelDielectric]
	schlick      arena.Pool[bsdf.FresnelSchlick]
}

// Reset invalidates every object handed out since the last Reset,
// recycling all backing storage.
func (a *Arena) Reset() {
	a.bsdfs.Clear()
	a.lambertian.Clear()
	a.specReflect.Clear()
	a.specTransmit.Clear()
	a.fresnelSpec.Clear()
	a.microfacet.Clear()
	a.dielectric.Clear()
	a.schlick.Clear()
}
