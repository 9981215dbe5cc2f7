package bsdf

import "github.com/arclight-render/arclight/pkg/core"

// MaxLobes is the maximum number of BxDF lobes a BSDF may hold (spec 3:
// "a bounded collection (<=4) of BxDF lobes").
const MaxLobes = 4

// BSDF is a bounded collection of BxDF lobes sharing one shading frame.
// Lobes are added only during construction (via Add, typically right after
// NewBSDF from the worker's arena.Pool[BSDF]); evaluation and sampling treat
// it as immutable afterward.
type BSDF struct {
	frame           Frame
	geometricNormal core.Vec3
	shadingNormal   core.Vec3
	lobes           [MaxLobes]BxDF
	numLobes        int
}

// NewBSDF builds a BSDF for a shading point with the given geometric
// normal, shading normal, and shading tangent. The (tangent, normal,
// bitangent) basis built here is orthonormal and right-handed, matching
// SurfacePoint's invariant.
func NewBSDF(geometricNormal, shadingNormal, shadingTangent core.Vec3) *BSDF {
	b := &BSDF{}
	b.Init(geometricNormal, shadingNormal, shadingTangent)
	return b
}

// Init (re)initializes a BSDF in place, clearing any previously added
// lobes. Used by callers that bump-allocate a *BSDF from a pool and need
// to reinitialize it rather than allocate a fresh one.
func (b *BSDF) Init(geometricNormal, shadingNormal, shadingTangent core.Vec3) {
	b.frame = FrameFromXZ(shadingTangent, shadingNormal)
	b.geometricNormal = geometricNormal
	b.shadingNormal = shadingNormal
	b.numLobes = 0
}

// Add appends a lobe. Panics if called more than MaxLobes times per BSDF,
// since the source's own lobe catalog never composes more than four.
func (b *BSDF) Add(lobe BxDF) {
	if b.numLobes >= MaxLobes {
		panic("bsdf: too many lobes")
	}
	b.lobes[b.numLobes] = lobe
	b.numLobes++
}

// NumLobes returns how many lobes are active.
func (b *BSDF) NumLobes() int { return b.numLobes }

// IsSpecular reports whether every active lobe is a delta lobe.
func (b *BSDF) IsSpecular() bool {
	for i := 0; i < b.numLobes; i++ {
		if b.lobes[i].Flags()&Specular == 0 {
			return false
		}
	}
	return b.numLobes > 0
}

func (b *BSDF) reflectConfig(woWorld, wiWorld core.Vec3) bool {
	return wiWorld.Dot(b.geometricNormal)*woWorld.Dot(b.geometricNormal) > 0
}

// Evaluate sums every lobe compatible with the reflect/transmit
// configuration implied by the *geometric* normal, in world space.
func (b *BSDF) Evaluate(woWorld, wiWorld core.Vec3) core.Vec3 {
	wo := b.frame.ToLocal(woWorld)
	wi := b.frame.ToLocal(wiWorld)
	if wo.Z == 0 {
		return core.Vec3{}
	}

	reflect := b.reflectConfig(woWorld, wiWorld)
	sum := core.Vec3{}
	for i := 0; i < b.numLobes; i++ {
		if matchesConfig(b.lobes[i].Flags(), reflect) {
			sum = sum.Add(b.lobes[i].Evaluate(wo, wi))
		}
	}
	return sum
}

// EvaluateAdjoint is Evaluate with the Veach shading-normal adjoint
// correction applied, required for light-to-eye transport (backward and
// bidirectional light subpaths) per DESIGN.md's Open Question resolution.
func (b *BSDF) EvaluateAdjoint(woWorld, wiWorld core.Vec3) core.Vec3 {
	f := b.Evaluate(woWorld, wiWorld)
	if f.IsZero() {
		return f
	}
	cosNsWo := b.shadingNormal.AbsDot(woWorld)
	cosNgWo := b.geometricNormal.AbsDot(woWorld)
	if cosNgWo == 0 {
		return core.Vec3{}
	}
	return f.Multiply(cosNsWo / cosNgWo)
}

// PDF averages the pdfs of lobes compatible with the reflect/transmit
// configuration.
func (b *BSDF) PDF(woWorld, wiWorld core.Vec3) float64 {
	wo := b.frame.ToLocal(woWorld)
	wi := b.frame.ToLocal(wiWorld)
	if wo.Z == 0 || b.numLobes == 0 {
		return 0
	}

	reflect := b.reflectConfig(woWorld, wiWorld)
	sum := 0.0
	n := 0
	for i := 0; i < b.numLobes; i++ {
		if matchesConfig(b.lobes[i].Flags(), reflect) {
			sum += b.lobes[i].PDF(wo, wi)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Sample picks a lobe uniformly at random (uLobe selects the index),
// samples it for wi, and returns the one-sample-MIS pdf: the chosen lobe's
// pdf divided by the lobe count plus the other lobes' pdfs at the same
// (wo,wi), also divided by the lobe count. Delta lobes skip the one-sample
// MIS combination since only one lobe could ever have produced that
// direction.
func (b *BSDF) Sample(woWorld core.Vec3, uLobe float64, u2 core.Vec2) (wiWorld core.Vec3, f core.Vec3, pdf float64, delta bool, ok bool) {
	if b.numLobes == 0 {
		return core.Vec3{}, core.Vec3{}, 0, false, false
	}

	wo := b.frame.ToLocal(woWorld)
	if wo.Z == 0 {
		return core.Vec3{}, core.Vec3{}, 0, false, false
	}

	idx := int(uLobe * float64(b.numLobes))
	if idx >= b.numLobes {
		idx = b.numLobes - 1
	}
	chosen := b.lobes[idx]

	wi, fLocal, pdfLocal, isDelta := chosen.Sample(wo, u2)
	if pdfLocal == 0 {
		return core.Vec3{}, core.Vec3{}, 0, false, false
	}

	wiWorld = b.frame.FromLocal(wi)

	if isDelta || b.numLobes == 1 {
		return wiWorld, fLocal, pdfLocal / float64(b.numLobes), isDelta, true
	}

	reflect := wi.Z*wo.Z > 0
	fSum := core.Vec3{}
	pdfSum := 0.0
	for i := 0; i < b.numLobes; i++ {
		if !matchesConfig(b.lobes[i].Flags(), reflect) {
			continue
		}
		fSum = fSum.Add(b.lobes[i].Evaluate(wo, wi))
		pdfSum += b.lobes[i].PDF(wo, wi)
	}

	return wiWorld, fSum, pdfSum / float64(b.numLobes), false, true
}
