package bsdf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arclight-render/arclight/pkg/core"
)

func TestLambertianReciprocity(t *testing.T) {
	l := LambertianReflection{R: core.NewVec3(0.5, 0.5, 0.5)}
	wo := core.NewVec3(0.2, 0.3, 0.9).Normalize()
	wi := core.NewVec3(-0.1, 0.4, 0.8).Normalize()

	fwd := l.Evaluate(wo, wi)
	rev := l.Evaluate(wi, wo)

	assert.InDelta(t, fwd.X, rev.X, 1e-12)
}

func TestMicrofacetReflectionReciprocity(t *testing.T) {
	m := MicrofacetReflection{
		R:       core.NewVec3(1, 1, 1),
		Dist:    TrowbridgeReitzDistribution{AlphaX: 0.3, AlphaY: 0.3},
		Fresnel: FresnelSchlick{R0: core.NewVec3(0.04, 0.04, 0.04)},
	}

	wo := core.NewVec3(0.2, 0.1, 0.9).Normalize()
	wi := core.NewVec3(-0.3, 0.2, 0.8).Normalize()

	fwd := m.Evaluate(wo, wi)
	rev := m.Evaluate(wi, wo)

	assert.InDelta(t, fwd.X, rev.X, 1e-9)
}

func TestFrDielectricBounds(t *testing.T) {
	for _, cos := range []float64{-1, -0.5, 0, 0.3, 0.7, 1} {
		r := FrDielectric(cos, 1.0, 1.5)
		assert.GreaterOrEqual(t, r, 0.0)
		assert.LessOrEqual(t, r, 1.0)
	}
}

func TestFrDielectricNormalIncidenceMatchesSchlickR0(t *testing.T) {
	r := FrDielectric(1.0, 1.0, 1.5)
	expected := math.Pow((1.5-1.0)/(1.5+1.0), 2)
	assert.InDelta(t, expected, r, 1e-9)
}

func TestBSDFTwoLobeSampleReturnsPositivePDF(t *testing.T) {
	b := NewBSDF(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, 1), core.NewVec3(1, 0, 0))
	b.Add(LambertianReflection{R: core.NewVec3(0.5, 0.5, 0.5)})
	b.Add(MicrofacetReflection{
		R:       core.NewVec3(0.5, 0.5, 0.5),
		Dist:    TrowbridgeReitzDistribution{AlphaX: 0.2, AlphaY: 0.2},
		Fresnel: FresnelSchlick{R0: core.NewVec3(0.04, 0.04, 0.04)},
	})

	wo := core.NewVec3(0, 0, 1)
	_, _, pdf, _, ok := b.Sample(wo, 0.1, core.Vec2{0.3, 0.7})
	assert.True(t, ok)
	assert.Greater(t, pdf, 0.0)
}
