package material

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arclight-render/arclight/pkg/core"
	"github.com/arclight-render/arclight/pkg/shape"
	"github.com/arclight-render/arclight/pkg/texture"
)

func testHit() shape.Hit {
	return shape.Hit{
		Point:           core.NewVec3(0, 0, 0),
		GeometricNormal: core.NewVec3(0, 0, 1),
		ShadingNormal:   core.NewVec3(0, 0, 1),
		ShadingTangent:  core.NewVec3(1, 0, 0),
		UV:              core.NewVec2(0.5, 0.5),
	}
}

func TestDiffuseComputeBSDFHasOneLambertianLobe(t *testing.T) {
	var a Arena
	d := NewDiffuse(texture.NewConstant(core.NewVec3(0.8, 0.2, 0.2)))

	b := d.ComputeBSDF(testHit(), 1.0, &a)

	assert.Equal(t, 1, b.NumLobes())
	assert.False(t, b.IsSpecular())
}

func TestGlassComputeBSDFIsSpecular(t *testing.T) {
	var a Arena
	g := NewGlass(1.5)

	b := g.ComputeBSDF(testHit(), 1.0, &a)

	assert.Equal(t, 1, b.NumLobes())
	assert.True(t, b.IsSpecular())
}

func TestTransparentPassesStraightThrough(t *testing.T) {
	var a Arena
	tr := NewTransparent(core.NewVec3(1, 1, 1))

	wo := core.NewVec3(0, 0, 1)
	b := tr.ComputeBSDF(testHit(), 1.0, &a)

	wi, f, pdf, delta, ok := b.Sample(wo, 0.5, core.NewVec2(0.5, 0.5))
	assert.True(t, ok)
	assert.True(t, delta)
	assert.Greater(t, pdf, 0.0)
	assert.InDelta(t, -1.0, wi.Z, 1e-9)
	assert.False(t, f.IsZero())
}

func TestMetalSmoothUsesSpecularLobe(t *testing.T) {
	var a Arena
	m := NewMetal(core.NewVec3(0.9, 0.8, 0.6), 0.0)

	b := m.ComputeBSDF(testHit(), 1.0, &a)

	assert.Equal(t, 1, b.NumLobes())
	assert.True(t, b.IsSpecular())
}

func TestMetalRoughUsesMicrofacetLobe(t *testing.T) {
	var a Arena
	m := NewMetal(core.NewVec3(0.9, 0.8, 0.6), 0.4)

	b := m.ComputeBSDF(testHit(), 1.0, &a)

	assert.Equal(t, 1, b.NumLobes())
	assert.False(t, b.IsSpecular())
}

func TestPlasticComposesTwoLobes(t *testing.T) {
	var a Arena
	p := NewPlastic(texture.NewConstant(core.NewVec3(0.2, 0.3, 0.8)), 1.5, 0.2)

	b := p.ComputeBSDF(testHit(), 1.0, &a)

	assert.Equal(t, 2, b.NumLobes())
	assert.False(t, b.IsSpecular())
}

func TestArenaResetRecyclesStorage(t *testing.T) {
	var a Arena
	d := NewDiffuse(texture.NewConstant(core.NewVec3(0.5, 0.5, 0.5)))

	d.ComputeBSDF(testHit(), 1.0, &a)
	assert.Equal(t, 1, a.bsdfs.Len())

	a.Reset()
	assert.Equal(t, 0, a.bsdfs.Len())
}
