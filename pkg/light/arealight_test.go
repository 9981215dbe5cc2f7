package light

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arclight-render/arclight/pkg/core"
	"github.com/arclight-render/arclight/pkg/shape"
)

func TestEmittedRadianceFrontVsBack(t *testing.T) {
	s := shape.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), core.NewVec2(1, 1))
	l := NewAreaLight(s, core.NewVec3(1, 0.8, 0.6), 4.0)

	p := shape.Hit{GeometricNormal: core.NewVec3(0, 1, 0)}

	front := l.EmittedRadiance(p, core.NewVec3(0, 1, 0))
	assert.Equal(t, core.NewVec3(4, 3.2, 2.4), front)

	back := l.EmittedRadiance(p, core.NewVec3(0, -1, 0))
	assert.True(t, back.IsZero())
}

func TestSampleDirectionIsCosineWeightedAboutNormal(t *testing.T) {
	s := shape.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), core.NewVec2(1, 1))
	l := NewAreaLight(s, core.NewVec3(1, 1, 1), 1.0)
	p := shape.Hit{GeometricNormal: core.NewVec3(0, 1, 0)}

	w, pdf := l.SampleDirection(p, core.NewVec2(0.25, 0.5))

	assert.InDelta(t, 1.0, w.Length(), 1e-9)
	assert.Greater(t, w.Dot(p.GeometricNormal), 0.0)
	assert.InDelta(t, l.ProbabilityDirection(p, w), pdf, 1e-9)
}

func TestProbabilityPointMatchesAreaInverse(t *testing.T) {
	s := shape.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), core.NewVec2(2, 3))
	l := NewAreaLight(s, core.NewVec3(1, 1, 1), 1.0)

	assert.InDelta(t, 1.0/s.Area(), l.ProbabilityPoint(shape.Hit{}), 1e-9)
}

func TestProbabilityDirectionZeroBehindSurface(t *testing.T) {
	s := shape.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), core.NewVec2(1, 1))
	l := NewAreaLight(s, core.NewVec3(1, 1, 1), 1.0)
	p := shape.Hit{GeometricNormal: core.NewVec3(0, 1, 0)}

	pdf := l.ProbabilityDirection(p, core.NewVec3(0, -1, 0))
	assert.Equal(t, 0.0, pdf)
}

func TestSamplePointFromFallsBackToAreaSampling(t *testing.T) {
	s := shape.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), core.NewVec2(1, 1))
	l := NewAreaLight(s, core.NewVec3(1, 1, 1), 1.0)

	_, pdfDirect := l.SamplePoint(core.NewVec2(0.3, 0.7))
	_, pdfFrom := l.SamplePointFrom(core.NewVec3(0, 5, 0), core.NewVec2(0.3, 0.7))

	assert.InDelta(t, pdfDirect, pdfFrom, 1e-12)
}
