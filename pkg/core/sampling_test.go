package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSampleHemisphereCosinePDF(t *testing.T) {
	dir, pdf := SampleHemisphereCosine(Vec2{0.25, 0.75})

	assert.InDelta(t, 1.0, dir.Length(), 1e-9)
	assert.GreaterOrEqual(t, dir.Z, 0.0)
	assert.InDelta(t, HemisphereCosinePDF(dir.Z), pdf, 1e-12)
}

func TestSampleDiskConcentricWithinUnitDisk(t *testing.T) {
	for _, u := range []Vec2{{0, 0}, {1, 1}, {0.5, 0.5}, {0.9, 0.1}} {
		d := SampleDiskConcentric(u)
		r2 := d.X*d.X + d.Y*d.Y
		assert.LessOrEqual(t, r2, 1.0+1e-9)
	}
}

func TestSampleCoordinateSystemOrthonormal(t *testing.T) {
	n := NewVec3(0, 0, 1)
	tangent, bitangent := SampleCoordinateSystem(n)

	assert.InDelta(t, 1.0, tangent.Length(), 1e-9)
	assert.InDelta(t, 1.0, bitangent.Length(), 1e-9)
	assert.InDelta(t, 0.0, tangent.Dot(n), 1e-9)
	assert.InDelta(t, 0.0, bitangent.Dot(n), 1e-9)
	assert.InDelta(t, 0.0, tangent.Dot(bitangent), 1e-9)
}

func TestPowerHeuristicFavorsLowerVarianceStrategy(t *testing.T) {
	w := PowerHeuristic(1, 0.5, 1, 0.1)
	assert.Greater(t, w, 0.5)
}

func TestSphereConePDFMatchesUniformInside(t *testing.T) {
	pdf := SphereConePDF(0.5, 1.0)
	assert.InDelta(t, SphereUniformPDF(1.0), pdf, 1e-12)
}

func TestSphereConePDFPositive(t *testing.T) {
	pdf := SphereConePDF(10, 1)
	assert.Greater(t, pdf, 0.0)
	assert.False(t, math.IsNaN(pdf))
}
