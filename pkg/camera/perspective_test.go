package camera

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arclight-render/arclight/pkg/core"
)

func TestPinholeGenerateRayPointsThroughCenterPixel(t *testing.T) {
	c := NewCamera(core.Identity(), math.Pi/2, 0, 0)

	ray := c.GenerateRay(101, 101, 50, 50, core.Vec2{}, core.NewVec2(0.5, 0.5))

	assert.True(t, ray.Origin.Equals(core.Vec3{}))
	assert.InDelta(t, 0, ray.Direction.X, 1e-9)
	assert.InDelta(t, 0, ray.Direction.Y, 1e-9)
	assert.Greater(t, ray.Direction.Z, 0.0)
}

func TestPinholeSamplePointAndDirectionImportanceIdentity(t *testing.T) {
	c := NewCamera(core.Identity(), math.Pi/2, 0, 0)

	w, _, _, pdfP, dir, pdfW := c.SamplePointAndDirection(100, 100, 50, 50, core.Vec2{}, core.NewVec2(0.5, 0.5))

	assert.Equal(t, 1.0, pdfP)
	assert.Greater(t, pdfW, 0.0)
	assert.InDelta(t, w.X, w.Y, 1e-12)
	assert.InDelta(t, pdfP*pdfW/dir.Z, w.X, 1e-9)
}

func TestSamplePointRejectsBehindLens(t *testing.T) {
	c := NewCamera(core.Identity(), math.Pi/2, 0, 0)

	_, _, _, _, _, _, ok := c.SamplePoint(100, 100, core.NewVec3(0, 0, -5), core.Vec2{})
	assert.False(t, ok)
}

func TestSamplePointAcceptsInFrontOfLens(t *testing.T) {
	c := NewCamera(core.Identity(), math.Pi/2, 0, 0)

	_, px, py, _, _, pdfP, ok := c.SamplePoint(100, 100, core.NewVec3(0, 0, 5), core.Vec2{})
	assert.True(t, ok)
	assert.Equal(t, 1.0, pdfP)
	assert.Equal(t, 50, px)
	assert.Equal(t, 50, py)
}

func TestProbabilityDirectionMatchesSampledDirection(t *testing.T) {
	c := NewCamera(core.Identity(), math.Pi/2, 0, 0)

	_, lensPos, _, _, w, pdfW := c.SamplePointAndDirection(64, 64, 10, 20, core.Vec2{}, core.NewVec2(0.5, 0.5))
	got := c.ProbabilityDirection(64, 64, lensPos, w)

	assert.InDelta(t, pdfW, got, 1e-9)
}
