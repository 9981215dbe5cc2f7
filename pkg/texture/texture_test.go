package texture

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arclight-render/arclight/pkg/core"
	"github.com/arclight-render/arclight/pkg/shape"
)

func TestConstantTextureIgnoresHit(t *testing.T) {
	tex := NewConstant(core.NewVec3(0.2, 0.4, 0.6))
	assert.Equal(t, core.NewVec3(0.2, 0.4, 0.6), tex.Evaluate(shape.Hit{}))
}

func TestCheckerboard3DAlternatesByUnitCell(t *testing.T) {
	a, b := core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0)
	tex := NewCheckerboard3D(a, b)

	assert.Equal(t, a, tex.Evaluate(shape.Hit{Point: core.NewVec3(0.5, 0.5, 0.5)}))
	assert.Equal(t, b, tex.Evaluate(shape.Hit{Point: core.NewVec3(1.5, 0.5, 0.5)}))
	assert.Equal(t, b, tex.Evaluate(shape.Hit{Point: core.NewVec3(-0.5, 0.5, 0.5)}))
}

func TestImageEvaluateNearestNeighbor(t *testing.T) {
	img := &Image{
		Width:  2,
		Height: 2,
		Pixels: []core.Vec3{
			core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0),
			core.NewVec3(0, 0, 1), core.NewVec3(1, 1, 1),
		},
	}

	top := img.Evaluate(shape.Hit{UV: core.NewVec2(0.1, 0.9)})
	assert.Equal(t, core.NewVec3(1, 0, 0), top)
}
