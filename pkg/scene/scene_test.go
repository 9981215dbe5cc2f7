package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arclight-render/arclight/pkg/core"
	"github.com/arclight-render/arclight/pkg/light"
	"github.com/arclight-render/arclight/pkg/material"
	"github.com/arclight-render/arclight/pkg/texture"

	"github.com/arclight-render/arclight/pkg/shape"
)

func sphereEntity(center core.Vec3, radius float64) *Entity {
	s := shape.NewSphere(center, radius)
	return &Entity{Shape: s, Material: material.NewDiffuse(texture.NewConstant(core.NewVec3(0.5, 0.5, 0.5)))}
}

func TestRaycastFindsClosestEntity(t *testing.T) {
	near := sphereEntity(core.NewVec3(0, 0, 5), 1)
	far := sphereEntity(core.NewVec3(0, 0, 10), 1)
	sc := New([]*Entity{far, near})

	hit, ok := sc.Raycast(core.Ray{Origin: core.Vec3{}, Direction: core.NewVec3(0, 0, 1)}, 1e9)
	assert.True(t, ok)
	assert.Same(t, near, hit.Entity)
}

func TestRaycastMissesEmptyScene(t *testing.T) {
	sc := New(nil)
	_, ok := sc.Raycast(core.Ray{Origin: core.Vec3{}, Direction: core.NewVec3(0, 0, 1)}, 1e9)
	assert.False(t, ok)
}

func TestVisibilityBlockedByOccluder(t *testing.T) {
	occluder := sphereEntity(core.NewVec3(0, 0, 5), 1)
	sc := New([]*Entity{occluder})

	a := SurfacePoint{Hit: shape.Hit{Point: core.NewVec3(0, 0, 0), GeometricNormal: core.NewVec3(0, 0, -1)}}
	b := SurfacePoint{Hit: shape.Hit{Point: core.NewVec3(0, 0, 10), GeometricNormal: core.NewVec3(0, 0, 1)}}

	assert.False(t, sc.Visibility(a, b))
}

func TestVisibilityClearWithNoOccluder(t *testing.T) {
	sc := New(nil)

	a := SurfacePoint{Hit: shape.Hit{Point: core.NewVec3(0, 0, 0), GeometricNormal: core.NewVec3(0, 0, -1)}}
	b := SurfacePoint{Hit: shape.Hit{Point: core.NewVec3(0, 0, 10), GeometricNormal: core.NewVec3(0, 0, 1)}}

	assert.True(t, sc.Visibility(a, b))
}

func TestLightsListsOnlyEmissiveEntities(t *testing.T) {
	plain := sphereEntity(core.NewVec3(0, 0, 0), 1)
	emissiveShape := shape.NewSphere(core.NewVec3(5, 0, 0), 1)
	emissive := &Entity{
		Shape:    emissiveShape,
		Material: material.NewDiffuse(texture.NewConstant(core.NewVec3(1, 1, 1))),
		Light:    light.NewAreaLight(emissiveShape, core.NewVec3(1, 1, 1), 5.0),
	}

	sc := New([]*Entity{plain, emissive})

	assert.Len(t, sc.Lights(), 1)
	assert.Same(t, emissive, sc.Lights()[0])
}
