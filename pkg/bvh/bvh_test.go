package bvh

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arclight-render/arclight/pkg/core"
)

func boxAt(x float64) core.AABB {
	return core.NewAABB(core.NewVec3(x-0.1, -0.1, -0.1), core.NewVec3(x+0.1, 0.1, 0.1))
}

func TestBVHFindsClosestHitAmongManyBoxes(t *testing.T) {
	var bounds []core.AABB
	for i := 0; i < 50; i++ {
		bounds = append(bounds, boxAt(float64(i)))
	}
	tree := Build(bounds)
	ordered := tree.Ordered()

	ray := core.NewRay(core.NewVec3(-5, 0, 0), core.NewVec3(1, 0, 0))

	var hitOriginalIndices []int
	tree.Visit(ray, 1e9, func(lo, hi int, tMax float64) float64 {
		for i := lo; i < hi; i++ {
			hitOriginalIndices = append(hitOriginalIndices, ordered[i])
		}
		return tMax
	})

	assert.Contains(t, hitOriginalIndices, 0)
}

func TestBVHEmptyTreeVisitIsNoop(t *testing.T) {
	tree := Build(nil)
	called := false
	tree.Visit(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0)), 1e9, func(lo, hi int, tMax float64) float64 {
		called = true
		return tMax
	})
	assert.False(t, called)
}

func TestBVHRootBoundsContainAllPrimitives(t *testing.T) {
	var bounds []core.AABB
	for i := 0; i < 20; i++ {
		bounds = append(bounds, boxAt(float64(i)*3))
	}
	tree := Build(bounds)
	root := tree.Bounds()

	for _, b := range bounds {
		assert.True(t, root.Min.X <= b.Min.X && root.Max.X >= b.Max.X)
	}
}
