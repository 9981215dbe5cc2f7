package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3AddSubtract(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, 5, 6)

	assert.Equal(t, NewVec3(5, 7, 9), a.Add(b))
	assert.Equal(t, NewVec3(-3, -3, -3), a.Subtract(b))
}

func TestVec3Normalize(t *testing.T) {
	v := NewVec3(3, 0, 4)
	n := v.Normalize()

	assert.InDelta(t, 1.0, n.Length(), 1e-12)
	assert.InDelta(t, 0.6, n.X, 1e-12)
	assert.InDelta(t, 0.8, n.Z, 1e-12)
}

func TestVec3CrossOrthogonal(t *testing.T) {
	x := NewVec3(1, 0, 0)
	y := NewVec3(0, 1, 0)
	z := x.Cross(y)

	assert.True(t, z.Equals(NewVec3(0, 0, 1)))
}

func TestRayAt(t *testing.T) {
	r := NewRay(NewVec3(0, 0, 0), NewVec3(1, 0, 0))
	assert.Equal(t, NewVec3(2, 0, 0), r.At(2))
}
