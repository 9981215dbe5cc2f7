// Package texture implements the surface texture kinds of spec 4.B/4.C's
// material stack: constant, 3D checkerboard, and image-backed, grounded on
// original_source/Textures/{ITexture,ConstantTexture,Checkerboard3DTexture,
// ImageTexture}.hpp and the teacher's pkg/material/image_texture.go /
// procedural_textures.go naming idiom.
package texture

import (
	"math"

	"github.com/arclight-render/arclight/pkg/core"
	"github.com/arclight-render/arclight/pkg/shape"
)

// Texture evaluates a color at a shaded surface point.
type Texture interface {
	Evaluate(hit shape.Hit) core.Vec3
}

// Constant returns the same color everywhere.
type Constant struct {
	Color core.Vec3
}

func NewConstant(color core.Vec3) *Constant { return &Constant{Color: color} }

func (c *Constant) Evaluate(shape.Hit) core.Vec3 { return c.Color }

// Checkerboard3D alternates between two colors based on the floor-sum
// parity of the world-space hit position, independent of UV mapping.
type Checkerboard3D struct {
	A, B core.Vec3
}

func NewCheckerboard3D(a, b core.Vec3) *Checkerboard3D {
	return &Checkerboard3D{A: a, B: b}
}

func (c *Checkerboard3D) Evaluate(hit shape.Hit) core.Vec3 {
	x := int(math.Floor(hit.Point.X))
	y := int(math.Floor(hit.Point.Y))
	z := int(math.Floor(hit.Point.Z))
	if mod2(x+y+z) == 0 {
		return c.A
	}
	return c.B
}

func mod2(v int) int {
	m := v % 2
	if m < 0 {
		m += 2
	}
	return m
}
