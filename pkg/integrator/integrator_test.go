package integrator

import (
	"math"
	"testing"

	"github.com/arclight-render/arclight/pkg/camera"
	"github.com/arclight-render/arclight/pkg/core"
	"github.com/arclight-render/arclight/pkg/film"
	"github.com/arclight-render/arclight/pkg/light"
	"github.com/arclight-render/arclight/pkg/material"
	"github.com/arclight-render/arclight/pkg/scene"
	"github.com/arclight-render/arclight/pkg/shape"
	"github.com/arclight-render/arclight/pkg/texture"
)

// testScene builds a small room: a diffuse floor facing the camera and an
// emissive plane above it facing down, so every integrator under test has
// at least one direct light path to find.
func testScene() *scene.Scene {
	floorShape := shape.NewPlane(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1), core.NewVec2(10, 10))
	floor := &scene.Entity{
		Shape:    floorShape,
		Material: material.NewDiffuse(texture.NewConstant(core.NewVec3(0.7, 0.7, 0.7))),
		IOR:      1.0,
	}

	lightShape := shape.NewPlane(core.NewVec3(0, 3, 5), core.NewVec3(0, -1, 0), core.NewVec2(4, 4))
	lightEntity := &scene.Entity{
		Shape:    lightShape,
		Material: material.NewDiffuse(texture.NewConstant(core.Vec3{})),
		Light:    light.NewAreaLight(lightShape, core.NewVec3(1, 1, 1), 10),
		IOR:      1.0,
	}

	return scene.New([]*scene.Entity{floor, lightEntity})
}

func testCamera() *camera.Camera {
	return camera.NewCamera(core.Identity(), math.Pi/3, 0, 1)
}

func assertFiniteVec3(t *testing.T, v core.Vec3, label string) {
	t.Helper()
	if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsNaN(v.Z) {
		t.Fatalf("%s: NaN component in %v", label, v)
	}
	if math.IsInf(v.X, 0) || math.IsInf(v.Y, 0) || math.IsInf(v.Z, 0) {
		t.Fatalf("%s: infinite component in %v", label, v)
	}
}

func assertFiniteFilm(t *testing.T, f *film.Film, label string) {
	t.Helper()
	for y := 0; y < f.Height(); y++ {
		for x := 0; x < f.Width(); x++ {
			assertFiniteVec3(t, f.Pixel(x, y), label)
		}
	}
}
