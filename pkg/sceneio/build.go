package sceneio

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/arclight-render/arclight/pkg/camera"
	"github.com/arclight-render/arclight/pkg/core"
	"github.com/arclight-render/arclight/pkg/integrator"
	"github.com/arclight-render/arclight/pkg/light"
	"github.com/arclight-render/arclight/pkg/material"
	"github.com/arclight-render/arclight/pkg/meshio"
	"github.com/arclight-render/arclight/pkg/sampler"
	"github.com/arclight-render/arclight/pkg/scene"
	"github.com/arclight-render/arclight/pkg/shape"
	"github.com/arclight-render/arclight/pkg/texture"
)

// Load reads "<dir>/<name>.json" and decodes it into a Document.
func Load(dir, name string) (*Document, error) {
	path := filepath.Join(dir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading scene file %q", path)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "parsing scene file %q", path)
	}
	return &doc, nil
}

func vec3(a [3]float64) core.Vec3 { return core.NewVec3(a[0], a[1], a[2]) }
func vec2(a [2]float64) core.Vec2 { return core.NewVec2(a[0], a[1]) }

// buildTransform converts a {position, rotation, scale} spec into a
// core.Transform, defaulting an all-zero scale to {1,1,1} (the JSON zero
// value for an omitted field would otherwise collapse the entity).
func buildTransform(t TransformSpec) core.Transform {
	scale := t.Scale
	if scale == [3]float64{} {
		scale = [3]float64{1, 1, 1}
	}
	return core.Compose(core.Translation(vec3(t.Position)), core.RotationDeg(vec3(t.Rotation)), core.Scale(vec3(scale)))
}

// BuildCamera builds the perspective camera spec §6 describes. fov is
// given in degrees and converted to the radians pkg/camera expects.
func BuildCamera(c CameraSpec) *camera.Camera {
	return camera.NewCamera(buildTransform(c.Transform), c.Fov*math.Pi/180, c.LensRadius, c.FocusDistance)
}

// BuildSampler constructs the per-render seed sampler; per-worker clones
// are produced by the integrator via Sampler.Clone.
func BuildSampler(s SamplerSpec, seed uint64) (sampler.Sampler, error) {
	switch s.Type {
	case "", "random":
		return sampler.NewRandomSampler(seed), nil
	case "stratified":
		return sampler.NewStratifiedSampler(seed, s.Jitter), nil
	default:
		return nil, errors.Errorf("unknown sampler type %q", s.Type)
	}
}

// BuildIntegrator dispatches on integrator.type to one of the three
// Integrator implementations, matching spec §6's
// `integrator.type: "forward" | "bdpt" | "backward"`.
func BuildIntegrator(i IntegratorSpec, cam *camera.Camera) (integrator.Integrator, error) {
	tileSize := i.TileSize
	if tileSize == [2]int{} {
		tileSize = [2]int{16, 16}
	}
	workerCount := i.WorkerCount
	if workerCount == 0 {
		workerCount = 1
	}
	maxVertices := i.MaxVertices
	if maxVertices == 0 {
		maxVertices = 5
	}

	switch i.Type {
	case "", "forward":
		strategy, err := parseStrategy(i.Strategy)
		if err != nil {
			return nil, err
		}
		samplesX, samplesY := i.SamplesX, i.SamplesY
		if samplesX == 0 {
			samplesX = 1
		}
		if samplesY == 0 {
			samplesY = 1
		}
		return &integrator.ForwardPathIntegrator{
			Camera:      cam,
			TileSize:    tileSize,
			WorkerCount: workerCount,
			XSamples:    samplesX,
			YSamples:    samplesY,
			MaxVertices: maxVertices,
			Strategy:    strategy,
		}, nil

	case "backward":
		sampleCount := i.SampleCount
		if sampleCount == 0 {
			sampleCount = 1 << 20
		}
		return &integrator.BackwardPathIntegrator{
			Camera:      cam,
			SampleCount: sampleCount,
			WorkerCount: workerCount,
			MaxVertices: maxVertices,
		}, nil

	case "bdpt":
		samplesX, samplesY := i.SamplesX, i.SamplesY
		if samplesX == 0 {
			samplesX = 1
		}
		if samplesY == 0 {
			samplesY = 1
		}
		return &integrator.BidirectionalPathIntegrator{
			Camera:      cam,
			TileSize:    tileSize,
			WorkerCount: workerCount,
			XSamples:    samplesX,
			YSamples:    samplesY,
			MaxVertices: maxVertices,
		}, nil

	default:
		return nil, errors.Errorf("unknown integrator type %q", i.Type)
	}
}

func parseStrategy(s string) (integrator.Strategy, error) {
	switch s {
	case "", "mis":
		return integrator.StrategyMIS, nil
	case "bsdf":
		return integrator.StrategyBSDF, nil
	case "light":
		return integrator.StrategyLight, nil
	case "measure":
		return integrator.StrategyMeasure, nil
	default:
		return 0, errors.Errorf("unknown forward strategy %q", s)
	}
}

// Scissor returns the integrator's configured scissor rectangle, defaulting
// to the full resolution when omitted.
func Scissor(i IntegratorSpec, resolution [2]int) (min, max [2]int) {
	if i.Scissor == [2][2]int{} {
		return [2]int{0, 0}, resolution
	}
	return i.Scissor[0], i.Scissor[1]
}

// BuildScene resolves every entity's shape/material/emission and returns
// the assembled scene. baseDir is the scene file's directory, used to
// resolve mesh and image-texture asset names.
func BuildScene(baseDir string, spec SceneSpec) (*scene.Scene, error) {
	entities := make([]*scene.Entity, 0, len(spec.Entities))
	for idx, es := range spec.Entities {
		e, err := buildEntity(baseDir, idx, es)
		if err != nil {
			return nil, errors.Wrapf(err, "entity %d", idx)
		}
		entities = append(entities, e)
	}
	return scene.New(entities), nil
}

// buildEntity assigns priority from the entity's position in the scene
// file; it is not a JSON field since scene.Entity.Priority must be unique
// and monotonically assigned, not user-supplied.
func buildEntity(baseDir string, priority int, es EntitySpec) (*scene.Entity, error) {
	tr := core.Identity()
	if es.Transform != nil {
		tr = buildTransform(*es.Transform)
	}

	s, err := buildShape(baseDir, es.Shape, tr)
	if err != nil {
		return nil, errors.Wrap(err, "shape")
	}

	mat, err := buildMaterial(baseDir, es.Material)
	if err != nil {
		return nil, errors.Wrap(err, "material")
	}

	ior := es.IOR
	if ior == 0 {
		ior = 1.0
	}

	e := &scene.Entity{Shape: s, Material: mat, IOR: ior, Priority: priority}
	if es.Emission != nil {
		e.Light = light.NewAreaLight(s, vec3(es.Emission.Color), es.Emission.Strength)
	}
	return e, nil
}

func buildShape(baseDir string, s ShapeSpec, tr core.Transform) (shape.Shape, error) {
	switch s.Type {
	case "sphere":
		return shape.NewSphere(tr.Point(core.Vec3{}), s.Radius), nil
	case "plane":
		return shape.NewPlane(tr.Point(core.Vec3{}), tr.Normal(core.NewVec3(0, 1, 0)), vec2(s.Size)), nil
	case "mesh":
		m, err := meshio.LoadCached(baseDir, s.Name)
		if err != nil {
			return nil, err
		}
		return shape.NewTriangleMesh(m, tr), nil
	default:
		return nil, errors.Errorf("unknown shape type %q", s.Type)
	}
}

func buildTexture(baseDir string, c ColorOrTexture) (texture.Texture, error) {
	if c.Color != nil {
		return texture.NewConstant(vec3(*c.Color)), nil
	}
	if c.Texture == nil {
		return texture.NewConstant(core.Vec3{}), nil
	}

	switch c.Texture.Type {
	case "image":
		return texture.LoadImage(filepath.Join(baseDir, c.Texture.Name), 0)
	case "checkerboard3d":
		a, b := core.Vec3{}, core.Vec3{}
		if c.Texture.A != nil {
			a = vec3(*c.Texture.A)
		}
		if c.Texture.B != nil {
			b = vec3(*c.Texture.B)
		}
		return texture.NewCheckerboard3D(a, b), nil
	default:
		return nil, errors.Errorf("unknown texture type %q", c.Texture.Type)
	}
}

// constantColor evaluates a texture at an unspecified point, for material
// kinds (glass, mirror) whose BSDF lobes only take a flat Vec3
// rather than a per-point texture.
func constantColor(tex texture.Texture) core.Vec3 {
	return tex.Evaluate(shape.Hit{})
}

func buildMaterial(baseDir string, m MaterialSpec) (material.Material, error) {
	switch m.Type {
	case "diffuse":
		tex, err := buildTexture(baseDir, m.Reflectance)
		if err != nil {
			return nil, err
		}
		return material.NewDiffuse(tex), nil

	case "mirror":
		tex, err := buildTexture(baseDir, m.Reflectance)
		if err != nil {
			return nil, err
		}
		return material.NewMetal(constantColor(tex), 0), nil

	case "metal":
		tint := m.Tint
		return material.NewMetal(vec3(tint), m.Roughness), nil

	case "glass":
		ior := m.IOR
		if ior == 0 {
			ior = 1.5
		}
		g := material.NewGlass(ior)
		if m.Reflectance.Color != nil || m.Reflectance.Texture != nil {
			tex, err := buildTexture(baseDir, m.Reflectance)
			if err != nil {
				return nil, err
			}
			g.Reflectance = constantColor(tex)
		}
		if m.Transmittance != ([3]float64{}) {
			g.Transmission = vec3(m.Transmittance)
		}
		return g, nil

	case "transparent":
		opacity := m.Opacity
		t := 1.0 - opacity
		return material.NewTransparent(core.NewVec3(t, t, t)), nil

	case "plastic":
		tex, err := buildTexture(baseDir, m.Diffuse)
		if err != nil {
			return nil, err
		}
		ior := m.IOR
		if ior == 0 {
			ior = 1.5
		}
		return material.NewPlastic(tex, ior, m.Roughness), nil

	default:
		return nil, errors.Errorf("unknown material type %q", m.Type)
	}
}
