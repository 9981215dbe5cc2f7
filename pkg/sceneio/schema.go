// Package sceneio decodes the JSON scene file of spec §6 into the
// render-ready types pkg/scene, pkg/camera, pkg/integrator, and pkg/sampler
// already provide, grounded on the schema spec §6 specifies in full and
// on the teacher's pkg/loaders/pbrt.go load-then-build idiom (struct-typed
// statements converted to scene objects in one pass; read in full before
// deletion as this package's only teacher precedent, since the schema
// itself is JSON here rather than PBRT text).
package sceneio

// Document is the top-level scene file: {image, camera, integrator,
// sampler, scene}.
type Document struct {
	Image      ImageSpec      `json:"image"`
	Camera     CameraSpec     `json:"camera"`
	Integrator IntegratorSpec `json:"integrator"`
	Sampler    SamplerSpec    `json:"sampler"`
	Scene      SceneSpec      `json:"scene"`
}

type ImageSpec struct {
	Resolution [2]int `json:"resolution"`
	Name       string `json:"name"`
	Format     string `json:"format"` // "ppm" | "raw32"
}

type TransformSpec struct {
	Position [3]float64 `json:"position"`
	Rotation [3]float64 `json:"rotation"` // degrees
	Scale    [3]float64 `json:"scale"`
}

type CameraSpec struct {
	Type          string        `json:"type"` // "perspective"
	Transform     TransformSpec `json:"transform"`
	Fov           float64       `json:"fov"` // degrees
	LensRadius    float64       `json:"lensRadius"`
	FocusDistance float64       `json:"focusDistance"`
}

type IntegratorSpec struct {
	Type        string  `json:"type"` // "forward" | "bdpt" | "backward"
	SamplesX    int     `json:"samplesX"`
	SamplesY    int     `json:"samplesY"`
	MaxVertices int     `json:"maxVertices"`
	TileSize    [2]int  `json:"tileSize"`
	WorkerCount int     `json:"workerCount"`
	Scissor     [2][2]int `json:"scissor"`
	Strategy    string  `json:"strategy"`    // forward-only: bsdf|light|mis|measure
	SampleCount uint64  `json:"sampleCount"` // backward-only
}

type SamplerSpec struct {
	Type   string `json:"type"` // "random" | "stratified"
	Jitter bool   `json:"jitter"`
}

type SceneSpec struct {
	Entities []EntitySpec `json:"entities"`
}

type EntitySpec struct {
	Shape     ShapeSpec      `json:"shape"`
	Transform *TransformSpec `json:"transform"`
	Material  MaterialSpec   `json:"material"`
	Emission  *EmissionSpec  `json:"emission"`
	IOR       float64        `json:"ior"`
}

type ShapeSpec struct {
	Type   string    `json:"type"` // "sphere" | "plane" | "mesh"
	Radius float64   `json:"radius"`
	Size   [2]float64 `json:"size"`
	Name   string    `json:"name"`
}

// ColorOrTexture decodes either an inline [r,g,b] triple or a nested
// texture object, matching spec §6's "Texture kinds: image{name},
// checkerboard3d{a,b}, or inline [r,g,b]".
type ColorOrTexture struct {
	Color   *[3]float64  `json:"-"`
	Texture *TextureSpec `json:"-"`
}

type TextureSpec struct {
	Type string      `json:"type"` // "image" | "checkerboard3d"
	Name string      `json:"name"`
	A    *[3]float64 `json:"a"`
	B    *[3]float64 `json:"b"`
}

type MaterialSpec struct {
	Type          string         `json:"type"` // diffuse|mirror|glass|transparent|metal|plastic
	Reflectance   ColorOrTexture `json:"reflectance"`
	Transmittance [3]float64     `json:"transmittance"`
	Opacity       float64        `json:"opacity"`
	IOR           float64        `json:"ior"`
	Tint          [3]float64     `json:"tint"`
	Roughness     float64        `json:"roughness"`
	Diffuse       ColorOrTexture `json:"diffuse"`
}

type EmissionSpec struct {
	Type     string     `json:"type"` // "diffuse"
	Color    [3]float64 `json:"color"`
	Strength float64    `json:"strength"`
}
