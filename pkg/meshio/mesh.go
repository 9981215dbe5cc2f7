// Package meshio implements the mesh binary format of spec 6 and the
// OBJ-to-mesh conversion-and-cache contract, grounded on
// original_source/Mesh.hpp and AssetManager.cpp's cache-on-first-load
// behavior. Vertex attributes are stored single-precision, matching spec
// 3's "f32 (compact storage in meshes and bounds)".
package meshio

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/arclight-render/arclight/pkg/math32"
)

const (
	flagPositions uint32 = 1 << 0
	flagNormals   uint32 = 1 << 1
	flagTangents  uint32 = 1 << 2
	flagUVs       uint32 = 1 << 3
)

// Mesh is an in-memory triangle mesh: flat vertex attribute arrays plus a
// flat index array, exactly mirroring the on-disk binary layout.
type Mesh struct {
	Positions []math32.Vec3f
	Normals   []math32.Vec3f
	Tangents  []math32.Vec3f
	UVs       []math32.Vec2f
	Indices   []uint32
}

// TriangleCount returns the number of triangles (Indices/3).
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// flags computes the binary-format bitmask for the attributes present.
func (m *Mesh) flags() uint32 {
	var f uint32
	if len(m.Positions) > 0 {
		f |= flagPositions
	}
	if len(m.Normals) > 0 {
		f |= flagNormals
	}
	if len(m.Tangents) > 0 {
		f |= flagTangents
	}
	if len(m.UVs) > 0 {
		f |= flagUVs
	}
	return f
}

// WriteBinary writes the mesh in the spec's little-endian packed format:
// u32 vertexCount, u32 indexCount, u32 flags, then per-attribute arrays (in
// positions/normals/tangents/uvs order, each present iff its flag bit is
// set), then the u32 index array.
func WriteBinary(w io.Writer, m *Mesh) error {
	bw := bufio.NewWriter(w)

	vertexCount := uint32(len(m.Positions))
	if vertexCount == 0 {
		vertexCount = uint32(maxLen(len(m.Normals), len(m.Tangents), len(m.UVs)))
	}

	if err := binary.Write(bw, binary.LittleEndian, vertexCount); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(m.Indices))); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, m.flags()); err != nil {
		return err
	}

	for _, v := range m.Positions {
		if err := writeVec3f(bw, v); err != nil {
			return err
		}
	}
	for _, v := range m.Normals {
		if err := writeVec3f(bw, v); err != nil {
			return err
		}
	}
	for _, v := range m.Tangents {
		if err := writeVec3f(bw, v); err != nil {
			return err
		}
	}
	for _, v := range m.UVs {
		if err := binary.Write(bw, binary.LittleEndian, v.X); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, v.Y); err != nil {
			return err
		}
	}
	for _, idx := range m.Indices {
		if err := binary.Write(bw, binary.LittleEndian, idx); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func writeVec3f(w io.Writer, v math32.Vec3f) error {
	if err := binary.Write(w, binary.LittleEndian, v.X); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, v.Y); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, v.Z)
}

func maxLen(values ...int) int {
	m := 0
	for _, v := range values {
		if v > m {
			m = v
		}
	}
	return m
}

// ReadBinary parses the spec 6 mesh binary format. A mesh with
// vertexCount==0 or indexCount==0 is invalid per spec 6 and returns a
// wrapped error, fatal for that mesh per spec 7's error handling design.
func ReadBinary(r io.Reader) (*Mesh, error) {
	br := bufio.NewReader(r)

	var vertexCount, indexCount, flags uint32
	if err := binary.Read(br, binary.LittleEndian, &vertexCount); err != nil {
		return nil, errors.Wrap(err, "reading mesh vertex count")
	}
	if err := binary.Read(br, binary.LittleEndian, &indexCount); err != nil {
		return nil, errors.Wrap(err, "reading mesh index count")
	}
	if err := binary.Read(br, binary.LittleEndian, &flags); err != nil {
		return nil, errors.Wrap(err, "reading mesh flags")
	}

	if vertexCount == 0 || indexCount == 0 {
		return nil, errors.Errorf("malformed mesh: vertexCount=%d indexCount=%d", vertexCount, indexCount)
	}

	m := &Mesh{}

	if flags&flagPositions != 0 {
		m.Positions = make([]math32.Vec3f, vertexCount)
		for i := range m.Positions {
			v, err := readVec3f(br)
			if err != nil {
				return nil, errors.Wrap(err, "reading mesh positions")
			}
			m.Positions[i] = v
		}
	}
	if flags&flagNormals != 0 {
		m.Normals = make([]math32.Vec3f, vertexCount)
		for i := range m.Normals {
			v, err := readVec3f(br)
			if err != nil {
				return nil, errors.Wrap(err, "reading mesh normals")
			}
			m.Normals[i] = v
		}
	}
	if flags&flagTangents != 0 {
		m.Tangents = make([]math32.Vec3f, vertexCount)
		for i := range m.Tangents {
			v, err := readVec3f(br)
			if err != nil {
				return nil, errors.Wrap(err, "reading mesh tangents")
			}
			m.Tangents[i] = v
		}
	}
	if flags&flagUVs != 0 {
		m.UVs = make([]math32.Vec2f, vertexCount)
		for i := range m.UVs {
			var x, y float32
			if err := binary.Read(br, binary.LittleEndian, &x); err != nil {
				return nil, errors.Wrap(err, "reading mesh uvs")
			}
			if err := binary.Read(br, binary.LittleEndian, &y); err != nil {
				return nil, errors.Wrap(err, "reading mesh uvs")
			}
			m.UVs[i] = math32.Vec2f{X: x, Y: y}
		}
	}

	m.Indices = make([]uint32, indexCount)
	for i := range m.Indices {
		if err := binary.Read(br, binary.LittleEndian, &m.Indices[i]); err != nil {
			return nil, errors.Wrap(err, "reading mesh indices")
		}
	}

	return m, nil
}

func readVec3f(r io.Reader) (math32.Vec3f, error) {
	var x, y, z float32
	if err := binary.Read(r, binary.LittleEndian, &x); err != nil {
		return math32.Vec3f{}, err
	}
	if err := binary.Read(r, binary.LittleEndian, &y); err != nil {
		return math32.Vec3f{}, err
	}
	if err := binary.Read(r, binary.LittleEndian, &z); err != nil {
		return math32.Vec3f{}, err
	}
	return math32.Vec3f{X: x, Y: y, Z: z}, nil
}

// LoadCached loads a mesh by base name (without extension) from dir: if
// "<name>.mesh" exists, it is read directly; otherwise "<name>.obj" is
// parsed and the binary form is written to "<name>.mesh" next to the
// source so the next LoadCached call hits the fast binary path.
func LoadCached(dir, name string) (*Mesh, error) {
	meshPath := dir + "/" + name + ".mesh"
	if f, err := os.Open(meshPath); err == nil {
		defer f.Close()
		return ReadBinary(f)
	}

	objPath := dir + "/" + name + ".obj"
	objFile, err := os.Open(objPath)
	if err != nil {
		return nil, errors.Wrapf(err, "loading mesh %q", name)
	}
	defer objFile.Close()

	m, err := ReadOBJ(objFile)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing obj %q", name)
	}

	if out, err := os.Create(meshPath); err == nil {
		defer out.Close()
		_ = WriteBinary(out, m)
	}

	return m, nil
}

// ReadOBJ parses the minimal OBJ grammar needed by the cache contract: v,
// vn, vt, and triangulated f lines (polygon faces fan-triangulated from
// the first vertex).
func ReadOBJ(r io.Reader) (*Mesh, error) {
	var positions, normals []math32.Vec3f
	var uvs []math32.Vec2f

	type vref struct{ p, t, n int }
	var faceRefs [][]vref

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			positions = append(positions, parseVec3f(fields[1:]))
		case "vn":
			normals = append(normals, parseVec3f(fields[1:]))
		case "vt":
			uvs = append(uvs, parseVec2f(fields[1:]))
		case "f":
			refs := make([]vref, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				refs = append(refs, parseFaceRef(tok))
			}
			faceRefs = append(faceRefs, refs)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(positions) == 0 || len(faceRefs) == 0 {
		return nil, errors.New("obj file has no geometry")
	}

	m := &Mesh{Positions: positions}
	if len(normals) > 0 {
		m.Normals = normals
	}
	if len(uvs) > 0 {
		m.UVs = uvs
	}

	for _, refs := range faceRefs {
		for i := 1; i < len(refs)-1; i++ {
			m.Indices = append(m.Indices,
				uint32(refs[0].p-1), uint32(refs[i].p-1), uint32(refs[i+1].p-1))
		}
	}

	return m, nil
}

func parseVec3f(fields []string) math32.Vec3f {
	var v [3]float64
	for i := 0; i < 3 && i < len(fields); i++ {
		v[i], _ = strconv.ParseFloat(fields[i], 64)
	}
	return math32.Vec3f{X: float32(v[0]), Y: float32(v[1]), Z: float32(v[2])}
}

func parseVec2f(fields []string) math32.Vec2f {
	var v [2]float64
	for i := 0; i < 2 && i < len(fields); i++ {
		v[i], _ = strconv.ParseFloat(fields[i], 64)
	}
	return math32.Vec2f{X: float32(v[0]), Y: float32(v[1])}
}

func parseFaceRef(tok string) (ref struct{ p, t, n int }) {
	parts := strings.Split(tok, "/")
	ref.p, _ = strconv.Atoi(parts[0])
	if len(parts) > 1 && parts[1] != "" {
		ref.t, _ = strconv.Atoi(parts[1])
	}
	if len(parts) > 2 && parts[2] != "" {
		ref.n, _ = strconv.Atoi(parts[2])
	}
	return ref
}
