package core

import "math"

// Matrix4x4 is a row-major 4x4 matrix used for affine transforms.
type Matrix4x4 [4][4]float64

// Identity4x4 returns the 4x4 identity matrix.
func Identity4x4() Matrix4x4 {
	var m Matrix4x4
	for i := 0; i < 4; i++ {
		m[i][i] = 1
	}
	return m
}

// Mul multiplies two matrices, returning m*other.
func (m Matrix4x4) Mul(other Matrix4x4) Matrix4x4 {
	var r Matrix4x4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			sum := 0.0
			for k := 0; k < 4; k++ {
				sum += m[i][k] * other[k][j]
			}
			r[i][j] = sum
		}
	}
	return r
}

// Transpose returns the transpose of m.
func (m Matrix4x4) Transpose() Matrix4x4 {
	var r Matrix4x4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r[j][i] = m[i][j]
		}
	}
	return r
}

// Inverse computes the matrix inverse via Gauss-Jordan elimination with
// partial pivoting. Affine transforms built by this package are always
// invertible (translation/rotation/scale composition with nonzero scale).
func (m Matrix4x4) Inverse() Matrix4x4 {
	a := m
	inv := Identity4x4()

	for col := 0; col < 4; col++ {
		pivot := col
		maxVal := math.Abs(a[col][col])
		for row := col + 1; row < 4; row++ {
			if v := math.Abs(a[row][col]); v > maxVal {
				maxVal = v
				pivot = row
			}
		}
		if pivot != col {
			a[col], a[pivot] = a[pivot], a[col]
			inv[col], inv[pivot] = inv[pivot], inv[col]
		}

		d := a[col][col]
		if d == 0 {
			continue // singular; caller-constructed transforms never hit this
		}
		for j := 0; j < 4; j++ {
			a[col][j] /= d
			inv[col][j] /= d
		}

		for row := 0; row < 4; row++ {
			if row == col {
				continue
			}
			f := a[row][col]
			if f == 0 {
				continue
			}
			for j := 0; j < 4; j++ {
				a[row][j] -= f * a[col][j]
				inv[row][j] -= f * inv[col][j]
			}
		}
	}
	return inv
}

// Transform is an affine transform owning both its forward and inverse
// matrix, so normal transforms can use the inverse transpose without
// recomputing a matrix inverse per call.
type Transform struct {
	m    Matrix4x4
	mInv Matrix4x4
}

// NewTransform builds a Transform from a forward matrix, computing the
// inverse once.
func NewTransform(m Matrix4x4) Transform {
	return Transform{m: m, mInv: m.Inverse()}
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{m: Identity4x4(), mInv: Identity4x4()}
}

// Translation builds a pure translation transform.
func Translation(delta Vec3) Transform {
	m := Identity4x4()
	m[0][3] = delta.X
	m[1][3] = delta.Y
	m[2][3] = delta.Z
	return NewTransform(m)
}

// Scale builds a pure scale transform.
func Scale(s Vec3) Transform {
	m := Identity4x4()
	m[0][0] = s.X
	m[1][1] = s.Y
	m[2][2] = s.Z
	return NewTransform(m)
}

// RotationDeg builds a rotation transform from Euler angles in degrees,
// applied in Y, then X, then Z order (matching the scene file's
// [x,y,z] rotation triples).
func RotationDeg(degrees Vec3) Transform {
	rx := rotationXRad(degrees.X * math.Pi / 180)
	ry := rotationYRad(degrees.Y * math.Pi / 180)
	rz := rotationZRad(degrees.Z * math.Pi / 180)
	return NewTransform(rz.m.Mul(rx.m.Mul(ry.m)))
}

func rotationXRad(a float64) Transform {
	m := Identity4x4()
	c, s := math.Cos(a), math.Sin(a)
	m[1][1], m[1][2] = c, -s
	m[2][1], m[2][2] = s, c
	return NewTransform(m)
}

func rotationYRad(a float64) Transform {
	m := Identity4x4()
	c, s := math.Cos(a), math.Sin(a)
	m[0][0], m[0][2] = c, s
	m[2][0], m[2][2] = -s, c
	return NewTransform(m)
}

func rotationZRad(a float64) Transform {
	m := Identity4x4()
	c, s := math.Cos(a), math.Sin(a)
	m[0][0], m[0][1] = c, -s
	m[1][0], m[1][1] = s, c
	return NewTransform(m)
}

// Compose returns a transform equivalent to applying scale first, then
// rotation, then translation (translation * rotation * scale).
func Compose(translation, rotation, scale Transform) Transform {
	return NewTransform(translation.m.Mul(rotation.m.Mul(scale.m)))
}

// Inverse returns the inverse transform (swap forward/inverse matrices).
func (t Transform) Inverse() Transform {
	return Transform{m: t.mInv, mInv: t.m}
}

func mulPoint(m Matrix4x4, p Vec3) Vec3 {
	x := m[0][0]*p.X + m[0][1]*p.Y + m[0][2]*p.Z + m[0][3]
	y := m[1][0]*p.X + m[1][1]*p.Y + m[1][2]*p.Z + m[1][3]
	z := m[2][0]*p.X + m[2][1]*p.Y + m[2][2]*p.Z + m[2][3]
	w := m[3][0]*p.X + m[3][1]*p.Y + m[3][2]*p.Z + m[3][3]
	if w != 1 && w != 0 {
		return Vec3{x / w, y / w, z / w}
	}
	return Vec3{x, y, z}
}

func mulDir(m Matrix4x4, d Vec3) Vec3 {
	return Vec3{
		X: m[0][0]*d.X + m[0][1]*d.Y + m[0][2]*d.Z,
		Y: m[1][0]*d.X + m[1][1]*d.Y + m[1][2]*d.Z,
		Z: m[2][0]*d.X + m[2][1]*d.Y + m[2][2]*d.Z,
	}
}

// Point transforms a position.
func (t Transform) Point(p Vec3) Vec3 { return mulPoint(t.m, p) }

// Direction transforms a direction (no translation).
func (t Transform) Direction(d Vec3) Vec3 { return mulDir(t.m, d) }

// Normal transforms a surface normal using the inverse transpose, so
// non-uniform scale does not skew the normal.
func (t Transform) Normal(n Vec3) Vec3 {
	mInvT := t.mInv.Transpose()
	return mulDir(mInvT, n)
}

// Ray transforms a ray's origin and direction.
func (t Transform) Ray(r Ray) Ray {
	return Ray{Origin: t.Point(r.Origin), Direction: t.Direction(r.Direction)}
}

// Bounds transforms an axis-aligned box by enumerating and re-bounding all
// 8 corners, since an affine transform of a box is in general not a box
// aligned to the same axes.
func (t Transform) Bounds(b AABB) AABB {
	corners := b.Corners()
	out := NewAABBFromPoints(t.Point(corners[0]))
	for _, c := range corners[1:] {
		out = out.Union(NewAABBFromPoints(t.Point(c)))
	}
	return out
}
