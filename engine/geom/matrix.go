package geom

import "math"

// Matrix is a 4x4 affine transform in row-major order, applied to column vectors.
// The translation lives in the last column.
type Matrix [16]float32

// Identity returns the identity transform
func Identity() Matrix {
	return Matrix{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translation returns a transform that moves points by v
func Translation(v Vector3) Matrix {
	m := Identity()
	m[3], m[7], m[11] = float32(v.X), float32(v.Y), float32(v.Z)
	return m
}

// Scaling returns a transform that scales each axis by s
func Scaling(s Vector3) Matrix {
	m := Identity()
	m[0], m[5], m[10] = float32(s.X), float32(s.Y), float32(s.Z)
	return m
}

// RotationY returns a rotation of radians around the Y axis
func RotationY(radians float64) Matrix {
	c, s := float32(math.Cos(radians)), float32(math.Sin(radians))
	m := Identity()
	m[0], m[2] = c, s
	m[8], m[10] = -s, c
	return m
}

// IsZero reports if m is the all-zero matrix, as found in a never-initialized transform
func (m Matrix) IsZero() bool {
	return m == Matrix{}
}

// Mul returns m × o, i.e. o is applied first
func (m Matrix) Mul(o Matrix) Matrix {
	var r Matrix
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[row*4+k] * o[k*4+col]
			}
			r[row*4+col] = sum
		}
	}
	return r
}

// TransformPoint applies m to the point p
func (m Matrix) TransformPoint(p Vector3) Vector3 {
	x, y, z := float32(p.X), float32(p.Y), float32(p.Z)
	return Vector3{
		Coord(m[0]*x + m[1]*y + m[2]*z + m[3]),
		Coord(m[4]*x + m[5]*y + m[6]*z + m[7]),
		Coord(m[8]*x + m[9]*y + m[10]*z + m[11]),
	}
}

// Position returns the translation part of m
func (m Matrix) Position() Vector3 {
	return Vector3{Coord(m[3]), Coord(m[7]), Coord(m[11])}
}
