// SPDX-License-Identifier: GPL-2.0-or-later
package vec

import (
	"github.com/chewxy/math32"
)

// Vec3 is a float32 vector, matching the precision of the records
// stored in a compiled bsp.
type Vec3 [3]float32

func VFromA(a [3]float32) Vec3 {
	return Vec3{a[0], a[1], a[2]}
}

func (v Vec3) Array() [3]float32 {
	return [3]float32(v)
}

// Length returns the length of the vector
func (v Vec3) Length() float32 {
	return math32.Sqrt(Dot(v, v))
}

// Add returns a + b
func Add(a, b Vec3) Vec3 {
	return Vec3{
		a[0] + b[0],
		a[1] + b[1],
		a[2] + b[2],
	}
}

// Sub returns a - b
func Sub(a, b Vec3) Vec3 {
	return Vec3{
		a[0] - b[0],
		a[1] - b[1],
		a[2] - b[2],
	}
}

// Scale returns the vector multiplied by the skalar s
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{
		v[0] * s,
		v[1] * s,
		v[2] * s,
	}
}

// Normalize returns the normalized vector
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Dot returns a dot b
func Dot(a Vec3, b Vec3) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// DoublePrecDot return a dot b calculated in double precision
func DoublePrecDot(a Vec3, b Vec3) float32 {
	p := func(x, y float32) float64 {
		return float64(x) * float64(y)
	}
	return float32(p(a[0], b[0]) + p(a[1], b[1]) + p(a[2], b[2]))
}

// Cross returns a cross b
func Cross(a, b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}
