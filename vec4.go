// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package tfx

import (
	"fmt"
	"math"
)

// Vec4 is a 4-component float vector, the value type of the evaluation stack,
// the constants table and the output buffer.
type Vec4 [4]float32

// Vec4 constants used across the evaluator.
var (
	Vec4Zero = Vec4{0, 0, 0, 0}
	Vec4One  = Vec4{1, 1, 1, 1}
)

// Splat returns a Vec4 with all components set to v.
func Splat(v float32) Vec4 {
	return Vec4{v, v, v, v}
}

func (v Vec4) Add(o Vec4) Vec4 {
	return Vec4{v[0] + o[0], v[1] + o[1], v[2] + o[2], v[3] + o[3]}
}

func (v Vec4) Sub(o Vec4) Vec4 {
	return Vec4{v[0] - o[0], v[1] - o[1], v[2] - o[2], v[3] - o[3]}
}

func (v Vec4) Mul(o Vec4) Vec4 {
	return Vec4{v[0] * o[0], v[1] * o[1], v[2] * o[2], v[3] * o[3]}
}

func (v Vec4) Div(o Vec4) Vec4 {
	return Vec4{v[0] / o[0], v[1] / o[1], v[2] / o[2], v[3] / o[3]}
}

// AddScalar adds s to every component.
func (v Vec4) AddScalar(s float32) Vec4 {
	return Vec4{v[0] + s, v[1] + s, v[2] + s, v[3] + s}
}

func (v Vec4) Scale(s float32) Vec4 {
	return Vec4{v[0] * s, v[1] * s, v[2] * s, v[3] * s}
}

func (v Vec4) Neg() Vec4 {
	return Vec4{-v[0], -v[1], -v[2], -v[3]}
}

func (v Vec4) Dot(o Vec4) float32 {
	return v[0]*o[0] + v[1]*o[1] + v[2]*o[2] + v[3]*o[3]
}

func (v Vec4) Min(o Vec4) Vec4 {
	return Vec4{
		minf(v[0], o[0]), minf(v[1], o[1]), minf(v[2], o[2]), minf(v[3], o[3]),
	}
}

func (v Vec4) Max(o Vec4) Vec4 {
	return Vec4{
		maxf(v[0], o[0]), maxf(v[1], o[1]), maxf(v[2], o[2]), maxf(v[3], o[3]),
	}
}

// Clamp clamps each component between the matching components of lo and hi.
func (v Vec4) Clamp(lo, hi Vec4) Vec4 {
	return v.Max(lo).Min(hi)
}

// Saturate clamps each component to [0, 1].
func (v Vec4) Saturate() Vec4 {
	return v.Clamp(Vec4Zero, Vec4One)
}

func (v Vec4) Abs() Vec4 {
	return v.mapf(func(f float32) float32 {
		return float32(math.Abs(float64(f)))
	})
}

// Sign returns -1, 0 or 1 per component, keeping NaN.
func (v Vec4) Sign() Vec4 {
	return v.mapf(func(f float32) float32 {
		switch {
		case f > 0:
			return 1
		case f < 0:
			return -1
		default:
			return f
		}
	})
}

func (v Vec4) Floor() Vec4 {
	return v.mapf(func(f float32) float32 {
		return float32(math.Floor(float64(f)))
	})
}

func (v Vec4) Ceil() Vec4 {
	return v.mapf(func(f float32) float32 {
		return float32(math.Ceil(float64(f)))
	})
}

// Round rounds half away from zero per component.
func (v Vec4) Round() Vec4 {
	return v.mapf(func(f float32) float32 {
		return float32(math.Round(float64(f)))
	})
}

// Fract returns v - floor(v) per component, the HLSL frac() semantic.
func (v Vec4) Fract() Vec4 {
	return v.mapf(func(f float32) float32 {
		return f - float32(math.Floor(float64(f)))
	})
}

// Swizzle reorders the components; each index selects a source component 0..3.
func (v Vec4) Swizzle(s0, s1, s2, s3 uint8) Vec4 {
	return Vec4{v[s0&3], v[s1&3], v[s2&3], v[s3&3]}
}

// XXXX broadcasts the first component to all four.
func (v Vec4) XXXX() Vec4 {
	return Splat(v[0])
}

// String implements fmt.Stringer, matching the format used in disassembly.
func (v Vec4) String() string {
	return fmt.Sprintf("[%v, %v, %v, %v]", v[0], v[1], v[2], v[3])
}

func (v Vec4) mapf(f func(float32) float32) Vec4 {
	return Vec4{f(v[0]), f(v[1]), f(v[2]), f(v[3])}
}

// Mat4 is a column-major 4x4 matrix: four Vec4 axes like the source data it
// models. Extern matrix loads push the axes onto the stack in order.
type Mat4 [4]Vec4

// Mat4Identity is the identity matrix, the default value for matrix fields.
var Mat4Identity = Mat4{
	{1, 0, 0, 0},
	{0, 1, 0, 0},
	{0, 0, 1, 0},
	{0, 0, 0, 1},
}

// MulVec4 transforms v by m: x*axis0 + y*axis1 + z*axis2 + w*axis3.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	r := m[0].Scale(v[0])
	r = r.Add(m[1].Scale(v[1]))
	r = r.Add(m[2].Scale(v[2]))
	r = r.Add(m[3].Scale(v[3]))
	return r
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// boolsToVec maps a per-component comparison result to boolean-as-float.
func boolsToVec(a, b, c, d bool) Vec4 {
	bf := func(v bool) float32 {
		if v {
			return 1
		}
		return 0
	}
	return Vec4{bf(a), bf(b), bf(c), bf(d)}
}
