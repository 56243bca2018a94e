// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package tfx

import "math"

// Procedural curve helpers used by the interpreter. Angles are expressed in
// rotations (full turns), not radians. The polynomial estimates and magic
// constants must not be "improved"; authored content depends on their exact
// shape.

func sinRotationsClamped(a Vec4) Vec4 {
	y := a.Mul(a.Abs().Scale(-16).AddScalar(8))
	return y.Mul(y.Abs().Scale(0.225).AddScalar(0.775))
}

// sinRotations wraps a to [-0.5, 0.5] turns and applies a refined parabolic
// sine estimate.
func sinRotations(a Vec4) Vec4 {
	return sinRotationsClamped(a.Sub(a.Round()))
}

func cosRotations(a Vec4) Vec4 {
	return sinRotations(a.AddScalar(0.25))
}

// sinCosRotations yields sin in x/z and cos in y/w.
func sinCosRotations(a Vec4) Vec4 {
	return sinRotations(a.Add(Vec4{0, 0.25, 0, 0.25}))
}

func pseudoSinRotationsClamped(a Vec4) Vec4 {
	return a.Mul(a.Abs().Scale(-16).AddScalar(8))
}

func pseudoSinRotations(a Vec4) Vec4 {
	return pseudoSinRotationsClamped(a.Sub(a.Round()))
}

// triangleWave maps x to a triangle wave in [0, 1] with period 1.
func triangleWave(x Vec4) Vec4 {
	return x.Sub(x.Round()).Abs().Scale(2)
}

// jitterCurve is a hermite-smoothed scaled sum of sines seeded from x.x.
func jitterCurve(x Vec4) Vec4 {
	rotations := x.XXXX().Mul(Vec4{4.67, 2.99, 1.08, 1.35}).Add(Vec4{0.52, 0.37, 0.16, 0.79})

	a := rotations.Sub(rotations.Round())
	ma := a.Abs().Scale(-16).AddScalar(8)
	sa := a.Scale(0.25)
	v := sa.Dot(ma) + 0.5

	// hermite smooth interpolation (3*v^2 - 2*v^3)
	v2 := v * v
	return Splat((-2*v + 3) * v2)
}

// wanderCurve combines two pseudo-sine stacks into a slow meandering value.
func wanderCurve(x Vec4) Vec4 {
	rot0 := x.XXXX().Mul(Vec4{4.08, 1.02, 3.0 / 5.37, 3.0 / 9.67}).Add(Vec4{0.92, 0.33, 0.26, 0.54})
	rot1 := x.XXXX().Mul(Vec4{1.83, 3.09, 0.39, 0.87}).Add(Vec4{0.12, 0.37, 0.16, 0.79})
	sines0 := pseudoSinRotations(rot0)
	sines1 := pseudoSinRotations(rot1).Mul(Vec4{0.02, 0.02, 0.28, 0.28})
	return Splat(0.5 + sines0.Dot(sines1))
}

// scalarFract is the truncation-based fractional part, negative for
// negative inputs.
func scalarFract(f float32) float32 {
	return f - float32(math.Trunc(float64(f)))
}

// randMagic holds reciprocals of primes scaled by 1e-6.
var randMagic = Vec4{1 / 1.043501, 1 / 0.794471, 1 / 0.113777, 1 / 0.015101}

func randStep(v float32) float32 {
	val := scalarFract(Splat(v).Dot(randMagic))
	return scalarFract(val * val * 251)
}

// randCurve hashes floor(x.x) into a repeatable pseudo-random value.
func randCurve(x Vec4) Vec4 {
	return Splat(randStep(float32(math.Floor(float64(x[0])))))
}

// randSmoothCurve hermite-interpolates randCurve between adjacent seeds.
func randSmoothCurve(x Vec4) Vec4 {
	v := x[0]
	v0 := float32(math.Round(float64(v)))
	v1 := v0 + 1
	f := v - v0
	f2 := f * f

	// hermite smooth interpolation (3*f^2 - 2*f^3)
	smoothF := (-2*f + 3) * f2

	val0 := randStep(v0)
	val1 := randStep(v1)
	return Splat(val0 + (val1-val0)*smoothF)
}

// cubicPoly evaluates a scalar cubic across all lanes in estrin form, with
// the four coefficients packed into one vector.
func cubicPoly(x, coefficients Vec4) Vec4 {
	high := x.Scale(coefficients[0]).Add(Splat(coefficients[1]))
	low := x.Scale(coefficients[2]).Add(Splat(coefficients[3]))
	x2 := x.Mul(x)
	return high.Mul(x2).Add(low)
}

// spline4Const evaluates a cubic polynomial across four channels and selects
// the active channel with bit masks. The channel mask is built by XORing each
// threshold lane with its neighbor, and the selected lane is extracted by
// XOR-folding the masked lanes; the float bit patterns matter, so the lane
// combination is done on the raw bits.
func spline4Const(x, c3, c2, c1, c0, thresholds Vec4) Vec4 {
	poly := x.Mul(c3).Add(c2).Mul(x.Mul(x)).Add(c1.Mul(x).Add(c0))

	var mask [4]uint32
	for i := 0; i < 4; i++ {
		if thresholds[i] <= x[i] {
			mask[i] = ^uint32(0)
		}
	}

	// lane i of the channel mask is mask[i] ^ mask[i+1], with zero shifted
	// in at the top lane
	var lane [4]uint32
	for i := 0; i < 4; i++ {
		next := uint32(0)
		if i < 3 {
			next = mask[i+1]
		}
		lane[i] = math.Float32bits(poly[i]) & (mask[i] ^ next)
	}

	a := [4]uint32{lane[2] ^ lane[0], lane[3] ^ lane[1], lane[0] ^ lane[2], lane[1] ^ lane[3]}
	r := [4]uint32{a[3] ^ a[0], a[2] ^ a[1], a[1] ^ a[2], a[0] ^ a[3]}

	var out Vec4
	for i := range out {
		out[i] = math.Float32frombits(r[i])
	}
	return out
}

// step yields 1 per lane where x >= y.
func step(y, x Vec4) Vec4 {
	var out Vec4
	for i := range out {
		if x[i] >= y[i] {
			out[i] = 1
		}
	}
	return out
}

// fakeXor emulates XOR on 0/1 float masks: (a+b) mod 2.
func fakeXor(a, b Vec4) Vec4 {
	s := a.Add(b)
	var out Vec4
	for i := range out {
		m := float32(math.Mod(float64(s[i]), 2))
		if m < 0 {
			m += 2
		}
		out[i] = m
	}
	return out
}

// spline8Const evaluates a cubic polynomial across eight channels split over
// two coefficient sets and picks whichever half the input falls into.
func spline8Const(x, c3, c2, c1, c0, d3, d2, d1, d0, cThresholds, dThresholds Vec4) Vec4 {
	cHigh := c3.Mul(x).Add(c2)
	cLow := c1.Mul(x).Add(c0)
	dHigh := d3.Mul(x).Add(d2)
	dLow := d1.Mul(x).Add(d0)

	x2 := x.Mul(x)

	cSpline := cHigh.Mul(x2).Add(cLow)
	dSpline := dHigh.Mul(x2).Add(dLow)

	cMask := step(cThresholds, x)
	dMask := step(dThresholds, x)

	cChannel := fakeXor(cMask, cMask.Swizzle(1, 2, 3, 3))
	cChannel[3] = cMask[3]
	dChannel := fakeXor(dMask, dMask.Swizzle(1, 2, 3, 3))
	dChannel[3] = dMask[3]

	cIn4 := cSpline.Mul(cChannel)
	dIn4 := dSpline.Mul(dChannel)

	cResult := cIn4[0] + cIn4[1] + cIn4[2] + cIn4[3]
	dResult := dIn4[0] + dIn4[1] + dIn4[2] + dIn4[3]

	if dMask[0] > 0 {
		return Splat(dResult)
	}
	return Splat(cResult)
}

// gradient4Const adds up to four color deltas onto a base color, weighted by
// where x falls between the thresholds.
func gradient4Const(x, baseColor, cred, cgreen, cblue, calpha, thresholds Vec4) Vec4 {
	offsetsFromX := x.Sub(thresholds)
	segmentInterval := Vec4{thresholds[1], thresholds[2], thresholds[3], 1}.Sub(thresholds)

	allPositive := true
	for i := range offsetsFromX {
		if !(offsetsFromX[i] > 0) {
			allPositive = false
			break
		}
	}
	safeDivision := Vec4Zero
	if allPositive {
		safeDivision = Vec4One
	}

	division := safeDivision
	if offsetsFromX != Vec4Zero {
		division = offsetsFromX.Div(segmentInterval)
	}
	percentages := division.Saturate()

	xInfluence := cred.Mul(percentages)
	yInfluence := cgreen.Mul(percentages)
	zInfluence := cblue.Mul(percentages)
	wInfluence := calpha.Mul(percentages)

	return baseColor.Add(Vec4{
		Vec4One.Dot(xInfluence),
		Vec4One.Dot(yInfluence),
		Vec4One.Dot(zInfluence),
		Vec4One.Dot(wInfluence),
	})
}

// gradientWeights computes the saturated per-segment weighting of offsets
// against intervals. Segments narrower than the epsilon degenerate to a step
// on the offset's sign.
func gradientWeights(offsets, intervals Vec4) Vec4 {
	var out Vec4
	for i := range out {
		if absf(intervals[i]) > 0.0001 {
			out[i] = clampf(offsets[i]/intervals[i], 0, 1)
		} else if offsets[i] >= 0 {
			out[i] = 1
		}
	}
	return out
}

// foldSum adds the four lanes in the fixed shuffle order the pairwise SIMD
// reduction uses.
func foldSum(v Vec4) float32 {
	return (v[3] + v[1]) + (v[2] + v[0])
}

// gradient8Const is the eight-point variant of gradient4Const, with two
// threshold vectors and two banks of color deltas. The first bank's last
// interval bridges into the second bank's first threshold.
func gradient8Const(x Vec4, c [11]Vec4) Vec4 {
	base, t0, t1 := c[0], c[9], c[10]

	offsets0 := x.Sub(t0)
	offsets1 := x.Sub(t1)
	intervals1 := Vec4{t1[1], t1[2], t1[3], 1}.Sub(t1)
	intervals0 := Vec4{t0[1], t0[2], t0[3], t1[0]}.Sub(t0)

	w0 := gradientWeights(offsets0, intervals0)
	w1 := gradientWeights(offsets1, intervals1)

	return base.Add(Vec4{
		foldSum(c[1].Mul(w0).Add(c[5].Mul(w1))),
		foldSum(c[2].Mul(w0).Add(c[6].Mul(w1))),
		foldSum(c[3].Mul(w0).Add(c[7].Mul(w1))),
		foldSum(c[4].Mul(w0).Add(c[8].Mul(w1))),
	})
}

func absf(f float32) float32 {
	return float32(math.Abs(float64(f)))
}

func clampf(f, lo, hi float32) float32 {
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}
