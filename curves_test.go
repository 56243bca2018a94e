// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package tfx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func requireVecInDelta(t *testing.T, want, got Vec4, delta float64) {
	t.Helper()
	for i := 0; i < 4; i++ {
		require.InDelta(t, want[i], got[i], delta, "lane %d of %v vs %v", i, want, got)
	}
}

func TestSinRotations(t *testing.T) {
	require.Equal(t, Vec4Zero, sinRotations(Vec4Zero))

	// quarter turn peaks, half turn crosses zero
	requireVecInDelta(t, Splat(1), sinRotations(Splat(0.25)), 1e-3)
	requireVecInDelta(t, Splat(-1), sinRotations(Splat(-0.25)), 1e-3)
	requireVecInDelta(t, Vec4Zero, sinRotations(Splat(0.5)), 1e-3)

	// period is one full turn
	requireVecInDelta(t, sinRotations(Splat(0.1)), sinRotations(Splat(3.1)), 1e-5)
}

func TestCosRotations(t *testing.T) {
	requireVecInDelta(t, Splat(1), cosRotations(Vec4Zero), 1e-3)
	requireVecInDelta(t, Vec4Zero, cosRotations(Splat(0.25)), 1e-3)
	requireVecInDelta(t, Splat(-1), cosRotations(Splat(0.5)), 1e-3)
}

func TestSinCosRotations(t *testing.T) {
	// sin in x/z, cos in y/w
	v := sinCosRotations(Splat(0.125))
	s := sinRotations(Splat(0.125))[0]
	c := cosRotations(Splat(0.125))[0]
	requireVecInDelta(t, Vec4{s, c, s, c}, v, 1e-6)
}

func TestTriangleWave(t *testing.T) {
	require.Equal(t, Vec4Zero, triangleWave(Vec4Zero))
	require.Equal(t, Splat(0.5), triangleWave(Splat(0.25)))
	require.Equal(t, Splat(0.5), triangleWave(Splat(-0.25)))
	require.Equal(t, Splat(1), triangleWave(Splat(0.5)))
	requireVecInDelta(t, triangleWave(Splat(0.2)), triangleWave(Splat(2.2)), 1e-6)
}

func TestJitterWanderScalarOutput(t *testing.T) {
	for _, x := range []float32{0, 0.37, 1.5, -2.25, 10} {
		j := jitterCurve(Splat(x))
		w := wanderCurve(Splat(x))
		for i := 1; i < 4; i++ {
			require.Equal(t, j[0], j[i])
			require.Equal(t, w[0], w[i])
		}
	}
}

func TestRandCurve(t *testing.T) {
	// all inputs with the same integer part share one seed
	require.Equal(t, randCurve(Splat(1.2)), randCurve(Splat(1.9)))
	require.NotEqual(t, randCurve(Splat(1.2)), randCurve(Splat(2.2)))

	require.Equal(t, Vec4Zero, randCurve(Vec4Zero))
}

func TestRandSmoothCurve(t *testing.T) {
	// at a whole seed the smooth variant passes through the stepped one
	require.Equal(t, randSmoothCurve(Splat(2)), Splat(randStep(2)))

	// continuity scale check: nearby inputs stay nearby
	a := randSmoothCurve(Splat(2.5))
	b := randSmoothCurve(Splat(2.5001))
	require.InDelta(t, float64(a[0]), float64(b[0]), 1e-2)
}

func TestSpline4ConstSelectsChannel(t *testing.T) {
	// constant polynomial in channel one
	x := Splat(0.5)
	c0 := Splat(5)
	thresholds := Vec4{0, 9, 9, 9}
	got := spline4Const(x, Vec4Zero, Vec4Zero, Vec4Zero, c0, thresholds)
	require.Equal(t, Splat(5), got)

	// below every threshold nothing is selected
	got = spline4Const(Splat(-1), Vec4Zero, Vec4Zero, Vec4Zero, c0, Vec4{0, 9, 9, 9})
	require.Equal(t, Vec4Zero, got)
}

func TestSpline4ConstLinearSegment(t *testing.T) {
	// y = 2x + 1 active in the first channel
	c1 := Splat(2)
	c0 := Splat(1)
	got := spline4Const(Splat(3), Vec4Zero, Vec4Zero, c1, c0, Vec4{0, 9, 9, 9})
	require.Equal(t, Splat(7), got)
}

func TestSpline8ConstHalves(t *testing.T) {
	c0 := Vec4{7, 0, 0, 0}
	d0 := Vec4{3, 0, 0, 0}
	cThresholds := Vec4{0, 10, 10, 10}

	// x below the second bank's range uses the first bank
	got := spline8Const(Splat(1),
		Vec4Zero, Vec4Zero, Vec4Zero, c0,
		Vec4Zero, Vec4Zero, Vec4Zero, d0,
		cThresholds, Vec4{10, 10, 10, 10})
	require.Equal(t, Splat(7), got)

	// once x reaches the second bank's first threshold, it wins
	got = spline8Const(Splat(1),
		Vec4Zero, Vec4Zero, Vec4Zero, c0,
		Vec4Zero, Vec4Zero, Vec4Zero, d0,
		cThresholds, Vec4{0, 10, 10, 10})
	require.Equal(t, Splat(3), got)
}

func TestGradient4Const(t *testing.T) {
	base := Vec4{1, 1, 1, 1}
	cred := Vec4{1, 2, 3, 4}
	cgreen := Vec4{0.5, 0.5, 0.5, 0.5}
	cblue := Vec4Zero
	calpha := Vec4{0, 0, 0, 1}
	thresholds := Vec4{0, 0.25, 0.5, 0.75}

	// far past every threshold all the deltas apply in full
	got := gradient4Const(Splat(10), base, cred, cgreen, cblue, calpha, thresholds)
	require.Equal(t, Vec4{11, 3, 1, 2}, got)

	// before the first threshold the base color passes through
	got = gradient4Const(Splat(-1), base, cred, cgreen, cblue, calpha, thresholds)
	require.Equal(t, base, got)
}

func TestGradient8ConstBasePassthrough(t *testing.T) {
	var c [11]Vec4
	c[0] = Vec4{0.25, 0.5, 0.75, 1}
	c[9] = Vec4{0, 0.1, 0.2, 0.3}
	c[10] = Vec4{0.4, 0.5, 0.6, 0.7}
	require.Equal(t, c[0], gradient8Const(Splat(0.5), c))
}

func TestGradient8ConstFullWeights(t *testing.T) {
	var c [11]Vec4
	c[0] = Vec4Zero
	// one unit of red per segment in the first bank
	c[1] = Vec4{1, 1, 1, 1}
	c[9] = Vec4{0, 0.1, 0.2, 0.3} // first bank thresholds
	c[10] = Vec4{10, 11, 12, 13}  // second bank out of reach

	got := gradient8Const(Splat(5), c)
	// segments 0..2 saturate; the last segment of the first bank runs
	// from t0.w to the second bank's first threshold and is partially
	// crossed at x=5
	bridged := (float32(5) - c[9][3]) / (c[10][0] - c[9][3])
	requireVecInDelta(t, Vec4{3 + bridged, 0, 0, 0}, got, 1e-6)
}
