package vmath

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorArithmetic(t *testing.T) {
	a := Vec(3, 4)
	b := Vec(1, -2)

	assert.Equal(t, Vec(4, 2), a.Add(b))
	assert.Equal(t, Vec(2, 6), a.Sub(b))
	assert.Equal(t, Vec(6, 8), a.Scale(2))
	assert.Equal(t, Vec(3, -8), a.Mul(b))
	assert.Equal(t, -5.0, a.Dot(b))
	assert.Equal(t, -10.0, a.Cross(b))
	assert.Equal(t, 5.0, a.Mag())
	assert.Equal(t, 25.0, a.MagSq())
	assert.Equal(t, Vec(-3, -4), a.Neg())
	assert.InDelta(t, math.Sqrt(40), a.Distance(b), 1e-12)
	assert.InDelta(t, 40.0, a.DistanceSq(b), 1e-12)
	assert.True(t, a.Lerp(b, 0.5).Approx(Vec(2, 1)))
	assert.True(t, a.Normal().Approx(Vec(0.6, 0.8)))
}

func TestVectorJSONTags(t *testing.T) {
	raw, err := json.Marshal(Vec(1.5, -2))
	require.NoError(t, err)
	assert.JSONEq(t, `{"x": 1.5, "y": -2}`, string(raw))
}

func TestNormalOfZeroVectorIsZero(t *testing.T) {
	n := Zero.Normal()
	assert.Equal(t, Zero, n)
	assert.True(t, n.IsFinite())

	u := Vec(0, -7).Normal()
	assert.True(t, u.Approx(Up))
}

func TestProjectOnto(t *testing.T) {
	v := Vec(3, 4)
	assert.True(t, v.ProjectOnto(Vec(10, 0)).Approx(Vec(3, 0)))
	assert.True(t, v.ProjectOnto(Vec(0, -2)).Approx(Vec(0, 4)))
	assert.Equal(t, Zero, v.ProjectOnto(Zero))
}

func TestReflectBouncesOffSurface(t *testing.T) {
	// falling onto a ground plane whose normal points up the screen
	incoming := Vec(2, 10)
	out := incoming.Scale(-0.5).Reflect(Up)
	assert.InDelta(t, 1.0, out.X, 1e-12)
	assert.InDelta(t, -5.0, out.Y, 1e-12)
}

func TestPerpAndRotate(t *testing.T) {
	assert.Equal(t, Vec(-2, 1), Vec(1, 2).Perp())

	r := Up.Rotate(90)
	assert.InDelta(t, 1.0, r.X, 1e-12)
	assert.InDelta(t, 0.0, r.Y, 1e-12)
}

func TestMatrixComposition(t *testing.T) {
	m := Identity()
	m.TranslateX(10)
	m.TranslateY(-5)
	m.Rotate(45)
	m.Rotate(45)

	assert.Equal(t, Vec(10, -5), m.Translation())
	assert.InDelta(t, 90.0, m.Rotation(), 1e-12)

	p := m.Apply(Vec(1, 0))
	assert.InDelta(t, 10.0, p.X, 1e-12)
	assert.InDelta(t, -4.0, p.Y, 1e-12)

	m.SetTranslation(Vec(1, 1))
	assert.Equal(t, Vec(1, 1), m.Translation())

	lin := m.ApplyLinear(Vec(0, -1))
	assert.InDelta(t, 1.0, lin.X, 1e-12)
	assert.InDelta(t, 0.0, lin.Y, 1e-12)
}

func TestRotationMatrixMatchesVectorRotate(t *testing.T) {
	for _, deg := range []float64{0, 30, 90, 135, 270, -45} {
		m := RotationMatrix(deg)
		want := Vec(3, -2).Rotate(deg)
		got := m.Apply(Vec(3, -2))
		assert.InDelta(t, want.X, got.X, 1e-9, "deg=%v", deg)
		assert.InDelta(t, want.Y, got.Y, 1e-9, "deg=%v", deg)
	}
}

func TestWrapDegrees(t *testing.T) {
	assert.Equal(t, 10.0, WrapDegrees(370))
	assert.Equal(t, 350.0, WrapDegrees(-10))
	assert.Equal(t, 0.0, WrapDegrees(720))
	w := WrapDegrees(-1e-18)
	assert.True(t, w >= 0 && w < 360)
}

func TestApproximately(t *testing.T) {
	assert.True(t, Approximately(1, 1+1e-8))
	assert.False(t, Approximately(1, 1.01))
	assert.True(t, Approximately(0, 0))
	assert.False(t, Approximately(math.Pi, 3))
}
