package vmath

import "math"

// Matrix2D is an affine transform made of a rotation and a translation.
// The zero value is not usable; start from Identity.
type Matrix2D struct {
	a, b, c, d float64 // rotation, row major: [a b; c d]
	tx, ty     float64
	rotation   float64 // degrees, kept for Rotation()
}

func Identity() Matrix2D {
	return Matrix2D{a: 1, d: 1}
}

// RotationMatrix returns a pure rotation by deg degrees.
func RotationMatrix(deg float64) Matrix2D {
	m := Identity()
	m.Rotate(deg)
	return m
}

// Translate moves the transform by v in world space.
func (m *Matrix2D) Translate(v Vector2) {
	m.tx += v.X
	m.ty += v.Y
}

func (m *Matrix2D) TranslateX(x float64) {
	m.tx += x
}

func (m *Matrix2D) TranslateY(y float64) {
	m.ty += y
}

// Rotate composes an additional rotation of deg degrees onto the linear part.
func (m *Matrix2D) Rotate(deg float64) {
	s, c := math.Sincos(Radians(deg))
	a := m.a*c + m.b*s
	b := -m.a*s + m.b*c
	cc := m.c*c + m.d*s
	d := -m.c*s + m.d*c
	m.a, m.b, m.c, m.d = a, b, cc, d
	m.rotation = WrapDegrees(m.rotation + deg)
}

func (m Matrix2D) Translation() Vector2 {
	return Vector2{X: m.tx, Y: m.ty}
}

func (m *Matrix2D) SetTranslation(v Vector2) {
	m.tx, m.ty = v.X, v.Y
}

// Rotation returns the accumulated rotation in degrees, wrapped to [0, 360).
func (m Matrix2D) Rotation() float64 {
	return m.rotation
}

// Apply transforms v by the rotation followed by the translation.
func (m Matrix2D) Apply(v Vector2) Vector2 {
	return Vector2{
		X: m.a*v.X + m.b*v.Y + m.tx,
		Y: m.c*v.X + m.d*v.Y + m.ty,
	}
}

// ApplyLinear transforms v by the rotation only.
func (m Matrix2D) ApplyLinear(v Vector2) Vector2 {
	return Vector2{
		X: m.a*v.X + m.b*v.Y,
		Y: m.c*v.X + m.d*v.Y,
	}
}
