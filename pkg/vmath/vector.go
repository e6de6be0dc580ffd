package vmath

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
)

// Vector2 is an immutable 2D vector. Every operation returns a new value.
// The arithmetic is cp.Vector's; Vector2 adds serialisation tags and the
// zero-length guards the solver relies on.
type Vector2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

var (
	Zero  = Vector2{}
	Up    = Vector2{Y: -1}
	Down  = Vector2{Y: 1}
	Left  = Vector2{X: -1}
	Right = Vector2{X: 1}
)

func Vec(x, y float64) Vector2 {
	return Vector2{X: x, Y: y}
}

func (v Vector2) vec() cp.Vector { return cp.Vector(v) }

func (v Vector2) Add(o Vector2) Vector2   { return Vector2(v.vec().Add(o.vec())) }
func (v Vector2) Sub(o Vector2) Vector2   { return Vector2(v.vec().Sub(o.vec())) }
func (v Vector2) Scale(s float64) Vector2 { return Vector2(v.vec().Mult(s)) }
func (v Vector2) Neg() Vector2            { return Vector2(v.vec().Neg()) }
func (v Vector2) Dot(o Vector2) float64   { return v.vec().Dot(o.vec()) }

// Mul scales component-wise.
func (v Vector2) Mul(o Vector2) Vector2 {
	return Vector2{X: v.X * o.X, Y: v.Y * o.Y}
}

// Cross returns the z component of the 3D cross product of v and o.
func (v Vector2) Cross(o Vector2) float64 { return v.vec().Cross(o.vec()) }

func (v Vector2) Mag() float64   { return v.vec().Length() }
func (v Vector2) MagSq() float64 { return v.vec().LengthSq() }

// Normal returns the unit vector in the direction of v, or the zero vector
// when v has no length.
func (v Vector2) Normal() Vector2 {
	if v.Mag() < Epsilon {
		return Vector2{}
	}
	return Vector2(v.vec().Normalize())
}

// IsZero reports whether both components are within Epsilon of zero.
func (v Vector2) IsZero() bool {
	return math.Abs(v.X) < Epsilon && math.Abs(v.Y) < Epsilon
}

// ProjectOnto returns the component of v along axis. A zero axis yields zero.
func (v Vector2) ProjectOnto(axis Vector2) Vector2 {
	if axis.MagSq() < Epsilon*Epsilon {
		return Vector2{}
	}
	return Vector2(v.vec().Project(axis.vec()))
}

// Reflect mirrors v about the line spanned by normal: 2(v·n)n - v.
// Combined with Scale(-cof) this turns an incoming velocity into a damped bounce.
func (v Vector2) Reflect(normal Vector2) Vector2 {
	n := normal.Normal()
	return n.Scale(2 * v.Dot(n)).Sub(v)
}

// Perp rotates v by +90 degrees: (-y, x).
func (v Vector2) Perp() Vector2 { return Vector2(v.vec().Perp()) }

// Rotate rotates v by deg degrees.
func (v Vector2) Rotate(deg float64) Vector2 {
	return Vector2(v.vec().Rotate(cp.ForAngle(Radians(deg))))
}

func (v Vector2) Distance(o Vector2) float64   { return v.vec().Distance(o.vec()) }
func (v Vector2) DistanceSq(o Vector2) float64 { return v.vec().DistanceSq(o.vec()) }

// Lerp interpolates between v and o by t.
func (v Vector2) Lerp(o Vector2, t float64) Vector2 { return Vector2(v.vec().Lerp(o.vec(), t)) }

// Approx reports whether v and o are equal within Epsilon per component.
func (v Vector2) Approx(o Vector2) bool {
	return Approximately(v.X, o.X) && Approximately(v.Y, o.Y)
}

// IsFinite reports whether neither component is NaN or infinite.
func (v Vector2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

func (v Vector2) String() string {
	return fmt.Sprintf("(%.3f, %.3f)", v.X, v.Y)
}
