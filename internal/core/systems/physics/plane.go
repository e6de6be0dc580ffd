package physics

import (
	"fmt"

	"github.com/zeusync/unpossible/pkg/vmath"
)

const defaultSurfaceCof = 0.4

// Plane is an infinite, immovable boundary. Bodies are pushed to the side the
// normal points to.
type Plane struct {
	Point  vmath.Vector2
	Normal vmath.Vector2
	Cof    float64
}

// NewPlane normalises normal. With screen coordinates a floor has normal (0, -1).
func NewPlane(point, normal vmath.Vector2) (*Plane, error) {
	n := normal.Normal()
	if n.IsZero() || !point.IsFinite() {
		return nil, fmt.Errorf("%w: %v", ErrDegenerateNormal, normal)
	}
	return &Plane{Point: point, Normal: n, Cof: defaultSurfaceCof}, nil
}

func (p *Plane) Kind() Kind       { return KindPlane }
func (p *Plane) RigidBody() *Body { return nil }
func (p *Plane) sealed()          {}

// Right is the normal rotated by 90 degrees, the plane's tangent direction.
func (p *Plane) Right() vmath.Vector2 {
	return p.Normal.Rotate(90).Normal()
}

// Distance returns the signed distance from pt to the plane along the normal.
func (p *Plane) Distance(pt vmath.Vector2) float64 {
	return pt.Sub(p.Point).Dot(p.Normal)
}

// SetCof changes the surface coefficient.
func (p *Plane) SetCof(cof float64) error {
	if !validCof(cof) {
		return fmt.Errorf("%w: %v", ErrInvalidCof, cof)
	}
	p.Cof = cof
	return nil
}
