package physics

import (
	"fmt"

	"github.com/zeusync/unpossible/pkg/vmath"
)

// Collider is a closed polyline, typically uneven terrain. Each edge's outward
// normal is (dy, -dx) of its direction, so terrain listed left to right faces up.
type Collider struct {
	Points []vmath.Vector2
	Cof    float64
}

// Segment is one collider edge.
type Segment struct {
	A, B vmath.Vector2
}

func NewCollider(points []vmath.Vector2) (*Collider, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewPoints, len(points))
	}
	for i, p := range points {
		if !p.IsFinite() {
			return nil, fmt.Errorf("%w: point %d is not finite", ErrInvalidDimension, i)
		}
	}
	pts := make([]vmath.Vector2, len(points))
	copy(pts, points)
	return &Collider{Points: pts, Cof: defaultSurfaceCof}, nil
}

func (c *Collider) Kind() Kind       { return KindCollider }
func (c *Collider) RigidBody() *Body { return nil }
func (c *Collider) sealed()          {}

// Edges returns the edges of the closed polyline. A two-point collider has a
// single edge.
func (c *Collider) Edges() []Segment {
	n := len(c.Points)
	if n < 2 {
		return nil
	}
	if n == 2 {
		return []Segment{{A: c.Points[0], B: c.Points[1]}}
	}
	edges := make([]Segment, n)
	for i := range c.Points {
		edges[i] = Segment{A: c.Points[i], B: c.Points[(i+1)%n]}
	}
	return edges
}

// Normal is the outward unit normal of the segment, zero for a degenerate one.
func (s Segment) Normal() vmath.Vector2 {
	d := s.B.Sub(s.A)
	return vmath.Vec(d.Y, -d.X).Normal()
}

// ClosestPoint returns the point on the segment nearest to p.
func (s Segment) ClosestPoint(p vmath.Vector2) vmath.Vector2 {
	d := s.B.Sub(s.A)
	lenSq := d.MagSq()
	if lenSq < vmath.Epsilon {
		return s.A
	}
	t := vmath.Clamp(p.Sub(s.A).Dot(d)/lenSq, 0, 1)
	return s.A.Add(d.Scale(t))
}

func (c *Collider) SetCof(cof float64) error {
	if !validCof(cof) {
		return fmt.Errorf("%w: %v", ErrInvalidCof, cof)
	}
	c.Cof = cof
	return nil
}
