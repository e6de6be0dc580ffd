package physics

import (
	"fmt"

	"github.com/zeusync/unpossible/pkg/vmath"
)

type Sphere struct {
	Body
	Radius float64
}

func NewSphere(center vmath.Vector2, radius float64, opts ...BodyOption) (*Sphere, error) {
	if !validExtent(radius) {
		return nil, fmt.Errorf("%w: radius %v", ErrInvalidDimension, radius)
	}
	s := &Sphere{Body: newBody(center), Radius: radius}
	if err := applyOptions(&s.Body, opts); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Sphere) Kind() Kind { return KindSphere }
func (s *Sphere) sealed()    {}

func (s *Sphere) Contains(p vmath.Vector2) bool {
	return p.DistanceSq(s.Position) <= s.Radius*s.Radius
}
