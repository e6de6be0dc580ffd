package physics

import (
	"fmt"

	"github.com/zeusync/unpossible/pkg/vmath"
)

// AABB is an axis-aligned box. It never rotates.
type AABB struct {
	Body
	HalfX float64
	HalfY float64
}

// NewAABB builds a box centred on center with the given full width and height.
// Boxes stop against planes unless WithPlaneResponse says otherwise.
func NewAABB(center vmath.Vector2, width, height float64, opts ...BodyOption) (*AABB, error) {
	if !validExtent(width) || !validExtent(height) {
		return nil, fmt.Errorf("%w: aabb %vx%v", ErrInvalidDimension, width, height)
	}
	box := &AABB{Body: newBody(center), HalfX: width / 2, HalfY: height / 2}
	if err := applyOptions(&box.Body, opts); err != nil {
		return nil, err
	}
	box.UseRotation = false
	box.Rotation = 0
	box.AngularVelocity = 0
	return box, nil
}

func (a *AABB) Kind() Kind { return KindAABB }
func (a *AABB) sealed()    {}

// Contains reports whether p lies inside the box or on its boundary.
func (a *AABB) Contains(p vmath.Vector2) bool {
	return p.X <= a.Position.X+a.HalfX && p.X >= a.Position.X-a.HalfX &&
		p.Y <= a.Position.Y+a.HalfY && p.Y >= a.Position.Y-a.HalfY
}

func (a *AABB) Min() vmath.Vector2 {
	return vmath.Vec(a.Position.X-a.HalfX, a.Position.Y-a.HalfY)
}

func (a *AABB) Max() vmath.Vector2 {
	return vmath.Vec(a.Position.X+a.HalfX, a.Position.Y+a.HalfY)
}

func (a *AABB) frame() boxFrame {
	return boxFrame{body: &a.Body, halfW: a.HalfX, halfH: a.HalfY, up: vmath.Up, right: vmath.Right}
}
