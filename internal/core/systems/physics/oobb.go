package physics

import (
	"fmt"
	"math"

	"github.com/zeusync/unpossible/pkg/vmath"
)

// OOBB is an oriented box. Up, Right and the corners are derived from
// Position and Rotation by ComputeAxes; the collision routines refresh them
// before testing.
type OOBB struct {
	Body
	HalfW float64
	HalfH float64

	Up    vmath.Vector2
	Right vmath.Vector2

	TopLeft  vmath.Vector2
	TopRight vmath.Vector2
	BotRight vmath.Vector2
	BotLeft  vmath.Vector2
}

func NewOOBB(center vmath.Vector2, width, height float64, opts ...BodyOption) (*OOBB, error) {
	if !validExtent(width) || !validExtent(height) {
		return nil, fmt.Errorf("%w: oobb %vx%v", ErrInvalidDimension, width, height)
	}
	box := &OOBB{Body: newBody(center), HalfW: width / 2, HalfH: height / 2}
	if err := applyOptions(&box.Body, opts); err != nil {
		return nil, err
	}
	box.PlaneResponse = ResponseBounce
	box.ComputeAxes()
	return box, nil
}

func (o *OOBB) Kind() Kind { return KindOOBB }
func (o *OOBB) sealed()    {}

// ComputeAxes recomputes the axes and corners from the current rotation and
// position.
func (o *OOBB) ComputeAxes() {
	rot := vmath.RotationMatrix(o.Rotation)
	o.Up = rot.ApplyLinear(vmath.Up)
	o.Right = rot.ApplyLinear(vmath.Right)

	vu := o.Up.Scale(o.HalfH)
	vr := o.Right.Scale(o.HalfW)
	o.TopLeft = o.Position.Sub(vr).Add(vu)
	o.TopRight = o.Position.Add(vr).Add(vu)
	o.BotRight = o.Position.Add(vr).Sub(vu)
	o.BotLeft = o.Position.Sub(vr).Sub(vu)
}

// Corners returns the cached corners in winding order.
func (o *OOBB) Corners() [4]vmath.Vector2 {
	return [4]vmath.Vector2{o.TopLeft, o.TopRight, o.BotRight, o.BotLeft}
}

// FaceNormal returns the outward normal of the face closest in direction to p.
func (o *OOBB) FaceNormal(p vmath.Vector2) vmath.Vector2 {
	o.ComputeAxes()
	d := p.Sub(o.Position)
	u := d.Dot(o.Up) / o.HalfH
	r := d.Dot(o.Right) / o.HalfW
	if math.Abs(u) >= math.Abs(r) {
		if u < 0 {
			return o.Up.Neg()
		}
		return o.Up
	}
	if r < 0 {
		return o.Right.Neg()
	}
	return o.Right
}

func (o *OOBB) Contains(p vmath.Vector2) bool {
	o.ComputeAxes()
	d := p.Sub(o.Position)
	return math.Abs(d.Dot(o.Right)) <= o.HalfW && math.Abs(d.Dot(o.Up)) <= o.HalfH
}

func (o *OOBB) frame() boxFrame {
	o.ComputeAxes()
	return boxFrame{body: &o.Body, halfW: o.HalfW, halfH: o.HalfH, up: o.Up, right: o.Right}
}
