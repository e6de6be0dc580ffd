package physics

import (
	"math"

	"github.com/zeusync/unpossible/pkg/vmath"
)

// AABBvsAABB resolves two axis-aligned boxes. A dynamic box meeting a fixture
// is pushed out along the axis of least penetration and stopped on that axis;
// landing on top grounds it unless it was moving up. Two dynamic boxes share
// the correction and exchange an impulse.
func AABBvsAABB(a, b *AABB) bool { return defaultSolver.AABBvsAABB(a, b) }

func (s *Solver) AABBvsAABB(a, b *AABB) bool {
	ox, oy, ok := aabbOverlap(a, b)
	if !ok {
		return false
	}
	if !shouldResolve(a, b) {
		return true
	}

	switch {
	case !a.UseDynamics && !b.UseDynamics:
	case !b.UseDynamics:
		pushOutOfFixture(a, b, ox, oy)
	case !a.UseDynamics:
		pushOutOfFixture(b, a, ox, oy)
	default:
		d := b.Position.Sub(a.Position)
		c := contact{point: a.Position.Lerp(b.Position, 0.5)}
		if ox < oy {
			c.normal, c.depth = vmath.Vec(sign(d.X), 0), ox
		} else {
			c.normal, c.depth = vmath.Vec(0, sign(d.Y)), oy
		}
		return s.resolveContact(&a.Body, &b.Body, c, false)
	}
	return true
}

func aabbOverlap(a, b *AABB) (ox, oy float64, ok bool) {
	ox = a.HalfX + b.HalfX - math.Abs(a.Position.X-b.Position.X)
	oy = a.HalfY + b.HalfY - math.Abs(a.Position.Y-b.Position.Y)
	return ox, oy, ox > 0 && oy > 0
}

func pushOutOfFixture(box, fixture *AABB, ox, oy float64) {
	if ox < oy {
		if box.Position.X < fixture.Position.X {
			ox = -ox
		}
		box.Position.X += ox
		box.Velocity.X = 0
		return
	}

	stop := true
	if box.Position.Y < fixture.Position.Y {
		oy = -oy
		box.Grounded = true
		if box.Velocity.Y < 0 {
			stop = false
			box.Grounded = false
		}
	}
	box.Position.Y += oy
	if stop {
		box.Velocity.Y = 0
	}
}

func OOBBvsOOBB(a, b *OOBB) bool { return defaultSolver.OOBBvsOOBB(a, b) }

func (s *Solver) OOBBvsOOBB(a, b *OOBB) bool {
	defer a.ComputeAxes()
	defer b.ComputeAxes()
	c, ok := satBoxes(a.frame(), b.frame())
	if !ok {
		return false
	}
	return s.respond(a, b, c, true)
}

// AABBvsOOBB runs the general box test with the AABB as a non-rotating frame.
func AABBvsOOBB(a *AABB, b *OOBB) bool { return defaultSolver.AABBvsOOBB(a, b) }

func (s *Solver) AABBvsOOBB(a *AABB, b *OOBB) bool {
	defer b.ComputeAxes()
	c, ok := satBoxes(a.frame(), b.frame())
	if !ok {
		return false
	}
	return s.respond(a, b, c, true)
}

// satBoxes tests the four face axes of both boxes. The contact normal points
// from the first box to the second.
func satBoxes(f1, f2 boxFrame) (contact, bool) {
	p1, p2 := f1.body.Position, f2.body.Position
	bridge := p2.Sub(p1)

	axes := [4]vmath.Vector2{f1.up, f1.right, f2.up, f2.right}
	minDiff, minAxis := math.Inf(1), 0
	for i, axis := range axes {
		diff := f1.extentAlong(axis) + f2.extentAlong(axis) - math.Abs(bridge.Dot(axis))
		if diff < 0 {
			return contact{}, false
		}
		if diff < minDiff {
			minDiff, minAxis = diff, i
		}
	}

	c := contact{depth: minDiff}
	align := f1.up.Dot(f2.up)
	if vmath.Approximately(align, 1) || vmath.Approximately(align, 0) || vmath.Approximately(align, -1) {
		dir := bridge.Normal()
		c.normal = f1.faceToward(dir)
		if dir.IsZero() || vmath.Approximately(c.normal.Dot(dir), 1) {
			c.point = p1.Lerp(p2, 0.5)
		} else {
			c.point = f2.nearestCorner(p1).Lerp(f1.nearestCorner(p2), 0.5)
		}
		return c, true
	}

	if minAxis < 2 {
		c.normal = f1.faceToward(bridge)
		c.point = f2.nearestCorner(p1)
	} else {
		c.normal = f2.faceToward(bridge.Neg()).Neg()
		c.point = f1.nearestCorner(p2)
	}
	return c, true
}

// boxSphereContact finds the point of the box closest to the sphere centre.
// The normal points from the box to the sphere.
func boxSphereContact(f boxFrame, sp *Sphere) (contact, bool) {
	p := f.body.Position
	d := sp.Position.Sub(p)
	lx, ly := d.Dot(f.right), d.Dot(f.up)
	cx := vmath.Clamp(lx, -f.halfW, f.halfW)
	cy := vmath.Clamp(ly, -f.halfH, f.halfH)

	if cx != lx || cy != ly {
		q := p.Add(f.right.Scale(cx)).Add(f.up.Scale(cy))
		delta := sp.Position.Sub(q)
		dist := delta.Mag()
		if dist >= sp.Radius {
			return contact{}, false
		}
		return contact{normal: delta.Normal(), point: q, depth: sp.Radius - dist}, true
	}

	// centre inside the box: leave through the nearest face
	px := f.halfW - math.Abs(lx)
	py := f.halfH - math.Abs(ly)
	if px < py {
		return contact{normal: f.right.Scale(sign(lx)), point: sp.Position, depth: sp.Radius + px}, true
	}
	return contact{normal: f.up.Scale(sign(ly)), point: sp.Position, depth: sp.Radius + py}, true
}

func AABBvsSphere(a *AABB, sp *Sphere) bool { return defaultSolver.AABBvsSphere(a, sp) }

func (s *Solver) AABBvsSphere(a *AABB, sp *Sphere) bool {
	c, ok := boxSphereContact(a.frame(), sp)
	if !ok {
		return false
	}
	return s.respond(a, sp, c, true)
}

func OOBBvsSphere(o *OOBB, sp *Sphere) bool { return defaultSolver.OOBBvsSphere(o, sp) }

func (s *Solver) OOBBvsSphere(o *OOBB, sp *Sphere) bool {
	defer o.ComputeAxes()
	c, ok := boxSphereContact(o.frame(), sp)
	if !ok {
		return false
	}
	return s.respond(o, sp, c, true)
}
