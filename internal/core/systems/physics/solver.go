package physics

import (
	"math"

	"github.com/zeusync/unpossible/pkg/vmath"
)

// Solver runs the pairwise collision routines with one set of tunables. The
// package-level routines use a solver built from DefaultConfig.
type Solver struct {
	cfg Config
	// inPass is set by World.Step around its pair pass.
	inPass bool
}

var defaultSolver = &Solver{cfg: DefaultConfig()}

func NewSolver(cfg Config) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Solver{cfg: cfg}, nil
}

func (s *Solver) Config() Config { return s.cfg }

func (s *Solver) isGround(normal vmath.Vector2) bool {
	return normal.Y < s.cfg.GroundNormalY
}

// missGround clears Grounded after b misses a ground plane. Inside a World
// pass it does nothing: the world resets Grounded before the pass, and an
// earlier pair may already have grounded b.
func (s *Solver) missGround(b *Body, normal vmath.Vector2) {
	if !s.inPass && s.isGround(normal) {
		b.Grounded = false
	}
}

// contact between two bodies. normal points from the first body to the second.
type contact struct {
	normal vmath.Vector2
	point  vmath.Vector2
	depth  float64
}

// surfaceContact between a body and immovable geometry. normal points out of
// the surface towards the body.
type surfaceContact struct {
	normal vmath.Vector2
	point  vmath.Vector2
	depth  float64
	cof    float64
}

func (c surfaceContact) right() vmath.Vector2 {
	return c.normal.Rotate(90).Normal()
}

// boxFrame is the common view of AABB and OOBB used by the box tests.
type boxFrame struct {
	body         *Body
	halfW, halfH float64
	up, right    vmath.Vector2
}

func (f boxFrame) corners() [4]vmath.Vector2 {
	vu := f.up.Scale(f.halfH)
	vr := f.right.Scale(f.halfW)
	p := f.body.Position
	return [4]vmath.Vector2{
		p.Sub(vr).Add(vu),
		p.Add(vr).Add(vu),
		p.Add(vr).Sub(vu),
		p.Sub(vr).Sub(vu),
	}
}

// extentAlong projects the half extents onto a unit axis.
func (f boxFrame) extentAlong(axis vmath.Vector2) float64 {
	return f.halfH*math.Abs(f.up.Dot(axis)) + f.halfW*math.Abs(f.right.Dot(axis))
}

func (f boxFrame) nearestCorner(p vmath.Vector2) vmath.Vector2 {
	corners := f.corners()
	best := corners[0]
	bestDist := best.DistanceSq(p)
	for _, c := range corners[1:] {
		if d := c.DistanceSq(p); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// faceToward returns the face normal with the largest component along dir.
func (f boxFrame) faceToward(dir vmath.Vector2) vmath.Vector2 {
	normals := [4]vmath.Vector2{f.up, f.right, f.up.Neg(), f.right.Neg()}
	best := normals[0]
	bestDot := best.Dot(dir)
	for _, n := range normals[1:] {
		if d := n.Dot(dir); d > bestDot {
			best, bestDot = n, d
		}
	}
	return best
}

// respond decides and resolves a body pair contact.
func (s *Solver) respond(a, b Shape, c contact, angular bool) bool {
	if !shouldResolve(a, b) {
		return true
	}
	return s.resolveContact(a.RigidBody(), b.RigidBody(), c, angular)
}

// resolveContact separates the bodies and applies the impulse. It reports
// false for departing and resting contacts.
func (s *Solver) resolveContact(b1, b2 *Body, c contact, angular bool) bool {
	separate(b1, b2, c.normal, c.depth)

	vn := b1.Velocity.Sub(b2.Velocity).Dot(c.normal)
	if math.Abs(vn) <= s.cfg.RestingSpeed {
		cancelNormalForces(b1, b2, c.normal)
		s.markGrounded(b1, b2, c.normal)
		return false
	}
	if vn < 0 {
		return false
	}

	s.markGrounded(b1, b2, c.normal)
	applyImpulse(b1, b2, c, angular)
	return true
}

func separate(b1, b2 *Body, n vmath.Vector2, depth float64) {
	if depth <= 0 {
		return
	}
	switch {
	case b1.UseDynamics && b2.UseDynamics:
		b1.Position = b1.Position.Sub(n.Scale(depth / 2))
		b2.Position = b2.Position.Add(n.Scale(depth / 2))
	case b1.UseDynamics:
		b1.Position = b1.Position.Sub(n.Scale(depth))
	case b2.UseDynamics:
		b2.Position = b2.Position.Add(n.Scale(depth))
	}
}

// cancelNormalForces queues, for each dynamic body, the opposite of the part
// of its last applied force that pushes into the partner.
func cancelNormalForces(b1, b2 *Body, n vmath.Vector2) {
	if f := b1.AppliedForce(); b1.UseDynamics && f.Dot(n) > 0 {
		b1.AddBackForce(f.ProjectOnto(n).Neg())
	}
	if f := b2.AppliedForce(); b2.UseDynamics && f.Dot(n) < 0 {
		b2.AddBackForce(f.ProjectOnto(n).Neg())
	}
}

// markGrounded flags whichever body sits on top of the other.
func (s *Solver) markGrounded(b1, b2 *Body, n vmath.Vector2) {
	switch {
	case n.Y > -s.cfg.GroundNormalY && b1.UseDynamics:
		b1.Grounded = true
	case s.isGround(n) && b2.UseDynamics:
		b2.Grounded = true
	}
}

// applyImpulse solves the impulse along the contact normal. The angular part
// uses (r x n)^2 in place of an inertia tensor.
func applyImpulse(b1, b2 *Body, c contact, angular bool) {
	inv1, inv2 := b1.invMass(), b2.invMass()
	if inv1+inv2 == 0 {
		return
	}
	n := c.normal

	spin1 := angular && b1.UseRotation && b1.UseDynamics
	spin2 := angular && b2.UseRotation && b2.UseDynamics
	var r1, r2 vmath.Vector2
	if spin1 {
		r1 = c.point.Sub(b1.Position).Normal()
	}
	if spin2 {
		r2 = c.point.Sub(b2.Position).Normal()
	}

	v1 := b1.Velocity.Add(r1.Perp().Scale(b1.AngularVelocity))
	v2 := b2.Velocity.Add(r2.Perp().Scale(b2.AngularVelocity))
	rel := v1.Sub(v2)
	if rel.Dot(n) <= 0 {
		return
	}

	denom := n.Dot(n)*(inv1+inv2) + sq(r1.Cross(n)) + sq(r2.Cross(n))
	if denom < vmath.Epsilon {
		return
	}
	e := (b1.Cof + b2.Cof) / 2
	j := -rel.Scale(1+e).Dot(n) / denom

	b1.Velocity = b1.Velocity.Add(n.Scale(j * inv1))
	b2.Velocity = b2.Velocity.Sub(n.Scale(j * inv2))
	if spin1 {
		b1.AngularVelocity += r1.Cross(n) * j * inv1
	}
	if spin2 {
		b2.AngularVelocity -= r2.Cross(n) * j * inv2
	}
}

// stopOrBounce is the box response to a surface, selected by PlaneResponse.
func (s *Solver) stopOrBounce(b *Body, c surfaceContact) {
	if !b.UseDynamics {
		return
	}
	b.Position = b.Position.Add(c.normal.Scale(c.depth))
	if vn := b.Velocity.Dot(c.normal); vn < 0 {
		if b.PlaneResponse == ResponseBounce {
			b.Velocity = b.Velocity.Scale(-b.Cof).Reflect(c.normal)
		} else {
			b.Velocity = b.Velocity.Sub(c.normal.Scale(vn))
		}
	}
	if s.isGround(c.normal) {
		b.Grounded = true
	}
}

// bounceAndSpin is the oriented box response to a surface: a damped bounce
// plus an angular kick from the contact point.
func (s *Solver) bounceAndSpin(b *Body, c surfaceContact) {
	if !b.UseDynamics {
		return
	}
	b.Position = b.Position.Add(c.normal.Scale(c.depth))
	if b.Velocity.Dot(c.normal) < 0 {
		b.Velocity = b.Velocity.Scale(-b.Cof).Reflect(c.normal)
	}
	if s.isGround(c.normal) {
		b.Grounded = true
	}
	if !b.UseRotation {
		return
	}

	n := c.normal
	rp := b.Position.Sub(c.point).Normal()
	rpVel := b.Velocity.Add(rp.Perp().Scale(b.AngularVelocity))
	inv := b.invMass()
	denom := n.Dot(n)*inv + sq(rp.Cross(n))
	if denom < vmath.Epsilon {
		return
	}
	j := -rpVel.Scale(1+s.cfg.SpinRestitution).Cross(n) / denom
	b.AngularVelocity = rp.Dot(n) * j * inv
}

// rollOff is the sphere response to a surface: a damped bounce, then the spin
// is traded against tangential velocity.
func (s *Solver) rollOff(b *Body, c surfaceContact) {
	if !b.UseDynamics {
		return
	}
	b.Position = b.Position.Add(c.normal.Scale(c.depth))
	if b.Velocity.Dot(c.normal) < 0 {
		b.Velocity = b.Velocity.Scale(-b.Cof).Reflect(c.normal)
	}
	if s.isGround(c.normal) {
		b.Grounded = true
	}
	if !b.UseRotation {
		return
	}
	right := c.right()
	b.Velocity = b.Velocity.Add(right.Scale(b.AngularVelocity * s.cfg.RollingFactor))
	b.AngularVelocity = b.Velocity.Dot(right) * c.cof
}

func sq(x float64) float64 { return x * x }

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}
