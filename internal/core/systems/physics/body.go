package physics

import (
	"math"

	"github.com/zeusync/unpossible/pkg/vmath"
)

const (
	defaultMass = 1.0
	defaultCof  = 0.7
)

// Body is the simulated state shared by every movable shape. It is embedded by
// AABB, OOBB and Sphere; planes and colliders have no body.
type Body struct {
	Position        vmath.Vector2
	Velocity        vmath.Vector2
	Rotation        float64 // degrees, [0, 360)
	AngularVelocity float64 // degrees per second

	Mass float64
	// Cof is the restitution/friction coefficient used for bounce damping and
	// tangential response.
	Cof float64

	// Grounded is set when the body came to rest on a ground-facing surface
	// during the last collision pass.
	Grounded bool

	// Solid bodies receive impulse response by default. Non-solid bodies still
	// detect contacts and run their callback.
	Solid bool
	// UseDynamics=false marks a fixture: never integrated, never displaced.
	UseDynamics bool
	UseRotation bool
	// UseGravity is consulted by World.Step only.
	UseGravity bool

	// Owner links back to the game object. It is used for identity only.
	Owner any
	// Callback runs on every detected contact with the other shape. Its result
	// feeds the resolution decision when Policy is CallbackDecides.
	Callback      func(other Shape) bool
	Policy        Policy
	PlaneResponse PlaneResponse

	forces     []vmath.Vector2
	torque     float64
	backForces []vmath.Vector2
	backTorque float64
	applied    vmath.Vector2
}

func newBody(pos vmath.Vector2) Body {
	return Body{
		Position:    pos,
		Mass:        defaultMass,
		Cof:         defaultCof,
		Solid:       true,
		UseDynamics: true,
		UseRotation: true,
		UseGravity:  true,
	}
}

// RigidBody returns b itself so embedding shapes satisfy Shape.
func (b *Body) RigidBody() *Body { return b }

func (b *Body) AddForce(f vmath.Vector2) {
	b.forces = append(b.forces, f)
}

func (b *Body) AddTorque(t float64) {
	b.torque += t
}

// AddBackForce queues f for the next Update. Contact resolution uses it to
// cancel forces after the current step was already integrated.
func (b *Body) AddBackForce(f vmath.Vector2) {
	b.backForces = append(b.backForces, f)
}

func (b *Body) AddBackTorque(t float64) {
	b.backTorque += t
}

func (b *Body) SumForces() vmath.Vector2 {
	var sum vmath.Vector2
	for _, f := range b.forces {
		sum = sum.Add(f)
	}
	return sum
}

func (b *Body) Torque() float64 { return b.torque }

// AppliedForce is the net force the last Update integrated, not counting
// back-queued contributions.
func (b *Body) AppliedForce() vmath.Vector2 { return b.applied }

// ClearForces drops the live forces and torque. The back queue is kept.
func (b *Body) ClearForces() {
	b.forces = b.forces[:0]
	b.torque = 0
}

// Rotate adds deg to the rotation, wrapping into [0, 360).
func (b *Body) Rotate(deg float64) {
	b.Rotation = vmath.WrapDegrees(b.Rotation + deg)
}

func (b *Body) SetRotation(deg float64) {
	b.Rotation = vmath.WrapDegrees(deg)
}

// IsStatic reports whether b is a fixture.
func (b *Body) IsStatic() bool { return !b.UseDynamics }

func (b *Body) invMass() float64 {
	if !b.UseDynamics || b.Mass <= 0 || math.IsInf(b.Mass, 0) {
		return 0
	}
	return 1 / b.Mass
}

// Update integrates the body over dt with the default angular damping. It does
// not clear forces.
func (b *Body) Update(dt float64) {
	b.integrate(dt, DefaultAngularDamping)
}

func (b *Body) integrate(dt, damping float64) {
	b.applied = b.SumForces()

	b.forces = append(b.forces, b.backForces...)
	b.backForces = b.backForces[:0]
	b.torque += b.backTorque
	b.backTorque = 0

	if !b.UseDynamics {
		return
	}

	accel := func(_ vmath.Vector2, _ vmath.Vector2) vmath.Vector2 {
		return b.SumForces().Scale(b.invMass())
	}

	x1, v1 := b.Position, b.Velocity
	a1 := accel(x1, v1)

	x2 := x1.Add(v1.Scale(0.5 * dt))
	v2 := v1.Add(a1.Scale(0.5 * dt))
	a2 := accel(x2, v2)

	x3 := x1.Add(v2.Scale(0.5 * dt))
	v3 := v1.Add(a2.Scale(0.5 * dt))
	a3 := accel(x3, v3)

	x4 := x1.Add(v3.Scale(dt))
	v4 := v1.Add(a3.Scale(dt))
	a4 := accel(x4, v4)

	b.Position = x1.Add(v1.Add(v2.Scale(2)).Add(v3.Scale(2)).Add(v4).Scale(dt / 6))
	b.Velocity = v1.Add(a1.Add(a2.Scale(2)).Add(a3.Scale(2)).Add(a4).Scale(dt / 6))

	if b.UseRotation {
		b.Rotate(b.AngularVelocity * dt)
		b.AngularVelocity += b.torque * dt
		b.AngularVelocity *= damping
	}
}
