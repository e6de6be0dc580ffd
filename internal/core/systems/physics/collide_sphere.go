package physics

import "github.com/zeusync/unpossible/pkg/vmath"

// SphereVsSphere resolves along the line of centres, then trades spin using
// each sphere's coefficient and mass.
func SphereVsSphere(a, b *Sphere) bool { return defaultSolver.SphereVsSphere(a, b) }

func (s *Solver) SphereVsSphere(a, b *Sphere) bool {
	delta := b.Position.Sub(a.Position)
	dist := delta.Mag()
	if dist >= a.Radius+b.Radius {
		return false
	}
	n := delta.Normal()
	if n.IsZero() {
		n = vmath.Right
	}
	c := contact{
		normal: n,
		point:  a.Position.Lerp(b.Position, 0.5),
		depth:  a.Radius + b.Radius - dist,
	}

	if !shouldResolve(a, b) {
		return true
	}
	if !s.resolveContact(&a.Body, &b.Body, c, false) {
		return false
	}

	w1, w2 := a.AngularVelocity, b.AngularVelocity
	if a.UseRotation && a.UseDynamics {
		a.AngularVelocity = (w1 - w2) * a.Cof * a.invMass()
	}
	if b.UseRotation && b.UseDynamics {
		b.AngularVelocity = (w2 - w1) * b.Cof * b.invMass()
	}
	return true
}
