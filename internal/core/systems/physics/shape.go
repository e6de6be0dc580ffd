package physics

import (
	"fmt"
	"math"

	"github.com/zeusync/unpossible/pkg/vmath"
)

// Kind enumerates the closed set of shapes the collision table covers.
type Kind uint8

const (
	KindAABB Kind = iota
	KindOOBB
	KindSphere
	KindPlane
	KindCollider
	kindCount
)

func (k Kind) String() string {
	switch k {
	case KindAABB:
		return "aabb"
	case KindOOBB:
		return "oobb"
	case KindSphere:
		return "sphere"
	case KindPlane:
		return "plane"
	case KindCollider:
		return "collider"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Shape is implemented only by the shapes in this package.
type Shape interface {
	Kind() Kind
	// RigidBody returns the simulated state, or nil for immovable geometry.
	RigidBody() *Body
	sealed()
}

// BodyOption customises a body at construction time.
type BodyOption func(*Body) error

func WithVelocity(v vmath.Vector2) BodyOption {
	return func(b *Body) error {
		b.Velocity = v
		return nil
	}
}

func WithMass(m float64) BodyOption {
	return func(b *Body) error {
		if !(m > 0) || math.IsInf(m, 0) {
			return fmt.Errorf("%w: %v", ErrInvalidMass, m)
		}
		b.Mass = m
		return nil
	}
}

func WithCof(cof float64) BodyOption {
	return func(b *Body) error {
		if !validCof(cof) {
			return fmt.Errorf("%w: %v", ErrInvalidCof, cof)
		}
		b.Cof = cof
		return nil
	}
}

func WithRotation(deg float64) BodyOption {
	return func(b *Body) error {
		b.SetRotation(deg)
		return nil
	}
}

func WithAngularVelocity(w float64) BodyOption {
	return func(b *Body) error {
		b.AngularVelocity = w
		return nil
	}
}

// Static turns the body into a fixture.
func Static() BodyOption {
	return func(b *Body) error {
		b.UseDynamics = false
		return nil
	}
}

// Sensor makes the body non-solid.
func Sensor() BodyOption {
	return func(b *Body) error {
		b.Solid = false
		return nil
	}
}

func WithoutGravity() BodyOption {
	return func(b *Body) error {
		b.UseGravity = false
		return nil
	}
}

func WithCallback(cb func(other Shape) bool) BodyOption {
	return func(b *Body) error {
		b.Callback = cb
		return nil
	}
}

func WithOwner(owner any) BodyOption {
	return func(b *Body) error {
		b.Owner = owner
		return nil
	}
}

func WithPolicy(p Policy) BodyOption {
	return func(b *Body) error {
		b.Policy = p
		return nil
	}
}

func WithPlaneResponse(r PlaneResponse) BodyOption {
	return func(b *Body) error {
		b.PlaneResponse = r
		return nil
	}
}

func applyOptions(b *Body, opts []BodyOption) error {
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return err
		}
	}
	return nil
}

func validCof(cof float64) bool {
	return cof >= 0 && cof <= 1
}

func validExtent(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func mustShape(s Shape) {
	if s == nil {
		panic("physics: nil shape")
	}
	if s.Kind() >= kindCount {
		panic(fmt.Sprintf("physics: unknown shape kind %d", s.Kind()))
	}
}
