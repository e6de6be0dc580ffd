package scenario

import (
	"fmt"

	"github.com/zeusync/unpossible/internal/core/systems/physics"
)

// Build creates a world holding the scenario's shapes in declaration order:
// bodies, then planes, then colliders.
func (s *Scenario) Build(opts ...physics.WorldOption) (*physics.World, error) {
	w, err := physics.NewWorld(s.Physics, opts...)
	if err != nil {
		return nil, err
	}

	for i, spec := range s.Bodies {
		shape, err := spec.shape()
		if err != nil {
			return nil, fmt.Errorf("body %d %q: %w", i, spec.Name, err)
		}
		if _, err = w.Add(shape); err != nil {
			return nil, err
		}
	}
	for i, spec := range s.Planes {
		plane, err := physics.NewPlane(spec.Point, spec.Normal)
		if err == nil && spec.Cof != nil {
			err = plane.SetCof(*spec.Cof)
		}
		if err != nil {
			return nil, fmt.Errorf("plane %d: %w", i, err)
		}
		if _, err = w.Add(plane); err != nil {
			return nil, err
		}
	}
	for i, spec := range s.Colliders {
		col, err := physics.NewCollider(spec.Points)
		if err == nil && spec.Cof != nil {
			err = col.SetCof(*spec.Cof)
		}
		if err != nil {
			return nil, fmt.Errorf("collider %d: %w", i, err)
		}
		if _, err = w.Add(col); err != nil {
			return nil, err
		}
	}
	for i, spec := range s.Bubbles {
		spec.Region.Static = true
		region, err := spec.Region.shape()
		if err != nil {
			return nil, fmt.Errorf("bubble %d: %w", i, err)
		}
		bubble, err := physics.NewTimeBubble(region, spec.Scale)
		if err != nil {
			return nil, fmt.Errorf("bubble %d: %w", i, err)
		}
		if err = w.AddBubble(bubble); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func (b BodySpec) options() ([]physics.BodyOption, error) {
	opts := []physics.BodyOption{
		physics.WithVelocity(b.Velocity),
		physics.WithAngularVelocity(b.AngularVelocity),
		physics.WithRotation(b.Rotation),
	}
	if b.Name != "" {
		opts = append(opts, physics.WithOwner(b.Name))
	}
	if b.Mass != nil {
		opts = append(opts, physics.WithMass(*b.Mass))
	}
	if b.Cof != nil {
		opts = append(opts, physics.WithCof(*b.Cof))
	}
	if b.Static {
		opts = append(opts, physics.Static())
	}
	if b.Sensor {
		opts = append(opts, physics.Sensor())
	}
	if b.NoGravity {
		opts = append(opts, physics.WithoutGravity())
	}

	policy, ok := physics.ParsePolicy(b.Policy)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, b.Policy)
	}
	opts = append(opts, physics.WithPolicy(policy))

	if b.Response != "" {
		resp, ok := physics.ParsePlaneResponse(b.Response)
		if !ok {
			return nil, fmt.Errorf("%w: plane response %q", ErrUnknownPolicy, b.Response)
		}
		opts = append(opts, physics.WithPlaneResponse(resp))
	}
	return opts, nil
}

func (b BodySpec) shape() (physics.Shape, error) {
	opts, err := b.options()
	if err != nil {
		return nil, err
	}
	switch b.Shape {
	case "aabb", "box":
		return physics.NewAABB(b.Position, b.Size.X, b.Size.Y, opts...)
	case "oobb", "obox":
		return physics.NewOOBB(b.Position, b.Size.X, b.Size.Y, opts...)
	case "sphere", "circle":
		return physics.NewSphere(b.Position, b.Radius, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownShape, b.Shape)
	}
}
