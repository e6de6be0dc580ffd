// Package scenario describes a physics world in YAML and runs it headless.
package scenario

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeusync/unpossible/internal/core/systems/physics"
	"github.com/zeusync/unpossible/pkg/vmath"
	"gopkg.in/yaml.v3"
)

var (
	ErrNoSteps       = errors.New("scenario needs a positive step count")
	ErrInvalidDelta  = errors.New("scenario dt must be a positive finite number")
	ErrUnknownShape  = errors.New("unknown shape")
	ErrUnknownPolicy = errors.New("unknown policy")
	ErrDuplicateName = errors.New("duplicate body name")
)

const (
	defaultDt        = 1.0 / 60.0
	defaultTolerance = 0.5
)

type Scenario struct {
	Name    string         `yaml:"name"`
	Dt      float64        `yaml:"dt"`
	Steps   int            `yaml:"steps"`
	Physics physics.Config `yaml:"physics"`

	Bodies    []BodySpec     `yaml:"bodies"`
	Planes    []PlaneSpec    `yaml:"planes"`
	Colliders []ColliderSpec `yaml:"colliders"`
	Bubbles   []BubbleSpec   `yaml:"bubbles"`

	Expect []Expectation `yaml:"expect"`
}

// BodySpec describes one AABB, OOBB or sphere. Size is width and height for
// boxes; Radius is used by spheres.
type BodySpec struct {
	Name            string        `yaml:"name"`
	Shape           string        `yaml:"shape"`
	Position        vmath.Vector2 `yaml:"position"`
	Size            vmath.Vector2 `yaml:"size"`
	Radius          float64       `yaml:"radius"`
	Velocity        vmath.Vector2 `yaml:"velocity"`
	Rotation        float64       `yaml:"rotation"`
	AngularVelocity float64       `yaml:"angular_velocity"`
	Mass            *float64      `yaml:"mass"`
	Cof             *float64      `yaml:"cof"`
	Static          bool          `yaml:"static"`
	Sensor          bool          `yaml:"sensor"`
	NoGravity       bool          `yaml:"no_gravity"`
	Policy          string        `yaml:"policy"`
	Response        string        `yaml:"response"`
}

type PlaneSpec struct {
	Point  vmath.Vector2 `yaml:"point"`
	Normal vmath.Vector2 `yaml:"normal"`
	Cof    *float64      `yaml:"cof"`
}

// ColliderSpec is a closed polyline. Points listed left to right give an
// upward-facing terrain edge.
type ColliderSpec struct {
	Points []vmath.Vector2 `yaml:"points"`
	Cof    *float64        `yaml:"cof"`
}

type BubbleSpec struct {
	Region BodySpec `yaml:"region"`
	Scale  float64  `yaml:"scale"`
}

// Expectation is checked against the final snapshot of a run.
type Expectation struct {
	Body      string         `yaml:"body"`
	Position  *vmath.Vector2 `yaml:"position"`
	Grounded  *bool          `yaml:"grounded"`
	Tolerance float64        `yaml:"tolerance"`
}

// Load decodes a scenario. Omitted physics keys keep their defaults and unknown
// keys are rejected.
func Load(r io.Reader) (*Scenario, error) {
	s := &Scenario{Dt: defaultDt, Physics: physics.DefaultConfig()}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadFile loads path and names the scenario after the file when the document
// has no name.
func LoadFile(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

func (s *Scenario) Validate() error {
	if s.Steps <= 0 {
		return ErrNoSteps
	}
	if !(s.Dt > 0) || math.IsInf(s.Dt, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidDelta, s.Dt)
	}
	if err := s.Physics.Validate(); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(s.Bodies))
	for _, b := range s.Bodies {
		if b.Name == "" {
			continue
		}
		if _, ok := seen[b.Name]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateName, b.Name)
		}
		seen[b.Name] = struct{}{}
	}
	return nil
}
