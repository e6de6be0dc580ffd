package physics

import (
	"fmt"
	"io"
	"math"

	"github.com/zeusync/unpossible/pkg/vmath"
	"gopkg.in/yaml.v3"
)

// Config holds the world-wide tunables. Individual bodies keep their own
// coefficients; these are the constants the collision routines share.
type Config struct {
	// Gravity is added as a force (scaled by mass) to every dynamic body that
	// uses gravity, once per Step.
	Gravity vmath.Vector2 `json:"gravity" yaml:"gravity"`
	// AngularDamping multiplies angular velocity after every integration step.
	AngularDamping float64 `json:"angular_damping" yaml:"angular_damping"`
	// SpinRestitution is the restitution used for the angular term of box vs
	// surface contacts.
	SpinRestitution float64 `json:"spin_restitution" yaml:"spin_restitution"`
	// RollingFactor scales the tangential velocity a sphere picks up from its
	// own spin when it touches a surface.
	RollingFactor float64 `json:"rolling_factor" yaml:"rolling_factor"`
	// GroundNormalY is the normal.Y threshold under which a surface counts as ground.
	GroundNormalY float64 `json:"ground_normal_y" yaml:"ground_normal_y"`
	// MaxStep clamps the frame delta handed to World.Step. Zero disables clamping.
	MaxStep float64 `json:"max_step" yaml:"max_step"`
	// RestingSpeed is the relative normal speed under which two bodies are
	// treated as resting against each other.
	RestingSpeed float64 `json:"resting_speed" yaml:"resting_speed"`
}

// DefaultAngularDamping is the per-step angular drag used by Body.Update.
const DefaultAngularDamping = 0.99

func DefaultConfig() Config {
	return Config{
		Gravity:         vmath.Vec(0, 980),
		AngularDamping:  DefaultAngularDamping,
		SpinRestitution: 0.2,
		RollingFactor:   1.0 / 20.0,
		GroundNormalY:   -0.5,
		MaxStep:         0.1,
		RestingSpeed:    1e-6,
	}
}

// Validate checks the configuration for values that would break the solver.
func (c Config) Validate() error {
	if !c.Gravity.IsFinite() {
		return fmt.Errorf("%w: gravity must be finite", ErrInvalidConfig)
	}
	if c.AngularDamping < 0 || c.AngularDamping > 1 {
		return fmt.Errorf("%w: angular_damping %v outside [0, 1]", ErrInvalidConfig, c.AngularDamping)
	}
	if c.SpinRestitution < 0 || c.SpinRestitution > 1 {
		return fmt.Errorf("%w: spin_restitution %v outside [0, 1]", ErrInvalidConfig, c.SpinRestitution)
	}
	if c.RollingFactor < 0 || math.IsInf(c.RollingFactor, 0) || math.IsNaN(c.RollingFactor) {
		return fmt.Errorf("%w: rolling_factor must be a non-negative number", ErrInvalidConfig)
	}
	if c.GroundNormalY >= 0 || c.GroundNormalY < -1 {
		return fmt.Errorf("%w: ground_normal_y %v must be within [-1, 0)", ErrInvalidConfig, c.GroundNormalY)
	}
	if c.MaxStep < 0 {
		return fmt.Errorf("%w: max_step must not be negative", ErrInvalidConfig)
	}
	if c.RestingSpeed < 0 {
		return fmt.Errorf("%w: resting_speed must not be negative", ErrInvalidConfig)
	}
	return nil
}

// LoadConfigYAML decodes a Config from r on top of DefaultConfig, so omitted
// keys keep their defaults.
func LoadConfigYAML(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("decode physics config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
