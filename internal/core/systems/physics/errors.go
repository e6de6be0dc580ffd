package physics

import "errors"

// Construction and world errors
var (
	ErrNilShape         = errors.New("shape is nil")
	ErrInvalidDimension = errors.New("dimensions must be positive and finite")
	ErrInvalidMass      = errors.New("mass must be positive and finite")
	ErrInvalidCof       = errors.New("coefficient must be within [0, 1]")
	ErrDegenerateNormal = errors.New("plane normal has zero length")
	ErrTooFewPoints     = errors.New("collider needs at least two points")
	ErrUnknownHandle    = errors.New("unknown body handle")
	ErrInvalidConfig    = errors.New("invalid physics configuration")
	ErrInvalidScale     = errors.New("time scale must be non-negative and finite")
)
