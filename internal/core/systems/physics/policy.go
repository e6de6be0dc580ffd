package physics

// Policy decides whether a detected contact gets a physical response.
type Policy uint8

const (
	// CallbackDecides resolves when both sides are solid or either callback
	// returns true.
	CallbackDecides Policy = iota
	// AlwaysResolve forces a response, even against a sensor.
	AlwaysResolve
	// NeverResolve only reports the contact.
	NeverResolve
)

func (p Policy) String() string {
	switch p {
	case AlwaysResolve:
		return "always"
	case NeverResolve:
		return "never"
	default:
		return "callback"
	}
}

// ParsePolicy maps a config string onto a Policy. Empty selects CallbackDecides.
func ParsePolicy(s string) (Policy, bool) {
	switch s {
	case "", "callback":
		return CallbackDecides, true
	case "always":
		return AlwaysResolve, true
	case "never":
		return NeverResolve, true
	default:
		return CallbackDecides, false
	}
}

// PlaneResponse selects how an AABB reacts to a surface.
type PlaneResponse uint8

const (
	// ResponseStop removes the velocity into the surface.
	ResponseStop PlaneResponse = iota
	// ResponseBounce reflects the velocity scaled by -Cof.
	ResponseBounce
)

func (r PlaneResponse) String() string {
	if r == ResponseBounce {
		return "bounce"
	}
	return "stop"
}

func ParsePlaneResponse(s string) (PlaneResponse, bool) {
	switch s {
	case "", "stop":
		return ResponseStop, true
	case "bounce":
		return ResponseBounce, true
	default:
		return ResponseStop, false
	}
}

// shouldResolve runs both callbacks and combines them with the pair's
// policies. Immovable geometry counts as solid with no callback.
func shouldResolve(a, b Shape) bool {
	ba, bb := a.RigidBody(), b.RigidBody()
	cbA := runCallback(ba, b)
	cbB := runCallback(bb, a)

	pa, pb := policyOf(ba), policyOf(bb)
	if pa == NeverResolve || pb == NeverResolve {
		return false
	}
	if pa == AlwaysResolve || pb == AlwaysResolve {
		return true
	}
	return solid(ba) && solid(bb) || cbA || cbB
}

func runCallback(b *Body, other Shape) bool {
	if b == nil || b.Callback == nil {
		return false
	}
	return b.Callback(other)
}

func policyOf(b *Body) Policy {
	if b == nil {
		return CallbackDecides
	}
	return b.Policy
}

func solid(b *Body) bool {
	return b == nil || b.Solid
}
