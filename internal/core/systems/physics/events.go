package physics

// Event types published on the world's bus.
const (
	EventContact = "physics.contact"
	EventRemoved = "physics.removed"
)

// Contact records one reported collision of a Step.
type Contact struct {
	A, B         Handle
	KindA, KindB Kind
}

// ContactEvent is the payload of EventContact.
type ContactEvent struct {
	World string
	Frame uint64
	Contact
}

// RemovedEvent is the payload of EventRemoved.
type RemovedEvent struct {
	World  string
	Frame  uint64
	Handle Handle
	Kind   Kind
}
