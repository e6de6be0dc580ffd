package server

import (
	"fmt"

	"github.com/zeusync/unpossible/internal/core/systems/physics"
)

// Frame is one snapshot pushed to stream clients.
type Frame struct {
	World   string              `json:"world"`
	Frame   uint64              `json:"frame"`
	Elapsed float64             `json:"elapsed"`
	Hash    string              `json:"hash"`
	Bodies  []physics.BodyState `json:"bodies"`
	// Contacts reported since the previous frame of this world.
	Contacts []ContactState `json:"contacts,omitempty"`
}

type ContactState struct {
	Frame uint64 `json:"frame"`
	A     string `json:"a"`
	B     string `json:"b"`
	KindA string `json:"kind_a"`
	KindB string `json:"kind_b"`
}

// FrameOf captures the current state of w under name.
func FrameOf(name string, w *physics.World) Frame {
	return Frame{
		World:   name,
		Frame:   w.Frame(),
		Elapsed: w.Elapsed(),
		Hash:    fmt.Sprintf("%016x", w.StateHash()),
		Bodies:  w.Snapshot(),
	}
}
