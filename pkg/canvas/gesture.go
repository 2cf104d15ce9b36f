package canvas

import (
	"github.com/ha1tch/flowcanvas/pkg/geometry"
	"github.com/ha1tch/flowcanvas/pkg/layout"
)

// GestureKind names the state of the interaction machine.
type GestureKind int

const (
	GestureIdle GestureKind = iota
	GesturePanning
	GestureNodeDragging
	GestureConnectionDragging
)

func (k GestureKind) String() string {
	switch k {
	case GestureIdle:
		return "idle"
	case GesturePanning:
		return "panning"
	case GestureNodeDragging:
		return "node-dragging"
	case GestureConnectionDragging:
		return "connection-dragging"
	}
	return "unknown"
}

// Gesture is the active interaction. It is one of Idle, Panning,
// NodeDragging or ConnectionDragging; each carries only its own state.
type Gesture interface {
	Kind() GestureKind
}

// Idle is the resting state.
type Idle struct{}

// Panning moves the viewport. The pan is always computed against the press
// point, not the previous move.
type Panning struct {
	Press      geometry.Point // screen
	PanAtPress geometry.Point
}

// NodeDragging moves the drag set fixed at press time. Moves are applied
// incrementally from Last.
type NodeDragging struct {
	NodeID  string
	DragSet []string
	Last    geometry.Point // screen
	Origins map[string]geometry.Point
	Moved   bool

	// Set when a modifier press landed on an already selected node; the
	// node is deselected on release if nothing moved.
	ToggleOff bool
}

// ConnectionDragging draws a new edge from SourceID. Only Cursor changes
// until release.
type ConnectionDragging struct {
	SourceID string
	Handle   layout.HandleSide
	Cursor   geometry.Point // screen
}

func (Idle) Kind() GestureKind                { return GestureIdle }
func (*Panning) Kind() GestureKind            { return GesturePanning }
func (*NodeDragging) Kind() GestureKind       { return GestureNodeDragging }
func (*ConnectionDragging) Kind() GestureKind { return GestureConnectionDragging }
