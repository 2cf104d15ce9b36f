package canvas

import (
	"strings"

	"github.com/ha1tch/flowcanvas/pkg/geometry"
)

// Mods is the set of modifier keys held during an event.
type Mods uint8

const (
	ModShift Mods = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Additive reports whether the modifiers request additive selection or
// wheel zoom: Ctrl on most platforms, Meta (Cmd) on macOS.
func (m Mods) Additive() bool {
	return m&(ModCtrl|ModMeta) != 0
}

func (m Mods) String() string {
	var parts []string
	if m&ModCtrl != 0 {
		parts = append(parts, "ctrl")
	}
	if m&ModMeta != 0 {
		parts = append(parts, "meta")
	}
	if m&ModAlt != 0 {
		parts = append(parts, "alt")
	}
	if m&ModShift != 0 {
		parts = append(parts, "shift")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}

// PointerKind is the phase of a pointer event.
type PointerKind int

const (
	PointerPress PointerKind = iota
	PointerMove
	PointerRelease
)

func (k PointerKind) String() string {
	switch k {
	case PointerPress:
		return "press"
	case PointerMove:
		return "move"
	case PointerRelease:
		return "release"
	}
	return "unknown"
}

// Button identifies the pressed mouse button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonMiddle
)

// PointerEvent is a press, move or release in screen space. Hosts deliver
// moves and releases for the whole window while a gesture is active, not
// only those over the canvas.
type PointerEvent struct {
	Kind   PointerKind
	Pos    geometry.Point
	Mods   Mods
	Button Button
}

// WheelEvent is one wheel notch. Positive DeltaY scrolls down.
type WheelEvent struct {
	DeltaY float64
	Pos    geometry.Point
	Mods   Mods
}
