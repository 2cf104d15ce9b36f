// Package history keeps the undo and redo stacks of graph snapshots.
package history

import (
	"slices"

	"github.com/ha1tch/flowcanvas/pkg/workflow"
)

// MaxLevels is the default undo depth.
const MaxLevels = 50

// Snapshot captures the graph for undo/redo.
type Snapshot struct {
	Nodes       []workflow.Node
	Connections []workflow.Connection
}

// Take deep-copies the given collections into a snapshot.
func Take(nodes []workflow.Node, conns []workflow.Connection) Snapshot {
	return Snapshot{
		Nodes:       workflow.CopyNodes(nodes),
		Connections: slices.Clone(conns),
	}
}

// History is a bounded undo stack with a redo stack. The zero value is not
// usable; call New.
type History struct {
	max  int
	undo []Snapshot
	redo []Snapshot
}

// New creates a history keeping at most max undo levels. max <= 0 means
// MaxLevels.
func New(max int) *History {
	if max <= 0 {
		max = MaxLevels
	}
	return &History{max: max}
}

// Push records the state before a change. The oldest level is dropped past
// the limit, and the redo stack is cleared.
func (h *History) Push(s Snapshot) {
	h.pushUndo(s)
	h.redo = nil
}

// pushUndo appends to the undo stack, dropping the oldest level past max.
func (h *History) pushUndo(s Snapshot) {
	h.undo = append(h.undo, s)
	if len(h.undo) > h.max {
		h.undo = h.undo[len(h.undo)-h.max:]
	}
}

// Drop discards the most recent undo level without restoring it. Used when
// a recorded gesture turned out to change nothing.
func (h *History) Drop() {
	if len(h.undo) > 0 {
		h.undo = h.undo[:len(h.undo)-1]
	}
}

// Undo returns the state to restore, saving current for redo.
func (h *History) Undo(current Snapshot) (Snapshot, bool) {
	if len(h.undo) == 0 {
		return Snapshot{}, false
	}
	h.redo = append(h.redo, current)
	s := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	return s, true
}

// Redo returns the state to restore, saving current for undo without
// clearing the redo stack.
func (h *History) Redo(current Snapshot) (Snapshot, bool) {
	if len(h.redo) == 0 {
		return Snapshot{}, false
	}
	h.pushUndo(current)
	s := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	return s, true
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Len returns the number of undo and redo levels.
func (h *History) Len() (undo, redo int) {
	return len(h.undo), len(h.redo)
}

// Clear forgets everything, e.g. after loading a new document.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
}
