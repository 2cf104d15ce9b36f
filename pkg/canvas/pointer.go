package canvas

import (
	"slices"

	"github.com/ha1tch/flowcanvas/pkg/geometry"
	"github.com/ha1tch/flowcanvas/pkg/viewport"
	"github.com/ha1tch/flowcanvas/pkg/workflow"
)

// HandlePointer feeds one pointer event to the state machine.
func (e *Engine) HandlePointer(ev PointerEvent) {
	switch ev.Kind {
	case PointerPress:
		e.press(ev)
	case PointerMove:
		e.move(ev)
	case PointerRelease:
		e.release(ev)
	}
}

func (e *Engine) press(ev PointerEvent) {
	// A press can only arrive mid-gesture if a release was lost. End the
	// old gesture without committing anything.
	if e.gesture.Kind() != GestureIdle {
		e.setGesture(Idle{}, "reason", "superseded")
	}
	if ev.Button != ButtonPrimary {
		return
	}

	t := e.Pick(ev.Pos)
	switch t.Kind {
	case TargetHandle:
		e.setGesture(&ConnectionDragging{SourceID: t.NodeID, Handle: t.Handle, Cursor: ev.Pos},
			"source", t.NodeID, "handle", t.Handle)

	case TargetNode:
		e.startNodeDrag(t.NodeID, ev)

	default:
		if e.sel.Clear() {
			e.emitSelection()
		}
		e.setGesture(&Panning{Press: ev.Pos, PanAtPress: e.view.Pan})
	}
}

func (e *Engine) startNodeDrag(id string, ev PointerEvent) {
	additive := ev.Mods.Additive()
	g := &NodeDragging{NodeID: id, Last: ev.Pos}

	switch {
	case e.sel.Has(id):
		g.ToggleOff = additive
	case additive:
		e.sel.Add(id)
		e.emitSelection()
	default:
		e.sel.Replace(id)
		e.emitSelection()
	}
	g.DragSet = e.sel.Ordered(e.nodes)

	g.Origins = make(map[string]geometry.Point, len(g.DragSet))
	for _, n := range e.nodes {
		if slices.Contains(g.DragSet, n.ID) {
			g.Origins[n.ID] = n.Position
		}
	}
	e.setGesture(g, "node", id, "dragSet", len(g.DragSet), "mods", ev.Mods)
}

func (e *Engine) move(ev PointerEvent) {
	switch g := e.gesture.(type) {
	case *Panning:
		e.view.Pan = g.PanAtPress.Add(ev.Pos.Sub(g.Press))

	case *NodeDragging:
		delta := e.view.ScreenDelta(ev.Pos.Sub(g.Last))
		g.Last = ev.Pos

		// The host may have replaced the graph mid-drag; only ids that
		// still exist are moved.
		g.DragSet = slices.DeleteFunc(g.DragSet, func(id string) bool { return !e.hasNode(id) })
		if len(g.DragSet) == 0 || (delta.X == 0 && delta.Y == 0) {
			return
		}
		g.Moved = true

		positions := make(map[string]geometry.Point, len(g.DragSet))
		for _, n := range e.nodes {
			if slices.Contains(g.DragSet, n.ID) {
				positions[n.ID] = n.Position.Add(delta).ClampMin()
			}
		}
		e.emitNodes(workflow.MoveNodes(e.nodes, positions))

	case *ConnectionDragging:
		g.Cursor = ev.Pos
	}
}

func (e *Engine) release(ev PointerEvent) {
	switch g := e.gesture.(type) {
	case *NodeDragging:
		if g.ToggleOff && !g.Moved && e.sel.Remove(g.NodeID) {
			e.emitSelection()
		}

	case *ConnectionDragging:
		g.Cursor = ev.Pos
		e.commitConnection(g)
	}
	if e.gesture.Kind() != GestureIdle {
		e.setGesture(Idle{})
	}
}

func (e *Engine) commitConnection(g *ConnectionDragging) {
	if !e.hasNode(g.SourceID) {
		e.log.Debug("connection dropped", "reason", "source gone", "source", g.SourceID)
		return
	}
	p := e.view.ToCanvas(g.Cursor)
	target, ok := DropTarget(e.nodes, p, g.SourceID)
	if !ok {
		e.log.Debug("connection dropped", "reason", "no target", "source", g.SourceID, "x", p.X, "y", p.Y)
		return
	}
	conns, added := workflow.AddConnection(e.nodes, e.conns, g.SourceID, target.ID, e.newID(workflow.PrefixConnection))
	if !added {
		e.log.Debug("connection dropped", "reason", "rejected", "source", g.SourceID, "target", target.ID)
		return
	}
	e.log.Debug("connection added", "source", g.SourceID, "target", target.ID)
	e.emitConnections(conns)
}

// Cancel abandons the active gesture: drags are undone, a pan returns to
// where it started, and a pending connection is discarded. The engine
// never cancels on its own; hosts call this for e.g. an Escape key.
func (e *Engine) Cancel() {
	switch g := e.gesture.(type) {
	case Idle:
		return
	case *Panning:
		e.view.Pan = g.PanAtPress
	case *NodeDragging:
		if g.Moved {
			e.emitNodes(workflow.MoveNodes(e.nodes, g.Origins))
		}
	}
	e.setGesture(Idle{}, "reason", "cancelled")
}

// HandleWheel zooms when the zoom modifier is held and reports whether it
// consumed the event. Unconsumed events belong to the host's scrolling.
func (e *Engine) HandleWheel(ev WheelEvent) bool {
	if !ev.Mods.Additive() {
		return false
	}
	before := e.view.Zoom
	e.view.ZoomBy(viewport.WheelFactor(ev.DeltaY))
	if e.view.Zoom != before {
		e.log.Debug("zoom", "from", before, "to", e.view.Zoom)
		e.emitZoom()
	}
	return true
}

// HandleDrop converts a palette drop at a screen point to canvas space and
// asks the host to create the node there.
func (e *Engine) HandleDrop(t workflow.NodeType, screen geometry.Point) {
	if !t.Valid() || e.cb.OnDropNode == nil {
		return
	}
	e.cb.OnDropNode(t, e.view.ToCanvas(screen))
}
