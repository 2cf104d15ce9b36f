package canvas

import (
	"github.com/ha1tch/flowcanvas/pkg/geometry"
	"github.com/ha1tch/flowcanvas/pkg/layout"
	"github.com/ha1tch/flowcanvas/pkg/workflow"
)

// Duplicate offsets: every clone moves DuplicateOffset right and down, and
// each further clone DuplicateStagger more to the right.
const (
	DuplicateOffset  = 50.0
	DuplicateStagger = 20.0
)

// DeselectAll clears the selection.
func (e *Engine) DeselectAll() {
	if e.sel.Clear() {
		e.emitSelection()
	}
}

// DuplicateSelected clones every selected node with a fresh id, appends the
// clones and selects them. Connections are not copied.
func (e *Engine) DuplicateSelected() {
	ids := e.sel.Ordered(e.nodes)
	if len(ids) == 0 {
		return
	}

	nodes := make([]workflow.Node, 0, len(e.nodes)+len(ids))
	nodes = append(nodes, e.nodes...)
	clones := make([]string, 0, len(ids))
	for i, id := range ids {
		orig, _ := workflow.FindNode(e.nodes, id)
		c := orig.Copy()
		c.ID = e.freshID(nodes)
		c.Position = orig.Position.Add(geometry.Pt(DuplicateOffset+DuplicateStagger*float64(i), DuplicateOffset))
		nodes = append(nodes, c)
		clones = append(clones, c.ID)
	}

	e.log.Debug("duplicate", "count", len(clones))
	e.emitNodes(nodes)
	e.sel.Replace(clones...)
	e.emitSelection()
}

// DeleteSelected removes the selected nodes and every connection touching
// them, then clears the selection.
func (e *Engine) DeleteSelected() {
	ids := e.sel.Ordered(e.nodes)
	if len(ids) == 0 {
		return
	}
	nodes, conns := workflow.RemoveNodes(e.nodes, e.conns, ids)

	e.log.Debug("delete", "nodes", len(e.nodes)-len(nodes), "connections", len(e.conns)-len(conns))
	e.emitNodes(nodes)
	if len(conns) != len(e.conns) {
		e.emitConnections(conns)
	}
	e.sel.Clear()
	e.emitSelection()
}

// Arrange moves every node to its layered position, with the first column
// at the trigger template's origin.
func (e *Engine) Arrange() {
	if len(e.nodes) == 0 {
		return
	}
	positions := layout.Arrange(e.nodes, e.conns, workflow.TemplateOrigin)
	e.log.Debug("arrange", "nodes", len(positions))
	e.emitNodes(workflow.MoveNodes(e.nodes, positions))
}

// ResetView returns the zoom to 1 and the pan to the origin, then tells the
// host.
func (e *Engine) ResetView() {
	e.ResetPan()
	e.ResetZoom()
	if e.cb.OnResetView != nil {
		e.cb.OnResetView()
	}
}

// ResetZoom returns the zoom to 1 and keeps the pan.
func (e *Engine) ResetZoom() {
	if e.view.Zoom != 1 {
		e.view.ResetZoom()
		e.emitZoom()
	}
}

// ResetPan returns the pan to the origin and keeps the zoom.
func (e *Engine) ResetPan() {
	e.view.ResetPan()
}

// ZoomIn and ZoomOut step the zoom like the toolbar buttons.
func (e *Engine) ZoomIn() {
	e.view.ZoomIn()
	e.emitZoom()
}

func (e *Engine) ZoomOut() {
	e.view.ZoomOut()
	e.emitZoom()
}

// PanBy shifts the viewport by a screen-space delta, for keyboard panning.
func (e *Engine) PanBy(d geometry.Point) {
	e.view.Pan = e.view.Pan.Add(d)
}

// freshID returns an id not used by any node in nodes.
func (e *Engine) freshID(nodes []workflow.Node) string {
	for {
		id := e.newID(workflow.PrefixNode)
		if workflow.NodeIndex(nodes, id) < 0 {
			return id
		}
	}
}
