// Package canvas is the interactive node-graph engine. It turns pointer and
// wheel events into pan, zoom, node drags, selection changes and new
// connections. The host owns the node and connection collections: the
// engine reads them through Props and reports every change through
// Callbacks, never by mutating what it was given.
package canvas

import (
	"log/slog"

	"github.com/ha1tch/flowcanvas/pkg/geometry"
	"github.com/ha1tch/flowcanvas/pkg/layout"
	"github.com/ha1tch/flowcanvas/pkg/viewport"
	"github.com/ha1tch/flowcanvas/pkg/workflow"
)

// DefaultHandleRadius is the handle hit radius in screen units.
const DefaultHandleRadius = layout.HandleRadius

// Props is the host-owned state handed to the engine. A nil Zoom leaves
// zoom to the engine.
type Props struct {
	Nodes       []workflow.Node
	Connections []workflow.Connection
	Zoom        *float64
}

// Callbacks report changes to the host. Any of them may be nil.
type Callbacks struct {
	OnNodesChange       func(nodes []workflow.Node)
	OnConnectionsChange func(conns []workflow.Connection)
	OnZoomChange        func(zoom float64)
	OnSelectionChange   func(ids []string)
	OnResetView         func()
	OnDropNode          func(t workflow.NodeType, at geometry.Point)
}

// Options configures an Engine.
type Options struct {
	Callbacks

	// Logger receives gesture transitions at debug level. Nil discards.
	Logger *slog.Logger

	// NewID generates ids for connections and duplicated nodes.
	NewID workflow.IDGenerator

	// HandleRadius is the handle hit radius in screen units.
	HandleRadius float64
}

// Handle is the imperative surface a host toolbar drives.
type Handle interface {
	DeselectAll()
	DuplicateSelected()
	DeleteSelected()
	ResetView()
}

var _ Handle = (*Engine)(nil)

// Engine is the canvas state machine. It is not safe for concurrent use;
// all events are expected on one goroutine in delivery order.
type Engine struct {
	nodes []workflow.Node
	conns []workflow.Connection

	view    viewport.Viewport
	sel     *Selection
	gesture Gesture

	cb     Callbacks
	log    *slog.Logger
	newID  workflow.IDGenerator
	radius float64
}

// New creates an engine over the host's collections.
func New(p Props, opts Options) *Engine {
	e := &Engine{
		view:    viewport.Default(),
		sel:     NewSelection(),
		gesture: Idle{},
		cb:      opts.Callbacks,
		log:     opts.Logger,
		newID:   opts.NewID,
		radius:  opts.HandleRadius,
	}
	if e.log == nil {
		e.log = slog.New(slog.DiscardHandler)
	}
	if e.newID == nil {
		e.newID = workflow.NewID
	}
	if e.radius <= 0 {
		e.radius = DefaultHandleRadius
	}
	e.SetProps(p)
	return e
}

// SetProps replaces the host state. The selection is pruned of ids that no
// longer exist.
func (e *Engine) SetProps(p Props) {
	if p.Zoom != nil {
		e.view.SetZoom(*p.Zoom)
	}
	e.SetGraph(p.Nodes, p.Connections)
}

// SetGraph replaces the node and connection collections. An active gesture
// keeps running against the new collections.
func (e *Engine) SetGraph(nodes []workflow.Node, conns []workflow.Connection) {
	e.nodes = nodes
	e.conns = conns
	if e.sel.Prune(nodes) {
		e.emitSelection()
	}
}

// SetZoom sets the zoom from the host, clamped.
func (e *Engine) SetZoom(z float64) {
	e.view.SetZoom(z)
}

// Nodes returns the engine's current view of the node collection.
func (e *Engine) Nodes() []workflow.Node { return e.nodes }

// Connections returns the engine's current view of the connections.
func (e *Engine) Connections() []workflow.Connection { return e.conns }

// LiveConnections returns the connections safe to draw.
func (e *Engine) LiveConnections() []workflow.Connection {
	return workflow.LiveConnections(e.nodes, e.conns)
}

// Viewport returns the current pan and zoom.
func (e *Engine) Viewport() viewport.Viewport { return e.view }

// Zoom returns the current zoom factor.
func (e *Engine) Zoom() float64 { return e.view.Zoom }

// Gesture returns the active gesture.
func (e *Engine) Gesture() Gesture { return e.gesture }

// Selected returns the selected ids in node collection order.
func (e *Engine) Selected() []string { return e.sel.Ordered(e.nodes) }

// IsSelected reports whether the node is selected.
func (e *Engine) IsSelected(id string) bool { return e.sel.Has(id) }

// SingleSelected returns the selected node when exactly one is selected,
// which is when a host shows its property panel.
func (e *Engine) SingleSelected() (workflow.Node, bool) {
	id, ok := e.sel.Single()
	if !ok {
		return workflow.Node{}, false
	}
	return workflow.FindNode(e.nodes, id)
}

// Select applies a click-style selection outside of a gesture.
func (e *Engine) Select(id string, additive bool) {
	if workflow.NodeIndex(e.nodes, id) < 0 {
		return
	}
	e.sel.Select(id, additive)
	e.emitSelection()
}

// SelectAll selects every node.
func (e *Engine) SelectAll() {
	ids := make([]string, len(e.nodes))
	for i, n := range e.nodes {
		ids[i] = n.ID
	}
	e.sel.Replace(ids...)
	e.emitSelection()
}

// CanvasBounds returns the scrollable extent of the canvas.
func (e *Engine) CanvasBounds() geometry.Rect {
	return layout.CanvasBounds(e.nodes)
}

// Preview returns the curve from the source anchor to the live cursor while
// a connection is being dragged.
func (e *Engine) Preview() (geometry.Bezier, bool) {
	g, ok := e.gesture.(*ConnectionDragging)
	if !ok {
		return geometry.Bezier{}, false
	}
	src, ok := workflow.FindNode(e.nodes, g.SourceID)
	if !ok {
		return geometry.Bezier{}, false
	}
	return layout.ConnectionCurve(layout.SourceAnchor(src), e.view.ToCanvas(g.Cursor)), true
}

func (e *Engine) setGesture(g Gesture, attrs ...any) {
	from := e.gesture.Kind()
	e.gesture = g
	if from == g.Kind() {
		return
	}
	e.log.Debug("gesture", append([]any{"from", from, "to", g.Kind()}, attrs...)...)
}

func (e *Engine) emitNodes(nodes []workflow.Node) {
	e.nodes = nodes
	if e.cb.OnNodesChange != nil {
		e.cb.OnNodesChange(nodes)
	}
}

func (e *Engine) emitConnections(conns []workflow.Connection) {
	e.conns = conns
	if e.cb.OnConnectionsChange != nil {
		e.cb.OnConnectionsChange(conns)
	}
}

func (e *Engine) emitZoom() {
	if e.cb.OnZoomChange != nil {
		e.cb.OnZoomChange(e.view.Zoom)
	}
}

func (e *Engine) emitSelection() {
	if e.cb.OnSelectionChange != nil {
		e.cb.OnSelectionChange(e.Selected())
	}
}

func (e *Engine) hasNode(id string) bool {
	return workflow.NodeIndex(e.nodes, id) >= 0
}
