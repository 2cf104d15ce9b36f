// Package layout resolves the rendered geometry of workflow nodes: sizes,
// wrapped text, connection anchors, handles and curves. Sizes are pure
// functions of a node's type and payload and are never stored.
package layout

import (
	"math"

	"github.com/ha1tch/flowcanvas/pkg/geometry"
	"github.com/ha1tch/flowcanvas/pkg/workflow"
)

// Card metrics in canvas units.
const (
	NodeWidth = 200.0
	NoteWidth = 240.0

	HeaderHeight  = 40.0
	LineHeight    = 16.0
	CardPadding   = 8.0
	MinNodeHeight = 64.0

	NoteBaseHeight = 44.0
	MinNoteHeight  = 80.0

	DescriptionX     = 56.0
	DescriptionRight = 16.0
	GlyphWidth       = 6.0

	NoteWrapBudget = 32

	HandleRadius = 6.0
)

// DescriptionBudget is how many characters of a description fit on one
// line of a standard card.
var DescriptionBudget = int(math.Floor((NodeWidth - DescriptionX - DescriptionRight) / GlyphWidth))

// Width returns the rendered width of n.
func Width(n workflow.Node) float64 {
	if n.Type == workflow.TypeNote {
		return NoteWidth
	}
	return NodeWidth
}

// Height returns the rendered height of n.
func Height(n workflow.Node) float64 {
	if n.Type == workflow.TypeNote {
		lines := len(NoteLines(n))
		return math.Max(MinNoteHeight, NoteBaseHeight+LineHeight*float64(lines))
	}
	return math.Max(MinNodeHeight, HeaderHeight+LineHeight+CardPadding)
}

// Size returns width and height together.
func Size(n workflow.Node) (w, h float64) {
	return Width(n), Height(n)
}

// Bounds returns the node's axis-aligned box in canvas space.
func Bounds(n workflow.Node) geometry.Rect {
	w, h := Size(n)
	return geometry.Rect{X: n.Position.X, Y: n.Position.Y, W: w, H: h}
}

// Description returns the node's description truncated to one card line.
func Description(n workflow.Node) string {
	return TruncateDescription(workflow.Describe(n), DescriptionBudget)
}

// NoteLines returns the wrapped lines of a note's content.
func NoteLines(n workflow.Node) []string {
	content := ""
	if n.Note != nil {
		content = n.Note.Content
	}
	return WrapNote(content, NoteWrapBudget)
}

// SourceAnchor is where outgoing connections leave a node: right-center.
func SourceAnchor(n workflow.Node) geometry.Point {
	w, h := Size(n)
	return geometry.Pt(n.Position.X+w, n.Position.Y+h/2)
}

// TargetAnchor is where incoming connections arrive: left-center.
func TargetAnchor(n workflow.Node) geometry.Point {
	_, h := Size(n)
	return geometry.Pt(n.Position.X, n.Position.Y+h/2)
}

// ConnectionCurve returns the Bezier drawn between two anchors. Both control
// points sit half the horizontal span away from their endpoint, each at its
// endpoint's height.
func ConnectionCurve(from, to geometry.Point) geometry.Bezier {
	dx := (to.X - from.X) * 0.5
	return geometry.Bezier{
		P0: from,
		P1: geometry.Pt(from.X+dx, from.Y),
		P2: geometry.Pt(to.X-dx, to.Y),
		P3: to,
	}
}

// EdgeCurve returns the curve of the connection source → target.
func EdgeCurve(source, target workflow.Node) geometry.Bezier {
	return ConnectionCurve(SourceAnchor(source), TargetAnchor(target))
}

// Canvas extent rules.
const (
	MinCanvasExtent  = 4000.0
	CanvasLeadMargin = 2000.0
	CanvasTailMargin = 2200.0
)

// CanvasBounds returns the scrollable canvas area: the bounding box of node
// positions grown by CanvasLeadMargin before (never below 0) and
// CanvasTailMargin after, and never smaller than 0..MinCanvasExtent.
func CanvasBounds(nodes []workflow.Node) geometry.Rect {
	if len(nodes) == 0 {
		return geometry.Rect{W: MinCanvasExtent, H: MinCanvasExtent}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range nodes {
		minX = math.Min(minX, n.Position.X)
		minY = math.Min(minY, n.Position.Y)
		maxX = math.Max(maxX, n.Position.X)
		maxY = math.Max(maxY, n.Position.Y)
	}
	lo := geometry.Pt(math.Max(0, minX-CanvasLeadMargin), math.Max(0, minY-CanvasLeadMargin))
	hi := geometry.Pt(math.Max(MinCanvasExtent, maxX+CanvasTailMargin), math.Max(MinCanvasExtent, maxY+CanvasTailMargin))
	return geometry.RectFromPoints(lo, hi)
}

// ContentBounds returns the union of every node's box, or false for an
// empty graph.
func ContentBounds(nodes []workflow.Node) (geometry.Rect, bool) {
	if len(nodes) == 0 {
		return geometry.Rect{}, false
	}
	r := Bounds(nodes[0])
	for _, n := range nodes[1:] {
		r = r.Union(Bounds(n))
	}
	return r, true
}
