package canvas

import (
	"github.com/ha1tch/flowcanvas/pkg/geometry"
	"github.com/ha1tch/flowcanvas/pkg/layout"
	"github.com/ha1tch/flowcanvas/pkg/workflow"
)

// TargetKind is what a press landed on.
type TargetKind int

const (
	TargetBackground TargetKind = iota
	TargetNode
	TargetHandle
)

func (k TargetKind) String() string {
	switch k {
	case TargetBackground:
		return "background"
	case TargetNode:
		return "node"
	case TargetHandle:
		return "handle"
	}
	return "unknown"
}

// Target is the result of a hit test.
type Target struct {
	Kind   TargetKind
	NodeID string
	Handle layout.HandleSide
}

// Pick classifies a screen point. Nodes are tried topmost first (last in
// collection order); within a node its handles win over its body, so a
// node covers the handles of the nodes beneath it.
func (e *Engine) Pick(screen geometry.Point) Target {
	p := e.view.ToCanvas(screen)
	radius := e.radius / e.view.Zoom

	for i := len(e.nodes) - 1; i >= 0; i-- {
		n := e.nodes[i]
		if h, ok := layout.HandleAt(n, p, radius); ok {
			return Target{Kind: TargetHandle, NodeID: n.ID, Handle: h.Side}
		}
		if layout.Bounds(n).Contains(p) {
			return Target{Kind: TargetNode, NodeID: n.ID}
		}
	}
	return Target{Kind: TargetBackground}
}

// NodeAt returns the topmost node whose box contains the canvas point,
// skipping the node named exclude.
func NodeAt(nodes []workflow.Node, p geometry.Point, exclude string) (workflow.Node, bool) {
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		if n.ID == exclude {
			continue
		}
		if layout.Bounds(n).Contains(p) {
			return n, true
		}
	}
	return workflow.Node{}, false
}

// DropTarget returns the node a connection dragged from source would attach
// to at canvas point p: the topmost connectable node other than the source
// whose box contains p.
func DropTarget(nodes []workflow.Node, p geometry.Point, source string) (workflow.Node, bool) {
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		if n.ID == source || !n.Type.Connectable() {
			continue
		}
		if layout.Bounds(n).Contains(p) {
			return n, true
		}
	}
	return workflow.Node{}, false
}
