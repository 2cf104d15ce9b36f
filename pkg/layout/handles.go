package layout

import (
	"github.com/ha1tch/flowcanvas/pkg/geometry"
	"github.com/ha1tch/flowcanvas/pkg/workflow"
)

// HandleSide names one of a card's four connection handles.
type HandleSide int

const (
	HandleTop HandleSide = iota
	HandleRight
	HandleBottom
	HandleLeft
)

func (s HandleSide) String() string {
	switch s {
	case HandleTop:
		return "top"
	case HandleRight:
		return "right"
	case HandleBottom:
		return "bottom"
	case HandleLeft:
		return "left"
	}
	return "unknown"
}

// Handle is a connection handle in canvas space.
type Handle struct {
	Side   HandleSide
	Center geometry.Point
}

// Handles returns the four edge-center handles of n. Notes have none.
func Handles(n workflow.Node) []Handle {
	if !n.Type.Connectable() {
		return nil
	}
	w, h := Size(n)
	x, y := n.Position.X, n.Position.Y
	return []Handle{
		{HandleTop, geometry.Pt(x+w/2, y)},
		{HandleRight, geometry.Pt(x+w, y+h/2)},
		{HandleBottom, geometry.Pt(x+w/2, y+h)},
		{HandleLeft, geometry.Pt(x, y+h/2)},
	}
}

// HandleAt returns the handle of n within radius of p.
func HandleAt(n workflow.Node, p geometry.Point, radius float64) (Handle, bool) {
	for _, h := range Handles(n) {
		if h.Center.Dist(p) <= radius {
			return h, true
		}
	}
	return Handle{}, false
}
