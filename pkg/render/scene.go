// Package render draws workflow documents outside the interactive canvas:
// SVG and PNG images of the scene, and Graphviz DOT of the graph.
package render

import (
	"image/color"

	"github.com/ha1tch/flowcanvas/pkg/geometry"
	"github.com/ha1tch/flowcanvas/pkg/layout"
	"github.com/ha1tch/flowcanvas/pkg/workflow"
)

// Options controls image rendering.
type Options struct {
	Title    string           // drawn above the scene
	Padding  float64          // canvas units around the content (0 = DefaultPadding)
	Scale    float64          // output pixels per canvas unit (0 = 1)
	Selected []string         // node ids drawn with a selection outline
	Preview  *geometry.Bezier // in-progress connection, drawn dashed
	Handles  bool             // draw connection handles on connectable cards
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{Padding: DefaultPadding, Scale: 1}
}

const (
	DefaultPadding = 40.0
	TitleHeight    = 32.0

	badgeRadius = 14.0
	badgeX      = 28.0
	titleY      = 26.0
	descY       = 48.0
	noteTextY   = 30.0
)

func (o Options) normalized() Options {
	if o.Padding <= 0 {
		o.Padding = DefaultPadding
	}
	if o.Scale <= 0 {
		o.Scale = 1
	}
	return o
}

// Palette is the fill and stroke of a card.
type Palette struct {
	Fill, Stroke color.RGBA
}

var palettes = map[workflow.NodeType]Palette{
	workflow.TypeScope:     {color.RGBA{227, 242, 253, 255}, color.RGBA{21, 101, 192, 255}},
	workflow.TypeSchedule:  {color.RGBA{243, 229, 245, 255}, color.RGBA{106, 27, 154, 255}},
	workflow.TypeCondition: {color.RGBA{255, 248, 225, 255}, color.RGBA{249, 168, 37, 255}},
	workflow.TypeAction:    {color.RGBA{232, 245, 233, 255}, color.RGBA{46, 125, 50, 255}},
	workflow.TypeNote:      {color.RGBA{255, 249, 196, 255}, color.RGBA{175, 150, 40, 255}},
}

var (
	colorWhite     = color.RGBA{255, 255, 255, 255}
	colorInk       = color.RGBA{51, 51, 51, 255}    // #333
	colorMuted     = color.RGBA{102, 102, 102, 255} // #666
	colorSelection = color.RGBA{255, 111, 0, 255}   // #ff6f00
	colorPreview   = color.RGBA{21, 101, 192, 255}  // #1565c0
)

// PaletteOf returns the card colors for a node type.
func PaletteOf(t workflow.NodeType) Palette {
	if p, ok := palettes[t]; ok {
		return p
	}
	return Palette{Fill: colorWhite, Stroke: colorInk}
}

// Badge is the one-letter type marker drawn at the left of a card.
func Badge(t workflow.NodeType) string {
	switch t {
	case workflow.TypeScope:
		return "S"
	case workflow.TypeSchedule:
		return "T"
	case workflow.TypeCondition:
		return "?"
	case workflow.TypeAction:
		return "!"
	}
	return ""
}

// Card is one node as drawn.
type Card struct {
	ID          string
	Type        workflow.NodeType
	Title       string
	Description string   // standard cards
	Lines       []string // notes
	Rect        geometry.Rect
	Selected    bool
	Handles     []layout.Handle
}

// Edge is one live connection as drawn.
type Edge struct {
	ID    string
	Curve geometry.Bezier
}

// Scene is a document resolved into drawable geometry, in canvas units.
// Frame is the visible area including padding and title space.
type Scene struct {
	Title   string
	Frame   geometry.Rect
	Cards   []Card
	Edges   []Edge
	Preview *geometry.Bezier
}

// Build resolves doc into a scene. Connections whose endpoints are missing
// are skipped. Cards keep collection order so later nodes paint on top.
func Build(doc *workflow.Document, opts Options) Scene {
	opts = opts.normalized()
	sc := Scene{Title: opts.Title, Preview: opts.Preview}

	selected := make(map[string]bool, len(opts.Selected))
	for _, id := range opts.Selected {
		selected[id] = true
	}

	var content geometry.Rect
	have := false
	grow := func(r geometry.Rect) {
		if !have {
			content, have = r, true
			return
		}
		content = content.Union(r)
	}

	for _, n := range doc.Nodes {
		c := Card{
			ID:       n.ID,
			Type:     n.Type,
			Title:    n.Name,
			Rect:     layout.Bounds(n),
			Selected: selected[n.ID],
		}
		if n.Type == workflow.TypeNote {
			c.Lines = layout.NoteLines(n)
		} else {
			c.Description = layout.Description(n)
		}
		if opts.Handles {
			c.Handles = layout.Handles(n)
		}
		sc.Cards = append(sc.Cards, c)
		grow(c.Rect)
	}

	for _, conn := range workflow.LiveConnections(doc.Nodes, doc.Connections) {
		src, _ := workflow.FindNode(doc.Nodes, conn.SourceID)
		dst, _ := workflow.FindNode(doc.Nodes, conn.TargetID)
		curve := layout.EdgeCurve(src, dst)
		sc.Edges = append(sc.Edges, Edge{ID: conn.ID, Curve: curve})
		grow(curve.Bounds())
	}

	if opts.Preview != nil {
		grow(opts.Preview.Bounds())
	}

	if !have {
		content = geometry.Rect{W: layout.NodeWidth, H: layout.MinNodeHeight}
	}
	sc.Frame = content.Inset(-opts.Padding)
	if opts.Title != "" {
		sc.Frame.Y -= TitleHeight
		sc.Frame.H += TitleHeight
	}
	return sc
}
