package render

import (
	"fmt"
	"html"
	"image/color"
	"math"
	"strings"

	"github.com/ha1tch/flowcanvas/pkg/geometry"
	"github.com/ha1tch/flowcanvas/pkg/layout"
	"github.com/ha1tch/flowcanvas/pkg/workflow"
)

// SVG renders doc as a standalone SVG document. The viewBox is the scene
// frame in canvas units; the pixel size is the frame times opts.Scale.
func SVG(doc *workflow.Document, opts Options) string {
	opts = opts.normalized()
	sc := Build(doc, opts)
	return sc.SVG(opts.Scale)
}

// PixelSize returns the output image size of the scene at scale.
func (sc Scene) PixelSize(scale float64) (int, int) {
	if scale <= 0 {
		scale = 1
	}
	return int(math.Ceil(sc.Frame.W * scale)), int(math.Ceil(sc.Frame.H * scale))
}

// SVG renders an already built scene.
func (sc Scene) SVG(scale float64) string {
	w, h := sc.PixelSize(scale)
	f := sc.Frame

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="%s %s %s %s">
<defs>
  <marker id="arrowhead" markerWidth="10" markerHeight="7" refX="9" refY="3.5" orient="auto">
    <polygon points="0 0, 10 3.5, 0 7" fill="%s"/>
  </marker>
  <marker id="arrowhead-preview" markerWidth="10" markerHeight="7" refX="9" refY="3.5" orient="auto">
    <polygon points="0 0, 10 3.5, 0 7" fill="%s"/>
  </marker>
</defs>
<style>
  .card { stroke-width: 1.5; }
  .selected { fill: none; stroke: %s; stroke-width: 3; }
  .badge { fill: white; stroke-width: 1.5; }
  .badge-label { font-family: sans-serif; font-size: 13px; font-weight: bold; text-anchor: middle; dominant-baseline: middle; }
  .node-title { font-family: sans-serif; font-size: 13px; font-weight: bold; fill: %s; }
  .node-desc { font-family: sans-serif; font-size: 10px; fill: %s; }
  .note-line { font-family: sans-serif; font-size: 11px; fill: %s; }
  .edge { fill: none; stroke: %s; stroke-width: 2; marker-end: url(#arrowhead); }
  .edge-preview { fill: none; stroke: %s; stroke-width: 2; stroke-dasharray: 6 4; marker-end: url(#arrowhead-preview); }
  .handle { fill: white; stroke: %s; stroke-width: 1.5; }
  .title { font-family: sans-serif; font-size: 18px; font-weight: bold; text-anchor: middle; }
</style>
`, w, h, num(f.X), num(f.Y), num(f.W), num(f.H),
		hex(colorInk), hex(colorPreview), hex(colorSelection),
		hex(colorInk), hex(colorMuted), hex(colorInk),
		hex(colorInk), hex(colorPreview), hex(colorMuted))

	// Background
	fmt.Fprintf(&sb, `<rect x="%s" y="%s" width="%s" height="%s" fill="white"/>
`, num(f.X), num(f.Y), num(f.W), num(f.H))

	if sc.Title != "" {
		fmt.Fprintf(&sb, `<text x="%s" y="%s" class="title">%s</text>
`, num(f.X+f.W/2), num(f.Y+TitleHeight*0.75), html.EscapeString(sc.Title))
	}

	// Edges go under cards.
	for _, e := range sc.Edges {
		fmt.Fprintf(&sb, `<path id="%s" d="%s" class="edge"/>
`, html.EscapeString(e.ID), bezierPath(e.Curve))
	}

	for _, c := range sc.Cards {
		writeCard(&sb, c)
	}

	if sc.Preview != nil {
		fmt.Fprintf(&sb, `<path d="%s" class="edge-preview"/>
`, bezierPath(*sc.Preview))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

func writeCard(sb *strings.Builder, c Card) {
	p := PaletteOf(c.Type)
	r := c.Rect

	fmt.Fprintf(sb, `<g id="%s" class="node node-%s">
`, html.EscapeString(c.ID), c.Type)
	fmt.Fprintf(sb, `<rect x="%s" y="%s" width="%s" height="%s" rx="8" class="card" fill="%s" stroke="%s"/>
`, num(r.X), num(r.Y), num(r.W), num(r.H), hex(p.Fill), hex(p.Stroke))

	if c.Type == workflow.TypeNote {
		for i, line := range c.Lines {
			fmt.Fprintf(sb, `<text x="%s" y="%s" class="note-line">%s</text>
`, num(r.X+layout.CardPadding*2), num(r.Y+noteTextY+float64(i)*layout.LineHeight), html.EscapeString(line))
		}
	} else {
		cx, cy := r.X+badgeX, r.Y+r.H/2
		fmt.Fprintf(sb, `<circle cx="%s" cy="%s" r="%s" class="badge" stroke="%s"/>
`, num(cx), num(cy), num(badgeRadius), hex(p.Stroke))
		fmt.Fprintf(sb, `<text x="%s" y="%s" class="badge-label" fill="%s">%s</text>
`, num(cx), num(cy), hex(p.Stroke), html.EscapeString(Badge(c.Type)))
		fmt.Fprintf(sb, `<text x="%s" y="%s" class="node-title">%s</text>
`, num(r.X+layout.DescriptionX), num(r.Y+titleY), html.EscapeString(c.Title))
		fmt.Fprintf(sb, `<text x="%s" y="%s" class="node-desc">%s</text>
`, num(r.X+layout.DescriptionX), num(r.Y+descY), html.EscapeString(c.Description))
	}

	for _, h := range c.Handles {
		fmt.Fprintf(sb, `<circle cx="%s" cy="%s" r="%s" class="handle"/>
`, num(h.Center.X), num(h.Center.Y), num(layout.HandleRadius))
	}

	if c.Selected {
		o := r.Inset(-3)
		fmt.Fprintf(sb, `<rect x="%s" y="%s" width="%s" height="%s" rx="10" class="selected"/>
`, num(o.X), num(o.Y), num(o.W), num(o.H))
	}
	sb.WriteString("</g>\n")
}

func bezierPath(b geometry.Bezier) string {
	return fmt.Sprintf("M%s,%s C%s,%s %s,%s %s,%s",
		num(b.P0.X), num(b.P0.Y), num(b.P1.X), num(b.P1.Y),
		num(b.P2.X), num(b.P2.Y), num(b.P3.X), num(b.P3.Y))
}

// num formats a coordinate with at most one decimal.
func num(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	s = strings.TrimSuffix(s, ".0")
	if s == "-0" {
		s = "0"
	}
	return s
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
