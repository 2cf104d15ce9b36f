// Native PNG rendering of workflow scenes.
// Mirrors the SVG renderer output using Go's image packages.

package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ha1tch/flowcanvas/pkg/geometry"
	"github.com/ha1tch/flowcanvas/pkg/layout"
	"github.com/ha1tch/flowcanvas/pkg/workflow"
)

// Supersample is the factor the scene is drawn at before downsampling.
const Supersample = 4

// renderContext maps canvas units to pixels of the large image.
type renderContext struct {
	img    *image.RGBA
	origin geometry.Point // canvas point drawn at pixel (0,0)
	k      float64        // pixels per canvas unit
	title  font.Face
	body   font.Face
	small  font.Face
}

func newRenderContext(img *image.RGBA, origin geometry.Point, k float64) (*renderContext, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, err
	}
	face := func(f *opentype.Font, size float64) (font.Face, error) {
		return opentype.NewFace(f, &opentype.FaceOptions{
			Size:    size * k,
			DPI:     72,
			Hinting: font.HintingNone, // supersampled instead
		})
	}

	ctx := &renderContext{img: img, origin: origin, k: k}
	if ctx.title, err = face(bold, 13); err != nil {
		return nil, err
	}
	if ctx.body, err = face(regular, 11); err != nil {
		return nil, err
	}
	if ctx.small, err = face(regular, 10); err != nil {
		return nil, err
	}
	return ctx, nil
}

// px converts a canvas point to large-image pixels.
func (ctx *renderContext) px(p geometry.Point) (float64, float64) {
	return (p.X - ctx.origin.X) * ctx.k, (p.Y - ctx.origin.Y) * ctx.k
}

// PNG renders doc to w as a PNG image, 4x supersampled.
func PNG(w io.Writer, doc *workflow.Document, opts Options) error {
	opts = opts.normalized()
	return Build(doc, opts).PNG(w, opts.Scale)
}

// PNG renders an already built scene.
func (sc Scene) PNG(w io.Writer, scale float64) error {
	img, err := sc.Image(scale)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// Image rasterizes the scene at scale pixels per canvas unit.
func (sc Scene) Image(scale float64) (*image.RGBA, error) {
	if scale <= 0 {
		scale = 1
	}
	width, height := sc.PixelSize(scale)

	large := image.NewRGBA(image.Rect(0, 0, width*Supersample, height*Supersample))
	ctx, err := newRenderContext(large, sc.Frame.Min(), scale*Supersample)
	if err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}
	ctx.draw(sc)

	final := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(final, final.Bounds(), large, large.Bounds(), draw.Over, nil)
	return final, nil
}

func (ctx *renderContext) draw(sc Scene) {
	draw.Draw(ctx.img, ctx.img.Bounds(), image.NewUniform(colorWhite), image.Point{}, draw.Src)

	if sc.Title != "" {
		f := sc.Frame
		ctx.textCentered(geometry.Pt(f.X+f.W/2, f.Y+TitleHeight*0.6), sc.Title, ctx.title, colorInk)
	}

	for _, e := range sc.Edges {
		ctx.bezierArrow(e.Curve, colorInk, false)
	}

	for _, c := range sc.Cards {
		ctx.card(c)
	}

	if sc.Preview != nil {
		ctx.bezierArrow(*sc.Preview, colorPreview, true)
	}
}

func (ctx *renderContext) card(c Card) {
	p := PaletteOf(c.Type)
	r := c.Rect

	ctx.fillRect(r, p.Fill)
	ctx.strokeRect(r, 1.5, p.Stroke)

	if c.Type == workflow.TypeNote {
		for i, line := range c.Lines {
			at := geometry.Pt(r.X+layout.CardPadding*2, r.Y+noteTextY+float64(i)*layout.LineHeight)
			ctx.text(at, line, ctx.body, colorInk)
		}
	} else {
		center := geometry.Pt(r.X+badgeX, r.Y+r.H/2)
		ctx.disc(center, badgeRadius, colorWhite, p.Stroke)
		ctx.textCentered(center, Badge(c.Type), ctx.title, p.Stroke)
		ctx.text(geometry.Pt(r.X+layout.DescriptionX, r.Y+titleY), c.Title, ctx.title, colorInk)
		ctx.text(geometry.Pt(r.X+layout.DescriptionX, r.Y+descY), c.Description, ctx.small, colorMuted)
	}

	for _, h := range c.Handles {
		ctx.disc(h.Center, layout.HandleRadius, colorWhite, colorMuted)
	}

	if c.Selected {
		ctx.strokeRect(r.Inset(-3), 3, colorSelection)
	}
}

// fillRect paints a rectangle given in canvas units.
func (ctx *renderContext) fillRect(r geometry.Rect, c color.Color) {
	x0, y0 := ctx.px(r.Min())
	x1, y1 := ctx.px(r.Max())
	rect := image.Rect(int(math.Round(x0)), int(math.Round(y0)), int(math.Round(x1)), int(math.Round(y1)))
	draw.Draw(ctx.img, rect, image.NewUniform(c), image.Point{}, draw.Src)
}

// strokeRect outlines r with a line of the given width in canvas units.
func (ctx *renderContext) strokeRect(r geometry.Rect, width float64, c color.Color) {
	h := width / 2
	ctx.fillRect(geometry.Rect{X: r.X - h, Y: r.Y - h, W: r.W + width, H: width}, c)
	ctx.fillRect(geometry.Rect{X: r.X - h, Y: r.Y + r.H - h, W: r.W + width, H: width}, c)
	ctx.fillRect(geometry.Rect{X: r.X - h, Y: r.Y - h, W: width, H: r.H + width}, c)
	ctx.fillRect(geometry.Rect{X: r.X + r.W - h, Y: r.Y - h, W: width, H: r.H + width}, c)
}

// disc draws a filled circle with a 1.5 unit outline.
func (ctx *renderContext) disc(center geometry.Point, radius float64, fill, stroke color.Color) {
	cx, cy := ctx.px(center)
	outer := radius * ctx.k
	inner := (radius - 1.5) * ctx.k
	for y := math.Floor(cy - outer); y <= cy+outer; y++ {
		for x := math.Floor(cx - outer); x <= cx+outer; x++ {
			d := math.Hypot(x+0.5-cx, y+0.5-cy)
			switch {
			case d <= inner:
				ctx.img.Set(int(x), int(y), fill)
			case d <= outer:
				ctx.img.Set(int(x), int(y), stroke)
			}
		}
	}
}

// line draws a segment between canvas points, 2 canvas units thick.
func (ctx *renderContext) line(a, b geometry.Point, c color.Color) {
	x1, y1 := ctx.px(a)
	x2, y2 := ctx.px(b)
	halfThick := ctx.k

	dx := x2 - x1
	dy := y2 - y1
	dist := math.Hypot(dx, dy)
	if dist < 1 {
		for ty := -halfThick; ty <= halfThick; ty++ {
			for tx := -halfThick; tx <= halfThick; tx++ {
				ctx.img.Set(int(x1+tx), int(y1+ty), c)
			}
		}
		return
	}

	perpX := -dy / dist
	perpY := dx / dist
	for i := 0.0; i <= dist; i++ {
		t := i / dist
		cx := x1 + dx*t
		cy := y1 + dy*t
		for offset := -halfThick; offset <= halfThick; offset += 0.5 {
			ctx.img.Set(int(cx+perpX*offset), int(cy+perpY*offset), c)
		}
	}
}

// bezierArrow draws a flattened curve with a filled arrowhead at its end.
// Dashed curves skip every other pair of segments.
func (ctx *renderContext) bezierArrow(b geometry.Bezier, c color.Color, dashed bool) {
	pts := b.Flatten(64)
	for i := 1; i < len(pts); i++ {
		if dashed && (i/2)%2 == 1 {
			continue
		}
		ctx.line(pts[i-1], pts[i], c)
	}

	angle := b.EndAngle()
	nx, ny := math.Cos(angle), math.Sin(angle)
	const arrowLen, arrowWidth = 10.0, 4.0

	tip := b.P3
	w1 := geometry.Pt(tip.X-nx*arrowLen+ny*arrowWidth, tip.Y-ny*arrowLen-nx*arrowWidth)
	w2 := geometry.Pt(tip.X-nx*arrowLen-ny*arrowWidth, tip.Y-ny*arrowLen+nx*arrowWidth)
	for t := 0.0; t <= 1.0; t += 0.1 {
		ctx.line(tip, geometry.Pt(w1.X+(w2.X-w1.X)*t, w1.Y+(w2.Y-w1.Y)*t), c)
	}
}

// text draws s with its baseline starting at a canvas point.
func (ctx *renderContext) text(at geometry.Point, s string, face font.Face, c color.Color) {
	if s == "" {
		return
	}
	x, y := ctx.px(at)
	d := &font.Drawer{
		Dst:  ctx.img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(int(x)), Y: fixed.I(int(y))},
	}
	d.DrawString(s)
}

// textCentered draws s centered on a canvas point.
func (ctx *renderContext) textCentered(center geometry.Point, s string, face font.Face, c color.Color) {
	if s == "" {
		return
	}
	width := font.MeasureString(face, s).Ceil()
	ascent := face.Metrics().Ascent.Ceil()
	x, y := ctx.px(center)
	d := &font.Drawer{
		Dst:  ctx.img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(int(x) - width/2), Y: fixed.I(int(y) + int(float64(ascent)*0.35))},
	}
	d.DrawString(s)
}
