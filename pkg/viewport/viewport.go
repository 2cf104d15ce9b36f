// Package viewport maps between screen space and canvas space.
//
//	screen = canvas × Zoom + Pan
//	canvas = (screen − Pan) / Zoom
package viewport

import (
	"math"

	"github.com/ha1tch/flowcanvas/pkg/geometry"
)

// Zoom limits and the toolbar step.
const (
	MinZoom  = 0.3
	MaxZoom  = 2.0
	ZoomStep = 0.1

	// Wheel zoom factors for scrolling down and up.
	WheelZoomOut = 0.9
	WheelZoomIn  = 1.1
)

// Viewport is a pan offset in screen units and a zoom factor.
type Viewport struct {
	Zoom float64
	Pan  geometry.Point
}

// Default returns zoom 1 with no pan.
func Default() Viewport {
	return Viewport{Zoom: 1}
}

// ClampZoom limits z to [MinZoom, MaxZoom]. NaN maps to 1.
func ClampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return 1
	}
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}

// ToCanvas converts a screen point to canvas space.
func (v Viewport) ToCanvas(p geometry.Point) geometry.Point {
	return p.Sub(v.Pan).Div(v.zoom())
}

// ToScreen converts a canvas point to screen space.
func (v Viewport) ToScreen(p geometry.Point) geometry.Point {
	return p.Scale(v.zoom()).Add(v.Pan)
}

// ScreenDelta converts a screen-space displacement to canvas units.
func (v Viewport) ScreenDelta(d geometry.Point) geometry.Point {
	return d.Div(v.zoom())
}

// ToScreenRect converts a canvas rectangle to screen space.
func (v Viewport) ToScreenRect(r geometry.Rect) geometry.Rect {
	return geometry.RectFromPoints(v.ToScreen(r.Min()), v.ToScreen(r.Max()))
}

// SetZoom sets the zoom, clamped. A NaN request leaves the zoom unchanged.
func (v *Viewport) SetZoom(z float64) {
	if math.IsNaN(z) {
		return
	}
	v.Zoom = ClampZoom(z)
}

// ZoomBy multiplies the zoom by factor.
func (v *Viewport) ZoomBy(factor float64) {
	v.SetZoom(v.zoom() * factor)
}

// ZoomIn and ZoomOut step the zoom by ZoomStep, as the toolbar buttons do.
func (v *Viewport) ZoomIn()  { v.SetZoom(v.zoom() + ZoomStep) }
func (v *Viewport) ZoomOut() { v.SetZoom(v.zoom() - ZoomStep) }

// ResetPan returns the pan offset to the origin. The zoom is kept.
func (v *Viewport) ResetPan() {
	v.Pan = geometry.Point{}
}

// ResetZoom returns the zoom to 1. The pan is kept.
func (v *Viewport) ResetZoom() {
	v.Zoom = 1
}

// WheelFactor returns the zoom factor for a wheel step: scrolling down
// (positive delta) zooms out.
func WheelFactor(deltaY float64) float64 {
	if deltaY > 0 {
		return WheelZoomOut
	}
	return WheelZoomIn
}

func (v Viewport) zoom() float64 {
	if v.Zoom <= 0 || math.IsNaN(v.Zoom) {
		return 1
	}
	return v.Zoom
}
