package main

import (
	"fmt"
	"math"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/flowcanvas/pkg/canvas"
	"github.com/ha1tch/flowcanvas/pkg/geometry"
	"github.com/ha1tch/flowcanvas/pkg/layout"
	"github.com/ha1tch/flowcanvas/pkg/workflow"
)

// Styles
var (
	styleDefault    = tcell.StyleDefault
	styleTitle      = tcell.StyleDefault.Bold(true).Foreground(tcell.ColorWhite)
	styleDesc       = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleEdge       = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	stylePreview    = tcell.StyleDefault.Foreground(tcell.NewRGBColor(200, 162, 200)) // Lilac
	styleHandle     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleSelected   = tcell.StyleDefault.Foreground(tcell.ColorOrange).Bold(true)
	styleStatus     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo    = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgSuccess = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleHelp       = tcell.StyleDefault.Foreground(tcell.ColorGray) // Help bar on default background
)

// typeStyle is the border color of each node type.
var typeStyle = map[workflow.NodeType]tcell.Style{
	workflow.TypeScope:     tcell.StyleDefault.Foreground(tcell.ColorBlue),
	workflow.TypeSchedule:  tcell.StyleDefault.Foreground(tcell.ColorPurple),
	workflow.TypeCondition: tcell.StyleDefault.Foreground(tcell.ColorYellow),
	workflow.TypeAction:    tcell.StyleDefault.Foreground(tcell.ColorGreen),
	workflow.TypeNote:      tcell.StyleDefault.Foreground(tcell.ColorOlive),
}

func (ed *Editor) draw() {
	ed.screen.Clear()
	w, h := ed.screen.Size()
	canvasH := h - 2

	ed.drawEdges(w, canvasH)
	for _, n := range ed.engine.Nodes() {
		ed.drawNode(n, w, canvasH)
	}
	if curve, ok := ed.engine.Preview(); ok {
		ed.drawCurve(curve, w, canvasH, stylePreview)
	}

	ed.drawStatusBar(w, h)
}

func (ed *Editor) drawEdges(w, h int) {
	nodes := ed.engine.Nodes()
	for _, c := range ed.engine.LiveConnections() {
		src, _ := workflow.FindNode(nodes, c.SourceID)
		dst, _ := workflow.FindNode(nodes, c.TargetID)
		ed.drawCurve(layout.EdgeCurve(src, dst), w, h, styleEdge)
	}
}

// drawCurve plots a connection curve as dots with an arrowhead at its end.
func (ed *Editor) drawCurve(b geometry.Bezier, w, h int, style tcell.Style) {
	zoom := ed.engine.Zoom()
	steps := int(b.Length()*zoom/math.Min(ed.cellW, ed.cellH)) + 2
	pts := b.Flatten(steps)
	for _, p := range pts {
		x, y := ed.toCell(p)
		ed.setCell(x, y, '·', style, w, h)
	}

	// The end cell belongs to the target's frame; the arrow sits just
	// outside it.
	ex, ey := ed.toCell(b.P3)
	ax, ay := ex, ey
	for i := len(pts) - 1; i >= 0; i-- {
		if x, y := ed.toCell(pts[i]); x != ex || y != ey {
			ax, ay = x, y
			break
		}
	}
	ed.setCell(ax, ay, arrowRune(b.EndAngle()), style, w, h)
}

// arrowRune picks the arrowhead closest to a direction in radians.
func arrowRune(angle float64) rune {
	switch octant := int(math.Round(angle/(math.Pi/4))) & 7; octant {
	case 0:
		return '▶'
	case 1, 2, 3:
		return '▼'
	case 4:
		return '◀'
	default:
		return '▲'
	}
}

func (ed *Editor) drawNode(n workflow.Node, w, h int) {
	r := ed.engine.Viewport().ToScreenRect(layout.Bounds(n))
	x0 := int(math.Round(r.X / ed.cellW))
	y0 := int(math.Round(r.Y / ed.cellH))
	x1 := int(math.Round((r.X+r.W)/ed.cellW)) - 1
	y1 := int(math.Round((r.Y+r.H)/ed.cellH)) - 1
	if x1-x0 < 2 {
		x1 = x0 + 2
	}
	if y1-y0 < 1 {
		y1 = y0 + 1
	}

	border := typeStyle[n.Type]
	selected := ed.engine.IsSelected(n.ID)
	if selected {
		border = styleSelected
	}
	ed.drawFrame(x0, y0, x1, y1, border, selected, w, h)

	inner := x1 - x0 - 1
	if n.Type == workflow.TypeNote {
		for i, line := range layout.NoteLines(n) {
			if y0+1+i >= y1 {
				break
			}
			ed.drawClipped(x0+1, y0+1+i, truncate(line, inner), styleDesc, w, h)
		}
	} else {
		ed.drawClipped(x0+1, y0+1, truncate(n.Name, inner), styleTitle, w, h)
		if y0+2 < y1 {
			ed.drawClipped(x0+1, y0+2, truncate(layout.Description(n), inner), styleDesc, w, h)
		}
	}

	for _, hd := range layout.Handles(n) {
		x, y := ed.toCell(hd.Center)
		ed.setCell(x, y, '○', styleHandle, w, h)
	}
}

// drawFrame draws a box outline; selected boxes use double lines.
func (ed *Editor) drawFrame(x0, y0, x1, y1 int, style tcell.Style, double bool, w, h int) {
	tl, tr, bl, br, hz, vt := '┌', '┐', '└', '┘', '─', '│'
	if double {
		tl, tr, bl, br, hz, vt = '╔', '╗', '╚', '╝', '═', '║'
	}
	for x := x0 + 1; x < x1; x++ {
		ed.setCell(x, y0, hz, style, w, h)
		ed.setCell(x, y1, hz, style, w, h)
	}
	for y := y0 + 1; y < y1; y++ {
		ed.setCell(x0, y, vt, style, w, h)
		ed.setCell(x1, y, vt, style, w, h)
		for x := x0 + 1; x < x1; x++ {
			ed.setCell(x, y, ' ', styleDefault, w, h)
		}
	}
	ed.setCell(x0, y0, tl, style, w, h)
	ed.setCell(x1, y0, tr, style, w, h)
	ed.setCell(x0, y1, bl, style, w, h)
	ed.setCell(x1, y1, br, style, w, h)
}

// setCell writes one rune if the cell is inside the w×h canvas area.
func (ed *Editor) setCell(x, y int, r rune, style tcell.Style, w, h int) {
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	ed.screen.SetContent(x, y, r, nil, style)
}

func (ed *Editor) drawClipped(x, y int, s string, style tcell.Style, w, h int) {
	for i, r := range []rune(s) {
		ed.setCell(x+i, y, r, style, w, h)
	}
}

func (ed *Editor) drawStatusBar(w, h int) {
	y := h - 1

	// Background
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	// File info
	fileInfo := "[New]"
	if ed.filename != "" {
		if len(ed.filename) > 30 {
			fileInfo = filepath.Base(ed.filename)
		} else {
			fileInfo = ed.filename
		}
	}
	if ed.modified {
		fileInfo += " *"
	}
	ed.drawString(1, y, fileInfo, styleStatus)

	// Mode
	modeStr := ed.modeString()
	ed.drawString(w/2-len(modeStr)/2, y, modeStr, styleStatus)

	// Message
	if ed.message != "" {
		style := styleMsgInfo
		switch ed.messageType {
		case MsgError, MsgWarning:
			style = styleMsgError
		case MsgSuccess:
			style = styleMsgSuccess
		}
		if flashes(ed.messageType) && flashInverted(time.Now().UnixMilli()-ed.messageFlashStart) {
			style = style.Reverse(true)
		}
		msg := []rune(ed.message)
		ed.drawString(w-len(msg)-2, y, ed.message, style)
	}

	// Help bar
	y = h - 2
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleDefault)
	}
	ed.drawString(1, y, ed.helpString(), styleHelp)
}

func (ed *Editor) drawString(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		ed.screen.SetContent(x+i, y, r, nil, style)
	}
}

// modeString describes the active gesture plus zoom and selection.
func (ed *Editor) modeString() string {
	var g string
	switch ed.engine.Gesture().Kind() {
	case canvas.GesturePanning:
		g = "PAN  "
	case canvas.GestureNodeDragging:
		g = "MOVE  "
	case canvas.GestureConnectionDragging:
		g = "CONNECT  "
	}
	s := fmt.Sprintf("%s%.0f%%", g, ed.engine.Zoom()*100)
	if n := len(ed.engine.Selected()); n > 0 {
		s += fmt.Sprintf("  %d selected", n)
	}
	return s
}

func (ed *Editor) helpString() string {
	if ed.engine.Gesture().Kind() != canvas.GestureIdle {
		return "Esc:Cancel"
	}
	return "1-5:Add  T:Template  A:Arrange  D:Dup  Del:Delete  Esc:Deselect  +/-/0:Zoom  R:Reset  V:Validate  E:Render  ^S:Save  ^D:Draft  ^Z/^Y:Undo/Redo  Q:Quit"
}

// flashInverted reports whether a flashing message is drawn inverted after
// elapsed milliseconds: two inversions within the first half second.
func flashInverted(elapsed int64) bool {
	if elapsed < 0 || elapsed >= 500 {
		return false
	}
	phase := elapsed / 125
	return phase == 1 || phase == 3
}

// flashes reports whether a message type flashes.
func flashes(t MessageType) bool {
	return t != MsgInfo
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return string(r[:max(maxLen, 0)])
	}
	return string(r[:maxLen-1]) + "…"
}
