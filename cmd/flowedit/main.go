// Command flowedit is a TUI canvas editor for marketing workflows.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/flowcanvas/internal/config"
	"github.com/ha1tch/flowcanvas/internal/logging"
	"github.com/ha1tch/flowcanvas/pkg/canvas"
	"github.com/ha1tch/flowcanvas/pkg/flowfile"
	"github.com/ha1tch/flowcanvas/pkg/geometry"
	"github.com/ha1tch/flowcanvas/pkg/history"
	"github.com/ha1tch/flowcanvas/pkg/render"
	"github.com/ha1tch/flowcanvas/pkg/workflow"
)

// Editor holds all editor state. The document is the host-owned graph the
// canvas engine edits through its callbacks.
type Editor struct {
	screen   tcell.Screen
	doc      *workflow.Document
	engine   *canvas.Engine
	filename string
	modified bool
	config   *config.Config
	drafts   *flowfile.Drafts
	log      *slog.Logger

	// Canvas units per terminal cell at zoom 1
	cellW float64
	cellH float64

	// Mouse state
	mouseX   int
	mouseY   int
	leftDown bool

	// Undo/Redo. pending is the state before the current interaction; it
	// is pushed on the interaction's first change, which sets recorded.
	hist     *history.History
	pending  *history.Snapshot
	recorded bool

	// Quit confirmation for unsaved changes
	quitArmed bool

	// Status message
	message           string
	messageType       MessageType
	messageFlashStart int64 // Unix milliseconds when message was shown
}

// MessageType for status messages
type MessageType int

const (
	MsgInfo    MessageType = iota // Informative, no flash
	MsgError                      // Errors, flash
	MsgSuccess                    // State changes, flash
	MsgWarning                    // Warnings, flash
)

func main() {
	cfg, cfgErr := config.Load()

	closer, err := logging.SetupFile(cfg.LogFile(), cfg.Log.Level)
	if err != nil {
		logging.SetupWriter(io.Discard, cfg.Log.Level)
	} else {
		defer closer.Close()
	}
	if cfgErr != nil {
		slog.Warn("config ignored", "path", config.Path(), "error", cfgErr)
	}

	ed := newEditor(cfg)

	// Check command line
	if len(os.Args) > 1 {
		if err := ed.loadFile(os.Args[1]); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", os.Args[1], err)
				os.Exit(1)
			}
			// New file at the given path
			ed.filename = os.Args[1]
		}
	}

	// Initialize screen
	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse()
	screen.Clear()
	ed.screen = screen

	ed.run()

	screen.Fini()
}

func newEditor(cfg *config.Config) *Editor {
	ed := &Editor{
		doc:    workflow.NewDocument("Untitled workflow"),
		config: cfg,
		drafts: flowfile.NewDrafts(cfg.DraftsDir(), logging.WithModule("drafts")),
		log:    logging.WithModule("flowedit"),
		cellW:  cfg.Editor.CellWidth,
		cellH:  cfg.Editor.CellHeight,
		hist:   history.New(history.MaxLevels),
	}

	ed.engine = canvas.New(canvas.Props{
		Nodes:       ed.doc.Nodes,
		Connections: ed.doc.Connections,
	}, canvas.Options{
		Callbacks: canvas.Callbacks{
			OnNodesChange:       ed.onNodesChange,
			OnConnectionsChange: ed.onConnectionsChange,
			OnZoomChange:        ed.onZoomChange,
			OnResetView:         func() { ed.showMessage("View reset", MsgInfo) },
			OnDropNode:          ed.onDropNode,
		},
		Logger:       logging.WithModule("canvas"),
		HandleRadius: math.Max(ed.cellW, ed.cellH) * 0.75,
	})
	return ed
}

func (ed *Editor) run() {
	// Periodic refresh while a message is flashing
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			if ed.message != "" && ed.messageFlashStart > 0 {
				elapsed := time.Now().UnixMilli() - ed.messageFlashStart
				if elapsed >= 0 && elapsed < 700 {
					ed.screen.PostEvent(tcell.NewEventInterrupt(nil))
				}
			}
		}
	}()

	for {
		ed.draw()
		ed.screen.Show()

		ev := ed.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			ed.screen.Sync()
		case *tcell.EventKey:
			if ed.handleKey(ev) {
				return
			}
		case *tcell.EventMouse:
			ed.handleMouse(ev)
		case *tcell.EventInterrupt:
			// Refresh event for flash animation - just redraw
		}
	}
}

// Engine callbacks. The engine already shows what it emits, so these only
// adopt the change into the document and history.

func (ed *Editor) onNodesChange(nodes []workflow.Node) {
	ed.commitPending()
	ed.doc.Nodes = nodes
	ed.modified = true
}

func (ed *Editor) onConnectionsChange(conns []workflow.Connection) {
	ed.commitPending()
	ed.doc.Connections = conns
	ed.modified = true
}

func (ed *Editor) onZoomChange(zoom float64) {
	ed.showMessage(fmt.Sprintf("Zoom %.0f%%", zoom*100), MsgInfo)
}

func (ed *Editor) onDropNode(t workflow.NodeType, at geometry.Point) {
	ed.beginChange()
	n := workflow.NewNode(t, workflow.NewID(workflow.PrefixNode), at.ClampMin())
	ed.setGraph(workflow.AddNode(ed.doc.Nodes, n), ed.doc.Connections)
	ed.engine.Select(n.ID, false)
	ed.showMessage("Added "+n.Name, MsgSuccess)
}

// beginChange records the current graph as the undo point of the next
// interaction.
func (ed *Editor) beginChange() {
	s := history.Take(ed.doc.Nodes, ed.doc.Connections)
	ed.pending = &s
	ed.recorded = false
}

func (ed *Editor) commitPending() {
	if ed.pending == nil {
		return
	}
	ed.hist.Push(*ed.pending)
	ed.pending = nil
	ed.recorded = true
	ed.quitArmed = false
}

// setGraph replaces the document graph from the host side and hands it to
// the engine.
func (ed *Editor) setGraph(nodes []workflow.Node, conns []workflow.Connection) {
	ed.commitPending()
	ed.doc.Nodes = nodes
	ed.doc.Connections = conns
	ed.modified = true
	ed.engine.SetGraph(nodes, conns)
}

// cellPoint maps a terminal cell to the engine's screen space, at the
// cell's centre.
func (ed *Editor) cellPoint(x, y int) geometry.Point {
	return geometry.Pt((float64(x)+0.5)*ed.cellW, (float64(y)+0.5)*ed.cellH)
}

// toCell maps a canvas point to the terminal cell that shows it.
func (ed *Editor) toCell(p geometry.Point) (int, int) {
	s := ed.engine.Viewport().ToScreen(p)
	return int(math.Floor(s.X / ed.cellW)), int(math.Floor(s.Y / ed.cellH))
}

func convertMods(m tcell.ModMask) canvas.Mods {
	var out canvas.Mods
	if m&tcell.ModShift != 0 {
		out |= canvas.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		out |= canvas.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		out |= canvas.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		out |= canvas.ModMeta
	}
	return out
}

func (ed *Editor) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()
	mods := convertMods(ev.Modifiers())
	pos := ed.cellPoint(x, y)
	ed.mouseX, ed.mouseY = x, y

	// Wheel: Ctrl zooms through the engine, otherwise scroll the canvas
	if buttons&(tcell.WheelUp|tcell.WheelDown) != 0 {
		dy := 1.0
		if buttons&tcell.WheelUp != 0 {
			dy = -1
		}
		if !ed.engine.HandleWheel(canvas.WheelEvent{DeltaY: dy, Pos: pos, Mods: mods}) {
			ed.engine.PanBy(geometry.Pt(0, -dy*ed.cellH*3))
		}
		return
	}

	switch {
	case buttons&tcell.Button1 != 0 && !ed.leftDown:
		if _, h := ed.size(); y >= h-2 {
			return // status rows
		}
		ed.leftDown = true
		ed.quitArmed = false
		ed.beginChange()
		ed.engine.HandlePointer(canvas.PointerEvent{Kind: canvas.PointerPress, Pos: pos, Mods: mods, Button: canvas.ButtonPrimary})

	case buttons&tcell.Button1 != 0:
		ed.engine.HandlePointer(canvas.PointerEvent{Kind: canvas.PointerMove, Pos: pos, Mods: mods, Button: canvas.ButtonPrimary})

	case ed.leftDown:
		ed.leftDown = false
		ed.engine.HandlePointer(canvas.PointerEvent{Kind: canvas.PointerRelease, Pos: pos, Mods: mods, Button: canvas.ButtonPrimary})
		ed.pending = nil
	}
}

func (ed *Editor) handleKey(ev *tcell.EventKey) bool {
	mod := ev.Modifiers()
	// Ctrl+key, or Cmd/Alt+key on terminals that report it that way
	isCtrlOrCmd := func(key tcell.Key, r rune) bool {
		if ev.Key() == key {
			return true
		}
		return mod&(tcell.ModMeta|tcell.ModAlt) != 0 && ev.Rune() == r
	}

	switch {
	case isCtrlOrCmd(tcell.KeyCtrlS, 's'):
		ed.save()
		return false
	case ev.Key() == tcell.KeyCtrlD:
		ed.saveDraft()
		return false
	case isCtrlOrCmd(tcell.KeyCtrlZ, 'z'):
		ed.undo()
		return false
	case isCtrlOrCmd(tcell.KeyCtrlY, 'y'):
		ed.redo()
		return false
	case isCtrlOrCmd(tcell.KeyCtrlA, 'a'):
		ed.engine.SelectAll()
		return false
	case ev.Key() == tcell.KeyCtrlC:
		return true
	}

	switch ev.Key() {
	case tcell.KeyEscape:
		if ed.engine.Gesture().Kind() != canvas.GestureIdle {
			ed.engine.Cancel()
			ed.leftDown = false
			ed.pending = nil
			// The cancelled gesture restored the graph it started from.
			if ed.recorded {
				ed.hist.Drop()
				ed.recorded = false
			}
		} else {
			ed.engine.DeselectAll()
		}
		return false
	case tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2:
		ed.withChange(ed.engine.DeleteSelected)
		return false
	case tcell.KeyUp:
		ed.engine.PanBy(geometry.Pt(0, ed.cellH*2))
		return false
	case tcell.KeyDown:
		ed.engine.PanBy(geometry.Pt(0, -ed.cellH*2))
		return false
	case tcell.KeyLeft:
		ed.engine.PanBy(geometry.Pt(ed.cellW*4, 0))
		return false
	case tcell.KeyRight:
		ed.engine.PanBy(geometry.Pt(-ed.cellW*4, 0))
		return false
	case tcell.KeyRune:
	default:
		return false
	}

	r := ev.Rune()
	if r != 'q' {
		ed.quitArmed = false
	}
	switch r {
	case '1', '2', '3', '4', '5':
		t := workflow.NodeTypes[r-'1']
		ed.engine.HandleDrop(t, ed.cellPoint(ed.mouseX, ed.mouseY))
	case 't':
		ed.addTemplate()
	case 'd':
		ed.withChange(ed.engine.DuplicateSelected)
	case 'a':
		ed.withChange(ed.engine.Arrange)
		ed.showMessage("Arranged", MsgSuccess)
	case '+', '=':
		ed.engine.ZoomIn()
	case '-':
		ed.engine.ZoomOut()
	case '0':
		ed.engine.ResetZoom()
	case 'r':
		ed.engine.ResetView()
	case 'v':
		ed.runValidate()
	case 'e':
		ed.export()
	case 'q':
		if ed.modified && !ed.quitArmed {
			ed.quitArmed = true
			ed.showMessage("Unsaved changes - press q again to quit", MsgWarning)
			return false
		}
		return true
	}
	return false
}

// withChange runs an engine action as one undoable step.
func (ed *Editor) withChange(action func()) {
	ed.beginChange()
	action()
	ed.pending = nil
}

func (ed *Editor) addTemplate() {
	ed.beginChange()
	origin := ed.engine.Viewport().ToCanvas(ed.cellPoint(ed.mouseX, ed.mouseY)).ClampMin()
	nodes, conns := workflow.TriggerTemplate(nil, origin)
	ed.setGraph(append(workflow.CopyNodes(ed.doc.Nodes), nodes...), append(append([]workflow.Connection(nil), ed.doc.Connections...), conns...))
	ed.showMessage("Added trigger template", MsgSuccess)
}

func (ed *Editor) undo() {
	snap, ok := ed.hist.Undo(history.Take(ed.doc.Nodes, ed.doc.Connections))
	if !ok {
		ed.showMessage("Nothing to undo", MsgInfo)
		return
	}
	ed.restore(snap)
	ed.showMessage("Undo", MsgInfo)
}

func (ed *Editor) redo() {
	snap, ok := ed.hist.Redo(history.Take(ed.doc.Nodes, ed.doc.Connections))
	if !ok {
		ed.showMessage("Nothing to redo", MsgInfo)
		return
	}
	ed.restore(snap)
	ed.showMessage("Redo", MsgInfo)
}

func (ed *Editor) restore(s history.Snapshot) {
	ed.pending = nil
	ed.doc.Nodes = s.Nodes
	ed.doc.Connections = s.Connections
	ed.modified = true
	ed.engine.SetGraph(s.Nodes, s.Connections)
}

func (ed *Editor) runValidate() {
	err := workflow.Validate(ed.doc)
	if err == nil {
		ed.showMessage(fmt.Sprintf("Valid: %d nodes, %d connections", len(ed.doc.Nodes), len(ed.doc.Connections)), MsgSuccess)
		return
	}
	ed.log.Info("validation failed", "error", err)
	first := strings.SplitN(err.Error(), "\n", 2)[0]
	ed.showMessage(first, MsgError)
}

// File operations

func (ed *Editor) loadFile(path string) error {
	doc, view, err := flowfile.Load(path)
	if err != nil {
		return err
	}
	ed.doc = doc
	ed.filename = path
	ed.modified = false
	ed.hist.Clear()
	ed.engine.SetGraph(doc.Nodes, doc.Connections)
	if view != nil {
		vp := view.Viewport()
		ed.engine.SetZoom(vp.Zoom)
		ed.engine.ResetPan()
		ed.engine.PanBy(vp.Pan)
		ed.engine.DeselectAll()
		for _, id := range view.Selected {
			ed.engine.Select(id, true)
		}
	}
	ed.log.Info("loaded", "path", path, "nodes", len(doc.Nodes))
	return nil
}

func (ed *Editor) saveFile(path string) error {
	view := flowfile.ViewOf(ed.engine.Viewport(), ed.engine.Selected())
	if err := flowfile.Save(path, ed.doc, &view); err != nil {
		return err
	}
	ed.filename = path
	ed.modified = false

	ed.config.Editor.LastDir = filepath.Dir(path)
	if err := config.Save(ed.config); err != nil {
		ed.log.Warn("config not saved", "error", err)
	}
	ed.log.Info("saved", "path", path)
	return nil
}

func (ed *Editor) save() {
	path := ed.filename
	if path == "" {
		dir := ed.config.Editor.LastDir
		if dir == "" {
			dir, _ = os.Getwd()
		}
		path = filepath.Join(dir, "workflow"+flowfile.ExtBundle)
	}
	if err := ed.saveFile(path); err != nil {
		ed.showMessage("Save failed: "+err.Error(), MsgError)
		return
	}
	ed.showMessage("Saved "+filepath.Base(path), MsgSuccess)
}

func (ed *Editor) saveDraft() {
	saved, err := ed.drafts.Save(ed.doc)
	if err != nil {
		ed.showMessage("Draft failed: "+err.Error(), MsgError)
		return
	}
	ed.showMessage("Draft saved as "+saved.ID, MsgSuccess)
}

// export renders the canvas next to the document in the configured format.
func (ed *Editor) export() {
	base := ed.filename
	if base == "" {
		base = "workflow"
	}
	path := strings.TrimSuffix(base, filepath.Ext(base)) + "." + ed.config.Render.FileType

	opts := render.Options{Title: ed.doc.Name, Scale: ed.config.Render.Scale}
	var err error
	switch ed.config.Render.FileType {
	case "png":
		var f *os.File
		if f, err = os.Create(path); err == nil {
			err = render.PNG(f, ed.doc, opts)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}
	default:
		err = os.WriteFile(path, []byte(render.SVG(ed.doc, opts)), 0o644)
	}
	if err != nil {
		ed.showMessage("Render failed: "+err.Error(), MsgError)
		return
	}
	ed.showMessage("Rendered "+filepath.Base(path), MsgSuccess)
}

func (ed *Editor) showMessage(msg string, msgType MessageType) {
	ed.message = msg
	ed.messageType = msgType
	ed.messageFlashStart = time.Now().UnixMilli()
	if ed.screen != nil {
		ed.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}
}

func (ed *Editor) size() (int, int) {
	if ed.screen == nil {
		return 80, 24
	}
	return ed.screen.Size()
}
