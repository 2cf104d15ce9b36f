package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/flowcanvas/pkg/geometry"
	"github.com/ha1tch/flowcanvas/pkg/workflow"
)

// host mimics an application that owns the graph and feeds every change
// straight back into the engine.
type host struct {
	nodes     []workflow.Node
	conns     []workflow.Connection
	zoom      float64
	selected  []string
	resets    int
	drops     []geometry.Point
	nodeEmits int
	connEmits int
	engine    *Engine
}

func newHost(t *testing.T, nodes []workflow.Node, conns []workflow.Connection) *host {
	t.Helper()
	h := &host{nodes: nodes, conns: conns, zoom: 1}
	h.engine = New(Props{Nodes: nodes, Connections: conns}, Options{
		Callbacks: Callbacks{
			OnNodesChange: func(n []workflow.Node) {
				h.nodeEmits++
				h.nodes = n
				h.engine.SetGraph(h.nodes, h.conns)
			},
			OnConnectionsChange: func(c []workflow.Connection) {
				h.connEmits++
				h.conns = c
				h.engine.SetGraph(h.nodes, h.conns)
			},
			OnZoomChange:      func(z float64) { h.zoom = z },
			OnSelectionChange: func(ids []string) { h.selected = ids },
			OnResetView:       func() { h.resets++ },
			OnDropNode: func(_ workflow.NodeType, at geometry.Point) {
				h.drops = append(h.drops, at)
			},
		},
		NewID: workflow.SequentialIDs(),
	})
	return h
}

func node(t workflow.NodeType, id string, x, y float64) workflow.Node {
	return workflow.NewNode(t, id, geometry.Pt(x, y))
}

func press(e *Engine, x, y float64, mods Mods) {
	e.HandlePointer(PointerEvent{Kind: PointerPress, Pos: geometry.Pt(x, y), Mods: mods})
}

func moveTo(e *Engine, x, y float64) {
	e.HandlePointer(PointerEvent{Kind: PointerMove, Pos: geometry.Pt(x, y)})
}

func release(e *Engine, x, y float64) {
	e.HandlePointer(PointerEvent{Kind: PointerRelease, Pos: geometry.Pt(x, y)})
}

func TestPanAccumulatesFromPressPoint(t *testing.T) {
	h := newHost(t, nil, nil)
	e := h.engine

	press(e, 100, 100, 0)
	assert.Equal(t, GesturePanning, e.Gesture().Kind())
	moveTo(e, 120, 110)
	moveTo(e, 150, 130)
	release(e, 150, 130)

	assert.Equal(t, geometry.Pt(50, 30), e.Viewport().Pan)
	assert.Equal(t, GestureIdle, e.Gesture().Kind())

	// A second pan starts from the current offset
	press(e, 0, 0, 0)
	moveTo(e, -10, 5)
	release(e, -10, 5)
	assert.Equal(t, geometry.Pt(40, 35), e.Viewport().Pan)
}

func TestBackgroundPressClearsSelection(t *testing.T) {
	h := newHost(t, []workflow.Node{node(workflow.TypeScope, "a", 0, 0)}, nil)
	e := h.engine
	e.Select("a", false)
	require.Equal(t, []string{"a"}, h.selected)

	press(e, 1000, 1000, 0)
	assert.Empty(t, h.selected)
	assert.Empty(t, e.Selected())
}

func TestDragIsZoomInvariant(t *testing.T) {
	h := newHost(t, []workflow.Node{node(workflow.TypeAction, "a", 100, 100)}, nil)
	e := h.engine
	e.SetZoom(2)

	// Node occupies screen (200,200)-(600,328) at zoom 2
	press(e, 300, 250, 0)
	require.Equal(t, GestureNodeDragging, e.Gesture().Kind())
	moveTo(e, 400, 250)
	release(e, 400, 250)

	assert.Equal(t, geometry.Pt(150, 100), h.nodes[0].Position)
	assert.Equal(t, []string{"a"}, h.selected)
}

func TestDragClampsAtZero(t *testing.T) {
	h := newHost(t, []workflow.Node{node(workflow.TypeAction, "a", 10, 10)}, nil)
	e := h.engine

	press(e, 50, 30, 0)
	moveTo(e, 0, 0)
	moveTo(e, -100, -100)
	release(e, -100, -100)

	assert.Equal(t, geometry.Pt(0, 0), h.nodes[0].Position)
}

func TestMultiDragMovesSelection(t *testing.T) {
	h := newHost(t, []workflow.Node{
		node(workflow.TypeScope, "a", 0, 0),
		node(workflow.TypeAction, "b", 300, 0),
		node(workflow.TypeAction, "c", 600, 0),
	}, nil)
	e := h.engine

	// Click a, ctrl-click b
	press(e, 50, 30, 0)
	release(e, 50, 30)
	press(e, 350, 30, ModCtrl)
	release(e, 350, 30)
	require.Equal(t, []string{"a", "b"}, h.selected)

	// Dragging an already selected node drags the whole selection
	press(e, 60, 30, 0)
	moveTo(e, 70, 40)
	release(e, 70, 40)

	assert.Equal(t, geometry.Pt(10, 10), h.nodes[0].Position)
	assert.Equal(t, geometry.Pt(310, 10), h.nodes[1].Position)
	assert.Equal(t, geometry.Pt(600, 0), h.nodes[2].Position)
	assert.Equal(t, []string{"a", "b"}, h.selected)
}

func TestClickReplacesSelection(t *testing.T) {
	h := newHost(t, []workflow.Node{
		node(workflow.TypeScope, "a", 0, 0),
		node(workflow.TypeAction, "b", 300, 0),
	}, nil)
	e := h.engine
	e.SelectAll()

	press(e, 50, 30, 0)
	release(e, 50, 30)
	// a was selected, so a plain click keeps the selection for dragging
	assert.Equal(t, []string{"a", "b"}, h.selected)

	e.DeselectAll()
	press(e, 350, 30, 0)
	release(e, 350, 30)
	assert.Equal(t, []string{"b"}, h.selected)

	press(e, 50, 30, 0)
	release(e, 50, 30)
	assert.Equal(t, []string{"a"}, h.selected)
}

func TestModifierClickTogglesOff(t *testing.T) {
	h := newHost(t, []workflow.Node{
		node(workflow.TypeScope, "a", 0, 0),
		node(workflow.TypeAction, "b", 300, 0),
	}, nil)
	e := h.engine
	e.SelectAll()

	press(e, 350, 30, ModMeta)
	assert.Equal(t, []string{"a", "b"}, h.selected, "selection unchanged until release")
	release(e, 350, 30)
	assert.Equal(t, []string{"a"}, h.selected)
}

func TestModifierDragDoesNotToggleOff(t *testing.T) {
	h := newHost(t, []workflow.Node{
		node(workflow.TypeScope, "a", 0, 0),
		node(workflow.TypeAction, "b", 300, 0),
	}, nil)
	e := h.engine
	e.SelectAll()

	press(e, 350, 30, ModCtrl)
	moveTo(e, 360, 30)
	release(e, 360, 30)

	assert.Equal(t, []string{"a", "b"}, h.selected)
	assert.Equal(t, geometry.Pt(10, 0), h.nodes[0].Position)
}

func TestConnectionDropHitTest(t *testing.T) {
	nodes := []workflow.Node{
		node(workflow.TypeScope, "a", 0, 300),
		node(workflow.TypeSchedule, "b", 300, 300),
	}

	t.Run("inside target", func(t *testing.T) {
		h := newHost(t, nodes, nil)
		e := h.engine

		// right handle of a at (200, 332)
		press(e, 200, 332, 0)
		require.Equal(t, GestureConnectionDragging, e.Gesture().Kind())
		moveTo(e, 350, 320)

		preview, ok := e.Preview()
		require.True(t, ok)
		assert.Equal(t, geometry.Pt(200, 332), preview.P0)
		assert.Equal(t, geometry.Pt(350, 320), preview.P3)
		assert.Empty(t, h.conns, "no mutation before release")

		release(e, 350, 320)
		require.Len(t, h.conns, 1)
		assert.Equal(t, "a", h.conns[0].SourceID)
		assert.Equal(t, "b", h.conns[0].TargetID)
		_, ok = e.Preview()
		assert.False(t, ok)
	})

	t.Run("outside target", func(t *testing.T) {
		h := newHost(t, nodes, nil)
		e := h.engine

		press(e, 200, 332, 0)
		moveTo(e, 550, 320)
		release(e, 550, 320)
		assert.Empty(t, h.conns)
		assert.Equal(t, 0, h.connEmits)
	})
}

func TestConnectionRespectsViewport(t *testing.T) {
	h := newHost(t, []workflow.Node{
		node(workflow.TypeScope, "a", 0, 0),
		node(workflow.TypeAction, "b", 300, 0),
	}, nil)
	e := h.engine
	e.SetZoom(0.5)
	e.PanBy(geometry.Pt(10, 10))

	// a's right handle: canvas (200,32) → screen (110,26)
	press(e, 110, 26, 0)
	require.Equal(t, GestureConnectionDragging, e.Gesture().Kind())
	// b's body: canvas (350,30) → screen (185,25)
	release(e, 185, 25)
	require.Len(t, h.conns, 1)
}

func TestConnectionRejections(t *testing.T) {
	nodes := []workflow.Node{
		node(workflow.TypeScope, "a", 0, 0),
		node(workflow.TypeAction, "b", 300, 0),
		node(workflow.TypeNote, "n", 0, 200),
	}

	t.Run("self", func(t *testing.T) {
		h := newHost(t, nodes, nil)
		press(h.engine, 200, 32, 0)
		release(h.engine, 100, 30)
		assert.Empty(t, h.conns)
	})

	t.Run("note target", func(t *testing.T) {
		h := newHost(t, nodes, nil)
		press(h.engine, 200, 32, 0)
		release(h.engine, 100, 240)
		assert.Empty(t, h.conns)
	})

	t.Run("note has no handles", func(t *testing.T) {
		h := newHost(t, nodes, nil)
		// note's right edge center would be (240, 240)
		assert.Equal(t, TargetNode, h.engine.Pick(geometry.Pt(239, 240)).Kind)
	})

	t.Run("duplicate", func(t *testing.T) {
		h := newHost(t, nodes, []workflow.Connection{{ID: "ab", SourceID: "a", TargetID: "b"}})
		press(h.engine, 200, 32, 0)
		release(h.engine, 350, 30)
		assert.Len(t, h.conns, 1)
		assert.Equal(t, 0, h.connEmits)

		// the reverse direction is a distinct edge
		press(h.engine, 500, 32, 0)
		release(h.engine, 100, 30)
		require.Len(t, h.conns, 2)
		assert.Equal(t, "b", h.conns[1].SourceID)
	})
}

func TestOverlappingDropPicksTopmost(t *testing.T) {
	h := newHost(t, []workflow.Node{
		node(workflow.TypeScope, "src", 0, 0),
		node(workflow.TypeAction, "under", 300, 0),
		node(workflow.TypeAction, "over", 350, 10),
	}, nil)

	press(h.engine, 200, 32, 0)
	release(h.engine, 400, 40)

	require.Len(t, h.conns, 1)
	assert.Equal(t, "over", h.conns[0].TargetID)
}

func TestPickPrefersHandles(t *testing.T) {
	h := newHost(t, []workflow.Node{node(workflow.TypeScope, "a", 0, 0)}, nil)
	e := h.engine

	assert.Equal(t, Target{Kind: TargetHandle, NodeID: "a", Handle: 1}, e.Pick(geometry.Pt(199, 32)))
	assert.Equal(t, Target{Kind: TargetNode, NodeID: "a"}, e.Pick(geometry.Pt(100, 32)))
	assert.Equal(t, Target{Kind: TargetBackground}, e.Pick(geometry.Pt(500, 500)))

	// b is drawn over a's right handle, so its body wins there.
	h = newHost(t, []workflow.Node{
		node(workflow.TypeAction, "a", 0, 0),
		node(workflow.TypeAction, "b", 100, 0),
	}, nil)
	assert.Equal(t, Target{Kind: TargetNode, NodeID: "b"}, h.engine.Pick(geometry.Pt(200, 32)))
	// a's left handle is outside b and still reachable.
	assert.Equal(t, Target{Kind: TargetHandle, NodeID: "a", Handle: 3}, h.engine.Pick(geometry.Pt(0, 32)))
	// b's own handles sit on top of everything beneath.
	assert.Equal(t, Target{Kind: TargetHandle, NodeID: "b", Handle: 0}, h.engine.Pick(geometry.Pt(200, 0)))
}

func TestStaleDragAfterExternalReplace(t *testing.T) {
	h := newHost(t, []workflow.Node{
		node(workflow.TypeScope, "a", 0, 0),
		node(workflow.TypeAction, "b", 300, 0),
	}, nil)
	e := h.engine
	e.SelectAll()

	press(e, 50, 30, 0)
	// host undoes the addition of a while the drag is live
	h.nodes = []workflow.Node{h.nodes[1]}
	e.SetGraph(h.nodes, h.conns)
	moveTo(e, 60, 30)
	release(e, 60, 30)

	require.Len(t, h.nodes, 1)
	assert.Equal(t, geometry.Pt(310, 0), h.nodes[0].Position)
	assert.Equal(t, []string{"b"}, e.Selected())
}

func TestStaleConnectionSourceAborts(t *testing.T) {
	h := newHost(t, []workflow.Node{
		node(workflow.TypeScope, "a", 0, 0),
		node(workflow.TypeAction, "b", 300, 0),
	}, nil)
	e := h.engine

	press(e, 200, 32, 0)
	h.nodes = h.nodes[1:]
	e.SetGraph(h.nodes, h.conns)
	release(e, 350, 30)

	assert.Empty(t, h.conns)
	assert.Equal(t, GestureIdle, e.Gesture().Kind())
}

func TestPressDuringGestureDoesNotCommit(t *testing.T) {
	h := newHost(t, []workflow.Node{
		node(workflow.TypeScope, "a", 0, 0),
		node(workflow.TypeAction, "b", 300, 0),
	}, nil)
	e := h.engine

	press(e, 200, 32, 0)
	moveTo(e, 350, 30)
	// release was lost; a new press over b starts a node drag instead
	press(e, 350, 30, 0)

	assert.Empty(t, h.conns)
	assert.Equal(t, GestureNodeDragging, e.Gesture().Kind())
}

func TestSecondaryButtonIgnored(t *testing.T) {
	h := newHost(t, []workflow.Node{node(workflow.TypeScope, "a", 0, 0)}, nil)
	e := h.engine
	e.HandlePointer(PointerEvent{Kind: PointerPress, Pos: geometry.Pt(50, 30), Button: ButtonSecondary})
	assert.Equal(t, GestureIdle, e.Gesture().Kind())
	assert.Empty(t, h.selected)
}

func TestCancel(t *testing.T) {
	h := newHost(t, []workflow.Node{node(workflow.TypeScope, "a", 100, 100)}, nil)
	e := h.engine

	press(e, 150, 130, 0)
	moveTo(e, 250, 230)
	require.Equal(t, geometry.Pt(200, 200), h.nodes[0].Position)
	e.Cancel()
	assert.Equal(t, geometry.Pt(100, 100), h.nodes[0].Position)
	assert.Equal(t, GestureIdle, e.Gesture().Kind())

	press(e, 0, 0, 0)
	moveTo(e, 40, 40)
	e.Cancel()
	assert.Equal(t, geometry.Point{}, e.Viewport().Pan)

	e.Cancel() // idle: no-op
}

func TestWheel(t *testing.T) {
	h := newHost(t, nil, nil)
	e := h.engine

	assert.False(t, e.HandleWheel(WheelEvent{DeltaY: 1}), "plain wheel scrolls")
	assert.Equal(t, 1.0, e.Zoom())

	assert.True(t, e.HandleWheel(WheelEvent{DeltaY: -1, Mods: ModCtrl}))
	assert.InDelta(t, 1.1, h.zoom, 1e-9)

	assert.True(t, e.HandleWheel(WheelEvent{DeltaY: 1, Mods: ModMeta}))
	assert.InDelta(t, 0.99, h.zoom, 1e-9)

	for i := 0; i < 50; i++ {
		e.HandleWheel(WheelEvent{DeltaY: 1, Mods: ModCtrl})
	}
	assert.Equal(t, 0.3, e.Zoom())
}

func TestControlledZoom(t *testing.T) {
	z := 5.0
	e := New(Props{Zoom: &z}, Options{})
	assert.Equal(t, 2.0, e.Zoom())
}

func TestDrop(t *testing.T) {
	h := newHost(t, nil, nil)
	e := h.engine
	e.SetZoom(2)
	e.PanBy(geometry.Pt(100, 0))

	e.HandleDrop(workflow.TypeCondition, geometry.Pt(300, 200))
	require.Len(t, h.drops, 1)
	assert.Equal(t, geometry.Pt(100, 100), h.drops[0])

	e.HandleDrop("bogus", geometry.Pt(0, 0))
	assert.Len(t, h.drops, 1)
}

func TestArrange(t *testing.T) {
	nodes := []workflow.Node{
		node(workflow.TypeAction, "b", 900, 40),
		node(workflow.TypeScope, "a", 10, 700),
	}
	conns := []workflow.Connection{{ID: "c1", SourceID: "a", TargetID: "b"}}
	h := newHost(t, nodes, conns)

	h.engine.Arrange()
	require.Equal(t, 1, h.nodeEmits)
	a, _ := workflow.FindNode(h.nodes, "a")
	b, _ := workflow.FindNode(h.nodes, "b")
	assert.Equal(t, workflow.TemplateOrigin, a.Position)
	assert.Equal(t, geometry.Pt(350, 200), b.Position)
	assert.Equal(t, geometry.Pt(900, 40), nodes[0].Position, "input collection untouched")

	empty := newHost(t, nil, nil)
	empty.engine.Arrange()
	assert.Zero(t, empty.nodeEmits)
}
