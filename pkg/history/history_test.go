package history

import (
	"testing"

	"github.com/ha1tch/flowcanvas/pkg/geometry"
	"github.com/ha1tch/flowcanvas/pkg/workflow"
)

func graphWith(n int) Snapshot {
	nodes := make([]workflow.Node, n)
	for i := range nodes {
		nodes[i] = workflow.NewNode(workflow.TypeAction, string(rune('a'+i)), geometry.Pt(0, 0))
	}
	return Take(nodes, nil)
}

func TestUndoRedo(t *testing.T) {
	h := New(0)

	if h.CanUndo() || h.CanRedo() {
		t.Fatal("new history should be empty")
	}

	h.Push(graphWith(0))
	h.Push(graphWith(1))
	current := graphWith(2)

	s, ok := h.Undo(current)
	if !ok || len(s.Nodes) != 1 {
		t.Fatalf("Undo = %d nodes, %v; want 1, true", len(s.Nodes), ok)
	}
	current = s

	s, ok = h.Undo(current)
	if !ok || len(s.Nodes) != 0 {
		t.Fatalf("second Undo = %d nodes, %v; want 0, true", len(s.Nodes), ok)
	}
	current = s

	if _, ok := h.Undo(current); ok {
		t.Error("Undo past the bottom should fail")
	}

	s, ok = h.Redo(current)
	if !ok || len(s.Nodes) != 1 {
		t.Fatalf("Redo = %d nodes, %v; want 1, true", len(s.Nodes), ok)
	}
	current = s

	s, ok = h.Redo(current)
	if !ok || len(s.Nodes) != 2 {
		t.Fatalf("second Redo = %d nodes, %v; want 2, true", len(s.Nodes), ok)
	}

	if _, ok := h.Redo(s); ok {
		t.Error("Redo past the top should fail")
	}
}

func TestPushClearsRedo(t *testing.T) {
	h := New(0)
	h.Push(graphWith(0))
	h.Undo(graphWith(1))
	if !h.CanRedo() {
		t.Fatal("expected a redo level")
	}

	h.Push(graphWith(3))
	if h.CanRedo() {
		t.Error("new change should clear redo")
	}
}

func TestMaxLevels(t *testing.T) {
	h := New(3)
	for i := 0; i < 5; i++ {
		h.Push(graphWith(i))
	}
	undo, _ := h.Len()
	if undo != 3 {
		t.Fatalf("undo levels = %d, want 3", undo)
	}

	// Oldest kept level is the third push
	var s Snapshot
	cur := graphWith(5)
	for h.CanUndo() {
		s, _ = h.Undo(cur)
		cur = s
	}
	if len(s.Nodes) != 2 {
		t.Errorf("oldest snapshot has %d nodes, want 2", len(s.Nodes))
	}
}

func TestDefaultLimit(t *testing.T) {
	h := New(0)
	for i := 0; i < MaxLevels+10; i++ {
		h.Push(graphWith(0))
	}
	if undo, _ := h.Len(); undo != MaxLevels {
		t.Errorf("undo levels = %d, want %d", undo, MaxLevels)
	}
}

func TestRedoKeepsLimit(t *testing.T) {
	h := New(2)
	h.Push(graphWith(0))
	h.Push(graphWith(1))

	current := graphWith(2)
	for i := 0; i < 5; i++ {
		s, ok := h.Undo(current)
		if !ok {
			t.Fatalf("round %d: Undo failed", i)
		}
		if current, ok = h.Redo(s); !ok {
			t.Fatalf("round %d: Redo failed", i)
		}
		if undo, _ := h.Len(); undo > 2 {
			t.Fatalf("round %d: undo levels = %d, want <= 2", i, undo)
		}
	}
	if len(current.Nodes) != 2 {
		t.Errorf("after round trips current has %d nodes, want 2", len(current.Nodes))
	}
}

func TestDrop(t *testing.T) {
	h := New(0)
	h.Push(graphWith(1))
	h.Drop()
	if h.CanUndo() {
		t.Error("Drop should remove the last level")
	}
	h.Drop() // no panic on empty
}

func TestTakeIsDeep(t *testing.T) {
	nodes := []workflow.Node{workflow.NewNode(workflow.TypeScope, "s", geometry.Pt(1, 1))}
	conns := []workflow.Connection{{ID: "c", SourceID: "s", TargetID: "t"}}

	s := Take(nodes, conns)
	nodes[0].Scope.Accounts = append(nodes[0].Scope.Accounts, "acc")
	nodes[0].Position.X = 50
	conns[0].TargetID = "changed"

	if len(s.Nodes[0].Scope.Accounts) != 0 || s.Nodes[0].Position.X != 1 {
		t.Error("snapshot nodes changed with the source")
	}
	if s.Connections[0].TargetID != "t" {
		t.Error("snapshot connections changed with the source")
	}
}
