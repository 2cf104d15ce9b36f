package flowfile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/flowcanvas/pkg/geometry"
	"github.com/ha1tch/flowcanvas/pkg/viewport"
	"github.com/ha1tch/flowcanvas/pkg/workflow"
)

func sampleDoc() *workflow.Document {
	nodes, conns := workflow.TriggerTemplate(workflow.SequentialIDs(), workflow.TemplateOrigin)
	note := workflow.NewNode(workflow.TypeNote, "note-1", geometry.Pt(100, 400))
	note.Note.Content = "Pause when ROAS drops.\nCheck weekly."
	return &workflow.Document{
		ID:          "wf-1",
		Name:        "Low ROAS guard",
		Nodes:       append(nodes, note),
		Connections: conns,
	}
}

func TestParseJSONOriginalShape(t *testing.T) {
	data := []byte(`{
		"id": "draft-1700000000000",
		"workflowName": "Imported",
		"nodes": [
			{"id": "n1", "type": "condition", "name": "Condition", "position": {"x": 10, "y": 20},
			 "condition": {"id": "cond-1", "metric": "ROAS", "operator": "less_than", "value": 1.5}},
			{"id": "n2", "type": "action", "name": "Action", "position": {"x": 300, "y": 20},
			 "action": {"id": "action-1", "type": "pause"}}
		],
		"connections": [
			{"id": "c1", "sourceId": "n1", "targetId": "n2"},
			{"id": "c2", "sourceId": "n1", "targetId": "deleted"}
		]
	}`)

	doc, err := ParseJSON(data)
	require.NoError(t, err)
	assert.Equal(t, "Imported", doc.Name)
	require.Len(t, doc.Nodes, 2)
	assert.Equal(t, geometry.Pt(10, 20), doc.Nodes[0].Position)
	assert.Equal(t, workflow.Value("1.5"), doc.Nodes[0].Condition.Value)
	require.Len(t, doc.Connections, 1, "dangling edge pruned on load")
	assert.Equal(t, "c1", doc.Connections[0].ID)
}

func TestParseJSONError(t *testing.T) {
	_, err := ParseJSON([]byte(`{"nodes": 5}`))
	assert.Error(t, err)
}

func TestJSONRoundTrip(t *testing.T) {
	doc := sampleDoc()

	data, err := ToJSON(doc, true)
	require.NoError(t, err)
	back, err := ParseJSON(data)
	require.NoError(t, err)

	assert.Equal(t, doc.Nodes, back.Nodes)
	assert.Equal(t, doc.Connections, back.Connections)
	assert.Equal(t, doc.Name, back.Name)
}

func TestBundleRoundTrip(t *testing.T) {
	doc := sampleDoc()
	view := ViewOf(viewport.Viewport{Zoom: 1.5, Pan: geometry.Pt(-40, 25)}, []string{"node-1"})

	var buf bytes.Buffer
	require.NoError(t, WriteBundle(&buf, doc, &view))

	back, gotView, err := ReadBundleBytes(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, doc.Nodes, back.Nodes)
	require.NotNil(t, gotView)
	assert.Equal(t, view, *gotView)
	assert.Equal(t, viewport.Viewport{Zoom: 1.5, Pan: geometry.Pt(-40, 25)}, gotView.Viewport())
}

func TestBundleWithoutView(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBundle(&buf, sampleDoc(), nil))

	_, view, err := ReadBundleBytes(buf.Bytes())
	require.NoError(t, err)
	assert.Nil(t, view)

	_, _, err = ReadBundleBytes([]byte("not a zip"))
	assert.Error(t, err)
}

func TestViewViewportDefaults(t *testing.T) {
	assert.Equal(t, viewport.Default(), View{}.Viewport())
	assert.Equal(t, 2.0, View{Zoom: 9}.Viewport().Zoom)
}

func TestLoadSaveByExtension(t *testing.T) {
	dir := t.TempDir()
	doc := sampleDoc()
	view := ViewOf(viewport.Default(), nil)

	for _, name := range []string{"wf.json", "wf.flow"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Save(path, doc, &view))

		back, gotView, err := Load(path)
		require.NoError(t, err, name)
		assert.Equal(t, doc.Nodes, back.Nodes, name)
		if filepath.Ext(name) == ExtBundle {
			assert.NotNil(t, gotView)
		} else {
			assert.Nil(t, gotView)
		}
	}

	_, _, err := Load(filepath.Join(dir, "missing.json"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDrafts(t *testing.T) {
	dir := t.TempDir()
	d := NewDrafts(filepath.Join(dir, "drafts"), nil)
	clock := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return clock }

	list, err := d.List()
	require.NoError(t, err)
	assert.Empty(t, list)

	first, err := d.Save(sampleDoc())
	require.NoError(t, err)
	assert.Equal(t, "draft-1792227600000", first.ID)
	assert.Equal(t, clock, first.SavedAt)

	// same clock tick still yields a distinct id
	second, err := d.Save(&workflow.Document{Name: "Second"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	list, err = d.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Second", list[0].Name, "newest first")
	assert.Equal(t, "Low ROAS guard", list[1].Name)

	got, err := d.Get(first.ID)
	require.NoError(t, err)
	assert.Len(t, got.Nodes, 5)

	require.NoError(t, d.Delete(first.ID))
	_, err = d.Get(first.ID)
	assert.True(t, errors.Is(err, ErrDraftNotFound))
	assert.True(t, errors.Is(d.Delete(first.ID), ErrDraftNotFound))
}

func TestDraftsCorruptFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DraftsFile), []byte("{oops"), 0o644))

	list, err := NewDrafts(dir, nil).List()
	require.NoError(t, err)
	assert.Empty(t, list)
}
