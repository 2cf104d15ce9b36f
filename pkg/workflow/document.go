package workflow

import (
	"slices"
	"time"
)

// Document is a named, saved workflow: the unit the editor opens and saves
// and the draft store keeps.
type Document struct {
	ID          string       `json:"id" validate:"required"`
	Name        string       `json:"workflowName"`
	Nodes       []Node       `json:"nodes" validate:"dive"`
	Connections []Connection `json:"connections" validate:"dive"`
	SavedAt     time.Time    `json:"savedAt"`
}

// NewDocument creates an empty document with a fresh id.
func NewDocument(name string) *Document {
	return &Document{
		ID:          NewID(PrefixWorkflow),
		Name:        name,
		Nodes:       make([]Node, 0),
		Connections: make([]Connection, 0),
	}
}

// Copy creates a deep copy of the document.
func (d *Document) Copy() *Document {
	return &Document{
		ID:          d.ID,
		Name:        d.Name,
		Nodes:       CopyNodes(d.Nodes),
		Connections: slices.Clone(d.Connections),
		SavedAt:     d.SavedAt,
	}
}

// Normalize replaces nil collections with empty ones and drops dangling
// connections. Called after decoding.
func (d *Document) Normalize() {
	if d.Nodes == nil {
		d.Nodes = make([]Node, 0)
	}
	if d.Connections == nil {
		d.Connections = make([]Connection, 0)
	}
	d.Connections = PruneDangling(d.Nodes, d.Connections)
}

// Counts returns the number of nodes of each type.
func (d *Document) Counts() map[NodeType]int {
	counts := make(map[NodeType]int)
	for _, n := range d.Nodes {
		counts[n.Type]++
	}
	return counts
}
