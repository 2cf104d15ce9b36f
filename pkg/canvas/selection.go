package canvas

import (
	"slices"

	"github.com/ha1tch/flowcanvas/pkg/workflow"
)

// Selection is a set of node ids. It is a view over the node collection:
// it holds ids only, never node copies.
type Selection struct {
	ids []string
}

// NewSelection returns a selection holding ids.
func NewSelection(ids ...string) *Selection {
	s := &Selection{}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Has reports whether id is selected.
func (s *Selection) Has(id string) bool {
	return slices.Contains(s.ids, id)
}

// Len returns the number of selected ids.
func (s *Selection) Len() int {
	return len(s.ids)
}

// Add selects id. It reports whether the selection changed.
func (s *Selection) Add(id string) bool {
	if s.Has(id) {
		return false
	}
	s.ids = append(s.ids, id)
	return true
}

// Remove deselects id. It reports whether the selection changed.
func (s *Selection) Remove(id string) bool {
	i := slices.Index(s.ids, id)
	if i < 0 {
		return false
	}
	s.ids = slices.Delete(s.ids, i, i+1)
	return true
}

// Clear empties the selection. It reports whether anything was selected.
func (s *Selection) Clear() bool {
	if len(s.ids) == 0 {
		return false
	}
	s.ids = nil
	return true
}

// Replace makes ids the whole selection.
func (s *Selection) Replace(ids ...string) {
	s.ids = nil
	for _, id := range ids {
		s.Add(id)
	}
}

// Select applies a click: additive toggles id, otherwise the selection
// becomes {id}.
func (s *Selection) Select(id string, additive bool) {
	if additive {
		if !s.Remove(id) {
			s.Add(id)
		}
		return
	}
	s.Replace(id)
}

// Single returns the selected id when exactly one node is selected.
func (s *Selection) Single() (string, bool) {
	if len(s.ids) != 1 {
		return "", false
	}
	return s.ids[0], true
}

// IDs returns the selected ids in selection order.
func (s *Selection) IDs() []string {
	return slices.Clone(s.ids)
}

// Ordered returns the selected ids in node collection order.
func (s *Selection) Ordered(nodes []workflow.Node) []string {
	out := make([]string, 0, len(s.ids))
	for _, n := range nodes {
		if s.Has(n.ID) {
			out = append(out, n.ID)
		}
	}
	return out
}

// Prune drops ids that no longer name a node. It reports whether the
// selection changed.
func (s *Selection) Prune(nodes []workflow.Node) bool {
	before := len(s.ids)
	s.ids = slices.DeleteFunc(s.ids, func(id string) bool {
		return workflow.NodeIndex(nodes, id) < 0
	})
	return len(s.ids) != before
}
