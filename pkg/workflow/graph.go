package workflow

import (
	"slices"

	"github.com/ha1tch/flowcanvas/pkg/geometry"
)

// Copy creates a deep copy of the node, payloads included.
func (n Node) Copy() Node {
	c := n
	if n.Scope != nil {
		s := n.Scope.Copy()
		c.Scope = &s
	}
	if n.Schedule != nil {
		s := *n.Schedule
		c.Schedule = &s
	}
	if n.Condition != nil {
		cond := *n.Condition
		c.Condition = &cond
	}
	if n.Action != nil {
		a := *n.Action
		c.Action = &a
	}
	if n.Note != nil {
		note := *n.Note
		c.Note = &note
	}
	return c
}

// Copy creates a deep copy of the scope.
func (s Scope) Copy() Scope {
	return Scope{
		Accounts:     slices.Clone(s.Accounts),
		Campaigns:    slices.Clone(s.Campaigns),
		AdSets:       slices.Clone(s.AdSets),
		NameContains: s.NameContains,
	}
}

// CopyNodes deep-copies a node collection.
func CopyNodes(nodes []Node) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Copy()
	}
	return out
}

// NodeIndex returns the index of the node with the given id, or -1.
func NodeIndex(nodes []Node, id string) int {
	for i := range nodes {
		if nodes[i].ID == id {
			return i
		}
	}
	return -1
}

// FindNode returns the node with the given id.
func FindNode(nodes []Node, id string) (Node, bool) {
	if i := NodeIndex(nodes, id); i >= 0 {
		return nodes[i], true
	}
	return Node{}, false
}

// HasConnection reports whether an edge source → target already exists.
func HasConnection(conns []Connection, source, target string) bool {
	for _, c := range conns {
		if c.SourceID == source && c.TargetID == target {
			return true
		}
	}
	return false
}

// AddNode returns a new collection with node appended. The caller
// guarantees the id is unique.
func AddNode(nodes []Node, node Node) []Node {
	out := make([]Node, 0, len(nodes)+1)
	out = append(out, nodes...)
	return append(out, node)
}

// RemoveNode removes the node and every connection touching it.
func RemoveNode(nodes []Node, conns []Connection, id string) ([]Node, []Connection) {
	return RemoveNodes(nodes, conns, []string{id})
}

// RemoveNodes removes a set of nodes and every connection touching any of
// them.
func RemoveNodes(nodes []Node, conns []Connection, ids []string) ([]Node, []Connection) {
	gone := make(map[string]bool, len(ids))
	for _, id := range ids {
		gone[id] = true
	}

	keptNodes := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if !gone[n.ID] {
			keptNodes = append(keptNodes, n)
		}
	}

	keptConns := make([]Connection, 0, len(conns))
	for _, c := range conns {
		if !gone[c.SourceID] && !gone[c.TargetID] {
			keptConns = append(keptConns, c)
		}
	}
	return keptNodes, keptConns
}

// ScopePatch holds the scope fields to overwrite. Nil fields are kept.
type ScopePatch struct {
	Accounts     []string
	Campaigns    []string
	AdSets       []string
	NameContains *string
}

// NodePatch describes a partial update. Nil fields leave the node as is.
type NodePatch struct {
	Name      *string
	Position  *geometry.Point
	Scope     *ScopePatch
	Schedule  *Schedule
	Condition *Condition
	Action    *Action
	Note      *NoteContent
}

// UpdateNode returns a new collection with patch merged into the node with
// the given id. ID and Type never change. Unknown ids leave the collection
// unchanged.
func UpdateNode(nodes []Node, id string, patch NodePatch) []Node {
	out := slices.Clone(nodes)
	i := NodeIndex(out, id)
	if i < 0 {
		return out
	}

	n := out[i].Copy()
	if patch.Name != nil {
		n.Name = *patch.Name
	}
	if patch.Position != nil {
		n.Position = *patch.Position
	}
	if patch.Scope != nil {
		var s Scope
		if n.Scope != nil {
			s = *n.Scope
		}
		if patch.Scope.Accounts != nil {
			s.Accounts = slices.Clone(patch.Scope.Accounts)
		}
		if patch.Scope.Campaigns != nil {
			s.Campaigns = slices.Clone(patch.Scope.Campaigns)
		}
		if patch.Scope.AdSets != nil {
			s.AdSets = slices.Clone(patch.Scope.AdSets)
		}
		if patch.Scope.NameContains != nil {
			s.NameContains = *patch.Scope.NameContains
		}
		n.Scope = &s
	}
	if patch.Schedule != nil {
		s := *patch.Schedule
		n.Schedule = &s
	}
	if patch.Condition != nil {
		c := *patch.Condition
		n.Condition = &c
	}
	if patch.Action != nil {
		a := *patch.Action
		n.Action = &a
	}
	if patch.Note != nil {
		note := *patch.Note
		n.Note = &note
	}
	out[i] = n
	return out
}

// MoveNodes returns a new collection with the given nodes moved to new
// positions.
func MoveNodes(nodes []Node, positions map[string]geometry.Point) []Node {
	out := slices.Clone(nodes)
	for i := range out {
		if p, ok := positions[out[i].ID]; ok {
			out[i].Position = p
		}
	}
	return out
}

// CanConnect reports whether an edge source → target would be accepted.
func CanConnect(nodes []Node, conns []Connection, source, target string) bool {
	if source == target {
		return false
	}
	src, ok := FindNode(nodes, source)
	if !ok || !src.Type.Connectable() {
		return false
	}
	dst, ok := FindNode(nodes, target)
	if !ok || !dst.Type.Connectable() {
		return false
	}
	return !HasConnection(conns, source, target)
}

// AddConnection appends an edge source → target with the given id. It is a
// no-op for self loops, duplicate ordered pairs, note endpoints and missing
// endpoints. The second result reports whether the edge was added.
func AddConnection(nodes []Node, conns []Connection, source, target, id string) ([]Connection, bool) {
	if !CanConnect(nodes, conns, source, target) {
		return slices.Clone(conns), false
	}
	out := make([]Connection, 0, len(conns)+1)
	out = append(out, conns...)
	return append(out, Connection{ID: id, SourceID: source, TargetID: target}), true
}

// LiveConnections returns the connections whose endpoints both exist.
func LiveConnections(nodes []Node, conns []Connection) []Connection {
	ids := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		ids[n.ID] = true
	}
	out := make([]Connection, 0, len(conns))
	for _, c := range conns {
		if ids[c.SourceID] && ids[c.TargetID] {
			out = append(out, c)
		}
	}
	return out
}

// PruneDangling drops connections with a missing endpoint. Used on load.
func PruneDangling(nodes []Node, conns []Connection) []Connection {
	return LiveConnections(nodes, conns)
}
