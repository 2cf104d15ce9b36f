package workflow

import "github.com/ha1tch/flowcanvas/pkg/geometry"

// DefaultPosition is where the toolbar places new nodes.
var DefaultPosition = geometry.Pt(200, 200)

// TemplateSpacing is the horizontal distance between template nodes.
const TemplateSpacing = 250.0

// TemplateOrigin is the position of the first node of the trigger template.
var TemplateOrigin = geometry.Pt(100, 200)

var defaultNames = map[NodeType]string{
	TypeScope:     "New Scope",
	TypeSchedule:  "Schedule",
	TypeCondition: "Condition",
	TypeAction:    "Action",
	TypeNote:      "Note",
}

// DefaultName returns the name given to a fresh node of type t.
func DefaultName(t NodeType) string {
	return defaultNames[t]
}

// NewNode creates a node of the given type with the editor's defaults:
// an empty scope, a daily 15:59 schedule, "ROAS less than 1.5" and a pause
// action.
func NewNode(t NodeType, id string, pos geometry.Point) Node {
	n := Node{
		ID:       id,
		Type:     t,
		Name:     DefaultName(t),
		Position: pos,
	}
	switch t {
	case TypeScope:
		n.Scope = &Scope{Accounts: []string{}}
	case TypeSchedule:
		n.Schedule = &Schedule{Frequency: FrequencyDaily, Time: "15:59"}
	case TypeCondition:
		n.Condition = &Condition{
			ID:       "cond-1",
			Metric:   MetricROAS,
			Operator: OpLessThan,
			Value:    NumberValue(1.5),
		}
	case TypeAction:
		n.Action = &Action{ID: "action-1", Type: ActionPause}
	case TypeNote:
		n.Note = &NoteContent{}
	}
	return n
}

// TriggerTemplate builds the scope → schedule → condition → action chain
// starting at origin, one node every TemplateSpacing units to the right.
// newID is called once per node and once per connection.
func TriggerTemplate(newID IDGenerator, origin geometry.Point) ([]Node, []Connection) {
	if newID == nil {
		newID = NewID
	}
	types := []NodeType{TypeScope, TypeSchedule, TypeCondition, TypeAction}

	nodes := make([]Node, len(types))
	for i, t := range types {
		pos := geometry.Pt(origin.X+float64(i)*TemplateSpacing, origin.Y)
		nodes[i] = NewNode(t, newID(PrefixNode), pos)
	}

	conns := make([]Connection, 0, len(nodes)-1)
	for i := 0; i+1 < len(nodes); i++ {
		conns = append(conns, Connection{
			ID:       newID(PrefixConnection),
			SourceID: nodes[i].ID,
			TargetID: nodes[i+1].ID,
		})
	}
	return nodes, conns
}
