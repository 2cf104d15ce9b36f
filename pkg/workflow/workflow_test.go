package workflow

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/flowcanvas/pkg/geometry"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{"empty scope", NewNode(TypeScope, "s", geometry.Pt(0, 0)), "No accounts selected"},
		{"scope with accounts", Node{Type: TypeScope, Scope: &Scope{Accounts: []string{"a", "b"}}}, "2 account(s) selected"},
		{"default schedule", NewNode(TypeSchedule, "s", geometry.Pt(0, 0)), "Check every day at 15:59"},
		{"schedule with hours", Node{Type: TypeSchedule, Schedule: &Schedule{
			Frequency: FrequencyHourly, Time: "00:30", ActiveHoursStart: "07:00", ActiveHoursEnd: "00:00",
		}}, "Check every hour at 00:30 · Active 07:00–00:00"},
		{"no schedule", Node{Type: TypeSchedule}, "No schedule set"},
		{"default condition", NewNode(TypeCondition, "c", geometry.Pt(0, 0)), "ROAS less than 1.5"},
		{"labelled metric", Node{Type: TypeCondition, Condition: &Condition{
			Metric: MetricStockLevel, Operator: OpOutOfStock, Value: "0",
		}}, "Stock level out of stock 0"},
		{"unknown operator", Node{Type: TypeCondition, Condition: &Condition{Metric: "CPA", Operator: "between", Value: "3"}}, "CPA ? 3"},
		{"no condition", Node{Type: TypeCondition}, "No condition set"},
		{"default action", NewNode(TypeAction, "a", geometry.Pt(0, 0)), "Pause campaign"},
		{"swap", Node{Type: TypeAction, Action: &Action{Type: ActionSwapCreative}}, "Swap creatives"},
		{"unknown action", Node{Type: TypeAction, Action: &Action{Type: "other"}}, "Adjust budget"},
		{"no action", Node{Type: TypeAction}, "No action set"},
		{"note", NewNode(TypeNote, "n", geometry.Pt(0, 0)), ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Describe(tc.node))
		})
	}
}

func TestTriggerTemplate(t *testing.T) {
	nodes, conns := TriggerTemplate(SequentialIDs(), TemplateOrigin)

	require.Len(t, nodes, 4)
	require.Len(t, conns, 3)

	wantTypes := []NodeType{TypeScope, TypeSchedule, TypeCondition, TypeAction}
	for i, n := range nodes {
		assert.Equal(t, wantTypes[i], n.Type)
		assert.Equal(t, geometry.Pt(100+250*float64(i), 200), n.Position)
	}
	for i, c := range conns {
		assert.Equal(t, nodes[i].ID, c.SourceID)
		assert.Equal(t, nodes[i+1].ID, c.TargetID)
	}

	doc := &Document{ID: "wf", Nodes: nodes, Connections: conns}
	assert.NoError(t, Validate(doc))
}

func TestNewIDPrefix(t *testing.T) {
	id := NewID(PrefixNode)
	assert.True(t, strings.HasPrefix(id, "node-"))
	assert.NotEqual(t, id, NewID(PrefixNode))

	next := SequentialIDs()
	assert.Equal(t, "node-1", next(PrefixNode))
	assert.Equal(t, "conn-2", next(PrefixConnection))
}

func TestCronSpec(t *testing.T) {
	tests := []struct {
		sched   Schedule
		want    string
		wantErr bool
	}{
		{Schedule{Frequency: FrequencyDaily, Time: "15:59"}, "59 15 * * *", false},
		{Schedule{Frequency: FrequencyHourly, Time: "00:30"}, "30 * * * *", false},
		{Schedule{Frequency: FrequencyWeekly, Time: "09:00"}, "0 9 * * 1", false},
		{Schedule{Frequency: FrequencyWeekly, Time: "09:00", Date: "2026-10-18"}, "0 9 * * 0", false},
		{Schedule{Frequency: FrequencyOnce, Time: "08:15", Date: "2026-12-24"}, "15 8 24 12 *", false},
		{Schedule{Frequency: FrequencyOnce, Time: "08:15"}, "", true},
		{Schedule{Frequency: FrequencyDaily, Time: "25:00"}, "", true},
		{Schedule{Frequency: "yearly", Time: "10:00"}, "", true},
	}
	for _, tc := range tests {
		got, err := tc.sched.CronSpec()
		if tc.wantErr {
			assert.Error(t, err, "%+v", tc.sched)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}

func TestScheduleNext(t *testing.T) {
	from := time.Date(2026, 10, 17, 16, 0, 0, 0, time.UTC)
	s := Schedule{Frequency: FrequencyDaily, Time: "15:59"}

	next, ok := s.Next(from)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 10, 18, 15, 59, 0, 0, time.UTC), next)
}

func TestValidateReportsEveryProblem(t *testing.T) {
	nodes, conns := fixture()
	nodes = append(nodes, NewNode(TypeAction, "a", geometry.Pt(0, 0))) // duplicate id
	nodes[1].Schedule.Time = "7pm"
	conns = append(conns,
		Connection{ID: "self", SourceID: "b", TargetID: "b"},
		Connection{ID: "dup", SourceID: "a", TargetID: "b"},
		Connection{ID: "note", SourceID: "a", TargetID: "n"},
		Connection{ID: "gone", SourceID: "a", TargetID: "missing"},
	)

	err := Validate(&Document{ID: "wf", Nodes: nodes, Connections: conns})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidWorkflow))

	msg := err.Error()
	for _, want := range []string{
		"duplicate node id \"a\"",
		"Schedule.Time",
		"self loop",
		"duplicate edge a -> b",
		"cannot be connected",
		"\"missing\" not found",
	} {
		assert.Contains(t, msg, want)
	}
}

func TestValidateEnums(t *testing.T) {
	n := NewNode(TypeCondition, "c", geometry.Pt(0, 0))
	n.Condition.Operator = "roughly"
	n.Condition.LookbackWindow = "last_6_days"

	err := Validate(&Document{ID: "wf", Nodes: []Node{n}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Operator")
	assert.Contains(t, err.Error(), "LookbackWindow")

	n.Condition.Operator = OpGreaterThan
	n.Condition.LookbackWindow = "last_7_days"
	assert.NoError(t, Validate(&Document{ID: "wf", Nodes: []Node{n}}))
}

func TestValueJSON(t *testing.T) {
	var c Condition
	require.NoError(t, json.Unmarshal([]byte(`{"metric":"ROAS","operator":"less_than","value":1.5}`), &c))
	assert.Equal(t, Value("1.5"), c.Value)

	require.NoError(t, json.Unmarshal([]byte(`{"metric":"Name","operator":"contains","value":"brand"}`), &c))
	assert.Equal(t, Value("brand"), c.Value)

	out, err := json.Marshal(Condition{Metric: "ROAS", Operator: OpLessThan, Value: NumberValue(2)})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"value":2`)
}

func TestLookbackValidationRegistered(t *testing.T) {
	var v *validator.Validate
	require.NotPanics(t, func() { v = structValidator() })
	assert.Same(t, v, structValidator())
	assert.NoError(t, v.Var(LookbackWindows[len(LookbackWindows)-1], "lookback"))
	assert.Error(t, v.Var("last_6_days", "lookback"))
}

func TestValueJSONRoundTrip(t *testing.T) {
	tests := []struct {
		value Value
		want  string
	}{
		{"1.5", `"value":1.5`},
		{"-3", `"value":-3`},
		{"1.50", `"value":"1.50"`},
		{"Infinity", `"value":"Infinity"`},
		{"nan", `"value":"nan"`},
		{"+Inf", `"value":"+Inf"`},
		{" 7", `"value":" 7"`},
		{"1e3", `"value":"1e3"`},
		{"", `"value":""`},
	}

	for _, tt := range tests {
		t.Run(string(tt.value), func(t *testing.T) {
			in := Condition{ID: "c", Metric: "Name", Operator: OpContains, Value: tt.value}
			out, err := json.Marshal(in)
			require.NoError(t, err)
			assert.Contains(t, string(out), tt.want)

			var back Condition
			require.NoError(t, json.Unmarshal(out, &back))
			assert.Equal(t, tt.value, back.Value)
		})
	}
}

func TestDocumentNormalize(t *testing.T) {
	nodes, conns := fixture()
	doc := &Document{ID: "wf", Nodes: nodes, Connections: append(conns, Connection{ID: "x", SourceID: "a", TargetID: "gone"})}
	doc.Normalize()
	assert.Len(t, doc.Connections, 2)

	empty := &Document{}
	empty.Normalize()
	assert.NotNil(t, empty.Nodes)
	assert.NotNil(t, empty.Connections)

	cp := doc.Copy()
	cp.Nodes[0].Name = "changed"
	assert.NotEqual(t, "changed", doc.Nodes[0].Name)
	assert.Equal(t, 1, doc.Counts()[TypeNote])
}
