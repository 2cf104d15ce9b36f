// Package workflow provides the node/connection graph of a trigger workflow
// and the copy-on-write operations that edit it.
package workflow

import (
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/ha1tch/flowcanvas/pkg/geometry"
)

// NodeType is the discriminator of a node's payload.
type NodeType string

const (
	TypeScope     NodeType = "scope"
	TypeSchedule  NodeType = "schedule"
	TypeCondition NodeType = "condition"
	TypeAction    NodeType = "action"
	TypeNote      NodeType = "note"
)

// NodeTypes lists every node type in palette order.
var NodeTypes = []NodeType{TypeScope, TypeSchedule, TypeCondition, TypeAction, TypeNote}

// Valid reports whether t is one of the known node types.
func (t NodeType) Valid() bool {
	switch t {
	case TypeScope, TypeSchedule, TypeCondition, TypeAction, TypeNote:
		return true
	}
	return false
}

// Connectable reports whether nodes of this type may be connection endpoints.
func (t NodeType) Connectable() bool {
	return t != TypeNote
}

// ScheduleFrequency is how often a schedule node fires.
type ScheduleFrequency string

const (
	FrequencyDaily  ScheduleFrequency = "daily"
	FrequencyHourly ScheduleFrequency = "hourly"
	FrequencyWeekly ScheduleFrequency = "weekly"
	FrequencyOnce   ScheduleFrequency = "once"
)

// ConditionOperator compares a metric against a value.
type ConditionOperator string

const (
	OpGreaterThan ConditionOperator = "greater_than"
	OpLessThan    ConditionOperator = "less_than"
	OpEquals      ConditionOperator = "equals"
	OpContains    ConditionOperator = "contains"
	OpOutOfStock  ConditionOperator = "out_of_stock"
	OpExcessStock ConditionOperator = "excess_stock"
)

// ActionType is what an action node does when its trigger fires.
type ActionType string

const (
	ActionPause        ActionType = "pause"
	ActionActivate     ActionType = "activate"
	ActionEmail        ActionType = "email"
	ActionBudgetChange ActionType = "budget_change"
	ActionAlert        ActionType = "alert"
	ActionScale        ActionType = "scale"
	ActionSwapCreative ActionType = "swap_creative"
)

// Well-known condition metrics. Metric is free text; these get friendly labels.
const (
	MetricROAS             = "ROAS"
	MetricCPA              = "CPA"
	MetricCTR              = "CTR"
	MetricName             = "Name"
	MetricDailySpend       = "daily_spend"
	MetricStockLevel       = "stock_level"
	MetricSpendChangePct   = "spend_change_pct"
	MetricWeatherCondition = "weather_condition"
	MetricMatchResult      = "match_result"
)

// LookbackWindows are the accepted values for Condition.LookbackWindow.
// The empty string means "current value".
var LookbackWindows = []string{
	"", "today", "yesterday",
	"last_3_days", "last_5_days", "last_7_days", "last_14_days",
	"last_28_days", "last_30_days", "last_90_days",
	"today_and_last_2_days", "today_and_last_4_days", "today_and_last_6_days",
	"today_and_last_13_days", "today_and_last_27_days", "today_and_last_29_days",
	"this_week", "last_week", "this_month", "last_month",
	"this_quarter", "last_quarter",
}

// Scope selects the ad accounts (and optionally campaigns/ad sets) a
// workflow applies to.
type Scope struct {
	Accounts     []string `json:"accounts"`
	Campaigns    []string `json:"campaigns,omitempty"`
	AdSets       []string `json:"adsets,omitempty"`
	NameContains string   `json:"nameContains,omitempty"`
}

// Schedule says when the workflow's conditions are checked.
type Schedule struct {
	Frequency        ScheduleFrequency `json:"frequency" validate:"required,oneof=daily hourly weekly once"`
	Date             string            `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Time             string            `json:"time" validate:"required,datetime=15:04"`
	ActiveHoursStart string            `json:"activeHoursStart,omitempty" validate:"omitempty,datetime=15:04"`
	ActiveHoursEnd   string            `json:"activeHoursEnd,omitempty" validate:"omitempty,datetime=15:04"`
}

// HasActiveHours reports whether both ends of the quiet-hours window are set.
func (s Schedule) HasActiveHours() bool {
	return s.ActiveHoursStart != "" && s.ActiveHoursEnd != ""
}

// Condition is a metric comparison. It is configuration only and never
// evaluated here.
type Condition struct {
	ID             string            `json:"id"`
	Metric         string            `json:"metric" validate:"required"`
	Operator       ConditionOperator `json:"operator" validate:"required,oneof=greater_than less_than equals contains out_of_stock excess_stock"`
	Value          Value             `json:"value"`
	UseCase        string            `json:"useCase,omitempty"`
	ComparePeriod  string            `json:"comparePeriod,omitempty" validate:"omitempty,oneof=daily weekly"`
	LookbackWindow string            `json:"lookbackWindow,omitempty" validate:"lookback"`
	WeatherType    string            `json:"weatherType,omitempty" validate:"omitempty,oneof=sunny rain_chance temperature_below temperature_above"`
	MatchResult    string            `json:"matchResult,omitempty" validate:"omitempty,oneof=win loss draw"`
}

// Action is what happens when the conditions hold.
type Action struct {
	ID    string     `json:"id"`
	Type  ActionType `json:"type" validate:"required,oneof=pause activate email budget_change alert scale swap_creative"`
	Value Value      `json:"value,omitempty"`
}

// NoteContent is the free text of a note node.
type NoteContent struct {
	Content string `json:"content"`
}

// Node is a vertex of the workflow graph. Only the payload matching Type is
// meaningful; the others are ignored.
type Node struct {
	ID        string         `json:"id" validate:"required"`
	Type      NodeType       `json:"type" validate:"required,oneof=scope schedule condition action note"`
	Name      string         `json:"name"`
	Position  geometry.Point `json:"position"`
	Scope     *Scope         `json:"scope,omitempty"`
	Schedule  *Schedule      `json:"schedule,omitempty"`
	Condition *Condition     `json:"condition,omitempty"`
	Action    *Action        `json:"action,omitempty"`
	Note      *NoteContent   `json:"note,omitempty"`
}

// Connection is a directed edge from SourceID to TargetID.
type Connection struct {
	ID       string `json:"id" validate:"required"`
	SourceID string `json:"sourceId" validate:"required"`
	TargetID string `json:"targetId" validate:"required"`
}

// Value holds a condition or action value, which may be written as a JSON
// string or number.
type Value string

// Float returns the numeric form of the value, if it has one.
func (v Value) Float() (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// NumberValue formats f the way the editor displays numbers.
func NumberValue(f float64) Value {
	return Value(strconv.FormatFloat(f, 'f', -1, 64))
}

// MarshalJSON writes a value as a JSON number only when it is a finite
// number already in canonical form, so the text survives a reload. "1.50",
// "Infinity" and "nan" stay strings.
func (v Value) MarshalJSON() ([]byte, error) {
	f, err := strconv.ParseFloat(string(v), 64)
	if err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) && NumberValue(f) == v {
		return json.Marshal(f)
	}
	return json.Marshal(string(v))
}

// UnmarshalJSON accepts a JSON string or number.
func (v *Value) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*v = NumberValue(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*v = Value(s)
	return nil
}
