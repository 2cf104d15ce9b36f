package workflow

import (
	"fmt"
	"strconv"
)

var metricLabels = map[string]string{
	MetricDailySpend:       "Daily spend",
	MetricStockLevel:       "Stock level",
	MetricSpendChangePct:   "Spend change %",
	MetricWeatherCondition: "Weather",
	MetricMatchResult:      "Match result",
}

var operatorLabels = map[ConditionOperator]string{
	OpLessThan:    "less than",
	OpGreaterThan: "greater than",
	OpEquals:      "equals",
	OpContains:    "contains",
	OpOutOfStock:  "out of stock",
	OpExcessStock: "excess stock",
}

var actionLabels = map[ActionType]string{
	ActionPause:        "Pause campaign",
	ActionActivate:     "Activate campaign",
	ActionEmail:        "Send email",
	ActionAlert:        "Alert / Notify",
	ActionScale:        "Scale",
	ActionSwapCreative: "Swap creatives",
	ActionBudgetChange: "Adjust budget",
}

var frequencyWords = map[ScheduleFrequency]string{
	FrequencyDaily:  "day",
	FrequencyHourly: "hour",
	FrequencyWeekly: "week",
	FrequencyOnce:   "once",
}

// MetricLabel returns the display label of a metric. Unknown metrics are
// shown as written.
func MetricLabel(metric string) string {
	if l, ok := metricLabels[metric]; ok {
		return l
	}
	return metric
}

// OperatorLabel returns the display label of an operator, "?" if unknown.
func OperatorLabel(op ConditionOperator) string {
	if l, ok := operatorLabels[op]; ok {
		return l
	}
	return "?"
}

// ActionLabel returns the display label of an action type. Unknown types
// fall back to "Adjust budget".
func ActionLabel(t ActionType) string {
	if l, ok := actionLabels[t]; ok {
		return l
	}
	return actionLabels[ActionBudgetChange]
}

// Describe returns the one-line summary shown under a node's title.
// Notes have no description; their content is drawn instead.
func Describe(n Node) string {
	switch n.Type {
	case TypeScope:
		count := 0
		if n.Scope != nil {
			count = len(n.Scope.Accounts)
		}
		if count == 0 {
			return "No accounts selected"
		}
		return strconv.Itoa(count) + " account(s) selected"

	case TypeSchedule:
		if n.Schedule == nil {
			return "No schedule set"
		}
		freq, ok := frequencyWords[n.Schedule.Frequency]
		if !ok {
			freq = "once"
		}
		desc := fmt.Sprintf("Check every %s at %s", freq, n.Schedule.Time)
		if n.Schedule.HasActiveHours() {
			desc += fmt.Sprintf(" · Active %s–%s", n.Schedule.ActiveHoursStart, n.Schedule.ActiveHoursEnd)
		}
		return desc

	case TypeCondition:
		if n.Condition == nil {
			return "No condition set"
		}
		c := n.Condition
		return fmt.Sprintf("%s %s %s", MetricLabel(c.Metric), OperatorLabel(c.Operator), c.Value)

	case TypeAction:
		if n.Action == nil {
			return "No action set"
		}
		return ActionLabel(n.Action.Type)
	}
	return ""
}
