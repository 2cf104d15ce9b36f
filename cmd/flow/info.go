package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ha1tch/flowcanvas/internal/ui"
	"github.com/ha1tch/flowcanvas/pkg/flowfile"
	"github.com/ha1tch/flowcanvas/pkg/workflow"
)

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Show workflow information",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, view, err := flowfile.Load(args[0])
			if err != nil {
				return err
			}
			printInfo(doc, view, time.Now())
			return nil
		},
	}
}

func printInfo(doc *workflow.Document, view *flowfile.View, now time.Time) {
	ui.Banner(doc.Name)

	counts := doc.Counts()
	var parts []string
	for _, t := range workflow.NodeTypes {
		if counts[t] > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", ui.NodeType(string(t)), counts[t]))
		}
	}
	fmt.Printf("  %-12s %s\n", "id", doc.ID)
	fmt.Printf("  %-12s %d", "nodes", len(doc.Nodes))
	if len(parts) > 0 {
		fmt.Printf(" (%s)", strings.Join(parts, " · "))
	}
	fmt.Println()
	fmt.Printf("  %-12s %d\n", "connections", len(doc.Connections))
	if !doc.SavedAt.IsZero() {
		fmt.Printf("  %-12s %s\n", "saved", doc.SavedAt.Local().Format(time.DateTime))
	}
	if view != nil {
		fmt.Printf("  %-12s zoom %.0f%% · pan %.0f,%.0f\n", "view", view.Viewport().Zoom*100, view.PanX, view.PanY)
	}
	fmt.Println()

	rows := make([][]string, 0, len(doc.Nodes))
	for _, n := range doc.Nodes {
		desc := workflow.Describe(n)
		if n.Type == workflow.TypeNote && n.Note != nil {
			desc = firstLine(n.Note.Content)
		}
		rows = append(rows, []string{n.ID, ui.NodeType(string(n.Type)), n.Name, desc})
	}
	ui.Table([]string{"ID", "TYPE", "NAME", "DESCRIPTION"}, rows)

	for _, n := range doc.Nodes {
		if n.Type != workflow.TypeSchedule || n.Schedule == nil {
			continue
		}
		if next, ok := n.Schedule.Next(now); ok {
			fmt.Printf("\n  %s next run %s\n", ui.Info.Sprint(n.Name), next.Format(time.DateTime))
		}
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
