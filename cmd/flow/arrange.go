package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ha1tch/flowcanvas/internal/ui"
	"github.com/ha1tch/flowcanvas/pkg/flowfile"
	"github.com/ha1tch/flowcanvas/pkg/layout"
	"github.com/ha1tch/flowcanvas/pkg/workflow"
)

func arrangeCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "arrange <file>",
		Short: "Lay nodes out in columns by connection depth",
		Long: "Move every node into left-to-right columns that follow the connections.\n" +
			"Notes are placed in a final column. The file is rewritten unless -o is given.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, view, err := flowfile.Load(args[0])
			if err != nil {
				return err
			}

			positions := layout.Arrange(doc.Nodes, doc.Connections, workflow.TemplateOrigin)
			doc.Nodes = workflow.MoveNodes(doc.Nodes, positions)

			out := output
			if out == "" {
				out = args[0]
			}
			if err := flowfile.Save(out, doc, view); err != nil {
				return err
			}
			fmt.Printf("  %s arranged %d nodes into %s\n", ui.StatusIcon(true), len(positions), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: rewrite the input)")
	return cmd
}
