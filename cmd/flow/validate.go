package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ha1tch/flowcanvas/internal/ui"
	"github.com/ha1tch/flowcanvas/pkg/flowfile"
	"github.com/ha1tch/flowcanvas/pkg/workflow"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a workflow file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := flowfile.Load(args[0])
			if err != nil {
				return err
			}

			err = workflow.Validate(doc)
			if err == nil {
				fmt.Printf("  %s %s is valid (%d nodes, %d connections)\n",
					ui.StatusIcon(true), args[0], len(doc.Nodes), len(doc.Connections))
				return nil
			}

			fmt.Printf("  %s %s\n", ui.StatusIcon(false), args[0])
			for _, p := range problems(err) {
				fmt.Printf("    %s %v\n", ui.WarnIcon(), p)
			}
			return fmt.Errorf("%s: %w", args[0], workflow.ErrInvalidWorkflow)
		},
	}
}

// problems unpacks the joined validation errors into one entry per problem.
func problems(err error) []error {
	multi, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []error{err}
	}
	var out []error
	for _, e := range multi.Unwrap() {
		if errors.Is(e, workflow.ErrInvalidWorkflow) {
			continue
		}
		out = append(out, problems(e)...)
	}
	return out
}
