package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ha1tch/flowcanvas/internal/ui"
	"github.com/ha1tch/flowcanvas/pkg/flowfile"
	"github.com/ha1tch/flowcanvas/pkg/workflow"
)

func newCmd() *cobra.Command {
	var (
		output   string
		template bool
	)

	cmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Create a workflow document",
		Long:  "Create an empty workflow, or one holding the scope → schedule → condition → action trigger template",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "Untitled workflow"
			if len(args) == 1 {
				name = args[0]
			}

			doc := workflow.NewDocument(name)
			if template {
				doc.Nodes, doc.Connections = workflow.TriggerTemplate(nil, workflow.TemplateOrigin)
			}

			if err := flowfile.Save(output, doc, nil); err != nil {
				return err
			}
			fmt.Printf("  %s wrote %s (%d nodes)\n", ui.StatusIcon(true), output, len(doc.Nodes))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "workflow.json", "Output file (.json or .flow)")
	cmd.Flags().BoolVar(&template, "template", false, "Start from the trigger template")
	return cmd
}
