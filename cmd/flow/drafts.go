package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/ha1tch/flowcanvas/internal/logging"
	"github.com/ha1tch/flowcanvas/internal/ui"
	"github.com/ha1tch/flowcanvas/pkg/flowfile"
)

func openDrafts() *flowfile.Drafts {
	return flowfile.NewDrafts(cfg.DraftsDir(), logging.WithModule("drafts"))
}

func draftsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drafts",
		Short: "Manage saved drafts",
	}

	cmd.AddCommand(
		draftsListCmd(),
		draftsSaveCmd(),
		draftsShowCmd(),
		draftsDeleteCmd(),
		draftsExportCmd(),
	)
	return cmd
}

func draftsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List drafts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := openDrafts().List()
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Println(ui.Subtle.Sprint("  No drafts yet"))
				return nil
			}

			rows := make([][]string, 0, len(list))
			for _, d := range list {
				rows = append(rows, []string{
					d.ID,
					d.Name,
					fmt.Sprint(len(d.Nodes)),
					d.SavedAt.Local().Format(time.DateTime),
				})
			}
			ui.Table([]string{"ID", "NAME", "NODES", "SAVED"}, rows)
			return nil
		},
	}
}

func draftsSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save <file>",
		Short: "Save a workflow file as a new draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := flowfile.Load(args[0])
			if err != nil {
				return err
			}
			saved, err := openDrafts().Save(doc)
			if err != nil {
				return err
			}
			fmt.Printf("  %s saved %q as %s\n", ui.StatusIcon(true), saved.Name, ui.Brand.Sprint(saved.ID))
			return nil
		},
	}
}

func draftsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := openDrafts().Get(args[0])
			if err != nil {
				return err
			}
			printInfo(doc, nil, time.Now())
			return nil
		},
	}
}

func draftsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete drafts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := openDrafts()
			var firstErr error
			for _, id := range args {
				if err := d.Delete(id); err != nil {
					ui.Warn.Printf("  %s %v\n", ui.WarnIcon(), fmt.Errorf("%s: %w", id, err))
					if firstErr == nil {
						firstErr = err
					}
					continue
				}
				fmt.Printf("  %s deleted %s\n", ui.StatusIcon(true), id)
			}
			return firstErr
		},
	}
}

func draftsExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Write a draft to a workflow file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := openDrafts().Get(args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = doc.ID + flowfile.ExtJSON
			}
			if err := flowfile.Save(output, doc, nil); err != nil {
				return err
			}
			slog.Debug("draft exported", "id", doc.ID, "path", output)
			fmt.Printf("  %s wrote %s\n", ui.StatusIcon(true), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default <id>.json)")
	return cmd
}
