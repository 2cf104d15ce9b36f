package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ha1tch/flowcanvas/internal/ui"
	"github.com/ha1tch/flowcanvas/pkg/flowfile"
	"github.com/ha1tch/flowcanvas/pkg/render"
	"github.com/ha1tch/flowcanvas/pkg/workflow"
)

func renderCmd() *cobra.Command {
	var (
		output  string
		scale   float64
		title   string
		handles bool
	)

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a workflow to SVG or PNG",
		Long: "Render the workflow canvas as an image. The format follows the output\n" +
			"extension, falling back to the configured render file type.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, view, err := flowfile.Load(args[0])
			if err != nil {
				return err
			}

			format := strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
			if output == "" {
				format = cfg.Render.FileType
				output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + "." + format
			}
			if scale <= 0 {
				scale = cfg.Render.Scale
			}

			opts := render.Options{Title: title, Scale: scale, Handles: handles}
			if view != nil {
				opts.Selected = view.Selected
			}

			if err := writeImage(output, format, doc, opts); err != nil {
				return err
			}
			fmt.Printf("  %s wrote %s\n", ui.StatusIcon(true), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (.svg or .png)")
	cmd.Flags().Float64Var(&scale, "scale", 0, "Pixels per canvas unit (default from config)")
	cmd.Flags().StringVar(&title, "title", "", "Title drawn above the canvas")
	cmd.Flags().BoolVar(&handles, "handles", false, "Draw connection handles")
	return cmd
}

func writeImage(path, format string, doc *workflow.Document, opts render.Options) error {
	switch format {
	case "svg":
		return os.WriteFile(path, []byte(render.SVG(doc, opts)), 0o644)
	case "png":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := render.PNG(f, doc, opts); err != nil {
			f.Close()
			return fmt.Errorf("render %s: %w", path, err)
		}
		return f.Close()
	default:
		return fmt.Errorf("unknown image format %q (want svg or png)", format)
	}
}

func dotCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "dot <file>",
		Short:   "Generate Graphviz DOT output",
		Example: "  flow dot campaign.flow | dot -Tpng -o campaign.png",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := flowfile.Load(args[0])
			if err != nil {
				return err
			}
			out := render.DOT(doc)
			if output == "" {
				fmt.Print(out)
				return nil
			}
			return os.WriteFile(output, []byte(out), 0o644)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}
