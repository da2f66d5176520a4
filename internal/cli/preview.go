package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mlenz/drawbridge/pkg/graph"
	"github.com/mlenz/drawbridge/pkg/preview"
)

// previewCommand creates the preview command for local rendering.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "preview [request.json]",
		Short: "Render a local sketch of the diagram via Graphviz",
		Long: `Render a local sketch of the diagram via Graphviz.

The preview is a node-link rendering with containers drawn as clusters. It
uses Graphviz's own layout, not the viewer geometry, and is meant for a quick
check of node nesting and edge wiring before sharing a link.

Formats: svg (default), png, dot.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd.Context(), args[0], output, format)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: request name with the format extension)")
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: svg, png, dot")

	return cmd
}

func (c *CLI) runPreview(ctx context.Context, input, output, format string) error {
	req, err := loadRequest(input, os.Stdin)
	if err != nil {
		return err
	}
	m, err := graph.Build(req)
	if err != nil {
		return err
	}

	dot := preview.ToDOT(m)

	var data []byte
	switch format {
	case "dot":
		data = []byte(dot)
	case "svg":
		if data, err = preview.RenderSVG(ctx, dot); err != nil {
			return err
		}
	case "png":
		if data, err = preview.RenderPNG(ctx, dot); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown preview format %q (want svg, png, or dot)", format)
	}

	if output == "" {
		output = strings.TrimSuffix(input, ".json") + "." + format
		if input == "-" {
			output = "preview." + format
		}
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("Preview rendered")
	printFile(output)
	return nil
}
