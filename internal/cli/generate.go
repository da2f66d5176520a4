package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mlenz/drawbridge/internal/history"
	dberrors "github.com/mlenz/drawbridge/pkg/errors"
	"github.com/mlenz/drawbridge/pkg/pipeline"
)

// generateCommand creates the generate command, the main entry point of the CLI.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		output  string
		urlOnly bool
		record  bool
		noCache bool
		noIcons bool
		margin  float64
	)

	cmd := &cobra.Command{
		Use:   "generate [request.json]",
		Short: "Generate a draw.io link from a diagram request",
		Long: `Generate a draw.io link from a diagram request.

The request is a JSON file describing typed nodes (with optional nesting via
"parent") and edges between them. Drawbridge derives the geometry, serializes
the diagram, and prints a URL that opens it in the draw.io viewer.

Use "-" to read the request from stdin. Pass --output to also write the raw
diagram XML next to the link.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd.Context(), args[0], generateParams{
				output:    output,
				urlOnly:   urlOnly,
				record:    record,
				noCache:   noCache,
				noIcons:   noIcons,
				margin:    margin,
				marginSet: cmd.Flags().Changed("margin"),
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "also write the diagram XML to this file")
	cmd.Flags().BoolVar(&urlOnly, "url-only", false, "print only the viewer URL (for piping)")
	cmd.Flags().BoolVar(&record, "record", false, "record the generation in history")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the icon bundle cache")
	cmd.Flags().BoolVar(&noIcons, "no-icons", false, "skip the icon bundle and use builtin styles only")
	cmd.Flags().Float64Var(&margin, "margin", 0, "container padding in diagram units; 0 packs tightly (default 30)")

	return cmd
}

type generateParams struct {
	output    string
	urlOnly   bool
	record    bool
	noCache   bool
	noIcons   bool
	margin    float64
	marginSet bool
}

// runGenerate loads the request, runs the pipeline, and reports the link.
func (c *CLI) runGenerate(ctx context.Context, input string, p generateParams) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	// The flag wins over config only when actually passed, so an explicit
	// --margin 0 is honored instead of read as "unset".
	margin := cfg.Layout.Margin
	if p.marginSet {
		margin = p.margin
	}

	req, err := loadRequest(input, os.Stdin)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Loading icon styles...")
	spinner.Start()
	resolver, err := c.newCatalog(ctx, cfg, p.noCache, p.noIcons)
	if err != nil {
		spinner.StopWithError("Icon styles unavailable")
		return err
	}
	spinner.Stop()

	prog := newProgress(c.Logger)
	result, err := c.newRunner(resolver).Execute(ctx, req, pipeline.Options{Margin: &margin})
	if err != nil {
		if msg := dberrors.UserMessage(err); msg != "" {
			printError("%s", msg)
		}
		return err
	}
	prog.done("Generated diagram")

	if p.urlOnly {
		fmt.Println(result.URL)
	} else {
		printSuccess("Diagram ready")
		printLink(result.URL)
		printStats(result.Stats.NodeCount, result.Stats.EdgeCount, len(result.URL))
	}

	if p.output != "" {
		if err := os.WriteFile(p.output, result.Document, 0644); err != nil {
			return fmt.Errorf("write %s: %w", p.output, err)
		}
		if !p.urlOnly {
			printFile(p.output)
		}
	}

	if p.record {
		store, err := newHistoryStore(ctx, cfg.History)
		if err != nil {
			return fmt.Errorf("initialize history: %w", err)
		}
		defer store.Close(ctx)

		entry := &history.Entry{
			ID:        uuid.NewString(),
			CreatedAt: time.Now().UTC(),
			Nodes:     result.Stats.NodeCount,
			Edges:     result.Stats.EdgeCount,
			URL:       result.URL,
			Request:   req,
		}
		if err := store.Record(ctx, entry); err != nil {
			printWarning("History not recorded: %v", err)
		} else if !p.urlOnly {
			printDetail("Recorded as %s", entry.ID)
		}
	}

	return nil
}
