package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mindgrid/mindgrid/pkg/document"
	apperrors "github.com/mindgrid/mindgrid/pkg/errors"
	"github.com/mindgrid/mindgrid/pkg/pipeline"
)

// layoutCommand creates the layout command for optimizing node placement.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}
	c.Config.Apply(&opts)

	cmd := &cobra.Command{
		Use:   "layout <doc.json>",
		Short: "Optimize node placement for a mind-map document",
		Long: `Optimize node placement for a mind-map document.

The layout command reads a document, anneals its node placement on a grid,
and writes the document back with updated locations. The output is a regular
document file that 'render' can turn into a preview.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().Float64Var(&opts.AspectRatio, "aspect", opts.AspectRatio, "target width/height ratio of the layout")
	cmd.Flags().Float64Var(&opts.MinEdgeLength, "edge-length", opts.MinEdgeLength, "spacing between neighboring nodes")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", opts.Seed, "random seed for reproducible layouts")

	return cmd
}

// runLayout loads the document, optimizes it, and writes the output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	doc, err := document.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load document %s: %w", input, err)
	}

	opts.Logger = c.Logger
	opts.NoCache = noCache
	opts.Formats = []string{pipeline.FormatJSON}

	spinner := newSpinnerWithContext(ctx, "Optimizing layout...")
	spinner.Start()

	result, err := c.newRunner(noCache).Run(ctx, doc, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("optimize layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	out := outputPath(input, output, ".layout.json")
	if err := apperrors.ValidateOutputPath(out); err != nil {
		return err
	}
	if err := document.WriteFile(result.Document, out); err != nil {
		return fmt.Errorf("write output %s: %w", out, err)
	}

	printSuccess("Layout complete")
	printFile(out)
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.LayoutHit)
	printDetail("cost: %.0f → %.0f", result.Stats.CostBefore, result.Stats.CostAfter)
	printNewline()
	printNextStep("Render", appName+" render "+out)

	return nil
}
