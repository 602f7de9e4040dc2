package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mindgrid/mindgrid/pkg/document"
	apperrors "github.com/mindgrid/mindgrid/pkg/errors"
	"github.com/mindgrid/mindgrid/pkg/pipeline"
)

// renderCommand creates the render command for generating previews.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formats string
		output  string
		noCache bool
	)
	opts := pipeline.Options{}
	c.Config.Apply(&opts)

	cmd := &cobra.Command{
		Use:   "render <doc.json>",
		Short: "Render a mind-map document as DOT, SVG, or PNG",
		Long: `Render a mind-map document as DOT, SVG, or PNG.

The render command optimizes the document's layout (reusing a cached layout
when one exists) and draws the result with graphviz. Node positions are
pinned, so the picture matches the computed placement exactly.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formats)
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&formats, "format", "f", pipeline.FormatSVG, "output formats, comma-separated (dot, svg, png)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().Float64Var(&opts.AspectRatio, "aspect", opts.AspectRatio, "target width/height ratio of the layout")
	cmd.Flags().Float64Var(&opts.MinEdgeLength, "edge-length", opts.MinEdgeLength, "spacing between neighboring nodes")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", opts.Seed, "random seed for reproducible layouts")

	return cmd
}

// runRender optimizes the document and writes one file per requested format.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	if len(opts.Formats) > 1 && output != "" {
		return fmt.Errorf("--output only works with a single format")
	}

	doc, err := document.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load document %s: %w", input, err)
	}

	opts.Logger = c.Logger
	opts.NoCache = noCache

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	result, err := c.newRunner(noCache).Run(ctx, doc, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	printSuccess("Render complete")
	for _, format := range opts.Formats {
		out := outputPath(input, output, "."+format)
		if err := apperrors.ValidateOutputPath(out); err != nil {
			return err
		}
		if err := os.WriteFile(out, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", out, err)
		}
		printFile(out)
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.LayoutHit)

	return nil
}
