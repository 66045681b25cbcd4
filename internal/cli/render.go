package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pqcgraph/pkg/errors"
	"github.com/matzehuels/pqcgraph/pkg/explore"
	"github.com/matzehuels/pqcgraph/pkg/graph"
	"github.com/matzehuels/pqcgraph/pkg/overlay"
	"github.com/matzehuels/pqcgraph/pkg/pipeline"
	"github.com/matzehuels/pqcgraph/pkg/salience"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // base path; each format appends its extension
	formats  string   // comma-separated: json, dot, svg
	detailed bool     // add layer and readiness text to labels
	scale    float64  // coordinate multiplier for DOT and SVG
	noCache  bool     // disable caching
	baseline string   // overlay mode, empty for none
	stack    []string // entities whose stack chain is highlighted
	focus    []string // entities explored in order
}

// renderCommand creates the render command for producing graph artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{output: appName, scale: 1}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the graph to JSON, DOT or SVG",
		Long: `Render the graph to JSON, DOT or SVG.

The JSON output is the layout. DOT and SVG draw every entity at its layout
position, colored by readiness. Highlighting follows the same salience rules
as the explorer:

  --focus     drill down through the given entities, in order
  --baseline  overlay a FIPS baseline (pqc or classical)
  --stack     highlight the stack chain of the given entities`,
		Example: `  pqcgraph render -f svg,dot -o readiness
  pqcgraph render --focus openssl,rhel --detailed
  pqcgraph render --baseline pqc`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output base path")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output formats: svg (default), dot, json")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show layer and readiness in labels")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "coordinate scale for DOT and SVG")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&opts.baseline, "baseline", "", "baseline overlay: pqc, classical")
	cmd.Flags().StringSliceVar(&opts.stack, "stack", nil, "entity IDs of a stack to assess")
	cmd.Flags().StringSliceVar(&opts.focus, "focus", nil, "entity IDs to explore, in order")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, opts renderOpts) error {
	formats := parseFormats(opts.formats)
	if err := pipeline.ValidateFormats(formats); err != nil {
		return err
	}

	s, err := c.open(ctx, opts.noCache, pipeline.Options{})
	if err != nil {
		return err
	}
	defer s.Close()

	g := s.result.Graph
	sctx, err := c.salienceContext(ctx, s.runner, g, opts)
	if err != nil {
		return err
	}
	res := s.runner.Salience(ctx, sctx)

	prog := newProgress(c.Logger)
	artifacts, err := s.runner.Render(ctx, g, s.result.Layout, pipeline.Options{
		Formats:  formats,
		Salience: &res,
		Detailed: opts.detailed,
		Scale:    opts.scale,
	})
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	prog.done(fmt.Sprintf("Rendered %d format(s)", len(formats)))

	printSuccess("Render complete")
	for _, f := range formats {
		path := opts.output + "." + f
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(s.result.Stats.Build, s.result.CacheInfo.LayoutHit)
	return nil
}

// salienceContext turns the highlighting flags into a salience context.
func (c *CLI) salienceContext(ctx context.Context, runner *pipeline.Runner, g *graph.Graph, opts renderOpts) (salience.Context, error) {
	sctx := salience.Context{Graph: g}

	st := explore.Idle()
	for _, id := range parseIDs(opts.focus) {
		e, ok := g.Entity(id)
		if !ok {
			return sctx, errors.New(errors.ErrCodeEntityNotFound, "unknown entity %q", id)
		}
		st = st.Explore(e)
	}
	sctx.State = st

	if opts.baseline != "" {
		mode, err := overlay.ParseMode(opts.baseline)
		if err != nil {
			return sctx, err
		}
		sctx.Baseline = runner.Baseline(ctx, g, mode)
	}

	if ids := parseIDs(opts.stack); len(ids) > 0 {
		a, err := runner.Assess(ctx, g, ids)
		if err != nil {
			return sctx, err
		}
		sctx.Stack = a.ChainSet()
	}
	return sctx, nil
}
