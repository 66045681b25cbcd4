package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/pqcgraph/pkg/graph"
	"github.com/matzehuels/pqcgraph/pkg/observability"
	"github.com/matzehuels/pqcgraph/pkg/render/nodelink"
)

// Render produces every format in opts.Formats. DOT source is generated at
// most once and shared by the DOT and SVG outputs.
func (r *Runner) Render(ctx context.Context, g *graph.Graph, layout graph.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	artifacts := make(map[string][]byte, len(opts.Formats))

	var dot string
	dotSource := func() string {
		if dot == "" {
			dot = nodelink.ToDOT(g, layout, nodelink.Options{
				Salience: opts.Salience,
				Scale:    opts.Scale,
				Detailed: opts.Detailed,
			})
		}
		return dot
	}

	for _, format := range opts.Formats {
		hooks.OnRenderStart(ctx, format)
		start := time.Now()

		var (
			data []byte
			err  error
		)
		switch format {
		case FormatJSON:
			data, err = graph.MarshalLayout(layout)
		case FormatDOT:
			data = []byte(dotSource())
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dotSource())
		}

		hooks.OnRenderComplete(ctx, format, time.Since(start), err)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
		r.Logger.Debug("rendered", "format", format, "bytes", len(data))
	}
	return artifacts, nil
}
