package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/pqcgraph/pkg/assess"
	"github.com/matzehuels/pqcgraph/pkg/graph"
	"github.com/matzehuels/pqcgraph/pkg/observability"
	"github.com/matzehuels/pqcgraph/pkg/overlay"
	"github.com/matzehuels/pqcgraph/pkg/salience"
)

// Analysis kinds reported to observability hooks.
const (
	AnalysisBaseline = "baseline"
	AnalysisAssess   = "assess"
	AnalysisSalience = "salience"
)

// Baseline runs the baseline propagation for mode.
func (r *Runner) Baseline(ctx context.Context, g *graph.Graph, mode overlay.Mode) *overlay.Result {
	start := time.Now()
	res := overlay.Baseline(g, mode)
	r.analysed(ctx, AnalysisBaseline, start,
		"mode", mode,
		"seeds", len(res.Seeds),
		"reachable", len(res.Reachable),
		"passes", res.Passes)
	return res
}

// Assess evaluates a stack selection.
func (r *Runner) Assess(ctx context.Context, g *graph.Graph, ids []string) (*assess.Assessment, error) {
	start := time.Now()
	a, err := assess.Evaluate(g, ids)
	if err != nil {
		return nil, err
	}
	r.analysed(ctx, AnalysisAssess, start,
		"selected", len(a.Rows),
		"unknown", len(a.Unknown),
		"chain", len(a.Chain),
		"verdict", a.Verdict())
	return a, nil
}

// Salience resolves the tier of every entity and relation.
func (r *Runner) Salience(ctx context.Context, sctx salience.Context) salience.Resolution {
	start := time.Now()
	res := salience.Resolve(sctx)
	r.analysed(ctx, AnalysisSalience, start,
		"chain", len(sctx.State.Chain),
		"revealed", sctx.State.RevealedDepth,
		"baseline", sctx.Baseline != nil,
		"stack", len(sctx.Stack))
	return res
}

func (r *Runner) analysed(ctx context.Context, kind string, start time.Time, keyvals ...any) {
	d := time.Since(start)
	observability.Pipeline().OnAnalysis(ctx, kind, d)
	r.Logger.Debug(kind, append(keyvals, "duration", d)...)
}
