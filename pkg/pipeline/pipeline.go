// Package pipeline runs the load → build → layout → render sequence shared
// by the CLI and the HTTP API.
//
// # Stages
//
//  1. Load: fetch the dataset documents from a [dataset.Store]
//  2. Build: assemble the [graph.Graph], dropping dangling relations
//  3. Layout: place entities on their rings (cached per dataset and radii)
//  4. Render: produce artifacts (JSON layout, DOT, SVG)
//
// The analysis helpers ([Runner.Baseline], [Runner.Assess],
// [Runner.Salience]) wrap the pure engines in packages overlay, assess and
// salience with logging and observability hooks.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, store, "data/", pipeline.Options{
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	svg := res.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"fmt"
	"time"

	"github.com/matzehuels/pqcgraph/pkg/dataset"
	"github.com/matzehuels/pqcgraph/pkg/errors"
	"github.com/matzehuels/pqcgraph/pkg/graph"
	"github.com/matzehuels/pqcgraph/pkg/salience"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// ValidateFormat checks a single output format. Formats are case-sensitive.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format %q: must be json, dot or svg", format)
	}
	return nil
}

// ValidateFormats checks every format in formats.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Options configures a pipeline run.
type Options struct {
	// Radii overrides the ring radii. Nil means graph.DefaultRadii.
	Radii graph.Radii

	// Refresh skips the layout cache lookup; the result is still stored.
	Refresh bool

	// Formats lists the artifacts to render. Empty renders nothing.
	Formats []string

	// Salience styles DOT and SVG output. Nil draws the plain graph.
	Salience *salience.Resolution

	// Detailed adds layer and readiness text to DOT and SVG labels.
	Detailed bool

	// Scale multiplies layout coordinates in DOT and SVG output.
	Scale float64
}

// Validate checks the options and fills defaults.
func (o *Options) Validate() error {
	if o.Radii == nil {
		o.Radii = graph.DefaultRadii()
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must not be negative")
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Dataset is the loaded snapshot, including the pending applications.
	Dataset *dataset.Dataset

	// Graph is the built readiness graph.
	Graph *graph.Graph

	// DatasetHash is the content hash of the nodes and edges documents.
	DatasetHash string

	// Layout is the positioned graph.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Build      graph.BuildStats
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each cached stage.
type CacheInfo struct {
	LayoutHit bool
}

func (s Stats) String() string {
	return fmt.Sprintf("%d entities, %d relations (%d dangling) in %v",
		s.Build.Entities, s.Build.Relations, s.Build.Dangling, s.LoadTime+s.LayoutTime+s.RenderTime)
}
