package assess

import (
	"cmp"
	"slices"
	"strings"

	"github.com/matzehuels/pqcgraph/pkg/graph"
)

// Option is a selectable entity.
type Option struct {
	ID     string       `json:"id" yaml:"id"`
	Name   string       `json:"name" yaml:"name"`
	Layer  int          `json:"layer" yaml:"layer"`
	Status graph.Status `json:"status" yaml:"status"`
}

// Options groups the graph's entities into stack categories.
type Options struct {
	Platforms []Option `json:"platforms" yaml:"platforms"`
	OS        []Option `json:"os" yaml:"os"`
	Languages []Option `json:"languages" yaml:"languages"`
	Services  []Option `json:"services" yaml:"services"`
}

// Category layers.
const (
	layerOS           = 3
	layerLanguageLow  = 4
	layerLanguageHigh = 6
	layerPlatform     = 8
	layerService      = 9
)

// CandidateOptions lists the entities selectable for each category, sorted
// by name. Operating systems come from layer 3, languages and runtimes from
// layers 4 to 6, platforms from layer 8 and services from layer 9.
func CandidateOptions(g *graph.Graph) Options {
	opts := Options{
		Platforms: []Option{},
		OS:        []Option{},
		Languages: []Option{},
		Services:  []Option{},
	}
	for _, e := range g.Entities() {
		o := Option{ID: e.ID, Name: e.DisplayName(), Layer: e.Layer, Status: e.Status}
		switch {
		case e.Layer == layerPlatform:
			opts.Platforms = append(opts.Platforms, o)
		case e.Layer == layerOS:
			opts.OS = append(opts.OS, o)
		case e.Layer >= layerLanguageLow && e.Layer <= layerLanguageHigh:
			opts.Languages = append(opts.Languages, o)
		case e.Layer == layerService:
			opts.Services = append(opts.Services, o)
		}
	}
	for _, list := range [][]Option{opts.Platforms, opts.OS, opts.Languages, opts.Services} {
		slices.SortStableFunc(list, byName)
	}
	return opts
}

func byName(a, b Option) int {
	return cmp.Or(
		strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)),
		strings.Compare(a.Name, b.Name),
	)
}
