package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pqcgraph/pkg/explore"
	"github.com/matzehuels/pqcgraph/pkg/graph"
	"github.com/matzehuels/pqcgraph/pkg/overlay"
	"github.com/matzehuels/pqcgraph/pkg/pipeline"
)

// baselineReport is the printable outcome of a baseline trace.
type baselineReport struct {
	Mode      overlay.Mode `json:"mode" yaml:"mode"`
	Label     string       `json:"label" yaml:"label"`
	Seeds     []string     `json:"seeds" yaml:"seeds"`
	Reachable []string     `json:"reachable" yaml:"reachable"`
	Neutral   []string     `json:"neutral" yaml:"neutral"`
	Passes    int          `json:"passes" yaml:"passes"`
	Growth    []int        `json:"growth" yaml:"growth"`
}

func newBaselineReport(g *graph.Graph, res *overlay.Result) baselineReport {
	rep := baselineReport{
		Mode:   res.Mode,
		Label:  res.Mode.Label(),
		Seeds:  res.Seeds,
		Passes: res.Passes,
		Growth: res.Growth,
	}
	for _, e := range g.Entities() {
		if res.Reachable[e.ID] {
			rep.Reachable = append(rep.Reachable, e.ID)
		}
		if res.Neutral[e.ID] {
			rep.Neutral = append(rep.Neutral, e.ID)
		}
	}
	return rep
}

// baselineCommand creates the baseline command.
func (c *CLI) baselineCommand() *cobra.Command {
	var (
		mode    string
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Trace which entities sit on a validated FIPS baseline",
		Long: `Trace which entities sit on a validated FIPS baseline.

Entities whose own FIPS 140-3 record satisfies the mode seed the baseline. It
then flows from a dependency to everything that depends on or ships it, until
nothing changes. Layers 0 and 1 (standards and protocols) are neutral.

Modes:
  pqc        validated module whose boundary includes post-quantum algorithms
  classical  any validated module`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBaseline(cmd.Context(), mode, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", string(overlay.ModePQC), "baseline mode: pqc, classical")
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text, json, yaml")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runBaseline(ctx context.Context, modeName, output string, noCache bool) error {
	mode, err := overlay.ParseMode(modeName)
	if err != nil {
		return err
	}
	if err := validateOutput(output); err != nil {
		return err
	}

	s, err := c.open(ctx, noCache, pipeline.Options{})
	if err != nil {
		return err
	}
	defer s.Close()

	g := s.result.Graph
	res := s.runner.Baseline(ctx, g, mode)
	rep := newBaselineReport(g, res)
	if output != outputText {
		return writeStructured(os.Stdout, output, rep)
	}

	printSuccess("%s baseline", rep.Label)
	printKeyValue("Seeds", fmt.Sprintf("%d", len(rep.Seeds)))
	printKeyValue("Reachable", fmt.Sprintf("%d of %d", len(rep.Reachable), g.EntityCount()))
	printKeyValue("Passes", fmt.Sprintf("%d", rep.Passes))
	printNewline()

	for _, layer := range g.Layers() {
		var names []string
		for _, e := range g.EntitiesInLayer(layer) {
			if res.IsReachable(e.ID) {
				names = append(names, e.DisplayName())
			}
		}
		if len(names) == 0 || layer <= overlay.NeutralMaxLayer {
			continue
		}
		fmt.Println(StyleTitle.Render(explore.LayerLabel(layer)))
		printDetail("%s", strings.Join(names, ", "))
	}
	return nil
}
