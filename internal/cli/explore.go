package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pqcgraph/pkg/overlay"
	"github.com/matzehuels/pqcgraph/pkg/pipeline"
)

// exploreCommand creates the interactive explorer command.
func (c *CLI) exploreCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Drill down through the layers interactively",
		Long: `Drill down through the layers interactively.

Start from a standard and follow its relations layer by layer, up to the
services built on top. Each step reveals one more layer. The breadcrumb trail
jumps back to any revealed layer, search starts a fresh chain anywhere, and
the baseline overlay shows which entities sit on a validated FIPS module.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(cmd.Context(), noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runExplore(ctx context.Context, noCache bool) error {
	s, err := c.open(ctx, noCache, pipeline.Options{})
	if err != nil {
		return err
	}
	defer s.Close()

	g := s.result.Graph
	baselines := make(map[overlay.Mode]*overlay.Result, len(overlay.Modes))
	for _, m := range overlay.Modes {
		baselines[m] = s.runner.Baseline(ctx, g, m)
	}

	model := NewExploreModel(ctx, g, baselines, s.result.Dataset.Applications())
	final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("explorer: %w", err)
	}

	if m, ok := final.(ExploreModel); ok && !m.State.IsIdle() {
		names := make([]string, len(m.State.Chain))
		for i, e := range m.State.Chain {
			names[i] = e.DisplayName()
		}
		printInfo("Explored %s", strings.Join(names, " → "))
	}
	return nil
}
