package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pqcgraph/pkg/graph"
	"github.com/matzehuels/pqcgraph/pkg/pipeline"
)

// layoutCommand creates the layout command for computing ring positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		opts    pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Compute the radial layout of the dataset",
		Long: `Compute the radial layout of the dataset.

Every entity is placed on the ring of its layer. Positions are deterministic:
the same dataset and radii always yield the same layout.json. Radii come from
the [layout] section of the config file.

Layouts are cached by dataset content, so repeated runs skip the computation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), output, noCache, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "layout.json", "output file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when a cached layout exists")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, output string, noCache bool, opts pipeline.Options) error {
	s, err := c.open(ctx, noCache, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := graph.WriteLayoutFile(s.result.Layout, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Layout complete")
	printFile(output)
	printStats(s.result.Stats.Build, s.result.CacheInfo.LayoutHit)
	printNewline()
	printNextStep("Render", appName+" render -f svg")
	return nil
}
