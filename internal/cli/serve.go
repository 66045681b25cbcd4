package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pqcgraph/pkg/pipeline"
	"github.com/matzehuels/pqcgraph/pkg/server"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the readiness graph over HTTP",
		Long: `Serve the readiness graph over HTTP.

The dataset is loaded once at startup and served read-only:

  GET  /healthz
  GET  /api/graph            layout with positions
  GET  /api/entities         list, filter with ?layer= and ?status=
  GET  /api/entities/{id}    details, relations and applications
  GET  /api/search?q=        substring search
  GET  /api/baseline?mode=   FIPS baseline overlay
  POST /api/explore          drill-down transitions and salience
  GET  /api/stack/options    selectable stack entities
  POST /api/assess           stack assessment

The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	s, err := c.open(ctx, noCache, pipeline.Options{})
	if err != nil {
		return err
	}
	defer s.Close()

	if addr == "" {
		addr = s.cfg.Server.Addr
	}
	printSuccess("Dataset loaded")
	printStats(s.result.Stats.Build, s.result.CacheInfo.LayoutHit)

	srv := server.New(ctx, s.runner, s.result, c.Logger)
	return srv.ListenAndServe(ctx, addr)
}
