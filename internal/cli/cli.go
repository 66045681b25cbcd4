// Package cli implements the pqcgraph command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pqcgraph/pkg/buildinfo"
	"github.com/matzehuels/pqcgraph/pkg/cache"
	"github.com/matzehuels/pqcgraph/pkg/config"
	"github.com/matzehuels/pqcgraph/pkg/dataset"
	"github.com/matzehuels/pqcgraph/pkg/httputil"
	"github.com/matzehuels/pqcgraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "pqcgraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Persistent flags. Empty values leave the configuration untouched.
	configPath   string
	nodes        string
	edges        string
	applications string
	mongoURI     string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level pipeline, cache
// and HTTP events are logged as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		installLogHooks()
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "pqcgraph maps post-quantum readiness across the software stack",
		Long: `pqcgraph loads a layered dependency graph of standards, protocols, libraries,
operating systems, languages and services, and answers where post-quantum
cryptography is ready: which entities sit on a validated FIPS baseline, how a
stack composed of them rates, and how the layers connect.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVarP(&c.configPath, "config", "c", "", "config file (default: ./"+config.FileName+" if present)")
	pf.StringVar(&c.nodes, "nodes", "", "nodes document path or URL")
	pf.StringVar(&c.edges, "edges", "", "edges document path or URL")
	pf.StringVar(&c.applications, "applications", "", "applications document path or URL")
	pf.StringVar(&c.mongoURI, "mongo-uri", "", "read the dataset from MongoDB instead of documents")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.baselineCommand())
	root.AddCommand(c.assessCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig reads the config file and applies the persistent flag
// overrides. An explicit --config must exist.
func (c *CLI) loadConfig() (config.Config, error) {
	path, required := config.FileName, false
	if c.configPath != "" {
		path, required = c.configPath, true
	}
	cfg, err := config.Load(path, required)
	if err != nil {
		return cfg, err
	}
	if c.nodes != "" {
		cfg.Dataset.Nodes = c.nodes
	}
	if c.edges != "" {
		cfg.Dataset.Edges = c.edges
	}
	if c.applications != "" {
		cfg.Dataset.Applications = c.applications
	}
	if c.mongoURI != "" {
		cfg.Dataset.MongoURI = c.mongoURI
	}
	c.Logger.Debug("configuration", "path", path, "mongo", cfg.Dataset.UseMongo(), "cache", cfg.Cache.Backend)
	return cfg, cfg.Validate()
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	cc, err := newCache(ctx, cfg.Cache, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), cfg.Cache.Prefix)
	return pipeline.NewRunner(cc, keyer, c.Logger), nil
}

func newCache(ctx context.Context, cfg config.Cache, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("connect cache: %w", err)
		}
		return rc, nil
	}
	dir := cfg.Dir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// newStore opens the configured dataset store. The returned close function
// is never nil.
func (c *CLI) newStore(ctx context.Context, cfg config.Config, runner *pipeline.Runner) (dataset.Store, string, func(), error) {
	if cfg.Dataset.UseMongo() {
		ms, err := dataset.NewMongoStore(ctx, cfg.Dataset.MongoURI, cfg.Dataset.MongoDatabase)
		if err != nil {
			return nil, "", nil, err
		}
		closeFn := func() {
			if err := ms.Close(context.Background()); err != nil {
				c.Logger.Debug("disconnect mongo", "err", err)
			}
		}
		return ms, "mongodb/" + cfg.Dataset.MongoDatabase, closeFn, nil
	}

	client := dataset.NewHTTPClient(httputil.WithCache(runner.Cache, runner.Keyer, cfg.Cache.TTL.Duration))
	loc := cfg.Dataset.Locations()
	return dataset.NewDocumentStore(loc, client), loc.Nodes, func() {}, nil
}

// session is a loaded dataset with the runner that produced it.
type session struct {
	cfg    config.Config
	runner *pipeline.Runner
	result *pipeline.Result
	close  func()
}

// Close releases the store and the runner.
func (s *session) Close() {
	s.close()
	_ = s.runner.Close()
}

// open loads the dataset and lays it out. Every command that needs the graph
// goes through here.
func (c *CLI) open(ctx context.Context, noCache bool, opts pipeline.Options) (*session, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	store, source, closeStore, err := c.newStore(ctx, cfg, runner)
	if err != nil {
		_ = runner.Close()
		return nil, fmt.Errorf("open dataset: %w", err)
	}

	if opts.Radii == nil {
		if opts.Radii, err = cfg.Layout.RingRadii(); err != nil {
			closeStore()
			_ = runner.Close()
			return nil, err
		}
	}

	spinner := newSpinnerWithContext(ctx, "Loading "+source+"...")
	spinner.Start()
	res, err := runner.Execute(ctx, store, source, opts)
	if err != nil {
		spinner.StopWithError("Load failed")
		closeStore()
		_ = runner.Close()
		return nil, err
	}
	spinner.Stop()
	if ctx.Err() != nil {
		closeStore()
		_ = runner.Close()
		return nil, ctx.Err()
	}
	return &session{cfg: cfg, runner: runner, result: res, close: closeStore}, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/pqcgraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// parseIDs splits comma-separated entity IDs and drops blanks.
func parseIDs(values []string) []string {
	var ids []string
	for _, v := range values {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}
