// Package config reads the pqcgraph configuration file.
//
// The file is TOML. Every key is optional; a missing file yields
// [Default]:
//
//	[dataset]
//	nodes = "data/nodes.json"
//	edges = "data/edges.json"
//	applications = "data/applications.json"
//	# mongo_uri = "mongodb://localhost:27017"
//	# mongo_database = "pqcgraph"
//
//	[layout]
//	default_radius = 500.0
//	[layout.radii]
//	"0" = 80.0
//
//	[cache]
//	backend = "file" # file, redis or none
//	dir = "~/.cache/pqcgraph"
//	redis_addr = "localhost:6379"
//	prefix = ""
//	ttl = "6h"
//
//	[server]
//	addr = ":8080"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pqcgraph/pkg/dataset"
	"github.com/matzehuels/pqcgraph/pkg/errors"
	"github.com/matzehuels/pqcgraph/pkg/graph"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "pqcgraph.toml"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the full configuration.
type Config struct {
	Dataset Dataset `toml:"dataset"`
	Layout  Layout  `toml:"layout"`
	Cache   Cache   `toml:"cache"`
	Server  Server  `toml:"server"`
}

// Dataset locates the dataset. A non-empty MongoURI takes precedence over
// the document locations.
type Dataset struct {
	Nodes         string `toml:"nodes"`
	Edges         string `toml:"edges"`
	Applications  string `toml:"applications"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// Locations returns the document locations.
func (d Dataset) Locations() dataset.Locations {
	return dataset.Locations{Nodes: d.Nodes, Edges: d.Edges, Applications: d.Applications}
}

// UseMongo reports whether the dataset comes from MongoDB.
func (d Dataset) UseMongo() bool { return d.MongoURI != "" }

// Layout tunes the radial layout. Radii keys are layer numbers written as
// strings, as TOML requires.
type Layout struct {
	DefaultRadius float64            `toml:"default_radius"`
	Radii         map[string]float64 `toml:"radii"`
}

// RingRadii merges the configured radii over graph.DefaultRadii. The
// default radius becomes the fallback for layers outside the table.
func (l Layout) RingRadii() (graph.Radii, error) {
	radii := graph.DefaultRadii()
	if l.DefaultRadius > 0 {
		radii[graph.NoLayer] = l.DefaultRadius
	}
	for k, r := range l.Radii {
		layer, err := strconv.Atoi(k)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "layout.radii: layer %q is not an integer", k)
		}
		if r <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "layout.radii: radius for layer %d must be positive", layer)
		}
		radii[layer] = r
	}
	return radii, nil
}

// Cache selects and configures the cache backend.
type Cache struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	Prefix    string   `toml:"prefix"`
	TTL       Duration `toml:"ttl"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a string ("6h", "90m").
type Duration struct{ time.Duration }

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Dataset: Dataset{
			Nodes:         "data/nodes.json",
			Edges:         "data/edges.json",
			Applications:  "data/applications.json",
			MongoDatabase: "pqcgraph",
		},
		Layout: Layout{DefaultRadius: graph.DefaultRadius},
		Cache: Cache{
			Backend:   BackendFile,
			Dir:       DefaultCacheDir(),
			RedisAddr: "localhost:6379",
			TTL:       Duration{6 * time.Hour},
		},
		Server: Server{Addr: ":8080"},
	}
}

// DefaultCacheDir is ~/.cache/pqcgraph, or a temp directory when the home
// directory is unknown.
func DefaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "pqcgraph-cache")
	}
	return filepath.Join(home, ".cache", "pqcgraph")
}

// Load reads path over the defaults. A missing file is not an error unless
// required is set.
func Load(path string, required bool) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return Default(), nil
		}
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidInput, "%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	cfg.Cache.Dir = expandHome(cfg.Cache.Dir)
	return cfg, cfg.Validate()
}

// Validate checks values that cannot be decoded wrong but can be set wrong.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "cache.backend must be file, redis or none, got %q", c.Cache.Backend)
	}
	if c.Layout.DefaultRadius <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "layout.default_radius must be positive")
	}
	if _, err := c.Layout.RingRadii(); err != nil {
		return err
	}
	if !c.Dataset.UseMongo() && (c.Dataset.Nodes == "" || c.Dataset.Edges == "") {
		return errors.New(errors.ErrCodeInvalidInput, "dataset.nodes and dataset.edges are required")
	}
	return nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

// String renders the configuration as TOML.
func (c Config) String() string {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return b.String()
}
