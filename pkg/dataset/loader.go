package dataset

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/pqcgraph/pkg/errors"
	"github.com/matzehuels/pqcgraph/pkg/explore"
	"github.com/matzehuels/pqcgraph/pkg/observability"
)

// Dataset is a loaded snapshot.
type Dataset struct {
	Nodes *NodesDocument
	Edges *EdgesDocument
	apps  *Pending
}

// Applications returns the pending applications load.
func (d *Dataset) Applications() *Pending { return d.apps }

// Pending is the result of the optional applications load, which runs
// independently of the main dataset.
type Pending struct {
	done chan struct{}
	apps explore.Applications
}

// Resolved returns a Pending that is already complete.
func Resolved(apps explore.Applications) *Pending {
	p := &Pending{done: make(chan struct{}), apps: apps}
	close(p.done)
	return p
}

// Wait blocks until the load finishes or ctx is done. A failed or
// cancelled load yields nil.
func (p *Pending) Wait(ctx context.Context) explore.Applications {
	select {
	case <-p.done:
		return p.apps
	case <-ctx.Done():
		return nil
	}
}

// Ready returns the applications without blocking. ok is false while the
// load is in flight.
func (p *Pending) Ready() (apps explore.Applications, ok bool) {
	select {
	case <-p.done:
		return p.apps, true
	default:
		return nil, false
	}
}

// Loader fetches a dataset from a Store.
type Loader struct {
	Store  Store
	Logger *log.Logger
	// Source names the store in logs and hook events.
	Source string
}

// NewLoader returns a loader for store. A nil logger discards output.
func NewLoader(store Store, source string, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Loader{Store: store, Source: source, Logger: logger}
}

// Load fetches the nodes and edges documents concurrently. If either fails
// the whole load fails with a single DATASET_LOAD error; there is no partial
// dataset. The applications document is fetched in its own goroutine: its
// failure is logged and leaves the applications empty. The applications
// goroutine is bound to ctx, so cancelling ctx abandons it.
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, l.Source)
	start := time.Now()

	pending := &Pending{done: make(chan struct{})}
	go func() {
		defer close(pending.done)
		apps, err := l.Store.Applications(ctx)
		if err != nil {
			l.Logger.Warn("applications unavailable", "source", l.Source, "err", err)
			return
		}
		pending.apps = apps
		l.Logger.Debug("loaded applications", "runtimes", len(apps))
	}()

	ds := &Dataset{apps: pending}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		nodes, err := l.Store.Nodes(gctx)
		if err != nil {
			return err
		}
		ds.Nodes = nodes
		return nil
	})
	g.Go(func() error {
		edges, err := l.Store.Edges(gctx)
		if err != nil {
			return err
		}
		ds.Edges = edges
		return nil
	})

	if err := g.Wait(); err != nil {
		hooks.OnLoadComplete(ctx, l.Source, 0, 0, time.Since(start), err)
		return nil, errors.Wrap(errors.ErrCodeDatasetLoad, err, "load dataset from %s", l.Source)
	}

	hooks.OnLoadComplete(ctx, l.Source, len(ds.Nodes.Entities), len(ds.Edges.Edges), time.Since(start), nil)
	l.Logger.Debug("loaded dataset",
		"source", l.Source,
		"entities", len(ds.Nodes.Entities),
		"relations", len(ds.Edges.Edges),
		"last_updated", ds.Nodes.LastUpdated)
	return ds, nil
}
