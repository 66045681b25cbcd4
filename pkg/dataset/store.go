package dataset

import (
	"context"
	"fmt"
	"os"

	"github.com/matzehuels/pqcgraph/pkg/errors"
	"github.com/matzehuels/pqcgraph/pkg/explore"
	"github.com/matzehuels/pqcgraph/pkg/httputil"
)

// Store provides the three dataset documents.
type Store interface {
	Nodes(ctx context.Context) (*NodesDocument, error)
	Edges(ctx context.Context) (*EdgesDocument, error)
	// Applications returns the optional applications dataset. A store
	// without one returns (nil, nil).
	Applications(ctx context.Context) (explore.Applications, error)
}

// Locations names the dataset documents. Each is a file path or an
// http(s) URL. Applications may be empty.
type Locations struct {
	Nodes        string
	Edges        string
	Applications string
}

// DocumentStore reads JSON documents from files or URLs.
type DocumentStore struct {
	loc    Locations
	client *httputil.Client
}

// NewDocumentStore returns a store for loc. URL locations are fetched with
// client; a nil client gets [NewHTTPClient].
func NewDocumentStore(loc Locations, client *httputil.Client) *DocumentStore {
	if client == nil {
		client = NewHTTPClient()
	}
	return &DocumentStore{loc: loc, client: client}
}

// NewHTTPClient returns an httputil client that makes a single attempt per
// document. A failed dataset load is reported, not retried; opts may still
// opt back in with [httputil.WithRetry].
func NewHTTPClient(opts ...httputil.Option) *httputil.Client {
	return httputil.NewClient(append([]httputil.Option{httputil.WithRetry(1, 0)}, opts...)...)
}

// Locations returns the configured locations.
func (s *DocumentStore) Locations() Locations { return s.loc }

// Nodes reads and decodes the nodes document.
func (s *DocumentStore) Nodes(ctx context.Context) (*NodesDocument, error) {
	data, err := s.read(ctx, s.loc.Nodes)
	if err != nil {
		return nil, err
	}
	doc, err := ParseNodes(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.loc.Nodes, err)
	}
	return doc, nil
}

// Edges reads and decodes the edges document.
func (s *DocumentStore) Edges(ctx context.Context) (*EdgesDocument, error) {
	data, err := s.read(ctx, s.loc.Edges)
	if err != nil {
		return nil, err
	}
	doc, err := ParseEdges(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.loc.Edges, err)
	}
	return doc, nil
}

// Applications reads the applications document, or returns nil when no
// location is configured.
func (s *DocumentStore) Applications(ctx context.Context) (explore.Applications, error) {
	if s.loc.Applications == "" {
		return nil, nil
	}
	data, err := s.read(ctx, s.loc.Applications)
	if err != nil {
		return nil, err
	}
	apps, err := ParseApplications(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.loc.Applications, err)
	}
	return apps, nil
}

func (s *DocumentStore) read(ctx context.Context, location string) ([]byte, error) {
	if location == "" {
		return nil, errors.New(errors.ErrCodeInvalidPath, "dataset location is empty")
	}
	if errors.IsURL(location) {
		if err := errors.ValidateURL(location); err != nil {
			return nil, err
		}
		return s.client.Fetch(ctx, location)
	}
	if err := errors.ValidatePath(location); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(location)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "dataset file %s", location)
	}
	return data, err
}

var _ Store = (*DocumentStore)(nil)
