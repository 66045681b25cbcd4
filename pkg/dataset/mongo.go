package dataset

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/pqcgraph/pkg/explore"
	"github.com/matzehuels/pqcgraph/pkg/graph"
)

// MongoDB collection names.
const (
	CollEntities     = "entities"
	CollRelations    = "relations"
	CollApplications = "applications"
	CollMeta         = "meta"

	metaID = "dataset"
)

// MongoStore reads the dataset from a MongoDB database. Entities and
// relations are returned in insertion order.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore connects to uri and uses database name.
func NewMongoStore(ctx context.Context, uri, name string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{client: client, db: client.Database(name)}, nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

type metaDoc struct {
	ID          string `bson:"_id"`
	LastUpdated string `bson:"last_updated"`
}

type applicationsDoc struct {
	Runtime      string                `bson:"runtime"`
	Applications []explore.Application `bson:"applications"`
}

var insertionOrder = options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

// Nodes reads the entities collection and the last_updated stamp.
func (s *MongoStore) Nodes(ctx context.Context) (*NodesDocument, error) {
	doc := &NodesDocument{}

	var meta metaDoc
	err := s.db.Collection(CollMeta).FindOne(ctx, bson.D{{Key: "_id", Value: metaID}}).Decode(&meta)
	switch {
	case err == nil:
		doc.LastUpdated = meta.LastUpdated
	case err != mongo.ErrNoDocuments:
		return nil, fmt.Errorf("read %s: %w", CollMeta, err)
	}

	cur, err := s.db.Collection(CollEntities).Find(ctx, bson.D{}, insertionOrder)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", CollEntities, err)
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		e, err := decodeEntity(cur.Current)
		if err != nil {
			return nil, err
		}
		doc.Entities = append(doc.Entities, e)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", CollEntities, err)
	}
	return doc, nil
}

// decodeEntity goes through relaxed extended JSON so the polymorphic status
// field takes the same decoding path as file datasets.
func decodeEntity(raw bson.Raw) (graph.Entity, error) {
	var e graph.Entity
	data, err := bson.MarshalExtJSON(raw, false, false)
	if err != nil {
		return e, fmt.Errorf("convert entity: %w", err)
	}
	if err := json.Unmarshal(data, &e); err != nil {
		return e, fmt.Errorf("decode entity: %w", err)
	}
	return e, nil
}

// encodeEntity is the inverse of decodeEntity.
func encodeEntity(e graph.Entity) (bson.D, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	var doc bson.D
	if err := bson.UnmarshalExtJSON(data, false, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Edges reads the relations collection.
func (s *MongoStore) Edges(ctx context.Context) (*EdgesDocument, error) {
	cur, err := s.db.Collection(CollRelations).Find(ctx, bson.D{}, insertionOrder)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", CollRelations, err)
	}
	var rels []graph.Relation
	if err := cur.All(ctx, &rels); err != nil {
		return nil, fmt.Errorf("read %s: %w", CollRelations, err)
	}
	return &EdgesDocument{Edges: rels}, nil
}

// Applications reads the applications collection, one document per runtime.
func (s *MongoStore) Applications(ctx context.Context) (explore.Applications, error) {
	cur, err := s.db.Collection(CollApplications).Find(ctx, bson.D{}, insertionOrder)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", CollApplications, err)
	}
	var docs []applicationsDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("read %s: %w", CollApplications, err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	apps := make(explore.Applications, len(docs))
	for _, d := range docs {
		apps[d.Runtime] = append(apps[d.Runtime], d.Applications...)
	}
	return apps, nil
}

// Import replaces the stored dataset with the given documents.
func (s *MongoStore) Import(ctx context.Context, nodes *NodesDocument, edges *EdgesDocument, apps explore.Applications) error {
	for _, name := range []string{CollEntities, CollRelations, CollApplications, CollMeta} {
		if err := s.db.Collection(name).Drop(ctx); err != nil {
			return fmt.Errorf("drop %s: %w", name, err)
		}
	}

	_, err := s.db.Collection(CollMeta).InsertOne(ctx, metaDoc{ID: metaID, LastUpdated: nodes.LastUpdated})
	if err != nil {
		return fmt.Errorf("write %s: %w", CollMeta, err)
	}

	if len(nodes.Entities) > 0 {
		docs := make([]any, 0, len(nodes.Entities))
		for _, e := range nodes.Entities {
			d, err := encodeEntity(e)
			if err != nil {
				return fmt.Errorf("encode entity %q: %w", e.ID, err)
			}
			docs = append(docs, d)
		}
		if _, err := s.db.Collection(CollEntities).InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("write %s: %w", CollEntities, err)
		}
	}

	if edges != nil && len(edges.Edges) > 0 {
		docs := make([]any, len(edges.Edges))
		for i, r := range edges.Edges {
			docs[i] = r
		}
		if _, err := s.db.Collection(CollRelations).InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("write %s: %w", CollRelations, err)
		}
	}

	if len(apps) > 0 {
		docs := make([]any, 0, len(apps))
		for runtime, list := range apps {
			docs = append(docs, applicationsDoc{Runtime: runtime, Applications: list})
		}
		if _, err := s.db.Collection(CollApplications).InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("write %s: %w", CollApplications, err)
		}
	}
	return nil
}

var _ Store = (*MongoStore)(nil)
