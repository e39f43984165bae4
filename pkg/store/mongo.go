package store

import (
	"context"
	stderrors "errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/zonesmith/pkg/errors"
	"github.com/matzehuels/zonesmith/pkg/zone"
)

const mongoCollection = "layouts"

// MongoStore keeps one document per layout, keyed by name.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and pings the primary.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	if database == "" {
		database = "zonesmith"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongodb")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(mongoCollection),
	}, nil
}

// Get returns the layout with the name, or LAYOUT_NOT_FOUND.
func (s *MongoStore) Get(ctx context.Context, name string) (l *zone.Layout, err error) {
	defer observe(ctx, BackendMongo, "get")(&err)
	if err := errors.ValidateLayoutName(name); err != nil {
		return nil, err
	}

	l = new(zone.Layout)
	err = s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(l)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "find layout %q", name)
	}
	return l, nil
}

// Put stores the layout under its name, replacing any previous version.
func (s *MongoStore) Put(ctx context.Context, l *zone.Layout) (err error) {
	defer observe(ctx, BackendMongo, "put")(&err)
	c, err := prepare(l)
	if err != nil {
		return err
	}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": c.Name}, c, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save layout %q", c.Name)
	}
	return nil
}

// Delete removes the layout. Deleting a missing layout is not an error.
func (s *MongoStore) Delete(ctx context.Context, name string) (err error) {
	defer observe(ctx, BackendMongo, "delete")(&err)
	if err := errors.ValidateLayoutName(name); err != nil {
		return err
	}
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": name}); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete layout %q", name)
	}
	return nil
}

// List returns the stored layout names in sorted order.
func (s *MongoStore) List(ctx context.Context) (names []string, err error) {
	defer observe(ctx, BackendMongo, "list")(&err)
	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list layouts")
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var doc struct {
			Name string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "list layouts")
		}
		names = append(names, doc.Name)
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list layouts")
	}
	return names, nil
}

// Close releases the backend connection.
func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)

// Ping checks the MongoDB connection.
func (s *MongoStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return s.client.Ping(ctx, nil)
}
