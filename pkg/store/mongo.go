package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoCollection is the subset of *mongo.Collection used by the Mongo store.
type MongoCollection interface {
	UpdateOne(ctx context.Context, filter, update any, opts ...options.Lister[options.UpdateOneOptions]) (*mongo.UpdateResult, error)
	FindOne(ctx context.Context, filter any, opts ...options.Lister[options.FindOneOptions]) *mongo.SingleResult
	Find(ctx context.Context, filter any, opts ...options.Lister[options.FindOptions]) (*mongo.Cursor, error)
	DeleteOne(ctx context.Context, filter any, opts ...options.Lister[options.DeleteOneOptions]) (*mongo.DeleteResult, error)
}

type pageDocument struct {
	PageID    int64     `bson:"_id"`
	Blob      []byte    `bson:"blob"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Mongo stores one document per page, keyed by page id.
type Mongo struct {
	coll MongoCollection
	now  func() time.Time
}

// NewMongo uses the named collection of db.
func NewMongo(db *mongo.Database, collection string) *Mongo {
	return NewMongoCollection(db.Collection(collection))
}

// NewMongoCollection wraps an existing collection handle.
func NewMongoCollection(coll MongoCollection) *Mongo {
	return &Mongo{coll: coll, now: time.Now}
}

func (m *Mongo) Put(ctx context.Context, pageID int64, blob []byte) error {
	if err := validatePut(pageID, blob); err != nil {
		return err
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "blob", Value: blob},
		{Key: "updated_at", Value: m.now().UTC()},
	}}}
	_, err := m.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: pageID}}, update, options.UpdateOne().SetUpsert(true))
	if err != nil {
		return errors.Join(ErrBackend, err)
	}
	return nil
}

func (m *Mongo) Get(ctx context.Context, pageID int64) ([]byte, error) {
	if err := validateID(pageID); err != nil {
		return nil, err
	}
	var doc pageDocument
	if err := m.coll.FindOne(ctx, bson.D{{Key: "_id", Value: pageID}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, errors.Join(ErrBackend, err)
	}
	return doc.Blob, nil
}

func (m *Mongo) GetMany(ctx context.Context, pageIDs []int64) (map[int64][]byte, error) {
	ids := normalizeIDs(pageIDs)
	out := make(map[int64][]byte, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	filter := bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}}
	cur, err := m.coll.Find(ctx, filter)
	if err != nil {
		return nil, errors.Join(ErrBackend, err)
	}
	var docs []pageDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Join(ErrBackend, err)
	}
	for _, d := range docs {
		out[d.PageID] = d.Blob
	}
	return out, nil
}

func (m *Mongo) Delete(ctx context.Context, pageID int64) error {
	if err := validateID(pageID); err != nil {
		return err
	}
	if _, err := m.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: pageID}}); err != nil {
		return errors.Join(ErrBackend, err)
	}
	return nil
}
