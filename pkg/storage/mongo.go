package storage

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linguaviz/linguaviz/pkg/errors"
)

// MongoBackend stores each logical collection as a Mongo collection in one
// database, keyed by _id = entity ID. Raw document bytes are stored under a
// single field so the codec in pkg/visual remains the only decode path,
// identical to the file backend.
type MongoBackend struct {
	client *mongo.Client
	db     *mongo.Database
}

// mongoDoc is the stored envelope: entity ID as _id, raw JSON as doc.
type mongoDoc struct {
	ID  string `bson:"_id"`
	Doc []byte `bson:"doc"`
}

// NewMongoBackend connects to MongoDB and verifies the connection.
func NewMongoBackend(ctx context.Context, uri, database string) (*MongoBackend, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping mongodb")
	}
	return &MongoBackend{client: client, db: client.Database(database)}, nil
}

// Ensure is a no-op: Mongo creates collections lazily on first write, which
// already satisfies the lazy-idempotent-creation contract.
func (b *MongoBackend) Ensure(ctx context.Context, collections ...string) error {
	return nil
}

// Put upserts a whole document.
func (b *MongoBackend) Put(ctx context.Context, collection, id string, data []byte) error {
	if err := errors.ValidateDocumentID(id); err != nil {
		return err
	}

	_, err := b.db.Collection(collection).ReplaceOne(
		ctx,
		bson.M{"_id": id},
		mongoDoc{ID: id, Doc: data},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "store document %s/%s", collection, id)
	}
	return nil
}

// Get retrieves a document by ID.
func (b *MongoBackend) Get(ctx context.Context, collection, id string) ([]byte, error) {
	var doc mongoDoc
	err := b.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeNotFound, "document not found: %s/%s", collection, id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read document %s/%s", collection, id)
	}
	return doc.Doc, nil
}

// Scan iterates the whole collection with a cursor.
func (b *MongoBackend) Scan(ctx context.Context, collection string, fn ScanFunc) error {
	cur, err := b.db.Collection(collection).Find(ctx, bson.D{})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "scan collection %s", collection)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var doc mongoDoc
		if err := cur.Decode(&doc); err != nil {
			return errors.Wrap(errors.ErrCodeStorage, err, "decode cursor entry in %s", collection)
		}
		if err := fn(doc.ID, doc.Doc); err != nil {
			return err
		}
	}
	if err := cur.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "scan collection %s", collection)
	}
	return nil
}

// Delete removes a document. Deleting an absent document is a no-op.
func (b *MongoBackend) Delete(ctx context.Context, collection, id string) error {
	_, err := b.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete document %s/%s", collection, id)
	}
	return nil
}

// Close disconnects the client.
func (b *MongoBackend) Close() error {
	return b.client.Disconnect(context.Background())
}

// Ensure MongoBackend implements Backend.
var _ Backend = (*MongoBackend)(nil)
