package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// EntityRepository is the generic document store for directory entity kinds.
// Documents carry their id as a hex string under _id; timestamps are managed
// here so callers never have to.
type EntityRepository[T any] struct {
	coll     *mongo.Collection
	notFound error
}

// NewEntityRepository returns a repository over the named collection.
// notFound is the kind-specific sentinel returned for malformed or
// unresolvable ids.
func NewEntityRepository[T any](db *mongo.Database, collection string, notFound error) *EntityRepository[T] {
	return &EntityRepository[T]{coll: db.Collection(collection), notFound: notFound}
}

func (r *EntityRepository[T]) FindByID(ctx context.Context, id string) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, r.notFound
	}

	var entity T
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&entity); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, r.notFound
		}
		return nil, fmt.Errorf("find %s: %w", r.coll.Name(), err)
	}
	return &entity, nil
}

func (r *EntityRepository[T]) FindAll(ctx context.Context) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	entities := []T{}
	if err := cursor.All(ctx, &entities); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.coll.Name(), err)
	}
	return entities, nil
}

func (r *EntityRepository[T]) Insert(ctx context.Context, entity *T) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toDoc(entity)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", r.coll.Name(), err)
	}

	id := primitive.NewObjectID().Hex()
	now := time.Now().UTC()
	doc["_id"] = id
	doc["created_at"] = now
	doc["updated_at"] = now

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert %s: %w", r.coll.Name(), err)
	}
	return r.FindByID(ctx, id)
}

func (r *EntityRepository[T]) Update(ctx context.Context, id string, entity *T) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, r.notFound
	}

	doc, err := toDoc(entity)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", r.coll.Name(), err)
	}

	// _id and created_at are immutable once written.
	delete(doc, "_id")
	delete(doc, "created_at")
	doc["updated_at"] = time.Now().UTC()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": doc})
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", r.coll.Name(), err)
	}
	if res.MatchedCount == 0 {
		return nil, r.notFound
	}
	return r.FindByID(ctx, id)
}

func (r *EntityRepository[T]) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.coll.Name(), err)
	}
	if res.DeletedCount == 0 {
		return r.notFound
	}
	return nil
}

// toDoc round-trips an entity through bson so fields can be adjusted as a
// plain document before writing.
func toDoc(v any) (bson.M, error) {
	data, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
