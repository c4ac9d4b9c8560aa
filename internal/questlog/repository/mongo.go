package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/questlog/questlog/internal/questlog"
	"github.com/questlog/questlog/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo stores one collection of quest log documents in MongoDB.
// Documents are addressed by their "id" field, not by _id.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(ctx context.Context, col *mongo.Collection) (*MongoRepo, error) {
	idxModel := mongo.IndexModel{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)}
	if _, err := col.Indexes().CreateOne(ctx, idxModel); err != nil {
		return nil, fmt.Errorf("%w: ensure index on %s: %w", questlog.ErrStorage, col.Name(), err)
	}
	return &MongoRepo{col: col}, nil
}

// List decodes every document; ones that fail to decode are logged and skipped.
func (m *MongoRepo) List(ctx context.Context) ([]*questlog.QuestLog, error) {
	cur, err := m.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %w", questlog.ErrStorage, m.col.Name(), err)
	}
	defer cur.Close(ctx)
	out := []*questlog.QuestLog{}
	for cur.Next(ctx) {
		var d questlog.QuestLog
		if err := cur.Decode(&d); err != nil {
			logger.Warnf("skipping document in %s: %v", m.col.Name(), err)
			continue
		}
		out = append(out, &d)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%w: list %s: %w", questlog.ErrStorage, m.col.Name(), err)
	}
	return out, nil
}

func (m *MongoRepo) Get(ctx context.Context, id string) (*questlog.QuestLog, error) {
	var d questlog.QuestLog
	if err := m.col.FindOne(ctx, bson.M{"id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%q: %w", id, questlog.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: get %q: %w", questlog.ErrStorage, id, err)
	}
	return &d, nil
}

// Put replaces the whole document, inserting it when absent.
func (m *MongoRepo) Put(ctx context.Context, doc *questlog.QuestLog) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := m.col.ReplaceOne(ctx, bson.M{"id": doc.ID}, doc, opts); err != nil {
		return fmt.Errorf("%w: put %q: %w", questlog.ErrStorage, doc.ID, err)
	}
	return nil
}

func (m *MongoRepo) Delete(ctx context.Context, id string) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("%w: delete %q: %w", questlog.ErrStorage, id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%q: %w", id, questlog.ErrNotFound)
	}
	return nil
}

func (m *MongoRepo) Count(ctx context.Context) (int, error) {
	n, err := m.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("%w: count %s: %w", questlog.ErrStorage, m.col.Name(), err)
	}
	return int(n), nil
}
