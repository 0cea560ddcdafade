package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"paperapi/internal/model"
	"paperapi/internal/repository"
)

// PaperMongo implements repository.PaperStore on a MongoDB collection
// (including the Cosmos DB Mongo API). Each paper is one document carrying
// its own "id" and "partitionKey" fields; the driver's _id is not used.
type PaperMongo struct {
	coll *mongo.Collection
}

// NewPaperMongo creates a store on the given collection.
func NewPaperMongo(coll *mongo.Collection) *PaperMongo {
	return &PaperMongo{coll: coll}
}

var _ repository.PaperStore = (*PaperMongo)(nil)

// EnsureIndexes creates the unique (partitionKey, id) index and the id lookup index.
func (r *PaperMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "partitionKey", Value: 1}, {Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("partition_id_unique"),
		},
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetName("id_lookup"),
		},
		{
			Keys:    bson.D{{Key: "examType", Value: 1}, {Key: "year", Value: 1}},
			Options: options.Index().SetName("exam_year"),
		},
	})
	if err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}

func (r *PaperMongo) Read(ctx context.Context, id, partitionKey string) (*model.Paper, error) {
	var p model.Paper
	err := r.coll.FindOne(ctx, bson.D{{Key: "id", Value: id}, {Key: "partitionKey", Value: partitionKey}}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PaperMongo) Query(ctx context.Context, f repository.Filter) ([]model.Paper, error) {
	filter := bson.D{}
	if f.ID != "" {
		filter = append(filter, bson.E{Key: "id", Value: f.ID})
	}
	if f.IDContains != "" {
		filter = append(filter, bson.E{Key: "id", Value: bson.D{{Key: "$regex", Value: regexp.QuoteMeta(f.IDContains)}}})
	}
	if f.ExamType != "" {
		filter = append(filter, bson.E{Key: "examType", Value: f.ExamType})
	}
	if f.Year != "" {
		filter = append(filter, bson.E{Key: "year", Value: f.Year})
	}

	opts := options.Find().SetSort(bson.D{{Key: "uploadDate", Value: -1}, {Key: "id", Value: 1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	items := make([]model.Paper, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PaperMongo) Delete(ctx context.Context, id, partitionKey string) error {
	var (
		res *mongo.DeleteResult
		err error
	)
	if partitionKey == repository.AnyPartition {
		res, err = r.coll.DeleteMany(ctx, bson.D{{Key: "id", Value: id}})
	} else {
		res, err = r.coll.DeleteOne(ctx, bson.D{{Key: "id", Value: id}, {Key: "partitionKey", Value: partitionKey}})
	}
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PaperMongo) Create(ctx context.Context, p *model.Paper) (*model.Paper, error) {
	in := *p
	in.Normalize()
	if _, err := r.coll.InsertOne(ctx, &in); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, repository.ErrConflict
		}
		return nil, err
	}
	return &in, nil
}

func (r *PaperMongo) Replace(ctx context.Context, p *model.Paper) (*model.Paper, error) {
	in := *p
	in.Normalize()
	res, err := r.coll.ReplaceOne(ctx, bson.D{{Key: "id", Value: in.ID}, {Key: "partitionKey", Value: in.PartitionKey}}, &in)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, repository.ErrNotFound
	}
	return &in, nil
}

func (r *PaperMongo) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, nil)
}
