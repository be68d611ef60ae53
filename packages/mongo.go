package packages

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tourdesk/db"
	"tourdesk/models"
	"tourdesk/utils"
)

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (s *MongoStore) List(ctx context.Context, f Filter, opts utils.QueryOptions) ([]models.Package, error) {
	filter := bson.M{}
	if f.Active != nil {
		filter["isActive"] = *f.Active
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(opts.Skip()).
		SetLimit(int64(opts.Limit))

	cursor, err := s.coll.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("find packages: %w", err)
	}
	defer cursor.Close(ctx)

	var pkgs []models.Package
	if err := cursor.All(ctx, &pkgs); err != nil {
		return nil, fmt.Errorf("decode packages: %w", err)
	}
	if pkgs == nil {
		pkgs = []models.Package{}
	}
	return pkgs, nil
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.M) (*models.Package, error) {
	var p models.Package
	if err := s.coll.FindOne(ctx, filter).Decode(&p); err != nil {
		if db.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find package: %w", err)
	}
	return &p, nil
}

func (s *MongoStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Package, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoStore) FindBySlug(ctx context.Context, slug string) (*models.Package, error) {
	return s.findOne(ctx, bson.M{"slug": slug})
}

func (s *MongoStore) SlugsWithPrefix(ctx context.Context, prefix string, exclude primitive.ObjectID) ([]string, error) {
	filter := bson.M{
		"slug": bson.M{"$regex": "^" + regexp.QuoteMeta(prefix)},
		"_id":  bson.M{"$ne": exclude},
	}
	cursor, err := s.coll.Find(ctx, filter, options.Find().SetProjection(bson.M{"slug": 1}))
	if err != nil {
		return nil, fmt.Errorf("find slugs: %w", err)
	}
	defer cursor.Close(ctx)

	var slugs []string
	for cursor.Next(ctx) {
		var doc struct {
			Slug string `bson:"slug"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode slug: %w", err)
		}
		slugs = append(slugs, doc.Slug)
	}
	return slugs, cursor.Err()
}

func (s *MongoStore) Insert(ctx context.Context, p *models.Package) error {
	if _, err := s.coll.InsertOne(ctx, p); err != nil {
		if db.IsDuplicateKey(err) {
			return fmt.Errorf("%w: %w", ErrDuplicateSlug, err)
		}
		return fmt.Errorf("insert package: %w", err)
	}
	return nil
}

func (s *MongoStore) Replace(ctx context.Context, p *models.Package) error {
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		if db.IsDuplicateKey(err) {
			return fmt.Errorf("%w: %w", ErrDuplicateSlug, err)
		}
		return fmt.Errorf("replace package: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete package: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
