package pagecontent

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tourdesk/db"
	"tourdesk/models"
)

type Store interface {
	// List returns blocks ordered by page then section. An empty pageKey
	// lists every page.
	List(ctx context.Context, pageKey string) ([]models.PageContent, error)
	// Version reports the stored schemaVersion of a block, if it exists.
	Version(ctx context.Context, pageKey, sectionKey string) (int, bool, error)
	// Upsert writes the block keyed by (pageKey, sectionKey), removing the
	// unset fields, and returns the stored document.
	Upsert(ctx context.Context, block *models.PageContent, unset []string) (*models.PageContent, error)
	// ApplyMigration brings every document below m.Version up to it and
	// returns how many changed.
	ApplyMigration(ctx context.Context, m Migration) (int64, error)
}

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (s *MongoStore) List(ctx context.Context, pageKey string) ([]models.PageContent, error) {
	filter := bson.M{}
	if pageKey != "" {
		filter["pageKey"] = pageKey
	}
	opts := options.Find().SetSort(bson.D{{Key: "pageKey", Value: 1}, {Key: "sectionKey", Value: 1}})

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find page content: %w", err)
	}
	defer cursor.Close(ctx)

	var blocks []models.PageContent
	if err := cursor.All(ctx, &blocks); err != nil {
		return nil, fmt.Errorf("decode page content: %w", err)
	}
	if blocks == nil {
		blocks = []models.PageContent{}
	}
	return blocks, nil
}

func (s *MongoStore) Version(ctx context.Context, pageKey, sectionKey string) (int, bool, error) {
	var doc struct {
		SchemaVersion int `bson:"schemaVersion"`
	}
	opts := options.FindOne().SetProjection(bson.M{"schemaVersion": 1})
	err := s.coll.FindOne(ctx, bson.M{"pageKey": pageKey, "sectionKey": sectionKey}, opts).Decode(&doc)
	if db.IsNotFound(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read schema version: %w", err)
	}
	return doc.SchemaVersion, true, nil
}

func (s *MongoStore) Upsert(ctx context.Context, block *models.PageContent, unset []string) (*models.PageContent, error) {
	filter := bson.M{"pageKey": block.PageKey, "sectionKey": block.SectionKey}
	update := bson.M{
		"$set": bson.M{
			"title":         block.Title,
			"subtitle":      block.Subtitle,
			"bodyText":      block.BodyText,
			"mediaUrl":      block.MediaURL,
			"schemaVersion": CurrentSchemaVersion,
			"updatedAt":     block.UpdatedAt,
		},
		"$setOnInsert": bson.M{"createdAt": block.UpdatedAt},
	}
	if len(unset) > 0 {
		fields := bson.M{}
		for _, f := range unset {
			fields[f] = ""
		}
		update["$unset"] = fields
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var out models.PageContent
	err := s.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&out)
	if db.IsDuplicateKey(err) {
		// two concurrent upserts both tried to insert; the loser now updates
		err = s.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&out)
	}
	if err != nil {
		return nil, fmt.Errorf("upsert page content: %w", err)
	}
	return &out, nil
}

func (s *MongoStore) ApplyMigration(ctx context.Context, m Migration) (int64, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"schemaVersion": bson.M{"$exists": false}},
		bson.M{"schemaVersion": bson.M{"$lt": m.Version}},
	}}
	update := bson.M{"$set": bson.M{"schemaVersion": m.Version}}
	if len(m.Unset) > 0 {
		fields := bson.M{}
		for _, f := range m.Unset {
			fields[f] = ""
		}
		update["$unset"] = fields
	}

	res, err := s.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
