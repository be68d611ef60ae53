package inquiries

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tourdesk/db"
	"tourdesk/models"
)

var ErrNotFound = errors.New("inquiry not found")

type Store interface {
	Insert(ctx context.Context, inq *models.Inquiry) error
	// List returns inquiries newest first, optionally filtered on handled.
	List(ctx context.Context, handled *bool) ([]models.Inquiry, error)
	SetHandled(ctx context.Context, id primitive.ObjectID, handled bool) (*models.Inquiry, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (s *MongoStore) Insert(ctx context.Context, inq *models.Inquiry) error {
	if _, err := s.coll.InsertOne(ctx, inq); err != nil {
		return fmt.Errorf("insert inquiry: %w", err)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context, handled *bool) ([]models.Inquiry, error) {
	filter := bson.M{}
	if handled != nil {
		filter["handled"] = *handled
	}
	cursor, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find inquiries: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.Inquiry
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode inquiries: %w", err)
	}
	if out == nil {
		out = []models.Inquiry{}
	}
	return out, nil
}

func (s *MongoStore) SetHandled(ctx context.Context, id primitive.ObjectID, handled bool) (*models.Inquiry, error) {
	update := bson.M{"$set": bson.M{"handled": handled, "updatedAt": now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var inq models.Inquiry
	if err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&inq); err != nil {
		if db.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update inquiry: %w", err)
	}
	return &inq, nil
}

func (s *MongoStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete inquiry: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
