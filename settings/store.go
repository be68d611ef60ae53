package settings

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tourdesk/db"
	"tourdesk/models"
)

var (
	ErrNotFound = errors.New("settings not found")
	ErrExists   = errors.New("settings already exist")
)

// Store holds the single settings document under models.SettingsID.
type Store interface {
	Find(ctx context.Context) (*models.Settings, error)
	// Insert fails with ErrExists when the document is already there.
	Insert(ctx context.Context, s *models.Settings) error
	Upsert(ctx context.Context, s *models.Settings) (*models.Settings, error)
}

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (m *MongoStore) Find(ctx context.Context) (*models.Settings, error) {
	var s models.Settings
	if err := m.coll.FindOne(ctx, bson.M{"_id": models.SettingsID}).Decode(&s); err != nil {
		if db.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find settings: %w", err)
	}
	return &s, nil
}

func (m *MongoStore) Insert(ctx context.Context, s *models.Settings) error {
	s.ID = models.SettingsID
	if _, err := m.coll.InsertOne(ctx, s); err != nil {
		if db.IsDuplicateKey(err) {
			return ErrExists
		}
		return fmt.Errorf("insert settings: %w", err)
	}
	return nil
}

func (m *MongoStore) Upsert(ctx context.Context, s *models.Settings) (*models.Settings, error) {
	update := bson.M{
		"$set": bson.M{
			"companyName":   s.CompanyName,
			"address":       s.Address,
			"phone":         s.Phone,
			"email":         s.Email,
			"socialLinks":   s.SocialLinks,
			"businessHours": s.BusinessHours,
			"mapEmbedUrl":   s.MapEmbedURL,
			"updatedAt":     s.UpdatedAt,
		},
		"$setOnInsert": bson.M{"createdAt": s.UpdatedAt},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var out models.Settings
	if err := m.coll.FindOneAndUpdate(ctx, bson.M{"_id": models.SettingsID}, update, opts).Decode(&out); err != nil {
		return nil, fmt.Errorf("upsert settings: %w", err)
	}
	return &out, nil
}
