package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"tourdesk/db"
	"tourdesk/models"
)

var (
	ErrAdminNotFound = errors.New("admin not found")
	ErrAdminExists   = errors.New("admin already exists")
)

type AdminStore interface {
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	Insert(ctx context.Context, a *models.Admin) error
	TouchLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error
}

type MongoAdminStore struct {
	coll *mongo.Collection
}

func NewMongoAdminStore(coll *mongo.Collection) *MongoAdminStore {
	return &MongoAdminStore{coll: coll}
}

func (s *MongoAdminStore) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var a models.Admin
	if err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&a); err != nil {
		if db.IsNotFound(err) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("find admin: %w", err)
	}
	return &a, nil
}

func (s *MongoAdminStore) Insert(ctx context.Context, a *models.Admin) error {
	if _, err := s.coll.InsertOne(ctx, a); err != nil {
		if db.IsDuplicateKey(err) {
			return ErrAdminExists
		}
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}

func (s *MongoAdminStore) TouchLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"last_login": at}})
	return err
}
