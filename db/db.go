package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	PackagesCollection    *mongo.Collection
	InquiriesCollection   *mongo.Collection
	PageContentCollection *mongo.Collection
	SettingsCollection    *mongo.Collection
	AdminsCollection      *mongo.Collection
	Client                *mongo.Client
)

// Connect opens the Mongo client, pings it and binds the collection handles.
func Connect(ctx context.Context, uri, database string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri).SetTimeout(timeout)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("ping mongo: %w", err)
	}

	Client = client
	mdb := client.Database(database)
	PackagesCollection = mdb.Collection("packages")
	InquiriesCollection = mdb.Collection("inquiries")
	PageContentCollection = mdb.Collection("page_content")
	SettingsCollection = mdb.Collection("settings")
	AdminsCollection = mdb.Collection("admins")
	return nil
}

// EnsureIndexes creates the indexes the stores rely on. The sparse unique
// index on packages.slug is the authoritative slug uniqueness guarantee.
func EnsureIndexes(ctx context.Context) error {
	specs := map[*mongo.Collection][]mongo.IndexModel{
		PackagesCollection: {
			{
				Keys:    bson.D{{Key: "slug", Value: 1}},
				Options: options.Index().SetUnique(true).SetSparse(true).SetName("unique_slug"),
			},
			{
				Keys:    bson.D{{Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("created_desc"),
			},
		},
		InquiriesCollection: {
			{
				Keys:    bson.D{{Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("created_desc"),
			},
		},
		PageContentCollection: {
			{
				Keys:    bson.D{{Key: "pageKey", Value: 1}, {Key: "sectionKey", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("unique_page_section"),
			},
		},
		AdminsCollection: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("unique_email"),
			},
		},
	}

	for coll, idxs := range specs {
		if coll == nil {
			return errors.New("ensure indexes: database not connected")
		}
		if _, err := coll.Indexes().CreateMany(ctx, idxs); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll.Name(), err)
		}
	}
	return nil
}

// Ping reports whether the primary is reachable.
func Ping(ctx context.Context) error {
	if Client == nil {
		return errors.New("mongo client not initialised")
	}
	return Client.Ping(ctx, readpref.Primary())
}

func Disconnect(ctx context.Context) error {
	if Client == nil {
		return nil
	}
	return Client.Disconnect(ctx)
}

// IsDuplicateKey reports whether err is a unique index violation (E11000).
func IsDuplicateKey(err error) bool {
	return err != nil && mongo.IsDuplicateKeyError(err)
}

// IsNotFound reports whether err means a FindOne matched nothing.
func IsNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
