package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PageContent is one CMS-editable block. (PageKey, SectionKey) is unique.
type PageContent struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	PageKey       string             `json:"pageKey" bson:"pageKey"`
	SectionKey    string             `json:"sectionKey" bson:"sectionKey"`
	Title         string             `json:"title" bson:"title"`
	Subtitle      string             `json:"subtitle" bson:"subtitle"`
	BodyText      string             `json:"bodyText" bson:"bodyText"`
	MediaURL      string             `json:"mediaUrl" bson:"mediaUrl"`
	SchemaVersion int                `json:"-" bson:"schemaVersion"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}
