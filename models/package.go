package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Package is a sellable tour offering.
type Package struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title      string             `json:"title" bson:"title"`
	Slug       string             `json:"slug,omitempty" bson:"slug,omitempty"` // unique, sparse
	Duration   string             `json:"duration" bson:"duration"`
	Price      string             `json:"price" bson:"price"`
	Overview   string             `json:"overview" bson:"overview"`
	Itinerary  []string           `json:"itinerary" bson:"itinerary"` // one entry per day
	Inclusions []string           `json:"inclusions" bson:"inclusions"`
	Exclusions []string           `json:"exclusions" bson:"exclusions"`
	Visa       string             `json:"visa" bson:"visa"`
	BestTime   string             `json:"bestTime" bson:"bestTime"`
	Images     []string           `json:"images" bson:"images"`
	IsActive   bool               `json:"isActive" bson:"isActive"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}
