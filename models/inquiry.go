package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TravelDates struct {
	Start *time.Time `json:"start,omitempty" bson:"start,omitempty"`
	End   *time.Time `json:"end,omitempty" bson:"end,omitempty"`
}

// Inquiry is a customer's travel request. Only Handled changes after creation.
type Inquiry struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name           string             `json:"name" bson:"name"`
	Email          string             `json:"email" bson:"email"`
	Phone          string             `json:"phone,omitempty" bson:"phone,omitempty"`
	TravelDates    *TravelDates       `json:"travelDates,omitempty" bson:"travelDates,omitempty"`
	NumberOfPeople int                `json:"numberOfPeople" bson:"numberOfPeople"`
	Message        string             `json:"message" bson:"message"`
	Handled        bool               `json:"handled" bson:"handled"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}
