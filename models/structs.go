package models

import "time"

// Index is a change notification emitted after a write.
type Index struct {
	EntityType string    `json:"entity_type"`
	Method     string    `json:"method"`
	EntityId   string    `json:"entity_id"`
	Slug       string    `json:"slug,omitempty"`
	At         time.Time `json:"at"`
}
