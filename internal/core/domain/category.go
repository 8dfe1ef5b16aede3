package domain

import "time"

// Category groups locations by the kind of service they offer.
type Category struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Name        string    `json:"name" bson:"name" validate:"required"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	LocationIDs []string  `json:"locations" bson:"locations"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}
