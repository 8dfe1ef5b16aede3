package domain

import "time"

// Provider is an external service provider referenced by directory entries.
type Provider struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Name        string    `json:"name" bson:"name" validate:"required"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Website     string    `json:"website,omitempty" bson:"website,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}
