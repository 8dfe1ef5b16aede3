package domain

import "time"

// Address is a physical street address.
type Address struct {
	Street  string `json:"street,omitempty" bson:"street,omitempty"`
	City    string `json:"city,omitempty" bson:"city,omitempty"`
	State   string `json:"state,omitempty" bson:"state,omitempty"`
	ZipCode string `json:"zip_code,omitempty" bson:"zip_code,omitempty"`
}

// Location is a single physical site belonging to a resource.
type Location struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	ResourceID string    `json:"resource" bson:"resource,omitempty"`
	Name       string    `json:"name" bson:"name" validate:"required"`
	Address    Address   `json:"address,omitempty" bson:"address,omitempty"`
	Phone      string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Email      string    `json:"email,omitempty" bson:"email,omitempty"`
	Website    string    `json:"website,omitempty" bson:"website,omitempty"`
	Notes      string    `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}
