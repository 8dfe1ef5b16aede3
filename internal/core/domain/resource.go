package domain

import "time"

// ContactInfo is the master contact for an organization. It is kept on the
// resource document and is not part of the published listing data.
type ContactInfo struct {
	Name   string `json:"name,omitempty" bson:"name,omitempty"`
	Title  string `json:"title,omitempty" bson:"title,omitempty"`
	Email  string `json:"email,omitempty" bson:"email,omitempty"`
	Phone1 string `json:"phone_1,omitempty" bson:"phone_1,omitempty"`
	Phone2 string `json:"phone_2,omitempty" bson:"phone_2,omitempty"`
	Notes  string `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Resource is an organization listed in the directory. Each of its physical
// locations is a separate Location document referenced by id.
type Resource struct {
	ID                      string      `json:"id" bson:"_id,omitempty"`
	Name                    string      `json:"name" bson:"name" validate:"required"`
	OrganizationDescription string      `json:"organization_description,omitempty" bson:"organization_description,omitempty"`
	OrganizationURL         string      `json:"organization_url,omitempty" bson:"organization_url,omitempty"`
	ContactInfo             ContactInfo `json:"contact_info,omitempty" bson:"contact_info,omitempty"`
	LocationIDs             []string    `json:"locations" bson:"locations"`
	CreatedAt               time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt               time.Time   `json:"updated_at" bson:"updated_at"`
}
