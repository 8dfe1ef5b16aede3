package domain

import "time"

// Audit actions recorded for mutating operations.
const (
	AuditActionCreate = "create"
	AuditActionUpdate = "update"
	AuditActionDelete = "delete"
)

// AuditEntry records one mutation of a directory entity or user account.
// Entries for the same entity are written in the order the mutations
// happened.
type AuditEntry struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	EntityKind string    `json:"entity_kind" bson:"entity_kind"`
	EntityID   string    `json:"entity_id" bson:"entity_id"`
	Action     string    `json:"action" bson:"action"`
	ActorID    string    `json:"actor_id,omitempty" bson:"actor_id,omitempty"`
	At         time.Time `json:"at" bson:"at"`
}
