package ports

import (
	"context"

	"github.com/opendirectory/resource-directory/internal/core/domain"
)

// AuditRecorder accepts audit entries for asynchronous persistence.
// Recording must never block a request on store latency.
type AuditRecorder interface {
	Record(entry domain.AuditEntry)
}

// AuditRepository persists audit entries.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditEntry) error
}
