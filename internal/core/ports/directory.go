package ports

import (
	"context"

	"github.com/opendirectory/resource-directory/internal/core/domain"
)

// EntityRepository is the generic persistence interface shared by all
// directory document kinds. FindByID treats a malformed id the same as a
// missing document: the kind's not-found error.
type EntityRepository[T any] interface {
	FindByID(ctx context.Context, id string) (*T, error)
	FindAll(ctx context.Context) ([]T, error)
	Insert(ctx context.Context, entity *T) (*T, error)
	Update(ctx context.Context, id string, entity *T) (*T, error)
	Delete(ctx context.Context, id string) error
}

// DirectoryService is the CRUD surface for one directory document kind.
// Reads are public; mutations take the acting user for the audit trail.
// Role enforcement happens in the middleware chain before the handler runs.
type DirectoryService[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, actor *domain.User, entity *T) (*T, error)
	Update(ctx context.Context, actor *domain.User, id string, entity *T) (*T, error)
	Delete(ctx context.Context, actor *domain.User, id string) error
}

// ListingCache caches serialized public listings. Implementations must treat
// cache failures as misses; a broken cache never fails a request.
type ListingCache interface {
	GetList(ctx context.Context, kind string) ([]byte, bool)
	SetList(ctx context.Context, kind string, payload []byte)
	Invalidate(ctx context.Context, kind string)
}
