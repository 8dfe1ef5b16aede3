package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/opendirectory/resource-directory/internal/api/metrics"
	"github.com/opendirectory/resource-directory/internal/core/domain"
	"github.com/opendirectory/resource-directory/internal/core/ports"
)

// Directory implements CRUD for one directory document kind. Reads are
// public; the router gates mutations behind authentication plus owner role,
// so this service only owns persistence, caching and the audit trail.
type Directory[T domain.Entity] struct {
	kind  string
	repo  ports.EntityRepository[T]
	cache ports.ListingCache
	audit ports.AuditRecorder
	log   zerolog.Logger
}

func NewDirectory[T domain.Entity](kind string, repo ports.EntityRepository[T], cache ports.ListingCache, audit ports.AuditRecorder, log zerolog.Logger) *Directory[T] {
	return &Directory[T]{kind: kind, repo: repo, cache: cache, audit: audit, log: log}
}

// Kind returns the entity kind this service manages.
func (s *Directory[T]) Kind() string {
	return s.kind
}

// List returns every document of the kind, read-through cached.
func (s *Directory[T]) List(ctx context.Context) ([]T, error) {
	if payload, ok := s.cache.GetList(ctx, s.kind); ok {
		var entities []T
		if err := json.Unmarshal(payload, &entities); err == nil {
			metrics.ListingCacheTotal.WithLabelValues("hit").Inc()
			return entities, nil
		}
		// Undecodable cache payload: fall through to the store.
		s.cache.Invalidate(ctx, s.kind)
	}
	metrics.ListingCacheTotal.WithLabelValues("miss").Inc()

	entities, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(entities); err == nil {
		s.cache.SetList(ctx, s.kind, payload)
	} else {
		s.log.Warn().Err(err).Str("kind", s.kind).Msg("listing not cacheable")
	}

	return entities, nil
}

// Get returns one document by id.
func (s *Directory[T]) Get(ctx context.Context, id string) (*T, error) {
	return s.repo.FindByID(ctx, id)
}

// Create inserts a new document and invalidates the cached listing.
func (s *Directory[T]) Create(ctx context.Context, actor *domain.User, entity *T) (*T, error) {
	created, err := s.repo.Insert(ctx, entity)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, s.kind)
	s.recordAudit(actor, (*created).EntityID(), domain.AuditActionCreate)
	return created, nil
}

// Update replaces the document's mutable fields.
func (s *Directory[T]) Update(ctx context.Context, actor *domain.User, id string, entity *T) (*T, error) {
	updated, err := s.repo.Update(ctx, id, entity)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, s.kind)
	s.recordAudit(actor, id, domain.AuditActionUpdate)
	return updated, nil
}

// Delete removes the document.
func (s *Directory[T]) Delete(ctx context.Context, actor *domain.User, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, s.kind)
	s.recordAudit(actor, id, domain.AuditActionDelete)
	return nil
}

func (s *Directory[T]) recordAudit(actor *domain.User, id, action string) {
	actorID := ""
	if actor != nil {
		actorID = actor.ID
	}
	s.audit.Record(domain.AuditEntry{
		EntityKind: s.kind,
		EntityID:   id,
		Action:     action,
		ActorID:    actorID,
		At:         time.Now().UTC(),
	})
}
