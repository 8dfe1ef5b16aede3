package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/opendirectory/resource-directory/internal/core/domain"
	"github.com/opendirectory/resource-directory/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher persists audit entries asynchronously through a fixed set of
// workers, sharded by entity id so that entries for the same entity are
// written in the order they were recorded. It implements ports.AuditRecorder.
type Dispatcher struct {
	workers []chan domain.AuditEntry
	repo    ports.AuditRepository
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuditEntry, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEntry, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled;
// entries still buffered at that point are dropped.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues an entry on the worker responsible for its entity id.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Record(entry domain.AuditEntry) {
	d.workers[d.shardIndex(entry.EntityID)] <- entry
}

// shardIndex maps an entity id deterministically to a worker index.
func (d *Dispatcher) shardIndex(entityID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(entityID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEntry) {
	log := d.log.With().Int("worker_id", id).Logger()
	for {
		select {
		case <-ctx.Done():
			return
		case entry := <-ch:
			if err := d.repo.Insert(ctx, &entry); err != nil {
				log.Error().
					Err(err).
					Str("entity_kind", entry.EntityKind).
					Str("entity_id", entry.EntityID).
					Str("action", entry.Action).
					Msg("audit entry not persisted")
			}
		}
	}
}
