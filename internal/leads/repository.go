package leads

import (
	"context"
	"sync"

	"github.com/neighborhoodkrew/krew-leads-platform/internal/kv"
	"github.com/neighborhoodkrew/krew-leads-platform/pkg/logging"
)

// Repository defines the interface for lead storage.
type Repository interface {
	Append(ctx context.Context, lead *Lead) error
	List(ctx context.Context) ([]Lead, error)
}

// KVRepository stores the lead collection as one blob in the key-value store.
// The mutex serializes its load-append-save sequence within this process;
// cross-process writers still race last-save-wins.
type KVRepository struct {
	mu   sync.Mutex
	coll *kv.Collection[Lead]
}

// NewKVRepository creates a repository over the leads collection.
func NewKVRepository(store kv.Store) *KVRepository {
	return &KVRepository{coll: kv.NewCollection[Lead](store, kv.KeyLeads)}
}

// Append adds one lead to the end of the collection.
func (r *KVRepository) Append(ctx context.Context, lead *Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.coll.Load(ctx)
	if err != nil {
		return err
	}
	items = append(items, *lead)
	return r.coll.Save(ctx, items)
}

// List returns all leads in insertion order.
func (r *KVRepository) List(ctx context.Context) ([]Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.coll.Load(ctx)
}

// TeeRepository writes to a primary repository and best-effort mirrors
// appends to an archive. Archive failures are logged, never surfaced: the
// key-value collection stays the source of truth for listing and export.
type TeeRepository struct {
	primary Repository
	archive Repository
	logger  *logging.Logger
}

// NewTeeRepository combines a primary repository with an archive.
func NewTeeRepository(primary, archive Repository, logger *logging.Logger) *TeeRepository {
	if logger == nil {
		logger = logging.Default()
	}
	return &TeeRepository{primary: primary, archive: archive, logger: logger}
}

// Append writes to the primary, then mirrors to the archive.
func (r *TeeRepository) Append(ctx context.Context, lead *Lead) error {
	if err := r.primary.Append(ctx, lead); err != nil {
		return err
	}
	if r.archive != nil {
		if err := r.archive.Append(ctx, lead); err != nil {
			r.logger.Error("lead archive append failed", "error", err, "lead_id", lead.ID)
		}
	}
	return nil
}

// List reads from the primary only.
func (r *TeeRepository) List(ctx context.Context) ([]Lead, error) {
	return r.primary.List(ctx)
}
