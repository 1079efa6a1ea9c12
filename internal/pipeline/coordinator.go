package pipeline

import (
	"context"

	"github.com/google/uuid"

	"dealdesk/internal/models"
)

// DealStore is the network boundary the coordinator commits through. The
// HTTP implementation lives in internal/dealstore; tests plug in fakes.
type DealStore interface {
	ListByPipeline(ctx context.Context, f Filter) (models.PipelineBoard, error)
	ChangeStage(ctx context.Context, dealID int64, req models.ChangeStageRequest) (*models.Deal, error)
	UpdateDeal(ctx context.Context, dealID int64, patch models.DealPatch) (*models.Deal, error)
}

// NotifyFunc surfaces a user-facing notice ("error", "info").
type NotifyFunc func(level, msg string)

// Coordinator owns all writes to the read model. Each mutation runs the
// snapshot / patch / commit-or-restore template: the local patch lands
// immediately, the store call follows, and a failed call restores the exact
// pre-patch snapshot.
type Coordinator struct {
	store  DealStore
	cache  *ReadModel
	notify NotifyFunc
}

func NewCoordinator(store DealStore, cache *ReadModel, notify NotifyFunc) *Coordinator {
	if notify == nil {
		notify = func(string, string) {}
	}
	return &Coordinator{store: store, cache: cache, notify: notify}
}

// Cache exposes the read model handle for display components.
func (c *Coordinator) Cache() *ReadModel {
	return c.cache
}

// Board reads through the cache: a hit within the TTL is served locally,
// a miss refetches from the store. A fetch that raced a newer optimistic
// patch is dropped by the version check in Store; the patched view wins
// until the next refetch.
func (c *Coordinator) Board(ctx context.Context, f Filter) (models.PipelineBoard, error) {
	if b, ok := c.cache.Board(f); ok {
		return b, nil
	}
	version := c.cache.Version(f)
	b, err := c.store.ListByPipeline(ctx, f)
	if err != nil {
		return models.PipelineBoard{}, err
	}
	c.cache.Store(f, b, version)
	return b, nil
}

// ChangeStage commits a confirmed stage move. The request carries a fresh
// request id, issued exactly once per gesture; retries are the caller's
// decision and the server dedupes on the id.
func (c *Coordinator) ChangeStage(ctx context.Context, dealID int64, target, lostReason string) error {
	req := models.ChangeStageRequest{
		NewStage:   target,
		LostReason: lostReason,
		RequestID:  uuid.NewString(),
	}
	return c.mutate(ctx,
		func(m *ReadModel) { m.MoveDeal(dealID, target) },
		func(ctx context.Context) error {
			_, err := c.store.ChangeStage(ctx, dealID, req)
			return err
		},
		"could not move the deal; the pipeline was restored",
	)
}

// SaveDeal persists a partial edit, typically the derived mortgage triple
// recomputed by ApplyEdit, and leaves the caches to reconcile on refetch.
func (c *Coordinator) SaveDeal(ctx context.Context, dealID int64, patch models.DealPatch) (*models.Deal, error) {
	deal, err := c.store.UpdateDeal(ctx, dealID, patch)
	if err != nil {
		c.notify("error", "could not save the deal")
		return nil, err
	}
	c.cache.InvalidateBoards()
	c.cache.InvalidateDependents()
	return deal, nil
}

// mutate is the reusable optimistic-update template.
func (c *Coordinator) mutate(ctx context.Context, patch func(*ReadModel), commit func(context.Context) error, failureNotice string) error {
	snap := c.cache.Snapshot()
	patch(c.cache)
	if err := commit(ctx); err != nil {
		c.cache.Restore(snap)
		c.notify("error", failureNotice)
		return err
	}
	c.cache.InvalidateBoards()
	c.cache.InvalidateDependents()
	return nil
}
