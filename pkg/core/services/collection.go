package services

import (
	"context"
	"sync"
	"time"

	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/linkbio/pkg/logger"
	"github.com/wadjakorntonsri/linkbio/pkg/ports"
)

// State of a collection's working set relative to the durable store.
type State int

const (
	StateUnloaded State = iota
	StateLoading
	StateLoaded
	StateError
)

// Collection manages one user's ordered link list: an in-memory working set
// the dashboard reads and writes, kept consistent with the durable store
// under a local-first, reconcile-on-failure policy. The store stays the
// source of truth; on a failed reorder the cache is resynchronized by
// re-fetching rather than by partial rollback.
//
// A Collection belongs to one session. Two sessions editing the same user's
// links race at the store (last write wins); a stale cache is only refreshed
// by that session's next List.
type Collection struct {
	repo    ports.LinkRepository
	clicks  ports.ClickRecorder
	log     logger.Logger
	userID  string
	timeout time.Duration

	mu    sync.Mutex
	links []domain.Link
	state State
}

func NewCollection(repo ports.LinkRepository, clicks ports.ClickRecorder, log logger.Logger, userID string, timeout time.Duration) *Collection {
	return &Collection{
		repo:    repo,
		clicks:  clicks,
		log:     log,
		userID:  userID,
		timeout: timeout,
		state:   StateUnloaded,
	}
}

func (c *Collection) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

// List refreshes the working set from the store and returns it ascending by
// position. On a failed read the previous working set (possibly empty) is
// retained and a fetch error is returned; stale data is never presented as a
// successful refresh.
func (c *Collection) List(ctx context.Context) ([]domain.Link, error) {
	c.mu.Lock()
	c.state = StateLoading
	c.mu.Unlock()

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	rows, err := c.repo.ListByUser(ctx, c.userID)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = StateError
		return nil, domain.FetchErr("listing links", err)
	}
	c.links = rows
	c.state = StateLoaded
	return c.snapshotLocked(), nil
}

// Cached returns the current working set without contacting the store.
func (c *Collection) Cached() []domain.Link {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// State reports where the working set is in its lifecycle.
func (c *Collection) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Collection) snapshotLocked() []domain.Link {
	out := make([]domain.Link, len(c.links))
	copy(out, c.links)
	return out
}

// Add validates the input, inserts the link and appends it to the working
// set. The position is derived inside the store at write time, so the new
// link lands at the end even if another session added links meanwhile.
// Validation failures never reach the store.
func (c *Collection) Add(ctx context.Context, title, rawURL string) (*domain.Link, error) {
	if err := domain.ValidateTitle(title); err != nil {
		return nil, err
	}
	if err := domain.ValidateURL(rawURL); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	link := &domain.Link{
		UserID:    c.userID,
		Title:     title,
		URL:       rawURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := c.repo.Insert(ctx, link); err != nil {
		c.setError()
		return nil, domain.PersistErr("creating link", err)
	}

	c.mu.Lock()
	c.links = append(c.links, *link)
	c.state = StateLoaded
	c.mu.Unlock()
	return link, nil
}

// Update patches title and/or url of one link. Position and clicks are never
// touched. Ownership is enforced at the store via the compound filter.
func (c *Collection) Update(ctx context.Context, linkID string, patch domain.LinkPatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	if patch.Empty() {
		return nil
	}

	now := time.Now().UTC()
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := c.repo.Update(ctx, c.userID, linkID, patch, now); err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return err
		}
		c.setError()
		return domain.PersistErr("updating link", err)
	}

	c.mu.Lock()
	for i := range c.links {
		if c.links[i].ID == linkID {
			if patch.Title != nil {
				c.links[i].Title = *patch.Title
			}
			if patch.URL != nil {
				c.links[i].URL = *patch.URL
			}
			c.links[i].UpdatedAt = now
			break
		}
	}
	c.state = StateLoaded
	c.mu.Unlock()
	return nil
}

// Delete removes one link. The store compacts the surviving positions; the
// working set mirrors the compaction so both sides keep dense 0..n-1 ranks.
func (c *Collection) Delete(ctx context.Context, linkID string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := c.repo.Delete(ctx, c.userID, linkID); err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return err
		}
		c.setError()
		return domain.PersistErr("deleting link", err)
	}

	c.mu.Lock()
	removed := -1
	for i := range c.links {
		if c.links[i].ID == linkID {
			removed = c.links[i].Position
			c.links = append(c.links[:i], c.links[i+1:]...)
			break
		}
	}
	if removed >= 0 {
		for i := range c.links {
			if c.links[i].Position > removed {
				c.links[i].Position--
			}
		}
	}
	c.state = StateLoaded
	c.mu.Unlock()
	return nil
}

// Reorder applies the requested order to the working set immediately, then
// persists one position update per link. If any durable update fails partway
// the cache is resynchronized from the store and a persist error returned;
// no fine-grained rollback is attempted.
func (c *Collection) Reorder(ctx context.Context, orderedIDs []string) error {
	c.mu.Lock()
	if len(orderedIDs) != len(c.links) {
		c.mu.Unlock()
		return domain.Validationf("reorder must include all %d links, got %d ids", len(c.links), len(orderedIDs))
	}
	byID := make(map[string]domain.Link, len(c.links))
	for _, l := range c.links {
		byID[l.ID] = l
	}
	reordered := make([]domain.Link, 0, len(orderedIDs))
	for i, id := range orderedIDs {
		l, ok := byID[id]
		if !ok {
			c.mu.Unlock()
			return domain.NotFoundf("link %s is not in the collection", id)
		}
		delete(byID, id)
		l.Position = i
		reordered = append(reordered, l)
	}

	// Optimistic update: the caller sees the new order before any durable
	// write settles.
	c.links = reordered
	c.mu.Unlock()

	for i, id := range orderedIDs {
		callCtx, cancel := c.withTimeout(ctx)
		err := c.repo.UpdatePosition(callCtx, c.userID, id, i)
		cancel()
		if err != nil {
			c.log.Error("reorder write failed, resynchronizing",
				logger.String("user_id", c.userID),
				logger.String("link_id", id),
				logger.Int("position", i),
				logger.Error(err))
			c.resync(ctx)
			return domain.PersistErr("reordering links", err)
		}
	}

	c.mu.Lock()
	c.state = StateLoaded
	c.mu.Unlock()
	return nil
}

// resync replaces the working set with the store's truth after a partial
// reorder. A failed re-fetch keeps the optimistic cache and the error state;
// the next successful List recovers.
func (c *Collection) resync(ctx context.Context) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	rows, err := c.repo.ListByUser(ctx, c.userID)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = StateError
		return
	}
	c.links = rows
	c.state = StateError
}

// RecordClick increments the link's click counter, fire-and-forget. A lost
// click is tolerated data loss: failures are logged and never surfaced, so
// the visitor's navigation is never blocked by analytics.
func (c *Collection) RecordClick(ctx context.Context, linkID string) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := c.clicks.RecordClick(ctx, linkID); err != nil {
		c.log.Error("click not recorded",
			logger.String("link_id", linkID),
			logger.Error(err))
		return
	}

	c.mu.Lock()
	for i := range c.links {
		if c.links[i].ID == linkID {
			c.links[i].Clicks++
			break
		}
	}
	c.mu.Unlock()
}

func (c *Collection) setError() {
	c.mu.Lock()
	c.state = StateError
	c.mu.Unlock()
}

var _ ports.LinkCollection = (*Collection)(nil)
