package services

import (
	"sync"
	"time"

	"github.com/wadjakorntonsri/linkbio/pkg/logger"
	"github.com/wadjakorntonsri/linkbio/pkg/ports"
)

// Registry hands out one Collection per user to the transport layer, so each
// authenticated session works against a single cached working set instead of
// re-reading the store on every request.
type Registry struct {
	repo    ports.LinkRepository
	clicks  ports.ClickRecorder
	log     logger.Logger
	timeout time.Duration

	mu     sync.Mutex
	byUser map[string]*Collection
}

func NewRegistry(repo ports.LinkRepository, clicks ports.ClickRecorder, log logger.Logger, timeout time.Duration) *Registry {
	return &Registry{
		repo:    repo,
		clicks:  clicks,
		log:     log,
		timeout: timeout,
		byUser:  make(map[string]*Collection),
	}
}

// For returns the user's collection manager, creating it on first use.
func (r *Registry) For(userID string) *Collection {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byUser[userID]
	if !ok {
		c = NewCollection(r.repo, r.clicks, r.log, userID, r.timeout)
		r.byUser[userID] = c
	}
	return c
}
