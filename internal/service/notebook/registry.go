package notebook

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// liveNotebook is one session's notebook. mu serializes plan, persist and apply
// so a failed write never leaves memory ahead of storage.
type liveNotebook struct {
	mu       sync.Mutex
	nb       *Notebook
	lastSeen time.Time
}

// Registry keeps one live notebook per session and evicts idle ones.
type Registry struct {
	mu          sync.Mutex
	live        map[uuid.UUID]*liveNotebook
	repo        repository
	defaultTags []string
	maxEntries  int
	idle        time.Duration
	now         func() time.Time
	log         *slog.Logger
}

func newRegistry(logger *slog.Logger, repo repository, defaultTags []string, maxEntries int, idle time.Duration) *Registry {
	return &Registry{
		live:        make(map[uuid.UUID]*liveNotebook),
		repo:        repo,
		defaultTags: defaultTags,
		maxEntries:  maxEntries,
		idle:        idle,
		now:         time.Now,
		log:         logger,
	}
}

// acquire returns the live notebook for a session, loading it from the repository on first use.
func (r *Registry) acquire(ctx context.Context, id uuid.UUID) (*liveNotebook, error) {
	r.mu.Lock()
	if ln, ok := r.live[id]; ok {
		ln.lastSeen = r.now()
		r.mu.Unlock()
		return ln, nil
	}
	r.mu.Unlock()

	nb, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if ln, ok := r.live[id]; ok {
		ln.lastSeen = r.now()
		return ln, nil
	}
	ln := &liveNotebook{nb: nb, lastSeen: r.now()}
	r.live[id] = ln
	return ln, nil
}

func (r *Registry) load(ctx context.Context, id uuid.UUID) (*Notebook, error) {
	opts := []Option{WithMaxEntries(r.maxEntries)}
	if r.repo == nil {
		return New(r.defaultTags, opts...), nil
	}

	snap, err := r.repo.LoadNotebook(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load notebook: %w", err)
	}
	return FromSnapshot(snap, r.defaultTags, opts...), nil
}

// Sweep drops notebooks idle for longer than the idle timeout and returns how many it dropped.
// Without a repository the dropped notebooks are gone for good.
func (r *Registry) Sweep() int {
	if r.idle <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idle)

	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, ln := range r.live {
		if ln.lastSeen.Before(cutoff) {
			delete(r.live, id)
			n++
		}
	}
	return n
}

// Len returns the number of live notebooks.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}

// RunSweeper calls Sweep every interval until ctx is cancelled.
func (r *Registry) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.log.Info("evicted idle notebooks", slog.Int("count", n), slog.Int("live", r.Len()))
			}
		}
	}
}
