// Package clients materialises the per-browser state: session, notifications,
// backend adapter and open quiz attempts.
package clients

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/eureka-quiz/web/internal/apiclient"
	"github.com/eureka-quiz/web/internal/attempt"
	"github.com/eureka-quiz/web/internal/notify"
	"github.com/eureka-quiz/web/internal/session"
)

// Client is the state of one browser.
type Client struct {
	ID       string
	Session  *session.Store
	Notes    *notify.Queue
	API      *apiclient.Client
	Nav      *Navigator
	Attempts *attempt.Attempts

	// restored guards the one durable read; concurrent first requests wait on it.
	restored sync.Once

	mu       sync.Mutex
	lastSeen time.Time
}

func (c *Client) touch(now time.Time) {
	c.mu.Lock()
	c.lastSeen = now
	c.mu.Unlock()
}

func (c *Client) idleSince() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSeen
}

// Registry holds every client seen by this process.
type Registry struct {
	storage session.Storage
	api     apiclient.Config
	logger  *zap.Logger
	now     func() time.Time

	mu      sync.Mutex
	clients map[string]*Client
}

// NewRegistry creates a registry backed by storage.
func NewRegistry(storage session.Storage, api apiclient.Config, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		storage: storage,
		api:     api,
		logger:  logger,
		now:     time.Now,
		clients: make(map[string]*Client),
	}
}

// Get returns the client for id, creating it on first sight. A new client
// restores its durable session exactly once; every caller returns only after
// that restore has finished.
func (r *Registry) Get(ctx context.Context, id string) *Client {
	r.mu.Lock()
	cl, ok := r.clients[id]
	if !ok {
		cl = r.build(id)
		r.clients[id] = cl
	}
	r.mu.Unlock()

	cl.restored.Do(func() {
		if s := cl.Session.Restore(ctx); s != nil {
			r.logger.Debug("session restored", zap.String("client_id", id), zap.String("role", string(s.Role)))
		}
	})
	cl.touch(r.now())
	return cl
}

func (r *Registry) build(id string) *Client {
	notes := notify.NewQueue()
	store := session.NewStore(id, r.storage, notes, r.logger)
	api := apiclient.New(r.api, store, r.logger.With(zap.String("client_id", id)))
	cl := &Client{
		ID:       id,
		Session:  store,
		Notes:    notes,
		API:      api,
		Nav:      &Navigator{},
		Attempts: attempt.NewAttempts(),
	}
	api.OnUnauthenticated(func() { store.Clear(context.Background()) })
	api.OnUnauthenticated(cl.Nav.ForceEntry)
	return cl
}

// Len returns the number of live clients.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// Sweep forgets clients idle for longer than maxIdle and closes their
// attempts. Durable sessions are kept; a returning browser restores again.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)
	var stale []*Client
	r.mu.Lock()
	for id, cl := range r.clients {
		if cl.idleSince().Before(cutoff) {
			stale = append(stale, cl)
			delete(r.clients, id)
		}
	}
	r.mu.Unlock()
	for _, cl := range stale {
		cl.Attempts.CloseAll()
	}
	return len(stale)
}

// Run sweeps idle clients every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(maxIdle); n > 0 {
				r.logger.Info("swept idle clients", zap.Int("count", n), zap.Int("live", r.Len()))
			}
		}
	}
}
