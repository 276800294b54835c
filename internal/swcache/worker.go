package swcache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"assettrack/pkg/logger"
)

// Message types understood by the worker.
const MessageSkipWaiting = "SKIP_WAITING"

// Message is a control message posted to a worker.
type Message struct {
	Type string `json:"type"`
}

// Fetcher retrieves a resource from the network.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Response, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, url string) (*Response, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, url string) (*Response, error) {
	return f(ctx, url)
}

// ErrNoCachedResponse is returned when a strategy has neither a network
// response nor anything cached to fall back to.
var ErrNoCachedResponse = errors.New("no cached response")

// Config holds worker configuration.
type Config struct {
	// Version tags the store names; activation deletes stores under any
	// other tag.
	Version string

	// Policy is the strategy dispatch table.
	Policy Policy

	// PrecacheManifest lists the offline-critical URLs populated at install.
	PrecacheManifest []string

	// OfflineURL is the navigation fallback page; must be in the manifest.
	OfflineURL string

	// RuntimeSize bounds the runtime store.
	RuntimeSize int
}

// Worker serves requests through the configured strategies over one
// versioned pair of stores. It mirrors a service worker's lifecycle:
// install (populate precache), activate (evict stale versions), serve.
type Worker struct {
	cfg      Config
	fetcher  Fetcher
	registry *Registry

	precache Store
	runtime  Store

	// preload optionally supplies a preloaded navigation response.
	preload func(ctx context.Context, url string) *Response

	activated bool
	mu        sync.Mutex
	wg        sync.WaitGroup
}

// NewWorker creates a worker over the shared registry.
func NewWorker(cfg Config, fetcher Fetcher, registry *Registry) (*Worker, error) {
	if cfg.RuntimeSize <= 0 {
		cfg.RuntimeSize = 512
	}

	precache, err := registry.Open(StoreName(precacheName, cfg.Version), func() (Store, error) {
		return newMapStore(), nil
	})
	if err != nil {
		return nil, err
	}
	runtime, err := registry.Open(StoreName(runtimeName, cfg.Version), func() (Store, error) {
		return newLRUStore(cfg.RuntimeSize)
	})
	if err != nil {
		return nil, err
	}

	return &Worker{
		cfg:      cfg,
		fetcher:  fetcher,
		registry: registry,
		precache: precache,
		runtime:  runtime,
	}, nil
}

// WithPreload sets the navigation preload source.
func (w *Worker) WithPreload(preload func(ctx context.Context, url string) *Response) *Worker {
	w.preload = preload
	return w
}

// Install eagerly populates the precache from the manifest. A failed
// manifest entry fails the install, matching install-phase semantics.
func (w *Worker) Install(ctx context.Context) error {
	for _, url := range w.cfg.PrecacheManifest {
		resp, err := w.fetcher.Fetch(ctx, url)
		if err != nil {
			return fmt.Errorf("precache %s: %w", url, err)
		}
		w.precache.Put(url, resp)
	}
	logger.Info(ctx, "cache worker installed",
		"version", w.cfg.Version,
		"precached", w.precache.Len(),
	)
	return nil
}

// Activate deletes every store whose name does not carry this worker's
// version tag. This is the sole eviction mechanism.
func (w *Worker) Activate(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.activated {
		return
	}
	deleted := w.registry.DeleteExcept(
		StoreName(precacheName, w.cfg.Version),
		StoreName(runtimeName, w.cfg.Version),
	)
	w.activated = true
	logger.Info(ctx, "cache worker activated", "version", w.cfg.Version, "deleted_stores", deleted)
}

// Activated reports whether this worker has been activated.
func (w *Worker) Activated() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.activated
}

// HandleMessage processes a control message. SKIP_WAITING force-activates a
// staged worker.
func (w *Worker) HandleMessage(ctx context.Context, msg Message) {
	if msg.Type == MessageSkipWaiting {
		w.Activate(ctx)
	}
}

// Wait blocks until background revalidations finish. Tests only.
func (w *Worker) Wait() {
	w.wg.Wait()
}
