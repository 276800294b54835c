package swcache

import (
	"context"
	"net/http"

	"assettrack/pkg/logger"
)

// Serve handles one request through the dispatch table. The bool result is
// false when the policy bypasses the request entirely.
func (w *Worker) Serve(ctx context.Context, r *http.Request) (*Response, bool, error) {
	strategy := w.cfg.Policy.Classify(r)
	url := r.URL.String()

	switch strategy {
	case Bypass:
		return nil, false, nil
	case Navigation:
		resp, err := w.navigation(ctx, url)
		return resp, true, err
	case CacheFirst:
		resp, err := w.cacheFirst(ctx, url)
		return resp, true, err
	case StaleWhileRevalidate:
		resp, err := w.staleWhileRevalidate(ctx, url)
		return resp, true, err
	default:
		resp, err := w.networkFirst(ctx, url)
		return resp, true, err
	}
}

// navigation tries a preloaded response, then the network, then the offline
// fallback page from the precache.
func (w *Worker) navigation(ctx context.Context, url string) (*Response, error) {
	if w.preload != nil {
		if resp := w.preload(ctx, url); resp != nil {
			return resp, nil
		}
	}

	resp, err := w.fetcher.Fetch(ctx, url)
	if err == nil {
		return resp, nil
	}

	if offline, ok := w.precache.Get(w.cfg.OfflineURL); ok {
		logger.Debug(ctx, "serving offline fallback", "url", url)
		return offline, nil
	}
	return nil, err
}

// cacheFirst serves from the runtime store, fetching and storing a copy only
// on a miss.
func (w *Worker) cacheFirst(ctx context.Context, url string) (*Response, error) {
	if cached, ok := w.runtime.Get(url); ok {
		return cached, nil
	}
	resp, err := w.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	w.runtime.Put(url, resp)
	return resp, nil
}

// staleWhileRevalidate serves the cached copy immediately while refreshing
// it in the background; without a cached copy it waits on the fetch.
func (w *Worker) staleWhileRevalidate(ctx context.Context, url string) (*Response, error) {
	cached, ok := w.runtime.Get(url)
	if !ok {
		resp, err := w.fetcher.Fetch(ctx, url)
		if err != nil {
			return nil, err
		}
		w.runtime.Put(url, resp)
		return resp, nil
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		// Detached from the request context: revalidation outlives the
		// response that triggered it.
		resp, err := w.fetcher.Fetch(context.Background(), url)
		if err != nil {
			logger.Debug(context.Background(), "revalidation failed", "url", url, "error", err)
			return
		}
		w.runtime.Put(url, resp)
	}()

	return cached, nil
}

// networkFirst fetches, storing a fresh copy; on failure it falls back to
// whatever is cached for that exact URL.
func (w *Worker) networkFirst(ctx context.Context, url string) (*Response, error) {
	resp, err := w.fetcher.Fetch(ctx, url)
	if err == nil {
		w.runtime.Put(url, resp)
		return resp, nil
	}
	if cached, ok := w.runtime.Get(url); ok {
		return cached, nil
	}
	return nil, err
}
