package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"text/template"

	"github.com/gin-gonic/gin"

	"assettrack/internal/swcache"
)

// PWAHandler serves the installable-app surface: the service worker script,
// the web manifest and the offline fallback page. The worker script is
// rendered once at startup from the cache policy, so the browser-side
// dispatch table always matches the server's.
type PWAHandler struct {
	workerJS []byte
	manifest []byte
}

// PWAConfig parameterizes the generated worker script.
type PWAConfig struct {
	Version  string
	Policy   swcache.Policy
	Precache []string
	// OfflineURL is the navigation fallback, must be in Precache.
	OfflineURL string
}

// NewPWAHandler renders the worker script and manifest.
func NewPWAHandler(cfg PWAConfig) (*PWAHandler, error) {
	js, err := renderWorker(cfg)
	if err != nil {
		return nil, fmt.Errorf("render service worker: %w", err)
	}

	manifest, err := json.Marshal(map[string]any{
		"name":             "Asset Tracker",
		"short_name":       "Assets",
		"start_url":        "/asset-entry",
		"display":          "standalone",
		"background_color": "#ffffff",
		"theme_color":      "#1a73e8",
	})
	if err != nil {
		return nil, err
	}

	return &PWAHandler{workerJS: js, manifest: manifest}, nil
}

// ServiceWorker handles GET /sw.js.
// Served with no-cache so a new deploy is picked up on next navigation, and
// with a root scope so the worker can control every page.
func (h *PWAHandler) ServiceWorker(c *gin.Context) {
	c.Header("Service-Worker-Allowed", "/")
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "application/javascript; charset=utf-8", h.workerJS)
}

// Manifest handles GET /manifest.webmanifest.
func (h *PWAHandler) Manifest(c *gin.Context) {
	c.Data(http.StatusOK, "application/manifest+json", h.manifest)
}

// Offline handles GET /offline, the navigation fallback page.
func (h *PWAHandler) Offline(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(offlineHTML))
}

const offlineHTML = `<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>Offline</title></head>
<body>
<h1>You are offline</h1>
<p>The asset tracker needs a network connection for this page. Entries you
already opened keep working from cache.</p>
</body>
</html>
`

func renderWorker(cfg PWAConfig) ([]byte, error) {
	jsList := func(items []string) (string, error) {
		b, err := json.Marshal(items)
		return string(b), err
	}

	precache, err := jsList(cfg.Precache)
	if err != nil {
		return nil, err
	}
	images, err := jsList(swcache.ImageExtensions())
	if err != nil {
		return nil, err
	}
	assets, err := jsList(swcache.AssetExtensions())
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New("sw").Parse(workerTemplate)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, map[string]string{
		"Version":     cfg.Version,
		"BackendHost": cfg.Policy.BackendHost,
		"APIPrefix":   cfg.Policy.APIPrefix,
		"Precache":    precache,
		"Images":      images,
		"Assets":      assets,
		"OfflineURL":  cfg.OfflineURL,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// workerTemplate is the browser-side mirror of the swcache dispatch table.
const workerTemplate = `'use strict';

const VERSION = '{{.Version}}';
const PRECACHE = 'precache-' + VERSION;
const RUNTIME = 'runtime-' + VERSION;
const BACKEND_HOST = '{{.BackendHost}}';
const API_PREFIX = '{{.APIPrefix}}';
const PRECACHE_URLS = {{.Precache}};
const IMAGE_EXT = {{.Images}};
const ASSET_EXT = {{.Assets}};
const OFFLINE_URL = '{{.OfflineURL}}';

self.addEventListener('install', (event) => {
  event.waitUntil(
    caches.open(PRECACHE).then((cache) => cache.addAll(PRECACHE_URLS))
  );
});

self.addEventListener('activate', (event) => {
  event.waitUntil((async () => {
    if (self.registration.navigationPreload) {
      await self.registration.navigationPreload.enable();
    }
    const names = await caches.keys();
    await Promise.all(
      names
        .filter((n) => n !== PRECACHE && n !== RUNTIME)
        .map((n) => caches.delete(n))
    );
    await self.clients.claim();
  })());
});

self.addEventListener('message', (event) => {
  if (event.data && event.data.type === 'SKIP_WAITING') {
    self.skipWaiting();
  }
});

function hasSuffix(path, suffixes) {
  return suffixes.some((s) => path.endsWith(s));
}

self.addEventListener('fetch', (event) => {
  const request = event.request;
  if (request.method !== 'GET') return;

  const url = new URL(request.url);
  if (BACKEND_HOST && url.host === BACKEND_HOST) return;
  if (API_PREFIX && url.pathname.startsWith(API_PREFIX)) return;

  if (request.mode === 'navigate') {
    event.respondWith(navigation(event));
    return;
  }
  if (hasSuffix(url.pathname, IMAGE_EXT)) {
    event.respondWith(cacheFirst(request));
    return;
  }
  if (hasSuffix(url.pathname, ASSET_EXT)) {
    event.respondWith(staleWhileRevalidate(request));
    return;
  }
  event.respondWith(networkFirst(request));
});

async function navigation(event) {
  try {
    const preload = await event.preloadResponse;
    if (preload) return preload;
    return await fetch(event.request);
  } catch (err) {
    const cache = await caches.open(PRECACHE);
    const offline = await cache.match(OFFLINE_URL);
    if (offline) return offline;
    throw err;
  }
}

async function cacheFirst(request) {
  const cache = await caches.open(RUNTIME);
  const cached = await cache.match(request);
  if (cached) return cached;
  const response = await fetch(request);
  if (response.ok) cache.put(request, response.clone());
  return response;
}

async function staleWhileRevalidate(request) {
  const cache = await caches.open(RUNTIME);
  const cached = await cache.match(request);
  const refresh = fetch(request).then((response) => {
    if (response.ok) cache.put(request, response.clone());
    return response;
  });
  return cached || refresh;
}

async function networkFirst(request) {
  const cache = await caches.open(RUNTIME);
  try {
    const response = await fetch(request);
    if (response.ok) cache.put(request, response.clone());
    return response;
  } catch (err) {
    const cached = await cache.match(request);
    if (cached) return cached;
    throw err;
  }
}
`
