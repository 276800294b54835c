package swcache

import (
	"fmt"
	"net/http"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Response is a cached HTTP response keyed by request URL.
type Response struct {
	URL    string
	Status int
	Header http.Header
	Body   []byte
}

// Store holds cached responses keyed by URL.
type Store interface {
	Get(key string) (*Response, bool)
	Put(key string, resp *Response)
	Len() int
}

// mapStore backs the precache: written once at install, immutable afterwards
// apart from version-tag eviction of the whole store.
type mapStore struct {
	mu      sync.RWMutex
	entries map[string]*Response
}

func newMapStore() *mapStore {
	return &mapStore{entries: make(map[string]*Response)}
}

func (s *mapStore) Get(key string) (*Response, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.entries[key]
	return r, ok
}

func (s *mapStore) Put(key string, resp *Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = resp
}

func (s *mapStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// lruStore backs the runtime cache. Size-bounded LRU; strategy code decides
// freshness, the store only evicts by recency.
type lruStore struct {
	cache *lru.Cache[string, *Response]
}

func newLRUStore(size int) (*lruStore, error) {
	c, err := lru.New[string, *Response](size)
	if err != nil {
		return nil, err
	}
	return &lruStore{cache: c}, nil
}

func (s *lruStore) Get(key string) (*Response, bool) {
	return s.cache.Get(key)
}

func (s *lruStore) Put(key string, resp *Response) {
	s.cache.Add(key, resp)
}

func (s *lruStore) Len() int {
	return s.cache.Len()
}

// Store name prefixes; the full name carries the version tag.
const (
	precacheName = "precache"
	runtimeName  = "runtime"
)

// StoreName builds the versioned store name.
func StoreName(kind, version string) string {
	return fmt.Sprintf("%s-%s", kind, version)
}

// Registry tracks every named store across versions. Deleting stores whose
// name lacks the active version tag is the sole eviction mechanism.
type Registry struct {
	mu     sync.RWMutex
	stores map[string]Store
}

// NewRegistry creates an empty store registry.
func NewRegistry() *Registry {
	return &Registry{stores: make(map[string]Store)}
}

// Open returns the named store, creating it with the given constructor when
// absent.
func (r *Registry) Open(name string, create func() (Store, error)) (Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.stores[name]; ok {
		return s, nil
	}
	s, err := create()
	if err != nil {
		return nil, err
	}
	r.stores[name] = s
	return s, nil
}

// Names returns all registered store names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.stores))
	for name := range r.stores {
		names = append(names, name)
	}
	return names
}

// DeleteExcept removes every store whose name is not in keep.
func (r *Registry) DeleteExcept(keep ...string) []string {
	keepSet := make(map[string]bool, len(keep))
	for _, name := range keep {
		keepSet[name] = true
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted []string
	for name := range r.stores {
		if !keepSet[name] {
			delete(r.stores, name)
			deleted = append(deleted, name)
		}
	}
	return deleted
}
