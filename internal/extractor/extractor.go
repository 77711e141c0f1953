// Package extractor assembles enriched post views for the scheduler and the
// editing/UI surfaces.
//
// The extractor owns the only shared mutable state in the system: a
// memoization cache over per-manager post-info lists. Population is
// single-flight per cache key, so concurrent callers for the same manager
// share one read of the backing store. Entries have no TTL; callers needing
// freshness call ClearCache or restart the process.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"shotarc/internal/post"
	"shotarc/pkg/logx"
)

// ErrManagerNotFound is returned when a referenced posts manager does not
// exist. It is a configuration error, fatal to the calling operation.
var ErrManagerNotFound = errors.New("posts manager not found")

// ErrNotFound is returned by single-entry lookups that yield nothing.
var ErrNotFound = errors.New("post not found")

// PostsManager is one post collection (published, inbox, trash).
type PostsManager interface {
	Name() string

	// ReadAllEntries returns every entry of the collection. Order is not
	// guaranteed; callers sort as needed.
	ReadAllEntries(ctx context.Context) ([]post.Entry, error)

	// GetEntry returns one entry or ErrNotFound.
	GetEntry(ctx context.Context, id string) (post.Entry, error)

	AddEntry(ctx context.Context, e post.Entry) error
	UpdateEntry(ctx context.Context, e post.Entry) error
	RemoveEntry(ctx context.Context, id string) error

	// Usage aggregates map a key (author id, tag, location path, requester
	// id) to the number of entries using it.
	GetAuthorsUsageStats(ctx context.Context) (map[string]int, error)
	GetTagsUsageStats(ctx context.Context) (map[string]int, error)
	GetLocationsUsageStats(ctx context.Context) (map[string]int, error)
	GetRequesterUsageStats(ctx context.Context) (map[string]int, error)
}

// LocationEntry pairs a location path with its display title.
type LocationEntry struct {
	Path  string
	Title string
}

// LocationsReader exposes the known location hierarchy.
type LocationsReader interface {
	ReadAllEntries(ctx context.Context) ([]LocationEntry, error)
}

// User is display metadata for an author or requester.
type User struct {
	Name  string
	Admin bool
}

// UserEntry pairs a user with its identifier.
type UserEntry struct {
	ID   string
	User User
}

// UserTitle returns the user's display title, falling back to the id.
func UserTitle(e UserEntry) string {
	if e.User.Name != "" {
		return e.User.Name
	}
	return e.ID
}

// UsersManager resolves user ids to display metadata. Unknown ids are
// returned with zero metadata rather than dropped, so labels stay aligned
// with the requested set.
type UsersManager interface {
	GetEntries(ctx context.Context, ids []string) ([]UserEntry, error)
}

type Args struct {
	Managers  []PostsManager
	Locations LocationsReader
	Users     UsersManager
	Log       logx.Logger
}

type Extractor struct {
	managers  []PostsManager
	locations LocationsReader
	users     UsersManager
	log       logx.Logger

	flight singleflight.Group
	mu     sync.Mutex
	cache  map[string][]PostInfo

	coll *collate.Collator
}

func New(args Args) *Extractor {
	log := args.Log
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Extractor{
		managers:  args.Managers,
		locations: args.Locations,
		users:     args.Users,
		log:       log,
		cache:     map[string][]PostInfo{},
		coll:      collate.New(language.Und),
	}
}

// FindManager returns the named manager or ErrManagerNotFound.
func (e *Extractor) FindManager(name string) (PostsManager, error) {
	for _, m := range e.managers {
		if m.Name() == name {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrManagerNotFound, name)
}

// GetPost looks an id up across the given managers, returning the entry and
// the manager holding it, or ErrNotFound.
func (e *Extractor) GetPost(ctx context.Context, id string, managerNames ...string) (post.Entry, PostsManager, error) {
	for _, name := range managerNames {
		m, err := e.FindManager(name)
		if err != nil {
			return post.Entry{}, nil, err
		}
		entry, err := m.GetEntry(ctx, id)
		if err == nil {
			return entry, m, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return post.Entry{}, nil, err
		}
	}
	return post.Entry{}, nil, fmt.Errorf("%w: %q", ErrNotFound, id)
}

// ClearCache drops every memoized view.
func (e *Extractor) ClearCache() {
	e.mu.Lock()
	e.cache = map[string][]PostInfo{}
	e.mu.Unlock()
}

// cached memoizes fn under key with single-flight population: the first
// caller runs fn, concurrent callers for the same key wait for that result,
// later callers hit the cache. A failed population caches nothing.
func (e *Extractor) cached(key string, fn func() ([]PostInfo, error)) ([]PostInfo, error) {
	e.mu.Lock()
	if v, ok := e.cache[key]; ok {
		e.mu.Unlock()
		return v, nil
	}
	e.mu.Unlock()

	v, err, _ := e.flight.Do(key, func() (any, error) {
		// Re-check under the flight: a previous winner may have populated
		// the cache between our miss and this call.
		e.mu.Lock()
		if cached, ok := e.cache[key]; ok {
			e.mu.Unlock()
			return cached, nil
		}
		e.mu.Unlock()

		infos, err := fn()
		if err != nil {
			return nil, err
		}
		e.mu.Lock()
		e.cache[key] = infos
		e.mu.Unlock()
		return infos, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]PostInfo), nil
}

// compareLabels orders option labels with locale-aware collation.
func (e *Extractor) compareLabels(a, b string) int {
	return e.coll.CompareString(a, b)
}
