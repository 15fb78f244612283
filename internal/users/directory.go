// Package users keeps the board's user directory in memory so task and
// comment author ids can be turned into names without a remote call per
// lookup.
//
// The directory is loaded once, on first need, and then served from memory
// until Invalidate is called. There is no expiry and no background refresh.
package users

import (
	"context"
	"sync"
	"time"

	"github.com/HendryAvila/kanbanflow-mcp/internal/kanbanflow"
	"golang.org/x/sync/singleflight"
)

// Fetcher loads the full user list. *kanbanflow.Client satisfies it.
type Fetcher interface {
	GetUsers(ctx context.Context) ([]kanbanflow.User, error)
}

// Lookup is a read-only id → user view of one directory load.
type Lookup map[string]kanbanflow.User

// Name returns the display name for id, if the user is known.
func (l Lookup) Name(id string) (string, bool) {
	u, ok := l[id]
	if !ok {
		return "", false
	}
	return u.FullName, true
}

// LoadEvent describes one remote directory load.
type LoadEvent struct {
	Users    int
	Duration time.Duration
	Err      error
	// Discarded is set when Invalidate ran while the load was in flight;
	// the result was returned to waiting callers but not kept.
	Discarded bool
}

// Option configures a Directory.
type Option func(*Directory)

// WithLoadHook registers fn to be called after every remote load.
func WithLoadHook(fn func(LoadEvent)) Option {
	return func(d *Directory) { d.onLoad = fn }
}

// Directory is a lazily loaded, process-lifetime user cache.
//
// Concurrent first lookups share one remote fetch. The loaded map is never
// mutated; a refresh swaps in a new one.
type Directory struct {
	fetcher Fetcher
	onLoad  func(LoadEvent)

	mu    sync.RWMutex
	users Lookup
	gen   uint64

	group singleflight.Group
}

// NewDirectory creates an empty Directory backed by fetcher.
func NewDirectory(fetcher Fetcher, opts ...Option) *Directory {
	d := &Directory{fetcher: fetcher}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Lookup returns the loaded directory, fetching it first if needed.
// A failed fetch is not cached: the next call tries again.
func (d *Directory) Lookup(ctx context.Context) (Lookup, error) {
	if users := d.cached(); users != nil {
		return users, nil
	}

	// The flight is shared, so it must not die with whichever caller
	// started it. Each caller still stops waiting on its own ctx.
	loadCtx := context.WithoutCancel(ctx)
	ch := d.group.DoChan(loadKey, func() (interface{}, error) {
		return d.load(loadCtx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Lookup), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Resolve returns the user with id. It reports false when the id is unknown
// or the directory could not be loaded.
func (d *Directory) Resolve(ctx context.Context, id string) (kanbanflow.User, bool) {
	users, err := d.Lookup(ctx)
	if err != nil {
		return kanbanflow.User{}, false
	}
	u, ok := users[id]
	return u, ok
}

// Invalidate drops the loaded directory. The next lookup fetches again.
// A load already in flight still answers its waiting callers but its
// result is not kept.
func (d *Directory) Invalidate() {
	d.mu.Lock()
	d.users = nil
	d.gen++
	d.mu.Unlock()
	d.group.Forget(loadKey)
}

// Loaded reports whether a directory is currently cached.
func (d *Directory) Loaded() bool {
	return d.cached() != nil
}

func (d *Directory) cached() Lookup {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.users
}

const loadKey = "users"

func (d *Directory) load(ctx context.Context) (Lookup, error) {
	d.mu.RLock()
	users, gen := d.users, d.gen
	d.mu.RUnlock()
	// A flight that finished between the caller's cache check and DoChan.
	if users != nil {
		return users, nil
	}

	start := time.Now()
	list, err := d.fetcher.GetUsers(ctx)
	event := LoadEvent{Duration: time.Since(start), Err: err}
	if err != nil {
		d.emit(event)
		return nil, err
	}

	users = make(Lookup, len(list))
	for _, u := range list {
		users[u.ID] = u
	}
	event.Users = len(users)

	d.mu.Lock()
	if d.gen == gen {
		d.users = users
	} else {
		event.Discarded = true
	}
	d.mu.Unlock()

	d.emit(event)
	return users, nil
}

func (d *Directory) emit(e LoadEvent) {
	if d.onLoad != nil {
		d.onLoad(e)
	}
}
