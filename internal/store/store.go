// Package store implements a file-backed document store. Each named
// collection is persisted as a single JSON array, loaded whole, mutated in
// memory and rewritten atomically. Writes to a collection are serialized by
// a per-collection lock held across the full read-modify-write span.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// DefaultLockWait bounds how long an operation waits for a collection lock
// before failing with ErrBusy.
const DefaultLockWait = 5 * time.Second

// Store is the root handle for a data directory of JSON collections.
type Store struct {
	dir      string
	lockWait time.Duration

	mu    sync.Mutex
	locks map[string]chan struct{}
}

// Option configures a Store.
type Option func(*Store)

// WithLockWait overrides the lock acquisition timeout.
func WithLockWait(d time.Duration) Option {
	return func(s *Store) { s.lockWait = d }
}

// Open creates the data directory if needed and returns a Store over it.
func Open(dir string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data dir %s: %v", ErrUnavailable, dir, err)
	}
	s := &Store{
		dir:      dir,
		lockWait: DefaultLockWait,
		locks:    make(map[string]chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dir returns the data directory backing this store.
func (s *Store) Dir() string { return s.dir }

func (s *Store) lock(name string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.locks[name]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[name] = ch
	}
	return ch
}

// Acquire locks the named collections and returns a release function.
// Names are deduplicated and locked in lexicographic order, so two
// operations crossing the same pair of collections can never deadlock.
// A lock that cannot be taken within the configured wait fails with
// ErrBusy; everything acquired so far is released.
func (s *Store) Acquire(ctx context.Context, names ...string) (func(), error) {
	ordered := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		ordered = append(ordered, n)
	}
	sort.Strings(ordered)

	var held []chan struct{}
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i]
		}
	}

	timer := time.NewTimer(s.lockWait)
	defer timer.Stop()

	for _, name := range ordered {
		ch := s.lock(name)
		select {
		case ch <- struct{}{}:
			held = append(held, ch)
		case <-ctx.Done():
			release()
			return nil, fmt.Errorf("%w: %s: %v", ErrBusy, name, ctx.Err())
		case <-timer.C:
			release()
			return nil, fmt.Errorf("%w: lock wait for %q exceeded %s", ErrBusy, name, s.lockWait)
		}
	}
	return release, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// readLocked decodes the collection file into out. The caller must hold the
// collection lock. An absent file leaves out untouched (empty collection).
func (s *Store) readLocked(name string, out any) error {
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", ErrUnavailable, name, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDecode, name, err)
	}
	return nil
}

// writeLocked persists v as the full collection contents. The write is
// all-or-nothing: the JSON is staged in a temp file in the same directory,
// synced, then renamed over the target, so readers never observe a
// half-written file. The caller must hold the collection lock.
func (s *Store) writeLocked(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrUnavailable, name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+"-*.json.tmp")
	if err != nil {
		return fmt.Errorf("%w: stage %s: %v", ErrUnavailable, name, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: stage %s: %v", ErrUnavailable, name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: sync %s: %v", ErrUnavailable, name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: stage %s: %v", ErrUnavailable, name, err)
	}
	if err := os.Rename(tmpName, s.path(name)); err != nil {
		return fmt.Errorf("%w: replace %s: %v", ErrUnavailable, name, err)
	}
	return nil
}
