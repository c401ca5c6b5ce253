package watcher

import (
	"io"
	"os"
	"sync"
	"unique"

	"github.com/cespare/xxhash/v2"

	"github.com/pipkin/pipkin/internal/core/ports"
)

// contentTracker remembers the content digest of watched files so rewrites
// that do not change bytes (editor saves, touch, formatting no-ops) never
// surface as events.
type contentTracker struct {
	mu      sync.Mutex
	digests map[unique.Handle[string]]uint64
}

func newContentTracker() *contentTracker {
	return &contentTracker{
		digests: make(map[unique.Handle[string]]uint64),
	}
}

// Prime records the current digest of a path without producing an event.
// A missing file is fine; the first appearance will then read as a create.
func (t *contentTracker) Prime(path string) {
	digest, err := hashFile(path)
	if err != nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.digests[unique.Make(path)] = digest
}

// Refresh re-reads the path and reports the effective change since the last
// observation. The second return is false when nothing effectively changed.
func (t *contentTracker) Refresh(path string) (ports.WatchEvent, bool) {
	handle := unique.Make(path)
	digest, err := hashFile(path)

	t.mu.Lock()
	defer t.mu.Unlock()

	previous, seen := t.digests[handle]

	if err != nil {
		if !seen {
			return ports.WatchEvent{}, false
		}
		delete(t.digests, handle)
		return ports.WatchEvent{Path: path, Operation: ports.OpRemove}, true
	}

	if seen && previous == digest {
		return ports.WatchEvent{}, false
	}

	t.digests[handle] = digest

	op := ports.OpWrite
	if !seen {
		op = ports.OpCreate
	}
	return ports.WatchEvent{Path: path, Operation: op}, true
}

// hashFile computes the XXHash of a file's content.
func hashFile(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is the watched manifest
	if err != nil {
		return 0, err
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, err
	}

	return hasher.Sum64(), nil
}
