package ports

import "github.com/pipkin/pipkin/internal/core/domain"

// LockStore reads and writes frozen lockfile snapshots.
//
//go:generate go run go.uber.org/mock/mockgen -source=lockstore.go -destination=mocks/mock_lockstore.go -package=mocks
type LockStore interface {
	// Read loads the lockfile at the given path.
	// Returns domain.ErrLockNotFound when no lockfile exists there.
	Read(path string) (*domain.Lockfile, error)

	// Write persists the lockfile to the given path atomically.
	Write(path string, lock *domain.Lockfile) error
}
