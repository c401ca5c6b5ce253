package ports

import (
	"context"

	"github.com/pipkin/pipkin/internal/core/domain"
)

// PackageIndex queries a declared package index for project releases.
//
//go:generate go run go.uber.org/mock/mockgen -source=index.go -destination=mocks/mock_index.go -package=mocks
type PackageIndex interface {
	// ProjectVersions returns every released version of the named project
	// on the given index, as raw version strings in index order.
	//
	// It returns domain.ErrProjectNotFound when the index has no project
	// under the (normalized) name, and domain.ErrIndexUnreachable when the
	// index cannot be queried.
	ProjectVersions(ctx context.Context, source domain.Source, name string) ([]string, error)
}
