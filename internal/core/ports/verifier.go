package ports

import (
	"context"

	"github.com/pipkin/pipkin/internal/core/domain"
)

// Verifier checks a manifest's declared pins against their package indexes
// and the host interpreter against the runtime constraint.
//
//go:generate go run go.uber.org/mock/mockgen -source=verifier.go -destination=mocks/mock_verifier.go -package=mocks
type Verifier interface {
	// Verify produces a finding per requirement and a runtime finding.
	// The report is deterministically ordered. A failed check is a finding,
	// not an error; the error return is reserved for an invalid manifest or
	// a canceled context.
	Verify(ctx context.Context, m *domain.Manifest) (*domain.Report, error)
}
