// Package ports defines the core interfaces for the application.
package ports

import "github.com/pipkin/pipkin/internal/core/domain"

// ManifestCodec decodes manifest text into the domain model and renders the
// model back to canonical manifest text.
//
//go:generate go run go.uber.org/mock/mockgen -source=codec.go -destination=mocks/mock_codec.go -package=mocks
type ManifestCodec interface {
	// Parse decodes manifest text. It fails when the text is not
	// well-formed TOML, contains keys outside the Pipfile schema, or the
	// decoded model violates a structural invariant.
	Parse(data []byte) (*domain.Manifest, error)

	// Load reads and parses the manifest at the given path.
	Load(path string) (*domain.Manifest, error)

	// Render serializes the model to canonical manifest text: stable
	// section order, requirements sorted by normalized name.
	Render(m *domain.Manifest) ([]byte, error)

	// Save renders the model and writes it to the given path.
	Save(path string, m *domain.Manifest) error
}
