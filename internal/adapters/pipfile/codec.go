// Package pipfile implements the manifest codec for the Pipfile TOML format.
package pipfile

import (
	"errors"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"go.trai.ch/zerr"

	"github.com/pipkin/pipkin/internal/core/domain"
	"github.com/pipkin/pipkin/internal/core/ports"
)

// Codec implements ports.ManifestCodec for Pipfile manifests.
type Codec struct{}

var _ ports.ManifestCodec = (*Codec)(nil)

// New creates a new Codec.
func New() *Codec {
	return &Codec{}
}

// manifestDTO mirrors the Pipfile TOML schema. Requirement values stay
// toml.Primitive because both `name = "==v"` strings and
// `name = {version = "==v", extras = [...]}` inline tables are valid.
type manifestDTO struct {
	Source      []sourceDTO               `toml:"source"`
	Packages    map[string]toml.Primitive `toml:"packages"`
	DevPackages map[string]toml.Primitive `toml:"dev-packages"`
	Requires    requiresDTO               `toml:"requires"`
}

type sourceDTO struct {
	URL       string `toml:"url"`
	VerifySSL *bool  `toml:"verify_ssl"`
	Name      string `toml:"name"`
}

type requiresDTO struct {
	PythonVersion     string `toml:"python_version"`
	PythonFullVersion string `toml:"python_full_version"`
}

type requirementDTO struct {
	Version string   `toml:"version"`
	Extras  []string `toml:"extras"`
	Index   string   `toml:"index"`
	Markers string   `toml:"markers"`
}

// Load reads and parses the manifest at the given path.
func (c *Codec) Load(path string) (*domain.Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read manifest file")
	}
	return c.Parse(data)
}

// Parse decodes manifest text into the domain model. Unknown keys, values
// of the wrong shape, and structural invariant violations all fail with a
// domain.ErrManifestParse chain.
func (c *Codec) Parse(data []byte) (*domain.Manifest, error) {
	var dto manifestDTO
	md, err := toml.Decode(string(data), &dto)
	if err != nil {
		return nil, errors.Join(domain.ErrManifestParse, err)
	}

	m := &domain.Manifest{
		Requires: domain.RuntimeConstraint{
			PythonVersion:     dto.Requires.PythonVersion,
			PythonFullVersion: dto.Requires.PythonFullVersion,
		},
	}

	for _, src := range dto.Source {
		// Absent verify_ssl means verification stays on, the safe default.
		verify := true
		if src.VerifySSL != nil {
			verify = *src.VerifySSL
		}
		m.Sources = append(m.Sources, domain.Source{
			Name:      src.Name,
			URL:       src.URL,
			VerifySSL: verify,
		})
	}

	if m.Packages, err = decodeGroup(md, dto.Packages); err != nil {
		return nil, zerr.With(err, "group", string(domain.GroupDefault))
	}
	if m.DevPackages, err = decodeGroup(md, dto.DevPackages); err != nil {
		return nil, zerr.With(err, "group", string(domain.GroupDev))
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return nil, zerr.With(domain.ErrManifestParse, "unknown_keys", strings.Join(keys, ", "))
	}

	if err := m.Validate(); err != nil {
		return nil, errors.Join(domain.ErrManifestParse, err)
	}

	return m, nil
}

// decodeGroup converts raw requirement values into the domain model,
// returning the group sorted by normalized name.
func decodeGroup(md toml.MetaData, raw map[string]toml.Primitive) ([]domain.Requirement, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	reqs := make([]domain.Requirement, 0, len(raw))
	for name, prim := range raw {
		req, err := decodeRequirement(md, name, prim)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}

	domain.SortRequirements(reqs)
	return reqs, nil
}

func decodeRequirement(md toml.MetaData, name string, prim toml.Primitive) (domain.Requirement, error) {
	// The short form: name = "==1.43.0".
	var constraint string
	if err := md.PrimitiveDecode(prim, &constraint); err == nil {
		return domain.Requirement{
			Name:       name,
			Constraint: strings.TrimSpace(constraint),
		}, nil
	}

	// The detailed form: name = {version = "==1.34.0", extras = ["all"]}.
	var dto requirementDTO
	if err := md.PrimitiveDecode(prim, &dto); err != nil {
		joined := zerr.Wrap(errors.Join(domain.ErrManifestParse, err),
			"requirement value must be a version string or an inline table")
		return domain.Requirement{}, zerr.With(joined, "package", name)
	}

	return domain.Requirement{
		Name:       name,
		Constraint: strings.TrimSpace(dto.Version),
		Extras:     domain.CanonicalExtras(dto.Extras),
		Index:      dto.Index,
		Markers:    dto.Markers,
	}, nil
}

// Save renders the manifest and writes it to the given path.
func (c *Codec) Save(path string, m *domain.Manifest) error {
	data, err := c.Render(m)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil { //nolint:gosec // path is provided by user
		return zerr.Wrap(err, "failed to write manifest file")
	}
	return nil
}
