package domain

import (
	"strings"

	"go.trai.ch/zerr"

	"github.com/pipkin/pipkin/internal/pyver"
)

// GroupName identifies a dependency group in the manifest.
type GroupName string

const (
	// GroupDefault is the production dependency group ([packages]).
	GroupDefault GroupName = "packages"

	// GroupDev is the development dependency group ([dev-packages]).
	GroupDev GroupName = "dev-packages"
)

// Source declares a package index the requirements are resolved against.
type Source struct {
	// Name is the source identifier referenced by requirements (e.g. "pypi").
	Name string

	// URL is the index base URL (e.g. "https://pypi.org/simple").
	URL string

	// VerifySSL controls TLS certificate verification for this index.
	VerifySSL bool
}

// RuntimeConstraint pins the Python interpreter the environment requires.
type RuntimeConstraint struct {
	// PythonVersion is the required major.minor interpreter version
	// (e.g. "3.10"). The host interpreter must match both components.
	PythonVersion string

	// PythonFullVersion optionally requires an exact interpreter version
	// (e.g. "3.10.4").
	PythonFullVersion string
}

// Matches reports whether the given interpreter version satisfies the
// constraint. PythonVersion compares major.minor; PythonFullVersion, when
// set, must match the full version exactly.
func (rc RuntimeConstraint) Matches(actual string) bool {
	if rc.PythonFullVersion != "" {
		full, err := pyver.ParseVersion(rc.PythonFullVersion)
		if err != nil {
			return false
		}
		got, err := pyver.ParseVersion(actual)
		if err != nil {
			return false
		}
		return pyver.Compare(full, got) == 0
	}
	if rc.PythonVersion == "" {
		return true
	}
	return minorSeries(actual) == minorSeries(rc.PythonVersion)
}

func minorSeries(version string) string {
	parts := strings.SplitN(version, ".", 3)
	if len(parts) < 2 {
		return version
	}
	return parts[0] + "." + parts[1]
}

// Manifest is the parsed environment-resolution contract: which packages,
// at which versions, from which index, on which interpreter. Once parsed it
// is read-only; every operation consumes it without mutation.
//
// Requirement groups are kept sorted by normalized name, so two manifests
// declaring the same dependencies compare equal regardless of file order.
type Manifest struct {
	// Sources lists the declared package indexes. The first entry is the
	// default index for requirements that do not name one.
	Sources []Source

	// Packages holds the production group. Kept intentionally empty in
	// manifests that defer production dependencies to package metadata.
	Packages []Requirement

	// DevPackages holds the development group, exhaustively pinned.
	DevPackages []Requirement

	// Requires is the interpreter constraint.
	Requires RuntimeConstraint
}

// Group returns the requirements of the named group.
func (m *Manifest) Group(name GroupName) []Requirement {
	switch name {
	case GroupDefault:
		return m.Packages
	case GroupDev:
		return m.DevPackages
	default:
		return nil
	}
}

// GroupNames returns the manifest's group names in canonical order.
func GroupNames() []GroupName {
	return []GroupName{GroupDefault, GroupDev}
}

// DefaultSource returns the index used for requirements that do not name
// one explicitly.
func (m *Manifest) DefaultSource() (Source, bool) {
	if len(m.Sources) == 0 {
		return Source{}, false
	}
	return m.Sources[0], true
}

// SourceByName returns the declared source with the given name.
func (m *Manifest) SourceByName(name string) (Source, bool) {
	for _, src := range m.Sources {
		if src.Name == name {
			return src, true
		}
	}
	return Source{}, false
}

// SourceFor returns the index a requirement resolves against: its named
// index if set, the default source otherwise.
func (m *Manifest) SourceFor(r Requirement) (Source, bool) {
	if r.Index != "" {
		return m.SourceByName(r.Index)
	}
	return m.DefaultSource()
}

// Validate checks the manifest's structural invariants: at least one
// well-formed source with a unique name, unique normalized package names
// per group, exact pins throughout the development group, and a valid
// interpreter constraint.
func (m *Manifest) Validate() error {
	if len(m.Sources) == 0 {
		return zerr.With(ErrInvalidSource, "reason", "no sources declared")
	}

	seenSources := make(map[string]bool, len(m.Sources))
	for _, src := range m.Sources {
		if strings.TrimSpace(src.Name) == "" {
			return zerr.With(ErrInvalidSource, "reason", "empty source name")
		}
		if strings.TrimSpace(src.URL) == "" {
			return zerr.With(zerr.With(ErrInvalidSource, "source", src.Name),
				"reason", "empty source url")
		}
		if seenSources[src.Name] {
			return zerr.With(zerr.With(ErrInvalidSource, "source", src.Name),
				"reason", "duplicate source name")
		}
		seenSources[src.Name] = true
	}

	for _, group := range GroupNames() {
		seen := make(map[string]string)
		for _, req := range m.Group(group) {
			if err := req.Validate(group); err != nil {
				return zerr.With(err, "group", string(group))
			}
			normalized := req.NormalizedName()
			if first, dup := seen[normalized]; dup {
				err := zerr.With(ErrDuplicateRequirement, "group", string(group))
				err = zerr.With(err, "package", normalized)
				return zerr.With(err, "first_declared_as", first)
			}
			seen[normalized] = req.Name

			if req.Index != "" && !seenSources[req.Index] {
				err := zerr.With(ErrInvalidRequirement, "package", req.Name)
				return zerr.With(err, "reason", "unknown index "+req.Index)
			}
		}
	}

	if m.Requires.PythonVersion == "" && m.Requires.PythonFullVersion == "" {
		return zerr.With(ErrInvalidRuntime, "reason", "no interpreter version declared")
	}
	if v := m.Requires.PythonVersion; v != "" && !pyver.IsValidVersion(v) {
		return zerr.With(ErrInvalidRuntime, "python_version", v)
	}
	if v := m.Requires.PythonFullVersion; v != "" && !pyver.IsValidVersion(v) {
		return zerr.With(ErrInvalidRuntime, "python_full_version", v)
	}

	return nil
}
