package domain

import "go.trai.ch/zerr"

// PipfileSpecRevision is the lockfile schema revision, matching the
// "pipfile-spec" field emitted by pipenv-compatible tooling.
const PipfileSpecRevision = 6

// Lockfile is the frozen snapshot of a verified manifest. It records the
// manifest digest it was generated from, the declared sources and runtime
// constraint, and the exact pinned requirements per group.
type Lockfile struct {
	Meta    LockMeta                     `json:"_meta"`
	Default map[string]LockedRequirement `json:"default"`
	Develop map[string]LockedRequirement `json:"develop"`
}

// LockMeta carries the provenance of the snapshot.
type LockMeta struct {
	Hash        LockHash     `json:"hash"`
	PipfileSpec int          `json:"pipfile-spec"`
	Requires    LockRequires `json:"requires"`
	Sources     []LockSource `json:"sources"`
}

// LockHash holds the digest of the manifest the lockfile was generated from.
type LockHash struct {
	SHA256 string `json:"sha256"`
}

// LockRequires mirrors the manifest's runtime constraint.
type LockRequires struct {
	PythonVersion     string `json:"python_version,omitempty"`
	PythonFullVersion string `json:"python_full_version,omitempty"`
}

// LockSource mirrors a declared package index.
type LockSource struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	VerifySSL bool   `json:"verify_ssl"`
}

// LockedRequirement is a single frozen dependency entry, keyed in the
// lockfile by normalized package name.
type LockedRequirement struct {
	// Version is the exact "==<version>" specifier.
	Version string `json:"version"`

	// Extras are the selected package extras, sorted.
	Extras []string `json:"extras,omitempty"`

	// Index names the source the package resolves against.
	Index string `json:"index,omitempty"`

	// Markers holds the PEP 508 marker expression, if any.
	Markers string `json:"markers,omitempty"`
}

// LockfileFromManifest freezes a manifest into a lockfile. Every requirement
// must carry an exact pin; freezing an unpinned requirement would record a
// version nobody chose.
func LockfileFromManifest(m *Manifest) (*Lockfile, error) {
	lock := &Lockfile{
		Meta: LockMeta{
			Hash:        LockHash{SHA256: ManifestDigest(m)},
			PipfileSpec: PipfileSpecRevision,
			Requires: LockRequires{
				PythonVersion:     m.Requires.PythonVersion,
				PythonFullVersion: m.Requires.PythonFullVersion,
			},
		},
		Default: make(map[string]LockedRequirement, len(m.Packages)),
		Develop: make(map[string]LockedRequirement, len(m.DevPackages)),
	}

	for _, src := range m.Sources {
		lock.Meta.Sources = append(lock.Meta.Sources, LockSource{
			Name:      src.Name,
			URL:       src.URL,
			VerifySSL: src.VerifySSL,
		})
	}

	for _, group := range GroupNames() {
		entries := lock.Default
		if group == GroupDev {
			entries = lock.Develop
		}
		for _, req := range m.Group(group) {
			version, ok := req.PinnedVersion()
			if !ok {
				err := zerr.With(ErrNotLockable, "package", req.Name)
				err = zerr.With(err, "group", string(group))
				return nil, zerr.With(err, "constraint", req.Constraint)
			}
			entries[req.NormalizedName()] = LockedRequirement{
				Version: "==" + version,
				Extras:  CanonicalExtras(req.Extras),
				Index:   req.Index,
				Markers: req.Markers,
			}
		}
	}

	return lock, nil
}

// MatchesManifest reports whether the lockfile was generated from a manifest
// with the same semantic content.
func (l *Lockfile) MatchesManifest(m *Manifest) bool {
	return l.Meta.Hash.SHA256 == ManifestDigest(m)
}
