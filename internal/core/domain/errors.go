package domain

import "go.trai.ch/zerr"

var (
	// ErrManifestParse is returned when manifest text cannot be decoded or
	// contains keys outside the Pipfile schema.
	ErrManifestParse = zerr.New("manifest parse failed")

	// ErrInvalidRequirement is returned when a requirement is malformed.
	ErrInvalidRequirement = zerr.New("invalid requirement")

	// ErrNotExactPin is returned when a development requirement is not
	// pinned to a single exact version.
	ErrNotExactPin = zerr.New("requirement is not an exact pin")

	// ErrDuplicateRequirement is returned when two requirements in the same
	// group share a normalized package name.
	ErrDuplicateRequirement = zerr.New("duplicate requirement")

	// ErrInvalidSource is returned when a package index declaration is malformed.
	ErrInvalidSource = zerr.New("invalid source")

	// ErrInvalidRuntime is returned when the interpreter constraint is malformed.
	ErrInvalidRuntime = zerr.New("invalid runtime constraint")

	// ErrProjectNotFound is returned when the package index has no project
	// under the requested name.
	ErrProjectNotFound = zerr.New("project not found on index")

	// ErrUnsatisfiable is returned when no released version satisfies a
	// requirement's constraint.
	ErrUnsatisfiable = zerr.New("no release satisfies constraint")

	// ErrIndexUnreachable is returned when the package index cannot be queried.
	ErrIndexUnreachable = zerr.New("package index unreachable")

	// ErrRuntimeMismatch is returned when the host interpreter does not
	// satisfy the manifest's runtime constraint.
	ErrRuntimeMismatch = zerr.New("runtime version mismatch")

	// ErrInterpreterNotFound is returned when no Python interpreter can be
	// located on the host.
	ErrInterpreterNotFound = zerr.New("python interpreter not found")

	// ErrVerificationFailed is returned when verification produced blocking findings.
	ErrVerificationFailed = zerr.New("verification failed")

	// ErrNotCanonical is returned by format checks when the manifest file
	// differs from its canonical rendering.
	ErrNotCanonical = zerr.New("manifest is not in canonical form")

	// ErrLockNotFound is returned when no lockfile exists at the given path.
	ErrLockNotFound = zerr.New("lockfile not found")

	// ErrLockStale is returned when the lockfile digest no longer matches
	// the manifest.
	ErrLockStale = zerr.New("lockfile is stale")

	// ErrNotLockable is returned when a requirement without an exact pin
	// would have to be frozen.
	ErrNotLockable = zerr.New("requirement cannot be locked without an exact pin")
)
