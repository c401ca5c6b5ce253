package domain

import "path/filepath"

const (
	// ManifestFileName is the name of the environment manifest.
	ManifestFileName = "Pipfile"

	// LockFileName is the name of the frozen snapshot.
	LockFileName = "Pipfile.lock"

	// SettingsFileName is the name of the optional tool settings file.
	SettingsFileName = "pipkin.yaml"

	// PipkinDirName is the name of the internal metadata directory.
	PipkinDirName = ".pipkin"

	// CacheDirName is the name of the cache directory.
	CacheDirName = "cache"

	// IndexCacheDirName is the name of the package index response cache.
	IndexCacheDirName = "index"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultManifestPath returns the default manifest location.
func DefaultManifestPath() string {
	return ManifestFileName
}

// DefaultLockPath returns the lockfile location next to the given manifest.
func DefaultLockPath(manifestPath string) string {
	return filepath.Join(filepath.Dir(manifestPath), LockFileName)
}

// DefaultSettingsPath returns the settings file location next to the given
// manifest.
func DefaultSettingsPath(manifestPath string) string {
	return filepath.Join(filepath.Dir(manifestPath), SettingsFileName)
}

// DefaultIndexCachePath returns the default path for cached index responses.
// It joins .pipkin, cache, and index.
func DefaultIndexCachePath() string {
	return filepath.Join(PipkinDirName, CacheDirName, IndexCacheDirName)
}
