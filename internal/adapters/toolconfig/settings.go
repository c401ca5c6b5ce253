// Package toolconfig loads optional pipkin tool settings from pipkin.yaml.
package toolconfig

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Defaults applied when pipkin.yaml is absent or leaves a key unset.
const (
	DefaultRequestTimeout = 30 * time.Second
	DefaultCacheTTL       = time.Hour
	DefaultVerifyJobs     = 8
	DefaultWatchDebounce  = 500 * time.Millisecond
)

// Settings are the tool-level knobs. They never affect what the manifest
// means, only how pipkin talks to indexes and paces its work.
type Settings struct {
	// IndexURL, when set, overrides the URL of the manifest's default source.
	IndexURL string

	// RequestTimeout bounds a single index request.
	RequestTimeout time.Duration

	// CacheTTL bounds how long cached index responses are served.
	CacheTTL time.Duration

	// VerifyJobs caps concurrent index lookups during verification.
	VerifyJobs int

	// WatchDebounce is the quiet window before a file change is acted on.
	WatchDebounce time.Duration
}

// settingsDTO mirrors the pipkin.yaml schema. Durations are strings in
// time.ParseDuration form ("45s", "2h").
type settingsDTO struct {
	IndexURL       string `yaml:"index_url"`
	RequestTimeout string `yaml:"request_timeout"`
	CacheTTL       string `yaml:"cache_ttl"`
	VerifyJobs     int    `yaml:"verify_jobs"`
	WatchDebounce  string `yaml:"watch_debounce"`
}

// DefaultSettings returns the settings used when no pipkin.yaml exists.
func DefaultSettings() *Settings {
	return &Settings{
		RequestTimeout: DefaultRequestTimeout,
		CacheTTL:       DefaultCacheTTL,
		VerifyJobs:     DefaultVerifyJobs,
		WatchDebounce:  DefaultWatchDebounce,
	}
}

// Load reads settings from the given path. A missing file is not an error;
// it yields the defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultSettings(), nil
		}
		return nil, zerr.Wrap(err, "failed to read settings file")
	}

	var dto settingsDTO
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return nil, zerr.Wrap(err, "failed to parse settings file")
	}

	settings := DefaultSettings()
	settings.IndexURL = dto.IndexURL

	if settings.RequestTimeout, err = parseDuration(dto.RequestTimeout, "request_timeout", DefaultRequestTimeout); err != nil {
		return nil, err
	}
	if settings.CacheTTL, err = parseDuration(dto.CacheTTL, "cache_ttl", DefaultCacheTTL); err != nil {
		return nil, err
	}
	if settings.WatchDebounce, err = parseDuration(dto.WatchDebounce, "watch_debounce", DefaultWatchDebounce); err != nil {
		return nil, err
	}

	if dto.VerifyJobs < 0 {
		return nil, zerr.With(zerr.New("verify_jobs must be positive"), "verify_jobs", dto.VerifyJobs)
	}
	if dto.VerifyJobs > 0 {
		settings.VerifyJobs = dto.VerifyJobs
	}

	return settings, nil
}

func parseDuration(raw, key string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "invalid duration in settings"), "key", key)
	}
	if d <= 0 {
		return 0, zerr.With(zerr.New("duration must be positive"), "key", key)
	}
	return d, nil
}
