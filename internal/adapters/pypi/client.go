// Package pypi implements the PackageIndex port against the PEP 691 JSON
// Simple API, with a local response cache.
package pypi

import (
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/zerr"

	"github.com/pipkin/pipkin/internal/core/domain"
	"github.com/pipkin/pipkin/internal/core/ports"
)

const (
	// simpleV1JSON is the PEP 691 content type for the JSON Simple API.
	simpleV1JSON = "application/vnd.pypi.simple.v1+json"

	httpClientTimeout = 30 * time.Second

	// defaultCacheTTL bounds how long a cached project response is served
	// before the index is asked again.
	defaultCacheTTL = time.Hour
)

// Client implements ports.PackageIndex using the JSON Simple API with local
// caching of project responses.
type Client struct {
	cacheDir string
	cacheTTL time.Duration

	httpClient *http.Client
	// insecureClient serves sources declared with verify_ssl = false.
	insecureClient *http.Client
}

var _ ports.PackageIndex = (*Client)(nil)

// NewClient creates a PackageIndex backed by the default cache location.
func NewClient() (*Client, error) {
	return NewClientWithConfig(domain.DefaultIndexCachePath(), httpClientTimeout, defaultCacheTTL)
}

// NewClientWithConfig creates a Client with a custom cache directory,
// request timeout, and cache lifetime.
func NewClientWithConfig(path string, timeout, ttl time.Duration) (*Client, error) {
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(cleanPath, domain.DirPerm); err != nil {
		return nil, zerr.Wrap(err, "failed to create index cache directory")
	}

	insecureTransport := http.DefaultTransport.(*http.Transport).Clone()
	insecureTransport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // verify_ssl = false is an explicit manifest opt-out

	return &Client{
		cacheDir: cleanPath,
		cacheTTL: ttl,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		insecureClient: &http.Client{
			Timeout:   timeout,
			Transport: insecureTransport,
		},
	}, nil
}

// NewClientWithHTTP creates a Client with a custom http client and cache
// directory (used for testing).
func NewClientWithHTTP(path string, client *http.Client) (*Client, error) {
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(cleanPath, domain.DirPerm); err != nil {
		return nil, zerr.Wrap(err, "failed to create index cache directory")
	}

	return &Client{
		cacheDir:       cleanPath,
		cacheTTL:       defaultCacheTTL,
		httpClient:     client,
		insecureClient: client,
	}, nil
}

// projectResponse is the PEP 691 project page, narrowed to the PEP 700
// versions list pipkin consumes.
type projectResponse struct {
	Name     string   `json:"name"`
	Versions []string `json:"versions"`
}

// cacheEntry is the on-disk form of a cached project response.
type cacheEntry struct {
	Project   string    `json:"project"`
	Index     string    `json:"index"`
	Versions  []string  `json:"versions"`
	FetchedAt time.Time `json:"fetched_at"`
}

// ProjectVersions returns every release version the index knows for the
// project. The cache is consulted first; a miss or stale entry triggers a
// fresh index request.
func (c *Client) ProjectVersions(ctx context.Context, source domain.Source, name string) ([]string, error) {
	normalized := domain.NormalizeName(name)

	cachePath := c.cachePath(source.URL, normalized)
	if versions, err := c.loadFromCache(cachePath); err == nil {
		return versions, nil
	}

	versions, err := c.queryIndex(ctx, source, normalized)
	if err != nil {
		return nil, err
	}

	// A failed cache write never fails the lookup.
	_ = c.saveToCache(cachePath, source.URL, normalized, versions)

	return versions, nil
}

func (c *Client) clientFor(source domain.Source) *http.Client {
	if source.VerifySSL {
		return c.httpClient
	}
	return c.insecureClient
}

// cacheKey derives a deterministic file name from the index URL and the
// normalized project name.
func cacheKey(indexURL, project string) string {
	hash := sha256.Sum256([]byte(indexURL + "@" + project))
	return hex.EncodeToString(hash[:])
}

func (c *Client) cachePath(indexURL, project string) string {
	return filepath.Join(c.cacheDir, cacheKey(indexURL, project)+".json")
}

func (c *Client) loadFromCache(path string) ([]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is a hashed name under the cache directory
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, zerr.Wrap(err, "failed to read index cache entry")
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, zerr.Wrap(err, "failed to unmarshal index cache entry")
	}

	if time.Since(entry.FetchedAt) > c.cacheTTL {
		return nil, zerr.With(zerr.New("index cache entry expired"), "path", path)
	}

	return entry.Versions, nil
}

func (c *Client) saveToCache(path, indexURL, project string, versions []string) error {
	entry := cacheEntry{
		Project:   project,
		Index:     indexURL,
		Versions:  versions,
		FetchedAt: time.Now(),
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal index cache entry")
	}

	if err := atomicWriteFile(path, data); err != nil {
		return zerr.Wrap(err, "failed to write index cache entry")
	}

	return nil
}

// atomicWriteFile writes data to a file atomically by writing to a temp file
// and renaming it.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, "index-cache-*.json")
	if err != nil {
		return err
	}
	tmpName := tmpFile.Name()

	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}

	if err := tmpFile.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// projectURL builds the PEP 503 project page URL under the index base.
func projectURL(indexURL, project string) string {
	return strings.TrimSuffix(indexURL, "/") + "/" + project + "/"
}

func (c *Client) queryIndex(ctx context.Context, source domain.Source, project string) ([]string, error) {
	url := projectURL(source.URL, project)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, zerr.Wrap(errors.Join(domain.ErrIndexUnreachable, err), "failed to build index request")
	}
	req.Header.Set("Accept", simpleV1JSON)

	resp, err := c.clientFor(source).Do(req)
	if err != nil {
		reqErr := zerr.Wrap(errors.Join(domain.ErrIndexUnreachable, err), "index request failed")
		return nil, zerr.With(reqErr, "index", source.Name)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		notFoundErr := zerr.With(domain.ErrProjectNotFound, "package", project)
		return nil, zerr.With(notFoundErr, "index", source.Name)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := zerr.With(domain.ErrIndexUnreachable, "status_code", resp.StatusCode)
		apiErr = zerr.With(apiErr, "package", project)
		return nil, zerr.With(apiErr, "index", source.Name)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, zerr.Wrap(errors.Join(domain.ErrIndexUnreachable, err), "failed to read index response")
	}

	var project691 projectResponse
	if err := json.Unmarshal(body, &project691); err != nil {
		decodeErr := zerr.Wrap(errors.Join(domain.ErrIndexUnreachable, err), "failed to decode index response")
		return nil, zerr.With(decodeErr, "index", source.Name)
	}

	return project691.Versions, nil
}
