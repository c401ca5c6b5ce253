// Package app implements the application layer for pipkin.
package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"go.trai.ch/zerr"

	"github.com/pipkin/pipkin/internal/core/domain"
	"github.com/pipkin/pipkin/internal/core/ports"
)

// App orchestrates the manifest operations over the wired ports.
type App struct {
	codec     ports.ManifestCodec
	verifier  ports.Verifier
	lockStore ports.LockStore
	watcher   ports.Watcher
	logger    ports.Logger

	out      io.Writer
	indexURL string
}

// New creates a new App instance.
func New(
	codec ports.ManifestCodec,
	verifier ports.Verifier,
	lockStore ports.LockStore,
	watcher ports.Watcher,
	logger ports.Logger,
) *App {
	return &App{
		codec:     codec,
		verifier:  verifier,
		lockStore: lockStore,
		watcher:   watcher,
		logger:    logger,
		out:       os.Stdout,
	}
}

// WithOutput redirects command output. This is primarily used for testing.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// WithIndexURL overrides the default index URL for verification. The
// override applies to lookups only; it is never written back to the
// manifest.
func (a *App) WithIndexURL(url string) *App {
	a.indexURL = url
	return a
}

// Validate parses the manifest and reports whether it satisfies the
// structural invariants.
func (a *App) Validate(_ context.Context, path string) error {
	m, err := a.codec.Load(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s is valid: %d packages, %d dev-packages, %d sources, python %s\n",
		path, len(m.Packages), len(m.DevPackages), len(m.Sources), requiredPython(m))
	return nil
}

// FormatOptions configuration for the Format method.
type FormatOptions struct {
	// Check reports non-canonical formatting as an error instead of
	// rewriting the file.
	Check bool
}

// Format rewrites the manifest in canonical form: stable section order,
// requirements sorted by normalized name.
func (a *App) Format(_ context.Context, path string, opts FormatOptions) error {
	raw, err := os.ReadFile(path) //nolint:gosec // Path comes from the operator
	if err != nil {
		return zerr.Wrap(err, "failed to read manifest file")
	}

	m, err := a.codec.Parse(raw)
	if err != nil {
		return err
	}

	canonical, err := a.codec.Render(m)
	if err != nil {
		return err
	}

	if bytes.Equal(raw, canonical) {
		a.logger.Info(path + " is already canonical")
		return nil
	}

	if opts.Check {
		return zerr.With(domain.ErrNotCanonical, "path", path)
	}

	if err := os.WriteFile(path, canonical, domain.FilePerm); err != nil {
		return zerr.Wrap(err, "failed to write manifest file")
	}
	fmt.Fprintf(a.out, "rewrote %s\n", path)
	return nil
}

// Verify checks every declared pin against its index and the host
// interpreter against the runtime constraint. It returns
// domain.ErrVerificationFailed when any check fails.
func (a *App) Verify(ctx context.Context, path string) error {
	m, err := a.codec.Load(path)
	if err != nil {
		return err
	}

	report, err := a.verifier.Verify(ctx, a.withIndexOverride(m))
	if err != nil {
		return err
	}

	a.printReport(report)
	return report.Err()
}

// LockOptions configuration for the Lock method.
type LockOptions struct {
	// Check compares the existing lockfile against the manifest instead of
	// writing a new one.
	Check bool
}

// Lock verifies the manifest and freezes it into a lockfile next to it.
// With Check set it only reports whether the existing lockfile is stale.
func (a *App) Lock(ctx context.Context, path string, opts LockOptions) error {
	m, err := a.codec.Load(path)
	if err != nil {
		return err
	}

	lockPath := domain.DefaultLockPath(path)

	if opts.Check {
		lock, err := a.lockStore.Read(lockPath)
		if err != nil {
			return err
		}
		if !lock.MatchesManifest(m) {
			return zerr.With(domain.ErrLockStale, "lockfile", lockPath)
		}
		fmt.Fprintf(a.out, "%s is up to date\n", lockPath)
		return nil
	}

	report, err := a.verifier.Verify(ctx, a.withIndexOverride(m))
	if err != nil {
		return err
	}
	a.printReport(report)

	// An unreachable pin must never be frozen. A runtime mismatch does not
	// block freezing: the lockfile records the constraint, not this host.
	if len(report.Blocking()) > 0 {
		return report.Err()
	}
	if rt := report.Runtime; rt != nil && rt.Status != domain.RuntimeOK {
		a.logger.Warn(fmt.Sprintf("host python does not match requires (%s)", rt.Status))
	}

	lock, err := domain.LockfileFromManifest(m)
	if err != nil {
		return err
	}
	if err := a.lockStore.Write(lockPath, lock); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "wrote %s (sha256: %.12s)\n", lockPath, lock.Meta.Hash.SHA256)
	return nil
}

// Diff prints the semantic difference between two manifests. Formatting and
// declaration order never show up; only declaration changes do.
func (a *App) Diff(_ context.Context, oldPath, newPath string) error {
	oldM, err := a.codec.Load(oldPath)
	if err != nil {
		return err
	}
	newM, err := a.codec.Load(newPath)
	if err != nil {
		return err
	}

	diff := domain.DiffManifests(oldM, newM)
	if diff.Empty() {
		fmt.Fprintln(a.out, "manifests are semantically identical")
		return nil
	}

	a.printDiff(diff)
	return nil
}

// WatchOptions configuration for the Watch method.
type WatchOptions struct {
	// Verify re-verifies the manifest after each effective change instead
	// of only re-validating it.
	Verify bool
}

// Watch re-validates the manifest whenever its content changes, until the
// context is canceled. Failures are logged and watching continues.
func (a *App) Watch(ctx context.Context, path string, opts WatchOptions) error {
	if err := a.watcher.Start(ctx, path); err != nil {
		return err
	}
	defer func() {
		_ = a.watcher.Stop()
	}()

	a.logger.Info("watching " + path)

	for event := range a.watcher.Events() {
		a.handleManifestChange(ctx, event, opts)
	}
	return nil
}

func (a *App) handleManifestChange(ctx context.Context, event ports.WatchEvent, opts WatchOptions) {
	if event.Operation == ports.OpRemove {
		a.logger.Warn("manifest removed: " + event.Path)
		return
	}

	m, err := a.codec.Load(event.Path)
	if err != nil {
		a.logger.Error(err)
		return
	}
	a.logger.Info(fmt.Sprintf("%s changed: %d dev-packages, python %s",
		event.Path, len(m.DevPackages), requiredPython(m)))

	if !opts.Verify {
		return
	}
	report, err := a.verifier.Verify(ctx, a.withIndexOverride(m))
	if err != nil {
		a.logger.Error(err)
		return
	}
	a.printReport(report)
	if err := report.Err(); err != nil {
		a.logger.Error(err)
	}
}

// withIndexOverride returns a copy of the manifest with the default source
// pointed at the configured index URL. The manifest itself stays untouched.
func (a *App) withIndexOverride(m *domain.Manifest) *domain.Manifest {
	if a.indexURL == "" || len(m.Sources) == 0 {
		return m
	}
	clone := *m
	clone.Sources = slices.Clone(m.Sources)
	clone.Sources[0].URL = a.indexURL
	return &clone
}

func (a *App) printReport(report *domain.Report) {
	for _, f := range report.Findings {
		if !f.Blocking() {
			continue
		}
		fmt.Fprintf(a.out, "%s: %s %s (%s)\n", f.Status, f.Name, f.Constraint, f.Detail)
	}

	if rt := report.Runtime; rt != nil {
		switch rt.Status {
		case domain.RuntimeOK:
			fmt.Fprintf(a.out, "python %s satisfies requires %s\n", rt.Actual, rt.Required)
		case domain.RuntimeMismatch:
			fmt.Fprintf(a.out, "runtime mismatch: host python %s, requires %s\n", rt.Actual, rt.Required)
		case domain.RuntimeUnknown:
			fmt.Fprintf(a.out, "runtime unknown: no interpreter found, requires %s\n", rt.Required)
		}
	}

	blocking := len(report.Blocking())
	fmt.Fprintf(a.out, "checked %d requirements: %d ok, %d failing\n",
		len(report.Findings), len(report.Findings)-blocking, blocking)
}

func (a *App) printDiff(diff *domain.ManifestDiff) {
	for _, group := range domain.GroupNames() {
		groupDiff := diff.GroupDiff(group)
		if groupDiff.Empty() {
			continue
		}
		fmt.Fprintf(a.out, "[%s]\n", group)
		for _, req := range groupDiff.Removed {
			fmt.Fprintf(a.out, "- %s\n", req.Spec())
		}
		for _, req := range groupDiff.Added {
			fmt.Fprintf(a.out, "+ %s\n", req.Spec())
		}
		for _, change := range groupDiff.Changed {
			fmt.Fprintf(a.out, "~ %s -> %s\n", change.Old.Spec(), change.New.Spec())
		}
	}

	for _, src := range diff.SourcesRemoved {
		fmt.Fprintf(a.out, "- source %s (%s)\n", src.Name, src.URL)
	}
	for _, src := range diff.SourcesAdded {
		fmt.Fprintf(a.out, "+ source %s (%s)\n", src.Name, src.URL)
	}

	if diff.RuntimeChanged != nil {
		fmt.Fprintf(a.out, "~ requires python %s -> %s\n",
			runtimeLabel(diff.RuntimeChanged[0]), runtimeLabel(diff.RuntimeChanged[1]))
	}
}

func requiredPython(m *domain.Manifest) string {
	return runtimeLabel(m.Requires)
}

func runtimeLabel(rc domain.RuntimeConstraint) string {
	if rc.PythonFullVersion != "" {
		return rc.PythonFullVersion
	}
	return rc.PythonVersion
}
