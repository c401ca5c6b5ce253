// Package pyruntime implements the RuntimeInspector port by probing the
// host Python interpreter.
package pyruntime

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"go.trai.ch/zerr"

	"github.com/pipkin/pipkin/internal/core/domain"
	"github.com/pipkin/pipkin/internal/core/ports"
	"github.com/pipkin/pipkin/internal/pyver"
)

// probeExpr prints the interpreter version, e.g. "3.10.4".
const probeExpr = "import platform; print(platform.python_version())"

// defaultCandidates are the interpreter names probed in order.
var defaultCandidates = []string{"python3", "python"}

// Inspector implements ports.RuntimeInspector by invoking the first Python
// interpreter found on PATH.
type Inspector struct {
	candidates []string
}

var _ ports.RuntimeInspector = (*Inspector)(nil)

// NewInspector creates a RuntimeInspector probing python3, then python.
func NewInspector() *Inspector {
	return &Inspector{candidates: defaultCandidates}
}

// PythonVersion reports the full version of the host interpreter.
func (i *Inspector) PythonVersion(ctx context.Context) (string, error) {
	for _, candidate := range i.candidates {
		path, err := exec.LookPath(candidate)
		if err != nil {
			continue
		}

		//nolint:gosec // path comes from LookPath over a fixed candidate list
		cmd := exec.CommandContext(ctx, path, "-c", probeExpr)
		output, err := cmd.Output()
		if err != nil {
			// The interpreter exists but the probe failed. Falling through
			// to the next candidate would mask a broken installation.
			if exitErr, ok := err.(*exec.ExitError); ok {
				stderr := strings.TrimSpace(string(exitErr.Stderr))
				probeErr := zerr.Wrap(exitErr, "interpreter version probe failed")
				probeErr = zerr.With(probeErr, "interpreter", path)
				return "", zerr.With(probeErr, "stderr", stderr)
			}
			probeErr := zerr.Wrap(err, "interpreter version probe failed")
			return "", zerr.With(probeErr, "interpreter", path)
		}

		return parseVersionOutput(path, output)
	}

	return "", zerr.With(domain.ErrInterpreterNotFound,
		"candidates", strings.Join(i.candidates, ", "))
}

// parseVersionOutput extracts and validates the probe's stdout.
func parseVersionOutput(path string, output []byte) (string, error) {
	version := strings.TrimSpace(string(output))
	if version == "" || !pyver.IsValidVersion(version) {
		err := zerr.With(zerr.Wrap(errors.New("unexpected probe output"),
			"failed to parse interpreter version"), "interpreter", path)
		return "", zerr.With(err, "output", version)
	}
	return version, nil
}
