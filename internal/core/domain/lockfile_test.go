package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"

	"github.com/pipkin/pipkin/internal/core/domain"
)

func TestLockfileFromManifest(t *testing.T) {
	m := validManifest()

	lock, err := domain.LockfileFromManifest(m)
	require.NoError(t, err)

	assert.Equal(t, domain.ManifestDigest(m), lock.Meta.Hash.SHA256)
	assert.Equal(t, domain.PipfileSpecRevision, lock.Meta.PipfileSpec)
	assert.Equal(t, "3.10", lock.Meta.Requires.PythonVersion)
	require.Len(t, lock.Meta.Sources, 1)
	assert.Equal(t, "pypi", lock.Meta.Sources[0].Name)
	assert.True(t, lock.Meta.Sources[0].VerifySSL)

	assert.Empty(t, lock.Default)
	require.Len(t, lock.Develop, 3)

	entry, ok := lock.Develop["open-autonomy"]
	require.True(t, ok, "entries are keyed by normalized name")
	assert.Equal(t, "==0.10.5.post1", entry.Version)
	assert.Equal(t, []string{"all"}, entry.Extras)

	entry, ok = lock.Develop["tomte"]
	require.True(t, ok)
	assert.Equal(t, "==0.2.12", entry.Version)
	assert.Equal(t, []string{"cli", "tests"}, entry.Extras)
}

func TestLockfileFromManifest_RejectsUnpinned(t *testing.T) {
	m := validManifest()
	m.Packages = []domain.Requirement{{Name: "requests", Constraint: "*"}}

	_, err := domain.LockfileFromManifest(m)
	if err == nil {
		t.Fatal("expected error for unpinned requirement, got nil")
	}

	zErr, ok := err.(*zerr.Error)
	if !ok {
		t.Fatalf("expected *zerr.Error, got %T", err)
	}
	meta := zErr.Metadata()
	if pkg, ok := meta["package"].(string); !ok || pkg != "requests" {
		t.Errorf("expected metadata package=requests, got %v", meta["package"])
	}
}

func TestLockfile_MatchesManifest(t *testing.T) {
	m := validManifest()
	lock, err := domain.LockfileFromManifest(m)
	require.NoError(t, err)

	assert.True(t, lock.MatchesManifest(m))

	m.DevPackages[0].Constraint = "==1.44.0"
	assert.False(t, lock.MatchesManifest(m), "edited manifest must read as stale")
}
