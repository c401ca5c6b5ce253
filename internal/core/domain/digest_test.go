package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pipkin/pipkin/internal/core/domain"
)

func TestManifestDigest_Deterministic(t *testing.T) {
	a := validManifest()
	b := validManifest()

	assert.Equal(t, domain.ManifestDigest(a), domain.ManifestDigest(b))
	assert.Len(t, domain.ManifestDigest(a), 64, "hex encoded sha256")
}

func TestManifestDigest_IgnoresDeclarationOrder(t *testing.T) {
	a := validManifest()
	b := validManifest()
	// Reverse the dev group declaration order.
	for i, j := 0, len(b.DevPackages)-1; i < j; i, j = i+1, j-1 {
		b.DevPackages[i], b.DevPackages[j] = b.DevPackages[j], b.DevPackages[i]
	}

	assert.Equal(t, domain.ManifestDigest(a), domain.ManifestDigest(b))
}

func TestManifestDigest_ChangesWithContent(t *testing.T) {
	base := domain.ManifestDigest(validManifest())

	bumped := validManifest()
	bumped.DevPackages[0].Constraint = "==1.44.0"
	assert.NotEqual(t, base, domain.ManifestDigest(bumped), "version bump must change the digest")

	extras := validManifest()
	extras.DevPackages[0].Extras = []string{"grpc"}
	assert.NotEqual(t, base, domain.ManifestDigest(extras), "extras change must change the digest")

	runtime := validManifest()
	runtime.Requires.PythonVersion = "3.11"
	assert.NotEqual(t, base, domain.ManifestDigest(runtime), "runtime change must change the digest")

	source := validManifest()
	source.Sources[0].VerifySSL = false
	assert.NotEqual(t, base, domain.ManifestDigest(source), "source change must change the digest")
}
