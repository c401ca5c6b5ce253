package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipkin/pipkin/internal/core/domain"
)

func TestDiffManifests_Empty(t *testing.T) {
	diff := domain.DiffManifests(validManifest(), validManifest())
	assert.True(t, diff.Empty())
}

func TestDiffManifests_Groups(t *testing.T) {
	oldM := validManifest()
	newM := validManifest()

	// Remove grpcio, bump open-autonomy, add pytest.
	newM.DevPackages = []domain.Requirement{
		{Name: "open-autonomy", Constraint: "==0.11.0", Extras: []string{"all"}},
		{Name: "tomte", Constraint: "==0.2.12", Extras: []string{"cli", "tests"}},
		{Name: "pytest", Constraint: "==7.2.1"},
	}

	diff := domain.DiffManifests(oldM, newM)
	require.False(t, diff.Empty())

	dev := diff.GroupDiff(domain.GroupDev)
	require.Len(t, dev.Added, 1)
	assert.Equal(t, "pytest", dev.Added[0].Name)

	require.Len(t, dev.Removed, 1)
	assert.Equal(t, "grpcio", dev.Removed[0].Name)

	require.Len(t, dev.Changed, 1)
	assert.Equal(t, "open-autonomy", dev.Changed[0].Name)
	assert.Equal(t, "==0.10.5.post1", dev.Changed[0].Old.Constraint)
	assert.Equal(t, "==0.11.0", dev.Changed[0].New.Constraint)

	assert.True(t, diff.GroupDiff(domain.GroupDefault).Empty())
}

func TestDiffManifests_NormalizedNamesDoNotChurn(t *testing.T) {
	oldM := validManifest()
	newM := validManifest()
	// Same package under a different spelling is not a change.
	newM.DevPackages[0].Name = "GRPC_IO"
	newM.DevPackages[0].Name = "grpc.io"

	diff := domain.DiffManifests(oldM, newM)
	assert.True(t, diff.Empty())
}

func TestDiffManifests_Sources(t *testing.T) {
	oldM := validManifest()
	newM := validManifest()
	newM.Sources[0].VerifySSL = false

	diff := domain.DiffManifests(oldM, newM)
	require.False(t, diff.Empty())
	require.Len(t, diff.SourcesAdded, 1)
	require.Len(t, diff.SourcesRemoved, 1)
	assert.False(t, diff.SourcesAdded[0].VerifySSL)
	assert.True(t, diff.SourcesRemoved[0].VerifySSL)
}

func TestDiffManifests_Runtime(t *testing.T) {
	oldM := validManifest()
	newM := validManifest()
	newM.Requires.PythonVersion = "3.11"

	diff := domain.DiffManifests(oldM, newM)
	require.NotNil(t, diff.RuntimeChanged)
	assert.Equal(t, "3.10", diff.RuntimeChanged[0].PythonVersion)
	assert.Equal(t, "3.11", diff.RuntimeChanged[1].PythonVersion)
}
