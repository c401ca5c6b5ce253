package pyver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipkin/pipkin/internal/pyver"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "plain release", raw: "1.43.0"},
		{name: "post release", raw: "0.10.5.post1"},
		{name: "post release with separator", raw: "3.7.4.post0"},
		{name: "calendar style", raw: "2022.2.1"},
		{name: "two segment", raw: "3.10"},
		{name: "pre release", raw: "1.0.0rc1"},
		{name: "dev release", raw: "2.0.dev3"},
		{name: "epoch", raw: "1!2.0"},
		{name: "empty", raw: "", wantErr: true},
		{name: "garbage", raw: "not-a-version", wantErr: true},
		{name: "trailing operator", raw: "==1.2.3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := pyver.ParseVersion(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.raw, v.String())
		})
	}
}

func TestIsValidVersion(t *testing.T) {
	assert.True(t, pyver.IsValidVersion("3.10"))
	assert.True(t, pyver.IsValidVersion("0.10.5.post1"))
	assert.False(t, pyver.IsValidVersion(""))
	assert.False(t, pyver.IsValidVersion("==1.0"))
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.2.0", "1.10.0", -1},
		{"1.10.0", "1.2.0", 1},
		{"1.43.0", "1.43.0", 0},
		{"1.0.0", "1.0.0.post1", -1},
		{"1.0.0rc1", "1.0.0", -1},
		{"2022.2.1", "2022.10.0", -1},
	}

	for _, tt := range tests {
		a := pyver.MustParseVersion(tt.a)
		b := pyver.MustParseVersion(tt.b)
		assert.Equal(t, tt.want, pyver.Compare(a, b), "%s vs %s", tt.a, tt.b)
	}
}

func TestCompare_ZeroValues(t *testing.T) {
	var zero pyver.Version
	one := pyver.MustParseVersion("1.0")

	assert.Equal(t, 0, pyver.Compare(zero, zero))
	assert.Equal(t, -1, pyver.Compare(zero, one))
	assert.Equal(t, 1, pyver.Compare(one, zero))
}

func TestSatisfies(t *testing.T) {
	tests := []struct {
		name       string
		version    string
		constraint string
		want       bool
	}{
		{name: "exact pin match", version: "1.43.0", constraint: "==1.43.0", want: true},
		{name: "exact pin mismatch", version: "1.43.1", constraint: "==1.43.0", want: false},
		{name: "post release pin", version: "0.10.5.post1", constraint: "==0.10.5.post1", want: true},
		{name: "post release excluded by plain pin", version: "0.10.5.post1", constraint: "==0.10.5", want: false},
		{name: "range lower bound", version: "1.2.0", constraint: ">=1.2,<2.0", want: true},
		{name: "range upper bound", version: "2.0.0", constraint: ">=1.2,<2.0", want: false},
		{name: "wildcard", version: "1.4.7", constraint: "==1.4.*", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := pyver.ParseConstraint(tt.constraint)
			require.NoError(t, err)
			v := pyver.MustParseVersion(tt.version)
			assert.Equal(t, tt.want, pyver.Satisfies(v, c))
		})
	}
}

func TestParseConstraint_Invalid(t *testing.T) {
	_, err := pyver.ParseConstraint("==")
	require.Error(t, err)
}

func TestMaxSatisfying(t *testing.T) {
	candidates := []pyver.Version{
		pyver.MustParseVersion("1.1.0"),
		pyver.MustParseVersion("1.4.2"),
		pyver.MustParseVersion("1.4.10"),
		pyver.MustParseVersion("2.0.0"),
	}

	c := pyver.MustParseConstraint("==1.4.*")
	best, ok := pyver.MaxSatisfying(c, candidates)
	require.True(t, ok)
	assert.Equal(t, "1.4.10", best.String())

	none := pyver.MustParseConstraint("==3.0.0")
	_, ok = pyver.MaxSatisfying(none, candidates)
	assert.False(t, ok)
}
