package domain

import (
	"errors"
	"regexp"
	"slices"
	"strings"

	"go.trai.ch/zerr"

	"github.com/pipkin/pipkin/internal/pyver"
)

// WildcardConstraint accepts any released version of a package.
const WildcardConstraint = "*"

var normalizeRe = regexp.MustCompile(`[-_.]+`)

// NormalizeName canonicalizes a package name per PEP 503: lowercase, with
// runs of "-", "_" and "." collapsed to a single "-". Uniqueness within a
// dependency group is defined over this form.
func NormalizeName(name string) string {
	return normalizeRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// Requirement is a single declared package dependency: a name, a version
// constraint, and optional extras selecting additional features of the
// package.
type Requirement struct {
	// Name is the package name as written in the manifest (e.g. "open-aea").
	Name string

	// Constraint is the PEP 440 version specifier (e.g. "==1.43.0").
	// The wildcard "*" leaves the version to the external resolver.
	Constraint string

	// Extras are the selected package extras (e.g. ["cli", "tests"]),
	// kept sorted and deduplicated.
	Extras []string

	// Index optionally names the source this package must be fetched from.
	Index string

	// Markers optionally holds a PEP 508 environment marker expression.
	Markers string
}

// NormalizedName returns the PEP 503 canonical form of the package name.
func (r Requirement) NormalizedName() string {
	return NormalizeName(r.Name)
}

// IsWildcard reports whether the requirement accepts any version.
func (r Requirement) IsWildcard() bool {
	return r.Constraint == "" || r.Constraint == WildcardConstraint
}

// PinnedVersion returns the exact version this requirement is pinned to and
// true when the constraint is a single "==<version>" equality over a full,
// valid PEP 440 version. Compound specifiers and wildcard equalities such as
// "==1.4.*" are not pins.
func (r Requirement) PinnedVersion() (string, bool) {
	rest, ok := strings.CutPrefix(r.Constraint, "==")
	if !ok {
		return "", false
	}
	rest = strings.TrimSpace(rest)
	if rest == "" || strings.ContainsAny(rest, "*,") {
		return "", false
	}
	if !pyver.IsValidVersion(rest) {
		return "", false
	}
	return rest, true
}

// Spec returns the canonical single-line form of the requirement, used for
// digests and diff output: "name==version[extra1,extra2]".
func (r Requirement) Spec() string {
	var b strings.Builder
	b.WriteString(r.NormalizedName())
	if !r.IsWildcard() {
		b.WriteString(r.Constraint)
	}
	if len(r.Extras) > 0 {
		b.WriteString("[")
		b.WriteString(strings.Join(r.Extras, ","))
		b.WriteString("]")
	}
	return b.String()
}

// Equal reports whether two requirements declare the same dependency:
// same normalized name, constraint, extras, index, and markers.
func (r Requirement) Equal(other Requirement) bool {
	return r.NormalizedName() == other.NormalizedName() &&
		r.Constraint == other.Constraint &&
		slices.Equal(r.Extras, other.Extras) &&
		r.Index == other.Index &&
		r.Markers == other.Markers
}

// Validate checks the requirement against the rules of the given group.
// Development requirements must be exact "==" pins so the environment is
// reproducible; production requirements may carry ranges or the wildcard.
func (r Requirement) Validate(group GroupName) error {
	if strings.TrimSpace(r.Name) == "" {
		return zerr.With(ErrInvalidRequirement, "reason", "empty package name")
	}

	for _, extra := range r.Extras {
		if strings.TrimSpace(extra) == "" {
			return zerr.With(zerr.With(ErrInvalidRequirement, "package", r.Name),
				"reason", "empty extra")
		}
	}
	if len(r.Extras) != len(CanonicalExtras(r.Extras)) {
		return zerr.With(zerr.With(ErrInvalidRequirement, "package", r.Name),
			"reason", "duplicate extras")
	}

	if group == GroupDev {
		if _, ok := r.PinnedVersion(); !ok {
			err := zerr.With(ErrNotExactPin, "package", r.Name)
			return zerr.With(err, "constraint", r.Constraint)
		}
		return nil
	}

	if r.IsWildcard() {
		return nil
	}
	if _, err := pyver.ParseConstraint(r.Constraint); err != nil {
		wrapped := zerr.Wrap(errors.Join(ErrInvalidRequirement, err), "invalid version constraint")
		return zerr.With(wrapped, "package", r.Name)
	}
	return nil
}

// CanonicalExtras returns extras sorted and deduplicated. A nil slice stays
// nil so requirements without extras compare equal regardless of origin.
func CanonicalExtras(extras []string) []string {
	if len(extras) == 0 {
		return nil
	}
	sorted := make([]string, len(extras))
	copy(sorted, extras)
	slices.Sort(sorted)
	return slices.Compact(sorted)
}

// SortRequirements orders requirements by normalized name, the canonical
// group order used by the writer and the digest.
func SortRequirements(reqs []Requirement) {
	slices.SortFunc(reqs, func(a, b Requirement) int {
		return strings.Compare(a.NormalizedName(), b.NormalizedName())
	})
}
