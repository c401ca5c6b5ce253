// Package pyver provides PEP 440 version parsing, comparison, and
// specifier matching for Python package versions.
package pyver

import (
	pep440 "github.com/aquasecurity/go-pep440-version"
	"go.trai.ch/zerr"
)

// Version is a Python package version.
//
// This is a thin wrapper around github.com/aquasecurity/go-pep440-version,
// which implements the PEP 440 version scheme (epochs, pre/post/dev
// releases, local version labels). Plain semver libraries reject versions
// like "0.10.5.post1", so everything in this module goes through here.
type Version struct {
	v   pep440.Version
	raw string
}

// Constraint is a PEP 440 version specifier set.
//
// Examples:
// - "==1.43.0"
// - "==0.10.5.post1"
// - ">=1.2,<2.0"
type Constraint struct {
	c   pep440.Specifiers
	raw string
}

func ParseVersion(raw string) (Version, error) {
	v, err := pep440.Parse(raw)
	if err != nil {
		return Version{}, zerr.With(zerr.Wrap(err, "invalid version"), "raw", raw)
	}
	return Version{v: v, raw: raw}, nil
}

func MustParseVersion(raw string) Version {
	v, err := ParseVersion(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// IsValidVersion reports whether raw parses as a PEP 440 version.
func IsValidVersion(raw string) bool {
	_, err := ParseVersion(raw)
	return err == nil
}

func ParseConstraint(raw string) (Constraint, error) {
	// Pre-releases must be matchable when a pin names one explicitly
	// (e.g. "==0.10.5.post1"), so specifier checks always admit them.
	c, err := pep440.NewSpecifiers(raw, pep440.WithPreRelease(true))
	if err != nil {
		return Constraint{}, zerr.With(zerr.Wrap(err, "invalid version specifier"), "raw", raw)
	}
	return Constraint{c: c, raw: raw}, nil
}

func MustParseConstraint(raw string) Constraint {
	c, err := ParseConstraint(raw)
	if err != nil {
		panic(err)
	}
	return c
}

// String returns the original version text.
func (v Version) String() string {
	return v.raw
}

// String returns the original specifier text.
func (c Constraint) String() string {
	return c.raw
}

func Satisfies(v Version, c Constraint) bool {
	if v.raw == "" || c.raw == "" {
		return false
	}
	return c.c.Check(v.v)
}

// Compare compares a and b, returning:
// -1 if a < b
//
//	0 if a == b
//	1 if a > b
func Compare(a, b Version) int {
	if a.raw == "" && b.raw == "" {
		return 0
	}
	if a.raw == "" {
		return -1
	}
	if b.raw == "" {
		return 1
	}
	switch {
	case a.v.LessThan(b.v):
		return -1
	case a.v.GreaterThan(b.v):
		return 1
	default:
		return 0
	}
}

// MaxSatisfying returns the highest version in candidates that satisfies c.
//
// If multiple versions are equal, the first encountered wins.
func MaxSatisfying(c Constraint, candidates []Version) (Version, bool) {
	var best Version
	found := false
	for _, candidate := range candidates {
		if !Satisfies(candidate, c) {
			continue
		}
		if !found || Compare(candidate, best) > 0 {
			best = candidate
			found = true
		}
	}
	return best, found
}
