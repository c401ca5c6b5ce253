package domain

import (
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// FindingStatus classifies the outcome of checking one requirement.
type FindingStatus string

const (
	// FindingOK indicates the index offers a release satisfying the pin.
	FindingOK FindingStatus = "ok"
	// FindingUnsatisfiable indicates the project exists but no release
	// satisfies the constraint.
	FindingUnsatisfiable FindingStatus = "unsatisfiable"
	// FindingProjectNotFound indicates the index has no project under the
	// requested name.
	FindingProjectNotFound FindingStatus = "not-found"
	// FindingIndexError indicates the index could not be queried.
	FindingIndexError FindingStatus = "index-error"
)

// Finding is the verification outcome for a single requirement.
type Finding struct {
	// Group is the dependency group the requirement belongs to.
	Group GroupName

	// Name is the normalized package name.
	Name string

	// Constraint is the requirement's version specifier.
	Constraint string

	// Status classifies the outcome.
	Status FindingStatus

	// Resolved is the released version that satisfied the constraint,
	// set only when Status is FindingOK.
	Resolved string

	// Detail carries a short failure description for non-OK findings.
	Detail string
}

// Blocking reports whether the finding must fail verification.
func (f Finding) Blocking() bool {
	return f.Status != FindingOK
}

// RuntimeStatus classifies the interpreter check outcome.
type RuntimeStatus string

const (
	// RuntimeOK indicates the host interpreter satisfies the constraint.
	RuntimeOK RuntimeStatus = "ok"
	// RuntimeMismatch indicates the host interpreter version does not match.
	RuntimeMismatch RuntimeStatus = "mismatch"
	// RuntimeUnknown indicates no interpreter could be inspected.
	RuntimeUnknown RuntimeStatus = "unknown"
)

// RuntimeFinding is the verification outcome for the runtime constraint.
type RuntimeFinding struct {
	// Required is the declared interpreter constraint (e.g. "3.10").
	Required string

	// Actual is the host interpreter version, when one was found.
	Actual string

	// Status classifies the outcome.
	Status RuntimeStatus
}

// Report is the complete verification outcome for a manifest. Findings are
// kept in deterministic order so repeated runs produce identical reports.
type Report struct {
	Findings []Finding
	Runtime  *RuntimeFinding
}

// Sort orders findings by group, then by normalized package name.
func (r *Report) Sort() {
	slices.SortFunc(r.Findings, func(a, b Finding) int {
		if c := strings.Compare(string(a.Group), string(b.Group)); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
}

// Blocking returns the findings that fail verification.
func (r *Report) Blocking() []Finding {
	var blocking []Finding
	for _, f := range r.Findings {
		if f.Blocking() {
			blocking = append(blocking, f)
		}
	}
	return blocking
}

// OK reports whether verification passed: every requirement satisfiable and
// the runtime constraint met (or not checked).
func (r *Report) OK() bool {
	if len(r.Blocking()) > 0 {
		return false
	}
	if r.Runtime != nil && r.Runtime.Status != RuntimeOK {
		return false
	}
	return true
}

// Err converts a failed report into an error carrying the failure counts.
// It returns nil when the report passed.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	err := zerr.With(ErrVerificationFailed, "blocking_findings", len(r.Blocking()))
	if r.Runtime != nil && r.Runtime.Status != RuntimeOK {
		err = zerr.With(err, "runtime", string(r.Runtime.Status))
	}
	return err
}
