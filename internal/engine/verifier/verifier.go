// Package verifier implements manifest verification: every declared pin is
// checked against its package index, and the host interpreter against the
// runtime constraint.
package verifier

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"

	"github.com/pipkin/pipkin/internal/core/domain"
	"github.com/pipkin/pipkin/internal/core/ports"
	"github.com/pipkin/pipkin/internal/pyver"
)

var _ ports.Verifier = (*Verifier)(nil)

// Verifier fans requirement checks out over a bounded worker pool and
// collects them into a deterministic report.
type Verifier struct {
	index     ports.PackageIndex
	inspector ports.RuntimeInspector
	telemetry ports.Telemetry
	jobs      int
}

// NewVerifier creates a verifier running at most jobs index lookups at once.
// A non-positive jobs value falls back to the number of CPUs.
func NewVerifier(
	index ports.PackageIndex,
	inspector ports.RuntimeInspector,
	telemetry ports.Telemetry,
	jobs int,
) *Verifier {
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	return &Verifier{
		index:     index,
		inspector: inspector,
		telemetry: telemetry,
		jobs:      jobs,
	}
}

// check is one unit of verification work: a requirement and the index it
// resolves against.
type check struct {
	group  domain.GroupName
	req    domain.Requirement
	source domain.Source
}

// Verify checks every requirement in every group plus the runtime
// constraint. Failed checks become findings; the error return is reserved
// for an invalid manifest or a canceled context.
func (v *Verifier) Verify(ctx context.Context, m *domain.Manifest) (*domain.Report, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	checks := collectChecks(m)
	findings := make([]domain.Finding, len(checks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.jobs)

	for i, c := range checks {
		g.Go(func() error {
			findings[i] = v.checkRequirement(gctx, c)
			return nil
		})
	}

	// Workers never return errors; failures surface as findings.
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &domain.Report{
		Findings: findings,
		Runtime:  v.checkRuntime(ctx, m.Requires),
	}
	report.Sort()

	return report, nil
}

// collectChecks pairs each requirement with its resolved index. Validate has
// already guaranteed that every named index exists and that a default source
// is declared.
func collectChecks(m *domain.Manifest) []check {
	var checks []check
	for _, group := range domain.GroupNames() {
		for _, req := range m.Group(group) {
			source, _ := m.SourceFor(req)
			checks = append(checks, check{group: group, req: req, source: source})
		}
	}
	return checks
}

func (v *Verifier) checkRequirement(ctx context.Context, c check) domain.Finding {
	name := c.req.NormalizedName()
	constraint := c.req.Constraint
	if c.req.IsWildcard() {
		constraint = domain.WildcardConstraint
	}

	_, vertex := v.telemetry.Record(ctx, fmt.Sprintf("check %s %s", name, constraint))

	finding := domain.Finding{
		Group:      c.group,
		Name:       name,
		Constraint: constraint,
	}

	versions, err := v.index.ProjectVersions(ctx, c.source, name)
	if err != nil {
		vertex.Complete(err)
		return classifyIndexError(finding, c.source, err)
	}

	resolved, ok := matchConstraint(c.req, versions)
	if !ok {
		finding.Status = domain.FindingUnsatisfiable
		finding.Detail = fmt.Sprintf("none of %d releases on %s satisfies %s",
			len(versions), c.source.Name, constraint)
		unsat := zerr.With(domain.ErrUnsatisfiable, "package", name)
		vertex.Complete(zerr.With(unsat, "constraint", constraint))
		return finding
	}

	finding.Status = domain.FindingOK
	finding.Resolved = resolved
	vertex.Complete(nil)
	return finding
}

func classifyIndexError(finding domain.Finding, source domain.Source, err error) domain.Finding {
	if errors.Is(err, domain.ErrProjectNotFound) {
		finding.Status = domain.FindingProjectNotFound
		finding.Detail = fmt.Sprintf("index %s has no project %s", source.Name, finding.Name)
		return finding
	}
	finding.Status = domain.FindingIndexError
	finding.Detail = err.Error()
	return finding
}

// matchConstraint returns the highest released version satisfying the
// requirement. Release strings the index serves in a non-PEP 440 form are
// skipped rather than failing the whole check.
func matchConstraint(req domain.Requirement, released []string) (string, bool) {
	versions := make([]pyver.Version, 0, len(released))
	for _, raw := range released {
		version, err := pyver.ParseVersion(raw)
		if err != nil {
			continue
		}
		versions = append(versions, version)
	}
	if len(versions) == 0 {
		return "", false
	}

	if req.IsWildcard() {
		best := versions[0]
		for _, version := range versions[1:] {
			if pyver.Compare(version, best) > 0 {
				best = version
			}
		}
		return best.String(), true
	}

	constraint, err := pyver.ParseConstraint(req.Constraint)
	if err != nil {
		return "", false
	}
	best, ok := pyver.MaxSatisfying(constraint, versions)
	if !ok {
		return "", false
	}
	return best.String(), true
}

func (v *Verifier) checkRuntime(ctx context.Context, rc domain.RuntimeConstraint) *domain.RuntimeFinding {
	required := rc.PythonFullVersion
	if required == "" {
		required = rc.PythonVersion
	}

	_, vertex := v.telemetry.Record(ctx, "check python "+required)

	finding := &domain.RuntimeFinding{Required: required}

	actual, err := v.inspector.PythonVersion(ctx)
	if err != nil {
		finding.Status = domain.RuntimeUnknown
		vertex.Complete(err)
		return finding
	}

	finding.Actual = actual
	if !rc.Matches(actual) {
		finding.Status = domain.RuntimeMismatch
		mismatch := zerr.With(domain.ErrRuntimeMismatch, "required", required)
		vertex.Complete(zerr.With(mismatch, "actual", actual))
		return finding
	}

	finding.Status = domain.RuntimeOK
	vertex.Complete(nil)
	return finding
}
