package pipfile

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.trai.ch/zerr"

	"github.com/pipkin/pipkin/internal/core/domain"
)

// deferralComment is emitted into an empty production group so readers know
// where the runtime dependencies actually live.
const deferralComment = "# Dependencies are declared in the per-package configuration files."

// Render serializes the manifest into canonical Pipfile form: sources in
// declared order, both groups sorted by normalized name, and stable key
// order inside every block. Rendering the result of Parse and parsing it
// back yields an equal manifest.
func (c *Codec) Render(m *domain.Manifest) ([]byte, error) {
	if m == nil {
		return nil, zerr.With(domain.ErrManifestParse, "reason", "nil manifest")
	}
	if err := m.Validate(); err != nil {
		return nil, zerr.Wrap(err, "cannot render invalid manifest")
	}

	var b strings.Builder

	for i, src := range m.Sources {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("[[source]]\n")
		fmt.Fprintf(&b, "url = %s\n", quoteValue(src.URL))
		fmt.Fprintf(&b, "verify_ssl = %s\n", strconv.FormatBool(src.VerifySSL))
		fmt.Fprintf(&b, "name = %s\n", quoteValue(src.Name))
	}

	b.WriteString("\n[packages]\n")
	if len(m.Packages) == 0 {
		b.WriteString(deferralComment + "\n")
	} else {
		writeGroup(&b, m.Packages)
	}

	if len(m.DevPackages) > 0 {
		b.WriteString("\n[dev-packages]\n")
		writeGroup(&b, m.DevPackages)
	}

	b.WriteString("\n[requires]\n")
	fmt.Fprintf(&b, "python_version = %s\n", quoteValue(m.Requires.PythonVersion))
	if m.Requires.PythonFullVersion != "" {
		fmt.Fprintf(&b, "python_full_version = %s\n", quoteValue(m.Requires.PythonFullVersion))
	}

	return []byte(b.String()), nil
}

func writeGroup(b *strings.Builder, reqs []domain.Requirement) {
	sorted := make([]domain.Requirement, len(reqs))
	copy(sorted, reqs)
	domain.SortRequirements(sorted)

	for _, req := range sorted {
		fmt.Fprintf(b, "%s = %s\n", quoteKey(req.Name), renderRequirement(req))
	}
}

func renderRequirement(req domain.Requirement) string {
	if len(req.Extras) == 0 && req.Index == "" && req.Markers == "" {
		return quoteValue(req.Constraint)
	}

	parts := []string{fmt.Sprintf("version = %s", quoteValue(req.Constraint))}
	if len(req.Extras) > 0 {
		quoted := make([]string, len(req.Extras))
		for i, extra := range req.Extras {
			quoted[i] = quoteValue(extra)
		}
		parts = append(parts, fmt.Sprintf("extras = [%s]", strings.Join(quoted, ", ")))
	}
	if req.Index != "" {
		parts = append(parts, fmt.Sprintf("index = %s", quoteValue(req.Index)))
	}
	if req.Markers != "" {
		parts = append(parts, fmt.Sprintf("markers = %s", quoteValue(req.Markers)))
	}

	return "{" + strings.Join(parts, ", ") + "}"
}

var bareKeyRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// quoteKey leaves bare-safe keys unquoted. Names containing dots or other
// characters outside the bare key alphabet get basic-string quoting.
func quoteKey(name string) string {
	if bareKeyRe.MatchString(name) {
		return name
	}
	return quoteValue(name)
}

// quoteValue renders a TOML string. Values containing double quotes use a
// literal string so environment markers survive without escaping.
func quoteValue(s string) string {
	if strings.Contains(s, `"`) && !strings.Contains(s, "'") && !strings.Contains(s, "\n") {
		return "'" + s + "'"
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
