package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// ManifestDigest creates a deterministic hash of the manifest's semantic
// content. Two manifests that declare the same sources, requirements, and
// interpreter constraint produce the same digest regardless of formatting,
// so the digest detects lockfile staleness.
func ManifestDigest(m *Manifest) string {
	var builder strings.Builder

	for _, src := range m.Sources {
		builder.WriteString("source:")
		builder.WriteString(src.Name)
		builder.WriteString(":")
		builder.WriteString(src.URL)
		builder.WriteString(":")
		builder.WriteString(strconv.FormatBool(src.VerifySSL))
		builder.WriteString(";")
	}

	for _, group := range GroupNames() {
		reqs := make([]Requirement, len(m.Group(group)))
		copy(reqs, m.Group(group))
		SortRequirements(reqs)

		builder.WriteString(string(group))
		builder.WriteString(":")
		for _, req := range reqs {
			builder.WriteString(req.Spec())
			if req.Index != "" {
				builder.WriteString("@")
				builder.WriteString(req.Index)
			}
			if req.Markers != "" {
				builder.WriteString("|")
				builder.WriteString(req.Markers)
			}
			builder.WriteString(";")
		}
	}

	builder.WriteString("requires:")
	builder.WriteString(m.Requires.PythonVersion)
	builder.WriteString(":")
	builder.WriteString(m.Requires.PythonFullVersion)
	builder.WriteString(";")

	hash := sha256.Sum256([]byte(builder.String()))
	return hex.EncodeToString(hash[:])
}
