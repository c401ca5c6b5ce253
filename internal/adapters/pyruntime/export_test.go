package pyruntime

// ParseVersionOutputForTest exports the private parseVersionOutput function
// for testing purposes.
func ParseVersionOutputForTest(path string, output []byte) (string, error) {
	return parseVersionOutput(path, output)
}

// NewInspectorWithCandidates creates an Inspector probing the given
// interpreter names (used for testing).
func NewInspectorWithCandidates(candidates ...string) *Inspector {
	return &Inspector{candidates: candidates}
}
