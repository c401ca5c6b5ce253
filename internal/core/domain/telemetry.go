package domain

// VertexStatus represents the lifecycle state of a unit of work (Vertex)
// reported through telemetry, such as one requirement being verified.
type VertexStatus string

const (
	// VertexStatusPending indicates the vertex is waiting to be scheduled.
	VertexStatusPending VertexStatus = "pending"
	// VertexStatusRunning indicates the vertex is currently executing.
	VertexStatusRunning VertexStatus = "running"
	// VertexStatusCompleted indicates the vertex executed successfully.
	VertexStatusCompleted VertexStatus = "completed"
	// VertexStatusFailed indicates the vertex execution failed.
	VertexStatusFailed VertexStatus = "failed"
	// VertexStatusCached indicates the vertex work was served from a cache.
	VertexStatusCached VertexStatus = "cached"
)

// IsTerminal checks if a status is a terminal state (Completed, Failed, Cached).
func (s VertexStatus) IsTerminal() bool {
	switch s {
	case VertexStatusCompleted, VertexStatusFailed, VertexStatusCached:
		return true
	default:
		return false
	}
}

// LogLevel represents the severity of a log message, mirroring the standard slog levels.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}
