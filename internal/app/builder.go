package app

import (
	"github.com/pipkin/pipkin/internal/core/ports"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger

	// Telemetry is exposed so the entry point can flush the recording
	// session before the process exits.
	Telemetry ports.Telemetry
}
