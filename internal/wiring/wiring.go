// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/pipkin/pipkin/internal/adapters/lock"
	_ "github.com/pipkin/pipkin/internal/adapters/logger"
	_ "github.com/pipkin/pipkin/internal/adapters/pipfile"
	_ "github.com/pipkin/pipkin/internal/adapters/pypi"
	_ "github.com/pipkin/pipkin/internal/adapters/pyruntime"
	_ "github.com/pipkin/pipkin/internal/adapters/telemetry/progrock"
	_ "github.com/pipkin/pipkin/internal/adapters/toolconfig"
	_ "github.com/pipkin/pipkin/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "github.com/pipkin/pipkin/internal/app"
	_ "github.com/pipkin/pipkin/internal/engine/verifier"
)
