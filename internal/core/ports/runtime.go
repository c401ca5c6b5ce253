package ports

import "context"

// RuntimeInspector discovers the host Python interpreter.
//
//go:generate go run go.uber.org/mock/mockgen -source=runtime.go -destination=mocks/mock_runtime.go -package=mocks
type RuntimeInspector interface {
	// PythonVersion returns the host interpreter's version (e.g. "3.10.12").
	// It returns domain.ErrInterpreterNotFound when no interpreter is on PATH.
	PythonVersion(ctx context.Context) (string, error)
}
