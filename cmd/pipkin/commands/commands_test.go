package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipkin/pipkin/cmd/pipkin/commands"
	"github.com/pipkin/pipkin/internal/app"
	"github.com/pipkin/pipkin/internal/build"
)

type mockApp struct {
	validateFunc func(ctx context.Context, path string) error
	formatFunc   func(ctx context.Context, path string, opts app.FormatOptions) error
	verifyFunc   func(ctx context.Context, path string) error
	lockFunc     func(ctx context.Context, path string, opts app.LockOptions) error
	diffFunc     func(ctx context.Context, oldPath, newPath string) error
	watchFunc    func(ctx context.Context, path string, opts app.WatchOptions) error
}

func (m *mockApp) Validate(ctx context.Context, path string) error {
	if m.validateFunc != nil {
		return m.validateFunc(ctx, path)
	}
	return nil
}

func (m *mockApp) Format(ctx context.Context, path string, opts app.FormatOptions) error {
	if m.formatFunc != nil {
		return m.formatFunc(ctx, path, opts)
	}
	return nil
}

func (m *mockApp) Verify(ctx context.Context, path string) error {
	if m.verifyFunc != nil {
		return m.verifyFunc(ctx, path)
	}
	return nil
}

func (m *mockApp) Lock(ctx context.Context, path string, opts app.LockOptions) error {
	if m.lockFunc != nil {
		return m.lockFunc(ctx, path, opts)
	}
	return nil
}

func (m *mockApp) Diff(ctx context.Context, oldPath, newPath string) error {
	if m.diffFunc != nil {
		return m.diffFunc(ctx, oldPath, newPath)
	}
	return nil
}

func (m *mockApp) Watch(ctx context.Context, path string, opts app.WatchOptions) error {
	if m.watchFunc != nil {
		return m.watchFunc(ctx, path, opts)
	}
	return nil
}

func TestCommands_Validate(t *testing.T) {
	t.Run("uses the default manifest path", func(t *testing.T) {
		var capturedPath string

		mock := &mockApp{
			validateFunc: func(_ context.Context, path string) error {
				capturedPath = path
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"validate"})

		err := cli.Execute(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Pipfile", capturedPath)
	})

	t.Run("honors the --file flag", func(t *testing.T) {
		var capturedPath string

		mock := &mockApp{
			validateFunc: func(_ context.Context, path string) error {
				capturedPath = path
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"validate", "--file", "services/api/Pipfile"})

		err := cli.Execute(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "services/api/Pipfile", capturedPath)
	})
}

func TestCommands_Fmt(t *testing.T) {
	t.Run("wires the check flag", func(t *testing.T) {
		var capturedOpts app.FormatOptions

		mock := &mockApp{
			formatFunc: func(_ context.Context, _ string, opts app.FormatOptions) error {
				capturedOpts = opts
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"fmt", "--check"})

		err := cli.Execute(context.Background())
		require.NoError(t, err)
		assert.True(t, capturedOpts.Check)
	})

	t.Run("defaults to rewriting", func(t *testing.T) {
		var capturedOpts app.FormatOptions

		mock := &mockApp{
			formatFunc: func(_ context.Context, _ string, opts app.FormatOptions) error {
				capturedOpts = opts
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"fmt"})

		err := cli.Execute(context.Background())
		require.NoError(t, err)
		assert.False(t, capturedOpts.Check)
	})
}

func TestCommands_Verify(t *testing.T) {
	t.Run("returns error on verification failure", func(t *testing.T) {
		mock := &mockApp{
			verifyFunc: func(_ context.Context, _ string) error {
				return errors.New("simulated error")
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"verify"})
		// Silence output to avoid polluting test logs
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})

	t.Run("propagates the manifest path", func(t *testing.T) {
		var capturedPath string

		mock := &mockApp{
			verifyFunc: func(_ context.Context, path string) error {
				capturedPath = path
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"verify", "-f", "worker/Pipfile"})

		err := cli.Execute(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "worker/Pipfile", capturedPath)
	})
}

func TestCommands_Lock(t *testing.T) {
	t.Run("wires the check flag", func(t *testing.T) {
		var capturedOpts app.LockOptions

		mock := &mockApp{
			lockFunc: func(_ context.Context, _ string, opts app.LockOptions) error {
				capturedOpts = opts
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"lock", "--check"})

		err := cli.Execute(context.Background())
		require.NoError(t, err)
		assert.True(t, capturedOpts.Check)
	})
}

func TestCommands_Diff(t *testing.T) {
	t.Run("passes both manifest paths", func(t *testing.T) {
		var capturedOld, capturedNew string

		mock := &mockApp{
			diffFunc: func(_ context.Context, oldPath, newPath string) error {
				capturedOld = oldPath
				capturedNew = newPath
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"diff", "a/Pipfile", "b/Pipfile"})

		err := cli.Execute(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "a/Pipfile", capturedOld)
		assert.Equal(t, "b/Pipfile", capturedNew)
	})

	t.Run("rejects a single argument", func(t *testing.T) {
		mock := &mockApp{
			diffFunc: func(_ context.Context, _, _ string) error {
				panic("should not be called")
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"diff", "a/Pipfile"})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		err := cli.Execute(context.Background())
		require.Error(t, err)
	})
}

func TestCommands_Watch(t *testing.T) {
	t.Run("wires the verify flag", func(t *testing.T) {
		var capturedOpts app.WatchOptions

		mock := &mockApp{
			watchFunc: func(_ context.Context, _ string, opts app.WatchOptions) error {
				capturedOpts = opts
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"watch", "--verify"})

		err := cli.Execute(context.Background())
		require.NoError(t, err)
		assert.True(t, capturedOpts.Verify)
	})
}

func TestCommands_Version(t *testing.T) {
	mock := &mockApp{}
	cli := commands.New(mock)

	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"version"})

	err := cli.Execute(context.Background())
	require.NoError(t, err)

	assert.Contains(t, buf.String(), build.Version)
}
