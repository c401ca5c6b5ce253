package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/pipkin/pipkin/internal/app"
	"github.com/pipkin/pipkin/internal/core/domain"
	"github.com/pipkin/pipkin/internal/core/ports/mocks"
)

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := mocks.NewMockLogger(ctrl)

	application := app.New(
		mocks.NewMockManifestCodec(ctrl),
		mocks.NewMockVerifier(ctrl),
		mocks.NewMockLockStore(ctrl),
		mocks.NewMockWatcher(ctrl),
		mockLogger,
	)

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{
			App:    application,
			Logger: mockLogger,
		}, func() {}, nil
	}

	stderr := new(bytes.Buffer)

	exitCode := run(context.Background(), []string{"version"}, stderr, provider)
	assert.Equal(t, 0, exitCode)
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run returns 1 when the command execution fails.
func TestRun_ExecutionError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCodec := mocks.NewMockManifestCodec(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)
	// Stub Logger Error
	mockLogger.EXPECT().Error(gomock.Any()).AnyTimes()

	application := app.New(
		mockCodec,
		mocks.NewMockVerifier(ctrl),
		mocks.NewMockLockStore(ctrl),
		mocks.NewMockWatcher(ctrl),
		mockLogger,
	)

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{
			App:    application,
			Logger: mockLogger,
		}, func() {}, nil
	}

	// Mock Load failing to simulate execution failure
	mockCodec.EXPECT().Load("Pipfile").Return(nil, errors.New("load failed"))

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"validate"}, stderr, provider, func(a *app.App) {
		a.WithOutput(io.Discard)
	})

	assert.Equal(t, 1, exitCode)
}

// TestRun_VerificationFailure verifies that a failed verification exits 1
// without logging: the report already went to the output stream.
func TestRun_VerificationFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCodec := mocks.NewMockManifestCodec(ctrl)
	mockVerifier := mocks.NewMockVerifier(ctrl)
	// No Error expectation: the mock fails the test if run logs the failure.
	mockLogger := mocks.NewMockLogger(ctrl)

	application := app.New(
		mockCodec,
		mockVerifier,
		mocks.NewMockLockStore(ctrl),
		mocks.NewMockWatcher(ctrl),
		mockLogger,
	)

	manifest := &domain.Manifest{
		Sources: []domain.Source{
			{Name: "pypi", URL: "https://pypi.org/simple", VerifySSL: true},
		},
		DevPackages: []domain.Requirement{
			{Name: "grpcio", Constraint: "==1.43.0"},
		},
		Requires: domain.RuntimeConstraint{PythonVersion: "3.10"},
	}
	failed := &domain.Report{
		Findings: []domain.Finding{{
			Group:      domain.GroupDev,
			Name:       "grpcio",
			Constraint: "==1.43.0",
			Status:     domain.FindingUnsatisfiable,
			Detail:     "none of 2 releases on pypi satisfies ==1.43.0",
		}},
		Runtime: &domain.RuntimeFinding{Required: "3.10", Actual: "3.10.12", Status: domain.RuntimeOK},
	}

	mockCodec.EXPECT().Load("Pipfile").Return(manifest, nil)
	mockVerifier.EXPECT().Verify(gomock.Any(), manifest).Return(failed, nil)

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{
			App:    application,
			Logger: mockLogger,
		}, func() {}, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"verify"}, stderr, provider, func(a *app.App) {
		a.WithOutput(io.Discard)
	})

	assert.Equal(t, 1, exitCode)
	assert.Empty(t, stderr.String())
}

// TestRun_Signal verifies that the context is canceled on signal.
func TestRun_Signal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// We need a load that blocks until the context is done.
	blockCh := make(chan struct{})

	mockCodec := mocks.NewMockManifestCodec(ctrl)
	mockCodec.EXPECT().Load(gomock.Any()).DoAndReturn(func(_ string) (*domain.Manifest, error) {
		select {
		case <-blockCh:
			return nil, context.Canceled
		case <-time.After(5 * time.Second):
			return nil, errors.New("timeout in mock")
		}
	})

	mockLogger := mocks.NewMockLogger(ctrl)
	// Allow logging of the error when context is canceled
	mockLogger.EXPECT().Error(gomock.Any()).AnyTimes()

	application := app.New(
		mockCodec,
		mocks.NewMockVerifier(ctrl),
		mocks.NewMockLockStore(ctrl),
		mocks.NewMockWatcher(ctrl),
		mockLogger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan int)

	go func() {
		errCh <- run(ctx, []string{"validate"}, io.Discard, func(context.Context) (*app.Components, func(), error) {
			return &app.Components{App: application, Logger: mockLogger}, func() {}, nil
		}, func(a *app.App) {
			a.WithOutput(io.Discard)
		})
	}()

	// Wait a bit to ensure run() reaches Load()
	time.Sleep(100 * time.Millisecond)

	cancel()
	close(blockCh)

	select {
	case ret := <-errCh:
		assert.NotEqual(t, 0, ret)
	case <-time.After(2 * time.Second):
		t.Fatal("TestRun_Signal timed out waiting for run() to return")
	}
}
