package progrock_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipkin/pipkin/internal/adapters/telemetry/progrock"
	"github.com/pipkin/pipkin/internal/core/ports"
)

func TestNew(t *testing.T) {
	recorder := progrock.New()
	assert.NotNil(t, recorder)
}

func TestRecord_ContextCarriesVertex(t *testing.T) {
	var buf bytes.Buffer
	recorder := progrock.NewRecorder(progrock.NewConsoleWriter(&buf))

	ctx, vertex := recorder.Record(context.Background(), "check grpcio ==1.43.0")
	require.NotNil(t, vertex)

	fromCtx, ok := ports.VertexFromContext(ctx)
	require.True(t, ok, "context should carry the recorded vertex")
	assert.Equal(t, vertex, fromCtx)

	vertex.Complete(nil)
	require.NoError(t, recorder.Close())
}
