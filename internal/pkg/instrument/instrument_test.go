package instrument

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Disabled(t *testing.T) {
	ins, err := New(context.Background(), nil)
	require.NoError(t, err)
	assert.IsType(t, &noopInstrumentation{}, ins)

	ins, err = New(context.Background(), &Config{ServiceName: "seedkeeper", LogLevel: "debug"})
	require.NoError(t, err)
	assert.IsType(t, &noopInstrumentation{}, ins)

	_, span := ins.Tracer("t").Start(context.Background(), "op")
	span.End()
	assert.NoError(t, ins.Shutdown(context.Background()))
}

func TestClampRatio(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.0, clampRatio(-1), 0)
	assert.InDelta(t, 0.25, clampRatio(0.25), 0)
	assert.InDelta(t, 1.0, clampRatio(3), 0)
}
