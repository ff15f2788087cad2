package observability

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(" warning "))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestInitWithoutCollector(t *testing.T) {
	ctx := context.Background()
	instruments, shutdown, err := Init(ctx, Options{ServiceName: "courier-test", LogLevel: "error"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = shutdown(ctx) })

	require.NotNil(t, instruments.Logger)
	assert.False(t, instruments.Logger.Enabled(ctx, slog.LevelWarn))

	_, span := instruments.Tracer("test").Start(ctx, "smoke")
	span.End()
	counter, err := instruments.Meter("test").Int64Counter("smoke")
	require.NoError(t, err)
	counter.Add(ctx, 1)
}

func TestNilInstrumentsFallBack(t *testing.T) {
	var instruments *Instruments
	assert.NotNil(t, instruments.Tracer("x"))
	assert.NotNil(t, instruments.Meter("x"))
}
