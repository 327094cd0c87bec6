package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitialize(t *testing.T) {
	t.Cleanup(func() { Set(nil) })

	require.NoError(t, Initialize(false, ""))
	assert.False(t, JSONOutput)

	require.NoError(t, Initialize(true, "warn"))
	assert.True(t, JSONOutput)
	assert.False(t, Logger.Desugar().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, Logger.Desugar().Core().Enabled(zapcore.WarnLevel))
}

func TestInitializeRejectsUnknownLevel(t *testing.T) {
	t.Cleanup(func() { Set(nil) })

	err := Initialize(false, "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loud")
}

func TestNamedAddsComponent(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Set(zap.New(core).Sugar())
	t.Cleanup(func() { Set(nil) })

	Named("captcha").Infow("started", FieldCount, 3)

	entries := logs.All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "captcha", ctx[FieldComponent])
	assert.EqualValues(t, 3, ctx[FieldCount])
}
