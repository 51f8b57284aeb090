package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"sneakerculture/pkg/errors"
)

type recordingTracker struct {
	captured []error
}

func (r *recordingTracker) CaptureError(ctx context.Context, err error, tags map[string]string) error {
	r.captured = append(r.captured, err)
	return nil
}

func (r *recordingTracker) CaptureMessage(ctx context.Context, message string, level errors.Level, tags map[string]string) error {
	return nil
}

func (r *recordingTracker) AddBreadcrumb(ctx context.Context, message string, category string, level errors.Level, data map[string]interface{}) {
}

func (r *recordingTracker) Flush(ctx context.Context) error { return nil }

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.log")

	log, err := New(Options{Level: "debug", Env: "production", File: path})
	require.NoError(t, err)

	log.Infow("order received", "items", 2)
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "order received")
	assert.Contains(t, string(data), `"items":2`)
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	log, err := New(Options{Level: "chatty", Env: "development"})
	require.NoError(t, err)

	assert.False(t, log.Desugar().Core().Enabled(zap.DebugLevel))
	assert.True(t, log.Desugar().Core().Enabled(zap.InfoLevel))
}

func TestLogger_ErrorForwardsToTracker(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	tracker := &recordingTracker{}

	log := Wrap(zap.New(core))
	log.errorTracker = tracker

	child := log.With("component", "checkout")
	child.Errorf("send failed: %s", "timeout")

	require.Len(t, tracker.captured, 1)
	assert.EqualError(t, tracker.captured[0], "send failed: timeout")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "checkout", logs.All()[0].ContextMap()["component"])
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().Infow("ignored", "k", "v")
		Nop().Error("ignored")
	})
}
