package bootstrap

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"sneakerculture/internal/adapters/config"
	errnoop "sneakerculture/internal/adapters/errors/noop"
	"sneakerculture/internal/services/checkout"
	"sneakerculture/pkg/logger"
)

func TestProvideClaimStore_DefaultsToMemory(t *testing.T) {
	store := provideClaimStore(nil)
	assert.IsType(t, &checkout.MemoryDeduplicator{}, store)
}

func TestProvideErrorTracker(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.ErrorTrackingConfig
	}{
		{name: "disabled", cfg: config.ErrorTrackingConfig{Enabled: false, SentryDSN: "https://key@sentry.example/1"}},
		{name: "no dsn", cfg: config.ErrorTrackingConfig{Enabled: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := provideErrorTracker(&config.Config{ErrorTracking: tt.cfg}, logger.Nop())
			assert.IsType(t, &errnoop.Tracker{}, tracker)
		})
	}
}

func TestLifecycle_ShutdownWithoutComponents(t *testing.T) {
	assert.NotPanics(t, func() {
		NewLifecycle().Shutdown(&sync.WaitGroup{}, nil, nil, nil, errnoop.New(), logger.Nop())
	})
}

func TestContainer_StartRequiresInit(t *testing.T) {
	c := NewContainer()
	defer c.Cancel()

	assert.Error(t, c.Start())
}
