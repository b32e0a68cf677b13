package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ValidationSmoothed, cfg.Validation.Mode)
	assert.Greater(t, cfg.Path.FreqThreshold, 0.0)
	assert.Less(t, cfg.Path.FreqThreshold, 1.0)
	assert.GreaterOrEqual(t, cfg.Path.MinSampleFrames, 10)
	assert.Len(t, cfg.Marker.Bands, 2, "red needs both hue wraparound halves")
	assert.Less(t, cfg.Marker.MinArea, cfg.Marker.MaxArea)
}
