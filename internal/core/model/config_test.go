package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWithDefaults(t *testing.T) {
	assert.Equal(t, DefaultTickInterval, EngineConfig{}.WithDefaults().TickInterval)
	assert.Equal(t, DefaultTickInterval, EngineConfig{TickInterval: -time.Second}.WithDefaults().TickInterval)
	assert.Equal(t, 250*time.Millisecond, EngineConfig{TickInterval: 250 * time.Millisecond}.WithDefaults().TickInterval)
}
