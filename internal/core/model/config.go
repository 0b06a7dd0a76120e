package model

import "time"

// DefaultTickInterval is the countdown resolution.
const DefaultTickInterval = time.Second

// EngineConfig contains runtime settings for the countdown engine.
type EngineConfig struct {
	TickInterval time.Duration
}

// WithDefaults fills unset fields.
func (config EngineConfig) WithDefaults() EngineConfig {
	if config.TickInterval <= 0 {
		config.TickInterval = DefaultTickInterval
	}
	return config
}
