package preferences

import (
	"strconv"
	"time"
)

// MaxDefaultDuration bounds the duration that can be remembered as a prefill.
const MaxDefaultDuration = 24 * time.Hour

// Settings defines editable user preferences. Only preferences live here;
// the countdown itself is never persisted.
type Settings struct {
	// DefaultDuration prefills the duration entry. Zero leaves it empty.
	DefaultDuration      time.Duration
	RememberLastDuration bool

	WindowWidth  float32
	WindowHeight float32
}

// DefaultSettings returns default settings for the countdown app.
func DefaultSettings() Settings {
	return Settings{
		DefaultDuration:      0,
		RememberLastDuration: true,
		WindowWidth:          420,
		WindowHeight:         320,
	}
}

// PrefillText returns the initial content of the duration entry.
func (settings Settings) PrefillText() string {
	seconds := int(settings.DefaultDuration / time.Second)
	if seconds <= 0 {
		return ""
	}
	return strconv.Itoa(seconds)
}

// ValidDefaultSeconds reports whether seconds can be stored as a prefill.
// It checks the count before conversion so huge values cannot wrap.
func ValidDefaultSeconds(seconds int) bool {
	return seconds > 0 && seconds <= int(MaxDefaultDuration/time.Second)
}

// WithAppliedDuration records a duration the user applied, when enabled.
// Durations beyond MaxDefaultDuration are not remembered.
func (settings Settings) WithAppliedDuration(seconds int) Settings {
	if !settings.RememberLastDuration || !ValidDefaultSeconds(seconds) {
		return settings
	}
	settings.DefaultDuration = time.Duration(seconds) * time.Second
	return settings
}
