package countdown

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// maxDurationSeconds is the largest representable duration; larger finite
// input is clamped to it.
const maxDurationSeconds = math.MaxInt

// FormatRemaining renders whole seconds as zero-padded MM:SS. Minutes are not
// wrapped into hours, so 6000 seconds is "100:00".
func FormatRemaining(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// ParseDurationInput converts raw form text into a duration in seconds.
// Blank, non-numeric, negative and non-finite input are rejected; huge values
// are clamped to the largest int.
func ParseDurationInput(raw string) (int, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return wholeSeconds(parsed)
}

func wholeSeconds(value float64) (int, bool) {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0, false
	}
	if value >= float64(maxDurationSeconds) {
		return maxDurationSeconds, true
	}
	return int(math.Trunc(value)), true
}
