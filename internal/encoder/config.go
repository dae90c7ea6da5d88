package encoder

import (
	"os"
	"strconv"

	"github.com/rcarmo/go-rdp/internal/logging"
)

const (
	envFramesInFlight    = "XRDP_GFX_FRAMES_IN_FLIGHT"
	envMaxCompressedBytes = "XRDP_GFX_MAX_COMPRESSED_BYTES"

	defaultFramesInFlight = 2
	minFramesInFlight     = 1
	maxFramesInFlight     = 16

	defaultMaxCompressedBytes = 3 * 1024 * 1024
	minMaxCompressedBytes     = 64 * 1024
	maxMaxCompressedBytes     = 256 * 1024 * 1024
)

// Config holds the encoder's two runtime tunables. In GFX mode both stay
// within their [min, max] ranges (an out-of-range env value falls back to
// the default); in legacy mode FramesInFlight is only raised to at least 1
// and MaxCompressedBytes is the client's value rounded down to a multiple
// of 16, with no range check.
type Config struct {
	FramesInFlight    int
	MaxCompressedBytes int
}

// loadTunables derives Config the way the source does: from environment
// overrides in GFX mode, or from client-reported values in legacy mode.
func loadTunables(gfxMode bool, caps ClientCapabilities) Config {
	var cfg Config

	if gfxMode {
		cfg.FramesInFlight = getIntEnvClamped(envFramesInFlight,
			defaultFramesInFlight, minFramesInFlight, maxFramesInFlight)
		cfg.MaxCompressedBytes = getIntEnvClamped(envMaxCompressedBytes,
			defaultMaxCompressedBytes, minMaxCompressedBytes, maxMaxCompressedBytes)
	} else {
		cfg.FramesInFlight = caps.MaxUnacknowledgedFrameCount
		// 16-byte alignment mask: a transport fragment-size constraint
		// carried over unchanged from the legacy fastpath framing.
		cfg.MaxCompressedBytes = caps.MaxFastPathFragBytes &^ 15
	}

	if cfg.FramesInFlight < minFramesInFlight {
		cfg.FramesInFlight = minFramesInFlight
	}

	return cfg
}

// getIntEnvClamped reads an integer environment variable, returning
// defaultValue if unset or out of [min, max]. Invalid values are logged
// and ignored, never rejected outright.
func getIntEnvClamped(key string, defaultValue, min, max int) int {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < min || value > max {
		logging.Warn("encoder: %s set but invalid (%q), using default %d", key, raw, defaultValue)
		return defaultValue
	}

	return value
}
