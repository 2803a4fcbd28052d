package flip

import (
	"os"
	"strings"
)

// ReducedMotionEnv is the environment variable consulted by
// DetectEnvironment for the reduced-motion accessibility preference.
const ReducedMotionEnv = "FLIP_REDUCED_MOTION"

// Environment holds process-wide preferences resolved once when a Scheduler
// is constructed.
type Environment struct {
	// ReducedMotion suppresses every animation side effect while keeping the
	// reconciliation lifecycle unchanged.
	ReducedMotion bool
}

// DetectEnvironment reads the current process environment.
func DetectEnvironment() Environment {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(ReducedMotionEnv))) {
	case "1", "true", "yes", "on", "reduce":
		return Environment{ReducedMotion: true}
	}
	return Environment{}
}
