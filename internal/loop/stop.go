// stop.go implements the file-based stop signal: a zero-byte marker inside
// the control directory, polled at iteration boundaries and consumed on
// observation.
package loop

import (
	"errors"
	"os"
	"path/filepath"
)

// StopMarkerName is the marker filename inside the control directory.
const StopMarkerName = "STOP"

// StopMarkerPath returns the marker's path for a control directory.
func StopMarkerPath(controlDir string) string {
	return filepath.Join(controlDir, StopMarkerName)
}

// StopRequested reports whether the stop marker is present.
func StopRequested(controlDir string) bool {
	_, err := os.Stat(StopMarkerPath(controlDir))
	return err == nil
}

// ClearStop removes the stop marker and reports whether one existed. Used
// both to consume an observed signal and to clean a stale marker left by a
// previous run.
func ClearStop(controlDir string) (bool, error) {
	err := os.Remove(StopMarkerPath(controlDir))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// RequestStop creates the stop marker. Exposed for the `ralph stop`
// convenience command and for tests.
func RequestStop(controlDir string) error {
	f, err := os.OpenFile(StopMarkerPath(controlDir), os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	return f.Close()
}
