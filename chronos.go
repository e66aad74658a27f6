package chronos

import "github.com/wippyai/chronos/clock"

// Nanotime returns the current monotonic time in seconds from the
// process-wide clock reader.
func Nanotime() (float64, error) {
	ts, err := clock.Now()
	if err != nil {
		return 0, err
	}
	return ts.Seconds(), nil
}
