//go:build !linux

package clock

import (
	"fmt"
	"runtime"
)

var errUnsupported = fmt.Errorf("CLOCK_MONOTONIC not supported on %s", runtime.GOOS)

type systemSource struct{}

// System returns a Source that always fails: only Linux CLOCK_MONOTONIC is
// supported.
func System() Source {
	return systemSource{}
}

func (systemSource) Gettime() (Reading, error) {
	return Reading{}, errUnsupported
}

func (systemSource) Getres() (int64, error) {
	return 0, errUnsupported
}
