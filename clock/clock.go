package clock

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/chronos/errors"
)

// fallbackResolution is assumed when the resolution query fails or
// reports a non-positive value.
const fallbackResolution int64 = 1

// Timestamp is a reading in seconds since an unspecified reference point.
// Only the difference between two readings of the same process is meaningful.
type Timestamp float64

// Seconds returns the reading as plain float seconds.
func (t Timestamp) Seconds() float64 {
	return float64(t)
}

// Sub returns the duration t-u.
func (t Timestamp) Sub(u Timestamp) time.Duration {
	return time.Duration((float64(t) - float64(u)) * float64(time.Second))
}

// Reading is a raw clock sample.
type Reading struct {
	Sec  int64
	Nsec int64
}

// Source is the OS facility a Reader samples.
type Source interface {
	// Gettime returns the current monotonic reading.
	Gettime() (Reading, error)
	// Getres returns the clock resolution in nanoseconds.
	Getres() (int64, error)
}

// Reader converts monotonic clock readings into float seconds.
// The resolution multiplier is computed on first use and never again.
// Reader is safe for concurrent use.
type Reader struct {
	src        Source
	once       sync.Once
	resolution int64
	multiplier float64
}

// NewReader returns a Reader sampling src. A nil src samples System().
func NewReader(src Source) *Reader {
	if src == nil {
		src = System()
	}
	return &Reader{src: src}
}

var (
	defaultReader     *Reader
	defaultReaderOnce sync.Once
)

// Default returns the process-wide Reader backed by the system clock.
func Default() *Reader {
	defaultReaderOnce.Do(func() {
		defaultReader = NewReader(System())
	})
	return defaultReader
}

// Now samples the process-wide Reader.
func Now() (Timestamp, error) {
	return Default().Now()
}

// Now returns the current monotonic time in seconds. A failed clock read is
// reported as a ClockUnavailable error and is never retried.
func (r *Reader) Now() (Timestamp, error) {
	r.once.Do(r.init)

	rd, err := r.src.Gettime()
	if err != nil {
		return 0, errors.ClockUnavailable(err)
	}
	return Timestamp(float64(rd.Sec) + float64(rd.Nsec)*r.multiplier), nil
}

// Multiplier returns the cached resolution multiplier, computing it if needed.
func (r *Reader) Multiplier() float64 {
	r.once.Do(r.init)
	return r.multiplier
}

// Resolution returns the resolution in nanoseconds the multiplier was derived from.
func (r *Reader) Resolution() int64 {
	r.once.Do(r.init)
	return r.resolution
}

func (r *Reader) init() {
	res, err := r.src.Getres()
	switch {
	case err != nil:
		Logger().Warn("clock resolution query failed, assuming nanosecond resolution",
			zap.Error(err))
		res = fallbackResolution
	case res <= 0:
		Logger().Warn("clock reported non-positive resolution, assuming nanosecond resolution",
			zap.Int64("resolution_ns", res))
		res = fallbackResolution
	}
	r.resolution = res
	r.multiplier = multiplierFor(res)
	Logger().Debug("clock multiplier initialized",
		zap.Int64("resolution_ns", res),
		zap.Float64("multiplier", r.multiplier))
}

func multiplierFor(resolutionNs int64) float64 {
	return 1. / (1.e9 / float64(resolutionNs))
}
