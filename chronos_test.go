package chronos

import (
	stderrors "errors"
	"runtime"
	"testing"

	"github.com/wippyai/chronos/errors"
)

func TestNanotime(t *testing.T) {
	t1, err := Nanotime()
	if runtime.GOOS != "linux" {
		if !stderrors.Is(err, errors.ErrClockUnavailable) {
			t.Fatalf("expected ClockUnavailable on %s, got %v", runtime.GOOS, err)
		}
		return
	}
	if err != nil {
		t.Fatalf("Nanotime failed: %v", err)
	}

	t2, err := Nanotime()
	if err != nil {
		t.Fatalf("Nanotime failed: %v", err)
	}
	if t2 < t1 {
		t.Errorf("clock went backwards: %v < %v", t2, t1)
	}
	if t1 < 0 {
		t.Errorf("negative reading %v", t1)
	}
}
