package metrics

import (
	"testing"
	"time"
)

func TestFinalize(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	s := StepMetrics{Start: start, End: start.Add(1500 * time.Millisecond)}
	s.Finalize()
	if s.DurationMs != 1500 {
		t.Errorf("step duration = %d, want 1500", s.DurationMs)
	}

	r := RunMetrics{Start: start, End: start.Add(3 * time.Second)}
	r.Finalize()
	if r.DurationMs != 3000 {
		t.Errorf("run duration = %d, want 3000", r.DurationMs)
	}
}
