package profiler

import (
	"testing"
	"time"
)

func TestCountFrameReportsAfterInterval(t *testing.T) {
	p := NewProfiler(10 * time.Millisecond)

	if p.CountFrame() {
		t.Error("first frame should not trigger a report")
	}

	p.CountTick()
	time.Sleep(15 * time.Millisecond)
	if !p.CountFrame() {
		t.Error("expected a report after the interval elapsed")
	}

	// Counters reset after a report.
	if p.frameCount != 0 || p.tickCount != 0 {
		t.Errorf("counters not reset: frames=%d ticks=%d", p.frameCount, p.tickCount)
	}
}

func TestNewProfilerDefaultsInterval(t *testing.T) {
	p := NewProfiler(0)
	if p.reportInterval != time.Second {
		t.Errorf("reportInterval = %v, want 1s", p.reportInterval)
	}
}
