package core

import "testing"

func TestTimerTriggersOnce(t *testing.T) {
	tests := []struct {
		name     string
		duration float64
		ticks    []float64
		fireAt   int // index of the tick expected to return true, -1 for none
	}{
		{"exact crossing", 100, []float64{50, 50, 50}, 1},
		{"overshoot", 100, []float64{60, 60, 60}, 1},
		{"single big tick", 100, []float64{500, 15}, 0},
		{"never reached", 100, []float64{15, 15, 15}, -1},
		{"zero duration starts finished", 0, []float64{15, 15}, -1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			timer := NewTimer(tc.duration, 0)
			sum := 0.0
			for i, ms := range tc.ticks {
				if sum < tc.duration {
					sum += ms
				}
				fired := timer.Tick(ms)
				if fired != (i == tc.fireAt) {
					t.Errorf("Tick #%d = %v, expected %v", i, fired, i == tc.fireAt)
				}
				if timer.Triggered != (i == tc.fireAt) {
					t.Errorf("Triggered after tick #%d = %v, expected %v", i, timer.Triggered, i == tc.fireAt)
				}
				if timer.Finished() != (sum >= tc.duration) {
					t.Errorf("Finished() after tick #%d = %v, expected %v", i, timer.Finished(), sum >= tc.duration)
				}
			}
		})
	}
}

func TestTimerFinishedMatchesElapsed(t *testing.T) {
	timer := NewTimer(250, 0)
	for i := 0; i < 40; i++ {
		timer.Tick(15)
		if timer.Finished() != (timer.Elapsed >= timer.Duration) {
			t.Fatalf("Finished() = %v with elapsed %v of %v", timer.Finished(), timer.Elapsed, timer.Duration)
		}
	}
	if !timer.Finished() {
		t.Error("timer should be finished after 600ms")
	}
}

func TestNewTimerPreElapsed(t *testing.T) {
	timer := NewTimer(1000, 1000)
	if !timer.Finished() {
		t.Error("NewTimer(d, d) should start finished")
	}
	timer.Tick(15)
	if timer.Triggered {
		t.Error("Triggered should clear on the next tick")
	}
}

func TestTimerResetAndSet(t *testing.T) {
	timer := NewTimer(100, 0)
	timer.Tick(150)
	timer.Reset()
	if timer.Finished() || timer.Triggered {
		t.Errorf("Reset() left timer finished=%v triggered=%v", timer.Finished(), timer.Triggered)
	}
	if timer.Duration != 100 {
		t.Errorf("Reset() changed duration to %v", timer.Duration)
	}

	timer.Set(500, 200)
	if timer.Duration != 500 || timer.Elapsed != 200 {
		t.Errorf("Set() = (%v, %v), expected (500, 200)", timer.Duration, timer.Elapsed)
	}
	if got := timer.Remaining(); got != 300 {
		t.Errorf("Remaining() = %v, expected 300", got)
	}
}
