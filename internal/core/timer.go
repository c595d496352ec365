package core

// Timer counts elapsed milliseconds toward a duration. It has no clock of
// its own: callers Tick it exactly once per frame.
type Timer struct {
	Elapsed  float64
	Duration float64
	// Triggered is true only for the tick on which Elapsed crossed Duration.
	Triggered bool
}

// NewTimer returns a timer of the given duration, pre-advanced by elapsed.
// NewTimer(d, d) yields a timer that starts out finished.
func NewTimer(duration, elapsed float64) Timer {
	t := Timer{Duration: duration}
	if elapsed > 0 {
		t.Tick(elapsed)
	}
	return t
}

// Finished reports whether the duration has been reached.
func (t *Timer) Finished() bool {
	return t.Elapsed >= t.Duration
}

// Tick advances the timer. It returns true on the single tick that crosses
// the threshold. Ticking a finished timer clears Triggered and returns false.
func (t *Timer) Tick(millis float64) bool {
	if t.Elapsed >= t.Duration {
		t.Triggered = false
		return false
	}
	t.Elapsed += millis
	if t.Elapsed >= t.Duration {
		t.Triggered = true
		return true
	}
	return false
}

// Reset restarts the timer with its current duration.
func (t *Timer) Reset() {
	t.Elapsed = 0
	t.Triggered = false
}

// Set reassigns duration and elapsed time and clears Triggered.
func (t *Timer) Set(duration, elapsed float64) {
	t.Duration = duration
	t.Elapsed = elapsed
	t.Triggered = false
}

// Remaining returns the milliseconds left, never negative.
func (t *Timer) Remaining() float64 {
	if t.Elapsed >= t.Duration {
		return 0
	}
	return t.Duration - t.Elapsed
}
