package core

// RuntimeConfig contains configuration passed to games at initialization.
type RuntimeConfig struct {
	ScreenW  int   // Viewport width in characters
	ScreenH  int   // Viewport height in characters
	TickRate int   // Frames per second driving Step
	Seed     int64 // RNG seed for deterministic gameplay
}

// FrameMillis returns the nominal frame length for the tick rate.
func (c RuntimeConfig) FrameMillis() float64 {
	if c.TickRate <= 0 {
		return 15
	}
	return 1000 / float64(c.TickRate)
}

// GameState is the summary a game reports to the platform after each step.
type GameState struct {
	Score    int    // Current score
	Level    int    // Current level, 1-based
	Phase    string // title, running, paused, dead, scores, won
	GameOver bool   // The run has ended (dead or won)
	Won      bool   // The run ended on the final level
	Paused   bool
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
	// RunEnded is true on the single step where a run finished and its
	// score should be persisted.
	RunEnded bool
}
