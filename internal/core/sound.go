package core

// SoundHandle controls one playing sound.
type SoundHandle interface {
	Pause()
	Resume()
	Paused() bool
}

// SoundSink plays named sound cues. offset is the start position in seconds.
type SoundSink interface {
	Play(name string, offset float64, loop, autoplay bool) SoundHandle
}

// NopSound is a SoundSink that plays nothing. It records cue names so
// tests can assert on them.
type NopSound struct {
	Played []string
}

// Play records the cue and returns an inert handle.
func (n *NopSound) Play(name string, offset float64, loop, autoplay bool) SoundHandle {
	n.Played = append(n.Played, name)
	return &nopHandle{paused: !autoplay}
}

// Count returns how many times name was played.
func (n *NopSound) Count(name string) int {
	c := 0
	for _, p := range n.Played {
		if p == name {
			c++
		}
	}
	return c
}

type nopHandle struct {
	paused bool
}

func (h *nopHandle) Pause()       { h.paused = true }
func (h *nopHandle) Resume()      { h.paused = false }
func (h *nopHandle) Paused() bool { return h.paused }
