// Package replay records the per-frame input of a run so it can be
// re-simulated deterministically. Recordings are msgpack encoded.
package replay

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/tui-escape/internal/core"
	"github.com/vovakirdan/tui-escape/internal/registry"
)

// Version is the recording format version written by Save.
const Version = 1

// ErrVersion is returned by Load for recordings of another format version.
var ErrVersion = errors.New("replay: unsupported version")

// Frame is the input of one Step: how long it lasted and which actions
// each controller held.
type Frame struct {
	Millis float64                         `msgpack:"ms"`
	Held   map[core.PlayerID][]core.Action `msgpack:"held,omitempty"`
}

// Recording is a complete run: enough to rebuild the game and feed it the
// same frames.
type Recording struct {
	Version    int     `msgpack:"version"`
	RunID      string  `msgpack:"run_id"`
	Seed       int64   `msgpack:"seed"`
	Mode       string  `msgpack:"mode"`
	Difficulty string  `msgpack:"difficulty,omitempty"`
	ScreenW    int     `msgpack:"screen_w"`
	ScreenH    int     `msgpack:"screen_h"`
	Frames     []Frame `msgpack:"frames"`
}

// New starts an empty recording. The seed must be the one actually given
// to the game, never 0.
func New(mode, difficulty string, rt core.RuntimeConfig) *Recording {
	return &Recording{
		Version:    Version,
		RunID:      uuid.NewString(),
		Seed:       rt.Seed,
		Mode:       mode,
		Difficulty: difficulty,
		ScreenW:    rt.ScreenW,
		ScreenH:    rt.ScreenH,
	}
}

// Append records one frame of input.
func (r *Recording) Append(in core.MultiInputFrame, millis float64) {
	f := Frame{Millis: millis}
	for id, frame := range in.ByPlayer {
		held := frame.List()
		if len(held) == 0 {
			continue
		}
		if f.Held == nil {
			f.Held = make(map[core.PlayerID][]core.Action)
		}
		f.Held[id] = held
	}
	r.Frames = append(r.Frames, f)
}

// Input rebuilds the multi-controller frame.
func (f Frame) Input() core.MultiInputFrame {
	in := core.NewMultiInputFrame()
	for id, held := range f.Held {
		in.SetPlayer(id, core.NewInputFrame(held...))
	}
	return in
}

// Runtime returns the runtime config the run was recorded with.
func (r *Recording) Runtime() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: r.ScreenW, ScreenH: r.ScreenH, TickRate: 60, Seed: r.Seed}
}

// Duration returns the simulated milliseconds of the run.
func (r *Recording) Duration() float64 {
	total := 0.0
	for _, f := range r.Frames {
		total += f.Millis
	}
	return total
}

// Save writes the recording to path.
func (r *Recording) Save(path string) error {
	data, err := msgpack.Marshal(r)
	if err != nil {
		return fmt.Errorf("replay: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("replay: write %s: %w", path, err)
	}
	return nil
}

// Load reads a recording from path.
func Load(path string) (*Recording, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("replay: read %s: %w", path, err)
	}
	var r Recording
	if err := msgpack.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("replay: decode %s: %w", path, err)
	}
	if r.Version != Version {
		return nil, fmt.Errorf("%w %d", ErrVersion, r.Version)
	}
	return &r, nil
}

// Result summarizes a re-simulated run.
type Result struct {
	Frames   int
	State    core.GameState
	RunEnded bool
}

// Run resets g with the recorded runtime and feeds it every frame. It stops
// early at the frame that ended the run.
func (r *Recording) Run(g registry.Game) Result {
	g.Reset(r.Runtime())
	var res Result
	for i, f := range r.Frames {
		step := g.Step(f.Input(), f.Millis)
		res.Frames = i + 1
		res.State = step.State
		if step.RunEnded {
			res.RunEnded = true
			break
		}
	}
	if res.Frames == 0 {
		res.State = g.State()
	}
	return res
}
