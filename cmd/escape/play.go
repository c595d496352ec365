package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-escape/internal/audio"
	"github.com/vovakirdan/tui-escape/internal/core"
	"github.com/vovakirdan/tui-escape/internal/platform/tui"
	"github.com/vovakirdan/tui-escape/internal/registry"
	"github.com/vovakirdan/tui-escape/internal/replay"
	"github.com/vovakirdan/tui-escape/internal/storage"
)

var (
	flagRecord string
	flagMute   bool
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a game mode",
	Long: `Start playing the given mode (default: campaign).

Modes:
  campaign     - Cooperative run through every level
  competitive  - Players race each other for score
  sandbox      - Every item unlocked, nothing saved

Controls (player 1):
  Left/Right   - Move
  Up/Down      - Climb, exit, kiosk browse / drop through ledges
  Space        - Jump / dodge
  Z            - Use item
  X            - Next item
  C/Enter      - Dash, join, start
  0            - Camera follows you
  P/Esc        - Pause
  B            - Back (when paused or over)
  Q/Ctrl+C     - Quit

Players 2-4 join with their dash key: F (WASD + G E R),
H (IJKL + M U O), or keypad 3 (keypad 4 6 8 5 + 7 9).

Examples:
  escape play
  escape play competitive
  escape play --difficulty hard
  escape play --seed 42 --record run.escape`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagRecord, "record", "", "Record the run's input to this file")
	playCmd.Flags().BoolVar(&flagMute, "mute", false, "Disable sound")
}

// runtimeConfig returns the runtime config for the current terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     seed,
	}
}

// openStore opens the score store. Failure is not fatal; the game runs
// without persistence.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database, scores will not be saved", "error", err)
		return nil
	}
	return store
}

// gameLogger returns the logger handed to the game while the terminal UI
// runs, and a close func.
func gameLogger() (*log.Logger, func()) {
	if flagLogFile == "" {
		return log.New(io.Discard), func() {}
	}
	f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		logger.Warn("could not open log file", "path", flagLogFile, "error", err)
		return log.New(io.Discard), func() {}
	}
	return newLogger(f), func() { f.Close() }
}

// newSound starts the audio engine, or returns nil when muted or when no
// output device is available.
func newSound(l *log.Logger) (*audio.Engine, func()) {
	if flagMute {
		return nil, func() {}
	}
	eng := audio.New(l)
	if err := eng.Init(); err != nil {
		logger.Warn("audio unavailable", "error", err)
		return nil, func() {}
	}
	return eng, eng.Close
}

func runPlay(_ *cobra.Command, args []string) error {
	mode := "campaign"
	if len(args) > 0 {
		mode = args[0]
	}
	if !registry.Exists(mode) {
		return fmt.Errorf("unknown mode %q, run 'escape list' to see available modes", mode)
	}

	store := openStore()
	defer store.Close()

	return playMode(mode, store, runtimeConfig())
}

// playMode runs one mode until the player quits or goes back.
func playMode(mode string, store *storage.Store, cfg core.RuntimeConfig) error {
	game, err := registry.Create(mode)
	if err != nil {
		return err
	}

	gl, closeLog := gameLogger()
	defer closeLog()

	model := tui.NewModel(game, store, cfg).WithLogger(gl)

	eng, closeSound := newSound(gl)
	defer closeSound()
	if eng != nil {
		model = model.WithSound(eng)
	}

	var rec *replay.Recording
	if flagRecord != "" {
		rec = replay.New(mode, flagDifficulty, cfg)
		model = model.WithRecording(rec)
	}

	final, runErr := tui.Run(model)

	if rec != nil {
		if err := rec.Save(flagRecord); err != nil {
			logger.Error("could not save recording", "error", err)
		} else {
			logger.Info("recording saved", "path", flagRecord, "frames", len(rec.Frames), "seed", rec.Seed)
		}
	}
	if runErr != nil {
		return fmt.Errorf("running game: %w", runErr)
	}

	st := final.State()
	logger.Debug("session over", "mode", mode, "score", st.Score, "level", st.Level)
	if id := final.LastRunID(); id != "" {
		logger.Info("run saved", "id", id)
	}
	return nil
}
