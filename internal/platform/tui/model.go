package tui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-escape/internal/core"
	"github.com/vovakirdan/tui-escape/internal/registry"
	"github.com/vovakirdan/tui-escape/internal/replay"
	"github.com/vovakirdan/tui-escape/internal/storage"
)

// soundSetter is implemented by games that play cues directly, loops and
// delayed cues included.
type soundSetter interface {
	SetSound(core.SoundSink)
}

// logSetter is implemented by games that accept a logger.
type logSetter interface {
	SetLogger(*log.Logger)
}

// Model is the Bubble Tea model for running a game.
type Model struct {
	game      registry.Game
	screen    *core.Screen
	store     *storage.Store
	sound     core.SoundSink
	direct    bool // the game plays its own cues through sound
	logger    *log.Logger
	recording *replay.Recording
	config    core.RuntimeConfig
	keys      *KeyMapper
	holds     *Holds
	lastTick  time.Time
	gameState core.GameState
	lastRunID string
	nested    bool // hosted by a session; back returns to its menu
	quitting  bool
	back      bool
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	m := Model{
		game:   game,
		screen: core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:  store,
		config: cfg,
		keys:   NewKeyMapper(),
		holds:  DefaultHolds(),
		logger: log.New(io.Discard),
	}
	return m
}

// WithLogger logs run results to l and hands it to the game.
func (m Model) WithLogger(l *log.Logger) Model {
	if l == nil {
		return m
	}
	m.logger = l
	if ls, ok := m.game.(logSetter); ok {
		ls.SetLogger(l)
	}
	return m
}

// WithSound plays the game's cues through s.
func (m Model) WithSound(s core.SoundSink) Model {
	m.sound = s
	if ss, ok := m.game.(soundSetter); ok && s != nil {
		ss.SetSound(s)
		m.direct = true
	}
	return m
}

// WithRecording appends every frame's input to r.
func (m Model) WithRecording(r *replay.Recording) Model {
	m.recording = r
	return m
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg, time.Now())

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg, now time.Time) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		m.saveScreenshot()
		return m, nil
	case "b":
		// Back to the menu from a paused or finished game
		if m.gameState.Paused || m.gameState.GameOver {
			m.back = true
			if !m.nested {
				return m, tea.Quit
			}
		}
		return m, nil
	}

	b, ok, isQuit := m.keys.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}
	if ok {
		m.holds.Press(b, now)
	}
	return m, nil
}

// handleResize processes window resize events. The game relayouts on its
// next Render; the run itself is unaffected.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.back && m.nested {
		return m, nil
	}

	millis := frameMillis(m.lastTick, now, m.config.FrameMillis())
	m.lastTick = now

	in := m.holds.Frame(now)
	if m.recording != nil {
		m.recording.Append(in, millis)
	}

	result := m.game.Step(in, millis)
	m.gameState = result.State
	m.forwardEvents()

	if result.RunEnded {
		m.saveRun(result.State)
	}

	return m, tickCmd(m.config.TickRate)
}

// forwardEvents plays the cues of the last step for games that do not play
// them directly.
func (m *Model) forwardEvents() {
	if m.direct || m.sound == nil {
		return
	}
	es, ok := m.game.(registry.EventSource)
	if !ok {
		return
	}
	for _, name := range es.Events() {
		m.sound.Play(name, 0, false, true)
	}
}

// saveRun persists a finished run. Storage failures never stop the game.
func (m *Model) saveRun(st core.GameState) {
	id, err := m.store.AddScore(st.Score, st.Level, st.Won, m.game.ID())
	switch {
	case errors.Is(err, storage.ErrNoStore):
		m.logger.Debug("run not saved, no score store", "score", st.Score)
	case err != nil:
		m.logger.Warn("could not save run", "error", err)
	default:
		m.lastRunID = id
		m.logger.Info("run saved", "id", id, "mode", m.game.ID(), "score", st.Score, "level", st.Level, "won", st.Won)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".escape", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("could not create screenshot directory", "error", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("could not save screenshot", "error", err)
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// State returns the game state after the last tick.
func (m Model) State() core.GameState { return m.gameState }

// LastRunID returns the id of the last persisted run, if any.
func (m Model) LastRunID() string { return m.lastRunID }

// Recording returns the input recording, or nil when not recording.
func (m Model) Recording() *replay.Recording { return m.recording }

// IsQuitting returns true if the user requested to quit entirely.
func (m Model) IsQuitting() bool { return m.quitting }

// BackToMenu returns true if the user asked to go back to the menu.
func (m Model) BackToMenu() bool { return m.back }

// Run starts the Bubble Tea program with the given model and returns the
// model as it was when the program ended.
func Run(model Model) (Model, error) {
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if err != nil {
		return model, err
	}
	if fm, ok := final.(Model); ok {
		return fm, nil
	}
	return model, nil
}
