package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-escape/internal/core"
	"github.com/vovakirdan/tui-escape/internal/registry"
	"github.com/vovakirdan/tui-escape/internal/replay"
	"github.com/vovakirdan/tui-escape/internal/storage"
)

// stubGame ends its run after endAfter steps and emits one cue per step.
type stubGame struct {
	id       string
	endAfter int
	steps    int
	millis   []float64
	inputs   []core.MultiInputFrame
	state    core.GameState
}

func (g *stubGame) ID() string                   { return g.id }
func (g *stubGame) Title() string                { return "Stub " + g.id }
func (g *stubGame) Reset(cfg core.RuntimeConfig) { g.steps = 0; g.state = core.GameState{Level: 1} }
func (g *stubGame) State() core.GameState        { return g.state }
func (g *stubGame) Events() []string             { return []string{"hit"} }
func (g *stubGame) Render(dst *core.Screen)      { dst.DrawText(0, 0, "stub") }
func (g *stubGame) Step(in core.MultiInputFrame, millis float64) core.StepResult {
	g.steps++
	g.millis = append(g.millis, millis)
	g.inputs = append(g.inputs, in)
	g.state.Score = g.steps
	ended := g.steps == g.endAfter
	if ended {
		g.state.GameOver = true
		g.state.Won = true
	}
	return core.StepResult{State: g.state, RunEnded: ended}
}

func init() {
	registry.Register("stub", func() registry.Game { return &stubGame{id: "stub"} })
	registry.Register("campaign", func() registry.Game { return &stubGame{id: "campaign"} })
}

func testModel(g *stubGame, store *storage.Store) Model {
	m := NewModel(g, store, core.RuntimeConfig{ScreenW: 40, ScreenH: 10, TickRate: 60, Seed: 7})
	m.Init()
	return m
}

func tick(t *testing.T, m Model, at time.Time) Model {
	t.Helper()
	next, cmd := m.Update(TickMsg(at))
	if cmd == nil {
		t.Fatal("tick did not schedule the next tick")
	}
	return next.(Model)
}

func TestModelTickMillis(t *testing.T) {
	g := &stubGame{id: "stub"}
	m := testModel(g, nil)
	t0 := time.Unix(100, 0)

	m = tick(t, m, t0)
	m = tick(t, m, t0.Add(20*time.Millisecond))

	if len(g.millis) != 2 {
		t.Fatalf("Step called %d times, expected 2", len(g.millis))
	}
	if g.millis[0] != m.config.FrameMillis() {
		t.Errorf("first frame millis = %v, expected %v", g.millis[0], m.config.FrameMillis())
	}
	if g.millis[1] != 20 {
		t.Errorf("second frame millis = %v, expected 20", g.millis[1])
	}
}

func TestModelKeysReachGame(t *testing.T) {
	g := &stubGame{id: "stub"}
	m := testModel(g, nil)
	t0 := time.Now()

	next, _ := m.handleKey(runeKey("a"), t0)
	m = next.(Model)
	m = tick(t, m, t0.Add(10*time.Millisecond))

	if !g.inputs[0].Player(core.Player2).Has(core.ActionLeft) {
		t.Error("player 2 left did not reach Step")
	}
	if g.inputs[0].Player(core.Player1).Has(core.ActionLeft) {
		t.Error("player 2 key leaked to player 1")
	}
}

func TestModelQuit(t *testing.T) {
	m := testModel(&stubGame{id: "stub"}, nil)
	next, cmd := m.Update(runeKey("q"))
	if cmd == nil {
		t.Fatal("quit key returned no command")
	}
	if !next.(Model).IsQuitting() {
		t.Error("IsQuitting() = false after q")
	}
	if next.(Model).View() != "" {
		t.Error("View() after quit should be empty")
	}
}

func TestModelSavesRun(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	g := &stubGame{id: "stub", endAfter: 3}
	m := testModel(g, store)
	t0 := time.Unix(100, 0)
	for i := range 5 {
		m = tick(t, m, t0.Add(time.Duration(i)*15*time.Millisecond))
	}

	runs, err := store.Scores("stub")
	if err != nil {
		t.Fatalf("Scores() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("saved %d runs, expected 1", len(runs))
	}
	if runs[0].Score != 3 || !runs[0].Won || runs[0].Level != 1 {
		t.Errorf("saved run = %+v, expected score 3, level 1, won", runs[0])
	}
	if m.LastRunID() != runs[0].ID {
		t.Errorf("LastRunID() = %q, expected %q", m.LastRunID(), runs[0].ID)
	}
}

func TestModelNilStore(t *testing.T) {
	g := &stubGame{id: "stub", endAfter: 1}
	m := testModel(g, nil)
	m = tick(t, m, time.Unix(100, 0))
	if m.LastRunID() != "" {
		t.Errorf("LastRunID() = %q without a store", m.LastRunID())
	}
	if !m.State().GameOver {
		t.Error("State() did not follow the game")
	}
}

func TestModelForwardsEvents(t *testing.T) {
	g := &stubGame{id: "stub"}
	sound := &core.NopSound{}
	m := testModel(g, nil).WithSound(sound)
	m = tick(t, m, time.Unix(100, 0))
	m = tick(t, m, time.Unix(100, int64(15*time.Millisecond)))
	if sound.Count("hit") != 2 {
		t.Errorf("forwarded %d cues, expected 2", sound.Count("hit"))
	}
}

func TestModelRecords(t *testing.T) {
	g := &stubGame{id: "stub"}
	rec := replay.New("stub", "", core.RuntimeConfig{ScreenW: 40, ScreenH: 10, Seed: 7})
	m := testModel(g, nil).WithRecording(rec)

	t0 := time.Now()
	next, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyRight}, t0)
	m = next.(Model)
	m = tick(t, m, t0.Add(5*time.Millisecond))
	m = tick(t, m, t0.Add(25*time.Millisecond))

	if len(rec.Frames) != 2 {
		t.Fatalf("recorded %d frames, expected 2", len(rec.Frames))
	}
	if rec.Frames[1].Millis != 20 {
		t.Errorf("frame 1 millis = %v, expected 20", rec.Frames[1].Millis)
	}
	held := rec.Frames[0].Held[core.Player1]
	if len(held) != 1 || held[0] != core.ActionRight {
		t.Errorf("frame 0 held = %v, expected [right]", held)
	}
	if m.Recording() != rec {
		t.Error("Recording() did not return the recording")
	}
}

func TestModelBackToMenu(t *testing.T) {
	tests := []struct {
		name     string
		gameOver bool
		want     bool
	}{
		{"running", false, false},
		{"game over", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testModel(&stubGame{id: "stub"}, nil)
			m.nested = true
			m.gameState.GameOver = tt.gameOver
			next, _ := m.Update(runeKey("b"))
			if got := next.(Model).BackToMenu(); got != tt.want {
				t.Errorf("BackToMenu() = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestModelView(t *testing.T) {
	m := testModel(&stubGame{id: "stub"}, nil)
	if !strings.Contains(m.View(), "stub") {
		t.Errorf("View() = %q, expected the game's render", m.View())
	}
}

func TestMenuSelect(t *testing.T) {
	m := NewMenuModel(nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 24})
	if len(m.items) < 2 || m.items[0].GameID != "campaign" {
		t.Fatalf("menu items = %+v, expected campaign first", m.items)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, cmd := next.(MenuModel).Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("select returned no command")
	}
	sel := next.(MenuModel).Selected()
	if sel == nil || sel.GameID != "stub" {
		t.Errorf("Selected() = %+v, expected stub", sel)
	}
}

func TestSessionStartsGame(t *testing.T) {
	s := NewSessionModel(nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60}, nil)
	next, _ := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	got := next.(SessionModel)
	if got.game == nil {
		t.Fatal("Enter in the menu did not start a game")
	}
	if got.game.game.ID() != "campaign" {
		t.Errorf("started %q, expected campaign", got.game.game.ID())
	}
	if got.quitting {
		t.Error("starting a game ended the session")
	}
}

func TestRenderScreenColors(t *testing.T) {
	s := core.NewScreen(4, 1)
	s.SetColor(0, 0, '#', core.ColorSand)
	s.SetColor(1, 0, '~', core.ColorBlue)
	out := RenderScreen(s)
	if !strings.Contains(out, "#") || !strings.Contains(out, "~") {
		t.Errorf("RenderScreen() = %q, expected both glyphs", out)
	}
	if strings.Count(out, "\n") != 0 {
		t.Errorf("RenderScreen() of one row has %d newlines", strings.Count(out, "\n"))
	}
}
