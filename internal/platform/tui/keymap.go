package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-escape/internal/core"
)

// Binding is the controller action a key stands for.
type Binding struct {
	Player core.PlayerID
	Action core.Action
}

// DefaultBindings returns the shared-keyboard layout. Up to four players
// can play on one keyboard; the fourth uses the numeric keypad.
func DefaultBindings() map[string]Binding {
	b := make(map[string]Binding)
	add := func(id core.PlayerID, keys map[core.Action][]string) {
		for a, ks := range keys {
			for _, k := range ks {
				b[k] = Binding{Player: id, Action: a}
			}
		}
	}

	add(core.Player1, map[core.Action][]string{
		core.ActionLeft:   {"left"},
		core.ActionRight:  {"right"},
		core.ActionUp:     {"up"},
		core.ActionDown:   {"down"},
		core.ActionDodge:  {" "},
		core.ActionUse:    {"z"},
		core.ActionCycle:  {"x"},
		core.ActionDash:   {"c", "enter"},
		core.ActionCamera: {"0"},
		core.ActionMenu:   {"esc", "p"},
	})
	add(core.Player2, map[core.Action][]string{
		core.ActionLeft:   {"a"},
		core.ActionRight:  {"d"},
		core.ActionUp:     {"w"},
		core.ActionDown:   {"s"},
		core.ActionDodge:  {"g"},
		core.ActionUse:    {"e"},
		core.ActionCycle:  {"r"},
		core.ActionDash:   {"f"},
		core.ActionCamera: {"1"},
	})
	add(core.Player3, map[core.Action][]string{
		core.ActionLeft:   {"j"},
		core.ActionRight:  {"l"},
		core.ActionUp:     {"i"},
		core.ActionDown:   {"k"},
		core.ActionDodge:  {"m"},
		core.ActionUse:    {"u"},
		core.ActionCycle:  {"o"},
		core.ActionDash:   {"h"},
		core.ActionCamera: {"2"},
	})
	add(core.Player4, map[core.Action][]string{
		core.ActionLeft:   {"4"},
		core.ActionRight:  {"6"},
		core.ActionUp:     {"8"},
		core.ActionDown:   {"5"},
		core.ActionDodge:  {"+"},
		core.ActionUse:    {"7"},
		core.ActionCycle:  {"9"},
		core.ActionDash:   {"3"},
		core.ActionCamera: {"*"},
	})
	return b
}

// KeyMapper translates Bubble Tea key messages to controller actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct {
	bindings map[string]Binding
}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{bindings: DefaultBindings()}
}

// MapKey translates a key message to a binding.
// Returns ok=false for unbound keys and isQuit for quit requests.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (b Binding, ok, isQuit bool) {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return Binding{Player: core.Player1, Action: core.ActionQuit}, true, true
	}

	b, ok = km.bindings[key]
	return b, ok, false
}

// Terminals report presses and auto-repeats but never releases. A press
// therefore holds its action until a deadline: long enough on the first
// press to bridge the keyboard repeat delay, shorter once repeats arrive.
const (
	initialHold = 450 * time.Millisecond
	repeatHold  = 120 * time.Millisecond
)

// tapActions are edge-only: they are held for exactly one frame per press
// so repeated presses produce repeated edges.
var tapActions = map[core.Action]bool{
	core.ActionCycle:  true,
	core.ActionDash:   true,
	core.ActionCamera: true,
	core.ActionMenu:   true,
}

// Holds emulates held keys from a press-only key stream.
type Holds struct {
	initial time.Duration
	repeat  time.Duration
	until   map[Binding]time.Time
	latched map[Binding]bool
}

// NewHolds creates a hold tracker with the given hold windows.
func NewHolds(initial, repeat time.Duration) *Holds {
	return &Holds{
		initial: initial,
		repeat:  repeat,
		until:   make(map[Binding]time.Time),
		latched: make(map[Binding]bool),
	}
}

// DefaultHolds returns a tracker tuned for common keyboard repeat rates.
func DefaultHolds() *Holds {
	return NewHolds(initialHold, repeatHold)
}

// Press records a key press at now.
func (h *Holds) Press(b Binding, now time.Time) {
	if tapActions[b.Action] {
		h.latched[b] = true
		return
	}
	d := h.initial
	if h.Held(b, now) {
		d = h.repeat
	}
	if next := now.Add(d); next.After(h.until[b]) {
		h.until[b] = next
	}
}

// Held reports whether b is held at now.
func (h *Holds) Held(b Binding, now time.Time) bool {
	if h.latched[b] {
		return true
	}
	until, ok := h.until[b]
	return ok && now.Before(until)
}

// Frame returns every action held at now and drops expired holds.
// Tap actions are released once they have appeared in a frame.
func (h *Holds) Frame(now time.Time) core.MultiInputFrame {
	in := core.NewMultiInputFrame()
	add := func(b Binding) {
		f := in.Player(b.Player)
		f.Set(b.Action)
		in.SetPlayer(b.Player, f)
	}
	for b, until := range h.until {
		if !now.Before(until) {
			delete(h.until, b)
			continue
		}
		add(b)
	}
	for b := range h.latched {
		add(b)
		delete(h.latched, b)
	}
	return in
}

// Clear releases everything.
func (h *Holds) Clear() {
	clear(h.until)
	clear(h.latched)
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionScoreboard
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}

	return MenuActionNone
}
