package core

// Action represents a semantic game action, abstracted from physical key presses.
// Games see held actions; edges are derived by comparing frames.
type Action int

const (
	ActionNone   Action = iota
	ActionLeft          // A, Left arrow
	ActionRight         // D, Right arrow
	ActionUp            // W, Up arrow - climb, exit, kiosk dispense
	ActionDown          // S, Down arrow - drop through ledges, kiosk browse
	ActionCycle         // X - select next inventory item
	ActionUse           // Z - use the active item
	ActionDodge         // Space - jump/dodge
	ActionDash          // C - dash, join game, confirm
	ActionCamera        // 0 - move camera focus to this player
	ActionMenu          // Escape, P - pause menu
	ActionQuit          // Q, Ctrl+C - platform only, never reaches a game
)

// GameActions is the fixed vocabulary a game consumes, in a stable order.
var GameActions = []Action{
	ActionLeft, ActionRight, ActionUp, ActionDown, ActionCycle,
	ActionUse, ActionDodge, ActionDash, ActionCamera, ActionMenu,
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionLeft:
		return "left"
	case ActionRight:
		return "right"
	case ActionUp:
		return "up"
	case ActionDown:
		return "down"
	case ActionCycle:
		return "cycle"
	case ActionUse:
		return "use"
	case ActionDodge:
		return "dodge"
	case ActionDash:
		return "dash"
	case ActionCamera:
		return "camera"
	case ActionMenu:
		return "menu"
	case ActionQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// InputFrame is the set of actions held by one controller during a tick.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame(actions ...Action) InputFrame {
	f := InputFrame{Actions: make(map[Action]bool, len(actions))}
	for _, a := range actions {
		f.Actions[a] = true
	}
	return f
}

// Set marks an action as held for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action is held this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear releases every action.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		if v {
			clone.Actions[k] = true
		}
	}
	return clone
}

// List returns the held game actions in GameActions order.
func (f InputFrame) List() []Action {
	var out []Action
	for _, a := range GameActions {
		if f.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

// Empty reports whether no action is held.
func (f InputFrame) Empty() bool {
	for _, v := range f.Actions {
		if v {
			return false
		}
	}
	return true
}

// Controls tracks held actions across two frames for edge detection.
// Old is snapshotted at the end of a frame, after every consumer ran.
type Controls struct {
	Current InputFrame
	Old     InputFrame
}

// NewControls returns controls with nothing held.
func NewControls() Controls {
	return Controls{Current: NewInputFrame(), Old: NewInputFrame()}
}

// Load replaces the current held set.
func (c *Controls) Load(f InputFrame) {
	c.Current = f.Clone()
}

// Snapshot copies Current into Old.
func (c *Controls) Snapshot() {
	c.Old = c.Current.Clone()
}

// Held reports whether a is held now.
func (c *Controls) Held(a Action) bool {
	return c.Current.Has(a)
}

// Pressed reports a fresh press this frame.
func (c *Controls) Pressed(a Action) bool {
	return c.Current.Has(a) && !c.Old.Has(a)
}

// Released reports a release this frame.
func (c *Controls) Released(a Action) bool {
	return !c.Current.Has(a) && c.Old.Has(a)
}

// Reset releases everything in both frames.
func (c *Controls) Reset() {
	c.Current.Clear()
	c.Old.Clear()
}

// PlayerID identifies a controller slot.
type PlayerID int

const (
	Player1 PlayerID = iota + 1
	Player2
	Player3
	Player4
)

// MaxPlayers is the number of controller slots.
const MaxPlayers = 4

// MultiInputFrame contains input from all controllers for a single tick.
type MultiInputFrame struct {
	ByPlayer map[PlayerID]InputFrame
}

// NewMultiInputFrame creates an empty multi-input frame.
func NewMultiInputFrame() MultiInputFrame {
	return MultiInputFrame{
		ByPlayer: make(map[PlayerID]InputFrame),
	}
}

// Player returns the input frame for a specific controller.
// Returns an empty frame if the controller has no input.
func (m MultiInputFrame) Player(id PlayerID) InputFrame {
	if m.ByPlayer == nil {
		return NewInputFrame()
	}
	if frame, ok := m.ByPlayer[id]; ok {
		return frame
	}
	return NewInputFrame()
}

// SetPlayer sets the input frame for a specific controller.
func (m *MultiInputFrame) SetPlayer(id PlayerID, frame InputFrame) {
	if m.ByPlayer == nil {
		m.ByPlayer = make(map[PlayerID]InputFrame)
	}
	m.ByPlayer[id] = frame
}

// Merged returns the union of every controller's actions. It feeds the
// global control map used by menus.
func (m MultiInputFrame) Merged() InputFrame {
	out := NewInputFrame()
	for _, f := range m.ByPlayer {
		for a, v := range f.Actions {
			if v {
				out.Actions[a] = true
			}
		}
	}
	return out
}

// Clone creates a deep copy of this multi-input frame.
func (m MultiInputFrame) Clone() MultiInputFrame {
	clone := NewMultiInputFrame()
	for id, frame := range m.ByPlayer {
		clone.ByPlayer[id] = frame.Clone()
	}
	return clone
}
