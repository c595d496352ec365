package core

import "testing"

func TestControlsEdges(t *testing.T) {
	c := NewControls()
	frames := []struct {
		held     bool
		pressed  bool
		released bool
	}{
		{held: false},
		{held: true, pressed: true},
		{held: true},
		{held: false, released: true},
		{held: false},
	}

	for i, f := range frames {
		in := NewInputFrame()
		if f.held {
			in.Set(ActionUse)
		}
		c.Load(in)
		if got := c.Pressed(ActionUse); got != f.pressed {
			t.Errorf("frame %d: Pressed() = %v, expected %v", i, got, f.pressed)
		}
		if got := c.Released(ActionUse); got != f.released {
			t.Errorf("frame %d: Released() = %v, expected %v", i, got, f.released)
		}
		c.Snapshot()
	}
}

func TestControlsLoadCopies(t *testing.T) {
	c := NewControls()
	in := NewInputFrame(ActionLeft)
	c.Load(in)
	in.Clear()
	if !c.Held(ActionLeft) {
		t.Error("Load() should copy the frame")
	}
}

func TestInputFrameList(t *testing.T) {
	f := NewInputFrame(ActionDash, ActionLeft, ActionQuit)
	got := f.List()
	if len(got) != 2 || got[0] != ActionLeft || got[1] != ActionDash {
		t.Errorf("List() = %v, expected [left dash]", got)
	}
}

func TestMultiInputFrameMerged(t *testing.T) {
	m := NewMultiInputFrame()
	m.SetPlayer(Player1, NewInputFrame(ActionLeft))
	m.SetPlayer(Player2, NewInputFrame(ActionMenu))

	merged := m.Merged()
	if !merged.Has(ActionLeft) || !merged.Has(ActionMenu) {
		t.Errorf("Merged() = %v, expected left and menu", merged.List())
	}
	if m.Player(Player3).Has(ActionLeft) {
		t.Error("missing controller should be empty")
	}
}

func TestActionString(t *testing.T) {
	for _, a := range GameActions {
		if a.String() == "unknown" {
			t.Errorf("Action(%d).String() = unknown", a)
		}
	}
}
