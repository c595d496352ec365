package escape

import (
	"testing"

	"github.com/vovakirdan/tui-escape/internal/core"
)

func TestMonsterStats(t *testing.T) {
	tests := []struct {
		kind   MonsterKind
		hp     float64
		stance Stance
	}{
		{MonsterJelly, 1, StancePassive},
		{MonsterCrawler, 2, StanceAggressive},
		{MonsterHunter, 3, StanceTargeting},
		{MonsterOarstrong, 10, StancePassive},
		{MonsterCrabby, 3, StancePassive},
		{MonsterFlakBomb, 10, StancePassive},
	}
	g := startedGame(t, New())
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			m := g.newMonster(tt.kind, core.V(5, 5))
			if m.HP != tt.hp {
				t.Errorf("HP = %v, expected %v", m.HP, tt.hp)
			}
			if m.MaxHP != tt.hp {
				t.Errorf("MaxHP = %v, expected %v", m.MaxHP, tt.hp)
			}
			if m.Stance != tt.stance {
				t.Errorf("Stance = %v, expected %v", m.Stance, tt.stance)
			}
		})
	}
}

func TestMonsterDeathDropsChips(t *testing.T) {
	g := startedGame(t, New())
	g.Items = nil
	m := g.newMonster(MonsterJelly, g.Tiles.StartTile().Pos())
	m.SpawnTimer = core.NewTimer(0, 0)

	m.HitFrom(g, m.Pos.Add(core.V(1, 0)), 5, 0)
	if !m.Dying {
		t.Fatal("monster with no HP should be dying")
	}
	if m.Alive() {
		t.Error("Alive() = true for a dying monster")
	}

	for i := 0; i < 200 && !m.Dead; i++ {
		m.Update(g, 15)
	}
	if !m.Dead {
		t.Fatal("dying monster never finished")
	}
	chips := 0
	for _, it := range g.Items {
		if _, ok := it.(*Chips); ok {
			chips++
		}
	}
	if chips != 1 {
		t.Errorf("chips dropped = %d, expected 1", chips)
	}
}

func TestMonsterStunIgnoredWhenUnstunnable(t *testing.T) {
	g := startedGame(t, New())
	m := g.newMonster(MonsterFlakBomb, core.V(5, 5))
	m.Stun(1000)
	if m.Stunned() {
		t.Error("flak bomb should ignore stuns")
	}

	c := g.newMonster(MonsterCrawler, core.V(5, 5))
	c.Stun(1000)
	if !c.Stunned() {
		t.Error("crawler should be stunned")
	}
}

func TestMonsterFallsOutOfMap(t *testing.T) {
	g := startedGame(t, New())
	m := g.newMonster(MonsterCrawler, core.V(5, float64(g.Tiles.H)+0.5))
	m.SpawnTimer = core.NewTimer(0, 0)

	m.Update(g, 15)

	if !m.Dying {
		t.Error("monster below the map should start dying")
	}
}
