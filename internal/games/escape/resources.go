package escape

import (
	"math"

	"github.com/vovakirdan/tui-escape/internal/config"
)

// Resources is an amount of each resource kind. It doubles as an
// ability cost.
type Resources struct {
	Energy float64
	Alloy  float64
	Biotic float64
}

// Add returns the component-wise sum.
func (r Resources) Add(o Resources) Resources {
	return Resources{r.Energy + o.Energy, r.Alloy + o.Alloy, r.Biotic + o.Biotic}
}

// Scale returns every component multiplied by s.
func (r Resources) Scale(s float64) Resources {
	return Resources{r.Energy * s, r.Alloy * s, r.Biotic * s}
}

// ResourcePool is a player's stock of resources. Use is all-or-nothing.
type ResourcePool struct {
	Have Resources
	Max  Resources
}

// NewResourcePool builds a pool from the player tuning.
func NewResourcePool(s config.ResourceSettings) ResourcePool {
	return ResourcePool{
		Have: Resources{s.Energy, s.Alloy, s.Biotic},
		Max:  Resources{s.MaxEnergy, s.MaxAlloy, s.MaxBiotic},
	}
}

// CanUse reports whether every component of cost is covered.
func (p *ResourcePool) CanUse(cost Resources) bool {
	return p.Have.Energy >= cost.Energy &&
		p.Have.Alloy >= cost.Alloy &&
		p.Have.Biotic >= cost.Biotic
}

// Use deducts cost when affordable and reports whether it did.
func (p *ResourcePool) Use(cost Resources) bool {
	if !p.CanUse(cost) {
		return false
	}
	p.Have.Energy -= cost.Energy
	p.Have.Alloy -= cost.Alloy
	p.Have.Biotic -= cost.Biotic
	return true
}

// MaxUse returns how many whole times cost could be paid. A free cost
// returns +Inf.
func (p *ResourcePool) MaxUse(cost Resources) float64 {
	n := math.Inf(1)
	ratio := func(have, c float64) {
		if c > 0 {
			n = math.Min(n, math.Floor(have/c))
		}
	}
	ratio(p.Have.Energy, cost.Energy)
	ratio(p.Have.Alloy, cost.Alloy)
	ratio(p.Have.Biotic, cost.Biotic)
	return n
}

// Add refills the pool, capped at Max.
func (p *ResourcePool) Add(r Resources) {
	p.Have.Energy = math.Min(p.Max.Energy, p.Have.Energy+r.Energy)
	p.Have.Alloy = math.Min(p.Max.Alloy, p.Have.Alloy+r.Alloy)
	p.Have.Biotic = math.Min(p.Max.Biotic, p.Have.Biotic+r.Biotic)
}
