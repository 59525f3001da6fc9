package system

import (
	"github.com/tickworld/server/internal/component"
	coresys "github.com/tickworld/server/internal/core/system"
	"github.com/tickworld/server/internal/world"
)

// ProminenceSystem clears all prominence scores and recomputes one per
// active entity. Phase 7 (Score).
type ProminenceSystem struct {
	world *world.State
	rule  ProminenceRule
}

func NewProminenceSystem(ws *world.State, rule ProminenceRule) *ProminenceSystem {
	return &ProminenceSystem{world: ws, rule: rule}
}

func (s *ProminenceSystem) Name() string          { return "entity_prominence" }
func (s *ProminenceSystem) Phase() coresys.Phase { return coresys.PhaseScore }

func (s *ProminenceSystem) Update(_ coresys.Tick) {
	s.world.Prominence.Clear()
	for _, id := range s.world.Pool().ActiveIDs() {
		s.world.Prominence.Insert(component.Prominence{EntityID: id, Score: s.rule.Score(s.world, id)})
	}
}
