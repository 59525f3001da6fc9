package system

import (
	"github.com/tickworld/server/internal/component"
	"github.com/tickworld/server/internal/core/ecs"
	coresys "github.com/tickworld/server/internal/core/system"
	"github.com/tickworld/server/internal/data"
	"github.com/tickworld/server/internal/world"
	"go.uber.org/zap"
)

// TraitsAggregationSystem is stage 1 of the stat cascade. For each entity
// flagged TraitsDirty it sums the blocks of its traits into the traits
// aggregate, drops the flag and flags the total aggregate.
// Phase 8 (Aggregate), registered before TotalAggregationSystem.
type TraitsAggregationSystem struct {
	world  *world.State
	traits *data.TraitTable
	log    *zap.Logger
}

func NewTraitsAggregationSystem(ws *world.State, traits *data.TraitTable, log *zap.Logger) *TraitsAggregationSystem {
	return &TraitsAggregationSystem{world: ws, traits: traits, log: log}
}

func (s *TraitsAggregationSystem) Name() string          { return "traits_aggregation" }
func (s *TraitsAggregationSystem) Phase() coresys.Phase { return coresys.PhaseAggregate }

func (s *TraitsAggregationSystem) Update(_ coresys.Tick) {
	// Worklist is fixed up front: flags raised while processing wait a tick.
	for _, id := range s.world.TraitsDirt.Keys() {
		s.recompute(id)
	}
}

func (s *TraitsAggregationSystem) recompute(id ecs.EntityID) {
	var sum data.StatBlock
	if row, ok := s.world.Traits.Get(id); ok {
		for _, tid := range row.TraitIDs {
			tmpl := s.traits.Get(tid)
			if tmpl == nil {
				s.log.Debug("unknown trait skipped",
					zap.Uint64("entity", uint64(id)), zap.Uint32("trait", uint32(tid)))
				continue
			}
			sum = sum.Add(tmpl.Stats)
		}
	}
	s.world.TraitsAgg.Upsert(component.TraitsAggregate{EntityID: id, Stats: sum})
	s.world.TraitsDirt.Delete(id)
	s.world.MarkTotalDirty(id)
}

// TotalAggregationSystem is stage 2. For each entity flagged TotalDirty it
// stores baseline + traits aggregate as the total aggregate, mirrors MaxHP
// and MaxEP into the vitals rows and drops the flag.
// Phase 8 (Aggregate).
type TotalAggregationSystem struct {
	world     *world.State
	baselines *data.BaselineTable
	log       *zap.Logger
}

func NewTotalAggregationSystem(ws *world.State, baselines *data.BaselineTable, log *zap.Logger) *TotalAggregationSystem {
	return &TotalAggregationSystem{world: ws, baselines: baselines, log: log}
}

func (s *TotalAggregationSystem) Name() string          { return "total_aggregation" }
func (s *TotalAggregationSystem) Phase() coresys.Phase { return coresys.PhaseAggregate }

func (s *TotalAggregationSystem) Update(_ coresys.Tick) {
	for _, id := range s.world.TotalDirt.Keys() {
		s.recompute(id)
	}
}

func (s *TotalAggregationSystem) recompute(id ecs.EntityID) {
	var total data.StatBlock
	if row, ok := s.world.Baselines.Get(id); ok {
		if tmpl := s.baselines.Get(row.BaselineID); tmpl != nil {
			total = tmpl.Stats.Clone()
		} else {
			s.log.Debug("unknown baseline, using zero block",
				zap.Uint64("entity", uint64(id)), zap.Uint32("baseline", uint32(row.BaselineID)))
		}
	}
	if agg, ok := s.world.TraitsAgg.Get(id); ok {
		total = total.Add(agg.Stats)
	}
	s.world.TotalAgg.Upsert(component.TotalAggregate{EntityID: id, Stats: total})

	if hp, ok := s.world.HP.Get(id); ok && hp.Max != total.MaxHP {
		hp.Max = total.MaxHP
		s.world.HP.Update(hp)
	}
	if ep, ok := s.world.EP.Get(id); ok && ep.Max != total.MaxEP {
		ep.Max = total.MaxEP
		s.world.EP.Update(ep)
	}
	s.world.TotalDirt.Delete(id)
}
