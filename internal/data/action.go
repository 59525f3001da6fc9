package data

import (
	"fmt"
	"os"

	"github.com/tickworld/server/internal/core/event"
	"gopkg.in/yaml.v3"
)

// TargetRule is the catalog's own can-target rule for an action. Scripted
// rules may refine it.
type TargetRule string

const (
	TargetAny   TargetRule = "any"
	TargetSelf  TargetRule = "self"
	TargetOther TargetRule = "other"
)

// EffectStep is one authored step of an action.
type EffectStep struct {
	Kind    event.Kind
	Amount  int32
	TraitID TraitID // buff payload
	Self    bool    // target the actor instead of the action target
}

// Action is an immutable ordered list of effect steps.
type Action struct {
	ActionID ActionID
	Name     string
	Targets  TargetRule
	Steps    []EffectStep
}

// ActionTable holds all actions indexed by ActionID.
type ActionTable struct {
	actions map[ActionID]*Action
}

// NewActionTable builds a table from already-validated actions.
func NewActionTable(actions ...Action) *ActionTable {
	t := &ActionTable{actions: make(map[ActionID]*Action, len(actions))}
	for i := range actions {
		a := actions[i]
		t.actions[a.ActionID] = &a
	}
	return t
}

// Get returns an action by ID, or nil if not found.
func (t *ActionTable) Get(id ActionID) *Action {
	return t.actions[id]
}

// Step returns step seq of action id. ok is false when the action is
// unknown or seq is past its last step.
func (t *ActionTable) Step(id ActionID, seq uint32) (EffectStep, bool) {
	a := t.actions[id]
	if a == nil || int(seq) >= len(a.Steps) {
		return EffectStep{}, false
	}
	return a.Steps[seq], true
}

// Count returns total loaded actions.
func (t *ActionTable) Count() int {
	return len(t.actions)
}

// --- YAML loading ---

type stepEntry struct {
	Kind    string `yaml:"kind"`
	Amount  int32  `yaml:"amount"`
	TraitID uint32 `yaml:"trait_id"`
	Self    bool   `yaml:"self"`
}

type actionEntry struct {
	ActionID uint32      `yaml:"action_id"`
	Name     string      `yaml:"name"`
	Targets  string      `yaml:"targets"`
	Steps    []stepEntry `yaml:"steps"`
}

type actionListFile struct {
	Actions []actionEntry `yaml:"actions"`
}

// LoadActionTable loads action definitions from YAML.
func LoadActionTable(path string) (*ActionTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read actions: %w", err)
	}
	return parseActionTable(raw)
}

func parseActionTable(raw []byte) (*ActionTable, error) {
	var f actionListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse actions: %w", err)
	}
	t := &ActionTable{actions: make(map[ActionID]*Action, len(f.Actions))}
	for _, e := range f.Actions {
		id := ActionID(e.ActionID)
		if _, dup := t.actions[id]; dup {
			return nil, fmt.Errorf("parse actions: duplicate action_id %d", id)
		}
		rule := TargetRule(e.Targets)
		switch rule {
		case "":
			rule = TargetAny
		case TargetAny, TargetSelf, TargetOther:
		default:
			return nil, fmt.Errorf("parse actions: action %d: unknown targets %q", id, e.Targets)
		}
		a := &Action{
			ActionID: id,
			Name:     e.Name,
			Targets:  rule,
			Steps:    make([]EffectStep, 0, len(e.Steps)),
		}
		for i, s := range e.Steps {
			kind, err := event.ParseKind(s.Kind)
			if err != nil {
				return nil, fmt.Errorf("parse actions: action %d step %d: %w", id, i, err)
			}
			if kind == event.KindStartAction {
				return nil, fmt.Errorf("parse actions: action %d step %d: start_action is not an effect", id, i)
			}
			a.Steps = append(a.Steps, EffectStep{
				Kind:    kind,
				Amount:  s.Amount,
				TraitID: TraitID(s.TraitID),
				Self:    s.Self,
			})
		}
		t.actions[id] = a
	}
	return t, nil
}
