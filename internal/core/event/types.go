package event

import (
	"fmt"
	"time"

	"github.com/tickworld/server/internal/core/ecs"
)

// Kind identifies what an event does to its target.
type Kind uint8

const (
	KindStartAction Kind = iota
	KindBuff
	KindAttack
	KindHeal
	KindRest
	KindMove
	KindTake
	KindDrop
	KindEquip
	KindUnequip
)

var kindNames = map[Kind]string{
	KindStartAction: "start_action",
	KindBuff:        "buff",
	KindAttack:      "attack",
	KindHeal:        "heal",
	KindRest:        "rest",
	KindMove:        "move",
	KindTake:        "take",
	KindDrop:        "drop",
	KindEquip:       "equip",
	KindUnequip:     "unequip",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind maps an authored effect name to its Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown effect kind %q", s)
}

// Event is a resolved effect step (or an action start) for the current tick.
// Amount carries the authored magnitude when staged and the applied
// magnitude (e.g. mitigated damage) once resolved.
type Event struct {
	ID       uint64
	Time     time.Time
	Owner    ecs.EntityID
	Kind     Kind
	Target   ecs.EntityID
	Amount   int32
	TraitID  uint32 // buff / equip payload
	ActionID uint32 // start_action payload
}
