package data

// ActionID, TraitID, BaselineID and AppearanceID name authored templates.
type (
	ActionID     uint32
	TraitID      uint32
	BaselineID   uint32
	AppearanceID uint32
)

// StatBlock is an additive aggregate of gameplay stats and granted ids.
// Combination is component-wise addition and list concatenation; the zero
// value is the identity.
type StatBlock struct {
	Attack      int32          `yaml:"attack" json:"attack"`
	MaxHP       int32          `yaml:"max_hp" json:"max_hp"`
	Defense     int32          `yaml:"defense" json:"defense"`
	MaxEP       int32          `yaml:"max_ep" json:"max_ep"`
	Actions     []ActionID     `yaml:"actions" json:"actions,omitempty"`
	Appearances []AppearanceID `yaml:"appearances" json:"appearances,omitempty"`
}

// Add returns b+o. Neither operand is modified and the result never
// aliases their lists.
func (b StatBlock) Add(o StatBlock) StatBlock {
	return StatBlock{
		Attack:      b.Attack + o.Attack,
		MaxHP:       b.MaxHP + o.MaxHP,
		Defense:     b.Defense + o.Defense,
		MaxEP:       b.MaxEP + o.MaxEP,
		Actions:     concat(b.Actions, o.Actions),
		Appearances: concat(b.Appearances, o.Appearances),
	}
}

// Clone returns a deep copy.
func (b StatBlock) Clone() StatBlock {
	return StatBlock{}.Add(b)
}

// Sum folds blocks left to right starting from the identity.
func Sum(blocks ...StatBlock) StatBlock {
	var out StatBlock
	for _, b := range blocks {
		out = out.Add(b)
	}
	return out
}

func concat[T any](a, b []T) []T {
	if len(a)+len(b) == 0 {
		return nil
	}
	out := make([]T, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
