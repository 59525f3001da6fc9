package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Template is a named, immutable stat block (a trait or a baseline).
type Template struct {
	ID    uint32
	Name  string
	Stats StatBlock
}

// TraitTable holds trait templates indexed by TraitID.
type TraitTable struct {
	traits map[TraitID]*Template
}

func NewTraitTable(traits ...Template) *TraitTable {
	t := &TraitTable{traits: make(map[TraitID]*Template, len(traits))}
	for i := range traits {
		tr := traits[i]
		t.traits[TraitID(tr.ID)] = &tr
	}
	return t
}

// Get returns a trait by ID, or nil if not found.
func (t *TraitTable) Get(id TraitID) *Template {
	return t.traits[id]
}

// Count returns total loaded traits.
func (t *TraitTable) Count() int {
	return len(t.traits)
}

// BaselineTable holds baseline templates indexed by BaselineID.
type BaselineTable struct {
	baselines map[BaselineID]*Template
}

func NewBaselineTable(baselines ...Template) *BaselineTable {
	t := &BaselineTable{baselines: make(map[BaselineID]*Template, len(baselines))}
	for i := range baselines {
		b := baselines[i]
		t.baselines[BaselineID(b.ID)] = &b
	}
	return t
}

// Get returns a baseline by ID, or nil if not found.
func (t *BaselineTable) Get(id BaselineID) *Template {
	return t.baselines[id]
}

// Count returns total loaded baselines.
func (t *BaselineTable) Count() int {
	return len(t.baselines)
}

// --- YAML loading ---

type templateEntry struct {
	ID    uint32    `yaml:"id"`
	Name  string    `yaml:"name"`
	Stats StatBlock `yaml:"stats"`
}

type traitListFile struct {
	Traits []templateEntry `yaml:"traits"`
}

type baselineListFile struct {
	Baselines []templateEntry `yaml:"baselines"`
}

// LoadTraitTable loads trait templates from YAML.
func LoadTraitTable(path string) (*TraitTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read traits: %w", err)
	}
	var f traitListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse traits: %w", err)
	}
	entries, err := templates("traits", f.Traits)
	if err != nil {
		return nil, err
	}
	return NewTraitTable(entries...), nil
}

// LoadBaselineTable loads baseline templates from YAML.
func LoadBaselineTable(path string) (*BaselineTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read baselines: %w", err)
	}
	var f baselineListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse baselines: %w", err)
	}
	entries, err := templates("baselines", f.Baselines)
	if err != nil {
		return nil, err
	}
	return NewBaselineTable(entries...), nil
}

func templates(what string, in []templateEntry) ([]Template, error) {
	seen := make(map[uint32]struct{}, len(in))
	out := make([]Template, 0, len(in))
	for _, e := range in {
		if _, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("parse %s: duplicate id %d", what, e.ID)
		}
		seen[e.ID] = struct{}{}
		out = append(out, Template{ID: e.ID, Name: e.Name, Stats: e.Stats})
	}
	return out, nil
}

// Catalog bundles the authored tables the simulation reads.
type Catalog struct {
	Actions   *ActionTable
	Traits    *TraitTable
	Baselines *BaselineTable
}

// LoadCatalog loads the three authored tables.
func LoadCatalog(actionsPath, traitsPath, baselinesPath string) (*Catalog, error) {
	actions, err := LoadActionTable(actionsPath)
	if err != nil {
		return nil, err
	}
	traits, err := LoadTraitTable(traitsPath)
	if err != nil {
		return nil, err
	}
	baselines, err := LoadBaselineTable(baselinesPath)
	if err != nil {
		return nil, err
	}
	return &Catalog{Actions: actions, Traits: traits, Baselines: baselines}, nil
}
