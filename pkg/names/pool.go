package names

import (
	"slices"
	"strings"

	"github.com/japaniel/dorfname/pkg/lang"
)

// ReservedPrefix marks symbols used for places and structures, never people.
const ReservedPrefix = "NAME_"

// Preset selects which symbols are favored and which are excluded.
type Preset struct {
	Favor   []string `yaml:"favor" json:"favor"`
	Exclude []string `yaml:"exclude" json:"exclude"`
}

// DwarfPreset is the stock preset for dwarven character names.
func DwarfPreset() Preset {
	return Preset{
		Favor:   []string{"ARTIFICE", "EARTH"},
		Exclude: []string{"DOMESTIC", "SUBORDINATE", "EVIL", "FLOWERY", "NEGATIVE", "UGLY", "NEGATOR"},
	}
}

// Repository is the read-only view of a language the sampler needs.
type Repository interface {
	Word(root string) (*lang.Word, bool)
	Symbols() *lang.SymbolIndex
}

// Pool is the weighted candidate multiset for one preset.
type Pool struct {
	// Raw holds every weighted root before filtering: favored symbols
	// contribute their roots three times, neutral symbols once.
	Raw []string
	// Excluded is the set of roots listed under any excluded symbol.
	Excluded map[string]struct{}
	// Candidates is Raw minus excluded roots, prefix words and unknown roots.
	Candidates []string
}

// Len is the number of entries draws are made from.
func (p *Pool) Len() int { return len(p.Candidates) }

// BuildPool weights and filters the symbol index of repo.
func BuildPool(repo Repository, preset Preset) *Pool {
	p := &Pool{Excluded: make(map[string]struct{})}

	for symbol, roots := range repo.Symbols().All() {
		if strings.HasPrefix(symbol, ReservedPrefix) {
			continue
		}
		if slices.Contains(preset.Exclude, symbol) {
			for _, r := range roots {
				p.Excluded[r] = struct{}{}
			}
			continue
		}
		if slices.Contains(preset.Favor, symbol) {
			p.Raw = append(p.Raw, roots...)
			p.Raw = append(p.Raw, roots...)
		}
		p.Raw = append(p.Raw, roots...)
	}

	p.Candidates = make([]string, 0, len(p.Raw))
	for _, root := range p.Raw {
		if _, excluded := p.Excluded[root]; excluded {
			continue
		}
		w, ok := repo.Word(root)
		if !ok || w.Prefix != nil {
			continue
		}
		p.Candidates = append(p.Candidates, root)
	}
	return p
}

// Count returns how many times root occurs in the candidate list.
func (p *Pool) Count(root string) int {
	n := 0
	for _, r := range p.Candidates {
		if r == root {
			n++
		}
	}
	return n
}
