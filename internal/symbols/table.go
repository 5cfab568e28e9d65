// Package symbols provides an indexed, read-only view over configured symbols.
package symbols

import (
	"fmt"

	"github.com/osse101/SlotForge_Go/internal/domain"
)

// Table indexes symbols by id and answers substitution questions
type Table struct {
	order    []string
	byID     map[string]domain.Symbol
	wilds    []string
	scatters []string
	payers   []string
}

// NewTable builds a table from symbols in declaration order. Duplicate ids are rejected.
func NewTable(symbols []domain.Symbol) (*Table, error) {
	t := &Table{byID: make(map[string]domain.Symbol, len(symbols))}
	for _, s := range symbols {
		if _, dup := t.byID[s.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate symbol id %q", domain.ErrInvalidConfig, s.ID)
		}
		t.byID[s.ID] = s
		t.order = append(t.order, s.ID)

		switch {
		case s.Type == domain.SymbolTypeScatter:
			t.scatters = append(t.scatters, s.ID)
		case s.SubstitutesAll || s.Type == domain.SymbolTypeWild:
			t.wilds = append(t.wilds, s.ID)
		default:
			if len(s.Paytable) > 0 {
				t.payers = append(t.payers, s.ID)
			}
		}
	}
	return t, nil
}

// Get returns the symbol with the given id
func (t *Table) Get(id string) (domain.Symbol, bool) {
	s, ok := t.byID[id]
	return s, ok
}

// Has reports whether id is configured
func (t *Table) Has(id string) bool {
	_, ok := t.byID[id]
	return ok
}

// Type returns the type of a symbol. This is the only symbol metadata the
// engine exposes to asset collaborators.
func (t *Table) Type(id string) (domain.SymbolType, error) {
	s, ok := t.byID[id]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownSymbol, id)
	}
	return s.Type, nil
}

// IDs returns all symbol ids in declaration order
func (t *Table) IDs() []string { return append([]string(nil), t.order...) }

// Wilds returns substituting symbols in declaration order
func (t *Table) Wilds() []string { return append([]string(nil), t.wilds...) }

// Scatters returns scatter symbols in declaration order
func (t *Table) Scatters() []string { return append([]string(nil), t.scatters...) }

// Payers returns non-substituting, non-scatter symbols that have a paytable
func (t *Table) Payers() []string { return append([]string(nil), t.payers...) }

// IsWild reports whether id substitutes for other symbols
func (t *Table) IsWild(id string) bool {
	s, ok := t.byID[id]
	return ok && (s.SubstitutesAll || s.Type == domain.SymbolTypeWild)
}

// IsScatter reports whether id is a scatter
func (t *Table) IsScatter(id string) bool {
	s, ok := t.byID[id]
	return ok && s.Type == domain.SymbolTypeScatter
}

// Matches reports whether a cell showing cell counts as target. A cell
// matches its own id; a substituting cell also matches any target that is
// not itself substituting and whose type the cell does not exclude.
func (t *Table) Matches(cell, target string) bool {
	if cell == target {
		return true
	}
	c, ok := t.byID[cell]
	if !ok || !c.SubstitutesAll {
		return false
	}
	tg, ok := t.byID[target]
	if !ok || tg.SubstitutesAll {
		return false
	}
	return !c.Excludes(tg.Type)
}
