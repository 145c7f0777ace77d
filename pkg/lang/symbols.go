package lang

import (
	"errors"
	"io"
	"iter"
	"log/slog"
	"slices"
	"strings"
)

const (
	symbolMarker    = "[SYMBOL:"
	symbolRefMarker = "[S_WORD:"
)

var symbolIgnore = []string{"language_SYM", "[OBJECT:LANGUAGE]"}

// SymbolIndex maps symbol names to the roots they reference. Symbols iterate
// in the order they were first seen; each root list keeps source order.
type SymbolIndex struct {
	order []string
	roots map[string][]string
}

func NewSymbolIndex() *SymbolIndex {
	return &SymbolIndex{roots: make(map[string][]string)}
}

// Set stores roots under name. A repeated name replaces the earlier list but
// keeps its position.
func (x *SymbolIndex) Set(name string, roots []string) {
	if _, ok := x.roots[name]; !ok {
		x.order = append(x.order, name)
	}
	x.roots[name] = roots
}

// Roots returns the roots listed under name.
func (x *SymbolIndex) Roots(name string) ([]string, bool) {
	r, ok := x.roots[name]
	return r, ok
}

func (x *SymbolIndex) Names() []string { return slices.Clone(x.order) }

func (x *SymbolIndex) Len() int { return len(x.order) }

// All yields every (symbol, roots) pair in index order.
func (x *SymbolIndex) All() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		for _, name := range x.order {
			if !yield(name, x.roots[name]) {
				return
			}
		}
	}
}

// Symbol is one parsed SYMBOL block.
type Symbol struct {
	Name  string
	Roots []string
}

// SymbolParser reads SYMBOL blocks with their S_WORD references.
type SymbolParser struct {
	sc        *Scanner
	log       *slog.Logger
	anomalies []*ParseError
}

func NewSymbolParser(sc *Scanner, logger *slog.Logger) *SymbolParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &SymbolParser{sc: sc, log: logger}
}

func (p *SymbolParser) Anomalies() []*ParseError { return p.anomalies }

// Next returns the next symbol block, or io.EOF.
func (p *SymbolParser) Next() (*Symbol, error) {
	for {
		line, err := p.sc.Next()
		if err != nil {
			return nil, err
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(line, symbolMarker) {
			if !slices.Contains(symbolIgnore, trimmed) {
				p.anomaly(line, ErrUnexpectedHeader)
			}
			continue
		}

		sym := &Symbol{Name: blockName(line, symbolMarker)}
		if err := p.readRefs(sym); err != nil {
			return nil, err
		}
		return sym, nil
	}
}

func (p *SymbolParser) readRefs(sym *Symbol) error {
	for {
		line, err := p.sc.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if !isEntry(line, 1) {
			return p.sc.Pushback(line)
		}
		ref := strings.TrimSpace(line)
		if !strings.HasPrefix(ref, symbolRefMarker) {
			p.anomaly(line, ErrMalformedLine)
			continue
		}
		sym.Roots = append(sym.Roots, blockName(ref, symbolRefMarker))
	}
}

func (p *SymbolParser) anomaly(line string, err error) {
	pe := &ParseError{Source: "symbols", Line: p.sc.Line(), Text: strings.TrimSpace(line), Err: err}
	p.anomalies = append(p.anomalies, pe)
	logAnomaly(p.log, pe)
}

// ReadSymbols parses a symbol source into an index and appends each symbol's
// name to the Symbols list of every referenced word present in words.
// References to unknown roots stay in the index but touch no word.
func ReadSymbols(sc *Scanner, words map[string]*Word, logger *slog.Logger) (*SymbolIndex, []*ParseError, error) {
	p := NewSymbolParser(sc, logger)
	index := NewSymbolIndex()
	for {
		sym, err := p.Next()
		if errors.Is(err, io.EOF) {
			return index, p.Anomalies(), nil
		}
		if err != nil {
			return nil, p.Anomalies(), err
		}
		for _, root := range sym.Roots {
			if w, ok := words[root]; ok {
				w.Symbols = append(w.Symbols, sym.Name)
			}
		}
		index.Set(sym.Name, sym.Roots)
	}
}
