// Package lang loads a constructed language from its three line-oriented
// sources: the dictionary of WORD blocks, the SYMBOL index and one flat
// T_WORD translation table per target language.
//
// Parsing is lenient. Unexpected headers, unknown usage tags and short form
// lists are logged, recorded as *ParseError anomalies and skipped; only
// failures to open or read a source abort a load. The resulting Language is
// never modified afterwards and is safe for concurrent readers.
package lang

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
)

// Sources names the files a Language is loaded from.
type Sources struct {
	Words        string
	Symbols      string
	Translations map[string]string // language code -> path
	Encoding     string
}

// Language is the finished word dictionary plus its symbol index.
type Language struct {
	words     map[string]*Word
	symbols   *SymbolIndex
	languages []string
	anomalies []*ParseError
}

// New wraps already-built words and symbols. Callers must not modify either
// afterwards.
func New(words map[string]*Word, symbols *SymbolIndex) *Language {
	if words == nil {
		words = make(map[string]*Word)
	}
	if symbols == nil {
		symbols = NewSymbolIndex()
	}
	seen := make(map[string]bool)
	for _, w := range words {
		for code := range w.Translations {
			seen[code] = true
		}
	}
	return &Language{
		words:     words,
		symbols:   symbols,
		languages: slices.Sorted(maps.Keys(seen)),
	}
}

// Load reads the dictionary, then the symbols, then every translation table.
func Load(src Sources, logger *slog.Logger) (*Language, error) {
	if logger == nil {
		logger = slog.Default()
	}

	words, err := openScanner(src.Words, src.Encoding)
	if err != nil {
		return nil, fmt.Errorf("open words: %w", err)
	}
	defer words.Close()

	symbols, err := openScanner(src.Symbols, src.Encoding)
	if err != nil {
		return nil, fmt.Errorf("open symbols: %w", err)
	}
	defer symbols.Close()

	translations := make(map[string]*Scanner, len(src.Translations))
	for code, path := range src.Translations {
		sc, err := openScanner(path, src.Encoding)
		if err != nil {
			closeAll(translations)
			return nil, fmt.Errorf("open translations %s: %w", code, err)
		}
		translations[code] = sc
	}
	defer closeAll(translations)

	return Parse(words, symbols, translations, logger)
}

// Parse builds a Language from already opened scanners.
func Parse(words, symbols *Scanner, translations map[string]*Scanner, logger *slog.Logger) (*Language, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dict, anomalies, err := ReadWords(words, logger)
	if err != nil {
		return nil, fmt.Errorf("read words: %w", err)
	}

	index, symAnomalies, err := ReadSymbols(symbols, dict, logger)
	if err != nil {
		return nil, fmt.Errorf("read symbols: %w", err)
	}
	anomalies = append(anomalies, symAnomalies...)

	merged := 0
	for _, code := range slices.Sorted(maps.Keys(translations)) {
		n, tlAnomalies, err := MergeTranslations(translations[code], dict, code, logger)
		if err != nil {
			return nil, fmt.Errorf("read translations %s: %w", code, err)
		}
		anomalies = append(anomalies, tlAnomalies...)
		merged += n
	}

	l := New(dict, index)
	l.anomalies = anomalies

	logger.Info("language loaded",
		slog.Int("words", len(dict)),
		slog.Int("symbols", index.Len()),
		slog.Int("translations", merged),
		slog.Int("anomalies", len(anomalies)),
	)
	return l, nil
}

// Word returns the record for an exact root.
func (l *Language) Word(root string) (*Word, bool) {
	w, ok := l.words[root]
	return w, ok
}

// Lookup finds a word by user input, normalized to the upper-case root convention.
func (l *Language) Lookup(s string) (*Word, bool) {
	return l.Word(strings.ToUpper(strings.TrimSpace(s)))
}

func (l *Language) Symbols() *SymbolIndex { return l.symbols }

// Roots returns every root in sorted order.
func (l *Language) Roots() []string { return slices.Sorted(maps.Keys(l.words)) }

func (l *Language) Len() int { return len(l.words) }

// Languages lists the translation codes present on at least one word.
func (l *Language) Languages() []string { return slices.Clone(l.languages) }

// Anomalies returns the recoverable problems found while loading.
func (l *Language) Anomalies() []*ParseError { return l.anomalies }

func openScanner(path, encoding string) (*Scanner, error) {
	if path == "" {
		return nil, fmt.Errorf("path is empty")
	}
	return Open(path, encoding)
}

func closeAll(scanners map[string]*Scanner) {
	for _, sc := range scanners {
		sc.Close()
	}
}
