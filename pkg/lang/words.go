package lang

import (
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
)

const (
	wordMarker = "[WORD:"
	formIndent = "\t"
	useIndent  = "\t\t"
)

// wordIgnore lists top-level lines of the dictionary that are not blocks.
var wordIgnore = []string{"language_words", "[OBJECT:LANGUAGE]"}

// WordParser turns dictionary lines into Word records. Malformed input is
// logged and recorded as an anomaly; only read failures stop it.
type WordParser struct {
	sc        *Scanner
	log       *slog.Logger
	anomalies []*ParseError
}

func NewWordParser(sc *Scanner, logger *slog.Logger) *WordParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &WordParser{sc: sc, log: logger}
}

// Anomalies returns every recoverable problem seen so far.
func (p *WordParser) Anomalies() []*ParseError { return p.anomalies }

// Next returns the next complete word, or io.EOF.
func (p *WordParser) Next() (*Word, error) {
	for {
		line, err := p.sc.Next()
		if err != nil {
			return nil, err
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(line, wordMarker) {
			if !slices.Contains(wordIgnore, trimmed) {
				p.anomaly(line, ErrUnexpectedHeader)
			}
			continue
		}

		root := blockName(line, wordMarker)
		header := line
		w := NewWord(root)
		if err := p.readForms(w); err != nil {
			return nil, err
		}
		if root == "" {
			p.anomaly(header, ErrMalformedLine)
			continue
		}
		return w, nil
	}
}

// readForms consumes the one-level-indented lines following a header.
func (p *WordParser) readForms(w *Word) error {
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

		formLine, formNo := line, p.sc.Line()
		fields := entryFields(line)
		usages, err := p.readUsages()
		if err != nil {
			return err
		}
		if len(fields) == 0 {
			p.anomalyAt(formNo, formLine, ErrEmptyForm)
			continue
		}

		known, err := w.apply(form{kind: fields[0], fields: fields[1:], usages: usages})
		if err != nil {
			p.anomalyAt(formNo, formLine, err)
			continue
		}
		if !known {
			p.log.Debug("ignoring form type",
				slog.String("root", w.Root),
				slog.String("type", fields[0]),
				slog.Int("line", formNo),
			)
		}
	}
}

// readUsages consumes two-level-indented usage lines.
func (p *WordParser) readUsages() ([]Usage, error) {
	var usages []Usage
	for {
		line, err := p.sc.Next()
		if errors.Is(err, io.EOF) {
			return usages, nil
		}
		if err != nil {
			return nil, err
		}
		if !strings.HasPrefix(line, useIndent) {
			return usages, p.sc.Pushback(line)
		}
		u, ok := ParseUsage(strings.TrimSpace(line))
		if !ok {
			p.anomaly(line, ErrUnknownUsage)
			continue
		}
		usages = append(usages, u)
	}
}

func (p *WordParser) anomaly(line string, err error) {
	p.anomalyAt(p.sc.Line(), line, err)
}

func (p *WordParser) anomalyAt(lineNo int, line string, err error) {
	pe := &ParseError{Source: "words", Line: lineNo, Text: strings.TrimSpace(line), Err: err}
	p.anomalies = append(p.anomalies, pe)
	logAnomaly(p.log, pe)
}

// ReadWords parses a whole dictionary source. A repeated root replaces the
// earlier record.
func ReadWords(sc *Scanner, logger *slog.Logger) (map[string]*Word, []*ParseError, error) {
	p := NewWordParser(sc, logger)
	words := make(map[string]*Word)
	for {
		w, err := p.Next()
		if errors.Is(err, io.EOF) {
			return words, p.Anomalies(), nil
		}
		if err != nil {
			return nil, p.Anomalies(), err
		}
		words[w.Root] = w
	}
}

// isEntry reports whether line is a bracketed entry indented exactly depth tabs.
func isEntry(line string, depth int) bool {
	return strings.HasPrefix(line, strings.Repeat(formIndent, depth)+"[")
}

// entryFields splits "\t[NOUN:foo:foos]" into its non-empty colon fields.
func entryFields(line string) []string {
	body := strings.TrimSpace(line)
	body = strings.TrimLeft(body, "[")
	body = strings.TrimRight(body, "]")
	var fields []string
	for _, f := range strings.Split(body, ":") {
		if f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// blockName extracts "ROOT" from "[MARKER:ROOT]".
func blockName(line, marker string) string {
	s := strings.TrimRight(line, " \t")
	s = strings.TrimPrefix(s, marker)
	return strings.TrimSuffix(s, "]")
}

func logAnomaly(logger *slog.Logger, pe *ParseError) {
	logger.Warn("parse anomaly",
		slog.String("source", pe.Source),
		slog.Int("line", pe.Line),
		slog.String("text", pe.Text),
		slog.String("error", pe.Err.Error()),
	)
}
