package lang

import (
	"errors"
	"io"
	"log/slog"
	"strings"
)

const translationMarker = "[T_WORD:"

// ParseTranslationLine splits "[T_WORD:ROOT:text]" into root and text.
func ParseTranslationLine(line string) (root, text string, ok bool) {
	line = strings.TrimSpace(line)
	body, found := strings.CutPrefix(line, translationMarker)
	if !found {
		return "", "", false
	}
	body, found = strings.CutSuffix(body, "]")
	if !found {
		return "", "", false
	}
	return strings.Cut(body, ":")
}

// MergeTranslations reads a flat translation source and stores each entry
// under language on the matching word, overwriting any earlier value.
// Entries for unknown roots are dropped. It returns the number merged.
func MergeTranslations(sc *Scanner, words map[string]*Word, language string, logger *slog.Logger) (int, []*ParseError, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var (
		merged    int
		anomalies []*ParseError
	)
	for {
		line, err := sc.Next()
		if errors.Is(err, io.EOF) {
			return merged, anomalies, nil
		}
		if err != nil {
			return merged, anomalies, err
		}
		root, text, ok := ParseTranslationLine(line)
		if !ok {
			if strings.HasPrefix(strings.TrimSpace(line), translationMarker) {
				pe := &ParseError{Source: "translations:" + language, Line: sc.Line(), Text: strings.TrimSpace(line), Err: ErrMalformedLine}
				anomalies = append(anomalies, pe)
				logAnomaly(logger, pe)
			}
			continue
		}
		w, found := words[root]
		if !found {
			continue
		}
		if w.Translations == nil {
			w.Translations = make(map[string]string)
		}
		w.Translations[language] = text
		merged++
	}
}
