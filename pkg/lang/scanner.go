package lang

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Source encodings accepted by Open.
const (
	EncodingUTF8  = "utf-8"
	EncodingCP437 = "cp437"
)

// ErrDoublePushback is returned when Pushback is called while a line is
// already held back.
var ErrDoublePushback = errors.New("scanner: pushback already pending")

// Scanner delivers a text source one line at a time with a single line of
// pushback. Returned lines keep their leading tabs and lose the line ending.
type Scanner struct {
	r       *bufio.Reader
	closer  io.Closer
	held    string
	hasHeld bool
	line    int
}

// NewScanner reads UTF-8 lines from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{r: bufio.NewReader(r)}
}

// Open opens path for scanning, decoding it from the named encoding.
// Raw game files ship as CP437; converted copies are UTF-8.
func Open(path, encoding string) (*Scanner, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	var r io.Reader = f
	switch strings.ToLower(encoding) {
	case "", EncodingUTF8, "utf8":
	case EncodingCP437, "ibm437":
		r = transform.NewReader(f, charmap.CodePage437.NewDecoder())
	default:
		f.Close()
		return nil, fmt.Errorf("unsupported encoding %q", encoding)
	}
	s := NewScanner(r)
	s.closer = f
	return s, nil
}

// Next returns the next line, or io.EOF once the source is exhausted.
func (s *Scanner) Next() (string, error) {
	if s.hasHeld {
		s.hasHeld = false
		s.line++
		return s.held, nil
	}
	line, err := s.r.ReadString('\n')
	if err != nil {
		if err != io.EOF {
			return "", err
		}
		if line == "" {
			return "", io.EOF
		}
	}
	s.line++
	return strings.TrimRight(line, "\r\n"), nil
}

// Pushback makes line the result of the next call to Next.
func (s *Scanner) Pushback(line string) error {
	if s.hasHeld {
		return ErrDoublePushback
	}
	s.held = line
	s.hasHeld = true
	s.line--
	return nil
}

// Line is the 1-based number of the line most recently returned by Next.
func (s *Scanner) Line() int { return s.line }

// Close closes the underlying file when the scanner was created by Open.
func (s *Scanner) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
