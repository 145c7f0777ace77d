package names

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyPool means weighting and filtering left no candidate roots.
	ErrEmptyPool = errors.New("name pool is empty")
	// ErrNoTranslation means the given-name root lacks the requested language.
	ErrNoTranslation = errors.New("no translation for root in requested language")
	// ErrNoSurfaceForm means a surname root has no noun, verb or adjective form.
	ErrNoSurfaceForm = errors.New("no surface form available")
	// ErrUnknownRoot means a drawn root is missing from the dictionary.
	ErrUnknownRoot = errors.New("root not in dictionary")
)

// ResolveError reports which root failed to resolve to display text.
type ResolveError struct {
	Root     string
	Language string
	Err      error
}

func (e *ResolveError) Error() string {
	if e.Language != "" {
		return fmt.Sprintf("resolve %s (%s): %v", e.Root, e.Language, e.Err)
	}
	return fmt.Sprintf("resolve %s: %v", e.Root, e.Err)
}

func (e *ResolveError) Unwrap() error { return e.Err }

// Retryable reports whether drawing again may succeed.
func Retryable(err error) bool {
	return errors.Is(err, ErrNoTranslation) || errors.Is(err, ErrNoSurfaceForm) || errors.Is(err, ErrUnknownRoot)
}
