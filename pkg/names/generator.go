// Package names synthesizes character names from a language's symbol index.
//
// A name is a translated given name followed by a compound surname built from
// two dictionary forms, e.g. "Urist Foofoo". Candidate roots come from a Pool
// weighted by a Preset; every draw goes through a caller-supplied Rand so
// generation is reproducible and safe to run concurrently with one Rand per
// goroutine.
package names

import (
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Rand is the randomness source for draws. *rand.Rand from math/rand/v2
// satisfies it.
type Rand interface {
	// IntN returns a value in [0, n).
	IntN(n int) int
}

// Name is a generated name with the roots it was built from.
type Name struct {
	Given        string    `json:"given" yaml:"given"`
	Surname      string    `json:"surname" yaml:"surname"`
	Language     string    `json:"language" yaml:"language"`
	GivenRoot    string    `json:"given_root" yaml:"given_root"`
	SurnameRoots [2]string `json:"surname_roots" yaml:"surname_roots"`
}

func (n *Name) String() string { return n.Given + " " + n.Surname }

// Generator draws names for one preset and translation language. The pool is
// built once; the repository must not change afterwards.
type Generator struct {
	repo     Repository
	pool     *Pool
	language string
}

func NewGenerator(repo Repository, preset Preset, language string) *Generator {
	return &Generator{
		repo:     repo,
		pool:     BuildPool(repo, preset),
		language: language,
	}
}

func (g *Generator) Pool() *Pool { return g.pool }

func (g *Generator) Language() string { return g.language }

// Generate draws three roots with replacement and resolves them: the first to
// its translation, the other two to random surface forms.
func (g *Generator) Generate(rng Rand) (*Name, error) {
	if g.pool.Len() == 0 {
		return nil, ErrEmptyPool
	}
	givenRoot := g.draw(rng)
	sur1Root := g.draw(rng)
	sur2Root := g.draw(rng)

	given, err := g.translate(givenRoot)
	if err != nil {
		return nil, err
	}
	sur1, err := g.surfaceForm(sur1Root, rng)
	if err != nil {
		return nil, err
	}
	sur2, err := g.surfaceForm(sur2Root, rng)
	if err != nil {
		return nil, err
	}

	lower := cases.Lower(language.Und)
	return &Name{
		Given:        Capitalize(given),
		Surname:      Capitalize(lower.String(sur1)) + lower.String(sur2),
		Language:     g.language,
		GivenRoot:    givenRoot,
		SurnameRoots: [2]string{sur1Root, sur2Root},
	}, nil
}

func (g *Generator) draw(rng Rand) string {
	return g.pool.Candidates[rng.IntN(g.pool.Len())]
}

func (g *Generator) translate(root string) (string, error) {
	w, ok := g.repo.Word(root)
	if !ok {
		return "", &ResolveError{Root: root, Err: ErrUnknownRoot}
	}
	s, ok := w.Translation(g.language)
	if !ok {
		return "", &ResolveError{Root: root, Language: g.language, Err: ErrNoTranslation}
	}
	return s, nil
}

func (g *Generator) surfaceForm(root string, rng Rand) (string, error) {
	w, ok := g.repo.Word(root)
	if !ok {
		return "", &ResolveError{Root: root, Err: ErrUnknownRoot}
	}
	forms := w.SurfaceForms()
	if len(forms) == 0 {
		return "", &ResolveError{Root: root, Err: ErrNoSurfaceForm}
	}
	return forms[rng.IntN(len(forms))], nil
}

// Capitalize upper-cases the first letter of s and leaves the rest alone.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return cases.Upper(language.Und).String(string(r)) + s[size:]
}
