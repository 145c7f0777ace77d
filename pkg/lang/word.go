package lang

// NoPlural is stored as a noun's plural when the source omits it.
const NoPlural = "ERR_NO_PLURAL"

// Form type tags as they appear in the dictionary file.
const (
	FormNoun   = "NOUN"
	FormVerb   = "VERB"
	FormAdj    = "ADJ"
	FormPrefix = "PREFIX"
)

// Word is one dictionary entry. Any subset of the grammatical slots may be set.
type Word struct {
	Root         string            `json:"root" yaml:"root"`
	Noun         *Noun             `json:"noun,omitempty" yaml:"noun,omitempty"`
	Verb         *Verb             `json:"verb,omitempty" yaml:"verb,omitempty"`
	Adjective    *Adjective        `json:"adjective,omitempty" yaml:"adjective,omitempty"`
	Prefix       *Prefix           `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Translations map[string]string `json:"translations,omitempty" yaml:"translations,omitempty"` // language -> text
	Symbols      []string          `json:"symbols,omitempty" yaml:"symbols,omitempty"`
}

type Noun struct {
	Singular string  `json:"singular" yaml:"singular"`
	Plural   string  `json:"plural" yaml:"plural"`
	Usages   []Usage `json:"usages,omitempty" yaml:"usages,omitempty"`
}

type Verb struct {
	Infinitive        string  `json:"infinitive" yaml:"infinitive"`
	ThirdPersonSing   string  `json:"third_person_sing" yaml:"third_person_sing"`
	PastTense         string  `json:"past_tense" yaml:"past_tense"`
	PastParticiple    string  `json:"past_participle" yaml:"past_participle"`
	PresentParticiple string  `json:"present_participle" yaml:"present_participle"`
	Usages            []Usage `json:"usages,omitempty" yaml:"usages,omitempty"`
}

type Adjective struct {
	Form   string  `json:"form" yaml:"form"`
	Usages []Usage `json:"usages,omitempty" yaml:"usages,omitempty"`
}

type Prefix struct {
	Form   string  `json:"form" yaml:"form"`
	Usages []Usage `json:"usages,omitempty" yaml:"usages,omitempty"`
}

// NewWord returns a word with every grammatical slot empty.
func NewWord(root string) *Word {
	return &Word{Root: root, Translations: make(map[string]string)}
}

func (w *Word) String() string { return w.Root }

// Translation returns the word's translation for the language code.
func (w *Word) Translation(language string) (string, bool) {
	s, ok := w.Translations[language]
	return s, ok
}

// SurfaceForms lists the forms usable as surname material: the noun singular,
// four verb forms (not the third person), and the adjective. Prefixes never
// contribute.
func (w *Word) SurfaceForms() []string {
	var forms []string
	if w.Noun != nil {
		forms = append(forms, w.Noun.Singular)
	}
	if w.Verb != nil {
		forms = append(forms,
			w.Verb.Infinitive,
			w.Verb.PastTense,
			w.Verb.PastParticiple,
			w.Verb.PresentParticiple,
		)
	}
	if w.Adjective != nil {
		forms = append(forms, w.Adjective.Form)
	}
	return forms
}

// form is one parsed one-level-indented line plus its usage lines.
type form struct {
	kind   string
	fields []string
	usages []Usage
}

// apply stores f in the matching slot of w; a repeated tag overwrites.
// Unknown tags are reported with ok=false.
func (w *Word) apply(f form) (ok bool, err error) {
	switch f.kind {
	case FormNoun:
		if len(f.fields) < 1 {
			return true, ErrShortForm
		}
		n := &Noun{Singular: f.fields[0], Plural: NoPlural, Usages: f.usages}
		if len(f.fields) > 1 {
			n.Plural = f.fields[1]
		}
		w.Noun = n
	case FormVerb:
		if len(f.fields) < 5 {
			return true, ErrShortForm
		}
		w.Verb = &Verb{
			Infinitive:        f.fields[0],
			ThirdPersonSing:   f.fields[1],
			PastTense:         f.fields[2],
			PastParticiple:    f.fields[3],
			PresentParticiple: f.fields[4],
			Usages:            f.usages,
		}
	case FormAdj:
		if len(f.fields) < 1 {
			return true, ErrShortForm
		}
		w.Adjective = &Adjective{Form: f.fields[0], Usages: f.usages}
	case FormPrefix:
		if len(f.fields) < 1 {
			return true, ErrShortForm
		}
		w.Prefix = &Prefix{Form: f.fields[0], Usages: f.usages}
	default:
		return false, nil
	}
	return true, nil
}
