package lang

import "fmt"

// Usage is a grammatical or compounding context tag attached to a form.
type Usage int

const (
	UsageUnknown Usage = iota
	AdjDist1
	AdjDist2
	AdjDist3
	AdjDist4
	AdjDist5
	AdjDist6
	AdjDist7
	FrontCompoundAdj
	FrontCompoundNounPlur
	FrontCompoundNounSing
	FrontCompoundPrefix
	OfNounPlur
	OfNounSing
	RearCompoundAdj
	RearCompoundNounPlur
	RearCompoundNounSing
	StandardVerb
	TheCompoundAdj
	TheCompoundNounPlur
	TheCompoundNounSing
	TheCompoundPrefix
	TheNounPlur
	TheNounSing
)

// usageTags maps the bracketed source tag to its Usage.
var usageTags = map[string]Usage{
	"[ADJ_DIST:1]":               AdjDist1,
	"[ADJ_DIST:2]":               AdjDist2,
	"[ADJ_DIST:3]":               AdjDist3,
	"[ADJ_DIST:4]":               AdjDist4,
	"[ADJ_DIST:5]":               AdjDist5,
	"[ADJ_DIST:6]":               AdjDist6,
	"[ADJ_DIST:7]":               AdjDist7,
	"[FRONT_COMPOUND_ADJ]":       FrontCompoundAdj,
	"[FRONT_COMPOUND_NOUN_PLUR]": FrontCompoundNounPlur,
	"[FRONT_COMPOUND_NOUN_SING]": FrontCompoundNounSing,
	"[FRONT_COMPOUND_PREFIX]":    FrontCompoundPrefix,
	"[OF_NOUN_PLUR]":             OfNounPlur,
	"[OF_NOUN_SING]":             OfNounSing,
	"[REAR_COMPOUND_ADJ]":        RearCompoundAdj,
	"[REAR_COMPOUND_NOUN_PLUR]":  RearCompoundNounPlur,
	"[REAR_COMPOUND_NOUN_SING]":  RearCompoundNounSing,
	"[STANDARD_VERB]":            StandardVerb,
	"[THE_COMPOUND_ADJ]":         TheCompoundAdj,
	"[THE_COMPOUND_NOUN_PLUR]":   TheCompoundNounPlur,
	"[THE_COMPOUND_NOUN_SING]":   TheCompoundNounSing,
	"[THE_COMPOUND_PREFIX]":      TheCompoundPrefix,
	"[THE_NOUN_PLUR]":            TheNounPlur,
	"[THE_NOUN_SING]":            TheNounSing,
}

var usageNames = func() map[Usage]string {
	m := make(map[Usage]string, len(usageTags))
	for tag, u := range usageTags {
		m[u] = tag[1 : len(tag)-1]
	}
	return m
}()

// ParseUsage maps a trimmed source line such as "[OF_NOUN_SING]" to its Usage.
// The second return value is false for unrecognized tags.
func ParseUsage(tag string) (Usage, bool) {
	u, ok := usageTags[tag]
	return u, ok
}

// ParseUsageName is the inverse of Usage.String.
func ParseUsageName(name string) (Usage, bool) {
	return ParseUsage("[" + name + "]")
}

// String returns the tag name without brackets, e.g. "ADJ_DIST:3".
func (u Usage) String() string {
	if s, ok := usageNames[u]; ok {
		return s
	}
	return fmt.Sprintf("Usage(%d)", int(u))
}

// MarshalText renders the usage as its tag name in YAML and JSON dumps.
func (u Usage) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}
