package similarity

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
)

const (
	StrategyTFIDF = "tfidf"
	StrategyFuzzy = "fuzzy"
)

var (
	ErrUnknownStrategy = errors.New("unknown similarity strategy")
	ErrUnknownScale    = errors.New("unknown score scale")
)

// Scorer measures how close a candidate text is to a list of keywords.
// Implementations return a value in [0,1] and never panic on empty input.
type Scorer interface {
	Similarity(text string, keywords []string) float64
	Name() string
}

// Options tune tokenization for every strategy.
type Options struct {
	// Stemming reduces tokens to their Spanish stem before comparison.
	Stemming bool
}

// New returns the scorer registered under strategy.
func New(strategy string, opts Options) (Scorer, error) {
	tok := tokenizer{stem: opts.Stemming}
	switch strings.ToLower(strings.TrimSpace(strategy)) {
	case "", StrategyTFIDF:
		return TFIDF{tok: tok}, nil
	case StrategyFuzzy:
		return Fuzzy{tok: tok}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

type tokenizer struct {
	stem bool
}

// tokens splits on anything that is not a letter or digit and keeps tokens
// of at least two runes.
func (t tokenizer) tokens(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) < 2 {
			continue
		}
		if t.stem {
			if stemmed, err := snowball.Stem(f, "spanish", true); err == nil && stemmed != "" {
				f = stemmed
			}
		}
		out = append(out, f)
	}
	return out
}

// Scale maps a similarity in [0,1] onto the score range.
type Scale string

const (
	// ScaleLinear maps similarity to 0..5.
	ScaleLinear Scale = "linear"
	// ScaleAffine maps similarity to 1..5.
	ScaleAffine Scale = "affine"
)

// ParseScale validates a configured scale name.
func ParseScale(s string) (Scale, error) {
	switch Scale(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScaleLinear:
		return ScaleLinear, nil
	case ScaleAffine:
		return ScaleAffine, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownScale, s)
	}
}

// Apply converts a similarity into a score rounded to two decimals.
func (s Scale) Apply(sim float64) float64 {
	if math.IsNaN(sim) || sim < 0 {
		sim = 0
	}
	if sim > 1 {
		sim = 1
	}
	if s == ScaleAffine {
		return Round(1 + 4*sim)
	}
	return Round(5 * sim)
}

// Min is the lowest score the scale can produce.
func (s Scale) Min() float64 {
	if s == ScaleAffine {
		return 1
	}
	return 0
}

// Round rounds half away from zero to two decimal places.
func Round(x float64) float64 {
	return math.Round(x*100) / 100
}
