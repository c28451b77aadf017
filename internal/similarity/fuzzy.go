package similarity

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Fuzzy scores each token of the text by its best character-level match
// against the whole keyword phrases and averages the result over the text
// tokens.
type Fuzzy struct {
	tok tokenizer
}

func (Fuzzy) Name() string { return StrategyFuzzy }

func (s Fuzzy) Similarity(text string, keywords []string) float64 {
	textTokens := s.tok.tokens(text)
	if len(textTokens) == 0 {
		return 0
	}
	phrases := make([]string, 0, len(keywords))
	seen := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		phrase := strings.Join(s.tok.tokens(kw), " ")
		if phrase == "" {
			continue
		}
		if _, ok := seen[phrase]; ok {
			continue
		}
		seen[phrase] = struct{}{}
		phrases = append(phrases, phrase)
	}
	if len(phrases) == 0 {
		return 0
	}

	best := make(map[string]float64, len(textTokens))
	var total float64
	for _, tok := range textTokens {
		score, ok := best[tok]
		if !ok {
			score = bestRatio(tok, phrases)
			best[tok] = score
		}
		total += score
	}
	return total / float64(len(textTokens))
}

func bestRatio(token string, candidates []string) float64 {
	a := chars(token)
	var best float64
	for _, c := range candidates {
		if c == token {
			return 1
		}
		m := difflib.NewMatcher(a, chars(c))
		if r := m.Ratio(); r > best {
			best = r
		}
	}
	return best
}

func chars(s string) []string {
	return strings.Split(s, "")
}
