package similarity

import (
	"math"
	"strings"
)

// TFIDF compares the text and the space-joined keyword list as a two
// document corpus using raw term counts, smoothed idf and L2 normalised
// vectors. The result is the cosine of the two vectors.
type TFIDF struct {
	tok tokenizer
}

func (TFIDF) Name() string { return StrategyTFIDF }

func (s TFIDF) Similarity(text string, keywords []string) float64 {
	return s.Compare(text, strings.Join(keywords, " "))
}

// Compare returns the cosine similarity between two documents. It is
// symmetric and returns 0 when either document has no usable token.
func (s TFIDF) Compare(a, b string) float64 {
	ta := counts(s.tok.tokens(a))
	tb := counts(s.tok.tokens(b))
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	const docs = 2.0
	idf := func(term string) float64 {
		df := 0.0
		if ta[term] > 0 {
			df++
		}
		if tb[term] > 0 {
			df++
		}
		return math.Log((1+docs)/(1+df)) + 1
	}

	weights := make(map[string]float64, len(ta)+len(tb))
	for term := range ta {
		weights[term] = idf(term)
	}
	for term := range tb {
		if _, ok := weights[term]; !ok {
			weights[term] = idf(term)
		}
	}

	var dot, na, nb float64
	for term, w := range weights {
		va := float64(ta[term]) * w
		vb := float64(tb[term]) * w
		dot += va * vb
		na += va * va
		nb += vb * vb
	}
	if na == 0 || nb == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	if sim > 1 {
		sim = 1
	}
	return sim
}

func counts(tokens []string) map[string]int {
	out := make(map[string]int, len(tokens))
	for _, t := range tokens {
		out[t]++
	}
	return out
}
