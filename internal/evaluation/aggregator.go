package evaluation

import (
	"strings"
	"unicode/utf8"

	"hv-analyzer/internal/similarity"
	"hv-analyzer/internal/textclean"
)

const (
	DefaultThreshold        = 3.5
	DefaultMinItemLength    = 5
	DefaultCommentThreshold = 3.0
	DefaultPositiveComment  = "Buen desempeño, revisa los consejos para mejorar algunas secciones."
	DefaultNegativeComment  = "Se recomienda reforzar las secciones con baja puntuación."
)

// Aggregator turns cleaned HV text and reference data into scores.
type Aggregator struct {
	Scorer           similarity.Scorer
	Scale            similarity.Scale
	Threshold        float64
	MinItemLength    int
	CommentThreshold float64
	PositiveComment  string
	NegativeComment  string
}

// NewAggregator returns an aggregator with the default threshold, item
// length filter and comments.
func NewAggregator(scorer similarity.Scorer, scale similarity.Scale) Aggregator {
	return Aggregator{
		Scorer:           scorer,
		Scale:            scale,
		Threshold:        DefaultThreshold,
		MinItemLength:    DefaultMinItemLength,
		CommentThreshold: DefaultCommentThreshold,
		PositiveComment:  DefaultPositiveComment,
		NegativeComment:  DefaultNegativeComment,
	}
}

type keyword struct {
	original string
	cleaned  string
}

// Evaluate scores profile, functions and every indicator, then combines
// them into the global score as the mean of (profile, functions, mean of
// indicators). Dimensions whose keyword list is empty after filtering score
// 0 and are left out of every mean.
func (a Aggregator) Evaluate(in Input) Scores {
	profileText := in.ProfileText
	if strings.TrimSpace(profileText) == "" {
		profileText = in.FullText
	}
	indicatorText := in.IndicatorText
	if strings.TrimSpace(indicatorText) == "" {
		indicatorText = in.FullText
	}

	var out Scores
	out.Profile = a.dimension(profileText, a.filter(in.Bundle.Profile))
	out.Functions = a.dimension(profileText, a.filter(in.Bundle.Functions))

	var indicatorSum float64
	var indicatorCount int
	var allIndicatorKeywords []keyword
	for _, ind := range in.Bundle.Indicators {
		kws := a.filter(ind.Keywords)
		allIndicatorKeywords = append(allIndicatorKeywords, kws...)
		score := IndicatorScore{Name: ind.Name, DimensionScore: a.dimension(indicatorText, kws)}
		if score.Included {
			indicatorSum += score.Score
			indicatorCount++
			score.Recommended = score.Score < a.Threshold
		}
		out.Indicators = append(out.Indicators, score)
	}
	if indicatorCount > 0 {
		out.IndicatorsIncluded = true
		out.IndicatorMean = similarity.Round(indicatorSum / float64(indicatorCount))
	}

	var parts []float64
	if out.Profile.Included {
		parts = append(parts, out.Profile.Score)
	}
	if out.Functions.Included {
		parts = append(parts, out.Functions.Score)
	}
	if out.IndicatorsIncluded {
		parts = append(parts, indicatorSum/float64(indicatorCount))
	}
	if len(parts) > 0 {
		var sum float64
		for _, p := range parts {
			sum += p
		}
		out.Global = similarity.Round(sum / float64(len(parts)))
	}

	out.Recommendations, out.Advice = a.recommend(out.Indicators, in.Bundle.Advice)
	out.Sections = a.sections(in.Sections, allIndicatorKeywords)

	if out.Global >= a.CommentThreshold {
		out.Comment = a.PositiveComment
	} else {
		out.Comment = a.NegativeComment
	}
	return out
}

func (a Aggregator) filter(items []string) []keyword {
	out := make([]keyword, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if utf8.RuneCountInString(trimmed) < a.MinItemLength {
			continue
		}
		cleaned := textclean.Clean(trimmed)
		if cleaned == "" {
			continue
		}
		out = append(out, keyword{original: trimmed, cleaned: cleaned})
	}
	return out
}

func (a Aggregator) dimension(text string, kws []keyword) DimensionScore {
	if len(kws) == 0 {
		return DimensionScore{}
	}
	cleaned := make([]string, len(kws))
	details := make([]ScoreDetail, len(kws))
	for i, kw := range kws {
		cleaned[i] = kw.cleaned
		details[i] = ScoreDetail{
			Item:  kw.original,
			Score: a.Scale.Apply(a.Scorer.Similarity(text, []string{kw.cleaned})),
		}
	}
	return DimensionScore{
		Score:    a.Scale.Apply(a.Scorer.Similarity(text, cleaned)),
		Included: true,
		Details:  details,
	}
}

func (a Aggregator) recommend(indicators []IndicatorScore, advice map[string][]string) ([]Recommendation, []string) {
	var recs []Recommendation
	var flat []string
	seen := make(map[string]struct{})
	for _, ind := range indicators {
		if !ind.Recommended {
			continue
		}
		lines, ok := advice[ind.Name]
		if !ok || len(lines) == 0 {
			continue
		}
		recs = append(recs, Recommendation{Indicator: ind.Name, Score: ind.Score, Advice: lines})
		for _, line := range lines {
			if _, dup := seen[line]; dup {
				continue
			}
			seen[line] = struct{}{}
			flat = append(flat, line)
		}
	}
	return recs, flat
}

func (a Aggregator) sections(texts []SectionText, kws []keyword) []SectionScore {
	if len(texts) == 0 || len(kws) == 0 {
		return nil
	}
	cleaned := make([]string, len(kws))
	for i, kw := range kws {
		cleaned[i] = kw.cleaned
	}
	out := make([]SectionScore, 0, len(texts))
	for _, sec := range texts {
		score := SectionScore{Name: sec.Name}
		if strings.TrimSpace(sec.Text) != "" {
			score.Found = true
			score.Score = a.Scale.Apply(a.Scorer.Similarity(sec.Text, cleaned))
		}
		out = append(out, score)
	}
	return out
}
