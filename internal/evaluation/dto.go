package evaluation

import "hv-analyzer/internal/report"

// ToResponse maps a result onto its JSON representation. Slices are never
// nil so clients always receive arrays.
func ToResponse(r Result) report.Response {
	s := r.Scores
	resp := report.Response{
		EvaluationID:         r.ID,
		Title:                r.Title,
		Name:                 r.Name,
		Role:                 r.Role,
		Chapter:              r.Chapter,
		FileName:             r.FileName,
		Pages:                r.Pages,
		SectionsFound:        nonNil(r.SectionsFound),
		Profile:              toDimension(s.Profile),
		Functions:            toDimension(s.Functions),
		Indicators:           make([]report.Indicator, 0, len(s.Indicators)),
		IndicatorAverage:     s.IndicatorMean,
		Sections:             make([]report.Section, 0, len(s.Sections)),
		Global:               s.Global,
		Comment:              s.Comment,
		Recommendations:      make([]report.Recommendation, 0, len(s.Recommendations)),
		Advice:               nonNil(s.Advice),
		ReferenceFingerprint: r.ReferenceFingerprint,
		CreatedAt:            r.CreatedAt,
		DurationMs:           r.DurationMs,
		Scoring: report.Scoring{
			Strategy:  r.Strategy,
			Scale:     r.Scale,
			Threshold: r.Threshold,
		},
	}
	for _, ind := range s.Indicators {
		resp.Indicators = append(resp.Indicators, report.Indicator{
			Name:        ind.Name,
			Score:       ind.Score,
			Included:    ind.Included,
			Recommended: ind.Recommended,
			Details:     toDetails(ind.Details),
		})
	}
	for _, sec := range s.Sections {
		resp.Sections = append(resp.Sections, report.Section{Name: sec.Name, Score: sec.Score, Found: sec.Found})
	}
	for _, rec := range s.Recommendations {
		resp.Recommendations = append(resp.Recommendations, report.Recommendation{
			Indicator: rec.Indicator,
			Score:     rec.Score,
			Advice:    nonNil(rec.Advice),
		})
	}
	return resp
}

func toDimension(d DimensionScore) report.Dimension {
	return report.Dimension{Score: d.Score, Included: d.Included, Details: toDetails(d.Details)}
}

func toDetails(details []ScoreDetail) []report.Detail {
	out := make([]report.Detail, 0, len(details))
	for _, d := range details {
		out = append(out, report.Detail{Item: d.Item, Score: d.Score})
	}
	return out
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
