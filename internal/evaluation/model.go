package evaluation

import (
	"time"

	"hv-analyzer/internal/refdata"
)

// Submission is one uploaded HV with the role and chapter it is evaluated for.
type Submission struct {
	Name     string
	Role     string
	Chapter  string
	FileName string
	MimeType string
	Data     []byte
}

// Input is the cleaned text handed to the aggregator.
type Input struct {
	FullText      string
	ProfileText   string
	IndicatorText string
	Sections      []SectionText
	Bundle        refdata.Bundle
}

// SectionText is the cleaned text of one HV section.
type SectionText struct {
	Name string
	Text string
}

// ScoreDetail is the score of a single reference item.
type ScoreDetail struct {
	Item  string
	Score float64
}

// DimensionScore is the score of a text against one keyword list. Included
// is false when the list was empty after filtering; Score is then 0 and the
// dimension does not count towards any mean.
type DimensionScore struct {
	Score    float64
	Included bool
	Details  []ScoreDetail
}

// IndicatorScore is the score of one named indicator.
type IndicatorScore struct {
	Name string
	DimensionScore
	Recommended bool
}

// SectionScore scores one HV section against every indicator keyword of
// the role. It is informative and does not feed the global score.
type SectionScore struct {
	Name  string
	Score float64
	Found bool
}

// Recommendation groups the advice selected for a low scoring indicator.
type Recommendation struct {
	Indicator string
	Score     float64
	Advice    []string
}

// Scores is the output of the aggregator.
type Scores struct {
	Profile            DimensionScore
	Functions          DimensionScore
	Indicators         []IndicatorScore
	IndicatorMean      float64
	IndicatorsIncluded bool
	Sections           []SectionScore
	Global             float64
	Recommendations    []Recommendation
	Advice             []string
	Comment            string
}

// Result is a completed evaluation. It is built once and never modified.
type Result struct {
	ID                   string
	Title                string
	Name                 string
	Role                 string
	Chapter              string
	FileName             string
	Pages                int
	SectionsFound        []string
	Scores               Scores
	Strategy             string
	Scale                string
	Threshold            float64
	ReferenceFingerprint string
	CreatedAt            time.Time
	DurationMs           float64
}
