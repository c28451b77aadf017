package report

import "time"

// Response is the JSON representation of an evaluation.
type Response struct {
	EvaluationID         string           `json:"evaluationId"`
	Title                string           `json:"title"`
	Name                 string           `json:"name"`
	Role                 string           `json:"role"`
	Chapter              string           `json:"chapter"`
	FileName             string           `json:"fileName,omitempty"`
	Pages                int              `json:"pages"`
	SectionsFound        []string         `json:"sectionsFound"`
	Profile              Dimension        `json:"profile"`
	Functions            Dimension        `json:"functions"`
	Indicators           []Indicator      `json:"indicators"`
	IndicatorAverage     float64          `json:"indicatorAverage"`
	Sections             []Section        `json:"sections"`
	Global               float64          `json:"global"`
	Comment              string           `json:"comment"`
	Recommendations      []Recommendation `json:"recommendations"`
	Advice               []string         `json:"advice"`
	Scoring              Scoring          `json:"scoring"`
	ReferenceFingerprint string           `json:"referenceFingerprint"`
	CreatedAt            time.Time        `json:"createdAt"`
	DurationMs           float64          `json:"durationMs"`
}

// Detail is the score of one reference item.
type Detail struct {
	Item  string  `json:"item"`
	Score float64 `json:"score"`
}

// Dimension is the profile or functions score.
type Dimension struct {
	Score    float64  `json:"score"`
	Included bool     `json:"included"`
	Details  []Detail `json:"details"`
}

// Indicator is the score of one named indicator.
type Indicator struct {
	Name        string   `json:"name"`
	Score       float64  `json:"score"`
	Included    bool     `json:"included"`
	Recommended bool     `json:"recommended"`
	Details     []Detail `json:"details"`
}

// Section is the informative score of one HV section.
type Section struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
	Found bool    `json:"found"`
}

// Recommendation lists the advice for one indicator below the threshold.
type Recommendation struct {
	Indicator string   `json:"indicator"`
	Score     float64  `json:"score"`
	Advice    []string `json:"advice"`
}

// Scoring describes how the scores were computed.
type Scoring struct {
	Strategy  string  `json:"strategy"`
	Scale     string  `json:"scale"`
	Threshold float64 `json:"threshold"`
}
