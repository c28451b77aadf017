package similarity

import (
	"errors"
	"math"
	"testing"
)

const epsilon = 1e-9

func TestTFIDFProperties(t *testing.T) {
	t.Parallel()

	s := TFIDF{}
	docs := []string{
		"tengo experiencia en liderazgo de equipos",
		"gestion de proyectos y organizacion de eventos",
		"coordinacion de comites estudiantiles",
	}

	for _, a := range docs {
		if got := s.Compare(a, a); math.Abs(got-1) > 1e-6 {
			t.Fatalf("self similarity of %q = %f, want 1", a, got)
		}
		for _, b := range docs {
			if math.Abs(s.Compare(a, b)-s.Compare(b, a)) > epsilon {
				t.Fatalf("similarity not symmetric for %q / %q", a, b)
			}
		}
	}
}

func TestTFIDFEmptyInputs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		keywords []string
	}{
		{name: "empty text", text: "", keywords: []string{"liderazgo de equipos"}},
		{name: "empty keywords", text: "liderazgo", keywords: nil},
		{name: "single letters only", text: "a b c", keywords: []string{"x y z"}},
		{name: "both empty", text: "", keywords: []string{""}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := (TFIDF{}).Similarity(tt.text, tt.keywords); got != 0 {
				t.Fatalf("expected 0, got %f", got)
			}
		})
	}
}

func TestTFIDFScenarioScoresAboveThreshold(t *testing.T) {
	text := "tengo experiencia en liderazgo de equipos y gestion de proyectos"
	keywords := []string{"liderazgo de equipos", "gestion de proyectos"}

	sim := (TFIDF{}).Similarity(text, keywords)
	if math.Abs(sim-0.7579) > 0.001 {
		t.Fatalf("unexpected similarity %f", sim)
	}
	if score := ScaleLinear.Apply(sim); score != 3.79 {
		t.Fatalf("expected 3.79, got %v", score)
	}
}

func TestTFIDFUnrelatedIsLow(t *testing.T) {
	sim := (TFIDF{}).Similarity("organizacion de eventos academicos", []string{"liderazgo de equipos"})
	if sim <= 0 || sim >= 0.5 {
		t.Fatalf("expected a low but positive similarity, got %f", sim)
	}
}

func TestFuzzy(t *testing.T) {
	t.Parallel()

	s := Fuzzy{}
	if got := s.Similarity("", []string{"liderazgo"}); got != 0 {
		t.Fatalf("expected 0 for empty text, got %f", got)
	}
	if got := s.Similarity("liderazgo", nil); got != 0 {
		t.Fatalf("expected 0 for empty keywords, got %f", got)
	}
	if got := s.Similarity("Liderazgo", []string{"liderazgo"}); math.Abs(got-1) > epsilon {
		t.Fatalf("expected an identical keyword to score 1, got %f", got)
	}

	tests := []struct {
		name     string
		text     string
		keywords []string
		want     float64
	}{
		// 2*9 matching characters over 9+20.
		{name: "token against phrase", text: "liderazgo", keywords: []string{"Liderazgo de equipos"}, want: 18.0 / 29.0},
		// liderazgo 18/29 and equipos 14/27, averaged.
		{name: "two tokens", text: "liderazgo equipos", keywords: []string{"liderazgo de equipos"}, want: (18.0/29.0 + 14.0/27.0) / 2},
		{name: "best phrase wins", text: "liderazgo", keywords: []string{"liderazgo de equipos", "liderazgo"}, want: 1},
	}
	for _, tt := range tests {
		if got := s.Similarity(tt.text, tt.keywords); math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("%s: expected %f, got %f", tt.name, tt.want, got)
		}
	}

	near := s.Similarity("lideraz equipo", []string{"liderazgo de equipos"})
	far := s.Similarity("contabilidad finanzas", []string{"liderazgo de equipos"})
	if near <= far {
		t.Fatalf("expected near match (%f) above far match (%f)", near, far)
	}
	if near <= 0 || near >= 1 {
		t.Fatalf("expected partial similarity, got %f", near)
	}
}

func TestStemmingMatchesInflections(t *testing.T) {
	plain, err := New(StrategyTFIDF, Options{})
	if err != nil {
		t.Fatalf("new scorer: %v", err)
	}
	stemmed, err := New(StrategyTFIDF, Options{Stemming: true})
	if err != nil {
		t.Fatalf("new scorer: %v", err)
	}

	text := "organizando eventos"
	keywords := []string{"organizar evento"}
	if plain.Similarity(text, keywords) != 0 {
		t.Fatalf("expected no overlap without stemming")
	}
	if got := stemmed.Similarity(text, keywords); got <= 0.5 {
		t.Fatalf("expected stemmed tokens to overlap, got %f", got)
	}
}

func TestNewRejectsUnknownStrategy(t *testing.T) {
	if _, err := New("semantic", Options{}); !errors.Is(err, ErrUnknownStrategy) {
		t.Fatalf("expected ErrUnknownStrategy, got %v", err)
	}
	s, err := New("", Options{})
	if err != nil || s.Name() != StrategyTFIDF {
		t.Fatalf("expected tfidf default, got %v %v", s, err)
	}
}

func TestScale(t *testing.T) {
	t.Parallel()

	tests := []struct {
		scale Scale
		sim   float64
		want  float64
	}{
		{ScaleLinear, 0, 0},
		{ScaleLinear, 1, 5},
		{ScaleLinear, 0.7, 3.5},
		{ScaleLinear, 0.123456, 0.62},
		{ScaleLinear, -0.2, 0},
		{ScaleLinear, 1.3, 5},
		{ScaleLinear, math.NaN(), 0},
		{ScaleAffine, 0, 1},
		{ScaleAffine, 1, 5},
		{ScaleAffine, 0.5, 3},
	}
	for _, tt := range tests {
		if got := tt.scale.Apply(tt.sim); got != tt.want {
			t.Fatalf("%s.Apply(%v) = %v, want %v", tt.scale, tt.sim, got, tt.want)
		}
	}

	if _, err := ParseScale("log"); !errors.Is(err, ErrUnknownScale) {
		t.Fatalf("expected ErrUnknownScale, got %v", err)
	}
	if s, _ := ParseScale(" Affine "); s != ScaleAffine || s.Min() != 1 {
		t.Fatalf("expected affine scale")
	}
}

func TestRound(t *testing.T) {
	if got := Round(3.14159); got != 3.14 {
		t.Fatalf("expected 3.14, got %v", got)
	}
	if got := Round(2.675001); got != 2.68 {
		t.Fatalf("expected 2.68, got %v", got)
	}
}
