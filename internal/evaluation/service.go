package evaluation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"hv-analyzer/internal/extract"
	"hv-analyzer/internal/refdata"
	"hv-analyzer/internal/sections"
	"hv-analyzer/internal/shared/metrics"
	"hv-analyzer/internal/shared/telemetry"
	"hv-analyzer/internal/textclean"
)

// ReferenceLoader returns the reference bundle for a role in a chapter.
type ReferenceLoader interface {
	Load(ctx context.Context, role, chapter string) (refdata.Bundle, error)
}

// Service runs the full evaluation of one submission.
type Service struct {
	References        ReferenceLoader
	Splitter          sections.Splitter
	ProfileSection    string
	IndicatorSections []string
	Aggregator        Aggregator
	Now               func() time.Time
}

// Analyze validates the submission, extracts and splits its text, loads the
// reference data and scores it. Extraction failures are returned as
// *ExtractionError and reference problems as *refdata.ConfigError; in both
// cases no score is computed.
func (s *Service) Analyze(ctx context.Context, sub Submission) (Result, error) {
	if err := Validate(sub); err != nil {
		return Result{}, err
	}

	now := s.now()
	started := time.Now()
	metrics.IncEvaluationStarted()

	extracted := extract.Extract(ctx, sub.Data, sub.MimeType, sub.FileName)
	if extracted.Canceled() {
		telemetry.Warn("evaluation.canceled", map[string]any{
			"file_name": sub.FileName,
			"err":       extracted.Err,
		})
		return Result{}, fmt.Errorf("extract %s: %w", sub.FileName, extracted.Err)
	}
	if extracted.Failed() {
		metrics.IncExtractionFailed(extracted.Reason())
		telemetry.Warn("evaluation.extraction_failed", map[string]any{
			"reason":    extracted.Reason(),
			"file_name": sub.FileName,
			"bytes":     len(sub.Data),
			"err":       extracted.Err,
		})
		return Result{}, &ExtractionError{Result: extracted}
	}

	split := s.Splitter.Split(extracted.Text)
	cleanedSections := split.Map(textclean.Clean)
	fullText := textclean.Clean(extracted.Text)

	bundle, err := s.References.Load(ctx, sub.Role, sub.Chapter)
	if err != nil {
		if refdata.IsConfigError(err) {
			metrics.IncConfigError()
		}
		telemetry.Error("evaluation.reference_failed", map[string]any{
			"role":    sub.Role,
			"chapter": sub.Chapter,
			"err":     err,
		})
		return Result{}, err
	}

	input := Input{
		FullText:      fullText,
		ProfileText:   cleanedSections.Get(s.ProfileSection),
		IndicatorText: cleanedSections.Join(s.indicatorSections(split)...),
		Bundle:        bundle,
	}
	for _, sec := range cleanedSections {
		if sec.Name == s.ProfileSection {
			continue
		}
		input.Sections = append(input.Sections, SectionText{Name: sec.Name, Text: sec.Text})
	}

	scores := s.Aggregator.Evaluate(input)
	duration := float64(time.Since(started)) / float64(time.Millisecond)

	result := Result{
		ID:                   uuid.NewString(),
		Title:                fmt.Sprintf("Análisis hoja de vida %s - %s", strings.TrimSpace(sub.Name), bundle.Role),
		Name:                 strings.TrimSpace(sub.Name),
		Role:                 bundle.Role,
		Chapter:              bundle.Chapter,
		FileName:             sub.FileName,
		Pages:                extracted.Pages,
		SectionsFound:        split.Found(),
		Scores:               scores,
		Strategy:             s.Aggregator.Scorer.Name(),
		Scale:                string(s.Aggregator.Scale),
		Threshold:            s.Aggregator.Threshold,
		ReferenceFingerprint: bundle.Fingerprint,
		CreatedAt:            now,
		DurationMs:           duration,
	}

	metrics.IncEvaluationCompleted()
	metrics.ObserveEvaluationDurationMs(duration)
	metrics.ObserveGlobalScore(scores.Global)
	telemetry.Info("evaluation.completed", map[string]any{
		"evaluation_id":   result.ID,
		"role":            result.Role,
		"chapter":         result.Chapter,
		"pages":           result.Pages,
		"sections_found":  len(result.SectionsFound),
		"global":          scores.Global,
		"recommendations": len(scores.Recommendations),
		"duration_ms":     duration,
		"reference":       bundle.Fingerprint,
	})
	return result, nil
}

// Validate checks the required submission fields. An empty upload is not a
// validation error; it is reported by extraction.
func Validate(sub Submission) error {
	switch {
	case strings.TrimSpace(sub.Name) == "":
		return &ValidationError{Field: "nombre", Issue: "is required"}
	case strings.TrimSpace(sub.Role) == "":
		return &ValidationError{Field: "cargo", Issue: "is required"}
	case strings.TrimSpace(sub.Chapter) == "":
		return &ValidationError{Field: "capitulo", Issue: "is required"}
	case sub.Data == nil:
		return &ValidationError{Field: "pdf", Issue: "file is required"}
	}
	return nil
}

// IsClientError reports whether err was caused by the request itself.
func IsClientError(err error) bool {
	var cfgErr *refdata.ConfigError
	if errors.As(err, &cfgErr) {
		return cfgErr.UserFacing()
	}
	var extErr *ExtractionError
	return errors.Is(err, ErrInvalidInput) || errors.As(err, &extErr)
}

func (s *Service) indicatorSections(split sections.Sections) []string {
	if len(s.IndicatorSections) > 0 {
		return s.IndicatorSections
	}
	var names []string
	for _, name := range split.Names() {
		if name != s.ProfileSection {
			names = append(names, name)
		}
	}
	return names
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
