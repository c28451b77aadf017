package refdata

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"hv-analyzer/internal/shared/telemetry"
	"hv-analyzer/internal/shared/util"
)

type document struct {
	value       any
	fingerprint string
}

// Loader reads, validates and caches reference documents. Parsed documents
// are shared between callers and must be treated as read-only.
type Loader struct {
	source  Source
	catalog Catalog

	mu    sync.RWMutex
	cache map[string]document
}

// NewLoader creates a loader over source. Empty catalog fields fall back to
// DefaultCatalog.
func NewLoader(source Source, catalog Catalog) *Loader {
	return &Loader{
		source:  source,
		catalog: catalog.withDefaults(),
		cache:   make(map[string]document),
	}
}

// Catalog returns the role and chapter enumerations in use.
func (l *Loader) Catalog() Catalog {
	return l.catalog
}

// Load returns the reference bundle for a role in a chapter. Every failure
// is a *ConfigError.
func (l *Loader) Load(ctx context.Context, role, chapter string) (Bundle, error) {
	canonicalRole := l.catalog.NormalizeRole(role)
	if canonicalRole == "" {
		return Bundle{}, &ConfigError{Role: role, Chapter: chapter, Err: fmt.Errorf("%w: %q", ErrUnknownRole, role)}
	}
	canonicalChapter := l.catalog.NormalizeChapter(chapter)
	if canonicalChapter == "" {
		return Bundle{}, &ConfigError{Role: role, Chapter: chapter, Err: fmt.Errorf("%w: %q", ErrUnknownChapter, chapter)}
	}
	role, chapter = canonicalRole, canonicalChapter

	functions, fpFunctions, err := l.keywords(ctx, l.catalog.FunctionsDocument(role))
	if err != nil {
		return Bundle{}, l.configError(role, chapter, l.catalog.FunctionsDocument(role), err)
	}
	profile, fpProfile, err := l.keywords(ctx, l.catalog.ProfileDocument(role))
	if err != nil {
		return Bundle{}, l.configError(role, chapter, l.catalog.ProfileDocument(role), err)
	}
	indicators, fpIndicators, err := l.indicators(ctx)
	if err != nil {
		return Bundle{}, l.configError(role, chapter, l.catalog.IndicatorsFile, err)
	}
	advice, fpAdvice, err := l.advice(ctx)
	if err != nil {
		return Bundle{}, l.configError(role, chapter, l.catalog.AdviceFile, err)
	}

	byRole, ok := indicators[chapter]
	if !ok {
		return Bundle{}, l.configError(role, chapter, l.catalog.IndicatorsFile,
			fmt.Errorf("%w: chapter %s has no indicators", ErrMissingReference, chapter))
	}
	roleIndicators, ok := byRole[role]
	if !ok {
		return Bundle{}, l.configError(role, chapter, l.catalog.IndicatorsFile,
			fmt.Errorf("%w: role %s has no indicators in chapter %s", ErrMissingReference, role, chapter))
	}

	roleAdvice := advice[role]
	if roleAdvice == nil {
		roleAdvice = map[string][]string{}
	}

	return Bundle{
		Role:        role,
		Chapter:     chapter,
		Functions:   functions,
		Profile:     profile,
		Indicators:  roleIndicators,
		Advice:      roleAdvice,
		Fingerprint: util.ShortFingerprint([]byte(fpFunctions), []byte(fpProfile), []byte(fpIndicators), []byte(fpAdvice)),
	}, nil
}

// Reload drops every cached document so the next Load reads the source
// again. It returns the number of documents dropped.
func (l *Loader) Reload() int {
	l.mu.Lock()
	n := len(l.cache)
	l.cache = make(map[string]document)
	l.mu.Unlock()
	telemetry.Info("refdata.reload", map[string]any{"dropped": n})
	return n
}

// Warm loads every document the catalog names and reports all failures.
func (l *Loader) Warm(ctx context.Context) error {
	var errs []error
	for _, role := range l.catalog.Roles {
		if _, _, err := l.keywords(ctx, l.catalog.FunctionsDocument(role)); err != nil {
			errs = append(errs, l.configError(role, "", l.catalog.FunctionsDocument(role), err))
		}
		if _, _, err := l.keywords(ctx, l.catalog.ProfileDocument(role)); err != nil {
			errs = append(errs, l.configError(role, "", l.catalog.ProfileDocument(role), err))
		}
	}
	if _, _, err := l.indicators(ctx); err != nil {
		errs = append(errs, l.configError("", "", l.catalog.IndicatorsFile, err))
	}
	if _, _, err := l.advice(ctx); err != nil {
		errs = append(errs, l.configError("", "", l.catalog.AdviceFile, err))
	}
	return errors.Join(errs...)
}

// Check warms the cache and verifies that every chapter/role pair of the
// catalog can be loaded.
func (l *Loader) Check(ctx context.Context) error {
	if err := l.Warm(ctx); err != nil {
		return err
	}
	var errs []error
	for _, chapter := range l.catalog.Chapters {
		for _, role := range l.catalog.Roles {
			if _, err := l.Load(ctx, role, chapter); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (l *Loader) configError(role, chapter, name string, err error) error {
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return err
	}
	return &ConfigError{Role: role, Chapter: chapter, Document: name, Err: err}
}

func (l *Loader) keywords(ctx context.Context, name string) (KeywordList, string, error) {
	doc, err := l.document(ctx, name, func(data []byte) (any, error) { return DecodeKeywordList(data) })
	if err != nil {
		return nil, "", err
	}
	return doc.value.(KeywordList), doc.fingerprint, nil
}

func (l *Loader) indicators(ctx context.Context) (IndicatorTable, string, error) {
	doc, err := l.document(ctx, l.catalog.IndicatorsFile, func(data []byte) (any, error) { return DecodeIndicators(data) })
	if err != nil {
		return nil, "", err
	}
	return doc.value.(IndicatorTable), doc.fingerprint, nil
}

func (l *Loader) advice(ctx context.Context) (AdviceTable, string, error) {
	doc, err := l.document(ctx, l.catalog.AdviceFile, func(data []byte) (any, error) { return DecodeAdvice(data) })
	if err != nil {
		return nil, "", err
	}
	return doc.value.(AdviceTable), doc.fingerprint, nil
}

func (l *Loader) document(ctx context.Context, name string, decode func([]byte) (any, error)) (document, error) {
	l.mu.RLock()
	doc, ok := l.cache[name]
	l.mu.RUnlock()
	if ok {
		return doc, nil
	}

	data, err := l.source.Read(ctx, name)
	if err != nil {
		return document{}, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return document{}, fmt.Errorf("%w: %s is empty", ErrMalformedReference, name)
	}
	value, err := decode(data)
	if err != nil {
		return document{}, err
	}

	doc = document{value: value, fingerprint: util.Fingerprint(data)}
	l.mu.Lock()
	l.cache[name] = doc
	l.mu.Unlock()

	telemetry.Info("refdata.loaded", map[string]any{"document": name, "bytes": len(data)})
	return doc, nil
}
