package refdata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"hv-analyzer/internal/shared/telemetry"
)

// Import validates every reference document found in dir and writes it to
// dst. Files the catalog does not recognise are skipped. It returns the
// names written.
func Import(ctx context.Context, dir string, catalog Catalog, dst Writer) ([]string, error) {
	catalog = catalog.withDefaults()
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	var imported []string
	for _, file := range matches {
		if err := ctx.Err(); err != nil {
			return imported, err
		}
		name := filepath.Base(file)
		decode := catalog.decoderFor(name)
		if decode == nil {
			telemetry.Warn("refdata.import.skip", map[string]any{"document": name})
			continue
		}

		data, err := os.ReadFile(file)
		if err != nil {
			return imported, fmt.Errorf("read %s: %w", file, err)
		}
		if err := decode(data); err != nil {
			return imported, &ConfigError{Document: name, Err: err}
		}
		if err := dst.Write(ctx, name, data); err != nil {
			return imported, err
		}
		imported = append(imported, name)
		telemetry.Info("refdata.import", map[string]any{"document": name, "bytes": len(data)})
	}
	return imported, nil
}

func (c Catalog) decoderFor(name string) func([]byte) error {
	switch name {
	case c.IndicatorsFile:
		return func(data []byte) error { _, err := DecodeIndicators(data); return err }
	case c.AdviceFile:
		return func(data []byte) error { _, err := DecodeAdvice(data); return err }
	}
	for _, role := range c.Roles {
		if name == c.FunctionsDocument(role) || name == c.ProfileDocument(role) {
			return func(data []byte) error { _, err := DecodeKeywordList(data); return err }
		}
	}
	return nil
}
