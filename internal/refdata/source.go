package refdata

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"hv-analyzer/internal/shared/storage/object"
	"hv-analyzer/internal/shared/util"
)

// Source reads raw reference documents by name. Implementations return an
// error wrapping ErrMissingReference when the document does not exist.
type Source interface {
	Read(ctx context.Context, name string) ([]byte, error)
}

// Writer stores raw reference documents by name.
type Writer interface {
	Write(ctx context.Context, name string, data []byte) error
}

// ObjectSource reads reference documents from an object store (local
// directory or S3) under an optional key prefix.
type ObjectSource struct {
	store  object.Store
	prefix string
}

// NewObjectSource wraps store. prefix is joined in front of every name.
func NewObjectSource(store object.Store, prefix string) *ObjectSource {
	return &ObjectSource{store: store, prefix: strings.Trim(prefix, "/")}
}

func (s *ObjectSource) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

func (s *ObjectSource) Read(ctx context.Context, name string) ([]byte, error) {
	rc, err := s.store.Open(ctx, s.key(name))
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrMissingReference, name)
		}
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

func (s *ObjectSource) Write(ctx context.Context, name string, data []byte) error {
	if _, err := s.store.SaveWithKey(ctx, s.key(name), "application/json", bytes.NewReader(data)); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}

// PGSource keeps reference documents in the reference_documents table.
type PGSource struct {
	db *sql.DB
}

// NewPGSource creates a Postgres-backed source.
func NewPGSource(db *sql.DB) *PGSource {
	return &PGSource{db: db}
}

func (s *PGSource) Read(ctx context.Context, name string) ([]byte, error) {
	var content string
	err := s.db.QueryRowContext(ctx,
		`SELECT content FROM reference_documents WHERE name = $1`,
		name,
	).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrMissingReference, name)
	}
	if err != nil {
		return nil, fmt.Errorf("query reference document %s: %w", name, err)
	}
	return []byte(content), nil
}

func (s *PGSource) Write(ctx context.Context, name string, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reference_documents (name, content, fingerprint, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (name) DO UPDATE
		 SET content = EXCLUDED.content, fingerprint = EXCLUDED.fingerprint, updated_at = now()`,
		name, string(data), util.Fingerprint(data),
	)
	if err != nil {
		return fmt.Errorf("upsert reference document %s: %w", name, err)
	}
	return nil
}

var (
	_ Source = (*ObjectSource)(nil)
	_ Writer = (*ObjectSource)(nil)
	_ Source = (*PGSource)(nil)
	_ Writer = (*PGSource)(nil)
)
