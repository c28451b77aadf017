package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"hv-analyzer/internal/sections"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("HV_CONFIG", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" || cfg.Env != "dev" || cfg.ObjectStore != StoreLocal {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Scoring.Strategy != "tfidf" || cfg.Scoring.Threshold != 3.5 || cfg.Scoring.MinItemLength != 5 {
		t.Fatalf("unexpected scoring defaults %+v", cfg.Scoring)
	}
	if !reflect.DeepEqual(cfg.Sections.Headers, sections.DefaultHeaders) {
		t.Fatalf("unexpected headers %v", cfg.Sections.Headers)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("unexpected shutdown timeout %v", cfg.ShutdownTimeout)
	}
	if catalog := cfg.Reference.Catalog(); len(catalog.Roles) != 8 || catalog.IndicatorsFile != "indicators.json" {
		t.Fatalf("unexpected catalog %+v", catalog)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("HV_CONFIG", "")
	t.Setenv("ENV", "prod")
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("SCORING_STRATEGY", "fuzzy")
	t.Setenv("SCORING_THRESHOLD", "4")
	t.Setenv("RATE_LIMIT_BURST", "9")
	t.Setenv("REFERENCE_ROLES", "PC,IC")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Env != "production" || cfg.Port != "9090" {
		t.Fatalf("unexpected env/port %s/%s", cfg.Env, cfg.Port)
	}
	if want := []string{"https://a.example", "https://b.example"}; !reflect.DeepEqual(cfg.CORSAllowOrigins, want) {
		t.Fatalf("expected %v, got %v", want, cfg.CORSAllowOrigins)
	}
	if cfg.Scoring.Strategy != "fuzzy" || cfg.Scoring.Threshold != 4 {
		t.Fatalf("unexpected scoring %+v", cfg.Scoring)
	}
	if cfg.RateLimit.Burst != 9 {
		t.Fatalf("unexpected burst %d", cfg.RateLimit.Burst)
	}
	if !reflect.DeepEqual(cfg.Reference.Roles, []string{"PC", "IC"}) {
		t.Fatalf("unexpected roles %v", cfg.Reference.Roles)
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Fatalf("unexpected shutdown timeout %v", cfg.ShutdownTimeout)
	}
}

func TestLoadFileAndDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	t.Setenv("HV_CONFIG", "")
	// Registered so t.Setenv restores it; the .env file sets it below.
	t.Setenv("ADMIN_TOKEN", "")
	os.Unsetenv("ADMIN_TOKEN")

	yaml := strings.Join([]string{
		"object_store: postgres",
		"database_url: postgres://localhost/hv",
		"scoring:",
		"  scale: affine",
		"  stemming: true",
		"sections:",
		"  profile: Resumen",
		"  headers:",
		"    - Resumen",
		"    - Experiencia",
		"    - Firma",
	}, "\n")
	path := filepath.Join(dir, "hv.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("ADMIN_TOKEN=from-dotenv\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ObjectStore != StorePostgres || cfg.DatabaseURL != "postgres://localhost/hv" {
		t.Fatalf("unexpected store settings %+v", cfg)
	}
	if cfg.Scoring.Scale != "affine" || !cfg.Scoring.Stemming {
		t.Fatalf("unexpected scoring %+v", cfg.Scoring)
	}
	if cfg.Sections.Profile != "Resumen" || len(cfg.Sections.Headers) != 3 {
		t.Fatalf("unexpected sections %+v", cfg.Sections)
	}
	if cfg.AdminToken != "from-dotenv" {
		t.Fatalf("expected admin token from .env, got %q", cfg.AdminToken)
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		ObjectStore:    StoreLocal,
		ReferenceDir:   "./data",
		MaxUploadBytes: 1,
		Scoring:        Scoring{Threshold: 3.5},
		Sections:       Sections{Headers: []string{"Perfil", "Firma"}},
	}

	cases := []struct {
		name    string
		edit    func(*Config)
		wantErr string
	}{
		{name: "ok", edit: func(*Config) {}},
		{name: "s3 without bucket", edit: func(c *Config) { c.ObjectStore = StoreS3 }, wantErr: "S3_BUCKET"},
		{name: "postgres without url", edit: func(c *Config) { c.ObjectStore = StorePostgres }, wantErr: "DATABASE_URL"},
		{name: "unknown store", edit: func(c *Config) { c.ObjectStore = "ftp" }, wantErr: "OBJECT_STORE"},
		{name: "threshold", edit: func(c *Config) { c.Scoring.Threshold = 7 }, wantErr: "SCORING_THRESHOLD"},
		{name: "headers", edit: func(c *Config) { c.Sections.Headers = []string{"Perfil"} }, wantErr: "SECTIONS_HEADERS"},
		{name: "upload", edit: func(c *Config) { c.MaxUploadBytes = 0 }, wantErr: "MAX_UPLOAD_BYTES"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.edit(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error mentioning %s, got %v", tc.wantErr, err)
			}
		})
	}
}
