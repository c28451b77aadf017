package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"hv-analyzer/internal/refdata"
	"hv-analyzer/internal/sections"
)

const (
	StoreLocal    = "local"
	StoreS3       = "s3"
	StorePostgres = "postgres"
)

// Config holds application configuration.
type Config struct {
	Env              string        `mapstructure:"env"`
	Port             string        `mapstructure:"port"`
	CORSAllowOrigins []string      `mapstructure:"cors_allow_origins"`
	ObjectStore      string        `mapstructure:"object_store"`
	ReferenceDir     string        `mapstructure:"reference_dir"`
	AWSRegion        string        `mapstructure:"aws_region"`
	S3Bucket         string        `mapstructure:"s3_bucket"`
	S3Prefix         string        `mapstructure:"s3_prefix"`
	SSEKMSKeyID      string        `mapstructure:"sse_kms_key_id"`
	DatabaseURL      string        `mapstructure:"database_url"`
	AdminToken       string        `mapstructure:"admin_token"`
	MaxUploadBytes   int64         `mapstructure:"max_upload_bytes"`
	ShutdownTimeout  time.Duration `mapstructure:"shutdown_timeout"`

	RateLimit RateLimit `mapstructure:"rate_limit"`
	Log       Log       `mapstructure:"log"`
	Scoring   Scoring   `mapstructure:"scoring"`
	Sections  Sections  `mapstructure:"sections"`
	Reference Reference `mapstructure:"reference"`
}

// RateLimit is the token bucket applied to the analyze routes.
type RateLimit struct {
	Rate  float64 `mapstructure:"rate"`
	Burst int     `mapstructure:"burst"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Scoring configures the similarity strategy and the aggregation rules.
type Scoring struct {
	Strategy         string  `mapstructure:"strategy"`
	Scale            string  `mapstructure:"scale"`
	Threshold        float64 `mapstructure:"threshold"`
	MinItemLength    int     `mapstructure:"min_item_length"`
	Stemming         bool    `mapstructure:"stemming"`
	CommentThreshold float64 `mapstructure:"comment_threshold"`
	PositiveComment  string  `mapstructure:"positive_comment"`
	NegativeComment  string  `mapstructure:"negative_comment"`
}

// Sections lists the HV headers in document order, the section scored as
// profile and the sections joined for the indicators. An empty indicator
// list means every section except the profile.
type Sections struct {
	Headers    []string `mapstructure:"headers"`
	Profile    string   `mapstructure:"profile"`
	Indicators []string `mapstructure:"indicators"`
}

// Reference names the reference documents and the accepted enumerations.
type Reference struct {
	Roles           []string `mapstructure:"roles"`
	Chapters        []string `mapstructure:"chapters"`
	FunctionsPrefix string   `mapstructure:"functions_prefix"`
	ProfilePrefix   string   `mapstructure:"profile_prefix"`
	IndicatorsFile  string   `mapstructure:"indicators_file"`
	AdviceFile      string   `mapstructure:"advice_file"`
}

// Catalog converts the reference settings into a refdata catalog.
func (r Reference) Catalog() refdata.Catalog {
	return refdata.Catalog{
		Roles:           r.Roles,
		Chapters:        r.Chapters,
		FunctionsPrefix: r.FunctionsPrefix,
		ProfilePrefix:   r.ProfilePrefix,
		IndicatorsFile:  r.IndicatorsFile,
		AdviceFile:      r.AdviceFile,
	}
}

func setDefaults(v *viper.Viper) {
	catalog := refdata.DefaultCatalog()

	v.SetDefault("env", "dev")
	v.SetDefault("port", "8080")
	v.SetDefault("cors_allow_origins", []string{"http://localhost:5173"})
	v.SetDefault("object_store", StoreLocal)
	v.SetDefault("reference_dir", "./data")
	v.SetDefault("aws_region", "")
	v.SetDefault("s3_bucket", "")
	v.SetDefault("s3_prefix", "reference/")
	v.SetDefault("sse_kms_key_id", "")
	v.SetDefault("database_url", "")
	v.SetDefault("admin_token", "")
	v.SetDefault("max_upload_bytes", 10<<20)
	v.SetDefault("shutdown_timeout", "10s")

	v.SetDefault("rate_limit.rate", 1.0)
	v.SetDefault("rate_limit.burst", 5)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("scoring.strategy", "tfidf")
	v.SetDefault("scoring.scale", "linear")
	v.SetDefault("scoring.threshold", 3.5)
	v.SetDefault("scoring.min_item_length", 5)
	v.SetDefault("scoring.stemming", false)
	v.SetDefault("scoring.comment_threshold", 3.0)
	v.SetDefault("scoring.positive_comment", "Buen desempeño, revisa los consejos para mejorar algunas secciones.")
	v.SetDefault("scoring.negative_comment", "Se recomienda reforzar las secciones con baja puntuación.")

	v.SetDefault("sections.headers", sections.DefaultHeaders)
	v.SetDefault("sections.profile", "Perfil")
	v.SetDefault("sections.indicators", []string{})

	v.SetDefault("reference.roles", catalog.Roles)
	v.SetDefault("reference.chapters", catalog.Chapters)
	v.SetDefault("reference.functions_prefix", catalog.FunctionsPrefix)
	v.SetDefault("reference.profile_prefix", catalog.ProfilePrefix)
	v.SetDefault("reference.indicators_file", catalog.IndicatorsFile)
	v.SetDefault("reference.advice_file", catalog.AdviceFile)
}

// Load reads configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence. path falls back to the
// HV_CONFIG environment variable; no file is read when both are empty.
func Load(path string) (Config, error) {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = strings.TrimSpace(os.Getenv("HV_CONFIG"))
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Env = normalizeEnv(c.Env)
	c.ObjectStore = strings.ToLower(strings.TrimSpace(c.ObjectStore))
	c.CORSAllowOrigins = trimAll(c.CORSAllowOrigins)
	c.Sections.Headers = trimAll(c.Sections.Headers)
	c.Sections.Indicators = trimAll(c.Sections.Indicators)
	c.Reference.Roles = trimAll(c.Reference.Roles)
	c.Reference.Chapters = trimAll(c.Reference.Chapters)
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
}

// Validate reports settings that make the service unable to start.
func (c Config) Validate() error {
	var errs []error
	switch c.ObjectStore {
	case StoreLocal:
		if strings.TrimSpace(c.ReferenceDir) == "" {
			errs = append(errs, errors.New("REFERENCE_DIR is required for the local store"))
		}
	case StoreS3:
		if strings.TrimSpace(c.S3Bucket) == "" {
			errs = append(errs, errors.New("S3_BUCKET is required for the s3 store"))
		}
	case StorePostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown OBJECT_STORE %q (want local, s3 or postgres)", c.ObjectStore))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_BYTES must be positive"))
	}
	if c.Scoring.Threshold < 0 || c.Scoring.Threshold > 5 {
		errs = append(errs, fmt.Errorf("SCORING_THRESHOLD %v is outside 0..5", c.Scoring.Threshold))
	}
	if len(c.Sections.Headers) < 2 {
		errs = append(errs, errors.New("SECTIONS_HEADERS needs at least two headers"))
	}
	return errors.Join(errs...)
}

// loadEnvFiles loads KEY=VALUE pairs from the given files if they exist.
// Variables already set in the environment win.
func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		_ = godotenv.Load(path)
	}
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}
