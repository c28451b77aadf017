package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"hv-analyzer/internal/evaluation"
	"hv-analyzer/internal/refdata"
	"hv-analyzer/internal/sections"
	"hv-analyzer/internal/services/health"
	"hv-analyzer/internal/shared/config"
	"hv-analyzer/internal/shared/server"
	"hv-analyzer/internal/shared/storage/db"
	localstore "hv-analyzer/internal/shared/storage/object/local"
	s3store "hv-analyzer/internal/shared/storage/object/s3"
	"hv-analyzer/internal/shared/telemetry"
	"hv-analyzer/internal/similarity"
)

// ReferenceStore reads and writes reference documents.
type ReferenceStore interface {
	refdata.Source
	refdata.Writer
}

// App holds shared dependencies.
type App struct {
	Config     config.Config
	Router     *gin.Engine
	DB         *sql.DB
	References ReferenceStore
	Loader     *refdata.Loader
	Service    *evaluation.Service
	Handler    *evaluation.Handler
	Health     *health.Service
}

// Build prepares every dependency and wires the router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if err := telemetry.Init(cfg.Log.Format, cfg.Log.Level); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	app, err := BuildCore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	handler, err := evaluation.NewHandler(app.Service, app.Loader, cfg.MaxUploadBytes, cfg.AdminToken)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Handler = handler

	app.Health = health.NewService()
	app.Health.Register("references", app.Loader.Warm)
	if app.DB != nil {
		app.Health.Register("database", app.DB.PingContext)
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:     cfg,
		Evaluation: handler,
		Health:     app.Health,
	})
	return app, nil
}

// BuildCore prepares the reference store, loader and evaluation service
// without HTTP wiring. The CLI uses it directly.
func BuildCore(ctx context.Context, cfg config.Config) (*App, error) {
	app := &App{Config: cfg}

	refs, sqlDB, err := buildReferenceStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.References = refs
	app.DB = sqlDB
	app.Loader = refdata.NewLoader(refs, cfg.Reference.Catalog())

	svc, err := buildService(cfg, app.Loader)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Service = svc

	if err := app.Loader.Warm(ctx); err != nil {
		// Requests for the affected roles fail with configuration_error
		// until the data is fixed and reloaded.
		telemetry.Warn("bootstrap.references_incomplete", map[string]any{"err": err})
	}

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":          cfg.Env,
		"object_store": cfg.ObjectStore,
		"strategy":     svc.Aggregator.Scorer.Name(),
		"scale":        string(svc.Aggregator.Scale),
		"roles":        len(cfg.Reference.Roles),
		"chapters":     len(cfg.Reference.Chapters),
	})
	return app, nil
}

// Close releases the database connection, if any.
func (a *App) Close() {
	if a != nil && a.DB != nil && !db.IsLambdaRuntime() {
		_ = a.DB.Close()
	}
}

func buildReferenceStore(ctx context.Context, cfg config.Config) (ReferenceStore, *sql.DB, error) {
	switch cfg.ObjectStore {
	case config.StoreS3:
		store, err := s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
		if err != nil {
			return nil, nil, fmt.Errorf("init s3 store: %w", err)
		}
		return refdata.NewObjectSource(store, ""), nil, nil
	case config.StorePostgres:
		sqlDB, err := buildDB(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return refdata.NewPGSource(sqlDB), sqlDB, nil
	default:
		return refdata.NewObjectSource(localstore.New(cfg.ReferenceDir), ""), nil, nil
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		opts := db.OptionsFromEnv(db.DefaultLambdaOptions())
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, opts)
	} else {
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if isDevLike(cfg.Env) {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}
	return sqlDB, nil
}

func buildService(cfg config.Config, loader *refdata.Loader) (*evaluation.Service, error) {
	scorer, err := similarity.New(cfg.Scoring.Strategy, similarity.Options{Stemming: cfg.Scoring.Stemming})
	if err != nil {
		return nil, err
	}
	scale, err := similarity.ParseScale(cfg.Scoring.Scale)
	if err != nil {
		return nil, err
	}

	agg := evaluation.NewAggregator(scorer, scale)
	agg.Threshold = cfg.Scoring.Threshold
	if cfg.Scoring.MinItemLength > 0 {
		agg.MinItemLength = cfg.Scoring.MinItemLength
	}
	agg.CommentThreshold = cfg.Scoring.CommentThreshold
	if s := strings.TrimSpace(cfg.Scoring.PositiveComment); s != "" {
		agg.PositiveComment = s
	}
	if s := strings.TrimSpace(cfg.Scoring.NegativeComment); s != "" {
		agg.NegativeComment = s
	}

	return &evaluation.Service{
		References:        loader,
		Splitter:          sections.New(cfg.Sections.Headers),
		ProfileSection:    cfg.Sections.Profile,
		IndicatorSections: cfg.Sections.Indicators,
		Aggregator:        agg,
	}, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
