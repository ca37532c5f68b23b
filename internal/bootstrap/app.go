// Package bootstrap assembles the application from configuration: storage
// backends, the converter, the scoring client, and the HTTP router.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"resulens-backend/internal/kv"
	"resulens-backend/internal/pdfx"
	"resulens-backend/internal/resumes"
	"resulens-backend/internal/scoring"
	openaiclient "resulens-backend/internal/scoring/openai"
	"resulens-backend/internal/shared/config"
	"resulens-backend/internal/shared/server"
	"resulens-backend/internal/shared/storage/db"
	"resulens-backend/internal/shared/storage/object"
	localstore "resulens-backend/internal/shared/storage/object/local"
	s3store "resulens-backend/internal/shared/storage/object/s3"
	"resulens-backend/internal/shared/telemetry"
)

// App holds the wired dependencies.
type App struct {
	Config        config.Config
	Router        *gin.Engine
	DB            *sql.DB
	KV            kv.Store
	Blobs         object.BlobStore
	Converter     pdfx.Converter
	Scorer        scoring.Client
	ResumeStore   *resumes.Store
	ResumeService *resumes.Service
	ResumeHandler *resumes.Handler
}

// Build prepares the dependency graph and the router. Scorer may be supplied
// to replace the configured provider, which tests use to avoid live calls.
func Build(cfg config.Config, overrides ...func(*App)) (*App, error) {
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	blobs, err := buildBlobs(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:    cfg,
		DB:        sqlDB,
		KV:        buildKV(sqlDB),
		Blobs:     blobs,
		Converter: buildConverter(cfg),
	}
	for _, override := range overrides {
		override(app)
	}

	if app.Scorer == nil {
		scorer, err := buildScorer(cfg, app.Blobs)
		if err != nil {
			return nil, err
		}
		app.Scorer = scorer
	}

	app.ResumeStore = resumes.NewStore(app.KV)
	app.ResumeService = resumes.NewService(app.Blobs, app.Converter, app.Scorer, app.ResumeStore)
	app.ResumeHandler = resumes.NewHandler(app.ResumeService)
	app.Router = server.NewRouter(server.RouterDeps{
		Config:        cfg,
		ResumeHandler: app.ResumeHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Info("bootstrap.db.memory", map[string]any{
				"reason": "DATABASE_URL empty",
			})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.db.memory", map[string]any{
				"reason": "connect failed",
				"err":    err.Error(),
			})
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildKV(sqlDB *sql.DB) kv.Store {
	if sqlDB != nil {
		return kv.NewPostgresStore(sqlDB)
	}
	return kv.NewMemoryStore()
}

func buildBlobs(ctx context.Context, cfg config.Config) (object.BlobStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.AWSRegion) == "" || strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires AWS_REGION and S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildConverter(cfg config.Config) pdfx.Converter {
	dpi, err := strconv.Atoi(strings.TrimSpace(cfg.ConverterDPI))
	if err != nil {
		dpi = 0
	}
	return pdfx.NewPopplerConverter(cfg.ConverterBin, dpi)
}

func buildScorer(cfg config.Config, blobs object.BlobStore) (scoring.Client, error) {
	switch cfg.ScoringProvider {
	case "openai":
		return openaiclient.NewClient(os.Getenv("OPENAI_API_KEY"), cfg.ScoringModel, blobs)
	default:
		return nil, fmt.Errorf("unknown SCORING_PROVIDER %q", cfg.ScoringProvider)
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

// WithScorer overrides the scoring client before it is built from config.
func WithScorer(client scoring.Client) func(*App) {
	return func(app *App) {
		app.Scorer = client
	}
}

// WithConverter overrides the document converter, so tests do not need the
// rasterizer binary installed.
func WithConverter(conv pdfx.Converter) func(*App) {
	return func(app *App) {
		app.Converter = conv
	}
}
