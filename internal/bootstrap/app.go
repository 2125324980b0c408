// Package bootstrap wires configuration into concrete collaborators and
// hands back a ready-to-serve engine.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gin-gonic/gin"

	"tailor-backend/internal/render"
	"tailor-backend/internal/render/cloudconvert"
	"tailor-backend/internal/shared/auth"
	"tailor-backend/internal/shared/config"
	"tailor-backend/internal/shared/server"
	"tailor-backend/internal/shared/storage/db"
	"tailor-backend/internal/shared/storage/object"
	"tailor-backend/internal/shared/storage/object/local"
	"tailor-backend/internal/shared/storage/object/s3"
	"tailor-backend/internal/shared/telemetry"
	"tailor-backend/internal/tailorings"
)

// App bundles the running pieces so main can serve and shut down cleanly.
type App struct {
	Router *gin.Engine
	DB     *sql.DB
}

// Close releases held resources.
func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

// Build constructs the full application from configuration. A missing
// DATABASE_URL outside production falls back to the in-memory repository so
// the API runs without infrastructure.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	var (
		database *sql.DB
		repo     tailorings.Repo
	)
	if cfg.DatabaseURL == "" {
		if cfg.Env == "production" {
			return nil, fmt.Errorf("DATABASE_URL is required in production")
		}
		telemetry.Warn("db.disabled", map[string]any{
			"reason": "DATABASE_URL not set, using in-memory repository",
		})
		repo = tailorings.NewMemoryRepo()
	} else {
		conn, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		if err := db.RunMigrations(ctx, conn); err != nil {
			conn.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		database = conn
		repo = &tailorings.PGRepo{DB: conn}
	}

	store, err := buildObjectStore(ctx, cfg)
	if err != nil {
		if database != nil {
			database.Close()
		}
		return nil, err
	}

	compiler, err := buildCompiler(cfg)
	if err != nil {
		if database != nil {
			database.Close()
		}
		return nil, err
	}

	tailoringsHandler := tailorings.NewHandler(&tailorings.Service{Repo: repo, Store: store})
	renderHandler := render.NewHandler(&render.Service{Compiler: compiler})

	router := server.NewRouter(server.RouterDeps{
		Config:     cfg,
		Verifier:   auth.NewJWTVerifier(cfg.JWTSecret),
		Tailorings: tailoringsHandler,
		Render:     renderHandler,
	})

	return &App{Router: router, DB: database}, nil
}

func buildObjectStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		store, err := s3.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
		if err != nil {
			return nil, fmt.Errorf("init s3 store: %w", err)
		}
		return store, nil
	default:
		return local.New(cfg.LocalStoreDir), nil
	}
}

func buildCompiler(cfg config.Config) (render.Compiler, error) {
	if cfg.CloudConvertAPIKey == "" {
		if cfg.Env == "production" {
			return nil, fmt.Errorf("CLOUDCONVERT_API_KEY is required in production")
		}
		telemetry.Warn("render.disabled", map[string]any{
			"reason": "CLOUDCONVERT_API_KEY not set, render endpoint will report unavailable",
		})
		return unavailableCompiler{}, nil
	}
	return cloudconvert.NewClient(cfg.CloudConvertAPIKey, cfg.CloudConvertBaseURL)
}

// unavailableCompiler stands in when no compilation credentials are
// configured, keeping the rest of the API usable in dev.
type unavailableCompiler struct{}

func (unavailableCompiler) Compile(context.Context, string) ([]byte, error) {
	return nil, render.ErrServiceUnavailable
}
