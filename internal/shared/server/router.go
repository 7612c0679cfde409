package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-tracker/internal/legacyimport"
	"resume-tracker/internal/recommend"
	"resume-tracker/internal/services/health"
	"resume-tracker/internal/shared/config"
	"resume-tracker/internal/shared/metrics"
	"resume-tracker/internal/shared/server/middleware"
	"resume-tracker/internal/shared/server/respond"
	"resume-tracker/internal/shared/storage/db"
	"resume-tracker/internal/submissions"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
// A store that cannot be opened is a startup failure, never a silently empty
// history.
func NewRouter(cfg config.Config) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Identity(),
	)

	repo, conn, err := buildRepo(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	healthSvc := health.NewService(nil, cfg.StoreDriver)
	if conn != nil {
		healthSvc = health.NewService(conn, cfg.StoreDriver)
	}

	svc := submissions.NewService(repo, submissions.NewLinkManager("/api/v1/files"))
	subHandler := submissions.NewHandler(svc)

	recClient := recommend.NewClient(cfg.RecommendPrimary, cfg.RecommendBackup)
	recHandler := recommend.NewHandler(recClient, svc)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		payload, ok := healthSvc.Status(c.Request.Context())
		status := http.StatusOK
		if !ok {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, payload)
	})
	api.GET("/metrics", metrics.Handler())
	subHandler.RegisterRoutes(api)
	recHandler.RegisterRoutes(api)

	if cfg.Env == "dev" {
		importer := &legacyimport.Importer{
			Client: legacyimport.NewClient(cfg.LegacyExportURL),
			Repo:   repo,
		}
		dev := api.Group("/dev")
		legacyimport.NewHandler(importer).RegisterDevRoutes(dev)
	}

	return r, nil
}

func buildRepo(ctx context.Context, cfg config.Config) (submissions.Repo, *sql.DB, error) {
	if cfg.StoreDriver == "memory" {
		return submissions.NewMemoryRepo(), nil, nil
	}

	conn, err := db.Open(ctx, db.Settings{
		Driver:      cfg.StoreDriver,
		SQLitePath:  cfg.SQLitePath,
		DatabaseURL: cfg.DatabaseURL,
	})
	if err != nil {
		return nil, nil, err
	}
	if err := db.RunMigrations(ctx, conn, cfg.StoreDriver); err != nil {
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	if cfg.StoreDriver == "postgres" {
		return &submissions.PGRepo{DB: conn}, conn, nil
	}
	return &submissions.SQLiteRepo{DB: conn}, conn, nil
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
