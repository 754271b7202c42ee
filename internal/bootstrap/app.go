package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"medvault-backend/internal/ai"
	"medvault-backend/internal/extract"
	"medvault-backend/internal/llm"
	"medvault-backend/internal/llm/gemini"
	"medvault-backend/internal/ocr"
	"medvault-backend/internal/records"
	"medvault-backend/internal/shared/config"
	"medvault-backend/internal/shared/server"
	"medvault-backend/internal/shared/storage/db"
	"medvault-backend/internal/shared/storage/object"
	localstore "medvault-backend/internal/shared/storage/object/local"
	s3store "medvault-backend/internal/shared/storage/object/s3"
)

// App holds shared dependencies wired by Build.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	RecordsRepo    records.Repo
	RecordsService *records.Service
	AIService      *ai.Service
	RecordsHandler *records.Handler
	AIHandler      *ai.Handler
}

// Build prepares shared dependencies and the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	llmClient, err := buildLLM(cfg)
	if err != nil {
		return nil, err
	}

	var repo records.Repo
	if sqlDB != nil {
		repo = &records.PGRepo{DB: sqlDB}
	} else {
		repo = records.NewMemoryRepo()
	}

	aiSvc := ai.New(llmClient)
	extractor := extract.New(ocr.NewTesseract(cfg.TesseractCmd))
	recordsSvc := &records.Service{
		Store:     store,
		Repo:      repo,
		Extractor: extractor,
		AI:        aiSvc,
	}

	app := &App{
		Config:         cfg,
		DB:             sqlDB,
		Store:          store,
		RecordsRepo:    repo,
		RecordsService: recordsSvc,
		AIService:      aiSvc,
		RecordsHandler: &records.Handler{Svc: recordsSvc},
		AIHandler:      &ai.Handler{Svc: aiSvc},
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:         app.Config,
		RecordsHandler: app.RecordsHandler,
		AIHandler:      app.AIHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repository")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repository: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildLLM(cfg config.Config) (llm.Client, error) {
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: GEMINI_API_KEY empty; using placeholder model client")
			return llm.PlaceholderClient{}, nil
		}
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	return gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
