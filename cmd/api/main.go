package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"buildit/internal/ai"
	"buildit/internal/api"
	"buildit/internal/config"
	"buildit/internal/database"
	"buildit/internal/extract"
	"buildit/internal/pdf"
	"buildit/internal/resume"
	"buildit/internal/storage"
	"buildit/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("load .env: %v", err)
	}
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	resumeStore, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("init store: %v", err)
	}
	defer closeStore()
	logger.Info("resume store ready", slog.String("driver", cfg.Store.Driver))

	engine, err := pdf.NewEngine(cfg.Renderer.Engine, cfg.Renderer.ChromeBin)
	if err != nil {
		log.Fatalf("init pdf engine: %v", err)
	}
	exporter := pdf.NewExporter(cfg.Renderer.Engine, engine, cfg.Renderer.Timeout, logger)

	svc := api.Services{
		Store:          resumeStore,
		Exporter:       exporter,
		Renderer:       resume.NewRenderer(cfg.Render.RawHTML),
		MaxUploadBytes: cfg.API.MaxUploadBytes,
	}

	var scanner extract.Scanner
	if cfg.Upload.ClamdAddr != "" {
		scanner = extract.NewClamdScanner(cfg.Upload.ClamdAddr)
		logger.Info("upload virus scanning enabled", slog.String("clamd_addr", cfg.Upload.ClamdAddr))
	}
	svc.Extractor = extract.NewExtractor(scanner)

	if cfg.MinIO.Enabled {
		storageClient, err := storage.NewClient(cfg.MinIO)
		if err != nil {
			log.Fatalf("init storage client: %v", err)
		}
		svc.Storage = storageClient
		logger.Info("export storage ready", slog.String("bucket", cfg.MinIO.Bucket))
	}

	if cfg.AI.GoogleAPIKey != "" {
		completer, err := ai.NewGoogleAI(ctx, cfg.AI.GoogleAPIKey, cfg.AI.Model)
		if err != nil {
			log.Fatalf("init ai client: %v", err)
		}
		svc.AI = ai.NewService(completer, logger)
		logger.Info("ai service ready", slog.String("model", cfg.AI.Model))
	} else {
		logger.Warn("GOOGLE_API_KEY not set, AI endpoints are disabled")
	}

	if cfg.AI.DailyLimit > 0 {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error("close redis client failed", slog.Any("error", err))
			}
		}()
		// 限流在 Redis 不可用时放行，启动阶段只记录告警
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, AI rate limiting will fail open", slog.Any("error", err))
		}
		svc.Limiter = api.NewDailyLimiter(redisClient, cfg.AI.DailyLimit)
	}

	router := api.NewRouter(cfg, logger)
	api.RegisterRoutes(router, svc)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.API.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("api listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server stopped", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.Renderer.Timeout+5*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", slog.Any("error", err))
	}
	logger.Info("api stopped")
}

// openStore 按 store.driver 选择 PostgreSQL 或 MongoDB，返回的 close 函数负责释放连接。
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMongo:
		client, err := store.ConnectMongo(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(disconnectCtx)
		}
		s := store.NewMongoStore(client.Database(cfg.Mongo.Database))
		if err := s.EnsureIndexes(ctx); err != nil {
			closeFn()
			return nil, nil, err
		}
		return s, closeFn, nil
	default:
		db, err := database.Open(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return store.NewGormStore(db), closeFn, nil
	}
}
