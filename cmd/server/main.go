package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "adventure-service/docs"
	"adventure-service/internal/cache"
	"adventure-service/internal/config"
	"adventure-service/internal/generator"
	"adventure-service/internal/llm"
	"adventure-service/internal/logger"
	"adventure-service/internal/repository/postgresql"
	"adventure-service/internal/repository/sqlite"
	"adventure-service/internal/service"
	httptransport "adventure-service/internal/transport/http"
	"adventure-service/internal/worker"
)

const interruptedJobError = "job interrupted by service restart"

// jobStore is what both storage backends provide for jobs.
type jobStore interface {
	worker.JobStore
	service.JobRepository
	FailUnfinished(ctx context.Context, errText string) (int64, error)
}

type storage struct {
	jobs    jobStore
	stories service.StoryRepository
	close   func()
}

// @title Adventure Story API
// @version 1.0
// @description Generates choose-your-own-adventure stories in the background and serves them as node trees.
func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting adventure service", cfg.LogFields()...)

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.close()

	// Jobs from a previous process can never finish; the queue lived in memory.
	n, err := store.jobs.FailUnfinished(ctx, interruptedJobError)
	if err != nil {
		return fmt.Errorf("fail unfinished jobs: %w", err)
	}
	if n > 0 {
		log.Warn("marked interrupted jobs as failed", zap.Int64("count", n))
	}

	var storyCache service.StoryCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer func() { _ = rdb.Close() }()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		storyCache = cache.NewStoryCache(rdb, cfg.StoryCacheTTL)
	}

	client, err := llm.NewClient(llm.Config{
		Provider: cfg.AIProvider,
		BaseURL:  cfg.AIBaseURL,
		Model:    cfg.AIModel,
		APIKey:   cfg.AIAPIKey,
		Timeout:  cfg.AITimeout,
	}, log)
	if err != nil {
		return fmt.Errorf("llm: %w", err)
	}

	builder := generator.NewBuilder(generator.Limits{
		MaxNodes: cfg.StoryMaxNodes,
		MaxDepth: cfg.StoryMaxDepth,
	})
	gen := generator.NewGenerator(client, builder, generator.Params{
		Temperature: cfg.AITemperature,
		MaxTokens:   cfg.AIMaxTokens,
		Timeout:     cfg.AITimeout,
	}, log)

	processor := worker.NewProcessor(store.jobs, gen, log)
	pool := worker.NewPool(processor, cfg.Workers, cfg.JobQueueSize, log)

	storySvc := service.NewStoryService(store.jobs, store.stories, pool, storyCache, log)
	handler := httptransport.NewHandler(storySvc, log)

	srv := &http.Server{
		Addr: ":" + strconv.Itoa(cfg.HTTPPort),
		Handler: httptransport.Routes(handler, httptransport.RouterConfig{
			APIPrefix:      cfg.APIPrefix,
			AllowedOrigins: cfg.AllowedOrigins,
		}, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		pool.Run(gctx)
		return nil
	})

	g.Go(func() error {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("http shutdown", zap.Error(err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("adventure service stopped")
	return nil
}

func openStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (*storage, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		if err := sqlite.Migrate(ctx, db); err != nil {
			return nil, fmt.Errorf("sqlite migrate: %w", err)
		}
		return &storage{
			jobs:    sqlite.NewJobRepository(db, log),
			stories: sqlite.NewStoryRepository(db),
			close: func() {
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
			},
		}, nil

	default:
		pool, err := postgresql.NewPool(ctx, cfg.GetDSN(), postgresql.PoolConfig{
			MaxConns:    cfg.DBMaxConns,
			MaxIdleTime: cfg.DBIdleTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("pg: %w", err)
		}
		if cfg.DBAutoMigrate {
			if err := postgresql.Migrate(pool); err != nil {
				pool.Close()
				return nil, fmt.Errorf("pg migrate: %w", err)
			}
			log.Info("database migrations applied")
		}
		return &storage{
			jobs:    postgresql.NewJobRepository(pool, log),
			stories: postgresql.NewStoryRepository(pool),
			close:   pool.Close,
		}, nil
	}
}
