package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "callqueue/docs"
	"callqueue/internal/cache"
	"callqueue/internal/config"
	"callqueue/internal/handlers"
	"callqueue/internal/logger"
	"callqueue/internal/metrics"
	"callqueue/internal/models"
	"callqueue/internal/notify"
	"callqueue/internal/queue"
	"callqueue/internal/storage"
	"callqueue/internal/store"
	"callqueue/internal/tasks"
	"callqueue/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// @title			Call Queue Management Service
// @version		1.0
// @description	A service to manage caller positions in call queues.
func main() {
	if os.Getenv("ENV_CHECK") == "" {
		if err := godotenv.Load(); err != nil {
			fmt.Println("no .env file, using process environment")
		}
	}

	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogPretty)

	m := metrics.New()

	st, db, err := openStore(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}

	rdb, err := storage.NewRedis(cfg)
	if err != nil {
		// The cache is an optimization; the service runs without it.
		log.Warn().Err(err).Msg("redis unavailable, summary cache disabled")
		rdb = nil
	}
	summaryCache := cache.NewSummary(rdb, cfg.SummaryCacheTTL, log)

	notifier := notify.New(notify.Config{Logger: log, Metrics: m})

	engine, err := queue.NewEngine(queue.Config{
		Store:    st,
		Notifier: notifier,
		Cache:    summaryCache,
		Metrics:  m,
		Logger:   log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("engine init failed")
	}
	reader := queue.NewReader(st, summaryCache)

	var scheduler interface{ Stop() context.Context }
	if cfg.StaleAfter > 0 {
		sweeper := tasks.NewSweeper(engine, st, cfg.StaleAfter, log)
		c, err := tasks.InitScheduler(sweeper, cfg.SweepSchedule, log)
		if err != nil {
			log.Fatal().Err(err).Msg("scheduler init failed")
		}
		scheduler = c
	}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	h := handlers.NewHandler(engine, reader, log)
	live := ws.NewLive(notifier, reader, log)

	r.GET("/", handlers.Root)
	r.GET("/healthz", handlers.Healthz)
	r.GET("/dashboard", handlers.Dashboard)
	r.GET("/metrics", gin.WrapH(m.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	q := r.Group("/queue")
	{
		q.POST("/increment", h.IncrementQueue)
		q.POST("/decrement", h.DecrementQueue)
		q.GET("/status", h.QueueStatus)
		q.GET("/count/:queue_name", h.QueueCount)
	}

	qs := r.Group("/queues")
	{
		qs.GET("/summary", h.QueuesSummary)
		qs.GET("/live", live.Handler)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("store", cfg.StoreDriver).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	if scheduler != nil {
		<-scheduler.Stop().Done()
	}
	notifier.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown incomplete")
	}

	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	if rdb != nil {
		rdb.Close()
	}
	log.Info().Msg("stopped")
}

// openStore selects the position store backend. Postgres is the
// production driver; memory backs local development and CI.
func openStore(cfg config.Config, log zerolog.Logger) (store.Store, *gorm.DB, error) {
	switch cfg.StoreDriver {
	case "memory":
		log.Warn().Msg("using in-memory store, positions are lost on restart")
		return store.NewMemory(), nil, nil
	case "postgres":
		db, err := storage.Connect(cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := db.AutoMigrate(&models.CallerEntry{}); err != nil {
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		return store.NewPostgres(db), db, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}
