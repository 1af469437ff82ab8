package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/grvup/classroom/config"
	"github.com/grvup/classroom/internal/api/handler"
	"github.com/grvup/classroom/internal/api/router"
	"github.com/grvup/classroom/internal/repository"
	"github.com/grvup/classroom/internal/service"
	applogger "github.com/grvup/classroom/pkg/logger"
	"github.com/grvup/classroom/pkg/redis"
	"github.com/grvup/classroom/pkg/session"
)

func main() {
	// 1. config
	cfg, err := config.Load(os.Getenv("CLASSROOM_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting classroom",
		zap.Int("port", cfg.Server.Port),
		zap.String("driver", cfg.Database.Driver),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. storage
	store, err := repository.Connect(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("storage unavailable", zap.Error(err))
	}

	// 4. redis, optional: without it login/signup are not rate limited
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("redis unavailable, rate limiting disabled", zap.Error(err))
			rdb = nil
		}
	}

	// 5. wiring: Repository → Service → Handler
	sessions := session.NewManager(&cfg.Auth.Cookie)
	if cfg.Auth.Cookie.HashKey == "" {
		logger.Warn("auth.cookie.hash_key not set, sessions will not survive a restart")
	}
	svc := service.NewService(cfg, store.Repository, logger)
	h := handler.NewHandler(svc, sessions)

	// 6. seed the default principal once storage is reachable
	seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if _, err := svc.Auth.EnsureDefaultPrincipal(seedCtx); err != nil {
		logger.Error("seeding the principal account failed", zap.Error(err))
	}
	seedCancel()

	// 7. router
	gin.SetMode(gin.ReleaseMode)
	engine, err := router.Setup(cfg, h, sessions, svc.Auth, rdb, logger)
	if err != nil {
		logger.Fatal("init router", zap.Error(err))
	}

	// 8. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	if err := store.Close(ctx); err != nil {
		logger.Error("closing storage failed", zap.Error(err))
	}
	if rdb != nil {
		_ = rdb.Close()
	}

	logger.Info("server stopped")
}
