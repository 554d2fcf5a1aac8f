package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/pokerjest/movieAutoTool/internal/api"
	"github.com/pokerjest/movieAutoTool/internal/app"
	"github.com/pokerjest/movieAutoTool/internal/config"
	"github.com/pokerjest/movieAutoTool/internal/db"
	"github.com/pokerjest/movieAutoTool/internal/event"
	"github.com/pokerjest/movieAutoTool/internal/logging"
	"github.com/pokerjest/movieAutoTool/internal/scheduler"
	"github.com/pokerjest/movieAutoTool/internal/worker"
)

func main() {
	// 1. Load Config
	if err := config.LoadConfig("."); err != nil {
		logging.Fatal().Err(err).Msg("Failed to load config")
	}
	cfg := config.AppConfig
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	// 2. Setup Gin Mode
	gin.SetMode(cfg.Server.Mode)

	// 转换为绝对路径日志一下
	absPath, _ := filepath.Abs(cfg.Database.Path)
	logging.Info().Str("path", absPath).Msg("Initializing database")
	db.InitDB(cfg.Database.Path)
	defer db.CloseDB()

	a, err := app.Build(cfg, db.DB)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to wire updater")
	}

	// Scheduler and background worker
	sch := scheduler.NewManager(a.Updater, event.GlobalBus, cfg.Updater.Schedule)
	if err := sch.Start(); err != nil {
		logging.Fatal().Err(err).Msg("Failed to start scheduler")
	}
	stopWorker := worker.StartMetadataWorker(event.GlobalBus, a.Updater)
	defer stopWorker()

	r := gin.New()
	r.Use(gin.Recovery())
	// 初始化路由
	api.InitRoutes(r, &api.Handler{
		Updater: a.Updater,
		Batches: sch,
		Movies:  a.Movies,
		Site:    a.Site,
		Bus:     event.GlobalBus,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logging.Info().Str("addr", srv.Addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logging.Info().Msg("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		sch.Stop()
		return err
	})

	if err := g.Wait(); err != nil {
		logging.Error().Err(err).Msg("Server exited with error")
	}
}
