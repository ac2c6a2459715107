package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Adelodunpeter25/url-shortener/config"
	"github.com/Adelodunpeter25/url-shortener/internal/handler"
	"github.com/Adelodunpeter25/url-shortener/internal/maintenance"
	"github.com/Adelodunpeter25/url-shortener/internal/qr"
	"github.com/Adelodunpeter25/url-shortener/internal/repository"
	"github.com/Adelodunpeter25/url-shortener/internal/router"
	"github.com/Adelodunpeter25/url-shortener/internal/service"
	"github.com/Adelodunpeter25/url-shortener/internal/shortcode"
	"github.com/Adelodunpeter25/url-shortener/internal/storage"
	"github.com/Adelodunpeter25/url-shortener/internal/validate"
	"github.com/Adelodunpeter25/url-shortener/pkg/logger"
)

func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}

	defer logger.Sync()

	log := logger.L()

	cfg := config.Load(log)

	db := storage.ConnectDB(&cfg.DB, log)
	if db == nil {
		log.Fatal("could not connect to the database")
	}

	storage.Migrate(db, log)

	linkRepo := repository.NewLinkRepository(db)
	clickRepo := repository.NewClickRepository(db)
	userRepo := repository.NewUserRepository(db)
	keyRepo := repository.NewAPIKeyRepository(db)
	rtRepo := repository.NewRefreshTokenRepository(db)

	gen, err := shortcode.New(cfg.Codes)
	if err != nil {
		log.Fatal("invalid code generator configuration", zap.Error(err))
	}
	validator := validate.NewURLValidator(cfg.Validation.CheckReachability, cfg.Validation.ProbeTimeout)

	linkService := service.NewLinkService(linkRepo, gen, validator, cfg, log)
	clickService := service.NewClickService(clickRepo, linkRepo, cfg.RecentWindow, log)
	userService := service.NewUserService(userRepo, rtRepo, log, cfg)
	keyService := service.NewAPIKeyService(keyRepo, log)
	adminService := service.NewAdminService(userRepo, linkRepo, clickRepo, cfg.RecentWindow, log)

	handlers := router.Handlers{
		Links: handler.NewLinkHandler(linkService, clickService, qr.NewRenderer(256)),
		Users: handler.NewUserHandler(userService, linkService, clickService),
		Keys:  handler.NewAPIKeyHandler(keyService),
		Admin: handler.NewAdminHandler(adminService),
	}

	scheduler := maintenance.NewScheduler(log, linkRepo)
	appCtx, cancelScheduler := context.WithCancel(context.Background())
	if err := scheduler.Start(appCtx); err != nil {
		log.Error("failed to start maintenance scheduler", zap.Error(err))
	}

	r := router.Router(cfg, handlers, userRepo, keyService)
	srv := &http.Server{
		Addr:    cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info("starting HTTP server", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server start failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	cancelScheduler()

	ctxShutDown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutDown); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}

	storage.CloseDB(db, log)
	log.Info("server exiting")
}
