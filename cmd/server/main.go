package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/narayanji/distributor-app/config"
	"github.com/narayanji/distributor-app/internal/app/controller"
	"github.com/narayanji/distributor-app/internal/app/repository"
	"github.com/narayanji/distributor-app/internal/app/service"
	"github.com/narayanji/distributor-app/internal/db"
	"github.com/narayanji/distributor-app/internal/router"
	"github.com/narayanji/distributor-app/internal/scheduler"
	"github.com/narayanji/distributor-app/internal/storage"
	"github.com/narayanji/distributor-app/pkg/logger"
	"github.com/narayanji/distributor-app/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       "info",
		Format:      logFormat,
		EnableColor: cfg.Server.Environment == "development",
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	if err := redis.Initialize(&cfg.Redis); err != nil {
		logger.Fatal("Failed to initialize Redis", err)
	}
	defer redis.Close()

	productRepo := repository.NewProductRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	userRepo := repository.NewUserRepository(db.GetDB())

	otpStore := redis.NewOTPStore(redis.GetClient())
	devMode := cfg.Server.Environment == "development"

	authService := service.NewAuthService(userRepo, otpStore, &cfg.JWT, devMode)
	productService := service.NewProductService(productRepo)
	orderService := service.NewOrderService(orderRepo, productRepo)

	ctrls := router.Controllers{
		Auth:    controller.NewAuthController(authService),
		Product: controller.NewProductController(productService),
		Order:   controller.NewOrderController(orderService),
	}

	// Uploads need AWS credentials; skip the controller when they are absent
	// so local development works without S3.
	if cfg.S3.AccessKeyID != "" {
		s3Storage, err := storage.NewS3Storage(&cfg.S3)
		if err != nil {
			logger.Fatal("Failed to initialize S3 storage", err)
		}
		ctrls.Upload = controller.NewUploadController(s3Storage)
	} else {
		logger.Warn("S3 credentials not configured, uploads disabled", nil)
	}

	dealScheduler := scheduler.NewDealScheduler(productRepo)
	if err := dealScheduler.Start(); err != nil {
		logger.Fatal("Failed to start deal scheduler", err)
	}
	defer dealScheduler.Stop()

	engine := router.Setup(cfg, ctrls)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: engine,
	}

	go func() {
		logger.Info("Server starting", map[string]interface{}{
			"port":        cfg.Server.Port,
			"environment": cfg.Server.Environment,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", err)
	}

	logger.Info("Server stopped", nil)
}
