package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/your-org/apple-store/internal/config"
	"github.com/your-org/apple-store/internal/db"
	"github.com/your-org/apple-store/internal/events"
	"github.com/your-org/apple-store/internal/httpserver"
	"github.com/your-org/apple-store/internal/logging"
	"github.com/your-org/apple-store/internal/repo"
	"github.com/your-org/apple-store/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()
	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database error: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("migration error: %v", err)
	}
	if err := db.Seed(gdb); err != nil {
		log.Fatalf("seed error: %v", err)
	}

	var producer events.Producer = events.Nop{}
	if cfg.KafkaAddress != "" {
		producer = events.NewKafkaProducer([]string{cfg.KafkaAddress})
	}

	store := repo.NewGormRepo(gdb)
	productService := &service.ProductService{Repo: store, Producer: producer}
	cartService := &service.CartService{Repo: store, Producer: producer, TaxRate: cfg.TaxRate}

	e := echo.New()
	e.HideBanner = true

	httpserver.Register(e, &httpserver.Deps{
		Logger:         logger,
		ProductHandler: &httpserver.ProductHandler{Products: productService},
		CartHandler:    &httpserver.CartHandler{Cart: cartService},
		UploadHandler:  &httpserver.UploadHandler{Dir: cfg.UploadDir, MaxSize: cfg.MaxUploadSize},
		AdminToken:     cfg.AdminToken,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", srv.Addr, "store", cfg.StoreName)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := gdb.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if err := producer.Close(); err != nil {
		logger.Error("producer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
