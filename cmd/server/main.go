package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/devops-summer22-promotions/promotions/internal/config"
	"github.com/devops-summer22-promotions/promotions/internal/data"
	"github.com/devops-summer22-promotions/promotions/internal/middleware"
	"github.com/devops-summer22-promotions/promotions/internal/router"
	"github.com/devops-summer22-promotions/promotions/internal/service"
	"github.com/devops-summer22-promotions/promotions/pkg/logger"
)

func main() {
	cfgPath := os.Getenv("PROMO_CONFIG")
	if cfgPath == "" {
		cfgPath = "configs/app.yaml"
	}
	cfg := config.MustLoad(cfgPath)
	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("loaded config", zap.String("path", cfgPath))

	db, err := data.NewMySQL(cfg.MySQL, log)
	if err != nil {
		log.Fatal("mysql init failed", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("mysql db handle", zap.Error(err))
	}
	defer sqlDB.Close()
	log.Info("connected to mysql")

	services := service.NewRegistry(db, log)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(log))
	router.RegisterRoutes(engine, services)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: engine,
	}
	go func() {
		log.Info("starting http server", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server run failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal("server shutdown failed", zap.Error(err))
	}
	log.Info("server exited")
}
