package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/motorhaven/wallet-service/internal/analytics"
	"github.com/motorhaven/wallet-service/internal/config"
	"github.com/motorhaven/wallet-service/internal/gateway"
	"github.com/motorhaven/wallet-service/internal/handlers"
	"github.com/motorhaven/wallet-service/internal/logging"
	"github.com/motorhaven/wallet-service/internal/repository"
	"github.com/motorhaven/wallet-service/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("failed to load config:", err)
	}

	logger := logging.SetupLogger(cfg.LogLevel)

	gin.SetMode(gin.ReleaseMode)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	poolConfig, err := pgxpool.ParseConfig(cfg.DBURL)
	if err != nil {
		logger.Error("failed to parse db config", "err", err)
		os.Exit(1)
	}
	poolConfig.MaxConns = int32(cfg.DBMaxConns)
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	platformWallet := uuid.Nil
	if cfg.PlatformWalletID != "" {
		platformWallet, err = uuid.Parse(cfg.PlatformWalletID)
		if err != nil {
			logger.Error("invalid PLATFORM_WALLET_ID", "err", err)
			os.Exit(1)
		}
	}

	repo := repository.NewLedgerPGRepository(pool, logger)
	// The Paystack/Flutterwave client is wired in by the deployment build;
	// without one the ledger refuses gateway-backed operations.
	svc := service.NewLedgerService(repo, gateway.NewDisabled(), platformWallet, logger)
	reader := analytics.NewReader(pool, logger)
	handler := handlers.NewLedgerHTTPHandler(svc, repo, reader)

	r := gin.Default()
	handler.RegisterRoutes(r)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil {
			logger.Error("Server failed", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error("Server forced to shutdown", "err", err)
	}
	logger.Info("Server exiting")
}
