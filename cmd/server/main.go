package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"btc-goods-service/internal/adapter/cache"
	httpRouter "btc-goods-service/internal/adapter/http"
	"btc-goods-service/internal/adapter/provider"
	"btc-goods-service/internal/config"
	"btc-goods-service/internal/metrics"
	"btc-goods-service/internal/registry"
	"btc-goods-service/internal/service"
	"btc-goods-service/pkg/logger"
)

func main() {
	log := logger.NewLogger(os.Getenv("LOG_LEVEL"))
	log.Info("Starting BTC goods conversion service")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	appMetrics := metrics.NewMetrics()

	coinGecko := provider.NewCoinGecko(cfg.BTCPrice.BaseURL, cfg.BTCPrice.Timeout, log)
	btcCache := cache.NewBTCPriceCache(coinGecko, cfg.BTCPrice.CacheTTL, log, appMetrics)

	alphaVantage := provider.NewAlphaVantage(cfg.AlphaVantage.BaseURL, cfg.AlphaVantage.APIKey, cfg.AlphaVantage.Timeout, log)
	fred := provider.NewFRED(cfg.FRED.BaseURL, cfg.FRED.APIKey, cfg.FRED.Timeout, cfg.FRED.SeriesTimeout, log)
	bls := provider.NewBLS(cfg.BLS.BaseURL, cfg.BLS.APIKey, cfg.BLS.Timeout, log)

	if cfg.AlphaVantage.APIKey == "" {
		log.Warn("ALPHA_VANTAGE_API_KEY not set, commodity items will use fallback prices")
	}
	if cfg.FRED.APIKey == "" {
		log.Warn("FRED_API_KEY not set, consumer price items will use fallback prices and historical data is unavailable")
	}
	if cfg.BLS.APIKey == "" {
		log.Warn("BLS_API_KEY not set, gasoline will use its fallback price")
	}

	items := registry.New(registry.Sources{
		AlphaVantage: alphaVantage,
		FRED:         fred,
		BLS:          bls,
	})

	resolver := provider.NewResolver(log, appMetrics)
	converterService := service.NewConverterService(items, btcCache, resolver, fred, log)

	handler := httpRouter.NewHandler(converterService, log, appMetrics)
	router := httpRouter.NewRouter(handler, log, appMetrics)
	routes := router.SetupRoutes()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      routes,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
