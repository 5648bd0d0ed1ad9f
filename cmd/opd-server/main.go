package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/opd/console/internal/config"
	"github.com/opd/console/internal/domain/catalog"
	"github.com/opd/console/internal/domain/orders"
	"github.com/opd/console/internal/domain/visit"
	"github.com/opd/console/internal/platform/middleware"
	"github.com/opd/console/internal/platform/notify"
	"github.com/opd/console/internal/platform/push"
	"github.com/opd/console/internal/platform/seed"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "opd-server",
		Short: "Outpatient order console API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(catalogCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the console API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func catalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Print the seed catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("%-10s %-24s %-16s %10s %6s\n", "CATEGORY", "NAME", "SPEC", "PRICE", "PACK")
			for _, e := range seed.CatalogEntries() {
				fmt.Printf("%-10s %-24s %-16s %10.2f %6d\n", e.Category, e.Name, e.Spec, e.UnitPrice, e.PackSize)
			}
			return nil
		},
	}
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	// Rendering and notification boundaries
	hub := push.NewHub(logger)
	notices := notify.NewCenter(cfg.NoticeBuffer, hub)

	// Catalog
	catalogRepo := catalog.NewMemRepo()
	ctx := context.Background()
	for _, e := range seed.CatalogEntries() {
		if err := catalogRepo.Create(ctx, e); err != nil {
			logger.Fatal().Err(err).Str("name", e.Name).Msg("failed to load catalog")
		}
	}
	catalogSvc := catalog.NewService(catalogRepo)
	catalogSvc.LoadFormulas(seed.Formulas())

	// Orders
	ordersSvc := orders.NewService(catalogSvc, notices, hub, logger)

	// Visit queue; the order service acts as its draft-order ledger.
	visitSvc := visit.NewService(ordersSvc, notices, hub, seed.PinyinInitials, logger)
	visitSvc.Load(seed.Patients())

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// API group
	apiV1 := e.Group("/api/v1")

	catalogHandler := catalog.NewHandler(catalogSvc)
	catalogHandler.RegisterRoutes(apiV1)

	visitHandler := visit.NewHandler(visitSvc)
	visitHandler.RegisterRoutes(apiV1)

	ordersHandler := orders.NewHandler(ordersSvc, visitSvc)
	ordersHandler.SetFormulaSource(catalogSvc)
	ordersHandler.RegisterRoutes(apiV1)

	noticeHandler := notify.NewHandler(notices)
	noticeHandler.RegisterRoutes(apiV1)

	pushHandler := push.NewHandler(hub)
	pushHandler.RegisterRoutes(e.Group(""))

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
