package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Siddharth20050904/inventory-management/internal/database"
	"github.com/Siddharth20050904/inventory-management/internal/handlers"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if !a.cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	checks := map[string]handlers.Pinger{"database": database.NewHealth(a.db)}
	if a.redis != nil {
		checks["redis"] = a.redis
	}
	invalidate := a.reports.InvalidateDashboard
	router := handlers.NewRouter(handlers.Handlers{
		API:       handlers.NewAPIHandler(checks, a.logger),
		Orders:    handlers.NewOrderHandler(a.orders, invalidate, a.logger),
		Purchases: handlers.NewPurchaseHandler(a.purchases, a.logger),
		Catalog:   handlers.NewCatalogHandler(a.catalog, invalidate, a.logger),
		Reports:   handlers.NewReportHandler(a.reports, a.orders, a.reminders, a.logger),
	}, a.logger)

	srv := &http.Server{
		Addr:              ":" + a.cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
