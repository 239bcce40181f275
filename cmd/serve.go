package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/vistoria-app/vistoria/internal/describe"
	"github.com/vistoria-app/vistoria/internal/handlers"
	"github.com/vistoria-app/vistoria/internal/inspection"
	"github.com/vistoria-app/vistoria/internal/report"
)

func newServeCmd(a *app) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the report HTTP service",
		Long: `Starts the inspection report service.

POST /upload accepts the photos and inspection details as multipart/form-data and
responds with the generated PDF. GET /healthcheck and GET /metrics are also served.`,
		Example: `  # Start server on HTTP_ADDR (default :8888)
  vistoria serve

  # Start server on custom port
  vistoria serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if err := cfg.ValidateProvider(); err != nil {
				return err
			}

			fetcher, err := describe.New(cfg)
			if err != nil {
				return err
			}
			service := inspection.NewService(fetcher, report.NewGenerator(report.WithLenientDates(cfg.LenientDates)))

			if !cfg.IsDevelopment() {
				gin.SetMode(gin.ReleaseMode)
			}
			router := handlers.NewRouter(handlers.New(service, cfg.UploadDir, cfg.MaxUploadBytes), handlers.RouterConfig{
				CORSOrigins:    cfg.CORSOrigins,
				CORSAllowAll:   cfg.CORSAllowAll(),
				RateLimitRPS:   cfg.RateLimitRPS,
				RateLimitBurst: cfg.RateLimitBurst,
			})

			addr := cfg.HTTPAddr
			if port != "" {
				addr = ":" + port
			}
			server := &http.Server{
				Addr:              addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Vistoria service available", "addr", addr, "provider", cfg.Provider)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides HTTP_ADDR)")

	return cmd
}
