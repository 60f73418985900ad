package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/barsweep/barsweep/internal/server"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for the detection API",
	Long: `Start an HTTP server that provides REST API endpoints for barcode
region detection.

The server provides the following endpoints:
  POST /detect     - Detect regions in an uploaded image
  GET  /detect/ws  - WebSocket endpoint with progress streaming
  GET  /health     - Health check endpoint
  GET  /metrics    - Prometheus metrics

Examples:
  barsweep serve
  barsweep serve --port 8080
  barsweep serve --host 0.0.0.0 --port 3000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		host := cfg.Server.Host
		if cmd.Flags().Changed("host") {
			host, _ = cmd.Flags().GetString("host")
		}

		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetInt("port")
		}

		corsOrigin := cfg.Server.CORSOrigin
		if cmd.Flags().Changed("cors-origin") {
			corsOrigin, _ = cmd.Flags().GetString("cors-origin")
		}

		maxUploadMB := int64(cfg.Server.MaxUploadMB)
		if cmd.Flags().Changed("max-upload-size") {
			maxUploadMB, _ = cmd.Flags().GetInt64("max-upload-size")
		}

		timeout := cfg.Server.TimeoutSec
		if cmd.Flags().Changed("timeout") {
			timeout, _ = cmd.Flags().GetInt("timeout")
		}

		shutdownTimeout := cfg.Server.ShutdownTimeout
		if cmd.Flags().Changed("shutdown-timeout") {
			shutdownTimeout, _ = cmd.Flags().GetInt("shutdown-timeout")
		}

		overlayEnable, _ := cmd.Flags().GetBool("overlay-enable")

		overlayBox := cfg.Output.OverlayBoxColor
		if cmd.Flags().Changed("overlay-box-color") {
			overlayBox, _ = cmd.Flags().GetString("overlay-box-color")
		}

		requestsPerMinute, _ := cmd.Flags().GetInt("requests-per-minute")
		maxDataPerDayMB, _ := cmd.Flags().GetInt64("max-data-per-day")

		if port < 1 || port > 65535 {
			return fmt.Errorf("invalid port number: %d (must be between 1 and 65535)", port)
		}

		detCfg, err := detectorConfigFromFlags(cmd, cfg.ToDetectorConfig())
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		serverConfig := server.Config{
			Host:              host,
			Port:              port,
			CORSOrigin:        corsOrigin,
			MaxUploadMB:       maxUploadMB,
			TimeoutSec:        timeout,
			DetectorConfig:    detCfg,
			OverlayEnabled:    overlayEnable,
			OverlayBoxColor:   overlayBox,
			RequestsPerMinute: requestsPerMinute,
			MaxDataPerDayMB:   maxDataPerDayMB,
		}

		srv, err := server.NewServer(serverConfig)
		if err != nil {
			return fmt.Errorf("failed to initialize server: %w", err)
		}

		mux := http.NewServeMux()
		srv.SetupRoutes(mux)

		httpServer := &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       time.Duration(timeout) * time.Second,
			WriteTimeout:      time.Duration(timeout) * time.Second,
		}

		go func() {
			slog.Info("Starting detection server", "host", host, "port", port)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("Server error", "error", err)
				cancel()
			}
		}()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

		select {
		case sig := <-sigChan:
			slog.Info("Received shutdown signal", "signal", sig.String())
		case <-ctx.Done():
			slog.Info("Context cancelled, initiating shutdown")
		}

		slog.Info("Starting graceful shutdown", "timeout", fmt.Sprintf("%ds", shutdownTimeout))

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(shutdownTimeout)*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server shutdown error", "error", err)
		} else {
			slog.Info("HTTP server shutdown completed")
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("host", "H", "localhost", "server host")
	serveCmd.Flags().IntP("port", "p", 8080, "server port")
	serveCmd.Flags().String("cors-origin", "*", "CORS allowed origins")
	serveCmd.Flags().Int64("max-upload-size", 50, "maximum upload size in MB")
	serveCmd.Flags().Int("timeout", 30, "request timeout in seconds")
	serveCmd.Flags().Int("shutdown-timeout", 10, "shutdown timeout in seconds")
	serveCmd.Flags().Bool("overlay-enable", true, "enable overlay image responses")
	serveCmd.Flags().String("overlay-box-color", "#FF0000", "overlay box color (hex)")
	// Rate limiting flags; zero disables the corresponding limit
	serveCmd.Flags().Int("requests-per-minute", 0, "maximum requests per minute per client")
	serveCmd.Flags().Int64("max-data-per-day", 0, "maximum data processed per day per client (MB)")

	serveCmd.Flags().Int("cells-portrait", 60, "cells per scan row for portrait images")
	serveCmd.Flags().Int("cells-landscape", 100, "cells per scan row for landscape images")
	serveCmd.Flags().Int("strip-height", 50, "strip height in pixels")
	serveCmd.Flags().Int("binarize-threshold", 128, "grayscale binarization threshold (0-255)")
	serveCmd.Flags().Float64("magnitude-threshold", 50.0, "non-DC spectral magnitude threshold per cell")
	serveCmd.Flags().Int("run-threshold", 5, "consecutive cells required to form a region")
	serveCmd.Flags().Bool("uniformity-filter", false, "reject scanlines with long uniform runs")
	serveCmd.Flags().Int("max-uniform-run", 10, "maximum uniform run length before a scanline is rejected")
	serveCmd.Flags().Int("workers", 0, "worker goroutines for strip scanning (0 = number of CPUs)")
}
