package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lecternlabs/lectern"
	"github.com/lecternlabs/lectern/internal/config"
	"github.com/lecternlabs/lectern/internal/logging"
	"github.com/lecternlabs/lectern/internal/presentation/tui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Starts the Lectern server, exposing the session API over HTTP.`,
	Run: func(cmd *cobra.Command, args []string) {
		// A .env file is a local development convenience; only a present but
		// unreadable file is fatal.
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			fmt.Printf("Error loading .env: %v\n", err)
			os.Exit(1)
		}

		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}

		// Flags win over the file and the environment.
		if cmd.Flags().Changed("host") {
			cfg.Server.Host, _ = cmd.Flags().GetString("host")
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port, _ = cmd.Flags().GetInt("port")
		}
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			cfg.Log.Level = "debug"
		}

		level, err := logging.ParseLevel(cfg.Log.Level)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		logger := logging.New(level)

		svc := lectern.New(
			lectern.WithLogger(logger),
			lectern.WithLimits(cfg.Session.Limits()),
			lectern.WithSessionTTL(cfg.Session.TTL.Duration()),
			lectern.WithSweepInterval(cfg.Session.SweepInterval.Duration()),
		)

		if term.IsTerminal(int(os.Stdout.Fd())) {
			tui.PrintBanner(strings.TrimSpace(lectern.Version))
		}

		srv := &http.Server{
			Addr:              cfg.Server.Addr(),
			Handler:           svc.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       120 * time.Second,
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			if err := svc.RunSweeper(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("sweeper stopped", "error", err)
			}
		}()

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Lectern %s listening on http://%s\n", strings.TrimSpace(lectern.Version), srv.Addr)
			logger.Info("server starting",
				"addr", srv.Addr,
				"session_ttl", cfg.Session.TTL.String(),
				"sweep_interval", cfg.Session.SweepInterval.String(),
			)
			serverErrors <- srv.ListenAndServe()
		}()

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case <-ctx.Done():
			stop()
			logger.Info("shutdown started")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("graceful shutdown did not complete", "error", err)
				if err := srv.Close(); err != nil {
					logger.Error("server close failed", "error", err)
				}
			}
			fmt.Println("Lectern stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("host", "", "Host to bind (overrides config)")
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().Bool("debug", false, "Enable debug logging")
}
