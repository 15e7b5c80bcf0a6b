package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/de-tools/beat-sheets/pkg/server"
	beatsmiddleware "github.com/de-tools/beat-sheets/pkg/server/middleware"
	"github.com/de-tools/beat-sheets/pkg/services/config"
	"github.com/de-tools/beat-sheets/pkg/services/pages"
	"github.com/de-tools/beat-sheets/pkg/services/ratelimit"
	"github.com/de-tools/beat-sheets/pkg/services/report"
	"github.com/de-tools/beat-sheets/pkg/store/beats"
	"github.com/de-tools/beat-sheets/pkg/store/sqldb"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the Beat Sheets web server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to a YAML config file (BEATS_* environment variables also apply)")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		stop()
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Auth.APIKey == "" && cfg.Auth.JWTSigningKey == "" {
		logger.Warn().Msg("no api key or jwt signing key configured, every request will be rejected")
	}

	db, err := sqldb.NewDB(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open %s database: %w", cfg.Database.Driver, err)
	}
	defer db.Close()

	store, err := beats.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create beat store: %w", err)
	}
	reports, err := report.NewService(store, time.Now)
	if err != nil {
		return fmt.Errorf("failed to create report service: %w", err)
	}
	renderer, err := pages.NewRenderer(store)
	if err != nil {
		return fmt.Errorf("failed to create page renderer: %w", err)
	}

	limiter, err := ratelimit.New(ctx, cfg.RateLimit)
	if err != nil {
		return fmt.Errorf("failed to create rate limiter: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db, cfg.Database.Driver),
	)

	logger.Info().
		Str("driver", cfg.Database.Driver).
		Bool("rate_limit", limiter != nil).
		Msg("configuration loaded")

	api := server.NewWebAPI(server.Config{
		Addr:            cfg.Server.Addr(),
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Reports:    reports,
			Pages:      renderer,
			Limiter:    limiter,
			RateWindow: cfg.RateLimit.Window,
			Auth: beatsmiddleware.AuthSettings{
				APIKey:        cfg.Auth.APIKey,
				JWTSigningKey: cfg.Auth.JWTSigningKey,
				JWTAudience:   cfg.Auth.JWTAudience,
			},
			Registry: registry,
			Logger:   logger,
		},
	})

	return api.Start(ctx)
}
