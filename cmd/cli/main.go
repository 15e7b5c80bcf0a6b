package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/de-tools/beat-sheets/pkg/runtime/terminal"
	"github.com/de-tools/beat-sheets/pkg/runtime/terminal/commands"
	"github.com/de-tools/beat-sheets/pkg/services/config"
	"github.com/de-tools/beat-sheets/pkg/services/publish"
	"github.com/de-tools/beat-sheets/pkg/services/report"
	"github.com/de-tools/beat-sheets/pkg/store/beats"
	"github.com/de-tools/beat-sheets/pkg/store/sqldb"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	_ = godotenv.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	cli := terminal.NewCLI(terminal.Options{
		Connect:  connect,
		Uploader: publish.LoadS3Uploader,
		Output:   os.Stdout,
	})

	if err := cli.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func connect(ctx context.Context, configPath string) (commands.Reports, func() error, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := sqldb.NewDB(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s database: %w", cfg.Database.Driver, err)
	}

	store, err := beats.NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to create beat store: %w", err)
	}
	svc, err := report.NewService(store, time.Now)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to create report service: %w", err)
	}
	return svc, db.Close, nil
}
