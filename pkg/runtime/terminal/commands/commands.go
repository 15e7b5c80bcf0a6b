package commands

import (
	"context"

	"github.com/de-tools/beat-sheets/pkg/models/api"
	"github.com/de-tools/beat-sheets/pkg/models/domain"
	"github.com/de-tools/beat-sheets/pkg/services/publish"
	"github.com/de-tools/beat-sheets/pkg/services/report"
)

// Reports is the report surface the commands drive
type Reports interface {
	Render(ctx context.Context, format report.Format) api.Response
	Report(ctx context.Context) (*domain.Report, error)
}

// Connector opens the report backend described by the config file at
// configPath. The returned func releases it.
type Connector func(ctx context.Context, configPath string) (Reports, func() error, error)

// UploaderFactory builds an object storage uploader for an AWS profile
type UploaderFactory func(ctx context.Context, profile string) (publish.Uploader, error)

// Handler consumes an aggregated report
type Handler interface {
	Handle(report *domain.Report) error
}
