package report

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/de-tools/beat-sheets/pkg/models/api"
	"github.com/de-tools/beat-sheets/pkg/models/domain"
	"github.com/de-tools/beat-sheets/pkg/runtime/export"
	"github.com/rs/zerolog"
)

type Service struct {
	aggregator *Aggregator
	projectors map[Format]export.Projector
}

func NewService(source BeatSource, now func() time.Time) (*Service, error) {
	if source == nil {
		return nil, fmt.Errorf("beat source is nil")
	}
	return &Service{
		aggregator: NewAggregator(source, now),
		projectors: DefaultProjectors(),
	}, nil
}

// Report aggregates a fresh report without encoding it
func (s *Service) Report(ctx context.Context) (*domain.Report, error) {
	return s.aggregator.Aggregate(ctx)
}

func (s *Service) ToJSON(ctx context.Context) api.Response {
	return s.Render(ctx, FormatJSON)
}

func (s *Service) ToHTML(ctx context.Context) api.Response {
	return s.Render(ctx, FormatHTML)
}

func (s *Service) ToCSV(ctx context.Context) api.Response {
	return s.Render(ctx, FormatCSV)
}

func (s *Service) ToPrintHTML(ctx context.Context) api.Response {
	return s.Render(ctx, FormatPrintHTML)
}

// Render aggregates a fresh report and encodes it in format. Failures are
// encoded in the same format with status 500.
func (s *Service) Render(ctx context.Context, format Format) api.Response {
	logger := zerolog.Ctx(ctx)

	projector, ok := s.projectors[format]
	if !ok {
		return api.Response{
			Body:        []byte(fmt.Sprintf("unsupported report format %s\n", format)),
			ContentType: "text/plain; charset=utf-8",
			Status:      http.StatusBadRequest,
		}
	}

	report, err := s.aggregator.Aggregate(ctx)
	if err != nil {
		logger.Error().Err(err).Str("format", format.String()).Msg("failed to aggregate beat report")
		return failure(ctx, projector, fmt.Sprintf("failed to load beats: %v", err))
	}

	body, err := projector.Project(report)
	if err != nil {
		logger.Error().Err(err).Str("format", format.String()).Msg("failed to render beat report")
		return failure(ctx, projector, "failed to render report")
	}

	resp := api.Response{
		Body:        body,
		ContentType: projector.ContentType(),
		Status:      http.StatusOK,
	}
	if format == FormatCSV {
		resp.Filename = CSVFilename(report.GeneratedAt)
	}

	logger.Debug().
		Str("format", format.String()).
		Int("acts", report.Summary.TotalActs).
		Int("beats", report.Summary.TotalBeats).
		Msg("rendered beat report")
	return resp
}

// CSVFilename is the suggested download name for a report generated at t
func CSVFilename(t time.Time) string {
	return fmt.Sprintf("beat-sheets-report-%s.csv", t.UTC().Format("2006-01-02"))
}

func failure(ctx context.Context, projector export.Projector, message string) api.Response {
	body, err := projector.ProjectError(message)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to render report error")
		return api.Response{
			Body:        []byte(message + "\n"),
			ContentType: "text/plain; charset=utf-8",
			Status:      http.StatusInternalServerError,
		}
	}
	return api.Response{
		Body:        body,
		ContentType: projector.ContentType(),
		Status:      http.StatusInternalServerError,
	}
}
