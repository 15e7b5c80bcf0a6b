package report

import (
	"context"
	"time"

	"github.com/de-tools/beat-sheets/pkg/adapters"
	"github.com/de-tools/beat-sheets/pkg/models/domain"
	"github.com/de-tools/beat-sheets/pkg/models/store"
)

// BeatSource is the report query of the row store
type BeatSource interface {
	ListCurrentBeats(ctx context.Context) ([]store.BeatRow, error)
}

// Aggregator builds the beats-by-act report from one ordered query
type Aggregator struct {
	source BeatSource
	now    func() time.Time
}

func NewAggregator(source BeatSource, now func() time.Time) *Aggregator {
	if now == nil {
		now = time.Now
	}
	return &Aggregator{source: source, now: now}
}

// Aggregate queries all current beats and folds them into a Report.
// Store failures are returned as *domain.DataAccessError without retrying.
func (a *Aggregator) Aggregate(ctx context.Context) (*domain.Report, error) {
	rows, err := a.source.ListCurrentBeats(ctx)
	if err != nil {
		if domain.IsDataAccess(err) {
			return nil, err
		}
		return nil, domain.NewDataAccessError("list current beats", err)
	}
	return BuildReport(adapters.MapStoreBeatsToDomain(rows), a.now().UTC()), nil
}

// BuildReport groups beats that are already sorted by (act_no, beat_number).
// Groups keep first-seen order; act title and id come from the first row of each act.
func BuildReport(beats []domain.Beat, generatedAt time.Time) *domain.Report {
	report := &domain.Report{
		ReportType:  domain.ReportTypeBeatsByAct,
		GeneratedAt: generatedAt,
		Summary: domain.Summary{
			BeatsPerAct: make([]domain.ActBeatCount, 0),
		},
		Acts: make([]domain.ActGroup, 0),
	}

	index := make(map[int]int)
	for _, b := range beats {
		i, ok := index[b.ActNo]
		if !ok {
			i = len(report.Acts)
			index[b.ActNo] = i
			report.Acts = append(report.Acts, domain.ActGroup{
				ActNo:    b.ActNo,
				ActID:    b.ActID,
				ActTitle: b.ActTitle,
				Beats:    make([]domain.BeatView, 0),
			})
		}
		group := &report.Acts[i]
		group.Beats = append(group.Beats, b.View())
		group.BeatCount++
		report.Summary.TotalBeats++
	}

	for _, g := range report.Acts {
		report.Summary.BeatsPerAct = append(report.Summary.BeatsPerAct, domain.ActBeatCount{
			ActNo:     g.ActNo,
			ActTitle:  g.ActTitle,
			BeatCount: g.BeatCount,
		})
	}
	report.Summary.TotalActs = len(report.Acts)

	return report
}
