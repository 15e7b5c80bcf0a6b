package terminal

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/de-tools/beat-sheets/pkg/models/domain"
	"github.com/de-tools/beat-sheets/pkg/runtime/terminal/commands"
	"github.com/de-tools/beat-sheets/pkg/services/publish"
	"github.com/de-tools/beat-sheets/pkg/services/report"
	"github.com/de-tools/beat-sheets/pkg/store/beats"
	"github.com/de-tools/beat-sheets/pkg/store/sqldb/sqldbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var generatedAt = time.Date(2025, 6, 13, 9, 30, 0, 0, time.UTC)

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) Upload(ctx context.Context, obj publish.Object) error {
	return m.Called(ctx, obj).Error(0)
}

func sqliteConnector(t *testing.T) commands.Connector {
	db := sqldbtest.NewDB(t)
	sqldbtest.InsertActs(t, db,
		sqldbtest.Act{ID: 1, ActNo: 1, Title: "Setup"},
		sqldbtest.Act{ID: 2, ActNo: 2, Title: "Confrontation"},
	)
	sqldbtest.InsertBeats(t, db,
		sqldbtest.Beat{ActID: 1, BeatNumber: 1, IsCurrent: true, SceneNumber: sqldbtest.Int(3), Title: sqldbtest.Str("Opening Image"), Location: sqldbtest.Str("Harbor")},
		sqldbtest.Beat{ActID: 1, BeatNumber: 2, IsCurrent: true},
		sqldbtest.Beat{ActID: 2, BeatNumber: 1, IsCurrent: true, Title: sqldbtest.Str("Midpoint")},
	)

	return func(ctx context.Context, configPath string) (commands.Reports, func() error, error) {
		store, err := beats.NewStore(db)
		if err != nil {
			return nil, nil, err
		}
		svc, err := report.NewService(store, func() time.Time { return generatedAt })
		if err != nil {
			return nil, nil, err
		}
		return svc, func() error { return nil }, nil
	}
}

func run(t *testing.T, opts Options, args ...string) (string, error) {
	var out bytes.Buffer
	opts.Output = &out
	cli := NewCLI(opts)
	cli.SetArgs(args)
	err := cli.Execute()
	return out.String(), err
}

func TestExport_Stdout(t *testing.T) {
	out, err := run(t, Options{Connect: sqliteConnector(t)}, "export", "--format", "json")

	require.NoError(t, err)
	assert.Contains(t, out, `"report_type": "beats_by_act"`)
	assert.Contains(t, out, `"total_beats": 3`)
}

func TestExport_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")

	_, err := run(t, Options{Connect: sqliteConnector(t)}, "export", "--out", path)

	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Opening Image")
	assert.Contains(t, string(data), "Midpoint")
}

func TestExport_S3(t *testing.T) {
	up := new(mockUploader)
	up.On("Upload", mock.Anything, mock.MatchedBy(func(obj publish.Object) bool {
		return obj.Bucket == "reports" &&
			obj.Key == "beat-sheets-report-2025-06-13.csv" &&
			obj.ContentType == "text/csv; charset=utf-8" &&
			bytes.Contains(obj.Body, []byte("Opening Image"))
	})).Return(nil)

	var profile string
	factory := func(_ context.Context, p string) (publish.Uploader, error) {
		profile = p
		return up, nil
	}

	_, err := run(t, Options{Connect: sqliteConnector(t), Uploader: factory},
		"export", "--out", filepath.Join(t.TempDir(), "r.csv"), "--s3-bucket", "reports", "--aws-profile", "ci")

	require.NoError(t, err)
	assert.Equal(t, "ci", profile)
	up.AssertExpectations(t)
}

func TestExport_S3ExplicitKey(t *testing.T) {
	up := new(mockUploader)
	up.On("Upload", mock.Anything, mock.MatchedBy(func(obj publish.Object) bool {
		return obj.Key == "nightly/beats.html"
	})).Return(errors.New("access denied"))
	factory := func(context.Context, string) (publish.Uploader, error) { return up, nil }

	_, err := run(t, Options{Connect: sqliteConnector(t), Uploader: factory},
		"export", "--format", "html", "--s3-bucket", "reports", "--s3-key", "nightly/beats.html")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestExport_Errors(t *testing.T) {
	t.Run("unknown format", func(t *testing.T) {
		_, err := run(t, Options{Connect: sqliteConnector(t)}, "export", "--format", "xml")
		assert.Error(t, err)
	})

	t.Run("backend unavailable", func(t *testing.T) {
		connect := func(context.Context, string) (commands.Reports, func() error, error) {
			return nil, nil, errors.New("no such file")
		}
		_, err := run(t, Options{Connect: connect}, "export")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no such file")
	})

	t.Run("config path is passed through", func(t *testing.T) {
		var got string
		connect := func(_ context.Context, path string) (commands.Reports, func() error, error) {
			got = path
			return nil, nil, errors.New("stop")
		}
		_, _ = run(t, Options{Connect: connect}, "export", "--config", "/etc/beats.yaml")
		assert.Equal(t, "/etc/beats.yaml", got)
	})
}

func TestSummary_Table(t *testing.T) {
	out, err := run(t, Options{Connect: sqliteConnector(t)}, "summary")

	require.NoError(t, err)
	assert.Contains(t, out, "Total Acts: 2")
	assert.Contains(t, out, "Total Beats: 3")
	assert.Regexp(t, `\| 1\s+\| Setup\s+\|\s+2 \|`, out)
	assert.Regexp(t, `\| 2\s+\| Confrontation\s+\|\s+1 \|`, out)
}

func TestSummary_Outline(t *testing.T) {
	out, err := run(t, Options{Connect: sqliteConnector(t)}, "summary", "--outline")

	require.NoError(t, err)
	assert.Contains(t, out, "=== Act 1: Setup ===")
	assert.Contains(t, out, "- Beat 1 (Scene 3): Opening Image")
	assert.Contains(t, out, "  Location: Harbor")
	assert.Contains(t, out, "- Beat 2: Untitled Beat")
	assert.Contains(t, out, "No description available.")
	assert.NotContains(t, out, "Conflict:")
}

func TestReporter_EmptyReport(t *testing.T) {
	var buf bytes.Buffer
	err := NewReporter(&buf).Handle(&domain.Report{GeneratedAt: generatedAt})

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "0 beats across 0 acts")
}
