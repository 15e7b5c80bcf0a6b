package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/beat-sheets/pkg/models/api"
	"github.com/de-tools/beat-sheets/pkg/models/domain"
	beatsmiddleware "github.com/de-tools/beat-sheets/pkg/server/middleware"
	"github.com/de-tools/beat-sheets/pkg/services/pages"
	"github.com/de-tools/beat-sheets/pkg/services/ratelimit"
	"github.com/de-tools/beat-sheets/pkg/services/report"
	"github.com/de-tools/beat-sheets/pkg/store/beats"
	"github.com/de-tools/beat-sheets/pkg/store/sqldb/sqldbtest"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-api-key"

var generatedAt = time.Date(2025, 6, 13, 9, 30, 0, 0, time.UTC)

func newTestConfig(t *testing.T, limiter ratelimit.Limiter) Config {
	db := sqldbtest.NewDB(t)
	sqldbtest.InsertActs(t, db,
		sqldbtest.Act{ID: 1, ActNo: 1, Title: "Setup"},
		sqldbtest.Act{ID: 2, ActNo: 2, Title: "Confrontation"},
	)
	sqldbtest.InsertBeats(t, db,
		sqldbtest.Beat{ActID: 1, BeatNumber: 1, IsCurrent: true, Title: sqldbtest.Str("Opening Image")},
		sqldbtest.Beat{ActID: 1, BeatNumber: 2, IsCurrent: true, Conflict: sqldbtest.Str(`He said, "go now"`)},
		sqldbtest.Beat{ActID: 2, BeatNumber: 1, IsCurrent: true},
	)

	store, err := beats.NewStore(db)
	require.NoError(t, err)
	reports, err := report.NewService(store, func() time.Time { return generatedAt })
	require.NoError(t, err)
	renderer, err := pages.NewRenderer(store)
	require.NoError(t, err)

	return Config{
		Addr:            ":8080",
		ShutdownTimeout: 10 * time.Second,
		Dependencies: Dependencies{
			Reports:    reports,
			Pages:      renderer,
			Limiter:    limiter,
			RateWindow: time.Minute,
			Auth:       beatsmiddleware.AuthSettings{APIKey: testAPIKey},
			Logger:     zerolog.New(zerolog.NewTestWriter(t)),
		},
	}
}

func get(t *testing.T, url string, authenticated bool) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if authenticated {
		req.Header.Set(beatsmiddleware.HeaderAPIKey, testAPIKey)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err, "Failed to send request")
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "Failed to read response body")
	return resp, string(body)
}

func TestWebAPI_Endpoints(t *testing.T) {
	router := ConfigureRouter(newTestConfig(t, nil))
	testServer := httptest.NewServer(router)
	defer testServer.Close()

	tests := []struct {
		name                string
		path                string
		anonymous           bool
		expectedStatus      int
		expectedContentType string
		contains            []string
		check               func(t *testing.T, resp *http.Response, body string)
	}{
		{
			name:           "Healthz",
			path:           "/healthz",
			anonymous:      true,
			expectedStatus: http.StatusOK,
			contains:       []string{"ok"},
		},
		{
			name:           "Unauthenticated",
			path:           "/reports/beats",
			anonymous:      true,
			expectedStatus: http.StatusUnauthorized,
			contains:       []string{`{"error":"unauthorized"}`},
		},
		{
			name:                "JSONReport",
			path:                "/api/v1/reports/beats",
			expectedStatus:      http.StatusOK,
			expectedContentType: "application/json; charset=utf-8",
			check: func(t *testing.T, _ *http.Response, body string) {
				var r domain.Report
				require.NoError(t, json.Unmarshal([]byte(body), &r))
				assert.Equal(t, domain.ReportTypeBeatsByAct, r.ReportType)
				assert.Equal(t, 2, r.Summary.TotalActs)
				assert.Equal(t, 3, r.Summary.TotalBeats)
				assert.True(t, generatedAt.Equal(r.GeneratedAt))
			},
		},
		{
			name:                "DefaultHTMLReport",
			path:                "/reports/beats",
			expectedStatus:      http.StatusOK,
			expectedContentType: "text/html; charset=utf-8",
			contains:            []string{`<nav class="sidebar">`, `id="act-2"`},
		},
		{
			name:                "CSVAlias",
			path:                "/reports/beats.csv",
			expectedStatus:      http.StatusOK,
			expectedContentType: "text/csv; charset=utf-8",
			contains:            []string{`"He said, ""go now"""`},
			check: func(t *testing.T, resp *http.Response, _ string) {
				assert.Equal(t, `attachment; filename="beat-sheets-report-2025-06-13.csv"`,
					resp.Header.Get("Content-Disposition"))
			},
		},
		{
			name:           "PrintQuery",
			path:           "/reports/beats?format=print",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, _ *http.Response, body string) {
				assert.NotContains(t, body, `<nav class="sidebar">`)
				assert.Contains(t, body, `id="act-1"`)
			},
		},
		{
			name:           "UnknownFormat",
			path:           "/reports/beats?format=pdf",
			expectedStatus: http.StatusBadRequest,
			contains:       []string{"pdf"},
		},
		{
			name:           "ActsOverview",
			path:           "/",
			expectedStatus: http.StatusOK,
			contains:       []string{"Act 1: Setup", "Act 2: Confrontation"},
		},
		{
			name:           "BeatDetail",
			path:           "/acts/1/beats/1",
			expectedStatus: http.StatusOK,
			contains:       []string{"Opening Image"},
		},
		{
			name:           "BeatDetail_NotFound",
			path:           "/acts/2/beats/9",
			expectedStatus: http.StatusOK,
			contains:       []string{"not found", "Confrontation"},
		},
		{
			name:           "ActListing_InvalidParam",
			path:           "/acts/first",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := get(t, testServer.URL+tc.path, !tc.anonymous)

			assert.Equal(t, tc.expectedStatus, resp.StatusCode, "Status code mismatch")
			if tc.expectedContentType != "" {
				assert.Equal(t, tc.expectedContentType, resp.Header.Get("Content-Type"))
			}
			for _, s := range tc.contains {
				assert.Contains(t, body, s)
			}
			if tc.check != nil {
				tc.check(t, resp, body)
			}
		})
	}

	t.Run("Metrics", func(t *testing.T) {
		resp, body := get(t, testServer.URL+"/metrics", false)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, strings.Contains(body, `route="/api/v1/reports/beats"`), "request counter by route")
	})
}

func TestWebAPI_RateLimit(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter(2, time.Minute, nil)
	testServer := httptest.NewServer(ConfigureRouter(newTestConfig(t, limiter)))
	defer testServer.Close()

	for i := 0; i < 2; i++ {
		resp, _ := get(t, testServer.URL+"/beats", true)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, body := get(t, testServer.URL+"/beats", true)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "60", resp.Header.Get("Retry-After"))

	var apiErr api.Error
	require.NoError(t, json.Unmarshal([]byte(body), &apiErr))
	assert.Equal(t, "rate limit exceeded", apiErr.Error)

	health, _ := get(t, testServer.URL+"/healthz", false)
	assert.Equal(t, http.StatusOK, health.StatusCode, "health checks are not rate limited")
}

func TestWebAPI_RateLimitsFailedCredentials(t *testing.T) {
	// Given a limiter allowing two requests per window
	limiter := ratelimit.NewMemoryLimiter(2, time.Minute, nil)
	testServer := httptest.NewServer(ConfigureRouter(newTestConfig(t, limiter)))
	defer testServer.Close()

	// When an unauthenticated caller keeps guessing
	for i := 0; i < 2; i++ {
		resp, _ := get(t, testServer.URL+"/beats", false)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
	resp, _ := get(t, testServer.URL+"/beats", false)

	// Then the address is throttled before credentials are checked
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "60", resp.Header.Get("Retry-After"))

	resp, _ = get(t, testServer.URL+"/beats", true)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode, "valid credentials share the address allowance")
}

func TestWebAPI_StartStopsWhenContextEnds(t *testing.T) {
	config := newTestConfig(t, nil)
	config.Addr = "127.0.0.1:0"
	api := NewWebAPI(config)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- api.Start(ctx) }()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down after context cancellation")
	}
}

func TestWebAPI_StartReturnsListenError(t *testing.T) {
	config := newTestConfig(t, nil)
	config.Addr = "127.0.0.1:-1"

	err := NewWebAPI(config).Start(context.Background())

	assert.Error(t, err)
}
