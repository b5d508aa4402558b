package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-qb-metrics/internal/config"
	"github.com/pable/go-qb-metrics/internal/model"
	"github.com/pable/go-qb-metrics/internal/pipeline"
)

// fakeSource serves a canned season or a canned error.
type fakeSource struct {
	plays []model.Play
	err   error
}

func (f *fakeSource) SeasonPlays(ctx context.Context, season int) ([]model.Play, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.plays, nil
}

func testSeason() []model.Play {
	var plays []model.Play
	add := func(passer, off, def string, n int) {
		for i := 0; i < n; i++ {
			plays = append(plays, model.Play{
				Season:  2023,
				OffTeam: off, DefTeam: def,
				Passer: passer,
				Down:   1, YardsToGo: 10, SecondsRemaining: 1800,
				EPA: 0.2, Success: true, YardsGained: 6,
			})
		}
	}
	add("P.Mahomes", "KC", "BUF", 250)
	add("J.Allen", "BUF", "KC", 250)
	return plays
}

func newTestServer(t *testing.T, src pipeline.PlaySource) *Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := pipeline.New(src, pipeline.WithLogger(log))
	return New(&config.Config{Addr: ":0"}, p, log)
}

func doGet(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &fakeSource{plays: testSeason()})
	rec := doGet(t, srv, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSummaryEndpoint(t *testing.T) {
	srv := newTestServer(t, &fakeSource{plays: testSeason()})
	rec := doGet(t, srv, "/api/seasons/2023/summary")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Season    int                   `json:"season"`
		Highlight string                `json:"highlight"`
		Rows      []model.SeasonSummary `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, 2023, resp.Season)
	assert.Empty(t, resp.Highlight)
	require.Len(t, resp.Rows, 2)
	assert.Equal(t, "J.Allen", resp.Rows[0].Passer)
	assert.Equal(t, 250, resp.Rows[0].Dropbacks)
}

// TestHighlightPassThrough: the qb query parameter is echoed back, never used
// to filter the summary rows.
func TestHighlightPassThrough(t *testing.T) {
	srv := newTestServer(t, &fakeSource{plays: testSeason()})
	rec := doGet(t, srv, "/api/seasons/2023/summary?qb=P.Mahomes")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Highlight string                `json:"highlight"`
		Rows      []model.SeasonSummary `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "P.Mahomes", resp.Highlight)
	assert.Len(t, resp.Rows, 2, "highlight must not filter rows")
}

// TestAdvancedFilter: unlike the summary, the advanced endpoint does use the
// qb parameter as a filter.
func TestAdvancedFilter(t *testing.T) {
	srv := newTestServer(t, &fakeSource{plays: testSeason()})
	rec := doGet(t, srv, "/api/seasons/2023/advanced?qb=P.Mahomes")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Rows []model.AdvancedStats `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "P.Mahomes", resp.Rows[0].Passer)
}

func TestQuarterbacksEndpoint(t *testing.T) {
	srv := newTestServer(t, &fakeSource{plays: testSeason()})
	rec := doGet(t, srv, "/api/seasons/2023/quarterbacks")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Rows []string `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"J.Allen", "P.Mahomes"}, resp.Rows)
}

func TestSeasonWithoutData(t *testing.T) {
	srv := newTestServer(t, &fakeSource{}) // empty season
	rec := doGet(t, srv, "/api/seasons/2023/summary")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "2023")
}

func TestSourceFailureIsBadGateway(t *testing.T) {
	srv := newTestServer(t, &fakeSource{err: errors.New("connection refused")})
	rec := doGet(t, srv, "/api/seasons/2023/totals")
	require.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestInvalidSeason(t *testing.T) {
	srv := newTestServer(t, &fakeSource{plays: testSeason()})
	for _, path := range []string{
		"/api/seasons/banana/summary",
		"/api/seasons/1998/summary", // before play-by-play coverage
		"/api/seasons/-1/totals",
	} {
		rec := doGet(t, srv, path)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "path %s", path)
	}
}

func TestDashboardServed(t *testing.T) {
	srv := newTestServer(t, &fakeSource{plays: testSeason()})
	rec := doGet(t, srv, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<html")
}
