package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/fars-analysis/internal/adapter/http"
	"github.com/couchcryptid/fars-analysis/internal/analysis"
	"github.com/couchcryptid/fars-analysis/internal/domain"
	"github.com/couchcryptid/fars-analysis/internal/geoplot"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type mockSummarizer struct {
	table *domain.SummaryTable
	err   error
}

func (m *mockSummarizer) Summarize(_ []int) (*domain.SummaryTable, error) {
	return m.table, m.err
}

type mockMapper struct {
	png []byte
	err error
}

func (m *mockMapper) MapState(_, _ int, w io.Writer) error {
	if m.err != nil {
		return m.err
	}
	_, err := w.Write(m.png)
	return err
}

func newTestServer(readyErr error, summarizer *mockSummarizer, mapper *mockMapper) *httpadapter.Server {
	if summarizer == nil {
		summarizer = &mockSummarizer{}
	}
	if mapper == nil {
		mapper = &mockMapper{}
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return httpadapter.NewServer(":0", &mockReadiness{err: readyErr}, summarizer, mapper, logger)
}

func get(srv *httpadapter.Server, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	rec := get(newTestServer(nil, nil, nil), "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := get(newTestServer(nil, nil, nil), "/readyz")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := get(newTestServer(fmt.Errorf("data directory unavailable"), nil, nil), "/readyz")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "data directory unavailable", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(newTestServer(nil, nil, nil), "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestSummaryEndpoint(t *testing.T) {
	t.Run("sparse pivot JSON", func(t *testing.T) {
		table := domain.NewSummaryTable([]domain.MonthYear{
			{Month: 1, Year: 2015},
			{Month: 1, Year: 2015},
			{Month: 3, Year: 2016},
		})
		srv := newTestServer(nil, &mockSummarizer{table: table}, nil)

		rec := get(srv, "/v1/summary?years=2015,2016")
		assert.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Years  []int `json:"years"`
			Months []int `json:"months"`
			Cells  []struct {
				Month, Year, Count int
			} `json:"cells"`
			Total int `json:"total"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, []int{2015, 2016}, body.Years)
		assert.Equal(t, []int{1, 3}, body.Months)
		assert.Equal(t, 3, body.Total)
		require.Len(t, body.Cells, 2, "absent cells are not listed")
		assert.Equal(t, 2, body.Cells[0].Count)
	})

	t.Run("missing years parameter", func(t *testing.T) {
		rec := get(newTestServer(nil, nil, nil), "/v1/summary")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed years parameter", func(t *testing.T) {
		rec := get(newTestServer(nil, nil, nil), "/v1/summary?years=201x")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("no data maps to 404", func(t *testing.T) {
		srv := newTestServer(nil, &mockSummarizer{err: analysis.ErrNoData}, nil)
		rec := get(srv, "/v1/summary?years=9999")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestMapEndpoint(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n'}

	t.Run("returns PNG", func(t *testing.T) {
		srv := newTestServer(nil, nil, &mockMapper{png: png})

		rec := get(srv, "/v1/map?state=48&year=2015")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.Equal(t, png, rec.Body.Bytes())
	})

	t.Run("invalid state maps to 404", func(t *testing.T) {
		srv := newTestServer(nil, nil, &mockMapper{err: &geoplot.InvalidStateError{State: 3}})

		rec := get(srv, "/v1/map?state=3&year=2015")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "3")
	})

	t.Run("no accidents to plot is not an error", func(t *testing.T) {
		srv := newTestServer(nil, nil, &mockMapper{}) // writes nothing

		rec := get(srv, "/v1/map?state=48&year=2015")
		assert.Equal(t, http.StatusOK, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "no accidents to plot", body["status"])
	})

	t.Run("non-integer state", func(t *testing.T) {
		rec := get(newTestServer(nil, nil, nil), "/v1/map?state=TX&year=2015")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing year", func(t *testing.T) {
		rec := get(newTestServer(nil, nil, nil), "/v1/map?state=48")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
