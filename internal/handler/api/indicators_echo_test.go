package api

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"FinCycle/internal/domain/models"
	"FinCycle/internal/service/cache"
	"FinCycle/internal/service/ratelimit"
	xlogger "FinCycle/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBoard struct {
	board      *models.Board
	err        error
	boardCalls int
	tails      []int
	history    []models.SnapshotRow
	commentary string
}

func (s *stubBoard) Board(_ context.Context, tail int) (*models.Board, error) {
	s.boardCalls++
	s.tails = append(s.tails, tail)
	return s.board, s.err
}

func (s *stubBoard) Indicator(_ context.Context, id string, _ int) (*models.IndicatorView, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, v := range s.board.Indicators {
		if v.ID == id {
			return &v, nil
		}
	}
	return nil, models.ErrIndicatorNotFound
}

func (s *stubBoard) History(_ context.Context, _ string, limit int) ([]models.SnapshotRow, error) {
	if s.err != nil {
		return nil, s.err
	}
	if limit < len(s.history) {
		return s.history[:limit], nil
	}
	return s.history, nil
}

func (s *stubBoard) Commentary(context.Context) (string, error) {
	return s.commentary, s.err
}

func sampleBoard() *models.Board {
	yoy := 2.5
	p := models.ProcessedIndicator{
		IndicatorDefinition: models.IndicatorDefinition{ID: "INDPRO", Name: "Industrial Production", Kind: models.KindCoincident},
		LatestValue:         103.1,
		LatestDate:          "Feb 1, 2025",
		YearOverYearChange:  yoy,
		SequentialChange:    0.1,
		YoYAcceleration:     0.3,
		Phase:               models.Phase1,
	}
	return &models.Board{
		GeneratedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Strategy:    "all",
		Indicators: []models.IndicatorView{{
			IndicatorDefinition: p.IndicatorDefinition,
			Phase:               p.Phase,
			Summary:             models.Summary{YoY: &yoy},
			Tail:                []models.Point{},
			Processed:           p,
		}},
	}
}

func newTestServer(b *stubBoard, c cache.BytesCache, l *ratelimit.Limiter) *echo.Echo {
	e := echo.New()
	NewIndicatorsEchoHandler(xlogger.Nop(), b, c, time.Minute, l).RegisterRoutes(e)
	return e
}

func do(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestBoardEndpoint(t *testing.T) {
	b := &stubBoard{board: sampleBoard()}
	rec := do(newTestServer(b, nil, nil), "/api/indicators?tail=10")

	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	var board models.Board
	require.NoError(t, json.Unmarshal(env.Data, &board))
	require.Len(t, board.Indicators, 1)
	assert.Equal(t, "INDPRO", board.Indicators[0].ID)
	assert.Equal(t, 2.5, *board.Indicators[0].Summary.YoY)
	assert.Nil(t, board.Indicators[0].Summary.Acceleration)
	assert.Equal(t, []int{10}, b.tails)
}

func TestBoardEndpointDefaultsAndValidation(t *testing.T) {
	b := &stubBoard{board: sampleBoard()}
	e := newTestServer(b, nil, nil)

	require.Equal(t, http.StatusOK, do(e, "/api/indicators").Code)
	assert.Equal(t, []int{120}, b.tails)

	rec := do(e, "/api/indicators?tail=5000")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_LTE")
}

func TestBoardEndpointErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		body string
	}{
		{"upstream", &models.UpstreamError{SeriesID: "ICSA", Err: fmt.Errorf("rate limited")}, http.StatusBadGateway, "rate limited"},
		{"config", &models.ConfigError{Field: "fred.api_key", Message: "missing"}, http.StatusServiceUnavailable, "ERR_CONFIG"},
		{"timeout", context.DeadlineExceeded, http.StatusBadGateway, "timed out"},
		{"other", fmt.Errorf("boom"), http.StatusInternalServerError, "ERR_INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(newTestServer(&stubBoard{err: tt.err}, nil, nil), "/api/indicators")
			assert.Equal(t, tt.code, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.body)
			assert.Equal(t, tt.code, decode(t, rec).Status)
		})
	}
}

func TestBoardEndpointCache(t *testing.T) {
	b := &stubBoard{board: sampleBoard()}
	e := newTestServer(b, cache.NewTTLCache(), nil)

	first := do(e, "/api/indicators")
	second := do(e, "/api/indicators")

	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, b.boardCalls)

	do(e, "/api/indicators?tail=5")
	assert.Equal(t, 2, b.boardCalls)
}

func TestIndicatorEndpoint(t *testing.T) {
	e := newTestServer(&stubBoard{board: sampleBoard()}, nil, nil)

	rec := do(e, "/api/indicators/INDPRO")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"phase":"Phase1"`)

	rec = do(e, "/api/indicators/NOPE")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_NOT_FOUND")
}

func TestHistoryEndpoint(t *testing.T) {
	b := &stubBoard{board: sampleBoard(), history: []models.SnapshotRow{
		{IndicatorID: "INDPRO", SnapshotID: "2"},
		{IndicatorID: "INDPRO", SnapshotID: "1"},
	}}
	rec := do(newTestServer(b, nil, nil), "/api/indicators/INDPRO/history?limit=1")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":1`)
	assert.Contains(t, rec.Body.String(), `"snapshot_id":"2"`)
}

func TestExportEndpoint(t *testing.T) {
	rec := do(newTestServer(&stubBoard{board: sampleBoard()}, nil, nil), "/api/indicators/export")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "indicators-2025-03-01.csv")

	records, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "INDPRO", records[1][2])
	assert.Equal(t, "2.50", records[1][5])
}

func TestCommentaryEndpoint(t *testing.T) {
	rec := do(newTestServer(&stubBoard{commentary: "# Expansion"}, nil, nil), "/api/commentary")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"markdown":"# Expansion"`)

	rec = do(newTestServer(&stubBoard{err: models.ErrCommentaryDisabled}, nil, nil), "/api/commentary")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_COMMENTARY_DISABLED")
}

func TestRateLimit(t *testing.T) {
	e := newTestServer(&stubBoard{board: sampleBoard()}, nil, ratelimit.New(1, 0.001))

	assert.Equal(t, http.StatusOK, do(e, "/api/indicators").Code)
	rec := do(e, "/api/indicators")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_RATE_LIMITED")
}
