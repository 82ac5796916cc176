package ws

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"FinCycle/internal/domain/models"
	xlogger "FinCycle/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingBoard struct {
	mu    sync.Mutex
	calls int
	tails []int
	err   error
}

func (b *countingBoard) Board(_ context.Context, tail int) (*models.Board, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	b.tails = append(b.tails, tail)
	if b.err != nil {
		return nil, b.err
	}
	return &models.Board{Strategy: "all", Indicators: []models.IndicatorView{{
		IndicatorDefinition: models.IndicatorDefinition{ID: "T10Y2Y"},
		Phase:               models.PhaseNeutral,
		Tail:                []models.Point{},
	}}}, nil
}

func dial(t *testing.T, b BoardSource, query string) *websocket.Conn {
	t.Helper()
	e := echo.New()
	NewIndicatorStream(xlogger.Nop(), b, 20*time.Millisecond, time.Second).RegisterRoutes(e)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/indicators" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestStreamPushesBoardRepeatedly(t *testing.T) {
	b := &countingBoard{}
	conn := dial(t, b, "?tail=12")

	for i := 0; i < 2; i++ {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var msg Message
		require.NoError(t, conn.ReadJSON(&msg))
		assert.Equal(t, "board", msg.Type)
		require.NotNil(t, msg.Board)
		assert.Equal(t, "T10Y2Y", msg.Board.Indicators[0].ID)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	assert.GreaterOrEqual(t, b.calls, 2)
	assert.Equal(t, 12, b.tails[0])
}

func TestStreamSendsErrors(t *testing.T) {
	conn := dial(t, &countingBoard{err: &models.UpstreamError{SeriesID: "ICSA", Err: errors.New("rate limited")}}, "")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "error", msg.Type)
	assert.Equal(t, "ERR_UPSTREAM", msg.Code)
	assert.Contains(t, msg.Error, "rate limited")
	assert.Nil(t, msg.Board)
}
