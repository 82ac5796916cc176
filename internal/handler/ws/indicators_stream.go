package ws

import (
	"context"
	"net/http"
	"time"

	"FinCycle/internal/domain/models"
	"FinCycle/internal/handler/api"
	svcmetrics "FinCycle/internal/service/metrics"
	xlogger "FinCycle/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const writeWait = 10 * time.Second

// BoardSource computes the board pushed to clients.
type BoardSource interface {
	Board(ctx context.Context, tail int) (*models.Board, error)
}

// Message is one frame sent to a client.
type Message struct {
	Type  string        `json:"type"`
	Board *models.Board `json:"board,omitempty"`
	Error string        `json:"error,omitempty"`
	Code  string        `json:"code,omitempty"`
}

// IndicatorStream pushes the board over a websocket every interval.
type IndicatorStream struct {
	logger       *xlogger.Logger
	board        BoardSource
	interval     time.Duration
	pingInterval time.Duration
	upgrader     websocket.Upgrader
}

func NewIndicatorStream(logger *xlogger.Logger, board BoardSource, interval, pingInterval time.Duration) *IndicatorStream {
	if interval <= 0 {
		interval = time.Minute
	}
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	svcmetrics.Register()
	return &IndicatorStream{
		logger:       logger,
		board:        board,
		interval:     interval,
		pingInterval: pingInterval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (s *IndicatorStream) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/indicators", s.Serve)
}

// Serve upgrades the connection and streams until the client leaves or the request context ends.
func (s *IndicatorStream) Serve(c echo.Context) error {
	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		s.logger.Warn("ws upgrade failed", xlogger.Error(err))
		return nil
	}
	defer conn.Close()

	svcmetrics.StreamClients.Inc()
	defer svcmetrics.StreamClients.Dec()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	// reader: handles pongs and close frames, cancels on disconnect
	_ = conn.SetReadDeadline(time.Now().Add(2 * s.pingInterval))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(2 * s.pingInterval))
	})
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	tail := parseTail(c)
	push := time.NewTicker(s.interval)
	defer push.Stop()
	ping := time.NewTicker(s.pingInterval)
	defer ping.Stop()

	if err := s.push(ctx, conn, tail); err != nil {
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return nil
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return nil
			}
		case <-push.C:
			if err := s.push(ctx, conn, tail); err != nil {
				return nil
			}
		}
	}
}

func (s *IndicatorStream) push(ctx context.Context, conn *websocket.Conn, tail int) error {
	msg := Message{Type: "board"}
	board, err := s.board.Board(ctx, tail)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		appErr := api.MapError(err)
		msg = Message{Type: "error", Error: appErr.Message, Code: appErr.Code}
		s.logger.Warn("ws board failed", xlogger.Error(err))
	} else {
		msg.Board = board
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		s.logger.Debug("ws write failed", xlogger.Error(err))
		return err
	}
	return nil
}

// parseTail reads the optional tail query param; 0 means the board default.
func parseTail(c echo.Context) int {
	var tail int
	if err := echo.QueryParamsBinder(c).Int("tail", &tail).BindError(); err != nil || tail < 0 {
		return 0
	}
	return tail
}
