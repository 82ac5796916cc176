package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"FinCycle/internal/domain/models"
	"FinCycle/internal/service/cache"
	svcmetrics "FinCycle/internal/service/metrics"
	"FinCycle/internal/service/ratelimit"
	"FinCycle/internal/services/export"
	xhttp "FinCycle/pkg/http"
	xlogger "FinCycle/pkg/logger"
	"FinCycle/pkg/util"

	"github.com/labstack/echo/v4"
)

// IndicatorBoard is what the handler needs from the board use case.
type IndicatorBoard interface {
	Board(ctx context.Context, tail int) (*models.Board, error)
	Indicator(ctx context.Context, id string, tail int) (*models.IndicatorView, error)
	History(ctx context.Context, id string, limit int) ([]models.SnapshotRow, error)
	Commentary(ctx context.Context) (string, error)
}

// IndicatorsEchoHandler serves the indicator dashboard API.
type IndicatorsEchoHandler struct {
	logger   *xlogger.Logger
	board    IndicatorBoard
	cache    cache.BytesCache
	cacheTTL time.Duration
	limiter  *ratelimit.Limiter
}

// NewIndicatorsEchoHandler creates the handler. cache and limiter may be nil.
func NewIndicatorsEchoHandler(
	logger *xlogger.Logger,
	board IndicatorBoard,
	c cache.BytesCache,
	cacheTTL time.Duration,
	limiter *ratelimit.Limiter,
) *IndicatorsEchoHandler {
	svcmetrics.Register()
	return &IndicatorsEchoHandler{logger: logger, board: board, cache: c, cacheTTL: cacheTTL, limiter: limiter}
}

func (h *IndicatorsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	if h.limiter.Enabled() {
		g.Use(ratelimit.Middleware(h.limiter))
	}
	g.GET("/indicators", h.Board)
	g.GET("/indicators/export", h.Export)
	g.GET("/indicators/:id", h.Indicator)
	g.GET("/indicators/:id/history", h.History)
	g.GET("/commentary", h.Commentary)
}

func (h *IndicatorsEchoHandler) Board(c echo.Context) error {
	req := &models.BoardRequest{}
	if verr := xhttp.BindQuery(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	key := fmt.Sprintf("board:tail=%d", req.Tail)
	if b, ok := h.cached(c, "board", key); ok {
		return c.JSONBlob(http.StatusOK, b)
	}

	board, err := h.board.Board(c.Request().Context(), req.Tail)
	if err != nil {
		return h.fail(c, "board", err)
	}
	return h.respond(c, "board", key, board)
}

func (h *IndicatorsEchoHandler) Indicator(c echo.Context) error {
	req := &models.IndicatorRequest{}
	if verr := xhttp.BindQuery(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	view, err := h.board.Indicator(c.Request().Context(), req.ID, req.Tail)
	if err != nil {
		return h.fail(c, "indicator", err)
	}
	return xhttp.SuccessResponse(c, view)
}

func (h *IndicatorsEchoHandler) History(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.BindQuery(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	rows, err := h.board.History(c.Request().Context(), req.ID, req.Limit)
	if err != nil {
		return h.fail(c, "history", err)
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

// Export streams the board as CSV.
func (h *IndicatorsEchoHandler) Export(c echo.Context) error {
	board, err := h.board.Board(c.Request().Context(), 0)
	if err != nil {
		return h.fail(c, "export", err)
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, board.Indicators); err != nil {
		return h.fail(c, "export", err)
	}
	name := export.Filename(board.GeneratedAt.Format(util.ISODate))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *IndicatorsEchoHandler) Commentary(c echo.Context) error {
	text, err := h.board.Commentary(c.Request().Context())
	if err != nil {
		return h.fail(c, "commentary", err)
	}
	return xhttp.SuccessResponse(c, map[string]string{"markdown": text})
}

func (h *IndicatorsEchoHandler) fail(c echo.Context, op string, err error) error {
	appErr := MapError(err)
	if appErr.Status >= http.StatusInternalServerError {
		h.logger.Error(op+" failed", xlogger.String("path", c.Path()), xlogger.Error(err))
	} else {
		h.logger.Debug(op+" rejected", xlogger.String("path", c.Path()), xlogger.Error(err))
	}
	return xhttp.AppErrorResponse(c, appErr)
}

// MapError converts domain errors into API errors with a single user-facing message.
func MapError(err error) *xhttp.AppError {
	var (
		ce     *models.ConfigError
		ue     *models.UpstreamError
		appErr *xhttp.AppError
	)
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.As(err, &ce):
		return xhttp.UnavailableError("ERR_CONFIG", ce.Error()).WithError(err)
	case errors.Is(err, models.ErrCommentaryDisabled):
		return xhttp.UnavailableError("ERR_COMMENTARY_DISABLED", err.Error()).WithError(err)
	case errors.Is(err, models.ErrIndicatorNotFound):
		return xhttp.NotFoundErrorf("%v", err).WithError(err)
	case errors.As(err, &ue):
		return xhttp.UpstreamError(ue.Error()).WithParam("series", ue.SeriesID).WithError(err)
	case errors.Is(err, context.DeadlineExceeded):
		return xhttp.UpstreamError("upstream timed out").WithError(err)
	default:
		return xhttp.InternalError("Something went wrong").WithError(err)
	}
}

func (h *IndicatorsEchoHandler) cached(c echo.Context, endpoint, key string) ([]byte, bool) {
	if h.cache == nil {
		return nil, false
	}
	b, ok, err := h.cache.GetBytes(c.Request().Context(), key)
	switch {
	case err != nil:
		svcmetrics.CacheLookups.WithLabelValues(endpoint, "error").Inc()
		h.logger.Warn("cache get failed", xlogger.String("key", key), xlogger.Error(err))
		return nil, false
	case !ok:
		svcmetrics.CacheLookups.WithLabelValues(endpoint, "miss").Inc()
		return nil, false
	}
	svcmetrics.CacheLookups.WithLabelValues(endpoint, "hit").Inc()
	return b, true
}

// respond writes data as a success envelope and caches the bytes when caching is on.
func (h *IndicatorsEchoHandler) respond(c echo.Context, endpoint, key string, data interface{}) error {
	if h.cache == nil {
		return xhttp.SuccessResponse(c, data)
	}
	b, err := json.Marshal(xhttp.APIResponse{Status: http.StatusOK, Message: http.StatusText(http.StatusOK), Data: data})
	if err != nil {
		return h.fail(c, endpoint, err)
	}
	if err := h.cache.SetBytes(c.Request().Context(), key, b, h.cacheTTL); err != nil {
		h.logger.Warn("cache set failed", xlogger.String("key", key), xlogger.Error(err))
	}
	return c.JSONBlob(http.StatusOK, b)
}
