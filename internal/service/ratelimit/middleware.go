package ratelimit

import (
	apphttp "FinCycle/pkg/http"

	"github.com/labstack/echo/v4"
)

// Middleware rejects requests over the limit with 429, keyed by client IP.
func Middleware(l *Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.Allow(c.RealIP()) {
				return apphttp.AppErrorResponse(c, apphttp.TooManyRequestsError("rate limit exceeded"))
			}
			return next(c)
		}
	}
}
