package middleware

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// RequestLogger 把帶有 request_id 的 logger 放進 request context，
// 並在回應後記錄一筆存取紀錄。必須掛在 RequestID 之後。
func RequestLogger(logger zerolog.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		BeforeNextFunc: func(c echo.Context) {
			l := logger.With().
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Logger()
			req := c.Request()
			c.SetRequest(req.WithContext(l.WithContext(req.Context())))
		},
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			l := zerolog.Ctx(c.Request().Context())
			ev := l.Info()
			if v.Status >= 500 || v.Error != nil {
				ev = l.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
