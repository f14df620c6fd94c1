package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/njprem/Todo_APP_BackEnd/internal/util"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type RouterConfig struct {
	AllowOrigins []string
	Logger       zerolog.Logger
	Health       Pinger
}

func NewRouter(cfg RouterConfig) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	v, err := newRequestValidator()
	if err != nil {
		return nil, fmt.Errorf("init validator: %w", err)
	}
	e.Validator = v
	e.HTTPErrorHandler = newErrorHandler(cfg.Logger)

	allowOrigins := cfg.AllowOrigins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"*"}
	}
	allowCredentials := true
	for _, origin := range allowOrigins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	// /tasks/ and /tasks route to the same handler.
	e.Pre(middleware.RemoveTrailingSlash())

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	registerLogging(e, cfg.Logger)

	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{
			echo.HeaderAuthorization,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderOrigin,
			echo.HeaderXRequestedWith,
		},
		AllowCredentials: allowCredentials,
	}))

	e.GET("/health", func(c echo.Context) error {
		if cfg.Health != nil {
			if err := cfg.Health.Ping(c.Request().Context()); err != nil {
				cfg.Logger.Error().Err(err).Msg("health check failed")
				return c.JSON(http.StatusServiceUnavailable, echo.Map{"ok": false})
			}
		}
		return c.JSON(http.StatusOK, echo.Map{"ok": true})
	})
	return e, nil
}

// newErrorHandler renders every error as {"detail": ...}. Anything that is not
// an *echo.HTTPError is an unexpected fault and is reported as a bare 500.
func newErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		detail := "internal server error"

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			code = httpErr.Code
			if httpErr.Internal != nil {
				logger.Debug().Err(httpErr.Internal).Int("status", code).Msg("request failed")
			}
			switch msg := httpErr.Message.(type) {
			case string:
				detail = msg
			case error:
				detail = msg.Error()
			case nil:
				detail = http.StatusText(code)
			default:
				detail = fmt.Sprint(msg)
			}
		} else {
			logger.Error().Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("unhandled error")
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(code)
		} else {
			writeErr = c.JSON(code, util.Error(detail))
		}
		if writeErr != nil {
			logger.Error().Err(writeErr).Msg("write error response")
		}
	}
}
