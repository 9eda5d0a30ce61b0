package publishtools

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mohammad-safakhou/agentsocial/config"
	"github.com/mohammad-safakhou/agentsocial/internal/logging"
)

// NewHTTPHandler builds the echo app hosting the MCP endpoint.
func NewHTTPHandler(cfg config.ServerConfig, t *Tools, logger *log.Logger) *echo.Echo {
	cfg = cfg.Normalize()
	logger = logging.OrDiscard(logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		logger.Warn("http error", "status", code, "method", req.Method, "path", req.URL.Path, "ip", c.RealIP(), "err", err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]any{"error": msg})
		}
	}

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	mcpHTTP := server.NewStreamableHTTPServer(NewMCPServer(t), server.WithEndpointPath(cfg.MCPPath))
	e.Any(cfg.MCPPath, echo.WrapHandler(mcpHTTP))
	return e
}

// Serve runs the MCP server until ctx is cancelled.
func Serve(ctx context.Context, cfg config.ServerConfig, t *Tools, logger *log.Logger) error {
	cfg = cfg.Normalize()
	logger = logging.OrDiscard(logger)
	e := NewHTTPHandler(cfg, t, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Address, "mcp", cfg.MCPPath, "platforms", t.Registry().Names())
		errCh <- e.Start(cfg.Address)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
