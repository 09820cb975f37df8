package server

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gzasset/gzasset/internal/logging"
	"github.com/gzasset/gzasset/pkg/asset"
	"github.com/gzasset/gzasset/pkg/webasset"
	"github.com/gzasset/gzasset/pkg/webasset/fiberhost"
)

// AppOptions controls how the preview application should behave.
type AppOptions struct {
	Logger     *logrus.Logger
	Library    *Library
	ListenPort int
}

const contextKeyRequestID = "_gzasset_request_id"

// NewApp builds a Fiber application that serves the library's current table:
// GET / answers with the primary asset and GET /<prefix>/<file> with any asset.
func NewApp(opts AppOptions) (*fiber.App, error) {
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.Library == nil {
		return nil, errors.New("asset library is required")
	}
	if opts.ListenPort <= 0 {
		return nil, fmt.Errorf("invalid listen port: %d", opts.ListenPort)
	}

	app := fiber.New(fiber.Config{
		CaseSensitive: true,
	})

	app.Use(recover.New())
	app.Use(requestContextMiddleware(opts.Logger))

	app.Get("/", func(c fiber.Ctx) error {
		rec, epoch, ok := opts.Library.Primary()
		if !ok {
			return renderNotFound(c, opts.Logger, "primary_unset", "/")
		}
		return serveRecord(c, rec, epoch)
	})

	app.Get(assetPattern(opts.Library.Prefix()), func(c fiber.Ctx) error {
		if isDiagnosticsPath(string(c.Request().URI().Path())) {
			return c.Next()
		}
		route := c.Params("*")
		rec, epoch, ok := opts.Library.Lookup(route)
		if !ok {
			return renderNotFound(c, opts.Logger, "asset_not_found", route)
		}
		return serveRecord(c, rec, epoch)
	})

	return app, nil
}

func assetPattern(prefix string) string {
	if prefix == "" {
		return "/*"
	}
	return "/" + prefix + "/*"
}

func serveRecord(c fiber.Ctx, rec asset.Record, epoch asset.Epoch) error {
	return fiberhost.Serve(webasset.NewHandler(rec, epoch))(c)
}

// requestContextMiddleware 负责生成请求 ID，并在请求结束后输出访问日志。
func requestContextMiddleware(logger *logrus.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		reqID := uuid.NewString()
		c.Locals(contextKeyRequestID, reqID)
		c.Set("X-Request-ID", reqID)

		start := time.Now()
		err := c.Next()

		fields := logging.RequestFields(reqID, c.Method(), c.Path(), c.Response().StatusCode())
		fields["elapsed_ms"] = time.Since(start).Milliseconds()
		if err != nil {
			fields["error"] = err.Error()
		}
		logger.WithFields(fields).Debug("request")
		return err
	}
}

func renderNotFound(c fiber.Ctx, logger *logrus.Logger, reason, route string) error {
	logger.WithFields(logrus.Fields{
		"action":     "asset_lookup",
		"route":      route,
		"request_id": RequestID(c),
	}).Warn(reason)

	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": reason,
	})
}

// RequestID returns the request identifier stored by the router middleware.
func RequestID(c fiber.Ctx) string {
	if value := c.Locals(contextKeyRequestID); value != nil {
		if reqID, ok := value.(string); ok {
			return reqID
		}
	}
	return ""
}

func isDiagnosticsPath(path string) bool {
	return strings.HasPrefix(path, "/-/")
}
