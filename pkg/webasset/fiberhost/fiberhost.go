// Package fiberhost adapts webasset handlers to gofiber/fiber/v3 routers.
package fiberhost

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/gzasset/gzasset/pkg/webasset"
)

// Host registers webasset handlers as GET routes on a fiber.Router.
type Host struct {
	router fiber.Router
}

var _ webasset.Host = (*Host)(nil)

// New wraps router (an *fiber.App or a route group).
func New(router fiber.Router) *Host {
	return &Host{router: router}
}

// Handle implements webasset.Host. Fiber matches routes case-insensitively
// unless the app sets CaseSensitive, so requests whose path differs from the
// registered one in case fall through to the next route.
func (h *Host) Handle(path string, handler webasset.Handler) {
	serve := Serve(handler)
	if serve == nil {
		return
	}
	h.router.Get(path, func(c fiber.Ctx) error {
		if !strings.HasSuffix(c.Path(), path) {
			return c.Next()
		}
		return serve(c)
	})
}

// Serve converts a webasset.Handler into a fiber.Handler, or nil for a nil
// handler.
func Serve(handler webasset.Handler) fiber.Handler {
	if handler == nil {
		return nil
	}
	return func(c fiber.Ctx) error {
		return Write(c, handler(request{c: c}))
	}
}

// Write copies resp onto the fiber response.
func Write(c fiber.Ctx, resp webasset.Response) error {
	for _, field := range resp.Header {
		c.Set(field.Name, field.Value)
	}
	c.Status(resp.Status)
	if len(resp.Body) == 0 {
		return nil
	}
	return c.Send(resp.Body)
}

type request struct {
	c fiber.Ctx
}

func (r request) Header(name string) string {
	return r.c.Get(name)
}
