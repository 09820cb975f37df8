// Package httphost adapts webasset handlers to net/http.
package httphost

import (
	"net/http"

	"github.com/gzasset/gzasset/pkg/webasset"
)

// Mux is the subset of *http.ServeMux used for registration.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// Host registers webasset handlers as GET routes on a Mux.
type Host struct {
	mux Mux
}

var _ webasset.Host = (*Host)(nil)

// New wraps mux; a nil mux falls back to http.DefaultServeMux.
func New(mux Mux) *Host {
	if mux == nil {
		mux = http.DefaultServeMux
	}
	return &Host{mux: mux}
}

// Handle implements webasset.Host.
func (h *Host) Handle(path string, handler webasset.Handler) {
	h.mux.Handle(http.MethodGet+" "+path, Serve(handler))
}

// Serve converts a webasset.Handler into an http.Handler. It returns nil for
// a nil handler so callers can test the primary binding directly.
func Serve(handler webasset.Handler) http.Handler {
	if handler == nil {
		return nil
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Write(w, handler(request{r: r}))
	})
}

// Write copies resp onto w without touching the body bytes.
func Write(w http.ResponseWriter, resp webasset.Response) {
	header := w.Header()
	for _, field := range resp.Header {
		header.Set(field.Name, field.Value)
	}
	w.WriteHeader(resp.Status)
	if len(resp.Body) > 0 {
		_, _ = w.Write(resp.Body)
	}
}

type request struct {
	r *http.Request
}

func (r request) Header(name string) string {
	return r.r.Header.Get(name)
}
