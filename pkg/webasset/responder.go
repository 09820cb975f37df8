package webasset

import (
	"path"
	"strings"

	"github.com/gzasset/gzasset/pkg/asset"
)

// Header names and values written or read by the responder.
const (
	HeaderIfModifiedSince = "If-Modified-Since"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderContentType     = "Content-Type"
	HeaderContentEncoding = "Content-Encoding"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"

	// CacheControl 对所有资源统一下发一年缓存。
	CacheControl = "public, max-age=31536000"
	// ContentEncoding 是预压缩正文的编码。
	ContentEncoding = "gzip"
)

// Status codes produced by Respond; values match RFC 9110.
const (
	StatusOK          = 200
	StatusNotModified = 304
)

// Request exposes the request headers the responder reads.
// Header returns "" when the header is absent.
type Request interface {
	Header(name string) string
}

// HeaderField is a single response header in write order.
type HeaderField struct {
	Name  string
	Value string
}

// Response is the transport-neutral result of a handler.
type Response struct {
	Status int
	Header []HeaderField
	Body   []byte
}

// Get returns the first value for name, or "".
func (r Response) Get(name string) string {
	for _, field := range r.Header {
		if strings.EqualFold(field.Name, name) {
			return field.Value
		}
	}
	return ""
}

// Handler answers one request for one asset.
type Handler func(Request) Response

// Host registers a handler for an exact path on the host server. Paths
// produced by Register only contain '/' and [A-Za-z0-9._-], so adapters may
// pass them to routers as literal patterns.
type Host interface {
	Handle(path string, h Handler)
}

// HostFunc adapts a function to the Host interface.
type HostFunc func(path string, h Handler)

// Handle makes HostFunc satisfy Host.
func (f HostFunc) Handle(path string, h Handler) {
	f(path, h)
}

// Respond evaluates the conditional-request headers of req against rec and
// epoch. Both comparisons are exact byte-for-byte string matches.
func Respond(rec asset.Record, epoch asset.Epoch, req Request) Response {
	if ims := req.Header(HeaderIfModifiedSince); ims != "" && ims == string(epoch) {
		// 与 ETag 分支不同，这里不回写任何头部。
		return Response{Status: StatusNotModified}
	}

	if inm := req.Header(HeaderIfNoneMatch); inm != "" && inm == rec.Fingerprint {
		return Response{
			Status: StatusNotModified,
			Header: []HeaderField{
				{Name: HeaderCacheControl, Value: CacheControl},
				{Name: HeaderETag, Value: rec.Fingerprint},
			},
		}
	}

	return Response{
		Status: StatusOK,
		Header: []HeaderField{
			{Name: HeaderContentType, Value: rec.MimeType},
			{Name: HeaderContentEncoding, Value: ContentEncoding},
			{Name: HeaderCacheControl, Value: CacheControl},
			{Name: HeaderETag, Value: rec.Fingerprint},
		},
		Body: rec.Payload,
	}
}

// NewHandler binds rec and epoch into a Handler.
func NewHandler(rec asset.Record, epoch asset.Epoch) Handler {
	return func(req Request) Response {
		return Respond(rec, epoch, req)
	}
}

// Route 返回资源对外路径 /<prefix>/<route>；prefix 为空时直接挂在根路径。
func Route(prefix, route string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return "/" + route
	}
	return path.Join("/", prefix) + "/" + route
}

// Register installs one handler per record under /<prefix>/<route> and
// returns the primary asset's handler, or nil when the table has none.
func Register(host Host, prefix string, table *asset.Table) Handler {
	if host == nil || table == nil {
		return nil
	}

	epoch := table.Epoch()
	var primary Handler
	for _, rec := range table.Records() {
		h := NewHandler(rec, epoch)
		host.Handle(Route(prefix, rec.Route), h)
		if rec.Primary {
			primary = h
		}
	}
	return primary
}
