package webasset

import (
	"net/http"
	"sync"
	"testing"

	"github.com/matryer/is"

	"github.com/gzasset/gzasset/pkg/asset"
)

const testEpoch = asset.Epoch("Tue, 05 Mar 2024 10:00:00 GMT")

type headers map[string]string

func (h headers) Header(name string) string {
	return h[name]
}

func testRecord() asset.Record {
	return asset.Record{
		Name:        "app_js",
		Route:       "app.js",
		Payload:     []byte{0x1f, 0x8b, 0x08, 0x00},
		MimeType:    "application/javascript",
		Fingerprint: "3f786850e387550fdab836ed7e6dc881de23001b",
	}
}

func TestStatusCodesMatchHTTP(t *testing.T) {
	is := is.New(t)
	is.Equal(StatusOK, http.StatusOK)
	is.Equal(StatusNotModified, http.StatusNotModified)

	rec := testRecord()
	is.Equal(Respond(rec, testEpoch, headers{}).Status, StatusOK)
	is.Equal(Respond(rec, testEpoch, headers{HeaderIfModifiedSince: string(testEpoch)}).Status, StatusNotModified)
}

func TestRespond_NoHeaders(t *testing.T) {
	is := is.New(t)
	rec := testRecord()

	resp := Respond(rec, testEpoch, headers{})

	is.Equal(resp.Status, http.StatusOK)
	is.Equal(resp.Body, rec.Payload)
	is.Equal(resp.Get("Content-Type"), "application/javascript")
	is.Equal(resp.Get("Content-Encoding"), "gzip")
	is.Equal(resp.Get("Cache-Control"), "public, max-age=31536000")
	is.Equal(resp.Get("ETag"), rec.Fingerprint)
	is.Equal(resp.Get("Last-Modified"), "")
}

func TestRespond_IfModifiedSince(t *testing.T) {
	is := is.New(t)

	resp := Respond(testRecord(), testEpoch, headers{HeaderIfModifiedSince: string(testEpoch)})

	is.Equal(resp.Status, http.StatusNotModified)
	is.Equal(len(resp.Body), 0)
	// 该分支不回写 ETag/Cache-Control，与 If-None-Match 分支不对称。
	is.Equal(len(resp.Header), 0)
}

func TestRespond_IfModifiedSinceIsExactString(t *testing.T) {
	tests := []struct {
		name string
		ims  string
	}{
		{name: "rfc850", ims: "Tuesday, 05-Mar-24 10:00:00 GMT"},
		{name: "lowercase", ims: "tue, 05 mar 2024 10:00:00 gmt"},
		{name: "later", ims: "Wed, 06 Mar 2024 10:00:00 GMT"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			is := is.New(t)
			resp := Respond(testRecord(), testEpoch, headers{HeaderIfModifiedSince: test.ims})
			is.Equal(resp.Status, http.StatusOK)
		})
	}
}

func TestRespond_IfNoneMatch(t *testing.T) {
	tests := []struct {
		inm        string
		wantStatus int
	}{
		{inm: "3f786850e387550fdab836ed7e6dc881de23001b", wantStatus: http.StatusNotModified},
		{inm: "deadbeef", wantStatus: http.StatusOK},
		{inm: `"3f786850e387550fdab836ed7e6dc881de23001b"`, wantStatus: http.StatusOK},
	}

	for _, test := range tests {
		t.Run(test.inm, func(t *testing.T) {
			is := is.New(t)
			rec := testRecord()

			resp := Respond(rec, testEpoch, headers{HeaderIfNoneMatch: test.inm})

			is.Equal(resp.Status, test.wantStatus)
			is.Equal(resp.Get("ETag"), rec.Fingerprint)
			is.Equal(resp.Get("Cache-Control"), CacheControl)
			if test.wantStatus == http.StatusNotModified {
				is.Equal(len(resp.Body), 0)
				is.Equal(resp.Get("Content-Encoding"), "")
			}
		})
	}
}

func TestRespond_IfModifiedSinceWinsOverIfNoneMatch(t *testing.T) {
	is := is.New(t)
	rec := testRecord()

	resp := Respond(rec, testEpoch, headers{
		HeaderIfModifiedSince: string(testEpoch),
		HeaderIfNoneMatch:     rec.Fingerprint,
	})

	is.Equal(resp.Status, http.StatusNotModified)
	is.Equal(resp.Get("ETag"), "")
}

func TestRespond_EmptyEpochNeverMatchesMissingHeader(t *testing.T) {
	is := is.New(t)
	resp := Respond(testRecord(), "", headers{})
	is.Equal(resp.Status, http.StatusOK)
}

func TestRoute(t *testing.T) {
	tests := []struct {
		prefix string
		route  string
		want   string
	}{
		{prefix: "www", route: "index.html", want: "/www/index.html"},
		{prefix: "/www/", route: "app.js", want: "/www/app.js"},
		{prefix: "static/v1", route: "a.css", want: "/static/v1/a.css"},
		{prefix: "", route: "a.css", want: "/a.css"},
	}

	for _, test := range tests {
		t.Run(test.want, func(t *testing.T) {
			is := is.New(t)
			is.Equal(Route(test.prefix, test.route), test.want)
		})
	}
}

func TestRegister(t *testing.T) {
	is := is.New(t)

	primary := testRecord()
	primary.Name, primary.Route, primary.Primary = "index_html", "index.html", true
	primary.Fingerprint = "a9993e364706816aba3e25717850c26c9cd0d89d"
	table := asset.MustNewTable(testEpoch, []asset.Record{testRecord(), primary})

	registered := map[string]Handler{}
	host := HostFunc(func(path string, h Handler) {
		registered[path] = h
	})

	h := Register(host, "www", table)

	is.True(h != nil)
	is.Equal(len(registered), 2)
	is.True(registered["/www/app.js"] != nil)
	is.True(registered["/www/index.html"] != nil)
	is.Equal(h(headers{}).Get("ETag"), primary.Fingerprint)
	is.Equal(registered["/www/app.js"](headers{}).Get("ETag"), testRecord().Fingerprint)
}

func TestRegister_NoPrimary(t *testing.T) {
	is := is.New(t)
	table := asset.MustNewTable(testEpoch, []asset.Record{testRecord()})

	count := 0
	h := Register(HostFunc(func(string, Handler) { count++ }), "www", table)

	is.True(h == nil)
	is.Equal(count, 1)
}

func TestHandler_Concurrent(t *testing.T) {
	is := is.New(t)
	rec := testRecord()
	h := NewHandler(rec, testEpoch)

	var wg sync.WaitGroup
	statuses := make([]int, 64)
	for i := range statuses {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := headers{}
			if i%2 == 0 {
				req[HeaderIfNoneMatch] = rec.Fingerprint
			}
			statuses[i] = h(req).Status
		}(i)
	}
	wg.Wait()

	for i, status := range statuses {
		if i%2 == 0 {
			is.Equal(status, http.StatusNotModified)
		} else {
			is.Equal(status, http.StatusOK)
		}
	}
}
