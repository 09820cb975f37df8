package server

import (
	"bytes"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/gzasset/gzasset/pkg/asset"
)

var testEpoch = asset.NewEpoch(time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC))

func testTable(t *testing.T, fingerprint string, primary bool) *asset.Table {
	t.Helper()
	table, err := asset.NewTable(testEpoch, []asset.Record{
		{Name: "app_js", Route: "app.js", Payload: []byte("js-gz"), MimeType: "application/javascript", Fingerprint: "js-" + fingerprint},
		{Name: "index_html", Route: "index.html", Payload: []byte("html-gz"), MimeType: "text/html", Fingerprint: fingerprint, Primary: primary},
	})
	if err != nil {
		t.Fatalf("build table: %v", err)
	}
	return table
}

func TestRouterServesAssetUnderPrefix(t *testing.T) {
	app, _ := newTestApp(t, "www", testTable(t, "v1", true))

	resp, err := app.Test(httptest.NewRequest("GET", "/www/app.js", nil))
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 status, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "js-gz" {
		t.Fatalf("unexpected body: %q", body)
	}
	if resp.Header.Get("Content-Encoding") != "gzip" || resp.Header.Get("ETag") != "js-v1" {
		t.Fatalf("unexpected headers: %v", resp.Header)
	}
	if resp.Header.Get("Content-Type") != "application/javascript" {
		t.Fatalf("unexpected content type: %s", resp.Header.Get("Content-Type"))
	}
	if reqID := resp.Header.Get("X-Request-ID"); reqID == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}
}

func TestRouterConditionalRequests(t *testing.T) {
	app, _ := newTestApp(t, "www", testTable(t, "v1", true))

	req := httptest.NewRequest("GET", "/www/index.html", nil)
	req.Header.Set("If-None-Match", "v1")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotModified {
		t.Fatalf("expected 304 for matching ETag, got %d", resp.StatusCode)
	}
	if resp.Header.Get("ETag") != "v1" || resp.Header.Get("Cache-Control") == "" {
		t.Fatalf("304 via ETag should carry ETag and Cache-Control: %v", resp.Header)
	}

	req = httptest.NewRequest("GET", "/www/index.html", nil)
	req.Header.Set("If-Modified-Since", testEpoch.String())
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotModified {
		t.Fatalf("expected 304 for matching date, got %d", resp.StatusCode)
	}
	if resp.Header.Get("ETag") != "" {
		t.Fatalf("304 via date should not carry ETag: %v", resp.Header)
	}
}

func TestRouterRootServesPrimary(t *testing.T) {
	app, _ := newTestApp(t, "www", testTable(t, "v1", true))

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK || resp.Header.Get("ETag") != "v1" {
		t.Fatalf("expected primary asset, got %d %v", resp.StatusCode, resp.Header)
	}
}

func TestRouterRootWithoutPrimary(t *testing.T) {
	app, _ := newTestApp(t, "www", testTable(t, "v1", false))

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 status, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !bytes.Contains(body, []byte(`"primary_unset"`)) {
		t.Fatalf("expected primary_unset error, got %s", string(body))
	}
}

func TestRouterReturns404WhenAssetUnknown(t *testing.T) {
	app, _ := newTestApp(t, "www", testTable(t, "v1", true))

	resp, err := app.Test(httptest.NewRequest("GET", "/www/missing.css", nil))
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 status, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !bytes.Contains(body, []byte(`"asset_not_found"`)) {
		t.Fatalf("expected asset_not_found error, got %s", string(body))
	}
}

func TestRouterFollowsLibrarySwap(t *testing.T) {
	app, lib := newTestApp(t, "", testTable(t, "v1", true))

	lib.Swap(testTable(t, "v2", true))

	resp, err := app.Test(httptest.NewRequest("GET", "/index.html", nil))
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	if resp.Header.Get("ETag") != "v2" {
		t.Fatalf("expected swapped table to be served, got %s", resp.Header.Get("ETag"))
	}
}

func TestNewAppValidatesOptions(t *testing.T) {
	logger := logrus.New()
	lib, err := NewLibrary("www", testTable(t, "v1", true))
	if err != nil {
		t.Fatalf("library error: %v", err)
	}
	cases := []AppOptions{
		{Library: lib, ListenPort: 5000},
		{Logger: logger, ListenPort: 5000},
		{Logger: logger, Library: lib},
	}
	for _, opts := range cases {
		if _, err := NewApp(opts); err == nil {
			t.Fatalf("expected error for %+v", opts)
		}
	}
}

func newTestApp(t *testing.T, prefix string, table *asset.Table) (*fiber.App, *Library) {
	t.Helper()

	lib, err := NewLibrary(prefix, table)
	if err != nil {
		t.Fatalf("failed to create library: %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	app, err := NewApp(AppOptions{
		Logger:     logger,
		Library:    lib,
		ListenPort: 5000,
	})
	if err != nil {
		t.Fatalf("failed to create app: %v", err)
	}
	return app, lib
}
