package routes

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/gzasset/gzasset/internal/codegen"
	"github.com/gzasset/gzasset/internal/server"
	"github.com/gzasset/gzasset/pkg/asset"
	"github.com/gzasset/gzasset/pkg/webasset"
)

// RegisterAssetRoutes 暴露 /-/assets 诊断接口，便于核对当前表的 ETag、体积与 Epoch。
func RegisterAssetRoutes(app *fiber.App, lib *server.Library) {
	if app == nil || lib == nil {
		return
	}

	app.Get("/-/assets", func(c fiber.Ctx) error {
		table := lib.Current()
		return c.JSON(fiber.Map{
			"prefix":   lib.Prefix(),
			"manifest": codegen.NewManifest(table),
		})
	})

	app.Get("/-/assets/:name", func(c fiber.Ctx) error {
		name := strings.TrimSpace(c.Params("name"))
		if name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "asset_name_required"})
		}
		table := lib.Current()
		rec, ok := table.Lookup(name)
		if !ok {
			rec, ok = table.LookupRoute(name)
		}
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "asset_not_found"})
		}
		return c.JSON(encodeAsset(rec, table.Epoch(), lib.Prefix()))
	})
}

type assetPayload struct {
	Name         string `json:"name"`
	Route        string `json:"route"`
	URL          string `json:"url"`
	MimeType     string `json:"mime"`
	Length       int    `json:"length"`
	ETag         string `json:"etag"`
	LastModified string `json:"last_modified"`
	Primary      bool   `json:"primary"`
}

func encodeAsset(rec asset.Record, epoch asset.Epoch, prefix string) assetPayload {
	return assetPayload{
		Name:         rec.Name,
		Route:        rec.Route,
		URL:          webasset.Route(prefix, rec.Route),
		MimeType:     rec.MimeType,
		Length:       rec.Length(),
		ETag:         rec.Fingerprint,
		LastModified: epoch.String(),
		Primary:      rec.Primary,
	}
}
