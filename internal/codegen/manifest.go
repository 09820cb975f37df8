package codegen

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/gzasset/gzasset/pkg/asset"
)

// ManifestDoc 是构建清单的 YAML 结构，供部署脚本核对 ETag 与体积。
type ManifestDoc struct {
	Epoch      string          `yaml:"epoch" json:"epoch"`
	TotalBytes int             `yaml:"total_bytes" json:"total_bytes"`
	Primary    string          `yaml:"primary,omitempty" json:"primary,omitempty"`
	Assets     []ManifestEntry `yaml:"assets" json:"assets"`
}

// ManifestEntry 描述单个资源。
type ManifestEntry struct {
	Name        string `yaml:"name" json:"name"`
	Route       string `yaml:"route" json:"route"`
	MimeType    string `yaml:"mime" json:"mime"`
	Length      int    `yaml:"length" json:"length"`
	Fingerprint string `yaml:"fingerprint" json:"fingerprint"`
	Primary     bool   `yaml:"primary,omitempty" json:"primary,omitempty"`
}

// NewManifest 根据 Table 生成清单结构。
func NewManifest(table *asset.Table) ManifestDoc {
	doc := ManifestDoc{
		Epoch:      table.Epoch().String(),
		TotalBytes: table.TotalBytes(),
		Assets:     make([]ManifestEntry, 0, table.Len()),
	}
	for _, rec := range table.Records() {
		if rec.Primary {
			doc.Primary = rec.Route
		}
		doc.Assets = append(doc.Assets, ManifestEntry{
			Name:        rec.Name,
			Route:       rec.Route,
			MimeType:    rec.MimeType,
			Length:      rec.Length(),
			Fingerprint: rec.Fingerprint,
			Primary:     rec.Primary,
		})
	}
	return doc
}

// Manifest 渲染 YAML 清单。
func Manifest(table *asset.Table) ([]byte, error) {
	if table == nil {
		return nil, fmt.Errorf("%w: nil table", ErrRender)
	}
	out, err := yaml.Marshal(NewManifest(table))
	if err != nil {
		return nil, fmt.Errorf("%w: manifest: %v", ErrRender, err)
	}
	return out, nil
}

// ParseManifest 读取先前写出的清单。
func ParseManifest(data []byte) (ManifestDoc, error) {
	var doc ManifestDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return ManifestDoc{}, fmt.Errorf("parse manifest: %w", err)
	}
	return doc, nil
}
