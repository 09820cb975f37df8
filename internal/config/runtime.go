package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// BuildRuntime 将 BuildConfig 展开为构建流程直接使用的派生值，避免各处重复解析路径。
type BuildRuntime struct {
	Config BuildConfig
	// ArtifactRoot 是生成文件与清单的公共父目录，artifact.Store 以此为根。
	ArtifactRoot string
	// OutputRel/ManifestRel 为相对 ArtifactRoot 的斜杠路径；ManifestRel 为空表示不输出清单。
	OutputRel   string
	ManifestRel string
}

// NewBuildRuntime 根据已 Load 的绝对路径计算产物根目录与相对路径。
func NewBuildRuntime(b BuildConfig) (BuildRuntime, error) {
	if !filepath.IsAbs(b.OutputPath) {
		return BuildRuntime{}, fmt.Errorf("OutputPath 必须是绝对路径: %s", b.OutputPath)
	}

	root := filepath.Dir(b.OutputPath)
	if b.ManifestPath != "" {
		if !filepath.IsAbs(b.ManifestPath) {
			return BuildRuntime{}, fmt.Errorf("ManifestPath 必须是绝对路径: %s", b.ManifestPath)
		}
		root = commonDir(root, filepath.Dir(b.ManifestPath))
	}

	rt := BuildRuntime{Config: b, ArtifactRoot: root}
	rel, err := filepath.Rel(root, b.OutputPath)
	if err != nil {
		return BuildRuntime{}, err
	}
	rt.OutputRel = filepath.ToSlash(rel)

	if b.ManifestPath != "" {
		rel, err := filepath.Rel(root, b.ManifestPath)
		if err != nil {
			return BuildRuntime{}, err
		}
		rt.ManifestRel = filepath.ToSlash(rel)
	}
	return rt, nil
}

func commonDir(a, b string) string {
	a, b = filepath.Clean(a), filepath.Clean(b)
	for {
		if b == a || strings.HasPrefix(b, a+string(filepath.Separator)) {
			return a
		}
		parent := filepath.Dir(a)
		if parent == a {
			return a
		}
		a = parent
	}
}
