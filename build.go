package main

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gzasset/gzasset/internal/artifact"
	"github.com/gzasset/gzasset/internal/codegen"
	"github.com/gzasset/gzasset/internal/compiler"
	"github.com/gzasset/gzasset/internal/config"
	"github.com/gzasset/gzasset/internal/source"
	"github.com/gzasset/gzasset/pkg/asset"
)

// builder 串起一次完整构建，watch 模式下重复调用 build。
type builder struct {
	cfg      *config.Config
	runtime  config.BuildRuntime
	compiler *compiler.Compiler
	writer   artifact.Writer
	logger   *logrus.Logger
}

func newBuilder(cfg *config.Config, logger *logrus.Logger) (*builder, error) {
	rt, err := config.NewBuildRuntime(cfg.Build)
	if err != nil {
		return nil, err
	}

	store, err := artifact.NewStore(rt.ArtifactRoot)
	if err != nil {
		return nil, err
	}

	opts := []compiler.Option{
		compiler.WithLogger(logger),
		compiler.WithWorkers(cfg.Build.Workers),
		compiler.WithMimeTypes(cfg.Build.MimeTypes),
	}
	if !cfg.Build.BuildEpoch.IsZero() {
		opts = append(opts, compiler.WithEpoch(cfg.Build.BuildEpoch.Time()))
	}

	return &builder{
		cfg:      cfg,
		runtime:  rt,
		compiler: compiler.New(source.New(nil), opts...),
		writer:   artifact.NewWriter(store),
		logger:   logger,
	}, nil
}

// build 编译资源目录并写出生成代码与清单，返回新表供预览服务替换。
func (b *builder) build(ctx context.Context) (*asset.Table, error) {
	started := time.Now()
	bc := b.cfg.Build

	table, err := b.compiler.CompileDir(ctx, bc.SourceDir, bc.Primary)
	if err != nil {
		return nil, err
	}

	src, err := codegen.Render(table, codegen.Options{Package: bc.Package, Prefix: bc.StaticPrefix})
	if err != nil {
		return nil, err
	}
	artifacts := []artifact.Artifact{{Path: b.runtime.OutputRel, Data: src}}

	if b.runtime.ManifestRel != "" {
		manifest, err := codegen.Manifest(table)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, artifact.Artifact{Path: b.runtime.ManifestRel, Data: manifest})
	}

	results, err := b.writer.Write(ctx, artifacts...)
	if err != nil {
		return nil, fmt.Errorf("write artifacts: %w", err)
	}
	for _, res := range results {
		msg := "artifact_written"
		if res.Unchanged {
			msg = "artifact_unchanged"
		}
		b.logger.WithFields(logrus.Fields{
			"action": "write",
			"path":   res.Entry.FilePath,
			"bytes":  res.Entry.SizeBytes,
		}).Info(msg)
	}

	b.logger.WithFields(logrus.Fields{
		"action":      "build",
		"assets":      table.Len(),
		"total_bytes": table.TotalBytes(),
		"epoch":       table.Epoch().String(),
		"elapsed_ms":  time.Since(started).Milliseconds(),
	}).Info("build_completed")
	return table, nil
}
