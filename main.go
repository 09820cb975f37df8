package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"

	"github.com/gzasset/gzasset/internal/config"
	"github.com/gzasset/gzasset/internal/logging"
	"github.com/gzasset/gzasset/internal/server"
	"github.com/gzasset/gzasset/internal/server/routes"
	"github.com/gzasset/gzasset/internal/version"
	"github.com/gzasset/gzasset/internal/watch"
	"github.com/gzasset/gzasset/pkg/asset"
)

// cliOptions 汇总 CLI 标志解析后的结果，便于在测试中注入。
type cliOptions struct {
	configPath  string
	checkOnly   bool
	showVersion bool
	watch       bool
	serve       bool
}

var (
	stdOut io.Writer = os.Stdout
	stdErr io.Writer = os.Stderr
)

func main() {
	opts, err := parseCLIFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(stdErr, err.Error())
		os.Exit(2)
	}
	os.Exit(run(opts))
}

// run 根据解析到的 CLI 选项执行业务流程，并返回退出码，方便测试。
func run(opts cliOptions) int {
	if opts.showVersion {
		printVersion()
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stdErr, "加载配置失败: %v\n", err)
		return 1
	}

	logger, err := logging.InitLogger(cfg.Global)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化日志失败: %v\n", err)
		return 1
	}

	if opts.checkOnly {
		fields := logging.BaseFields("check_config", opts.configPath)
		fields["source_dir"] = cfg.Build.SourceDir
		fields["output"] = cfg.Build.OutputPath
		fields["result"] = "ok"
		logger.WithFields(fields).Info("配置校验通过")
		return 0
	}

	// 构建遵循“配置 → 编译 → 生成代码 → 原子写出”顺序，任何一步失败都不会留下残缺产物。
	b, err := newBuilder(cfg, logger)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化构建失败: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fields := logging.BaseFields("build", opts.configPath)
	fields["version"] = version.Full()
	fields["watch"] = opts.watch
	fields["serve"] = opts.serve
	logger.WithFields(fields).Info("配置加载完成")

	table, err := b.build(ctx)
	if err != nil {
		fmt.Fprintf(stdErr, "构建失败: %v\n", err)
		return 1
	}

	if !opts.watch && !opts.serve {
		return 0
	}

	if err := runServices(ctx, cfg, b, table, opts, logger); err != nil {
		fmt.Fprintf(stdErr, "服务异常退出: %v\n", err)
		return 1
	}
	return 0
}

// runServices 并行运行预览服务与 watch，任一失败即取消另一方。
func runServices(ctx context.Context, cfg *config.Config, b *builder, table *asset.Table, opts cliOptions, logger *logrus.Logger) error {
	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()

	var lib *server.Library
	if opts.serve {
		var err error
		lib, err = server.NewLibrary(cfg.Build.StaticPrefix, table)
		if err != nil {
			return err
		}
		app, err := server.NewApp(server.AppOptions{
			Logger:     logger,
			Library:    lib,
			ListenPort: cfg.Global.ListenPort,
		})
		if err != nil {
			return err
		}
		routes.RegisterAssetRoutes(app, lib)
		p.Go(func(ctx context.Context) error {
			return server.Listen(ctx, app, cfg.Global.ListenPort, logger)
		})
	}

	if opts.watch {
		w, err := watch.New(cfg.Build.SourceDir, cfg.Debounce(), func(ctx context.Context) error {
			next, err := b.build(ctx)
			if err != nil {
				return err
			}
			if lib != nil {
				lib.Swap(next)
			}
			return nil
		}, logger)
		if err != nil {
			return err
		}
		p.Go(w.Run)
	}

	return p.Wait()
}

// parseCLIFlags 解析 CLI 参数，并结合环境变量计算最终的配置路径。
func parseCLIFlags(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("gzasset", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var opts cliOptions
	var configFlag string

	fs.StringVar(&configFlag, "config", "", "配置文件路径（默认 ./gzasset.toml，可被 GZASSET_CONFIG 覆盖）")
	fs.BoolVar(&opts.checkOnly, "check-config", false, "仅校验配置后退出")
	fs.BoolVar(&opts.showVersion, "version", false, "显示版本信息")
	fs.BoolVar(&opts.watch, "watch", false, "构建后持续监听资源目录并自动重建")
	fs.BoolVar(&opts.serve, "serve", false, "构建后在 ListenPort 上启动预览服务")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, fmt.Errorf("解析参数失败: %w", err)
	}

	path := os.Getenv("GZASSET_CONFIG")
	if configFlag != "" {
		path = configFlag
	}
	if path == "" {
		path = config.DefaultPath
	}
	opts.configPath = path

	return opts, nil
}
