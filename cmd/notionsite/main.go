// cmd/notionsite/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"notionsite/internal/builder"
	"notionsite/internal/config"
	"notionsite/internal/doctree"
	errs "notionsite/internal/errors"
	"notionsite/internal/logfields"
	"notionsite/internal/media"
	"notionsite/internal/metrics"
	"notionsite/internal/notion"
	"notionsite/internal/scaffold"
	"notionsite/internal/scheduler"
	"notionsite/internal/server"
	"notionsite/internal/version"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"site.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`
	EnvFile string `help:"Dotenv file read before looking up NOTION_TOKEN" default:".env"`

	Build struct {
		Production bool `help:"Build once and exit instead of rebuilding every interval"`
		Clean      bool `help:"Remove cached media and rendered pages before the first pass"`
	} `cmd:"" default:"withargs" help:"Build the site, repeating until interrupted unless --production is set"`

	Init struct {
		Force bool `help:"Overwrite existing files"`
	} `cmd:"" help:"Scaffold site.yaml, templates and assets in the current directory"`

	Version struct{} `cmd:"" help:"Print version information"`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("notionsite"),
		kong.Description("Render a Notion page tree into static HTML."),
	)

	level := slog.LevelInfo
	if CLI.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	var err error
	switch kctx.Command() {
	case "build":
		err = runBuild(logger)
	case "init":
		err = scaffold.CreateNewSite(".", CLI.Init.Force, os.Stdout)
	case "version":
		fmt.Println(version.String())
	}
	if err != nil {
		logger.Error("Command failed",
			slog.String("command", kctx.Command()),
			slog.String("category", string(errs.GetCategory(err))),
			logfields.Error(err))
		os.Exit(1)
	}
}

func runBuild(logger *slog.Logger) error {
	cfg, err := config.LoadSiteConfig(CLI.Config)
	if err != nil {
		return err
	}

	tree, fetcher, err := openSource(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rec := metrics.NewPrometheusRecorder(nil)
	b := builder.New(cfg, tree, fetcher,
		builder.WithLogger(logger),
		builder.WithMetrics(rec))
	sched := scheduler.New(b, cfg.Interval.Std(), scheduler.WithLogger(logger))

	if CLI.Build.Production {
		return sched.RunOnce(ctx, CLI.Build.Clean)
	}

	if cfg.Preview.Port > 0 {
		if err := os.MkdirAll(cfg.BuildDir, 0755); err != nil {
			return errs.FileSystemError(err, "failed to create build directory").Build()
		}
		srv := server.New(cfg.BuildDir,
			server.WithLogger(logger),
			server.WithMetricsHandler(rec.Handler()))
		go func() {
			if err := srv.ListenAndServe(ctx, cfg.Preview.Port); err != nil {
				logger.Error("Preview server stopped", logfields.Error(err))
			}
		}()
	}

	return sched.RunForever(ctx, CLI.Build.Clean)
}

// openSource builds the document tree and media fetcher once for the whole
// process. The Notion source requires the token before any pass runs.
func openSource(cfg config.SiteConfig, logger *slog.Logger) (doctree.Tree, media.Fetcher, error) {
	switch cfg.Source {
	case config.SourceFile:
		logger.Debug("Using file source", logfields.Path(cfg.SourceFile))
		client := &http.Client{Timeout: cfg.FetchTimeout.Std()}
		return doctree.FileTree{Path: cfg.SourceFile}, media.HTTPFetcher{Client: client}, nil
	default:
		token, err := config.LoadToken(CLI.EnvFile)
		if err != nil {
			return nil, nil, err
		}
		session := notion.NewSession(token, cfg.FetchTimeout.Std())
		tree, err := notion.NewTree(session, cfg.RootURL, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("Using notion source", logfields.URL(cfg.RootURL))
		return tree, session.Fetcher(), nil
	}
}
