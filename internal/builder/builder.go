// internal/builder/builder.go
package builder

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"notionsite/internal/config"
	"notionsite/internal/doctree"
	errs "notionsite/internal/errors"
	"notionsite/internal/logfields"
	"notionsite/internal/media"
	"notionsite/internal/metrics"
)

// Result summarizes one build pass.
type Result struct {
	BuildID  string
	Manifest Manifest
	Pages    WriteResult
	Duration time.Duration
}

// Builder runs build passes over a document tree. The tree and fetcher are
// built once at startup and shared by every pass.
type Builder struct {
	cfg      config.SiteConfig
	tree     doctree.Tree
	fetcher  media.Fetcher
	progress io.Writer
	logger   *slog.Logger
	metrics  metrics.Recorder
	onChange func(slug string)
}

// Option configures a Builder.
type Option func(*Builder)

// WithProgress sets where the CHANGED! lines go. Defaults to stdout.
func WithProgress(w io.Writer) Option {
	return func(b *Builder) { b.progress = w }
}

func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

func WithMetrics(r metrics.Recorder) Option {
	return func(b *Builder) { b.metrics = metrics.OrNoop(r) }
}

// WithOnChange registers a hook called for every rewritten page.
func WithOnChange(fn func(slug string)) Option {
	return func(b *Builder) { b.onChange = fn }
}

// New returns a builder for cfg reading from tree and downloading media
// through fetcher.
func New(cfg config.SiteConfig, tree doctree.Tree, fetcher media.Fetcher, opts ...Option) *Builder {
	b := &Builder{
		cfg:      cfg,
		tree:     tree,
		fetcher:  fetcher,
		progress: os.Stdout,
		logger:   slog.Default(),
		metrics:  metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build runs one pass: optionally wipe earlier output, make sure the media
// directory exists, build the manifest, render and write changed pages, then
// mirror the assets directory.
func (b *Builder) Build(ctx context.Context, clean bool) (Result, error) {
	start := time.Now()
	res := Result{BuildID: uuid.NewString()}
	logger := b.logger.With(logfields.BuildID(res.BuildID))

	err := b.build(ctx, clean, logger, &res)
	res.Duration = time.Since(start)
	b.metrics.ObserveBuildDuration(res.Duration)
	if err != nil {
		b.metrics.IncBuildOutcome(metrics.OutcomeFailed)
		return res, err
	}
	b.metrics.IncBuildOutcome(metrics.OutcomeSuccess)
	logger.Debug("Build pass finished",
		logfields.Count(len(res.Pages.Changed)),
		logfields.DurationMS(float64(res.Duration.Microseconds())/1000))
	return res, nil
}

func (b *Builder) build(ctx context.Context, clean bool, logger *slog.Logger, res *Result) error {
	if clean {
		b.wipe()
	}
	if err := os.MkdirAll(b.cfg.MediaDir(), 0755); err != nil {
		return errs.FileSystemError(err, "failed to create media directory").WithContext("path", b.cfg.MediaDir()).Build()
	}

	root, err := b.tree.Root(ctx)
	if err != nil {
		return errs.SourceError(err, "failed to load document tree").Build()
	}

	cache := media.NewCache(b.cfg.MediaDir(), b.fetcher,
		media.WithMetrics(b.metrics),
		media.WithLogger(logger))
	renderer := NewBlockRenderer(cache, NewMarkdown(b.cfg.Unsafe), b.cfg.BuildDir)

	manifest, err := BuildManifest(ctx, root, renderer, b.cfg.LandingTitle)
	if err != nil {
		return err
	}
	res.Manifest = manifest
	logger.Debug("Manifest built", logfields.Count(len(manifest)))

	w := &Writer{
		Templates: NewTemplates(b.cfg.SrcDir),
		OutputDir: b.cfg.BuildDir,
		Progress:  b.progress,
		Logger:    logger,
		Metrics:   b.metrics,
		OnChange:  b.onChange,
	}
	res.Pages, err = w.RenderAndWrite(manifest)
	if err != nil {
		return err
	}

	return mirrorAssets(b.cfg.AssetsDir(), b.cfg.OutputAssetsDir())
}

// wipe removes cached media and top-level pages, ignoring failures.
func (b *Builder) wipe() {
	_ = os.RemoveAll(b.cfg.MediaDir())
	pages, _ := filepath.Glob(filepath.Join(b.cfg.BuildDir, "*.html"))
	for _, p := range pages {
		_ = os.Remove(p)
	}
}
