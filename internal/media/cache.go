// internal/media/cache.go

// Package media resolves remote image references to files in a local,
// content-addressed cache directory. A cached file is trusted forever: it is
// never re-fetched, checksummed or invalidated.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	errs "notionsite/internal/errors"
	"notionsite/internal/logfields"
	"notionsite/internal/metrics"
)

// ErrUnusableReference marks a reference that cannot be fetched at all. The
// cache turns it into an empty result instead of failing the build.
var ErrUnusableReference = errors.New("unusable media reference")

// Fetcher downloads the resource behind ref into w.
type Fetcher interface {
	Fetch(ctx context.Context, ref string, w io.Writer) error
}

// Cache maps references to files under a single directory.
type Cache struct {
	dir     string
	fetcher Fetcher
	metrics metrics.Recorder
	logger  *slog.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithMetrics records lookup results on r.
func WithMetrics(r metrics.Recorder) Option {
	return func(c *Cache) { c.metrics = metrics.OrNoop(r) }
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

// NewCache returns a cache storing files in dir and downloading through f.
func NewCache(dir string, f Fetcher, opts ...Option) *Cache {
	c := &Cache{
		dir:     dir,
		fetcher: f,
		metrics: metrics.NoopRecorder{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// PathFor returns the local path ref is cached under, without touching the
// filesystem. ok is false when ref is unusable.
func (c *Cache) PathFor(ref string) (string, bool) {
	if !usable(ref) {
		return "", false
	}
	return filepath.Join(c.dir, Key(ref)+"-"+Basename(ref)), true
}

// Resolve returns the local path for ref, downloading it first when no file
// exists there yet. ok is false, with a nil error, when the reference is
// unusable and the image should be left out.
func (c *Cache) Resolve(ctx context.Context, ref string) (path string, ok bool, err error) {
	path, ok = c.PathFor(ref)
	if !ok {
		c.skip(ref, nil)
		return "", false, nil
	}

	if _, err := os.Stat(path); err == nil {
		c.metrics.IncMediaResult(metrics.MediaHit)
		return path, true, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", false, errs.FileSystemError(err, "stat cached media").WithContext("path", path).Build()
	}

	if err := c.fetch(ctx, ref, path); err != nil {
		if errors.Is(err, ErrUnusableReference) {
			c.skip(ref, err)
			return "", false, nil
		}
		return "", false, err
	}
	c.metrics.IncMediaResult(metrics.MediaFetched)
	c.logger.Debug("Fetched media", logfields.URL(ref), logfields.Path(path))
	return path, true, nil
}

// fetch downloads into a temp file beside dest and renames it into place, so
// an interrupted download never becomes a cache entry.
func (c *Cache) fetch(ctx context.Context, ref, dest string) error {
	tmp, err := os.CreateTemp(c.dir, ".fetch-*")
	if err != nil {
		return errs.FileSystemError(err, "create media temp file").WithContext("dir", c.dir).Build()
	}
	tmpName := tmp.Name()

	fetchErr := c.fetcher.Fetch(ctx, ref, tmp)
	closeErr := tmp.Close()
	if fetchErr == nil && closeErr != nil {
		fetchErr = errs.FileSystemError(closeErr, "write media temp file").Build()
	}
	if fetchErr != nil {
		_ = os.Remove(tmpName)
		return fetchErr
	}
	if err := os.Rename(tmpName, dest); err != nil {
		_ = os.Remove(tmpName)
		return errs.FileSystemError(err, "move fetched media into cache").WithContext("path", dest).Build()
	}
	return nil
}

func (c *Cache) skip(ref string, cause error) {
	c.metrics.IncMediaResult(metrics.MediaSkipped)
	c.logger.Debug("Skipping unusable media reference", logfields.URL(ref), logfields.Error(cause))
}

func usable(ref string) bool {
	if ref == "" || Canonicalize(ref) == "" || Basename(ref) == "" {
		return false
	}
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// unusable wraps cause so that errors.Is(err, ErrUnusableReference) holds.
func unusable(ref string, cause error) error {
	return fmt.Errorf("%w %q: %v", ErrUnusableReference, ref, cause)
}
