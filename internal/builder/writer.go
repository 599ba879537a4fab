// internal/builder/writer.go
package builder

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"strings"

	errs "notionsite/internal/errors"
	"notionsite/internal/logfields"
	"notionsite/internal/metrics"
)

// ChangedMessage is printed to the progress stream for every rewritten page.
const ChangedMessage = "CHANGED!"

// WriteResult lists the slugs a pass rewrote and the ones it left alone, in
// manifest order.
type WriteResult struct {
	Changed   []string
	Unchanged []string
}

// Writer renders descriptors and writes only the pages whose output changed.
type Writer struct {
	Templates *Templates
	OutputDir string
	Progress  io.Writer
	Logger    *slog.Logger
	Metrics   metrics.Recorder
	// OnChange, when set, is called after a page file has been rewritten.
	OnChange func(slug string)
}

// RenderAndWrite renders every descriptor with the whole manifest in scope.
// A page is written only if its trimmed output differs from the trimmed
// content already on disk; a missing file counts as empty. Template errors
// abort the pass, leaving pages written so far in place.
func (w *Writer) RenderAndWrite(manifest Manifest) (WriteResult, error) {
	var res WriteResult
	logger := w.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rec := metrics.OrNoop(w.Metrics)

	for _, d := range manifest {
		html, err := w.render(d, manifest)
		if err != nil {
			return res, err
		}

		path := filepath.Join(w.OutputDir, d.FileName())
		old, err := readPrior(path)
		if err != nil {
			return res, err
		}

		if strings.TrimSpace(html) == strings.TrimSpace(old) {
			res.Unchanged = append(res.Unchanged, d.Slug)
			rec.IncPageWrite(false)
			continue
		}

		if err := os.WriteFile(path, []byte(html), 0644); err != nil {
			return res, errs.FileSystemError(err, "failed to write page").WithContext("path", path).Build()
		}
		if w.Progress != nil {
			fmt.Fprintln(w.Progress, ChangedMessage)
		}
		logger.Info("Page changed", logfields.Slug(d.Slug), logfields.Template(d.Template), logfields.Path(path))
		res.Changed = append(res.Changed, d.Slug)
		rec.IncPageWrite(true)
		if w.OnChange != nil {
			w.OnChange(d.Slug)
		}
	}
	return res, nil
}

func (w *Writer) render(d Descriptor, manifest Manifest) (string, error) {
	tmpl, err := w.Templates.Lookup(d.Template)
	if err != nil {
		return "", err
	}

	ctx := map[string]any{
		KeyTitle: d.Title,
		KeyPages: manifest,
	}
	maps.Copy(ctx, d.Context)

	var b strings.Builder
	if err := tmpl.Execute(&b, ctx); err != nil {
		return "", errs.TemplateError(err, "failed to render page").
			WithContext("template", d.Template).
			WithContext("slug", d.Slug).
			Build()
	}
	return b.String(), nil
}

// readPrior returns the previous output at path, or "" when there is none.
func readPrior(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", errs.FileSystemError(err, "failed to read previous page").WithContext("path", path).Build()
	}
	return string(data), nil
}
