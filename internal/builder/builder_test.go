package builder

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"notionsite/internal/config"
	"notionsite/internal/doctree"
	errs "notionsite/internal/errors"
	"notionsite/internal/media"
)

const baseTemplate = `<html><head><title>{{.title}}</title></head><body>
<nav>{{range .pages}}<a href="{{.Slug}}.html">{{.Title}}</a>{{end}}</nav>
<main>{{with .html}}{{.}}{{end}}</main>
</body></html>
`

const teamTemplate = `<html><body><h1>{{.title}}</h1>
<ul>{{range .people}}<li>{{.Name}}</li>{{end}}</ul>
</body></html>
`

type fakeFetcher struct {
	calls int
	err   error
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string, w io.Writer) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	_, err := io.WriteString(w, "PNGDATA")
	return err
}

// newSite lays out src/ with both templates and a nested assets directory
// and returns a config pointing at it.
func newSite(t *testing.T) config.SiteConfig {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Defaults()
	cfg.SrcDir = filepath.Join(dir, "src")
	cfg.BuildDir = filepath.Join(dir, "build")

	writeFile(t, filepath.Join(cfg.SrcDir, "base.html"), baseTemplate)
	writeFile(t, filepath.Join(cfg.SrcDir, "team.html"), teamTemplate)
	writeFile(t, filepath.Join(cfg.AssetsDir(), "style.css"), "body { margin: 0 }")
	writeFile(t, filepath.Join(cfg.AssetsDir(), "img", "logo.svg"), "<svg/>")
	return cfg
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func aboutTeamTree() doctree.StaticTree {
	return doctree.StaticTree{Page: doctree.NewPage("root",
		doctree.NewPage("About", doctree.TextBlock{Text: "Hello **world**"}),
		doctree.NewTable("Team",
			doctree.Record{"Name": "Ada"},
			doctree.Record{"Name": "Grace"},
		),
		doctree.Other{Kind: "divider"},
	)}
}

func TestBuildAboutTeamScenario(t *testing.T) {
	cfg := newSite(t)
	var progress bytes.Buffer
	b := New(cfg, aboutTeamTree(), &fakeFetcher{}, WithProgress(&progress))

	res, err := b.Build(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, []string{"index", "about", "team"}, res.Manifest.Slugs())
	assert.Equal(t, TemplateTeam, res.Manifest[2].Template)
	assert.Equal(t, []string{"index", "about", "team"}, res.Pages.Changed)
	assert.Equal(t, 3, strings.Count(progress.String(), ChangedMessage))
	assert.NotEmpty(t, res.BuildID)

	about := readFile(t, filepath.Join(cfg.BuildDir, "about.html"))
	assert.Contains(t, about, "<strong>world</strong>")
	assert.Contains(t, about, `<a href="team.html">Team</a>`)

	team := readFile(t, filepath.Join(cfg.BuildDir, "team.html"))
	assert.Contains(t, team, "<li>Ada</li><li>Grace</li>")

	index := readFile(t, filepath.Join(cfg.BuildDir, "index.html"))
	assert.Contains(t, index, "<title>Home</title>")

	assert.Equal(t, "body { margin: 0 }", readFile(t, filepath.Join(cfg.OutputAssetsDir(), "style.css")))
	assert.Equal(t, "<svg/>", readFile(t, filepath.Join(cfg.OutputAssetsDir(), "img", "logo.svg")))
	assert.DirExists(t, cfg.MediaDir())
}

func TestBuildIsIdempotent(t *testing.T) {
	cfg := newSite(t)
	var progress bytes.Buffer
	b := New(cfg, aboutTeamTree(), &fakeFetcher{}, WithProgress(&progress))

	_, err := b.Build(context.Background(), false)
	require.NoError(t, err)
	progress.Reset()

	var changed []string
	b.onChange = func(slug string) { changed = append(changed, slug) }
	res, err := b.Build(context.Background(), false)
	require.NoError(t, err)

	assert.Empty(t, res.Pages.Changed)
	assert.Equal(t, []string{"index", "about", "team"}, res.Pages.Unchanged)
	assert.Empty(t, changed)
	assert.NotContains(t, progress.String(), ChangedMessage)
}

func TestBuildReplacesAssetsInFull(t *testing.T) {
	cfg := newSite(t)
	b := New(cfg, aboutTeamTree(), &fakeFetcher{}, WithProgress(io.Discard))

	stale := filepath.Join(cfg.OutputAssetsDir(), "old.js")
	writeFile(t, stale, "var x")

	_, err := b.Build(context.Background(), false)
	require.NoError(t, err)
	assert.NoFileExists(t, stale)
	assert.FileExists(t, filepath.Join(cfg.OutputAssetsDir(), "style.css"))
}

func TestBuildMissingAssetsFailsPass(t *testing.T) {
	cfg := newSite(t)
	require.NoError(t, os.RemoveAll(cfg.AssetsDir()))

	_, err := New(cfg, aboutTeamTree(), &fakeFetcher{}, WithProgress(io.Discard)).Build(context.Background(), false)
	require.Error(t, err)
	assert.True(t, errs.HasCategory(err, errs.CategoryFileSystem))
}

func TestBuildCleanWipesOutput(t *testing.T) {
	cfg := newSite(t)
	stalePage := filepath.Join(cfg.BuildDir, "removed-page.html")
	staleMedia := filepath.Join(cfg.MediaDir(), "abc-old.png")
	writeFile(t, stalePage, "<p>old</p>")
	writeFile(t, staleMedia, "old")

	var progress bytes.Buffer
	_, err := New(cfg, aboutTeamTree(), &fakeFetcher{}, WithProgress(&progress)).Build(context.Background(), true)
	require.NoError(t, err)

	assert.NoFileExists(t, stalePage)
	assert.NoFileExists(t, staleMedia)
	assert.DirExists(t, cfg.MediaDir())
	assert.Equal(t, 3, strings.Count(progress.String(), ChangedMessage))
}

func TestBuildCachesImages(t *testing.T) {
	cfg := newSite(t)
	ref := "https://s3.example.com/files/photo.png?X-Amz-Signature=abc"
	tree := doctree.StaticTree{Page: doctree.NewPage("root",
		doctree.NewPage("Gallery",
			doctree.TextBlock{Text: "Before"},
			doctree.ImageBlock{Source: ref},
			doctree.ImageBlock{Source: "https://s3.example.com/files/photo.png?X-Amz-Signature=other"},
		),
	)}
	fetcher := &fakeFetcher{}
	b := New(cfg, tree, fetcher, WithProgress(io.Discard))

	_, err := b.Build(context.Background(), false)
	require.NoError(t, err)
	_, err = b.Build(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.calls)

	name := media.Key(ref) + "-photo.png"
	assert.FileExists(t, filepath.Join(cfg.MediaDir(), name))

	srcs := imageSources(t, readFile(t, filepath.Join(cfg.BuildDir, "gallery.html")))
	assert.Equal(t, []string{"media/" + name, "media/" + name}, srcs)
}

func TestBuildOmitsUnusableImages(t *testing.T) {
	cfg := newSite(t)
	tree := doctree.StaticTree{Page: doctree.NewPage("root",
		doctree.NewPage("Gallery",
			doctree.TextBlock{Text: "First"},
			doctree.ImageBlock{Source: ""},
			doctree.ImageBlock{Source: "https://example.com/broken.png"},
			doctree.TextBlock{Text: "Last"},
		),
	)}
	fetcher := &fakeFetcher{err: fmt.Errorf("bad argument: %w", media.ErrUnusableReference)}

	_, err := New(cfg, tree, fetcher, WithProgress(io.Discard)).Build(context.Background(), false)
	require.NoError(t, err)

	page := readFile(t, filepath.Join(cfg.BuildDir, "gallery.html"))
	assert.Contains(t, page, "<p>First</p>\n<p>Last</p>")
	assert.Empty(t, imageSources(t, page))
}

func TestBuildNetworkFailureFailsPass(t *testing.T) {
	cfg := newSite(t)
	tree := doctree.StaticTree{Page: doctree.NewPage("root",
		doctree.NewPage("Gallery", doctree.ImageBlock{Source: "https://example.com/a.png"}),
	)}
	fetcher := &fakeFetcher{err: errs.NetworkError(nil, "connection reset").Build()}

	_, err := New(cfg, tree, fetcher, WithProgress(io.Discard)).Build(context.Background(), false)
	require.Error(t, err)
	assert.True(t, errs.HasCategory(err, errs.CategoryNetwork))
	assert.NoFileExists(t, filepath.Join(cfg.BuildDir, "gallery.html"))
}

func TestBuildSlugCollisionLaterWins(t *testing.T) {
	cfg := newSite(t)
	tree := doctree.StaticTree{Page: doctree.NewPage("root",
		doctree.NewPage("Hello World", doctree.TextBlock{Text: "first"}),
		doctree.NewPage("hello world!", doctree.TextBlock{Text: "second"}),
	)}

	res, err := New(cfg, tree, &fakeFetcher{}, WithProgress(io.Discard)).Build(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"index", "hello-world", "hello-world"}, res.Manifest.Slugs())

	page := readFile(t, filepath.Join(cfg.BuildDir, "hello-world.html"))
	assert.Contains(t, page, "second")
	assert.NotContains(t, page, "first")
}

func TestBuildMissingTemplateIsFatalToPass(t *testing.T) {
	cfg := newSite(t)
	require.NoError(t, os.Remove(filepath.Join(cfg.SrcDir, "team.html")))

	res, err := New(cfg, aboutTeamTree(), &fakeFetcher{}, WithProgress(io.Discard)).Build(context.Background(), false)
	require.Error(t, err)
	assert.True(t, errs.HasCategory(err, errs.CategoryTemplate))
	assert.Equal(t, []string{"index", "about"}, res.Pages.Changed)
	assert.NoFileExists(t, filepath.Join(cfg.BuildDir, "team.html"))
}

func imageSources(t *testing.T, page string) []string {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(page))
	require.NoError(t, err)

	var srcs []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "img" {
			for _, a := range n.Attr {
				if a.Key == "src" {
					srcs = append(srcs, a.Val)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return srcs
}
