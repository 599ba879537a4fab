// internal/builder/blocks.go
package builder

import (
	"context"
	"html/template"
	"net/url"
	"strings"

	"notionsite/internal/doctree"
	"notionsite/internal/util"
)

// MediaResolver maps a remote image reference to a local file. ok is false
// when the image should be left out.
type MediaResolver interface {
	Resolve(ctx context.Context, ref string) (path string, ok bool, err error)
}

// NodeRenderer turns one document node into an HTML fragment.
type NodeRenderer interface {
	Render(ctx context.Context, n doctree.Node) (template.HTML, error)
}

// BlockRenderer renders text and image blocks. Containers and unknown kinds
// produce nothing.
type BlockRenderer struct {
	media     MediaResolver
	markdown  *Markdown
	outputDir string
}

// NewBlockRenderer returns a renderer whose image links are relative to
// outputDir.
func NewBlockRenderer(media MediaResolver, md *Markdown, outputDir string) *BlockRenderer {
	return &BlockRenderer{media: media, markdown: md, outputDir: outputDir}
}

func (r *BlockRenderer) Render(ctx context.Context, n doctree.Node) (template.HTML, error) {
	switch n := n.(type) {
	case doctree.TextBlock:
		return r.markdown.Convert(n.Text)
	case doctree.ImageBlock:
		return r.renderImage(ctx, n)
	case doctree.Page:
		return "", nil
	case doctree.TabularPage:
		return "", nil
	case doctree.Other:
		return "", nil
	default:
		return "", nil
	}
}

func (r *BlockRenderer) renderImage(ctx context.Context, img doctree.ImageBlock) (template.HTML, error) {
	path, ok, err := r.media.Resolve(ctx, img.Source)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	return r.markdown.Convert("![](" + escapeLink(util.WebPath(r.outputDir, path)) + ")")
}

// escapeLink percent-encodes each segment of a slash-separated link so
// cached file names cannot break out of the markdown image syntax.
func escapeLink(link string) string {
	segments := strings.Split(link, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
