// internal/builder/render.go
package builder

import (
	"bytes"
	"html/template"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	errs "notionsite/internal/errors"
)

// Markdown converts markdown-flavoured block text to HTML.
type Markdown struct {
	md        goldmark.Markdown
	sanitizer *bluemonday.Policy // nil when output is trusted
}

// NewMarkdown returns a converter. Unless unsafe is set, the HTML is run
// through a user-generated-content policy before it reaches a template.
func NewMarkdown(unsafe bool) *Markdown {
	m := &Markdown{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Footnote),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
				parser.WithASTTransformers(
					util.Prioritized(newLazyImageTransformer(), 100),
				),
			),
			goldmark.WithRendererOptions(
				html.WithUnsafe(),
			),
		),
	}
	if !unsafe {
		policy := bluemonday.UGCPolicy()
		policy.AllowAttrs("loading").Matching(regexp.MustCompile(`^(lazy|eager)$`)).OnElements("img")
		m.sanitizer = policy
	}
	return m
}

// Convert renders text. Empty text yields an empty fragment.
func (m *Markdown) Convert(text string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(text), &buf); err != nil {
		return "", errs.RenderError(err, "failed to render markdown").Build()
	}
	if m.sanitizer != nil {
		return template.HTML(m.sanitizer.SanitizeBytes(buf.Bytes())), nil
	}
	return template.HTML(buf.String()), nil
}
