// internal/notion/richtext.go
package notion

import (
	"strings"
	"unicode"

	"github.com/jomei/notionapi"
)

// Markdown renders rich text spans as markdown, keeping bold, italic,
// strikethrough, inline code and links.
func Markdown(spans []notionapi.RichText) string {
	var b strings.Builder
	for _, rt := range spans {
		text := rt.PlainText
		if a := rt.Annotations; a != nil {
			if a.Code {
				text = wrap(text, "`")
			}
			if a.Bold {
				text = wrap(text, "**")
			}
			if a.Italic {
				text = wrap(text, "_")
			}
			if a.Strikethrough {
				text = wrap(text, "~~")
			}
		}
		if rt.Href != "" && strings.TrimSpace(text) != "" {
			text = "[" + text + "](" + rt.Href + ")"
		}
		b.WriteString(text)
	}
	return b.String()
}

// PlainText concatenates the spans without formatting.
func PlainText(spans []notionapi.RichText) string {
	var b strings.Builder
	for _, rt := range spans {
		b.WriteString(rt.PlainText)
	}
	return b.String()
}

// wrap puts marker around text, leaving surrounding whitespace outside the
// markers; "** bold **" is not emphasis in markdown.
func wrap(text, marker string) string {
	core := strings.TrimFunc(text, unicode.IsSpace)
	if core == "" {
		return text
	}
	start := strings.Index(text, core)
	return text[:start] + marker + core + marker + text[start+len(core):]
}
