// internal/builder/extract.go
package builder

import (
	"context"
	"html/template"
	"strings"

	"notionsite/internal/doctree"
	errs "notionsite/internal/errors"
)

// ExtractPageHTML renders the page's children in document order and joins
// the fragments.
func ExtractPageHTML(ctx context.Context, r NodeRenderer, page doctree.Page) (template.HTML, error) {
	children, err := page.Children(ctx)
	if err != nil {
		return "", errs.SourceError(err, "failed to load page children").WithContext("title", page.Title).Build()
	}
	var b strings.Builder
	for _, child := range children {
		frag, err := r.Render(ctx, child)
		if err != nil {
			return "", err
		}
		b.WriteString(string(frag))
	}
	return template.HTML(b.String()), nil
}

// ExtractRows runs the default query of the table's first view and returns
// the rows as they come. A table without views has no rows.
func ExtractRows(ctx context.Context, table doctree.TabularPage) ([]doctree.Record, error) {
	if len(table.Views) == 0 {
		return nil, nil
	}
	rows, err := table.Views[0].Query(ctx)
	if err != nil {
		return nil, errs.SourceError(err, "failed to query table view").WithContext("title", table.Title).Build()
	}
	return rows, nil
}
