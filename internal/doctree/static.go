// internal/doctree/static.go
package doctree

import "context"

// NewPage returns a page whose children are fixed in memory.
func NewPage(title string, children ...Node) Page {
	return Page{
		Title: title,
		Load: func(context.Context) ([]Node, error) {
			return children, nil
		},
	}
}

// NewTable returns a tabular page with a single in-memory view.
func NewTable(title string, rows ...Record) TabularPage {
	return TabularPage{Title: title, Views: []View{StaticView(rows)}}
}

// StaticView is a view whose query returns a fixed row set.
type StaticView []Record

// Query returns the rows unchanged.
func (v StaticView) Query(context.Context) ([]Record, error) {
	return v, nil
}

// StaticTree serves a fixed root page.
type StaticTree struct {
	Page Page
}

// Root returns the fixed root page.
func (t StaticTree) Root(context.Context) (Page, error) {
	return t.Page, nil
}
