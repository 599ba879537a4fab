// internal/doctree/node.go

// Package doctree models the read-only tree of typed document nodes that a
// site is built from. Node is a closed sum type: every consumer switches over
// TextBlock, ImageBlock, Page, TabularPage and Other, and nothing outside this
// package can add a variant.
package doctree

import "context"

// Node is one item in the document tree.
type Node interface {
	node()
}

// TextBlock carries markdown-flavoured text.
type TextBlock struct {
	Text string
}

// ImageBlock references a remote image. Source may carry a signing prefix or
// query string; see media.Canonicalize.
type ImageBlock struct {
	Source string
}

// ChildLoader fetches the children of a container lazily, in document order.
type ChildLoader func(ctx context.Context) ([]Node, error)

// Page is a free-form content container.
type Page struct {
	ID    string
	Title string
	Load  ChildLoader
}

// Children returns the page's children in document order. A page without a
// loader has no children.
func (p Page) Children(ctx context.Context) ([]Node, error) {
	if p.Load == nil {
		return nil, nil
	}
	return p.Load(ctx)
}

// Record is one row returned by a view query. Its shape is interpreted by the
// template that renders it.
type Record = map[string]any

// View is a queryable view over a tabular page.
type View interface {
	Query(ctx context.Context) ([]Record, error)
}

// TabularPage is a collection of rows exposed through one or more views.
type TabularPage struct {
	ID    string
	Title string
	Views []View
}

// Other is any node kind the builder does not render. Kind names the source
// type for diagnostics.
type Other struct {
	Kind string
}

func (TextBlock) node()   {}
func (ImageBlock) node()  {}
func (Page) node()        {}
func (TabularPage) node() {}
func (Other) node()       {}

// Tree supplies the root page of a document tree.
type Tree interface {
	Root(ctx context.Context) (Page, error)
}
