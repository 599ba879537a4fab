// internal/builder/goldmark_extensions.go
package builder

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// lazyImageTransformer marks every image for lazy loading. Pages are built
// from long documents where most cached images sit below the fold.
type lazyImageTransformer struct{}

func newLazyImageTransformer() parser.ASTTransformer {
	return &lazyImageTransformer{}
}

func (t *lazyImageTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		img, ok := n.(*ast.Image)
		if !ok {
			return ast.WalkContinue, nil
		}
		if _, set := img.AttributeString("loading"); !set {
			img.SetAttributeString("loading", []byte("lazy"))
		}
		return ast.WalkContinue, nil
	})
}
