// internal/doctree/filetree.go
package doctree

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileNode is the YAML shape of one node in a tree file:
//
//	title: Home
//	children:
//	  - kind: page
//	    title: About
//	    children:
//	      - kind: text
//	        text: "Hello **there**"
//	      - kind: image
//	        source: https://example.com/a.png
//	  - kind: table
//	    title: Team
//	    rows:
//	      - Name: Ada
type fileNode struct {
	Kind     string     `yaml:"kind"`
	Title    string     `yaml:"title"`
	Text     string     `yaml:"text"`
	Source   string     `yaml:"source"`
	Rows     []Record   `yaml:"rows"`
	Children []fileNode `yaml:"children"`
}

// FileTree reads a document tree from a YAML file. The file is re-read on
// every call to Root, so edits show up on the next build pass.
type FileTree struct {
	Path string
}

// Root parses the tree file and returns its root page.
func (t FileTree) Root(context.Context) (Page, error) {
	data, err := os.ReadFile(t.Path)
	if err != nil {
		return Page{}, fmt.Errorf("could not read tree file at %s: %w", t.Path, err)
	}
	var root fileNode
	if err := yaml.Unmarshal(data, &root); err != nil {
		return Page{}, fmt.Errorf("could not parse tree file %s: %w", t.Path, err)
	}
	return NewPage(root.Title, convertAll(root.Children)...), nil
}

func convertAll(in []fileNode) []Node {
	out := make([]Node, 0, len(in))
	for _, n := range in {
		out = append(out, n.convert())
	}
	return out
}

func (n fileNode) convert() Node {
	switch n.Kind {
	case "text":
		return TextBlock{Text: n.Text}
	case "image":
		return ImageBlock{Source: n.Source}
	case "page":
		return NewPage(n.Title, convertAll(n.Children)...)
	case "table":
		return NewTable(n.Title, n.Rows...)
	default:
		return Other{Kind: n.Kind}
	}
}
