package doctree

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const treeYAML = `title: Home
children:
  - kind: page
    title: About
    children:
      - kind: text
        text: "Hello **there**"
      - kind: image
        source: https://example.com/a.png
      - kind: divider
  - kind: table
    title: Team
    rows:
      - Name: Ada
        Role: Engineer
      - Name: Grace
  - kind: callout
`

func writeTree(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tree.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileTreeRoot(t *testing.T) {
	ctx := context.Background()
	root, err := FileTree{Path: writeTree(t, treeYAML)}.Root(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Home", root.Title)

	children, err := root.Children(ctx)
	require.NoError(t, err)
	require.Len(t, children, 3)

	about, ok := children[0].(Page)
	require.True(t, ok, "first child should be a page, got %T", children[0])
	assert.Equal(t, "About", about.Title)

	blocks, err := about.Children(ctx)
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	assert.Equal(t, TextBlock{Text: "Hello **there**"}, blocks[0])
	assert.Equal(t, ImageBlock{Source: "https://example.com/a.png"}, blocks[1])
	assert.Equal(t, Other{Kind: "divider"}, blocks[2])

	team, ok := children[1].(TabularPage)
	require.True(t, ok, "second child should be a table, got %T", children[1])
	assert.Equal(t, "Team", team.Title)
	require.Len(t, team.Views, 1)
	rows, err := team.Views[0].Query(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Ada", rows[0]["Name"])
	assert.Equal(t, "Engineer", rows[0]["Role"])
	assert.Equal(t, "Grace", rows[1]["Name"])

	assert.Equal(t, Other{Kind: "callout"}, children[2])
}

func TestFileTreeMissingFile(t *testing.T) {
	_, err := FileTree{Path: filepath.Join(t.TempDir(), "missing.yaml")}.Root(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileTreeMalformed(t *testing.T) {
	_, err := FileTree{Path: writeTree(t, "children: [: nope")}.Root(context.Background())
	require.Error(t, err)
}

func TestPageWithoutLoaderHasNoChildren(t *testing.T) {
	children, err := Page{Title: "Empty"}.Children(context.Background())
	require.NoError(t, err)
	assert.Empty(t, children)
}

func TestStaticTree(t *testing.T) {
	tree := StaticTree{Page: NewPage("root", NewPage("About"))}
	root, err := tree.Root(context.Background())
	require.NoError(t, err)
	children, err := root.Children(context.Background())
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "About", children[0].(Page).Title)
}
