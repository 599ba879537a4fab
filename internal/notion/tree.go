// internal/notion/tree.go
package notion

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/jomei/notionapi"

	"notionsite/internal/doctree"
	errs "notionsite/internal/errors"
	"notionsite/internal/logfields"
)

const pageSize = 100

var hexID = regexp.MustCompile(`[0-9a-fA-F]{32}$`)

// PageIDFromURL extracts the page ID from a Notion page URL such as
// https://www.notion.so/workspace/Title-b82d70274cb74aa8b49bc6088e6a501f. A
// bare 32-character or dashed ID is accepted too.
func PageIDFromURL(raw string) (string, error) {
	s := raw
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		s = path.Base(u.Path)
	}
	s = strings.ReplaceAll(s, "-", "")
	id := hexID.FindString(s)
	if id == "" {
		return "", errs.ConfigError("no page id in notion url").WithContext("url", raw).Build()
	}
	id = strings.ToLower(id)
	return fmt.Sprintf("%s-%s-%s-%s-%s", id[0:8], id[8:12], id[12:16], id[16:20], id[20:32]), nil
}

// Tree walks a Notion page hierarchy through the API. Every call to Root
// starts a fresh walk; nothing is cached between passes.
type Tree struct {
	session *Session
	rootID  notionapi.BlockID
	logger  *slog.Logger
}

// NewTree returns a tree rooted at the page rootURL points to.
func NewTree(s *Session, rootURL string, logger *slog.Logger) (*Tree, error) {
	id, err := PageIDFromURL(rootURL)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Tree{session: s, rootID: notionapi.BlockID(id), logger: logger}, nil
}

// Root returns the root page. Its children are fetched when first asked for.
func (t *Tree) Root(context.Context) (doctree.Page, error) {
	return doctree.Page{ID: string(t.rootID), Load: t.loader(t.rootID)}, nil
}

func (t *Tree) loader(id notionapi.BlockID) doctree.ChildLoader {
	return func(ctx context.Context) ([]doctree.Node, error) {
		blocks, err := t.children(ctx, id)
		if err != nil {
			return nil, err
		}
		nodes := make([]doctree.Node, 0, len(blocks))
		for _, b := range blocks {
			nodes = append(nodes, t.convert(b))
		}
		return nodes, nil
	}
}

func (t *Tree) children(ctx context.Context, id notionapi.BlockID) ([]notionapi.Block, error) {
	var out []notionapi.Block
	var cursor notionapi.Cursor
	for {
		resp, err := t.session.Client.Block.GetChildren(ctx, id, &notionapi.Pagination{
			StartCursor: cursor,
			PageSize:    pageSize,
		})
		if err != nil {
			return nil, errs.SourceError(err, "list block children").WithContext("block", string(id)).Build()
		}
		out = append(out, resp.Results...)
		if !resp.HasMore || resp.NextCursor == "" {
			return out, nil
		}
		cursor = notionapi.Cursor(resp.NextCursor)
	}
}

// convert maps one API block onto the document tree's node variants. Block
// kinds the site does not render become doctree.Other.
func (t *Tree) convert(block notionapi.Block) doctree.Node {
	switch b := block.(type) {
	case *notionapi.ParagraphBlock:
		return doctree.TextBlock{Text: Markdown(b.Paragraph.RichText)}
	case *notionapi.Heading1Block:
		return doctree.TextBlock{Text: "# " + Markdown(b.Heading1.RichText)}
	case *notionapi.Heading2Block:
		return doctree.TextBlock{Text: "## " + Markdown(b.Heading2.RichText)}
	case *notionapi.Heading3Block:
		return doctree.TextBlock{Text: "### " + Markdown(b.Heading3.RichText)}
	case *notionapi.BulletedListItemBlock:
		return doctree.TextBlock{Text: "- " + Markdown(b.BulletedListItem.RichText)}
	case *notionapi.NumberedListItemBlock:
		return doctree.TextBlock{Text: "1. " + Markdown(b.NumberedListItem.RichText)}
	case *notionapi.QuoteBlock:
		return doctree.TextBlock{Text: "> " + Markdown(b.Quote.RichText)}
	case *notionapi.CalloutBlock:
		return doctree.TextBlock{Text: "> " + Markdown(b.Callout.RichText)}
	case *notionapi.ToDoBlock:
		box := "- [ ] "
		if b.ToDo.Checked {
			box = "- [x] "
		}
		return doctree.TextBlock{Text: box + Markdown(b.ToDo.RichText)}
	case *notionapi.ToggleBlock:
		return doctree.TextBlock{Text: Markdown(b.Toggle.RichText)}
	case *notionapi.CodeBlock:
		return doctree.TextBlock{Text: fence(b.Code.Language, PlainText(b.Code.RichText))}
	case *notionapi.ImageBlock:
		return doctree.ImageBlock{Source: imageSource(b.Image)}
	case *notionapi.ChildPageBlock:
		return doctree.Page{ID: string(b.ID), Title: b.ChildPage.Title, Load: t.loader(b.ID)}
	case *notionapi.ChildDatabaseBlock:
		return doctree.TabularPage{
			ID:    string(b.ID),
			Title: b.ChildDatabase.Title,
			Views: []doctree.View{databaseView{session: t.session, id: notionapi.DatabaseID(b.ID)}},
		}
	default:
		kind := string(block.GetType())
		t.logger.Debug("Unrendered block kind", logfields.Kind(kind))
		return doctree.Other{Kind: kind}
	}
}

// fence wraps code in a fenced block long enough that backtick runs inside
// the code cannot close it early.
func fence(language, code string) string {
	if language == "plain text" {
		language = ""
	}
	marker := "```"
	for strings.Contains(code, marker) {
		marker += "`"
	}
	return marker + language + "\n" + code + "\n" + marker
}

func imageSource(img notionapi.Image) string {
	switch {
	case img.File != nil:
		return img.File.URL
	case img.External != nil:
		return img.External.URL
	default:
		return ""
	}
}
