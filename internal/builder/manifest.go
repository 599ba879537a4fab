// internal/builder/manifest.go
package builder

import (
	"context"

	"notionsite/internal/doctree"
	errs "notionsite/internal/errors"
	"notionsite/internal/slug"
)

// BuildManifest classifies the root's direct children into page descriptors.
// The landing page always comes first. Pages use the base template, tables
// the team template, and every other kind of child is skipped. Slugs are not
// deduplicated: when two titles collide the later page overwrites the
// earlier one's file.
func BuildManifest(ctx context.Context, root doctree.Page, r NodeRenderer, landingTitle string) (Manifest, error) {
	manifest := Manifest{{
		Template: TemplateBase,
		Slug:     LandingSlug,
		Title:    landingTitle,
		Context:  map[string]any{},
	}}

	children, err := root.Children(ctx)
	if err != nil {
		return nil, errs.SourceError(err, "failed to load root page").Build()
	}

	for _, child := range children {
		switch c := child.(type) {
		case doctree.Page:
			html, err := ExtractPageHTML(ctx, r, c)
			if err != nil {
				return nil, err
			}
			manifest = append(manifest, Descriptor{
				Template: TemplateBase,
				Slug:     slug.Make(c.Title),
				Title:    c.Title,
				Context:  map[string]any{KeyHTML: html},
			})
		case doctree.TabularPage:
			rows, err := ExtractRows(ctx, c)
			if err != nil {
				return nil, err
			}
			manifest = append(manifest, Descriptor{
				Template: TemplateTeam,
				Slug:     slug.Make(c.Title),
				Title:    c.Title,
				Context:  map[string]any{KeyPeople: rows},
			})
		case doctree.TextBlock, doctree.ImageBlock, doctree.Other:
		}
	}
	return manifest, nil
}
