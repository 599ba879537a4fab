// internal/notion/database.go
package notion

import (
	"context"
	"time"

	"github.com/jomei/notionapi"

	"notionsite/internal/doctree"
	errs "notionsite/internal/errors"
)

// databaseView runs a database's default query: no filter, no sorts, every
// page of results.
type databaseView struct {
	session *Session
	id      notionapi.DatabaseID
}

func (v databaseView) Query(ctx context.Context) ([]doctree.Record, error) {
	var out []doctree.Record
	req := &notionapi.DatabaseQueryRequest{PageSize: pageSize}
	for {
		resp, err := v.session.Client.Database.Query(ctx, v.id, req)
		if err != nil {
			return nil, errs.SourceError(err, "query database").WithContext("database", string(v.id)).Build()
		}
		for _, page := range resp.Results {
			out = append(out, Record(page))
		}
		if !resp.HasMore || resp.NextCursor == "" {
			return out, nil
		}
		req.StartCursor = notionapi.Cursor(resp.NextCursor)
	}
}

// Record flattens a database row into template-friendly values keyed by
// property name, plus "id" and "url". Every property is kept: kinds without
// a simpler form are stored as the API value itself.
func Record(page notionapi.Page) doctree.Record {
	rec := doctree.Record{
		"id":  string(page.ID),
		"url": page.URL,
	}
	for name, prop := range page.Properties {
		rec[name] = propertyValue(prop)
	}
	return rec
}

func propertyValue(prop notionapi.Property) any {
	switch p := prop.(type) {
	case *notionapi.TitleProperty:
		return PlainText(p.Title)
	case *notionapi.RichTextProperty:
		return PlainText(p.RichText)
	case *notionapi.URLProperty:
		return p.URL
	case *notionapi.EmailProperty:
		return p.Email
	case *notionapi.PhoneNumberProperty:
		return p.PhoneNumber
	case *notionapi.SelectProperty:
		return p.Select.Name
	case *notionapi.StatusProperty:
		return p.Status.Name
	case *notionapi.MultiSelectProperty:
		names := make([]string, 0, len(p.MultiSelect))
		for _, opt := range p.MultiSelect {
			names = append(names, opt.Name)
		}
		return names
	case *notionapi.NumberProperty:
		return p.Number
	case *notionapi.CheckboxProperty:
		return p.Checkbox
	case *notionapi.DateProperty:
		return dateValue(p.Date)
	case *notionapi.PeopleProperty:
		names := make([]string, 0, len(p.People))
		for _, u := range p.People {
			names = append(names, u.Name)
		}
		return names
	case *notionapi.FilesProperty:
		urls := make([]string, 0, len(p.Files))
		for _, f := range p.Files {
			switch {
			case f.File != nil:
				urls = append(urls, f.File.URL)
			case f.External != nil:
				urls = append(urls, f.External.URL)
			}
		}
		return urls
	case *notionapi.RelationProperty:
		ids := make([]string, 0, len(p.Relation))
		for _, r := range p.Relation {
			ids = append(ids, string(r.ID))
		}
		return ids
	case *notionapi.FormulaProperty:
		switch p.Formula.Type {
		case notionapi.FormulaTypeString:
			return p.Formula.String
		case notionapi.FormulaTypeNumber:
			return p.Formula.Number
		case notionapi.FormulaTypeBoolean:
			return p.Formula.Boolean
		case notionapi.FormulaTypeDate:
			return dateValue(p.Formula.Date)
		}
		return p.Formula
	case *notionapi.CreatedTimeProperty:
		return p.CreatedTime.Format(time.RFC3339)
	case *notionapi.LastEditedTimeProperty:
		return p.LastEditedTime.Format(time.RFC3339)
	default:
		return prop
	}
}

// dateValue renders a date as ISO 8601: the start alone, or start/end for a
// range. Dates without a time of day keep the short form.
func dateValue(d *notionapi.DateObject) string {
	if d == nil || d.Start == nil {
		return ""
	}
	s := formatDate(*d.Start)
	if d.End != nil {
		s += "/" + formatDate(*d.End)
	}
	return s
}

func formatDate(d notionapi.Date) string {
	t := time.Time(d)
	if t.Equal(t.Truncate(24 * time.Hour)) {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.RFC3339)
}
