// internal/builder/templates.go
package builder

import (
	"html/template"
	"os"
	"path/filepath"

	errs "notionsite/internal/errors"
	"notionsite/internal/slug"
)

// Templates loads page templates from a source directory. A template named
// "team" is the file team.html; every file under partials/ is parsed into
// each template so pages can share a head or navigation block.
type Templates struct {
	dir    string
	loaded map[string]*template.Template
}

// NewTemplates returns a loader for dir. Files are read on first lookup and
// reused for the lifetime of the loader.
func NewTemplates(dir string) *Templates {
	return &Templates{dir: dir, loaded: map[string]*template.Template{}}
}

var templateFuncs = template.FuncMap{
	"slugify": slug.Make,
}

// Lookup returns the named template. A missing or unparsable file is an
// error that ends the build pass.
func (t *Templates) Lookup(name string) (*template.Template, error) {
	if tmpl, ok := t.loaded[name]; ok {
		return tmpl, nil
	}

	main := filepath.Join(t.dir, name+".html")
	if _, err := os.Stat(main); err != nil {
		return nil, errs.TemplateError(err, "template not found").WithContext("template", name).Build()
	}
	partials, err := filepath.Glob(filepath.Join(t.dir, "partials", "*.html"))
	if err != nil {
		return nil, errs.TemplateError(err, "bad partials pattern").Build()
	}

	tmpl, err := template.New(filepath.Base(main)).Funcs(templateFuncs).ParseFiles(append([]string{main}, partials...)...)
	if err != nil {
		return nil, errs.TemplateError(err, "failed to parse template").WithContext("template", name).Build()
	}
	t.loaded[name] = tmpl
	return tmpl, nil
}
