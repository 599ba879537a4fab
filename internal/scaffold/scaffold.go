// internal/scaffold/scaffold.go
package scaffold

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"notionsite/internal/config"
	errs "notionsite/internal/errors"
)

// ConfigFile and TreeFile are the names written at the site root.
const (
	ConfigFile = "site.yaml"
	TreeFile   = "site.tree.yaml"
)

// CreateNewSite writes a starter site.yaml, the base and team templates, a
// shared navigation partial, a stylesheet and a sample offline tree into
// root. Existing files are left alone unless force is set.
func CreateNewSite(root string, force bool, out io.Writer) error {
	cfg := config.Defaults()
	cfg.SourceFile = TreeFile
	siteYaml, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode default config: %w", err)
	}

	files := map[string]string{
		ConfigFile:                             siteYamlHeader + string(siteYaml),
		TreeFile:                               sampleTreeContent,
		filepath.Join(cfg.SrcDir, "base.html"): baseTemplateContent,
		filepath.Join(cfg.SrcDir, "team.html"): teamTemplateContent,
		filepath.Join(cfg.SrcDir, "partials", "nav.html"): navPartialContent,
		filepath.Join(cfg.AssetsDir(), "style.css"):       styleCSSContent,
	}

	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	if !force {
		for _, p := range paths {
			_, err := os.Stat(filepath.Join(root, p))
			if err == nil {
				return errs.NewError(errs.CategoryFileSystem, "file already exists; use --force to overwrite").
					WithContext("path", p).Build()
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return errs.FileSystemError(err, "failed to inspect site directory").WithContext("path", p).Build()
			}
		}
	}

	fmt.Fprintln(out, "Scaffolding new site in:", root)
	for _, p := range paths {
		full := filepath.Join(root, p)
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			return errs.FileSystemError(err, "failed to create directory").WithContext("path", filepath.Dir(full)).Build()
		}
		if err := os.WriteFile(full, []byte(files[p]), 0644); err != nil {
			return errs.FileSystemError(err, "failed to write file").WithContext("path", full).Build()
		}
		fmt.Fprintln(out, "  created", p)
	}
	fmt.Fprintln(out, "Set NOTION_TOKEN (or add it to .env) and run: notionsite build")
	return nil
}

const siteYamlHeader = `# notionsite configuration.
# source: notion builds from root_url; source: file builds from source_file.
`

const sampleTreeContent = `kind: page
title: root
children:
  - kind: page
    title: About
    children:
      - kind: text
        text: "# About us\n\nWe build **open** learning tools."
      - kind: image
        source: https://upload.wikimedia.org/wikipedia/commons/4/47/PNG_transparency_demonstration_1.png
  - kind: table
    title: Team
    rows:
      - Name: Ada Lovelace
        Role: Engineering
      - Name: Grace Hopper
        Role: Compilers
`

const navPartialContent = `{{ define "nav" }}
<nav>
  <ul>
  {{ range .pages }}
    <li><a href="{{ .Slug }}.html">{{ .Title }}</a></li>
  {{ end }}
  </ul>
</nav>
{{ end }}
`

const baseTemplateContent = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{ .title }}</title>
  <link rel="stylesheet" href="assets/style.css">
</head>
<body>
  {{ template "nav" . }}
  <main>
    <h1>{{ .title }}</h1>
    {{ with .html }}{{ . }}{{ end }}
  </main>
</body>
</html>
`

const teamTemplateContent = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{ .title }}</title>
  <link rel="stylesheet" href="assets/style.css">
</head>
<body>
  {{ template "nav" . }}
  <main>
    <h1>{{ .title }}</h1>
    <ul class="people">
    {{ range .people }}
      <li><strong>{{ .Name }}</strong>{{ with .Role }} &middot; {{ . }}{{ end }}</li>
    {{ end }}
    </ul>
  </main>
</body>
</html>
`

const styleCSSContent = `body {
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
  line-height: 1.6;
  color: #333;
  max-width: 800px;
  margin: 40px auto;
  padding: 0 20px;
}
nav ul {
  list-style: none;
  padding: 0;
  display: flex;
  gap: 1em;
}
main img {
  max-width: 100%;
  height: auto;
}
.people li {
  margin-bottom: 0.5em;
}
`
