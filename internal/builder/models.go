// internal/builder/models.go
package builder

// Template names for the two page archetypes. Each maps to <src>/<name>.html.
const (
	TemplateBase = "base"
	TemplateTeam = "team"
)

// Context keys set on every page, and the content keys each archetype adds.
const (
	KeyTitle  = "title"
	KeyPages  = "pages"
	KeyHTML   = "html"
	KeyPeople = "people"
)

// LandingSlug is the slug of the synthetic first page.
const LandingSlug = "index"

// Descriptor describes one output page for a single build pass. Templates
// see it through the "pages" key, so .Slug and .Title drive navigation.
type Descriptor struct {
	Template string
	Slug     string
	Title    string
	Context  map[string]any
}

// FileName is the output file the descriptor renders to.
func (d Descriptor) FileName() string {
	return d.Slug + ".html"
}

// Manifest is the ordered list of descriptors for one pass, landing page
// first and the rest in document order.
type Manifest []Descriptor

// Slugs lists the slugs in manifest order.
func (m Manifest) Slugs() []string {
	out := make([]string, len(m))
	for i, d := range m {
		out[i] = d.Slug
	}
	return out
}
