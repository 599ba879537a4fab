package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"About":                   "about",
		"Team":                    "team",
		"Notion Home":             "notion-home",
		"  Leading and trailing ": "leading-and-trailing",
		"Café Déjà Vu":            "cafe-deja-vu",
		"What's new?":             "whats-new",
		"2024 -- Roadmap!!":       "2024-roadmap",
		"日本語":                     "",
		"":                        "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Make(in), "Make(%q)", in)
	}
}

func TestMakeCollidingTitles(t *testing.T) {
	assert.Equal(t, Make("Team"), Make("team!"))
}
