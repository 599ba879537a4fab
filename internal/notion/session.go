// internal/notion/session.go

// Package notion adapts the Notion API to the doctree abstraction. A Session
// is built once at startup from the integration token and shared by the tree
// provider and the media fetcher.
package notion

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jomei/notionapi"

	"notionsite/internal/media"
)

// Session holds the authenticated API client and the HTTP client used for
// file downloads.
type Session struct {
	Client *notionapi.Client
	HTTP   *http.Client
	token  string
}

// NewSession creates a session for token. A zero fetchTimeout means file
// downloads never time out.
func NewSession(token string, fetchTimeout time.Duration) *Session {
	return &Session{
		Client: notionapi.NewClient(notionapi.Token(token)),
		HTTP:   &http.Client{Timeout: fetchTimeout},
		token:  token,
	}
}

// Fetcher returns a media fetcher that authenticates requests to Notion's own
// hosts. Presigned storage URLs are fetched without credentials.
func (s *Session) Fetcher() media.HTTPFetcher {
	return media.HTTPFetcher{Client: s.HTTP, Decorate: s.decorate}
}

func (s *Session) decorate(r *http.Request) {
	if isNotionHost(r.URL) {
		r.Header.Set("Authorization", "Bearer "+s.token)
	}
}

func isNotionHost(u *url.URL) bool {
	host := u.Hostname()
	return host == "notion.so" || strings.HasSuffix(host, ".notion.so")
}
