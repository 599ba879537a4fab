// internal/media/canonical.go
package media

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"path"
	"strings"
)

// SignedPrefix is prepended by Notion to file references that must be
// fetched through its signing proxy.
const SignedPrefix = "https://www.notion.so/signed/"

// Canonicalize strips transient signing and query artifacts from ref so the
// same logical resource always maps to the same cache key. A signed reference
// whose remainder cannot be unescaped yields "".
func Canonicalize(ref string) string {
	if rest, ok := strings.CutPrefix(ref, SignedPrefix); ok {
		unescaped, err := url.PathUnescape(rest)
		if err != nil {
			return ""
		}
		ref = unescaped
	}
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	return ref
}

// Key returns the content address for ref: the hex MD5 of its canonical form.
func Key(ref string) string {
	sum := md5.Sum([]byte(Canonicalize(ref)))
	return hex.EncodeToString(sum[:])
}

// Basename returns the last path segment of ref's URL path, or "" when ref
// is not a usable URL.
func Basename(ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" {
		return ""
	}
	return base
}
