package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "notionsite/internal/errors"
)

type countingFetcher struct {
	calls map[string]int
	body  string
	err   error
}

func newCountingFetcher() *countingFetcher {
	return &countingFetcher{calls: map[string]int{}, body: "PNGDATA"}
}

func (f *countingFetcher) Fetch(_ context.Context, ref string, w io.Writer) error {
	f.calls[ref]++
	if f.err != nil {
		return f.err
	}
	_, err := io.WriteString(w, f.body)
	return err
}

func (f *countingFetcher) total() int {
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func TestCanonicalize(t *testing.T) {
	cases := map[string]string{
		"https://example.com/a.png":                                          "https://example.com/a.png",
		"https://example.com/a.png?X-Amz-Signature=abc":                      "https://example.com/a.png",
		"https://example.com/a.png#frag":                                     "https://example.com/a.png",
		SignedPrefix + "https%3A%2F%2Fs3.aws.com%2Fimg.png":                  "https://s3.aws.com/img.png",
		SignedPrefix + "https%3A%2F%2Fs3.aws.com%2Fimg.png?table=block&id=1": "https://s3.aws.com/img.png",
		SignedPrefix + "%zz":                                                 "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Canonicalize(in), "Canonicalize(%q)", in)
	}
}

func TestKeyIgnoresSigningArtifacts(t *testing.T) {
	a := Key("https://s3.aws.com/img.png?X-Amz-Expires=3600&sig=1")
	b := Key("https://s3.aws.com/img.png?X-Amz-Expires=3600&sig=2")
	c := Key(SignedPrefix + "https%3A%2F%2Fs3.aws.com%2Fimg.png")
	assert.Equal(t, a, b)
	assert.Equal(t, a, c)
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, Key("https://s3.aws.com/other.png"))
}

func TestBasename(t *testing.T) {
	assert.Equal(t, "img.png", Basename("https://s3.aws.com/dir/img.png?x=1"))
	assert.Equal(t, "img.png", Basename(SignedPrefix+"https%3A%2F%2Fs3.aws.com%2Fimg.png"))
	assert.Equal(t, "", Basename("https://example.com/"))
	assert.Equal(t, "", Basename("::"))
}

func TestResolveFetchesAtMostOnce(t *testing.T) {
	dir := t.TempDir()
	f := newCountingFetcher()
	c := NewCache(dir, f)
	ctx := context.Background()

	refs := []string{
		"https://s3.aws.com/team/photo.jpg?sig=1",
		"https://s3.aws.com/team/photo.jpg?sig=2",
		"https://s3.aws.com/team/photo.jpg?sig=3",
	}
	var paths []string
	for _, ref := range refs {
		p, ok, err := c.Resolve(ctx, ref)
		require.NoError(t, err)
		require.True(t, ok)
		paths = append(paths, p)
	}

	assert.Equal(t, 1, f.total())
	assert.Equal(t, paths[0], paths[1])
	assert.Equal(t, paths[0], paths[2])
	assert.Equal(t, filepath.Join(dir, Key(refs[0])+"-photo.jpg"), paths[0])

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, "PNGDATA", string(data))
}

func TestResolveRefetchesAfterExternalDelete(t *testing.T) {
	f := newCountingFetcher()
	c := NewCache(t.TempDir(), f)
	ctx := context.Background()

	p, ok, err := c.Resolve(ctx, "https://example.com/a.png")
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, os.Remove(p))

	_, _, err = c.Resolve(ctx, "https://example.com/a.png")
	require.NoError(t, err)
	assert.Equal(t, 2, f.total())
}

func TestResolveUnusableReferences(t *testing.T) {
	f := newCountingFetcher()
	c := NewCache(t.TempDir(), f)

	for _, ref := range []string{"", "not a url", "ftp://example.com/a.png", "https://example.com/", SignedPrefix + "%zz"} {
		p, ok, err := c.Resolve(context.Background(), ref)
		require.NoError(t, err, ref)
		assert.False(t, ok, ref)
		assert.Empty(t, p, ref)
	}
	assert.Equal(t, 0, f.total())
}

func TestResolveFetcherReportsUnusable(t *testing.T) {
	dir := t.TempDir()
	f := newCountingFetcher()
	f.err = unusable("https://example.com/a.png", errors.New("bad request"))
	c := NewCache(dir, f)

	p, ok, err := c.Resolve(context.Background(), "https://example.com/a.png")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, p)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no cache entry or temp file should remain")
}

func TestResolveFetchFailureIsAnError(t *testing.T) {
	dir := t.TempDir()
	f := newCountingFetcher()
	f.err = errs.NetworkError(errors.New("connection reset"), "fetch media").Build()
	c := NewCache(dir, f)

	_, ok, err := c.Resolve(context.Background(), "https://example.com/a.png")
	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, errs.HasCategory(err, errs.CategoryNetwork))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			fmt.Fprintf(w, "image:%s", r.Header.Get("Authorization"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := HTTPFetcher{
		Client:   srv.Client(),
		Decorate: func(r *http.Request) { r.Header.Set("Authorization", "Bearer t") },
	}
	var buf bytes.Buffer
	require.NoError(t, f.Fetch(context.Background(), srv.URL+"/ok.png", &buf))
	assert.Equal(t, "image:Bearer t", buf.String())

	err := f.Fetch(context.Background(), srv.URL+"/missing.png", io.Discard)
	require.Error(t, err)
	assert.True(t, errs.HasCategory(err, errs.CategoryNetwork))

	err = f.Fetch(context.Background(), "http://[::1", io.Discard)
	assert.ErrorIs(t, err, ErrUnusableReference)
}
