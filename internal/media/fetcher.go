// internal/media/fetcher.go
package media

import (
	"context"
	"fmt"
	"io"
	"net/http"

	errs "notionsite/internal/errors"
)

// HTTPFetcher downloads references with a plain GET.
type HTTPFetcher struct {
	// Client defaults to http.DefaultClient.
	Client *http.Client
	// Decorate, when set, may add credentials to each request.
	Decorate func(*http.Request)
}

// Fetch streams the response body for ref into w. A reference that cannot
// form a request is reported as ErrUnusableReference.
func (f HTTPFetcher) Fetch(ctx context.Context, ref string, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return unusable(ref, err)
	}
	if f.Decorate != nil {
		f.Decorate(req)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return errs.NetworkError(err, "fetch media").WithContext("url", ref).Build()
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errs.NetworkError(fmt.Errorf("unexpected status %s", resp.Status), "fetch media").
			WithContext("url", ref).Build()
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return errs.NetworkError(err, "read media body").WithContext("url", ref).Build()
	}
	return nil
}
