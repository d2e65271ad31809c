package github

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"net/http"
	"regexp"
	"strings"

	"github.com/cli/go-gh/v2/pkg/api"
)

// PerPage is the page size requested from list endpoints
const PerPage = 100

var linkRE = regexp.MustCompile(`<([^>]+)>;\s*rel="([^"]+)"`)

// findNextPage returns the rel="next" URL from the Link header, if any
func findNextPage(response *http.Response) (string, bool) {
	for _, m := range linkRE.FindAllStringSubmatch(response.Header.Get("Link"), -1) {
		if len(m) > 2 && m[2] == "next" {
			return m[1], true
		}
	}
	return "", false
}

// withPerPage appends per_page to a list path
func withPerPage(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%sper_page=%d", path, sep, PerPage)
}

// paginate lazily walks every page of a list endpoint.
// Nothing is requested until the sequence is ranged over, and each range starts again
// from the first page. The first error is yielded once and ends the sequence.
func paginate[T any](ctx context.Context, rest *api.RESTClient, path string) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		requestPath := withPerPage(path)
		for page := 1; ; page++ {
			response, err := rest.RequestWithContext(ctx, http.MethodGet, requestPath, nil)
			if err != nil {
				yield(zero, fmt.Errorf("failed to fetch %s (page %d): %w", path, page, err))
				return
			}

			var items []T
			err = json.NewDecoder(response.Body).Decode(&items)
			response.Body.Close()
			if err != nil {
				yield(zero, fmt.Errorf("failed to decode %s (page %d): %w", path, page, err))
				return
			}

			for _, item := range items {
				if !yield(item, nil) {
					return
				}
			}

			next, hasNextPage := findNextPage(response)
			if !hasNextPage {
				return
			}
			requestPath = next
		}
	}
}
