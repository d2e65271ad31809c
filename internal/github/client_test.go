package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/cli/go-gh/v2/pkg/api"
	"github.com/ryo246912/pr-metadata-action/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func jsonResponse(req *http.Request, status int, body string, header http.Header) *http.Response {
	if header == nil {
		header = http.Header{}
	}
	header.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: status,
		Status:     fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
		ProtoMajor: 1,
		ProtoMinor: 1,
	}
}

func newTestClient(t *testing.T, fn roundTripFunc) *Client {
	t.Helper()
	client, err := NewClient(Options{Token: "test-token", Host: "github.com", Transport: fn})
	require.NoError(t, err)
	return client
}

var testRef = models.PullRequestRef{Owner: "octo", Repo: "hello", Number: 7}

func TestFindNextPage(t *testing.T) {
	tests := []struct {
		name     string
		link     string
		expected string
		hasNext  bool
	}{
		{
			name:     "next and last",
			link:     `<https://api.github.com/repositories/1/issues/7/comments?page=2>; rel="next", <https://api.github.com/repositories/1/issues/7/comments?page=5>; rel="last"`,
			expected: "https://api.github.com/repositories/1/issues/7/comments?page=2",
			hasNext:  true,
		},
		{
			name:    "last page only has prev and first",
			link:    `<https://api.github.com/x?page=1>; rel="first", <https://api.github.com/x?page=4>; rel="prev"`,
			hasNext: false,
		},
		{
			name:    "no link header",
			hasNext: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{Header: http.Header{}}
			if tt.link != "" {
				resp.Header.Set("Link", tt.link)
			}
			got, ok := findNextPage(resp)
			assert.Equal(t, tt.hasNext, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestWithPerPage(t *testing.T) {
	assert.Equal(t, "repos/o/r/issues/1/comments?per_page=100", withPerPage("repos/o/r/issues/1/comments"))
	assert.Equal(t, "repos/o/r/pulls?state=closed&per_page=100", withPerPage("repos/o/r/pulls?state=closed"))
}

func TestClient_IssueComments_FollowsEveryPage(t *testing.T) {
	const base = "https://api.github.com/repos/octo/hello/issues/7/comments"
	requests := 0
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		requests++
		require.Equal(t, "/repos/octo/hello/issues/7/comments", r.URL.Path)
		switch r.URL.Query().Get("page") {
		case "":
			assert.Equal(t, "100", r.URL.Query().Get("per_page"))
			header := http.Header{}
			header.Set("Link", fmt.Sprintf(`<%s?page=2>; rel="next", <%s?page=3>; rel="last"`, base, base))
			return jsonResponse(r, http.StatusOK, `[{"id":1},{"id":2}]`, header), nil
		case "2":
			header := http.Header{}
			header.Set("Link", fmt.Sprintf(`<%s?page=3>; rel="next", <%s?page=1>; rel="first"`, base, base))
			return jsonResponse(r, http.StatusOK, `[{"id":3}]`, header), nil
		case "3":
			return jsonResponse(r, http.StatusOK, `[{"id":4},{"id":5}]`, nil), nil
		}
		return jsonResponse(r, http.StatusNotFound, `{"message":"Not Found"}`, nil), nil
	})

	var ids []int64
	for comment, err := range client.IssueComments(context.Background(), testRef) {
		require.NoError(t, err)
		ids = append(ids, comment.GetID())
	}

	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids)
	assert.Equal(t, 3, requests)
}

func TestClient_Timeline_IsRestartable(t *testing.T) {
	requests := 0
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		requests++
		return jsonResponse(r, http.StatusOK, `[{"event":"labeled","created_at":"2024-01-01T00:00:00Z"},{"event":"merged"}]`, nil), nil
	})

	seq := client.Timeline(context.Background(), testRef)
	assert.Equal(t, 0, requests, "sequence must be lazy")

	for range 2 {
		var events []string
		for event, err := range seq {
			require.NoError(t, err)
			events = append(events, event.GetEvent())
		}
		assert.Equal(t, []string{"labeled", "merged"}, events)
	}
	assert.Equal(t, 2, requests)
}

func TestClient_Reviews_ErrorOnLaterPage(t *testing.T) {
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		if r.URL.Query().Get("page") == "" {
			header := http.Header{}
			header.Set("Link", `<https://api.github.com/repos/octo/hello/pulls/7/reviews?page=2>; rel="next"`)
			return jsonResponse(r, http.StatusOK, `[{"id":10,"state":"APPROVED","comments":2}]`, header), nil
		}
		return nil, errors.New("connection reset by peer")
	})

	var (
		reviews []*Review
		lastErr error
	)
	for review, err := range client.Reviews(context.Background(), testRef) {
		if err != nil {
			lastErr = err
			break
		}
		reviews = append(reviews, review)
	}

	require.Len(t, reviews, 1)
	assert.Equal(t, "APPROVED", reviews[0].GetState())
	require.NotNil(t, reviews[0].Comments)
	assert.Equal(t, 2, *reviews[0].Comments)
	require.Error(t, lastErr)
	assert.Contains(t, lastErr.Error(), "page 2")
}

func TestClient_GetPullRequest(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		expectErr  bool
		wantStatus int
	}{
		{
			name:   "found",
			status: http.StatusOK,
			body:   `{"id":99,"number":7,"title":"Add feature","merged":true,"additions":4,"user":{"id":1,"login":"octocat","type":"User"}}`,
		},
		{
			name:       "not found",
			status:     http.StatusNotFound,
			body:       `{"message":"Not Found"}`,
			expectErr:  true,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unauthorized",
			status:     http.StatusUnauthorized,
			body:       `{"message":"Bad credentials"}`,
			expectErr:  true,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
				assert.Equal(t, "/repos/octo/hello/pulls/7", r.URL.Path)
				return jsonResponse(r, tt.status, tt.body, nil), nil
			})

			pr, err := client.GetPullRequest(context.Background(), testRef)
			if tt.expectErr {
				require.Error(t, err)
				var httpErr *api.HTTPError
				require.ErrorAs(t, err, &httpErr)
				assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(99), pr.GetID())
			assert.True(t, pr.GetMerged())
			assert.Equal(t, "octocat", pr.GetUser().GetLogin())
		})
	}
}
