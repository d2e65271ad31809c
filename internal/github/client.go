package github

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"time"

	"github.com/cli/go-gh/v2/pkg/api"
	graphql "github.com/cli/shurcooL-graphql"
	gogithub "github.com/google/go-github/v68/github"
	"github.com/gregjones/httpcache"
	"github.com/ryo246912/pr-metadata-action/internal/models"
)

// Review is a PR review as returned by the list-reviews endpoint.
// Comments is only present on some GitHub versions.
type Review struct {
	gogithub.PullRequestReview
	Comments *int `json:"comments,omitempty"`
}

// Options configures a Client
type Options struct {
	// Token authenticates against the GitHub API.
	Token string
	// Host is the GitHub host, e.g. github.com or a GHES hostname.
	Host string
	// Transport is the underlying round tripper; http.DefaultTransport when nil.
	Transport http.RoundTripper
}

// Client wraps GitHub API clients
type Client struct {
	rest *api.RESTClient
	gql  *api.GraphQLClient
}

func NewClient(opts Options) (*Client, error) {
	cache := httpcache.NewMemoryCacheTransport()
	if opts.Transport != nil {
		cache.Transport = opts.Transport
	}
	clientOpts := api.ClientOptions{
		AuthToken: opts.Token,
		Host:      opts.Host,
		Transport: cache,
	}

	restClient, err := api.NewRESTClient(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create REST client: %w", err)
	}

	gqlClient, err := api.NewGraphQLClient(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create GraphQL client: %w", err)
	}

	return &Client{
		rest: restClient,
		gql:  gqlClient,
	}, nil
}

// GetPullRequest fetches a single pull request by number
func (c *Client) GetPullRequest(ctx context.Context, ref models.PullRequestRef) (*gogithub.PullRequest, error) {
	path := fmt.Sprintf("repos/%s/%s/pulls/%d", ref.Owner, ref.Repo, ref.Number)
	var pr gogithub.PullRequest
	if err := c.rest.DoWithContext(ctx, http.MethodGet, path, nil, &pr); err != nil {
		return nil, fmt.Errorf("failed to fetch pull request: %w", err)
	}
	return &pr, nil
}

// IssueComments lists the conversation comments of a PR
func (c *Client) IssueComments(ctx context.Context, ref models.PullRequestRef) iter.Seq2[*gogithub.IssueComment, error] {
	path := fmt.Sprintf("repos/%s/%s/issues/%d/comments", ref.Owner, ref.Repo, ref.Number)
	return paginate[*gogithub.IssueComment](ctx, c.rest, path)
}

// Reviews lists the reviews of a PR in chronological order
func (c *Client) Reviews(ctx context.Context, ref models.PullRequestRef) iter.Seq2[*Review, error] {
	path := fmt.Sprintf("repos/%s/%s/pulls/%d/reviews", ref.Owner, ref.Repo, ref.Number)
	return paginate[*Review](ctx, c.rest, path)
}

// ReviewComments lists the line comments attached to reviews of a PR
func (c *Client) ReviewComments(ctx context.Context, ref models.PullRequestRef) iter.Seq2[*gogithub.PullRequestComment, error] {
	path := fmt.Sprintf("repos/%s/%s/pulls/%d/comments", ref.Owner, ref.Repo, ref.Number)
	return paginate[*gogithub.PullRequestComment](ctx, c.rest, path)
}

// Timeline lists the issue timeline events of a PR
func (c *Client) Timeline(ctx context.Context, ref models.PullRequestRef) iter.Seq2[*gogithub.Timeline, error] {
	path := fmt.Sprintf("repos/%s/%s/issues/%d/timeline", ref.Owner, ref.Repo, ref.Number)
	return paginate[*gogithub.Timeline](ctx, c.rest, path)
}

// SearchMergedPRs fetches the most recently merged pull requests using GraphQL
func (c *Client) SearchMergedPRs(ctx context.Context, owner, repo string) ([]models.PullRequestInfo, error) {
	var q struct {
		Search struct {
			Nodes []struct {
				PullRequest struct {
					Number   int
					Title    string
					MergedAt time.Time
					Author   struct {
						Login string
					}
				} `graphql:"... on PullRequest"`
			}
		} `graphql:"search(type: ISSUE, query: $query, first: $first)"`
	}

	variables := map[string]interface{}{
		"query": graphql.String(fmt.Sprintf("repo:%s/%s is:pr is:merged sort:updated-desc", owner, repo)),
		"first": graphql.Int(PerPage),
	}

	if err := c.gql.QueryWithContext(ctx, "MergedPullRequests", &q, variables); err != nil {
		return nil, fmt.Errorf("failed to search merged pull requests: %w", err)
	}

	merged := make([]models.PullRequestInfo, 0, len(q.Search.Nodes))
	for _, node := range q.Search.Nodes {
		pr := node.PullRequest
		merged = append(merged, models.PullRequestInfo{
			Number:   pr.Number,
			Title:    pr.Title,
			User:     pr.Author.Login,
			MergedAt: pr.MergedAt,
		})
	}
	return merged, nil
}
