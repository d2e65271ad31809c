package github

import (
	"context"
	"iter"

	gogithub "github.com/google/go-github/v68/github"
	"github.com/ryo246912/pr-metadata-action/internal/models"
)

// Source defines the pull request data the aggregator reads.
// List methods return lazy sequences that fetch every page when ranged over.
type Source interface {
	GetPullRequest(ctx context.Context, ref models.PullRequestRef) (*gogithub.PullRequest, error)
	IssueComments(ctx context.Context, ref models.PullRequestRef) iter.Seq2[*gogithub.IssueComment, error]
	Reviews(ctx context.Context, ref models.PullRequestRef) iter.Seq2[*Review, error]
	ReviewComments(ctx context.Context, ref models.PullRequestRef) iter.Seq2[*gogithub.PullRequestComment, error]
	Timeline(ctx context.Context, ref models.PullRequestRef) iter.Seq2[*gogithub.Timeline, error]
}

// GitHubClient adds the lookups used by the backfill command
type GitHubClient interface {
	Source
	SearchMergedPRs(ctx context.Context, owner, repo string) ([]models.PullRequestInfo, error)
}

// RepositoryInfo defines repository information interface
type RepositoryInfo interface {
	GetOwner() string
	GetName() string
}

// Ensure Client implements GitHubClient interface
var _ GitHubClient = (*Client)(nil)
