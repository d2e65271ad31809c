package service

import (
	"context"
	"errors"
	"iter"

	"github.com/ryo246912/pr-metadata-action/internal/github"
	"github.com/ryo246912/pr-metadata-action/internal/models"
	"go.uber.org/zap"
)

// Aggregator collects everything about one pull request into a SubmissionPayload
type Aggregator struct {
	source github.Source
	logger *zap.Logger
}

// NewAggregator creates a new aggregator
func NewAggregator(source github.Source, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		source: source,
		logger: logger,
	}
}

// Aggregate fetches the PR summary and drains every event stream.
// The first failure aborts with an *UpstreamFetchError; no partial payload is returned.
func (a *Aggregator) Aggregate(ctx context.Context, ref models.PullRequestRef) (*models.SubmissionPayload, error) {
	pr, err := a.source.GetPullRequest(ctx, ref)
	if err == nil && pr == nil {
		err = errors.New("empty response")
	}
	if err != nil {
		return nil, &UpstreamFetchError{Stream: StreamPullRequest, Err: err}
	}

	issueComments, err := drain(a.source.IssueComments(ctx, ref))
	if err != nil {
		return nil, &UpstreamFetchError{Stream: StreamComments, Err: err}
	}

	reviews, err := drain(a.source.Reviews(ctx, ref))
	if err != nil {
		return nil, &UpstreamFetchError{Stream: StreamReviews, Err: err}
	}

	reviewComments, err := drain(a.source.ReviewComments(ctx, ref))
	if err != nil {
		return nil, &UpstreamFetchError{Stream: StreamReviewComments, Err: err}
	}

	timeline, err := drain(a.source.Timeline(ctx, ref))
	if err != nil {
		return nil, &UpstreamFetchError{Stream: StreamTimeline, Err: err}
	}

	a.logger.Info("Collected PR data",
		zap.Int("number", ref.Number),
		zap.Int("comments", len(issueComments)),
		zap.Int("reviews", len(reviews)),
		zap.Int("review_comments", len(reviewComments)),
		zap.Int("timeline", len(timeline)))

	commentsByReview := countByReview(reviewComments)
	data := models.PayloadData{
		PullRequest:    projectPullRequest(pr),
		Comments:       project(issueComments, projectIssueComment),
		Reviews:        project(reviews, func(r *github.Review) models.ReviewRecord { return projectReview(r, commentsByReview) }),
		ReviewComments: project(reviewComments, projectReviewComment),
		Timeline:       project(timeline, projectTimelineEvent),
	}

	return models.NewSubmissionPayload(models.Repository{Owner: ref.Owner, Name: ref.Repo}, data), nil
}

// drain reads a stream to exhaustion, preserving source order
func drain[T any](seq iter.Seq2[T, error]) ([]T, error) {
	items := make([]T, 0)
	for item, err := range seq {
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func project[T, R any](items []T, fn func(T) R) []R {
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}
