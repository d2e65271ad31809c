package service

import (
	"errors"
	"fmt"

	"github.com/ryo246912/pr-metadata-action/internal/submit"
)

// Stream names used in UpstreamFetchError
const (
	StreamPullRequest    = "pull_request"
	StreamComments       = "comments"
	StreamReviews        = "reviews"
	StreamReviewComments = "review_comments"
	StreamTimeline       = "timeline"
)

var (
	// ErrNotPullRequestEvent indicates the workflow was not triggered by a pull request event.
	ErrNotPullRequestEvent = errors.New("This action must be run in the context of a Pull Request event.")
	// ErrSubmissionCancelled indicates the user declined the backfill confirmation.
	ErrSubmissionCancelled = errors.New("submission cancelled")
)

// UpstreamFetchError is a failure while reading PR data from GitHub.
// Aggregation stops at the first one; nothing is submitted.
type UpstreamFetchError struct {
	Stream string
	Err    error
}

func (e *UpstreamFetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.Stream, e.Err)
}

func (e *UpstreamFetchError) Unwrap() error {
	return e.Err
}

// FailureMessage renders err the way it is reported to the runner
func FailureMessage(err error) string {
	var deliveryErr *submit.DeliveryError
	switch {
	case errors.Is(err, ErrNotPullRequestEvent):
		return ErrNotPullRequestEvent.Error()
	case errors.As(err, &deliveryErr):
		return deliveryErr.Error()
	default:
		return fmt.Sprintf("Action failed: %s", err)
	}
}
