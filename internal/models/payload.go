package models

import (
	"errors"
	"time"
)

// Actor is the minimal identity attached to PRs, comments and reviews.
// Every field is nullable: deleted accounts and some bot events carry no user.
type Actor struct {
	ID        *int64  `json:"id"`
	Login     *string `json:"login"`
	AvatarURL *string `json:"avatar_url"`
	Type      *string `json:"type"`
}

// PullRequestSummary is the minimized snapshot of the pull request itself
type PullRequestSummary struct {
	ID             int64      `json:"id"`
	Number         int        `json:"number"`
	Title          string     `json:"title"`
	CreatedAt      *time.Time `json:"created_at"`
	MergedAt       *time.Time `json:"merged_at"`
	Additions      int        `json:"additions"`
	Deletions      int        `json:"deletions"`
	ChangedFiles   int        `json:"changed_files"`
	Comments       int        `json:"comments"`
	ReviewComments int        `json:"review_comments"`
	User           Actor      `json:"user"`
}

// CommentRecord is used for both issue comments and review comments
type CommentRecord struct {
	ID        int64      `json:"id"`
	User      Actor      `json:"user"`
	CreatedAt *time.Time `json:"created_at"`
}

// ReviewRecord is a submitted (or pending) review
type ReviewRecord struct {
	ID          int64      `json:"id"`
	State       string     `json:"state"`
	User        Actor      `json:"user"`
	SubmittedAt *time.Time `json:"submitted_at"`
	Comments    int        `json:"comments"`
}

// TimelineEvent is a single timeline entry; Event is passed through verbatim
type TimelineEvent struct {
	Event     string     `json:"event"`
	CreatedAt *time.Time `json:"created_at"`
}

// Repository identifies the repository the PR belongs to
type Repository struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// PayloadData groups the PR summary with its event streams
type PayloadData struct {
	PullRequest    PullRequestSummary `json:"pull_request"`
	Comments       []CommentRecord    `json:"comments"`
	Reviews        []ReviewRecord     `json:"reviews"`
	ReviewComments []CommentRecord    `json:"review_comments"`
	Timeline       []TimelineEvent    `json:"timeline"`
}

// SubmissionPayload is the body POSTed to the analytics endpoint.
// Field names and nesting are consumed by the receiving schema.
type SubmissionPayload struct {
	Repository Repository  `json:"repository"`
	Data       PayloadData `json:"data"`
}

var (
	// ErrMissingRepository indicates that the payload has no owner or repository name.
	ErrMissingRepository = errors.New("payload repository owner and name are required")
	// ErrInvalidPullRequestNumber indicates that the payload carries a non-positive PR number.
	ErrInvalidPullRequestNumber = errors.New("payload pull request number must be positive")
)

// NewSubmissionPayload assembles a payload, replacing nil sequences with empty ones
// so they serialize as [] rather than null.
func NewSubmissionPayload(repo Repository, data PayloadData) *SubmissionPayload {
	if data.Comments == nil {
		data.Comments = []CommentRecord{}
	}
	if data.Reviews == nil {
		data.Reviews = []ReviewRecord{}
	}
	if data.ReviewComments == nil {
		data.ReviewComments = []CommentRecord{}
	}
	if data.Timeline == nil {
		data.Timeline = []TimelineEvent{}
	}
	return &SubmissionPayload{Repository: repo, Data: data}
}

// Validate checks the fields the receiver keys on
func (p *SubmissionPayload) Validate() error {
	if p.Repository.Owner == "" || p.Repository.Name == "" {
		return ErrMissingRepository
	}
	if p.Data.PullRequest.Number <= 0 {
		return ErrInvalidPullRequestNumber
	}
	return nil
}
